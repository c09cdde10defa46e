package sample

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadHex reads one hex sample token per line until EOF. Blank lines
// are skipped. Parse failures carry the offending line number.
func ReadHex(r io.Reader, c *Codec) ([]int64, error) {
	var samples []int64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		token := TrimToken(scanner.Text())
		if token == "" {
			continue
		}
		v, err := c.DecodeHex(token)
		if err != nil {
			if fe, ok := err.(*FormatError); ok {
				fe.Line = line
			}
			return nil, err
		}
		samples = append(samples, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}
	return samples, nil
}

// TrimToken strips surrounding whitespace and an optional 0x prefix
// from a sample line. Every input path goes through this so file and
// stream parsing cannot drift apart.
func TrimToken(line string) string {
	return strings.TrimPrefix(strings.TrimSpace(line), "0x")
}
