// Package source turns a hex sample file into a paced stream, one
// sample per tick, for follow mode.
package source

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mikesmitty/steady-eddy/pkg/sample"
)

func SampleChannel(ctx context.Context, r io.Reader, codec *sample.Codec, interval time.Duration) (<-chan int64, func() error) {
	c := make(chan int64, 1)
	ctx, cancelFunc := context.WithCancel(ctx)
	return c, func() error {
		defer cancelFunc()
		defer close(c)
		done := ctx.Done()
		scanner := bufio.NewScanner(r)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		line := 0
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				token := ""
				for token == "" {
					if !scanner.Scan() {
						if err := scanner.Err(); err != nil {
							return err
						}
						slog.Debug("sample stream exhausted", "lines", line, "module", "source")
						return nil
					}
					line++
					token = sample.TrimToken(scanner.Text())
				}
				v, err := codec.DecodeHex(token)
				if err != nil {
					if fe, ok := err.(*sample.FormatError); ok {
						fe.Line = line
					}
					return err
				}
				slog.Debug("publishing sample", "value", v, "module", "source")
				c <- v
			}
		}
	}
}
