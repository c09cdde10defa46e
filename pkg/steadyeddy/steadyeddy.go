package steadyeddy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikesmitty/steady-eddy/pkg/cycle"
	"github.com/mikesmitty/steady-eddy/pkg/harness"
	"github.com/mikesmitty/steady-eddy/pkg/mqtt"
	"github.com/mikesmitty/steady-eddy/pkg/router"
	"github.com/mikesmitty/steady-eddy/pkg/sample"
	"github.com/mikesmitty/steady-eddy/pkg/source"
	"github.com/mikesmitty/steady-eddy/pkg/stats"
	"github.com/mikesmitty/steady-eddy/pkg/swma"
	"github.com/mikesmitty/steady-eddy/pkg/watchdog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func Root() func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		slogOpts := slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		if viper.GetBool("debug") {
			slogOpts.Level = slog.LevelDebug
		}
		log := slog.New(slog.NewTextHandler(os.Stderr, &slogOpts))
		slog.SetDefault(log)

		width := viper.GetInt("sample-width")
		window := viper.GetInt("window-length")
		guard := viper.GetInt("guard-bits")
		wrap := viper.GetBool("wrap")

		codec, err := sample.New(width)
		errChk(err)

		eng, err := swma.New(window, width, guard, wrap)
		errChk(err)
		slog.Debug("engine configured", "window", window, "width", width, "accumulatorBits", eng.AccumulatorBits(), "wrap", wrap)

		in, err := openInput(viper.GetString("input"))
		errChk(err)
		defer in.Close()

		out, err := openLog(viper.GetString("log-file"))
		errChk(err)
		defer out.Close()

		if viper.GetBool("follow") {
			runFollow(codec, eng, in, out)
			return
		}
		runVerify(codec, eng, in, out)
	}
}

// runVerify is the one-shot mode: drive the whole sample file through
// the engine and the golden model, write the cycle log, and exit
// non-zero at the first divergence.
func runVerify(codec *sample.Codec, eng *swma.SlidingWindow, in io.Reader, out io.Writer) {
	samples, err := sample.ReadHex(in, codec)
	errChk(err)
	if len(samples) == 0 {
		errChk(fmt.Errorf("no samples in input"))
	}

	res, err := harness.New(eng).Run(samples)
	errChk(err)
	errChk(harness.WriteLog(out, codec, res.Records))

	outputs := make([]int64, len(res.Records))
	for i, rec := range res.Records {
		outputs[i] = rec.Engine
	}
	slog.Info("input stats", "summary", stats.Summarize(samples).String(), "p5Spread", fmt.Sprintf("%.1f", stats.QuantileSpread(samples, 0.05)))
	slog.Info("output stats", "summary", stats.Summarize(outputs).String())

	if n, ok := res.Diverged(); ok {
		rec := res.Records[n]
		slog.Error("verification failed",
			"cycle", n,
			"input", codec.EncodeBin(rec.Input),
			"engine", codec.EncodeBin(rec.Engine),
			"reference", codec.EncodeBin(rec.Reference),
		)
		os.Exit(1)
	}
	slog.Info("verification passed", "cycles", len(res.Records), "window", eng.WindowSize())
}

// runFollow is the live mode: pace samples from the input on an
// interval, fan the engine's outputs to the cycle log, mqtt, and the
// stall watchdog, and run until the stream ends or a signal arrives.
func runFollow(codec *sample.Codec, eng *swma.SlidingWindow, in io.Reader, out io.Writer) {
	ctx, cancelFunc := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(-1)

	interval := viper.GetDuration("interval")
	sampleCh, sampleFn := source.SampleChannel(ctx, in, codec, interval)
	slog.Debug("starting sample source", "interval", interval)
	g.Go(sampleFn)

	cycleCh, engReset, averagerFn := cycle.NewAverager(eng, sampleCh)
	slog.Debug("starting averager")
	g.Go(averagerFn)
	cycleFan := router.NewFan[cycle.Cycle]("cycles", cycleCh)
	g.Go(cycleFan.Run)

	// Cycle log
	logCh := cycleFan.Subscribe("log")
	g.Go(func() error {
		defer cancelFunc()
		for cyc := range logCh {
			_, err := fmt.Fprintf(out, "Input: %s | Output: %s\n", codec.EncodeBin(cyc.Input), codec.EncodeBin(cyc.Output))
			if err != nil {
				return err
			}
		}
		slog.Info("sample stream finished")
		return nil
	})

	// MQTT
	if broker := viper.GetString("mqtt-broker"); broker != "" {
		mqttUrl, err := url.Parse(broker)
		errChk(err)
		mc := mqtt.NewClient(mqttUrl, viper.GetInt("mqtt-sample-interval"))
		errChk(mc.Connect())
		g.Go(mc.GetPublisher(cycleFan.Subscribe("mqtt")))
		errChk(mc.HomeAssistant())
		// Momentary switch that clears the window and accumulator on
		// the next cycle
		g.Go(mc.SwitchFn("window-reset", engReset, func() {}, func() bool { return false }))
	}

	// Watchdog
	watchdogTimeout := viper.GetDuration("watchdog-timeout")
	g.Go(watchdog.NewWatchdog(watchdogTimeout, func() error {
		cancelFunc()
		return nil
	}, cycleFan.Subscribe("watchdog")))

	// Signal handling
	chanSignal := make(chan os.Signal, 1)
	signal.Notify(chanSignal, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)

	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-chanSignal:
			slog.Info("shutting down...")
			cancelFunc()
		}
		return nil
	})

	slog.Debug("waiting for goroutines to finish")
	err := g.Wait()
	errChk(err)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openLog(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func errChk(err error) {
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
