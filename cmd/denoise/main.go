package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/wavdenoise/pkg/denoiser"
	"github.com/xaionaro-go/wavdenoise/pkg/noisereduction/implementations/spectralgate"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeUsage   = 2
)

const usage = "usage: denoise [flags] <input.wav> [<output.wav>]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := denoiser.DefaultConfig()

	flags := pflag.NewFlagSet("denoise", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	loggerLevel := logger.LevelInfo
	flags.Var(&loggerLevel, "log-level", "Log level")
	configPath := flags.String("config", "", "path to a YAML config file; flags override its values")
	output := flags.String("output", defaults.Output, "the path of the cleaned WAV file; the second argument also sets it")
	noiseFile := flags.String("noise-file", "", "a separate noise-only WAV file to build the noise profile from")
	noiseSeconds := flags.Float64("noise-seconds", defaults.NoiseSeconds, "the duration of the leading noise-only segment of the input")
	propDecrease := flags.Float64("prop-decrease", defaults.PropDecrease, "how much to reduce the noise, from 0 (nothing) to 1 (fully)")
	stationary := flags.Bool("stationary", defaults.Stationary, "assume the noise is stationary (the only supported mode)")
	reportPath := flags.String("report", "", "a path to store the before/after analysis as YAML")
	netPprofAddr := flags.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(stdout, usage)
			flags.SetOutput(stdout)
			flags.PrintDefaults()
			return exitCodeSuccess
		}
		fmt.Fprintf(stderr, "error: %v; %s\n", err, usage)
		return exitCodeUsage
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func() { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	cfg := defaults
	if *configPath != "" {
		if err := denoiser.LoadConfigFile(*configPath, &cfg); err != nil {
			return reportError(stderr, err)
		}
	}

	switch flags.NArg() {
	case 0:
		if cfg.Input == "" {
			fmt.Fprintln(stderr, usage)
			return exitCodeUsage
		}
	case 1:
		cfg.Input = flags.Arg(0)
	case 2:
		cfg.Input = flags.Arg(0)
		cfg.Output = flags.Arg(1)
	default:
		fmt.Fprintln(stderr, usage)
		return exitCodeUsage
	}

	if flags.Changed("output") {
		if flags.NArg() == 2 && *output != flags.Arg(1) {
			return reportError(stderr, fmt.Errorf("%w: the output is given both as --output and as an argument", denoiser.ErrInvalidConfig))
		}
		cfg.Output = *output
	}
	if flags.Changed("noise-file") {
		cfg.NoiseFile = *noiseFile
	}
	if flags.Changed("noise-seconds") {
		cfg.NoiseSeconds = *noiseSeconds
	}
	if flags.Changed("prop-decrease") {
		cfg.PropDecrease = *propDecrease
	}
	if flags.Changed("stationary") {
		cfg.Stationary = *stationary
	}
	if flags.Changed("report") {
		cfg.ReportPath = *reportPath
	}
	logger.Debugf(ctx, "config: %#+v", cfg)

	result, err := denoiser.Run(ctx, cfg, spectralgate.New())
	if err != nil {
		return reportError(stderr, err)
	}

	fmt.Fprintf(stdout, "Successfully cleaned audio saved to '%s'\n", result.OutputPath)
	return exitCodeSuccess
}

// reportError prints the single diagnostic line and maps err to an exit code.
func reportError(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "error: %v\n", err)
	if errors.Is(err, denoiser.ErrInvalidConfig) {
		return exitCodeUsage
	}
	return exitCodeFailure
}
