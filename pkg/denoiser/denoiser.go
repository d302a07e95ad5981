// Package denoiser runs the whole noise reduction of a WAV file: loading,
// normalization, noise profiling, reduction, rescaling and writing.
package denoiser

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/wavdenoise/pkg/analysis"
	"github.com/xaionaro-go/wavdenoise/pkg/audio"
	"github.com/xaionaro-go/wavdenoise/pkg/noiseprofile"
	"github.com/xaionaro-go/wavdenoise/pkg/noisereduction"
	"github.com/xaionaro-go/wavdenoise/pkg/wavfile"
)

type Denoiser struct {
	Config       Config
	NoiseReducer noisereduction.NoiseReducer
}

type Result struct {
	OutputPath string
	SampleRate audio.SampleRate
	Format     audio.PCMFormat
	Samples    int
	Before     analysis.Report
	After      analysis.Report
}

func New(
	cfg Config,
	noiseReducer noisereduction.NoiseReducer,
) (*Denoiser, error) {
	if noiseReducer == nil {
		return nil, fmt.Errorf("a noise reducer is mandatory")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Denoiser{
		Config:       cfg,
		NoiseReducer: noiseReducer,
	}, nil
}

func (d *Denoiser) Close() error {
	return d.NoiseReducer.Close()
}

func (d *Denoiser) Run(ctx context.Context) (_ret *Result, _err error) {
	logger.Tracef(ctx, "Run")
	defer func() { logger.Tracef(ctx, "/Run: %v", _err) }()

	cfg := d.Config

	buf, err := wavfile.Load(ctx, cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("unable to load the input: %w", err)
	}
	logger.Infof(ctx, "loaded '%s': %d Hz, %d channel(s), %s, %.2f seconds",
		cfg.Input, buf.SampleRate, buf.Channels, buf.Format, buf.Duration().Seconds())

	signal := audio.Normalize(ctx, buf)

	noiseProfile, profileDescription, err := d.noiseProfile(ctx, signal)
	if err != nil {
		return nil, err
	}

	noiseSegment := d.analysisNoiseSegment(signal)
	before := analysis.Analyze(signal, noiseSegment)
	logger.Debugf(ctx, "before: %+v", before)

	logger.Infof(ctx, "performing noise reduction on %.2f seconds of audio...", signal.Duration().Seconds())
	reduced, err := d.NoiseReducer.ReduceNoise(ctx, signal, noiseProfile, cfg.Params())
	if err != nil {
		return nil, fmt.Errorf("unable to reduce the noise: %w", err)
	}
	if reduced.Len() != signal.Len() {
		return nil, fmt.Errorf("the noise reducer %T changed the length of the signal: %d != %d", d.NoiseReducer, reduced.Len(), signal.Len())
	}
	logger.Infof(ctx, "reduction complete")

	after := analysis.Analyze(reduced, noiseSegment)
	logger.Debugf(ctx, "after: %+v", after)
	logger.Infof(ctx, "noise segment level: %.1f dBFS -> %.1f dBFS", before.NoiseSegmentRMSDBFS, after.NoiseSegmentRMSDBFS)

	out := audio.Rescale(reduced, signal.Format)
	if err := wavfile.Write(ctx, cfg.Output, out); err != nil {
		return nil, fmt.Errorf("unable to save the output: %w", err)
	}

	if cfg.ReportPath != "" {
		comparison := analysis.NewComparison(cfg.Input, cfg.Output, profileDescription, before, after)
		if err := comparison.WriteYAML(ctx, cfg.ReportPath); err != nil {
			logger.Errorf(ctx, "unable to write the report: %v", err)
		}
	}

	return &Result{
		OutputPath: cfg.Output,
		SampleRate: out.SampleRate,
		Format:     out.Format,
		Samples:    out.Len(),
		Before:     before,
		After:      after,
	}, nil
}

func (d *Denoiser) noiseProfile(
	ctx context.Context,
	signal audio.Signal,
) (audio.Signal, string, error) {
	cfg := d.Config
	if cfg.HasSeparateNoiseFile() {
		profile, err := noiseprofile.FromFile(ctx, cfg.NoiseFile, signal.SampleRate)
		if err != nil {
			return audio.Signal{}, "", fmt.Errorf("unable to get the noise profile: %w", err)
		}
		return profile, cfg.NoiseFile, nil
	}

	profile, err := noiseprofile.FromLeadingSegment(ctx, signal, cfg.NoiseSeconds)
	if err != nil {
		return audio.Signal{}, "", fmt.Errorf("unable to get the noise profile: %w", err)
	}
	return profile, fmt.Sprintf("leading %gs", cfg.NoiseSeconds), nil
}

// analysisNoiseSegment is the amount of leading samples the before/after
// analysis treats as noise. With a separate noise file NoiseSeconds may be
// unset, then DefaultNoiseSeconds is used, limited to half of the signal.
func (d *Denoiser) analysisNoiseSegment(signal audio.Signal) int {
	seconds := d.Config.NoiseSeconds
	if !d.Config.HasSeparateNoiseFile() {
		return noiseprofile.SegmentLength(signal.SampleRate, seconds)
	}
	if !(seconds > 0) {
		seconds = DefaultNoiseSeconds
	}
	return min(noiseprofile.SegmentLength(signal.SampleRate, seconds), signal.Len()/2)
}

// Run denoises with the given reducer and config in one call.
func Run(
	ctx context.Context,
	cfg Config,
	noiseReducer noisereduction.NoiseReducer,
) (*Result, error) {
	d, err := New(cfg, noiseReducer)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return d.Run(ctx)
}
