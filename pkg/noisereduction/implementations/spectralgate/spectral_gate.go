// Package spectralgate implements stationary noise reduction by spectral
// gating.
//
// The noise profile is transformed with an STFT and, for every frequency
// bin, a threshold is derived from the mean and the standard deviation of
// its magnitude in dB. Bins of the signal whose magnitude is above the
// threshold are considered signal, the rest is considered noise. The
// resulting binary mask is smoothed over frequency and time to avoid
// musical-noise artifacts, scaled by the requested proportion of
// decrease, and applied to the STFT of the signal, which is then
// transformed back with a weighted overlap-add.
package spectralgate

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/wavdenoise/pkg/audio"
	"github.com/xaionaro-go/wavdenoise/pkg/noisereduction"
)

const (
	// DefaultFFTSize is the STFT frame length in samples.
	DefaultFFTSize = 1024

	// DefaultNStdThreshold is how many standard deviations above the mean
	// noise level a bin must be to be kept as signal.
	DefaultNStdThreshold = 1.5

	// DefaultFreqMaskSmoothHz is the frequency span the mask is smoothed over.
	DefaultFreqMaskSmoothHz = 500

	// DefaultTimeMaskSmoothMs is the time span the mask is smoothed over.
	DefaultTimeMaskSmoothMs = 50

	minFFTSize = 16
)

type SpectralGate struct {
	FFTSize          int
	NStdThreshold    float64
	FreqMaskSmoothHz float64
	TimeMaskSmoothMs float64
}

var _ noisereduction.NoiseReducer = (*SpectralGate)(nil)

func New() *SpectralGate {
	return &SpectralGate{
		FFTSize:          DefaultFFTSize,
		NStdThreshold:    DefaultNStdThreshold,
		FreqMaskSmoothHz: DefaultFreqMaskSmoothHz,
		TimeMaskSmoothMs: DefaultTimeMaskSmoothMs,
	}
}

func (g *SpectralGate) Close() error {
	return nil
}

// fftSizeFor shrinks the frame down to the largest power of two that fits
// into signals shorter than FFTSize.
func (g *SpectralGate) fftSizeFor(samples int) int {
	size := g.FFTSize
	for size > minFFTSize && size > samples {
		size /= 2
	}
	return size
}

func (g *SpectralGate) ReduceNoise(
	ctx context.Context,
	signal audio.Signal,
	noiseProfile audio.Signal,
	params noisereduction.Params,
) (_ret audio.Signal, _err error) {
	logger.Tracef(ctx, "ReduceNoise, len:%d, noise len:%d, params:%+v", signal.Len(), noiseProfile.Len(), params)
	defer func() { logger.Tracef(ctx, "/ReduceNoise, len:%d: %v", signal.Len(), _err) }()

	if err := noisereduction.CheckInputs(signal, noiseProfile, params); err != nil {
		return audio.Signal{}, err
	}
	if g.FFTSize < minFFTSize || g.FFTSize%4 != 0 {
		return audio.Signal{}, fmt.Errorf("the FFT size must be a multiple of 4 and at least %d, got %d", minFFTSize, g.FFTSize)
	}

	t := newSTFT(g.fftSizeFor(signal.Len()))
	sampleRate := float64(signal.SampleRate)
	freqHalfWidth := int(g.FreqMaskSmoothHz / (sampleRate / float64(t.size/2)))
	timeHalfWidth := int(g.TimeMaskSmoothMs / (float64(t.hop) / sampleRate * 1000))
	logger.Debugf(ctx, "spectral gating: fft:%d hop:%d, mask smoothing: %d bins x %d frames",
		t.size, t.hop, freqHalfWidth, timeHalfWidth)

	noiseSpectrum, err := t.forward(ctx, noiseProfile.Samples)
	if err != nil {
		return audio.Signal{}, fmt.Errorf("unable to transform the noise profile: %w", err)
	}
	threshold := noiseThreshold(decibels(noiseSpectrum), g.NStdThreshold)

	spectrum, err := t.forward(ctx, signal.Samples)
	if err != nil {
		return audio.Signal{}, fmt.Errorf("unable to transform the signal: %w", err)
	}

	mask := make([][]float64, len(spectrum))
	var keptBins int
	for frame, db := range decibels(spectrum) {
		row := make([]float64, len(db))
		for bin, v := range db {
			if v > threshold[bin] {
				row[bin] = 1
				keptBins++
			}
		}
		mask[frame] = row
	}
	logger.Debugf(ctx, "%d of %d time-frequency bins are above the noise threshold", keptBins, len(spectrum)*t.bins())

	smoothMask(mask, triangularKernel(freqHalfWidth), triangularKernel(timeHalfWidth))

	prop := params.PropDecrease
	for frame, row := range mask {
		coeffs := spectrum[frame]
		for bin, m := range row {
			gain := m*prop + (1 - prop)
			coeffs[bin] *= complex(gain, 0)
		}
	}

	samples, err := t.inverse(ctx, spectrum, signal.Len())
	if err != nil {
		return audio.Signal{}, fmt.Errorf("unable to transform the signal back: %w", err)
	}
	return signal.WithSamples(samples), nil
}
