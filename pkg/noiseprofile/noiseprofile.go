// Package noiseprofile extracts the noise-only reference that the noise
// reduction estimates the noise spectrum from.
package noiseprofile

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/wavdenoise/pkg/audio"
	"github.com/xaionaro-go/wavdenoise/pkg/audio/resampler"
	"github.com/xaionaro-go/wavdenoise/pkg/wavfile"
)

var (
	ErrAudioTooShort   = errors.New("audio is too short to estimate noise from the start")
	ErrEmptyProfile    = errors.New("noise profile is empty")
	ErrInvalidDuration = errors.New("invalid noise estimate duration")
)

// SegmentLength is round(sampleRate * seconds).
func SegmentLength(sampleRate audio.SampleRate, seconds float64) int {
	return int(math.Round(float64(sampleRate) * seconds))
}

// FromLeadingSegment returns the first SegmentLength samples of the signal.
// The segment must be strictly shorter than the signal.
func FromLeadingSegment(
	ctx context.Context,
	signal audio.Signal,
	seconds float64,
) (audio.Signal, error) {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return audio.Signal{}, fmt.Errorf("%w: %v seconds", ErrInvalidDuration, seconds)
	}
	noiseLen := SegmentLength(signal.SampleRate, seconds)
	if noiseLen >= signal.Len() {
		return audio.Signal{}, fmt.Errorf(
			"%w: the noise segment is %d samples (%.3fs), but the audio has only %d samples (%.3fs)",
			ErrAudioTooShort, noiseLen, seconds, signal.Len(), signal.Duration().Seconds(),
		)
	}
	if noiseLen == 0 {
		return audio.Signal{}, fmt.Errorf("%w: %vs at %dHz is zero samples", ErrEmptyProfile, seconds, signal.SampleRate)
	}
	logger.Debugf(ctx, "using the first %d samples as the noise profile", noiseLen)
	return signal.Slice(0, noiseLen), nil
}

// FromFile loads a separate noise-only recording and returns the whole of
// it as the profile, resampled to sampleRate if needed.
func FromFile(
	ctx context.Context,
	path string,
	sampleRate audio.SampleRate,
) (audio.Signal, error) {
	buf, err := wavfile.Load(ctx, path)
	if err != nil {
		return audio.Signal{}, fmt.Errorf("unable to load the noise file: %w", err)
	}
	profile := audio.Normalize(ctx, buf)
	if profile.SampleRate != sampleRate {
		logger.Infof(ctx, "resampling the noise profile from %dHz to %dHz", profile.SampleRate, sampleRate)
		profile, err = resampler.Resample(profile, sampleRate)
		if err != nil {
			return audio.Signal{}, fmt.Errorf("unable to resample the noise profile: %w", err)
		}
	}
	if profile.Len() == 0 {
		return audio.Signal{}, fmt.Errorf("%w: '%s' contains no samples", ErrEmptyProfile, path)
	}
	logger.Debugf(ctx, "using %d samples from '%s' as the noise profile", profile.Len(), path)
	return profile, nil
}
