// Package analysis measures level and spectral statistics of a signal, to
// compare the audio before and after noise reduction.
package analysis

import (
	"math"

	"github.com/brettbuddin/fourier"
	"github.com/mjibson/go-dsp/window"
	"github.com/xaionaro-go/wavdenoise/pkg/audio"
	"gonum.org/v1/gonum/floats"
)

const (
	// SilenceDBFS is reported for levels of digital silence.
	SilenceDBFS = -200

	// MaxSpectrumWindow is the longest frame used to find the dominant
	// frequency.
	MaxSpectrumWindow = 4096
)

type Report struct {
	DurationSeconds      float64 `yaml:"duration_seconds"`
	Samples              int     `yaml:"samples"`
	RMSDBFS              float64 `yaml:"rms_dbfs"`
	PeakDBFS             float64 `yaml:"peak_dbfs"`
	NoiseSegmentRMSDBFS  float64 `yaml:"noise_segment_rms_dbfs"`
	SignalSegmentRMSDBFS float64 `yaml:"signal_segment_rms_dbfs"`
	SegmentSNRDB         float64 `yaml:"segment_snr_db"`
	DominantFrequencyHz  float64 `yaml:"dominant_frequency_hz"`
}

// Analyze measures the signal. The first noiseSamples samples are treated
// as the noise-only segment when computing the segment SNR.
func Analyze(signal audio.Signal, noiseSamples int) Report {
	noiseSamples = min(max(noiseSamples, 0), signal.Len())
	noise := signal.Samples[:noiseSamples]
	rest := signal.Samples[noiseSamples:]

	r := Report{
		DurationSeconds:      signal.Duration().Seconds(),
		Samples:              signal.Len(),
		RMSDBFS:              DBFS(RMS(signal.Samples)),
		PeakDBFS:             DBFS(Peak(signal.Samples)),
		NoiseSegmentRMSDBFS:  DBFS(RMS(noise)),
		SignalSegmentRMSDBFS: DBFS(RMS(rest)),
		DominantFrequencyHz:  DominantFrequency(signal),
	}
	r.SegmentSNRDB = r.SignalSegmentRMSDBFS - r.NoiseSegmentRMSDBFS
	return r
}

func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(samples, samples) / float64(len(samples)))
}

func Peak(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return math.Max(floats.Max(samples), -floats.Min(samples))
}

// DBFS converts a linear level relative to full scale into dB, flooring at
// SilenceDBFS.
func DBFS(level float64) float64 {
	if level <= 0 {
		return SilenceDBFS
	}
	return math.Max(20*math.Log10(level), SilenceDBFS)
}

// DominantFrequency returns the frequency of the strongest bin of the
// averaged Hann-windowed power spectrum, or 0 for too short signals.
// Frames overlap by half and the last one ends at the end of the signal.
func DominantFrequency(signal audio.Signal) float64 {
	size := 1
	for size*2 <= min(signal.Len(), MaxSpectrumWindow) {
		size *= 2
	}
	if size < 4 || signal.SampleRate == 0 {
		return 0
	}

	hann := window.Hann(size)
	power := make([]float64, size/2+1)
	buf := make([]complex128, size)
	for _, start := range frameStarts(signal.Len(), size) {
		for idx := range buf {
			buf[idx] = complex(signal.Samples[start+idx]*hann[idx], 0)
		}
		if err := fourier.Forward(buf); err != nil {
			return 0
		}
		for bin := range power {
			power[bin] += real(buf[bin])*real(buf[bin]) + imag(buf[bin])*imag(buf[bin])
		}
	}

	peakBin := 1
	for bin := 2; bin < len(power); bin++ {
		if power[bin] > power[peakBin] {
			peakBin = bin
		}
	}
	if power[peakBin] == 0 {
		return 0
	}
	return float64(peakBin) * float64(signal.SampleRate) / float64(size)
}

func frameStarts(length, size int) []int {
	var starts []int
	start := 0
	for ; start+size <= length; start += size / 2 {
		starts = append(starts, start)
	}
	if last := length - size; last > starts[len(starts)-1] {
		starts = append(starts, last)
	}
	return starts
}
