package resampler

import (
	"fmt"
	"math"

	"github.com/xaionaro-go/wavdenoise/pkg/audio"
)

// Resampler converts mono float64 signals between sample rates.
//
// Upsampling interpolates linearly between neighbouring samples.
// Downsampling averages all the input samples that fall into an output
// sample period, which acts as a crude anti-aliasing filter.
type Resampler struct {
	InRate  audio.SampleRate
	OutRate audio.SampleRate
}

func NewResampler(inRate, outRate audio.SampleRate) (*Resampler, error) {
	if inRate == 0 {
		return nil, fmt.Errorf("input sample rate must be positive")
	}
	if outRate == 0 {
		return nil, fmt.Errorf("output sample rate must be positive")
	}
	return &Resampler{
		InRate:  inRate,
		OutRate: outRate,
	}, nil
}

// OutputLength is the amount of samples Resample produces for inLen samples.
func (r *Resampler) OutputLength(inLen int) int {
	return int(math.Round(float64(inLen) * float64(r.OutRate) / float64(r.InRate)))
}

func (r *Resampler) Resample(in []float64) []float64 {
	if r.InRate == r.OutRate {
		out := make([]float64, len(in))
		copy(out, in)
		return out
	}
	if len(in) == 0 {
		return []float64{}
	}

	out := make([]float64, r.OutputLength(len(in)))
	ratio := float64(r.InRate) / float64(r.OutRate)
	for idx := range out {
		pos := float64(idx) * ratio
		if ratio > 1 {
			out[idx] = average(in, pos, pos+ratio)
		} else {
			out[idx] = interpolate(in, pos)
		}
	}
	return out
}

func average(in []float64, from, to float64) float64 {
	start := int(math.Floor(from))
	end := int(math.Ceil(to))
	if end > len(in) {
		end = len(in)
	}
	if start >= end {
		return in[len(in)-1]
	}
	var sum float64
	for _, v := range in[start:end] {
		sum += v
	}
	return sum / float64(end-start)
}

func interpolate(in []float64, pos float64) float64 {
	left := int(math.Floor(pos))
	if left >= len(in)-1 {
		return in[len(in)-1]
	}
	t := pos - float64(left)
	return (1-t)*in[left] + t*in[left+1]
}

// Resample returns the signal converted to the given sample rate.
func Resample(signal audio.Signal, outRate audio.SampleRate) (audio.Signal, error) {
	r, err := NewResampler(signal.SampleRate, outRate)
	if err != nil {
		return audio.Signal{}, err
	}
	return audio.Signal{
		SampleRate: outRate,
		Format:     signal.Format,
		Samples:    r.Resample(signal.Samples),
	}, nil
}
