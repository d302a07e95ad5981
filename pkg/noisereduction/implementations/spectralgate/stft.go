package spectralgate

import (
	"context"
	"math"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
)

// stft is a centered short-time Fourier transform with a Hann window and
// its weighted overlap-add inverse.
//
// Frame f covers the input samples [f*hop - size/2, f*hop + size/2); samples
// outside of the input are zeros.
type stft struct {
	size   int
	hop    int
	window []float64
	fft    *fourier.FFT
}

func newSTFT(size int) *stft {
	return &stft{
		size:   size,
		hop:    size / 4,
		window: window.Hann(size),
		fft:    fourier.NewFFT(size),
	}
}

func (s *stft) bins() int {
	return s.size/2 + 1
}

func (s *stft) frameCount(samples int) int {
	return 1 + (samples+s.hop-1)/s.hop
}

func (s *stft) frameStart(frame int) int {
	return frame*s.hop - s.size/2
}

func (s *stft) forward(ctx context.Context, samples []float64) ([][]complex128, error) {
	frames := make([][]complex128, s.frameCount(len(samples)))
	buf := make([]float64, s.size)
	for frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := s.frameStart(frame)
		for j := range buf {
			idx := start + j
			if idx < 0 || idx >= len(samples) {
				buf[j] = 0
				continue
			}
			buf[j] = samples[idx] * s.window[j]
		}
		frames[frame] = s.fft.Coefficients(nil, buf)
	}
	return frames, nil
}

// inverse reconstructs length samples from the spectrogram, normalizing the
// overlap-add by the sum of squared windows.
func (s *stft) inverse(ctx context.Context, frames [][]complex128, length int) ([]float64, error) {
	out := make([]float64, length)
	windowSum := make([]float64, length)
	buf := make([]float64, s.size)
	scale := 1 / float64(s.size)
	for frame, coeffs := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf = s.fft.Sequence(buf, coeffs)
		start := s.frameStart(frame)
		for j, v := range buf {
			idx := start + j
			if idx < 0 || idx >= length {
				continue
			}
			w := s.window[j]
			out[idx] += v * scale * w
			windowSum[idx] += w * w
		}
	}
	for idx, sum := range windowSum {
		if sum > minWindowSum {
			out[idx] /= sum
		}
	}
	return out, nil
}

const minWindowSum = 1e-10

// decibels converts the magnitude of every bin to dB.
func decibels(frames [][]complex128) [][]float64 {
	result := make([][]float64, len(frames))
	for frame, coeffs := range frames {
		db := make([]float64, len(coeffs))
		for bin, c := range coeffs {
			db[bin] = 20 * math.Log10(math.Hypot(real(c), imag(c))+amplitudeEpsilon)
		}
		result[frame] = db
	}
	return result
}

const amplitudeEpsilon = 2.220446049250313e-16
