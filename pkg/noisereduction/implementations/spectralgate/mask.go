package spectralgate

import (
	"math"
)

// noiseThreshold returns mean + nStd*std of the dB magnitude of every
// frequency bin over all the noise frames.
func noiseThreshold(noiseDB [][]float64, nStd float64) []float64 {
	bins := len(noiseDB[0])
	mean := make([]float64, bins)
	for _, frame := range noiseDB {
		for bin, v := range frame {
			mean[bin] += v
		}
	}
	for bin := range mean {
		mean[bin] /= float64(len(noiseDB))
	}

	threshold := make([]float64, bins)
	for bin := range threshold {
		var variance float64
		for _, frame := range noiseDB {
			d := frame[bin] - mean[bin]
			variance += d * d
		}
		variance /= float64(len(noiseDB))
		threshold[bin] = mean[bin] + nStd*math.Sqrt(variance)
	}
	return threshold
}

// triangularKernel is a unit-sum triangle of length 2*halfWidth+1.
func triangularKernel(halfWidth int) []float64 {
	if halfWidth < 1 {
		return []float64{1}
	}
	kernel := make([]float64, 2*halfWidth+1)
	norm := float64(halfWidth + 1)
	for i := 0; i <= halfWidth; i++ {
		v := float64(i+1) / norm
		kernel[i] = v
		kernel[len(kernel)-1-i] = v
	}
	var sum float64
	for _, v := range kernel {
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// convolveSame convolves in with a symmetric kernel, treating samples
// outside of in as zeros, and keeps the central len(in) values.
func convolveSame(out, in, kernel []float64) {
	half := len(kernel) / 2
	for i := range out {
		var sum float64
		for k, w := range kernel {
			idx := i + k - half
			if idx < 0 || idx >= len(in) {
				continue
			}
			sum += in[idx] * w
		}
		out[i] = sum
	}
}

// smoothMask applies the separable kernel freqKernel x timeKernel to the
// [frame][bin] mask in place.
func smoothMask(mask [][]float64, freqKernel, timeKernel []float64) {
	if len(freqKernel) > 1 {
		tmp := make([]float64, len(mask[0]))
		for _, frame := range mask {
			convolveSame(tmp, frame, freqKernel)
			copy(frame, tmp)
		}
	}
	if len(timeKernel) > 1 {
		column := make([]float64, len(mask))
		tmp := make([]float64, len(mask))
		for bin := range mask[0] {
			for frame := range mask {
				column[frame] = mask[frame][bin]
			}
			convolveSame(tmp, column, timeKernel)
			for frame := range mask {
				mask[frame][bin] = tmp[frame]
			}
		}
	}
}
