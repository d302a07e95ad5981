package planar

import (
	"fmt"
)

// Planarize splits interleaved samples (L R L R ...) into one plane per
// channel (L L ..., R R ...).
func Planarize[T any](channels uint, input []T) ([][]T, error) {
	if channels == 0 {
		return nil, fmt.Errorf("the amount of channels must be positive")
	}
	if len(input)%int(channels) != 0 {
		return nil, fmt.Errorf("expected a message length that is a multiple of %d, but received %d", channels, len(input))
	}

	samplesPerChan := len(input) / int(channels)
	planes := make([][]T, channels)
	for ch := range planes {
		planes[ch] = make([]T, samplesPerChan)
	}

	for samplePos := 0; samplePos < samplesPerChan; samplePos++ {
		inIdxOffset := samplePos * int(channels)
		for ch := 0; ch < int(channels); ch++ {
			planes[ch][samplePos] = input[inIdxOffset+ch]
		}
	}

	return planes, nil
}
