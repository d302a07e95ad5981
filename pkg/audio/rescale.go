package audio

import (
	"math"
)

// Rescale converts a normalized signal back to a mono buffer of the given
// format. Integer samples are rounded and clamped to the range of the
// format, so out-of-range values saturate instead of wrapping around.
func Rescale(signal Signal, format PCMFormat) *Buffer {
	buf := &Buffer{
		Format:     format,
		SampleRate: signal.SampleRate,
		Channels:   1,
	}

	if format.IsFloat() {
		buf.FloatData = make([]float64, len(signal.Samples))
		copy(buf.FloatData, signal.Samples)
		return buf
	}

	maxMagnitude := format.MaxMagnitude()
	offset := format.Offset()
	minValue, maxValue := format.Range()
	buf.Data = make([]int, len(signal.Samples))
	for idx, v := range signal.Samples {
		scaled := math.Round(v*maxMagnitude) + float64(offset)
		switch {
		case math.IsNaN(scaled):
			scaled = float64(offset)
		case scaled < float64(minValue):
			scaled = float64(minValue)
		case scaled > float64(maxValue):
			scaled = float64(maxValue)
		}
		buf.Data[idx] = int(scaled)
	}
	return buf
}
