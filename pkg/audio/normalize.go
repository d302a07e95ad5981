package audio

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/wavdenoise/pkg/audio/planar"
)

// Normalize converts the buffer to a mono float64 signal in [-1, 1].
//
// Integer samples are divided by the maximum magnitude of their format
// (the negative extremum lands marginally below -1, which is kept as is).
// Float samples are passed through without rescaling. Multi-channel audio is
// downmixed by averaging the channels of every frame.
//
// A buffer that violates its own invariants (see Buffer) causes a panic.
func Normalize(ctx context.Context, buf *Buffer) Signal {
	buf.checkInvariants()

	var samples []float64
	if buf.Format.IsFloat() {
		samples = buf.FloatData
	} else {
		samples = make([]float64, len(buf.Data))
		maxMagnitude := buf.Format.MaxMagnitude()
		offset := buf.Format.Offset()
		for idx, v := range buf.Data {
			samples[idx] = float64(v-offset) / maxMagnitude
		}
	}

	if buf.Channels > 1 {
		logger.Infof(ctx, "%d-channel audio detected, converting to mono by averaging channels", buf.Channels)
		var err error
		samples, err = Downmix(buf.Channels, samples)
		if err != nil {
			panic(fmt.Errorf("unable to downmix %s: %w", buf, err))
		}
	}

	return Signal{
		SampleRate: buf.SampleRate,
		Format:     buf.Format,
		Samples:    samples,
	}
}

// Downmix averages interleaved channels into one.
func Downmix(channels Channel, interleaved []float64) ([]float64, error) {
	if channels == 1 {
		return interleaved, nil
	}
	planes, err := planar.Planarize(uint(channels), interleaved)
	if err != nil {
		return nil, fmt.Errorf("unable to planarize: %w", err)
	}

	mono := make([]float64, len(planes[0]))
	for _, plane := range planes {
		for idx, v := range plane {
			mono[idx] += v
		}
	}
	for idx := range mono {
		mono[idx] /= float64(channels)
	}
	return mono, nil
}
