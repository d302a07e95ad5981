package noisereduction

import (
	"context"
	"io"

	"github.com/xaionaro-go/wavdenoise/pkg/audio"
)

// NoiseReducer removes the noise described by noiseProfile from signal.
// The returned signal has the same length and sample rate as signal.
type NoiseReducer interface {
	io.Closer

	ReduceNoise(
		ctx context.Context,
		signal audio.Signal,
		noiseProfile audio.Signal,
		params Params,
	) (audio.Signal, error)
}

/* for easier copy&paste:

func () Close() error {
}

func () ReduceNoise(
	ctx context.Context,
	signal audio.Signal,
	noiseProfile audio.Signal,
	params noisereduction.Params,
) (audio.Signal, error) {
}

*/
