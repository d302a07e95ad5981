package denoiser

import (
	"context"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/wavdenoise/pkg/audio"
	"github.com/xaionaro-go/wavdenoise/pkg/wavfile"
)

type fixture struct {
	sampleRate  audio.SampleRate
	channels    audio.Channel
	seconds     float64
	noiseLevel  float64
	toneHz      float64
	toneLevel   float64
	toneFromSec float64
	seed        int64
}

func (f fixture) samples() []float64 {
	rng := rand.New(rand.NewSource(f.seed))
	n := int(math.Round(f.seconds * float64(f.sampleRate)))
	toneFrom := int(math.Round(f.toneFromSec * float64(f.sampleRate)))
	samples := make([]float64, n)
	for i := range samples {
		v := rng.NormFloat64() * f.noiseLevel
		if f.toneLevel > 0 && i >= toneFrom {
			v += f.toneLevel * math.Sin(2*math.Pi*f.toneHz*float64(i)/float64(f.sampleRate))
		}
		samples[i] = v
	}
	return samples
}

// write stores the fixture as 16-bit PCM, repeating each sample over all
// the channels.
func (f fixture) write(t *testing.T, name string) string {
	channels := max(f.channels, 1)
	format := audio.PCMFormatS16LE
	samples := f.samples()
	data := make([]int, 0, len(samples)*int(channels))
	for _, v := range samples {
		s := int(math.Round(v * format.MaxMagnitude()))
		s = min(max(s, math.MinInt16), math.MaxInt16)
		for c := audio.Channel(0); c < channels; c++ {
			data = append(data, s)
		}
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, wavfile.Write(context.Background(), path, &audio.Buffer{
		Format:     format,
		SampleRate: f.sampleRate,
		Channels:   channels,
		Data:       data,
	}))
	return path
}

func noisyTone() fixture {
	return fixture{
		sampleRate:  8000,
		channels:    1,
		seconds:     1,
		noiseLevel:  0.01,
		toneHz:      1000,
		toneLevel:   0.5,
		toneFromSec: 0.5,
		seed:        4,
	}
}
