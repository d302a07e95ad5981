package spectralgate

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/wavdenoise/pkg/audio"
	"github.com/xaionaro-go/wavdenoise/pkg/noisereduction"
	"gonum.org/v1/gonum/floats"
)

const sampleRate = 8000

func whiteNoise(rng *rand.Rand, n int, amplitude float64) []float64 {
	s := make([]float64, n)
	for idx := range s {
		s[idx] = (rng.Float64()*2 - 1) * amplitude
	}
	return s
}

func energy(s []float64) float64 {
	return floats.Dot(s, s)
}

func params(prop float64) noisereduction.Params {
	return noisereduction.Params{PropDecrease: prop, Stationary: true}
}

func TestSTFTRoundTrip(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 17, 1000, 1024, 4321} {
		for _, size := range []int{16, 256, 1024} {
			in := whiteNoise(rng, n, 1)
			s := newSTFT(size)
			spectrum, err := s.forward(ctx, in)
			require.NoError(t, err)
			out, err := s.inverse(ctx, spectrum, n)
			require.NoError(t, err)
			require.InDeltaSlice(t, in, out, 1e-9, "n:%d size:%d", n, size)
		}
	}
}

func TestTriangularKernel(t *testing.T) {
	assert.Equal(t, []float64{1}, triangularKernel(0))
	assert.InDeltaSlice(t, []float64{0.25, 0.5, 0.25}, triangularKernel(1), 1e-12)
	k := triangularKernel(32)
	require.Len(t, k, 65)
	assert.InDelta(t, 1, floats.Sum(k), 1e-12)
	assert.Equal(t, floats.Max(k), k[32])
}

func TestReduceNoisePropDecreaseZero(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(2))
	samples := whiteNoise(rng, sampleRate, 0.3)
	signal := audio.Signal{SampleRate: sampleRate, Format: audio.PCMFormatS16LE, Samples: samples}

	out, err := New().ReduceNoise(ctx, signal, signal.Slice(0, sampleRate/2), params(0))
	require.NoError(t, err)
	require.Equal(t, signal.Len(), out.Len())
	require.Equal(t, signal.SampleRate, out.SampleRate)
	require.Equal(t, signal.Format, out.Format)
	require.InDeltaSlice(t, samples, out.Samples, 1e-9)
}

func TestReduceNoisePropDecreaseOne(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(3))
	samples := whiteNoise(rng, 2*sampleRate, 0.1)
	signal := audio.Signal{SampleRate: sampleRate, Samples: samples}

	out, err := New().ReduceNoise(ctx, signal, signal.Slice(0, sampleRate/2), params(1))
	require.NoError(t, err)
	require.Equal(t, signal.Len(), out.Len())
	assert.Less(t, energy(out.Samples), 0.1*energy(samples))

	half, err := New().ReduceNoise(ctx, signal, signal.Slice(0, sampleRate/2), params(0.5))
	require.NoError(t, err)
	assert.Less(t, energy(out.Samples), energy(half.Samples))
	assert.Less(t, energy(half.Samples), energy(samples))
}

func TestReduceNoiseKeepsTone(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(4))
	const toneFreq = 1000
	n := sampleRate
	samples := whiteNoise(rng, n, 0.01)
	for idx := n / 2; idx < n; idx++ {
		samples[idx] += 0.5 * math.Sin(2*math.Pi*toneFreq*float64(idx)/sampleRate)
	}
	signal := audio.Signal{SampleRate: sampleRate, Samples: samples}

	out, err := New().ReduceNoise(ctx, signal, signal.Slice(0, n/2), noisereduction.DefaultParams())
	require.NoError(t, err)

	noiseBefore := energy(samples[:n/2-DefaultFFTSize])
	noiseAfter := energy(out.Samples[:n/2-DefaultFFTSize])
	toneBefore := energy(samples[n/2:])
	toneAfter := energy(out.Samples[n/2:])
	assert.Less(t, noiseAfter, noiseBefore/10)
	assert.Greater(t, toneAfter/noiseAfter, 2*toneBefore/noiseBefore)

	// the tone must still be the dominant component of the output
	spectrum := fft.FFTReal(out.Samples[n/2 : n/2+2048])
	peakBin := 0
	for bin := 1; bin < len(spectrum)/2; bin++ {
		if cmplxAbs(spectrum[bin]) > cmplxAbs(spectrum[peakBin]) {
			peakBin = bin
		}
	}
	assert.InDelta(t, toneFreq, float64(peakBin)*sampleRate/2048, sampleRate/2048.0)
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func TestReduceNoiseSilence(t *testing.T) {
	ctx := context.Background()
	signal := audio.Signal{SampleRate: sampleRate, Samples: make([]float64, 3000)}
	out, err := New().ReduceNoise(ctx, signal, signal.Slice(0, 1000), noisereduction.DefaultParams())
	require.NoError(t, err)
	for _, v := range out.Samples {
		require.Zero(t, v)
	}
}

func TestReduceNoiseShortSignal(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(5))
	signal := audio.Signal{SampleRate: sampleRate, Samples: whiteNoise(rng, 100, 0.5)}
	out, err := New().ReduceNoise(ctx, signal, signal.Slice(0, 40), params(0))
	require.NoError(t, err)
	require.InDeltaSlice(t, signal.Samples, out.Samples, 1e-9)
}

func TestReduceNoiseErrors(t *testing.T) {
	ctx := context.Background()
	signal := audio.Signal{SampleRate: sampleRate, Samples: make([]float64, 100)}
	g := New()

	_, err := g.ReduceNoise(ctx, signal, audio.Signal{SampleRate: sampleRate}, params(0.5))
	assert.Error(t, err)
	_, err = g.ReduceNoise(ctx, signal, signal.Slice(0, 10), params(2))
	assert.Error(t, err)
	_, err = g.ReduceNoise(ctx, signal, signal.Slice(0, 10), noisereduction.Params{PropDecrease: 0.5})
	assert.Error(t, err)

	g.FFTSize = 10
	_, err = g.ReduceNoise(ctx, signal, signal.Slice(0, 10), params(0.5))
	assert.Error(t, err)

	canceledCtx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = New().ReduceNoise(canceledCtx, signal, signal.Slice(0, 10), params(0.5))
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkReduceNoise(b *testing.B) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(6))
	signal := audio.Signal{SampleRate: 44100, Samples: whiteNoise(rng, 10*44100, 0.1)}
	profile := signal.Slice(0, 44100/2)
	g := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := g.ReduceNoise(ctx, signal, profile, noisereduction.DefaultParams())
		if err != nil {
			b.Fatal(err)
		}
	}
}
