package noiseprofile

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/wavdenoise/pkg/audio"
	"github.com/xaionaro-go/wavdenoise/pkg/wavfile"
)

func ramp(n int) []float64 {
	s := make([]float64, n)
	for idx := range s {
		s[idx] = float64(idx) / float64(n)
	}
	return s
}

func TestSegmentLength(t *testing.T) {
	assert.Equal(t, 4000, SegmentLength(8000, 0.5))
	assert.Equal(t, 22050, SegmentLength(44100, 0.5))
	assert.Equal(t, 2, SegmentLength(3, 0.5))
	assert.Equal(t, 333, SegmentLength(1000, 0.3333))
}

func TestFromLeadingSegment(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		rate     audio.SampleRate
		length   int
		seconds  float64
		tooShort bool
	}{
		{rate: 8000, length: 8000, seconds: 0.5},
		{rate: 8000, length: 4001, seconds: 0.5},
		{rate: 8000, length: 4000, seconds: 0.5, tooShort: true},
		{rate: 8000, length: 2400, seconds: 0.5, tooShort: true},
		{rate: 44100, length: 44100, seconds: 0.25},
		{rate: 16000, length: 100, seconds: 0.00625, tooShort: true},
	} {
		signal := audio.Signal{SampleRate: tc.rate, Format: audio.PCMFormatS16LE, Samples: ramp(tc.length)}
		profile, err := FromLeadingSegment(ctx, signal, tc.seconds)
		if tc.tooShort {
			require.ErrorIs(t, err, ErrAudioTooShort, "%+v", tc)
			continue
		}
		require.NoError(t, err, "%+v", tc)
		expectedLen := int(math.Round(float64(tc.rate) * tc.seconds))
		require.Equal(t, expectedLen, profile.Len())
		require.Equal(t, signal.Samples[:expectedLen], profile.Samples)
		require.Equal(t, tc.rate, profile.SampleRate)
	}
}

func TestFromLeadingSegmentInvalidDuration(t *testing.T) {
	ctx := context.Background()
	signal := audio.Signal{SampleRate: 8000, Samples: ramp(8000)}
	for _, seconds := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := FromLeadingSegment(ctx, signal, seconds)
		require.ErrorIs(t, err, ErrInvalidDuration, "%v", seconds)
	}
	_, err := FromLeadingSegment(ctx, signal, 0.00001)
	require.ErrorIs(t, err, ErrEmptyProfile)
}

func TestFromFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	path := filepath.Join(dir, "noise.wav")
	require.NoError(t, wavfile.Write(ctx, path, &audio.Buffer{
		Format:     audio.PCMFormatS16LE,
		SampleRate: 16000,
		Channels:   2,
		Data:       []int{100, 300, 100, 300, 100, 300, 100, 300},
	}))

	t.Run("same rate", func(t *testing.T) {
		profile, err := FromFile(ctx, path, 16000)
		require.NoError(t, err)
		require.Equal(t, 4, profile.Len())
		for _, v := range profile.Samples {
			require.InDelta(t, 200.0/math.MaxInt16, v, 1e-12)
		}
	})

	t.Run("resampled", func(t *testing.T) {
		profile, err := FromFile(ctx, path, 8000)
		require.NoError(t, err)
		require.Equal(t, audio.SampleRate(8000), profile.SampleRate)
		require.Equal(t, 2, profile.Len())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := FromFile(ctx, filepath.Join(dir, "missing.wav"), 8000)
		require.ErrorIs(t, err, wavfile.ErrFileNotFound)
	})

	t.Run("empty", func(t *testing.T) {
		emptyPath := filepath.Join(dir, "empty.wav")
		require.NoError(t, os.WriteFile(emptyPath, emptyWAV(8000), 0640))
		_, err := FromFile(ctx, emptyPath, 8000)
		require.Error(t, err)
	})
}

func emptyWAV(sampleRate uint32) []byte {
	var b bytes.Buffer
	le := binary.LittleEndian
	b.WriteString("RIFF")
	_ = binary.Write(&b, le, uint32(36))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	_ = binary.Write(&b, le, uint32(16))
	_ = binary.Write(&b, le, uint16(1))
	_ = binary.Write(&b, le, uint16(1))
	_ = binary.Write(&b, le, sampleRate)
	_ = binary.Write(&b, le, sampleRate*2)
	_ = binary.Write(&b, le, uint16(2))
	_ = binary.Write(&b, le, uint16(16))
	b.WriteString("data")
	_ = binary.Write(&b, le, uint32(0))
	return b.Bytes()
}
