package audio

import (
	"fmt"
	"time"
)

// Buffer is raw interleaved audio as stored in a file. Integer formats use
// Data, float formats use FloatData.
type Buffer struct {
	Format     PCMFormat
	SampleRate SampleRate
	Channels   Channel
	Data       []int
	FloatData  []float64
}

func (b *Buffer) Len() int {
	if b.Format.IsFloat() {
		return len(b.FloatData)
	}
	return len(b.Data)
}

// Frames is the amount of samples per channel.
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return b.Len() / int(b.Channels)
}

func (b *Buffer) Duration() time.Duration {
	return b.SampleRate.Duration(b.Frames())
}

func (b *Buffer) String() string {
	return fmt.Sprintf("%s/%dHz/%dch/%dframes", b.Format, b.SampleRate, b.Channels, b.Frames())
}

func (b *Buffer) checkInvariants() {
	if b.Channels == 0 {
		panic(fmt.Errorf("buffer %s has zero channels", b))
	}
	if b.Format.IsFloat() {
		if b.Data != nil {
			panic(fmt.Errorf("buffer %s is float, but has integer samples", b))
		}
	} else {
		if b.FloatData != nil {
			panic(fmt.Errorf("buffer %s is integer, but has float samples", b))
		}
	}
	if b.Len()%int(b.Channels) != 0 {
		panic(fmt.Errorf("buffer %s length %d is not a multiple of %d channels", b, b.Len(), b.Channels))
	}
}

// Signal is a mono float64 signal. Format is the format it was normalized
// from, kept to make the normalization reversible.
type Signal struct {
	SampleRate SampleRate
	Format     PCMFormat
	Samples    []float64
}

func (s Signal) Len() int {
	return len(s.Samples)
}

func (s Signal) Duration() time.Duration {
	return s.SampleRate.Duration(len(s.Samples))
}

// Slice returns the sub-signal [from, to). The samples are shared.
func (s Signal) Slice(from, to int) Signal {
	return Signal{
		SampleRate: s.SampleRate,
		Format:     s.Format,
		Samples:    s.Samples[from:to],
	}
}

// WithSamples returns a copy of the signal metadata with other samples.
func (s Signal) WithSamples(samples []float64) Signal {
	return Signal{
		SampleRate: s.SampleRate,
		Format:     s.Format,
		Samples:    samples,
	}
}
