package audio

import (
	"fmt"
	"math"
	"time"
)

type SampleRate uint32

func (r SampleRate) Duration(samples int) time.Duration {
	if r == 0 {
		return 0
	}
	return time.Duration(float64(samples) / float64(r) * float64(time.Second))
}

type Channel uint16

// PCMFormat is the sample encoding of a WAV data chunk. WAV is always
// little-endian.
type PCMFormat int

const (
	PCMFormatUndefined = PCMFormat(iota)
	PCMFormatU8
	PCMFormatS16LE
	PCMFormatS24LE
	PCMFormatS32LE
	PCMFormatFloat32LE
	PCMFormatFloat64LE
)

func (f PCMFormat) String() string {
	switch f {
	case PCMFormatU8:
		return "u8"
	case PCMFormatS16LE:
		return "s16le"
	case PCMFormatS24LE:
		return "s24le"
	case PCMFormatS32LE:
		return "s32le"
	case PCMFormatFloat32LE:
		return "f32le"
	case PCMFormatFloat64LE:
		return "f64le"
	default:
		return fmt.Sprintf("unknown_format_%d", int(f))
	}
}

// PCMFormatFromBitDepth returns the integer PCM format for the bit depth
// stored in a WAV "fmt " chunk.
func PCMFormatFromBitDepth(bitDepth int) (PCMFormat, error) {
	switch bitDepth {
	case 8:
		return PCMFormatU8, nil
	case 16:
		return PCMFormatS16LE, nil
	case 24:
		return PCMFormatS24LE, nil
	case 32:
		return PCMFormatS32LE, nil
	default:
		return PCMFormatUndefined, fmt.Errorf("unsupported PCM bit depth: %d", bitDepth)
	}
}

func (f PCMFormat) BitDepth() int {
	switch f {
	case PCMFormatU8:
		return 8
	case PCMFormatS16LE:
		return 16
	case PCMFormatS24LE:
		return 24
	case PCMFormatS32LE, PCMFormatFloat32LE:
		return 32
	case PCMFormatFloat64LE:
		return 64
	default:
		return 0
	}
}

func (f PCMFormat) IsFloat() bool {
	return f == PCMFormatFloat32LE || f == PCMFormatFloat64LE
}

// MaxMagnitude is the largest positive value the format represents,
// relative to Offset. Float formats are already in [-1, 1].
func (f PCMFormat) MaxMagnitude() float64 {
	switch f {
	case PCMFormatU8:
		return math.MaxInt8
	case PCMFormatS16LE:
		return math.MaxInt16
	case PCMFormatS24LE:
		return 1<<23 - 1
	case PCMFormatS32LE:
		return math.MaxInt32
	case PCMFormatFloat32LE, PCMFormatFloat64LE:
		return 1
	default:
		panic(fmt.Sprintf("unknown format: %v", f))
	}
}

// Offset is the stored value of silence: 128 for unsigned 8-bit PCM.
func (f PCMFormat) Offset() int {
	if f == PCMFormatU8 {
		return 128
	}
	return 0
}

// Range returns the smallest and largest stored integer values.
func (f PCMFormat) Range() (int, int) {
	switch f {
	case PCMFormatU8:
		return 0, math.MaxUint8
	case PCMFormatS16LE:
		return math.MinInt16, math.MaxInt16
	case PCMFormatS24LE:
		return -(1 << 23), 1<<23 - 1
	case PCMFormatS32LE:
		return math.MinInt32, math.MaxInt32
	default:
		panic(fmt.Sprintf("format %v has no integer range", f))
	}
}
