package noisereduction

import (
	"fmt"
	"math"

	"github.com/xaionaro-go/wavdenoise/pkg/audio"
)

const (
	DefaultPropDecrease = 0.95
	DefaultStationary   = true
)

type Params struct {
	// PropDecrease is the proportion by which noise is attenuated, 0 keeps
	// the signal untouched and 1 removes everything classified as noise.
	PropDecrease float64

	// Stationary means the noise spectrum does not change over time, so one
	// profile applies to the whole signal. Only stationary reduction is
	// implemented.
	Stationary bool
}

func DefaultParams() Params {
	return Params{
		PropDecrease: DefaultPropDecrease,
		Stationary:   DefaultStationary,
	}
}

func (p Params) Validate() error {
	if math.IsNaN(p.PropDecrease) || p.PropDecrease < 0 || p.PropDecrease > 1 {
		return fmt.Errorf("prop_decrease must be within [0, 1], got %v", p.PropDecrease)
	}
	if !p.Stationary {
		return fmt.Errorf("non-stationary noise reduction is not supported")
	}
	return nil
}

// CheckInputs validates the arguments of NoiseReducer.ReduceNoise.
func CheckInputs(signal, noiseProfile audio.Signal, params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if signal.SampleRate == 0 {
		return fmt.Errorf("the sample rate of the signal must be positive")
	}
	if signal.Len() == 0 {
		return fmt.Errorf("the signal is empty")
	}
	if noiseProfile.Len() == 0 {
		return fmt.Errorf("the noise profile is empty")
	}
	if noiseProfile.SampleRate != signal.SampleRate {
		return fmt.Errorf("the sample rate of the noise profile differs from the signal: %d != %d", noiseProfile.SampleRate, signal.SampleRate)
	}
	return nil
}
