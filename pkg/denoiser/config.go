package denoiser

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/wavdenoise/pkg/noisereduction"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutput       = "cleaned_audio.wav"
	DefaultNoiseSeconds = 0.5
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`

	// NoiseFile is an optional noise-only recording. If set, it is used as
	// the noise profile instead of the leading NoiseSeconds of Input.
	NoiseFile    string  `yaml:"noise_file"`
	NoiseSeconds float64 `yaml:"noise_seconds"`

	PropDecrease float64 `yaml:"prop_decrease"`
	Stationary   bool    `yaml:"stationary"`

	// ReportPath is where to store the before/after analysis, if set.
	ReportPath string `yaml:"report"`
}

func DefaultConfig() Config {
	return Config{
		Output:       DefaultOutput,
		NoiseSeconds: DefaultNoiseSeconds,
		PropDecrease: noisereduction.DefaultPropDecrease,
		Stationary:   noisereduction.DefaultStationary,
	}
}

func (cfg Config) HasSeparateNoiseFile() bool {
	return cfg.NoiseFile != ""
}

func (cfg Config) Params() noisereduction.Params {
	return noisereduction.Params{
		PropDecrease: cfg.PropDecrease,
		Stationary:   cfg.Stationary,
	}
}

// Validate reports all the problems of the config at once.
func (cfg Config) Validate() error {
	var mErr *multierror.Error
	if cfg.Input == "" {
		mErr = multierror.Append(mErr, fmt.Errorf("the input path is not set"))
	}
	if cfg.Output == "" {
		mErr = multierror.Append(mErr, fmt.Errorf("the output path is not set"))
	}
	if cfg.Input != "" && cfg.Output != "" && samePath(cfg.Input, cfg.Output) {
		mErr = multierror.Append(mErr, fmt.Errorf("the output path must differ from the input path '%s'", cfg.Input))
	}
	if !cfg.HasSeparateNoiseFile() && (!(cfg.NoiseSeconds > 0) || math.IsInf(cfg.NoiseSeconds, 0)) {
		mErr = multierror.Append(mErr, fmt.Errorf("noise_seconds must be a positive number, got %v", cfg.NoiseSeconds))
	}
	if err := cfg.Params().Validate(); err != nil {
		mErr = multierror.Append(mErr, err)
	}
	if mErr == nil {
		return nil
	}
	mErr.ErrorFormat = joinErrors
	return fmt.Errorf("%w: %w", ErrInvalidConfig, mErr)
}

// joinErrors keeps the whole list on a single line.
func joinErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// LoadConfigFile overrides the fields of cfg with the values set in the YAML
// file at path. An empty file overrides nothing.
func LoadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: unable to open the config file: %w", ErrInvalidConfig, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: unable to parse the config file '%s': %w", ErrInvalidConfig, path, err)
	}
	return nil
}
