package analysis

import (
	"context"
	"fmt"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/datacounter"
	"gopkg.in/yaml.v3"
)

// Comparison is the before/after summary of one noise reduction run.
type Comparison struct {
	Input            string  `yaml:"input"`
	Output           string  `yaml:"output"`
	NoiseProfile     string  `yaml:"noise_profile"`
	Before           Report  `yaml:"before"`
	After            Report  `yaml:"after"`
	NoiseReductionDB float64 `yaml:"noise_reduction_db"`
}

func NewComparison(input, output, noiseProfile string, before, after Report) Comparison {
	return Comparison{
		Input:            input,
		Output:           output,
		NoiseProfile:     noiseProfile,
		Before:           before,
		After:            after,
		NoiseReductionDB: before.NoiseSegmentRMSDBFS - after.NoiseSegmentRMSDBFS,
	}
}

// WriteYAML stores the comparison as a YAML document at path.
func (c Comparison) WriteYAML(ctx context.Context, path string) (_err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create '%s': %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil && _err == nil {
			_err = fmt.Errorf("unable to close '%s': %w", path, err)
		}
	}()

	wc := datacounter.NewWriterCounter(f)
	enc := yaml.NewEncoder(wc)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("unable to encode the report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("unable to finalize the report: %w", err)
	}
	logger.Debugf(ctx, "wrote %d bytes of the report to '%s'", wc.Count(), path)
	return nil
}
