package wavfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-audio/wav"
	"github.com/xaionaro-go/wavdenoise/pkg/audio"
)

const wavFormatPCM = 1

// Load reads a whole integer PCM WAV file.
func Load(ctx context.Context, path string) (_ret *audio.Buffer, _err error) {
	logger.Tracef(ctx, "Load(%s)", path)
	defer func() { logger.Tracef(ctx, "/Load(%s): %v %v", path, _ret, _err) }()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: '%s': %w", ErrFileNotFound, path, err)
		}
		return nil, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("unable to stat '%s': %w", path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: '%s' is a directory", ErrFileNotFound, path)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: '%s' is not a valid WAV file", ErrUnsupportedFormat, path)
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: '%s' has audio format tag %d, only PCM (%d) is supported", ErrUnsupportedFormat, path, decoder.WavAudioFormat, wavFormatPCM)
	}
	if decoder.NumChans == 0 {
		return nil, fmt.Errorf("%w: '%s' has zero channels", ErrUnsupportedFormat, path)
	}
	if decoder.SampleRate == 0 {
		return nil, fmt.Errorf("%w: '%s' has zero sample rate", ErrUnsupportedFormat, path)
	}
	pcmFormat, err := audio.PCMFormatFromBitDepth(int(decoder.BitDepth))
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", ErrUnsupportedFormat, path, err)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to decode the PCM data of '%s': %w", ErrUnsupportedFormat, path, err)
	}

	buf := &audio.Buffer{
		Format:     pcmFormat,
		SampleRate: audio.SampleRate(decoder.SampleRate),
		Channels:   audio.Channel(decoder.NumChans),
		Data:       pcm.Data,
	}
	if buf.Data == nil {
		buf.Data = []int{}
	}
	if len(buf.Data)%int(buf.Channels) != 0 {
		return nil, fmt.Errorf("%w: '%s' has %d samples, which is not a multiple of %d channels", ErrUnsupportedFormat, path, len(buf.Data), buf.Channels)
	}
	logger.Debugf(ctx, "loaded '%s': %s", path, buf)
	return buf, nil
}
