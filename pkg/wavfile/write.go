package wavfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/xaionaro-go/wavdenoise/pkg/audio"
)

const outputFileMode = 0o644

// Write stores the buffer as an integer PCM WAV file.
//
// The data is written into a temporary file next to path, which is renamed
// onto path only after it was completely written and synced. On failure
// nothing is left at path.
func Write(ctx context.Context, path string, buf *audio.Buffer) (_err error) {
	logger.Tracef(ctx, "Write(%s, %s)", path, buf)
	defer func() { logger.Tracef(ctx, "/Write(%s): %v", path, _err) }()

	if buf.Format.IsFloat() || buf.Format.BitDepth() == 0 {
		return fmt.Errorf("%w: cannot write %s samples", ErrUnsupportedFormat, buf.Format)
	}
	if buf.Channels == 0 || buf.SampleRate == 0 {
		return fmt.Errorf("%w: invalid buffer %s", ErrUnsupportedFormat, buf)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: unable to create a temporary file for '%s': %w", ErrWrite, path, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if committed {
			return
		}
		tmp.Close()
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			logger.Errorf(ctx, "unable to remove the temporary file '%s': %v", tmpPath, err)
		}
	}()

	encoder := wav.NewEncoder(
		tmp,
		int(buf.SampleRate),
		buf.Format.BitDepth(),
		int(buf.Channels),
		wavFormatPCM,
	)
	err = encoder.Write(&goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: int(buf.Channels),
			SampleRate:  int(buf.SampleRate),
		},
		Data:           buf.Data,
		SourceBitDepth: buf.Format.BitDepth(),
	})
	if err != nil {
		return fmt.Errorf("%w: unable to encode '%s': %w", ErrWrite, path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("%w: unable to finalize '%s': %w", ErrWrite, path, err)
	}
	if err := tmp.Chmod(outputFileMode); err != nil {
		return fmt.Errorf("%w: unable to set the permissions of '%s': %w", ErrWrite, path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: unable to sync '%s': %w", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: unable to close '%s': %w", ErrWrite, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: unable to move the result to '%s': %w", ErrWrite, path, err)
	}
	committed = true

	logger.Debugf(ctx, "wrote '%s': %s", path, buf)
	return nil
}
