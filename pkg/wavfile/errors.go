package wavfile

import (
	"errors"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrWrite             = errors.New("unable to write the file")
)
