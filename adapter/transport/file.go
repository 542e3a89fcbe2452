package transport

import (
	"io"

	"github.com/pkg/errors"

	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/pkg/logger"
)

// File reads a byte stream in fixed-size chunks. Unlike the UDP loop a
// handler error aborts the run: a capture file has no next datagram to
// resynchronize on.
type File struct {
	log       *logger.Logger
	r         io.Reader
	chunkSize int
}

func NewFile(r io.Reader, chunkSize int, log *logger.Logger) (*File, error) {
	if chunkSize <= 0 {
		return nil, entity.ErrWrongChunkSize
	}
	return &File{
		log:       log,
		r:         r,
		chunkSize: chunkSize,
	}, nil
}

// Run delivers the stream to completion. It is synchronous.
func (f *File) Run(handler ChunkHandler) error {
	buf := make([]byte, f.chunkSize)

	for {
		n, err := f.r.Read(buf)
		if n > 0 {
			if herr := handler(buf[:n]); herr != nil {
				return herr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to read feed stream")
		}
	}
}
