package pipeline

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

var ErrNoSink = errors.New("pipeline: no output sink configured")

// SourceOpenError reports an input file that could not be opened.
type SourceOpenError struct {
	Path string
	Err  error
}

func (e *SourceOpenError) Error() string {
	return fmt.Sprintf("open source %s: %v", e.Path, e.Err)
}

func (e *SourceOpenError) Unwrap() error { return e.Err }

// ReadError reports a failure of the byte source mid-stream.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read: %v", e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failure of the output sink.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write: %v", e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Happens when downstream consumers (like `head`) exit early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
