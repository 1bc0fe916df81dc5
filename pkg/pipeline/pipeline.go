// Package pipeline drives bytes from a source, through the rotation, to a sink.
package pipeline

import (
	"bufio"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"rotcat/internal/fn"
	"rotcat/pkg/buffers"
	"rotcat/pkg/log"
	"rotcat/pkg/mapping"
	"rotcat/pkg/transform"
)

// Pipeline is one run of the tool: a single source, a single policy, a single sink.
type Pipeline struct {
	Mapping     mapping.Mapping // nil means ROT13
	Path        string          // empty means Stdin
	Stdin       io.Reader       // nil means os.Stdin
	Stdout      io.Writer
	InputCodec  transform.Codec
	OutputCodec transform.Codec
	BufferSize  int    // zero means buffers.DefaultBufferSize
	RunID       string // generated when empty
}

// Result summarizes a finished run.
type Result struct {
	RunID    string
	Bytes    int64
	Duration time.Duration
}

// copyPool picks the shared pool for the configured buffer size.
func copyPool(size int) *buffers.BufferPool {
	if size <= 0 || size == buffers.CopyBufferPool.Size() {
		return buffers.CopyBufferPool
	}
	return buffers.ForSize(size)
}

// Run copies the whole source to Stdout. The source file, when one was opened,
// is closed on every return path, and buffered output is flushed even when
// the copy fails so that bytes already produced reach the sink.
func (p *Pipeline) Run() (Result, error) {
	start := time.Now()
	res := Result{RunID: p.RunID}
	if res.RunID == "" {
		res.RunID = uuid.NewString()
	}
	if p.Stdout == nil {
		return res, ErrNoSink
	}
	m := p.Mapping
	if m == nil {
		m = mapping.Rot13{}
	}
	pool := copyPool(p.BufferSize)

	proc, err := transform.NewProcessor(m, p.InputCodec, p.OutputCodec)
	if err != nil {
		return res, err
	}

	src, err := OpenSource(p.Path, p.Stdin)
	if err != nil {
		log.Debug().Err(err).Str("run", res.RunID).Msg("cannot open source")
		return res, err
	}
	defer src.Close()

	in, err := proc.Reader(src)
	if err != nil {
		return res, &ReadError{Err: err}
	}
	defer in.Close()

	sink := bufio.NewWriterSize(p.Stdout, pool.Size())
	out, err := proc.Writer(sink)
	if err != nil {
		return res, &WriteError{Err: err}
	}

	buf := pool.Get()
	defer pool.Put(buf)

	res.Bytes, err = Copy(out, in, buf)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = &WriteError{Err: cerr}
	}
	if ferr := sink.Flush(); ferr != nil && err == nil {
		err = &WriteError{Err: ferr}
	}
	res.Duration = time.Since(start)

	// failures reach the user through the returned error; here they are only recorded
	ev := log.Info()
	if err != nil {
		ev = log.Debug().Err(err)
	}
	ev.Str("run", res.RunID).
		Str("policy", mapping.Describe(m)).
		Str("source", fn.T(p.Path == "", "stdin", p.Path)).
		Str("in_codec", string(fn.Or(p.InputCodec, transform.CodecNone))).
		Str("out_codec", string(fn.Or(p.OutputCodec, transform.CodecNone))).
		Str("bytes", humanize.Bytes(uint64(res.Bytes))).
		Dur("took", res.Duration).
		Msg("rotation finished")

	return res, err
}
