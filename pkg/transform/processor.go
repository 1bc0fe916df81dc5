// Package transform turns a byte source into a rotated byte stream, with
// optional compressed framing on either side of the rotation.
package transform

import (
	"errors"
	"fmt"
	"io"

	"rotcat/internal/fn"
	"rotcat/pkg/mapping"
)

// Processor chains input decoding, rotation and output encoding.
// Incoming bytes are decoded then mapped; outgoing bytes are encoded.
type Processor struct {
	mapping mapping.Mapping
	in      Codec
	out     Codec
}

// NewProcessor requires a mapping. Empty codecs mean CodecNone.
func NewProcessor(m mapping.Mapping, in, out Codec) (*Processor, error) {
	if m == nil {
		return nil, errors.New("processor requires a mapping")
	}
	return &Processor{mapping: m, in: fn.Or(in, CodecNone), out: fn.Or(out, CodecNone)}, nil
}

// Reader wraps src so that reads yield decoded, rotated bytes.
// Closing the result releases the decoder only; src stays owned by the caller.
func (p *Processor) Reader(src io.Reader) (io.ReadCloser, error) {
	dec, err := p.in.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("input codec %s: %w", p.in, err)
	}
	return &readCloser{Reader: NewReader(p.mapping, dec), closer: dec}, nil
}

// Writer wraps dst with the output encoder.
func (p *Processor) Writer(dst io.Writer) (io.WriteCloser, error) {
	enc, err := p.out.NewWriter(dst)
	if err != nil {
		return nil, fmt.Errorf("output codec %s: %w", p.out, err)
	}
	return enc, nil
}

type readCloser struct {
	*Reader
	closer io.Closer
}

func (rc *readCloser) Close() error { return rc.closer.Close() }
