package transform

import (
	"io"

	"rotcat/pkg/mapping"
)

// Reader applies a Mapping to every byte read from the underlying source.
// It keeps no state between calls and never changes how many bytes a read returns.
type Reader struct {
	mapping mapping.Mapping
	src     io.Reader
}

func NewReader(m mapping.Mapping, src io.Reader) *Reader {
	return &Reader{mapping: m, src: src}
}

// Read fills p from the source and maps p[:n] in place. Errors, io.EOF
// included, come back exactly as the source returned them.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	mapping.MapBytes(r.mapping, p[:n])
	return n, err
}
