package pipeline

import (
	"io"
	"os"
)

// Copy moves bytes from src to dst through buf until src reports io.EOF.
// Unlike io.Copy it keeps read and write failures apart, as *ReadError and
// *WriteError, and it never takes the WriterTo/ReaderFrom shortcuts, so every
// byte passes through src.Read.
func Copy(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	if len(buf) == 0 {
		buf = make([]byte, 1)
	}
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, &WriteError{Err: werr}
			}
			if w != n {
				return written, &WriteError{Err: io.ErrShortWrite}
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, &ReadError{Err: rerr}
		}
	}
}

type stdinSource struct{ io.Reader }

func (stdinSource) Close() error { return nil }

// OpenSource resolves the byte source. An empty path selects stdin, which is
// never closed by the returned ReadCloser. A failed open is a *SourceOpenError;
// there is no fallback to stdin.
func OpenSource(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return stdinSource{stdin}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceOpenError{Path: path, Err: err}
	}
	return f, nil
}
