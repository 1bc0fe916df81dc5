package pipeline

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"testing/iotest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rotcat/pkg/buffers"
	"rotcat/pkg/log"
	"rotcat/pkg/mapping"
	"rotcat/pkg/transform"
)

type failingWriter struct{ err error }

func (f failingWriter) Write(p []byte) (int, error) { return 0, f.err }

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }

func TestRunRotateByOneFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello, world!"), 0o644))

	var out bytes.Buffer
	p := &Pipeline{Mapping: mapping.NewRotateBy(1, false), Path: path, Stdout: &out}
	res, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, "Ifmmp, xpsme!", out.String())
	assert.EqualValues(t, 13, res.Bytes)
	assert.NotEmpty(t, res.RunID)
}

func TestRunReverseFromStdin(t *testing.T) {
	var out bytes.Buffer
	p := &Pipeline{
		Mapping: mapping.NewRotateBy(1, true),
		Stdin:   strings.NewReader("Ifmmp, xpsme!"),
		Stdout:  &out,
		RunID:   "fixed",
	}
	res, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", out.String())
	assert.Equal(t, "fixed", res.RunID)
}

func TestRunDefaultsToRot13(t *testing.T) {
	var out bytes.Buffer
	_, err := (&Pipeline{Stdin: strings.NewReader("Hello, World!"), Stdout: &out}).Run()
	require.NoError(t, err)
	require.Equal(t, "Uryyb, Jbeyq!", out.String())

	var back bytes.Buffer
	_, err = (&Pipeline{Stdin: &out, Stdout: &back}).Run()
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", back.String())
}

func TestRunNonLettersUnchanged(t *testing.T) {
	for _, m := range []mapping.Mapping{mapping.Rot13{}, mapping.NewRotateBy(9, true)} {
		var out bytes.Buffer
		_, err := (&Pipeline{Mapping: m, Stdin: strings.NewReader("123!@#"), Stdout: &out}).Run()
		require.NoError(t, err)
		assert.Equal(t, "123!@#", out.String())
	}
}

func TestRunEmptyInput(t *testing.T) {
	var out bytes.Buffer
	res, err := (&Pipeline{Stdin: strings.NewReader(""), Stdout: &out}).Run()
	require.NoError(t, err)
	assert.Zero(t, res.Bytes)
	assert.Empty(t, out.String())
}

func TestRunMissingFile(t *testing.T) {
	var out bytes.Buffer
	_, err := (&Pipeline{Path: filepath.Join(t.TempDir(), "nope"), Stdin: strings.NewReader("x"), Stdout: &out}).Run()
	require.Error(t, err)

	var openErr *SourceOpenError
	require.ErrorAs(t, err, &openErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, out.String(), "must not fall back to stdin")
}

func TestRunReadErrorFlushesWhatWasWritten(t *testing.T) {
	boom := errors.New("disk on fire")
	var out bytes.Buffer
	p := &Pipeline{
		Stdin:  io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(boom)),
		Stdout: &out,
	}
	res, err := p.Run()

	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "nop", out.String())
	assert.EqualValues(t, 3, res.Bytes)
}

func TestRunWriteError(t *testing.T) {
	p := &Pipeline{Stdin: strings.NewReader("hello"), Stdout: failingWriter{err: syscall.EPIPE}}
	_, err := p.Run()

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.True(t, IsBrokenPipe(err))
}

func TestRunNoSink(t *testing.T) {
	_, err := (&Pipeline{Stdin: strings.NewReader("x")}).Run()
	assert.ErrorIs(t, err, ErrNoSink)
}

func TestRunCodecs(t *testing.T) {
	var compressed bytes.Buffer
	_, err := (&Pipeline{
		Mapping:     mapping.NewRotateBy(4, false),
		Stdin:       strings.NewReader("Attack at dawn."),
		Stdout:      &compressed,
		OutputCodec: transform.CodecZstd,
	}).Run()
	require.NoError(t, err)

	var plain bytes.Buffer
	_, err = (&Pipeline{
		Mapping:    mapping.NewRotateBy(4, true),
		Stdin:      &compressed,
		Stdout:     &plain,
		InputCodec: transform.CodecZstd,
	}).Run()
	require.NoError(t, err)
	assert.Equal(t, "Attack at dawn.", plain.String())
}

func TestRunSmallBuffer(t *testing.T) {
	input := strings.Repeat("The quick brown fox. ", 200)
	var out bytes.Buffer
	res, err := (&Pipeline{Stdin: strings.NewReader(input), Stdout: &out, BufferSize: 7}).Run()
	require.NoError(t, err)
	assert.EqualValues(t, len(input), res.Bytes)
	assert.Equal(t, mapping.MapString(mapping.Rot13{}, input), out.String())
}

func TestCopyClassifiesErrors(t *testing.T) {
	buf := make([]byte, 4)

	n, err := Copy(&bytes.Buffer{}, strings.NewReader("hello"), buf)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	_, err = Copy(shortWriter{}, strings.NewReader("hello"), buf)
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.ErrorIs(t, err, io.ErrShortWrite)

	_, err = Copy(&bytes.Buffer{}, iotest.TimeoutReader(strings.NewReader("hello")), buf)
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.ErrorIs(t, err, iotest.ErrTimeout)
}

func TestOpenSourceStdinIsNotClosed(t *testing.T) {
	stdin := io.NopCloser(strings.NewReader("x"))
	src, err := OpenSource("", stdin)
	require.NoError(t, err)
	require.NoError(t, src.Close())

	got, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, IsBrokenPipe(&WriteError{Err: io.ErrClosedPipe}))
	assert.False(t, IsBrokenPipe(&WriteError{Err: io.ErrShortWrite}))
	assert.False(t, IsBrokenPipe(nil))
}

func TestCopyPool(t *testing.T) {
	assert.Same(t, buffers.CopyBufferPool, copyPool(0))
	assert.Same(t, buffers.CopyBufferPool, copyPool(buffers.DefaultBufferSize))
	assert.Equal(t, 7, copyPool(7).Size())
}

func TestRunFailureStaysOffConsole(t *testing.T) {
	var console bytes.Buffer
	log.SetConsole(&console, zerolog.WarnLevel)
	t.Cleanup(func() { log.SetConsole(nil, zerolog.WarnLevel) })

	_, err := (&Pipeline{Path: filepath.Join(t.TempDir(), "nope"), Stdout: &bytes.Buffer{}}).Run()
	require.Error(t, err)
	_, err = (&Pipeline{Stdin: strings.NewReader("x"), Stdout: failingWriter{err: syscall.EPIPE}}).Run()
	require.Error(t, err)

	assert.Empty(t, console.String())
}
