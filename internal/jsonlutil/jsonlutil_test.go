package jsonlutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStart_OneLinePerValue(t *testing.T) {
	var buf bytes.Buffer
	in, done := Start[int](&buf, 1, func(enc *json.Encoder, v int) error { return enc.Encode(v) }, nil)
	for i := 0; i < 3; i++ {
		in <- i
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if buf.String() != "0\n1\n2\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestStart_ErrorKeepsDraining(t *testing.T) {
	boom := errors.New("boom")
	in, done := Start[int](&bytes.Buffer{}, 1, func(*json.Encoder, int) error { return boom }, nil)
	// More values than the buffer holds: must not block after the failure.
	for i := 0; i < 10; i++ {
		in <- i
	}
	close(in)
	if err := <-done; !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestStart_BrokenPipeIsSuccess(t *testing.T) {
	pipeErr := errors.New("pipe closed")
	in, done := Start[string](failWriter{pipeErr}, 1,
		func(enc *json.Encoder, s string) error { return enc.Encode(strings.Repeat(s, 10)) },
		func(err error) bool { return errors.Is(err, pipeErr) },
	)
	in <- "x"
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("broken pipe must be swallowed, got %v", err)
	}
}
