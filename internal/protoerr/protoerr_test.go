package protoerr

import (
	"errors"
	"strings"
	"testing"
)

func TestIsMatchesByKindOnly(t *testing.T) {
	err := Wrap(KindTransport, "dial failed", errors.New("connection refused"))
	sentinel := New(KindTransport, "")
	if !errors.Is(err, sentinel) {
		t.Fatal("expected errors.Is to match on Kind")
	}
	other := New(KindProtocol, "")
	if errors.Is(err, other) {
		t.Fatal("expected errors.Is to not match a different Kind")
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindCryptoOp, "rsa decrypt", cause)
	got := err.Error()
	if got == "" {
		t.Fatal("expected non-empty error string")
	}
	if !strings.Contains(got, "boom") {
		t.Errorf("error string %q does not include the cause", got)
	}
	if !errors.Is(err, err) {
		t.Fatal("error should match itself")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(KindFileIO, "read file", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}
