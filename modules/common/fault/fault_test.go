package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := New(Fetch, "download failed: %d", 404)
	if kind := KindOf(err); kind != Fetch {
		t.Errorf("expected kind %q, got %q", Fetch, kind)
	}
}

func TestKindOfWrappedChain(t *testing.T) {
	inner := New(Publish, "upload rejected")
	outer := fmt.Errorf("pipeline step failed: %w", inner)

	if kind := KindOf(outer); kind != Publish {
		t.Errorf("expected kind %q through wrapping, got %q", Publish, kind)
	}
}

func TestKindOfPlainError(t *testing.T) {
	if kind := KindOf(errors.New("plain")); kind != "" {
		t.Errorf("expected empty kind for plain error, got %q", kind)
	}
	if kind := KindOf(nil); kind != "" {
		t.Errorf("expected empty kind for nil, got %q", kind)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(Persistence, nil); err != nil {
		t.Errorf("expected nil when wrapping nil, got %v", err)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(Persistence, cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match its cause")
	}
	if kind := KindOf(err); kind != Persistence {
		t.Errorf("expected kind %q, got %q", Persistence, kind)
	}
}

func TestIsKind(t *testing.T) {
	err := New(InsufficientSource, "needed 70, found 12")

	if !IsKind(err, InsufficientSource) {
		t.Error("expected IsKind to match the error's own kind")
	}
	if IsKind(err, Fetch) {
		t.Error("expected IsKind to reject a different kind")
	}
}
