package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	t.Run("typed error", func(t *testing.T) {
		if got := KindOf(Invalid("bad")); got != KindInvalid {
			t.Fatalf("expected KindInvalid, got %v", got)
		}
	})

	t.Run("wrapped typed error", func(t *testing.T) {
		err := fmt.Errorf("checkout: %w", NotFound("missing"))
		if got := KindOf(err); got != KindNotFound {
			t.Fatalf("expected KindNotFound, got %v", got)
		}
	})

	t.Run("plain error -> internal", func(t *testing.T) {
		if got := KindOf(errors.New("boom")); got != KindInternal {
			t.Fatalf("expected KindInternal, got %v", got)
		}
	})
}

func TestMessageOf(t *testing.T) {
	t.Run("client-facing message passes through", func(t *testing.T) {
		if got := MessageOf(Invalid("product not in cart")); got != "product not in cart" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("internal details are hidden", func(t *testing.T) {
		err := Internal("saving cart", errors.New("connection refused"))
		if got := MessageOf(err); got != "internal server error" {
			t.Fatalf("got %q", got)
		}
	})
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Internal("loading user", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to survive wrapping")
	}
}
