package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	inner := Invalid("missing_fields", "Please fill in all fields.")
	wrapped := fmt.Errorf("signup: %w", inner)

	got := As(wrapped)
	if got != inner {
		t.Fatalf("As returned %+v, want the original error", got)
	}
	if got.Status != http.StatusBadRequest {
		t.Fatalf("status=%d want %d", got.Status, http.StatusBadRequest)
	}
	if CodeOf(wrapped) != "missing_fields" {
		t.Fatalf("CodeOf=%q", CodeOf(wrapped))
	}
	if got.Error() != "Please fill in all fields." {
		t.Fatalf("message=%q", got.Error())
	}
}

func TestAsFallsBackToInternal(t *testing.T) {
	got := As(errors.New("boom"))
	if got.Status != http.StatusInternalServerError || got.Code != "internal_error" {
		t.Fatalf("unexpected fallback: %+v", got)
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should be nil")
	}
}

func TestRemoteDefaultsToBadGateway(t *testing.T) {
	err := Remote(0, "load_failed", errors.New("upstream down"))
	if err.Status != http.StatusBadGateway {
		t.Fatalf("status=%d", err.Status)
	}
}
