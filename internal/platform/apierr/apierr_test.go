package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessageFallbacks(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{"wrapped", New(http.StatusNotFound, "relationship_not_found", errors.New("relationship not found: x")), "relationship not found: x"},
		{"code only", New(http.StatusBadRequest, "invalid_operation", nil), "invalid_operation"},
		{"status only", New(http.StatusTeapot, "", nil), "api error (418)"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}

func TestAsThroughWrapping(t *testing.T) {
	base := NotFound("competency_not_found", "competency not found: %s", "abc")
	wrapped := fmt.Errorf("load task: %w", base)

	ae, ok := As(wrapped)
	if !ok {
		t.Fatalf("As: expected *Error in chain")
	}
	if ae.Status != http.StatusNotFound || ae.Code != "competency_not_found" {
		t.Fatalf("As: unexpected error: %+v", ae)
	}
	if !IsStatus(wrapped, http.StatusNotFound) {
		t.Fatalf("IsStatus: want true")
	}
	if IsStatus(errors.New("plain"), http.StatusNotFound) {
		t.Fatalf("IsStatus(plain): want false")
	}
}

func TestConflict(t *testing.T) {
	err := Conflict("competency_exists", "competency %q already exists", "Recursion")
	if err.Status != http.StatusConflict || err.Code != "competency_exists" || err.Error() != `competency "Recursion" already exists` {
		t.Fatalf("Conflict: %+v", err)
	}
}
