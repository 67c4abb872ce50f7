package firebase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestInitFirebaseWithoutCredentials(t *testing.T) {
	if _, err := InitFirebase(context.Background(), ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.json")
	if _, err := InitFirebase(context.Background(), missing); err == nil || errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want missing-file error", err)
	}
}
