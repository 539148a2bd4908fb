package translate

import (
	"context"
	"testing"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/pkg/errors"
)

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"id", "Indonesian"},
		{"ja", "Japanese"},
		{"es", "Spanish"},
		{"zh", "Chinese"},
		{"ES", "Spanish"},
		{" fr ", "French"},
		{"swahili", "swahili"},
		{"xx", "xx"},
	}
	for _, tt := range tests {
		if got := LanguageName(tt.code); got != tt.want {
			t.Fatalf("LanguageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestTranslate_DisabledReturnsError(t *testing.T) {
	svc := NewService(false, nil)
	if _, err := svc.Translate(context.Background(), "hello", "es"); !errors.Is(err, models.ErrTranslation) {
		t.Fatalf("expected ErrTranslation, got %v", err)
	}
}
