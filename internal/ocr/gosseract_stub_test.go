//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestGosseractStubUnavailable(t *testing.T) {
	_, err := NewGosseractEngine(context.Background(), Config{}, nil)
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Fatalf("want ErrOCRNotEnabled, got %v", err)
	}
}
