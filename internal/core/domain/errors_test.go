package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid input", ErrInvalidInput, KindValidation},
		{"unsupported format", ErrUnsupportedFormat, KindValidation},
		{"no domains", ErrNoDomains, KindRouting},
		{"unknown domain", ErrUnknownDomain, KindRouting},
		{"embedding", ErrEmbedding, KindEmbedding},
		{"index io", ErrIndexIO, KindIndexIO},
		{"generation", ErrGeneration, KindGeneration},
		{"tool failed", ErrToolFailed, KindTool},
		{"unknown tool", ErrUnknownTool, KindTool},
		{"not found", ErrNotFound, KindNotFound},
		{"unrecognised", errors.New("provider exploded"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestKind_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("embed batch: %w", fmt.Errorf("openai: %w", ErrEmbedding))
	if got := Kind(wrapped); got != KindEmbedding {
		t.Errorf("Kind(wrapped) = %q, want %q", got, KindEmbedding)
	}
}
