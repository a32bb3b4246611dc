package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestError_Sentinels(t *testing.T) {
	derived := ErrReadInput.Wrap(errors.New("eof")).With(slog.Int("n", 1))

	if !errors.Is(derived, ErrReadInput) {
		t.Error("derived error should match its sentinel")
	}

	if errors.Is(derived, ErrInvalidFormat) {
		t.Error("derived error should not match another sentinel")
	}

	if got := derived.Error(); got != "failed to read input: eof" {
		t.Errorf("Error() = %q", got)
	}

	if WrapError(fmt.Errorf("scan: %w", derived)) != derived {
		t.Error("WrapError() should return the Error in the chain")
	}
}

func TestScanError_Is(t *testing.T) {
	tests := []struct {
		err    *ScanError
		target error
		want   bool
	}{
		{&ScanError{Kind: UnterminatedCodeBlock, Line: 1}, ErrUnterminatedCodeBlock, true},
		{&ScanError{Kind: NestedCodeBlock, Line: 2}, ErrNestedCodeBlock, true},
		{&ScanError{Kind: NestedCodeBlock, Line: 2}, ErrUnterminatedCodeBlock, false},
		{&ScanError{Line: 3}, ErrNestedCodeBlock, false},
	}

	for _, tt := range tests {
		if got := errors.Is(tt.err, tt.target); got != tt.want {
			t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
		}
	}
}

func TestScanError_LogValue(t *testing.T) {
	v := (&ScanError{Kind: NestedCodeBlock, Line: 4}).LogValue()

	attrs := v.Group()
	if len(attrs) != 2 {
		t.Fatalf("LogValue() has %d attrs, want 2", len(attrs))
	}

	if attrs[0].Value.String() != "NestedCodeBlock" || attrs[1].Value.Int64() != 4 {
		t.Errorf("LogValue() = %v", v)
	}
}
