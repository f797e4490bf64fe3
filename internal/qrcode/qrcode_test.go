package qrcode_test

import (
	"bytes"
	"strings"
	"testing"

	"tickettoride/internal/qrcode"
)

func TestGenerate(t *testing.T) {
	png, err := qrcode.Generate("http://localhost:8080/api/view")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("output is not a PNG")
	}
}

func TestTerminal(t *testing.T) {
	s, err := qrcode.Terminal("http://localhost:8080/api/view")
	if err != nil {
		t.Fatalf("Terminal: %v", err)
	}
	if lines := strings.Count(s, "\n"); lines < 10 {
		t.Errorf("expected a multi-line code, got %d lines", lines)
	}
}
