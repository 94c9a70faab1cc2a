package qrimg

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
)

func TestPNGDecodes(t *testing.T) {
	data, err := PNG("shifthub-test-code", 128)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 128 || bounds.Dy() != 128 {
		t.Fatalf("expected 128x128, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestDataURIPrefix(t *testing.T) {
	uri, err := DataURI("shifthub-test-code", 0)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected data uri prefix: %.40s", uri)
	}
}
