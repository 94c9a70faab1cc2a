package qrimg

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const defaultSize = 256

// PNG encodes value as a QR code image.
func PNG(value string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	code, err := qr.Encode(value, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI returns the QR image as a base64 PNG data URI, the shape
// clients embed directly in an <img> tag.
func DataURI(value string, size int) (string, error) {
	data, err := PNG(value, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
