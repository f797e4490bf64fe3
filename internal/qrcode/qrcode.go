package qrcode

import qr "github.com/skip2/go-qrcode"

// Generate creates a QR code PNG image for the given URL.
func Generate(url string) ([]byte, error) {
	return qr.Encode(url, qr.Medium, 256)
}

// Terminal renders the URL as a QR code made of block characters, two
// modules per line, for printing next to the CLI prompt.
func Terminal(url string) (string, error) {
	q, err := qr.New(url, qr.Low)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
