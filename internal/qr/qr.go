// Package qr renders visitor credential artifacts.
//
// A credential is a QR code encoding "VMS:<visitor id>", written as a
// PNG under the public directory so the email template can link to it
// and the scanner pages can display it.
package qr

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// imageSize is the rendered PNG edge length in pixels. Large enough to
// scan reliably from a phone screen held up to a webcam.
const imageSize = 600

// Payload returns the machine-readable credential content for a visitor.
func Payload(visitorID string) string {
	return "VMS:" + visitorID
}

// Generator renders credential PNGs into a directory keyed by visitor id.
type Generator struct {
	dir string
}

// NewGenerator creates a Generator writing under publicDir/qrcodes,
// creating the directory if needed.
func NewGenerator(publicDir string) (*Generator, error) {
	dir := filepath.Join(publicDir, "qrcodes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create qrcodes directory: %w", err)
	}
	return &Generator{dir: dir}, nil
}

// Generate renders the credential for visitorID and returns the path of
// the written PNG.
func (g *Generator) Generate(visitorID string) (string, error) {
	path := g.ImagePath(visitorID)
	if err := qrcode.WriteFile(Payload(visitorID), qrcode.Medium, imageSize, path); err != nil {
		return "", fmt.Errorf("render QR code for visitor %s: %w", visitorID, err)
	}
	return path, nil
}

// ImagePath returns where the credential PNG for visitorID lives.
func (g *Generator) ImagePath(visitorID string) string {
	return filepath.Join(g.dir, visitorID+".png")
}

// ImageURL returns the public link to the credential PNG, used as the
// fallback in the email body when the embedded image does not load.
func ImageURL(baseURL, visitorID string) string {
	return fmt.Sprintf("%s/qrcodes/%s.png", baseURL, visitorID)
}
