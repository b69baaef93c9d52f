package mailer

import (
	"strings"
	"testing"

	"github.com/eventvms/vms/internal/config"
)

func TestCredentialEmail(t *testing.T) {
	ev := config.Event{
		Name:       "Makers Expo",
		Date:       "2026-09-12",
		Venue:      "Hall 3",
		Time:       "10:00",
		ArtworkURL: "https://example.com/artwork",
	}

	subject, text, html, err := CredentialEmail(ev, "Ann", "http://localhost:3000/qrcodes/v1.png")
	if err != nil {
		t.Fatalf("CredentialEmail failed: %v", err)
	}

	if subject != "Your QR Code for Makers Expo" {
		t.Errorf("unexpected subject: %q", subject)
	}
	if !strings.Contains(text, "Dear Ann,") || !strings.Contains(text, "Venue: Hall 3") {
		t.Errorf("unexpected text body: %q", text)
	}
	if !strings.Contains(html, "cid:"+qrContentID) {
		t.Error("HTML body missing embedded QR reference")
	}
	if !strings.Contains(html, "http://localhost:3000/qrcodes/v1.png") {
		t.Error("HTML body missing fallback QR link")
	}
	if !strings.Contains(html, "https://example.com/artwork") {
		t.Error("HTML body missing artwork link")
	}
}

func TestCredentialEmailWithoutArtwork(t *testing.T) {
	_, _, html, err := CredentialEmail(config.Event{Name: "Event"}, "Ann", "http://x/qr.png")
	if err != nil {
		t.Fatalf("CredentialEmail failed: %v", err)
	}
	if strings.Contains(html, "artwork") {
		t.Error("artwork paragraph should be omitted when no URL is set")
	}
}

func TestCredentialEmailEscapesName(t *testing.T) {
	_, _, html, err := CredentialEmail(config.Event{Name: "Event"}, `<script>alert(1)</script>`, "http://x/qr.png")
	if err != nil {
		t.Fatalf("CredentialEmail failed: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("visitor name not escaped in HTML body")
	}
}
