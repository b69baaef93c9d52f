package mailer

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/eventvms/vms/internal/config"
)

var htmlTmpl = template.Must(template.New("credential").Parse(`
<div style="font-family: Arial, sans-serif; line-height: 1.5; max-width: 640px; margin: 0 auto; color: #222;">
  <p>Dear {{.Name}},</p>
  <p>Thank you for your registration for <strong>{{.EventName}}</strong>!</p>
  <p>We&rsquo;re excited to welcome you to our upcoming event. Please find your QR code below, which will be scanned upon entry.</p>

  <div style="border:1px solid #eee; padding:16px; border-radius:8px; margin:16px 0;">
    <p><strong>Date:</strong> {{.Date}}</p>
    <p><strong>Venue:</strong> {{.Venue}}</p>
    <p><strong>Time:</strong> {{.Time}}</p>
  </div>

  <div style="text-align:center; margin:20px 0;">
    <img src="cid:{{.QRContentID}}" alt="Your QR Code" style="width:240px; height:240px;"/>
    <p style="font-size:12px; color:#555;">Please show this QR code at entry and at any stall within the event.</p>
    <p style="font-size:12px; color:#555;">If the image does not load, open this link to your QR: {{.QRURL}}</p>
  </div>

  {{if .ArtworkURL}}<p>The artwork can be retrieved from the link shared: <a href="{{.ArtworkURL}}">{{.ArtworkURL}}</a></p>{{end}}

  <p>Please note these QR codes will also be scanned by the STALL HOSTS within the event.</p>

  <p>We look forward to seeing you there!</p>

  <p style="margin-top:24px; color:#555; font-size:12px;">If you did not register for this event, please ignore this email.</p>
</div>
`))

type emailData struct {
	Name        string
	EventName   string
	Date        string
	Venue       string
	Time        string
	QRContentID string
	QRURL       string
	ArtworkURL  string
}

// CredentialEmail builds the subject and both bodies of the credential
// email for a visitor. qrURL is the public fallback link to the QR PNG.
func CredentialEmail(ev config.Event, visitorName, qrURL string) (subject, text, html string, err error) {
	data := emailData{
		Name:        visitorName,
		EventName:   ev.Name,
		Date:        ev.Date,
		Venue:       ev.Venue,
		Time:        ev.Time,
		QRContentID: qrContentID,
		QRURL:       qrURL,
		ArtworkURL:  ev.ArtworkURL,
	}

	var sb strings.Builder
	if err := htmlTmpl.Execute(&sb, data); err != nil {
		return "", "", "", fmt.Errorf("render credential email: %w", err)
	}

	subject = fmt.Sprintf("Your QR Code for %s", ev.Name)
	text = fmt.Sprintf(
		"Dear %s,\n\nThank you for your registration for %s!\n\nDate: %s\nVenue: %s\nTime: %s\n\n"+
			"Your QR code is attached to this email. Please show it at entry and at any stall within the event.\n\n"+
			"We look forward to seeing you there!",
		visitorName, ev.Name, ev.Date, ev.Venue, ev.Time,
	)
	return subject, text, sb.String(), nil
}
