package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// TemplateData feeds the notification templates.
type TemplateData struct {
	RecipientName string
	SongTitle     string
	ArtistName    string
	TrackingURL   string
	ReviewURL     string
}

var templates = map[string]string{
	"submission_received": `
<p>Hi {{.RecipientName}},</p>
<p>A new track, <strong>{{.SongTitle}}</strong> by {{.ArtistName}}, is waiting for your review.</p>
<p><a href="{{.ReviewURL}}">Open your review queue</a></p>
`,
	"review_completed": `
<p>Hi {{.ArtistName}},</p>
<p>Your track <strong>{{.SongTitle}}</strong> has been reviewed.</p>
<p><a href="{{.TrackingURL}}">Read your review</a></p>
`,
}

// Render fills a named template.
func Render(name string, data TemplateData) (string, error) {
	raw, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", name)
	}

	tmpl, err := template.New(name).Parse(raw)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
