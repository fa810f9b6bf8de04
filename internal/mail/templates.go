package mail

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

var (
	verificationText = texttemplate.Must(texttemplate.New("verify").Parse(
		`Please click the following link to verify your email: {{.Link}}
`))

	resetText = texttemplate.Must(texttemplate.New("reset.txt").Parse(
		`Hello {{.Name}},

we received a request to reset your password. Open the link below to choose a new one:
{{.Link}}

If you did not request a reset you can ignore this mail.
`))

	resetHTML = htmltemplate.Must(htmltemplate.New("reset.html").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Name}},</p>
<p>we received a request to reset your password.</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>If you did not request a reset you can ignore this mail.</p>
</body>
</html>
`))
)

type templateData struct {
	Name string
	Link string
}

// VerificationMessage builds the mail sent after registration.
func VerificationMessage(to, link string) (Message, error) {
	var text bytes.Buffer
	if err := verificationText.Execute(&text, templateData{Link: link}); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Verify your email", Text: text.String()}, nil
}

// PasswordResetMessage builds the text and HTML reset mail.
func PasswordResetMessage(to, name, link string) (Message, error) {
	data := templateData{Name: name, Link: link}
	var text, html bytes.Buffer
	if err := resetText.Execute(&text, data); err != nil {
		return Message{}, err
	}
	if err := resetHTML.Execute(&html, data); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Reset your password", Text: text.String(), HTML: html.String()}, nil
}
