package mail

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"gopkg.in/gomail.v2"
)

const confirmationTemplate = `<html>
<body style="font-family: sans-serif; color: #222;">
	<h2>¡Hola {{.Name}}!</h2>
	<p>Tu registro a <strong>ExpoKossodo 2025</strong> quedó confirmado.</p>
	<p>Adjuntamos tu código QR: preséntalo en la entrada para acreditarte.</p>
	<p>Nos vemos en la expo 🎉</p>
</body>
</html>`

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendConfirmation envía el correo de registro con el QR adjunto.
func (s *EmailSender) SendConfirmation(to, name string, qrPNG []byte) error {
	t, err := template.New("confirmation").Parse(confirmationTemplate)
	if err != nil {
		return fmt.Errorf("error en template de correo: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, ConfirmationEmailData{Name: name}); err != nil {
		return fmt.Errorf("error procesando template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Tu registro a ExpoKossodo 2025 ✔")
	m.SetBody("text/html", body.String())
	m.Attach("qr_registro.png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(qrPNG)
		return err
	}))

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error enviando correo SMTP: %w", err)
	}

	return nil
}
