package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/escolacentral/escola-backend/internal/config"
)

// SMTPSender delivers activation mails over plain SMTP. Auth is optional so
// local catch-all servers (mailpit and friends) work without credentials.
type SMTPSender struct {
	host string
	port string
	auth smtp.Auth
	from string
}

// NewSMTPSender creates a new SMTPSender from configuration.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return &SMTPSender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		auth: auth,
		from: cfg.MailFrom,
	}
}

// Deliver sends one activation mail.
func (s *SMTPSender) Deliver(m ActivationMail) error {
	msg := buildMessage(s.from, m)
	addr := s.host + ":" + s.port
	if err := smtp.SendMail(addr, s.auth, s.from, []string{m.To}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// buildMessage renders the RFC 5322 message for an activation invite.
func buildMessage(from string, m ActivationMail) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	b.WriteString("Subject: Ativação da sua conta de administrador\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Olá %s,\r\n\r\n", m.InviteeName)
	b.WriteString("Foi convidado(a) para administrar a consola escolar. ")
	b.WriteString("Para definir a sua palavra-passe, abra o link abaixo.\r\n\r\n")
	fmt.Fprintf(&b, "%s\r\n\r\n", m.ActivationURL)
	b.WriteString("O link é válido durante 24 horas e só pode ser utilizado uma vez.\r\n")
	b.WriteString("Se não esperava este convite, ignore esta mensagem.\r\n")
	return []byte(b.String())
}
