package mailer

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	m := ActivationMail{
		To:            "ana@escola.pt",
		InviteeName:   "Ana Silva",
		ActivationURL: "https://console.escolacentral.pt/first-access?token=abc123",
	}

	msg := string(buildMessage("no-reply@escolacentral.pt", m))

	for _, want := range []string{
		"From: no-reply@escolacentral.pt\r\n",
		"To: ana@escola.pt\r\n",
		"Subject: ",
		"Olá Ana Silva,",
		m.ActivationURL,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	headerEnd := strings.Index(msg, "\r\n\r\n")
	if headerEnd < 0 {
		t.Fatal("message has no header/body separator")
	}
	if strings.Contains(msg[:headerEnd], m.ActivationURL) {
		t.Error("activation URL belongs in the body, not the headers")
	}
}
