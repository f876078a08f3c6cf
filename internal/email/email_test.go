package email

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	sender := NewSMTPSender(Config{From: "recetas@example.com"})

	msg := string(sender.buildMessage(
		[]string{"nieta@example.com", "nieto@example.com"},
		"Bienvenida", "<p>Hola</p>"))

	for _, want := range []string{
		"From: recetas@example.com\r\n",
		"To: nieta@example.com, nieto@example.com\r\n",
		"Subject: Bienvenida\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
		"\r\n<p>Hola</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q\nmessage: %q", want, msg)
		}
	}
}

func TestSend_NoRecipients(t *testing.T) {
	sender := NewSMTPSender(Config{From: "recetas@example.com"})
	if err := sender.Send(nil, "s", "b"); err == nil {
		t.Error("expected error for empty recipient list, got nil")
	}
}
