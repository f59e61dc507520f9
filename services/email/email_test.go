package emailsvc

import (
	"io"
	"log"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/schoolconnect/core"
	logsvc "github.com/trezcool/schoolconnect/services/logger"
)

func testConf() *core.Config {
	return &core.Config{AppName: "School Connect", FrontendBaseURL: "http://localhost:19006", TestMode: true}
}

func welcome() *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: "John Doe", Address: "parent@example.com"}},
		Subject:      "Welcome",
		TemplateName: "welcome",
		TemplateData: struct{ Name, Email, Role string }{"John Doe", "parent@example.com", "parent"},
	}
}

func TestConsoleServiceMock(t *testing.T) {
	conf := testConf()
	svc := NewConsoleServiceMock(conf, logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf))

	svc.SendMessages(welcome(), &core.EmailMessage{Subject: "nobody", TemplateName: "welcome", TemplateData: welcome().TemplateData})
	sent := svc.SentMessages()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "Welcome", sent[0].Subject)
		assert.Contains(t, sent[0].TextContent, "Hello John Doe")
	}

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}

func Test_consoleService_build(t *testing.T) {
	conf := testConf()
	svc := NewConsoleServiceMock(conf, logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf))

	msg := welcome()
	if err := msg.Render(conf); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	body, err := svc.build(*msg)
	if err != nil {
		t.Fatalf("build() failed: %v", err)
	}
	for _, want := range []string{
		`To: "John Doe" <parent@example.com>`,
		"Subject: [School Connect] Welcome",
		"Content-Type: multipart/alternative; boundary=",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Type: text/html; charset=utf-8",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

func Test_sendgridService_prepare(t *testing.T) {
	conf := testConf()
	svc := NewSendgridService(conf, logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)).(*sendgridService)

	msg := welcome()
	if err := msg.Render(conf); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	m := svc.prepare(*msg)
	if assert.Len(t, m.Personalizations, 1) {
		assert.Equal(t, "[School Connect] Welcome", m.Personalizations[0].Subject)
		assert.Equal(t, "parent@example.com", m.Personalizations[0].To[0].Address)
	}
	if assert.Len(t, m.Content, 2) {
		assert.Equal(t, "text/plain", m.Content[0].Type)
		assert.Equal(t, "text/html", m.Content[1].Type)
	}
	assert.Equal(t, "noreply@localhost", m.From.Address)
}
