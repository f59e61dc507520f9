package core

import (
	"net/mail"
	"strings"
	"testing"
	"testing/fstest"
)

type mailUser struct {
	Name, Email, Role string
}

func TestEmailMessage_Render(t *testing.T) {
	conf := &Config{AppName: "School Connect", FrontendBaseURL: "http://localhost:19006"}

	msg := EmailMessage{
		To:           []mail.Address{{Name: "John Doe", Address: "parent@example.com"}},
		Subject:      "Welcome",
		TemplateName: "welcome",
		TemplateData: mailUser{Name: "John Doe", Email: "parent@example.com", Role: "parent"},
	}
	if err := msg.Render(conf); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	for _, want := range []string{"Hello John Doe", "Welcome to School Connect", "parent account", "parent@example.com"} {
		if !strings.Contains(msg.TextContent, want) {
			t.Errorf("text content does not contain %q:\n%s", want, msg.TextContent)
		}
	}
	if !strings.Contains(msg.HTMLContent, `<a href="http://localhost:19006">`) {
		t.Errorf("html content = %s", msg.HTMLContent)
	}

	unknown := EmailMessage{TemplateName: "nope"}
	if err := unknown.Render(conf); err == nil {
		t.Error("Render() of an unknown template must fail")
	}

	plain := EmailMessage{}
	if err := plain.Render(conf); err != nil || plain.HasContent() {
		t.Errorf("Render() without template: err %v, content %q", err, plain.TextContent)
	}
}

func Test_parseTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/email/_base.txt":  {Data: []byte(`{{template "content" .}} -- {{.AppName}}`)},
		"templates/email/hello.txt":  {Data: []byte(`{{define "content"}}Hi {{.Data.Name}}{{end}}`)},
		"templates/email/notes.md":   {Data: []byte("ignored")},
		"templates/email/broken.txt":  {Data: []byte(`{{define "content"}}{{.Data.Name}`)},
	}

	if _, err := parseTemplates(fsys); err == nil {
		t.Fatal("parseTemplates() must fail on a broken template")
	}

	delete(fsys, "templates/email/broken.txt")
	cache, err := parseTemplates(fsys)
	if err != nil {
		t.Fatalf("parseTemplates() failed: %v", err)
	}
	if len(cache) != 1 || cache["hello"][extText] == nil || cache["hello"][extHTML] != nil {
		t.Fatalf("cache = %+v", cache)
	}
	out, err := execute(cache["hello"][extText], ContextData{AppName: "SC", Data: mailUser{Name: "Emma"}})
	if err != nil || out != "Hi Emma -- SC" {
		t.Errorf("execute() = %q, %v", out, err)
	}
}
