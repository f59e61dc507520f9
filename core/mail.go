package core

import (
	"bytes"
	htmltmpl "html/template"
	"io"
	"io/fs"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"

	appfs "github.com/trezcool/schoolconnect/fs"
)

const emailTemplatesDir = "templates/email"

const (
	extText = ".txt"
	extHTML = ".gohtml"
)

var (
	templates    map[string]emailTemplates // by template name
	templatesErr error
	tmplInit     sync.Once
)

type (
	// executor is satisfied by both text and html templates.
	executor interface {
		Execute(w io.Writer, data interface{}) error
	}

	emailTemplates map[string]executor // by file extension

	EmailMessage struct {
		To      []mail.Address
		Subject string

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// ContextData is what email templates are executed with.
	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render renders the text and HTML contents of a templated message.
// Templates are parsed from the embedded FS on first use.
func (m *EmailMessage) Render(conf *Config) error {
	if m.TemplateName == "" {
		return nil
	}
	tmplInit.Do(func() { templates, templatesErr = parseTemplates(appfs.FS) })
	if templatesErr != nil {
		return errors.Wrap(templatesErr, "parsing templates")
	}

	tmpls, ok := templates[m.TemplateName]
	if !ok {
		return errors.Errorf("unknown email template %q", m.TemplateName)
	}
	data := ContextData{
		AppName:         conf.AppName,
		FrontendBaseURL: conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}

	var err error
	if m.TextContent, err = execute(tmpls[extText], data); err != nil {
		return errors.Wrap(err, "rendering text")
	}
	if m.HTMLContent, err = execute(tmpls[extHTML], data); err != nil {
		return errors.Wrap(err, "rendering html")
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

func execute(tmpl executor, data ContextData) (string, error) {
	if tmpl == nil {
		return "", nil
	}
	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, data); err != nil {
		return "", err
	}
	return buff.String(), nil
}

// parseTemplates parses every "<name>.txt" and "<name>.gohtml" of the email templates dir
// along with the matching "_base" layout.
func parseTemplates(fsys fs.FS) (map[string]emailTemplates, error) {
	fps, err := fs.Glob(fsys, path.Join(emailTemplatesDir, "*"))
	if err != nil {
		return nil, err
	}

	cache := make(map[string]emailTemplates)
	for _, fp := range fps {
		fname := path.Base(fp)
		ext := path.Ext(fname)
		if strings.HasPrefix(fname, "_") || (ext != extText && ext != extHTML) {
			continue
		}
		base := path.Join(emailTemplatesDir, "_base"+ext)

		var tmpl executor
		if ext == extText {
			tmpl, err = texttmpl.ParseFS(fsys, base, fp)
			if err == nil {
				tmpl = tmpl.(*texttmpl.Template).Option("missingkey=error")
			}
		} else {
			tmpl, err = htmltmpl.ParseFS(fsys, base, fp)
			if err == nil {
				tmpl = tmpl.(*htmltmpl.Template).Option("missingkey=error")
			}
		}
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", fp)
		}

		name := strings.TrimSuffix(fname, ext)
		if cache[name] == nil {
			cache[name] = make(emailTemplates)
		}
		cache[name][ext] = tmpl
	}
	return cache, nil
}
