package compose

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// Template is one message kind. Subject is plain text; Body is HTML.
type Template struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// Templates holds every message kind plus the shared signature.
type Templates struct {
	Signature string   `yaml:"signature"`
	Notary    Template `yaml:"notary"`
	Client    Template `yaml:"client"`
	Invoice   Template `yaml:"invoice"`
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() (Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(defaultTemplates, &t); err != nil {
		return Templates{}, eris.Wrap(err, "compose: parse built-in templates")
	}
	return t, nil
}

// LoadTemplates reads a templates file. Kinds missing from the file keep the
// built-in template. An empty path returns the built-ins.
func LoadTemplates(path string) (Templates, error) {
	t, err := DefaultTemplates()
	if err != nil || path == "" {
		return t, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, eris.Wrapf(err, "compose: read templates %s", path)
	}
	var override Templates
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Templates{}, eris.Wrapf(err, "compose: parse templates %s", path)
	}

	if override.Signature != "" {
		t.Signature = override.Signature
	}
	for _, p := range []struct{ dst, src *Template }{
		{&t.Notary, &override.Notary},
		{&t.Client, &override.Client},
		{&t.Invoice, &override.Invoice},
	} {
		if p.src.Subject != "" {
			p.dst.Subject = p.src.Subject
		}
		if p.src.Body != "" {
			p.dst.Body = p.src.Body
		}
	}
	return t, nil
}
