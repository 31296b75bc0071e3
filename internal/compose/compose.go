// Package compose renders the outgoing messages from templates.
package compose

import (
	"bytes"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/rotisserie/eris"

	"github.com/ldgenealogie/outreach-cli/internal/config"
)

// NotaryData fills the notary introduction message.
type NotaryData struct {
	PersonFullName string
	PersonLastName string
	NotaryLastName string
	ReferenceDate  string
}

// ClientData fills the client settlement message.
type ClientData struct {
	PersonFullName string
	AmountFound    string
	Commission     string
	AmountDue      string
}

// InvoiceData fills the case closing message.
type InvoiceData struct {
	PersonFullName string
	InvoiceNumber  string
	CommissionHT   string
	VAT            string
	CommissionTTC  string
	// PaymentDate is the long French form ("18 octobre 2026"), or empty.
	PaymentDate string
}

type kind struct {
	subject *texttemplate.Template
	body    *template.Template
}

// Composer builds messages from parsed templates.
type Composer struct {
	from       string
	signature  string
	attachment *Attachment

	notary  kind
	client  kind
	invoice kind
}

// Option configures a Composer.
type Option func(*Composer)

// WithNotaryAttachment attaches a to every notary message.
func WithNotaryAttachment(a Attachment) Option {
	return func(c *Composer) { c.attachment = &a }
}

// New parses t. from is the sender address put on every message.
func New(t Templates, sender config.SenderConfig, from string, opts ...Option) (*Composer, error) {
	c := &Composer{from: from}

	sig, err := template.New("signature").Parse(t.Signature)
	if err != nil {
		return nil, eris.Wrap(err, "compose: parse signature")
	}
	var buf bytes.Buffer
	if err := sig.Execute(&buf, sender); err != nil {
		return nil, eris.Wrap(err, "compose: render signature")
	}
	c.signature = buf.String()

	for name, p := range map[string]struct {
		dst *kind
		src Template
	}{
		"notary":  {&c.notary, t.Notary},
		"client":  {&c.client, t.Client},
		"invoice": {&c.invoice, t.Invoice},
	} {
		if p.dst.subject, err = texttemplate.New(name + ".subject").Option("missingkey=error").Parse(p.src.Subject); err != nil {
			return nil, eris.Wrapf(err, "compose: parse %s subject", name)
		}
		if p.dst.body, err = template.New(name + ".body").Option("missingkey=error").Parse(p.src.Body); err != nil {
			return nil, eris.Wrapf(err, "compose: parse %s body", name)
		}
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Notary composes the introduction message sent to a notary at to.
func (c *Composer) Notary(to string, d NotaryData) (*Message, error) {
	m, err := c.render("notary", c.notary, to, d)
	if err != nil {
		return nil, err
	}
	if c.attachment != nil {
		m.Attachments = append(m.Attachments, *c.attachment)
	}
	return m, nil
}

// Client composes the settlement message for a client. Client drafts carry no
// recipient; the operator fills it in.
func (c *Composer) Client(d ClientData) (*Message, error) {
	return c.render("client", c.client, "", d)
}

// Invoice composes the case closing message.
func (c *Composer) Invoice(d InvoiceData) (*Message, error) {
	return c.render("invoice", c.invoice, "", d)
}

func (c *Composer) render(name string, k kind, to string, data any) (*Message, error) {
	var subject, body bytes.Buffer
	if err := k.subject.Execute(&subject, data); err != nil {
		return nil, eris.Wrapf(err, "compose: render %s subject", name)
	}
	if err := k.body.Execute(&body, data); err != nil {
		return nil, eris.Wrapf(err, "compose: render %s body", name)
	}
	return &Message{
		From:    c.from,
		To:      to,
		Subject: strings.TrimSpace(subject.String()),
		HTML:    body.String() + c.signature,
	}, nil
}
