package compose

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Attachment is a file carried by a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// LoadAttachment reads path and names the attachment name, or the file's base
// name when name is empty.
func LoadAttachment(path, name string) (Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, eris.Wrapf(err, "compose: read attachment %s", path)
	}
	if name == "" {
		name = filepath.Base(path)
	}
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return Attachment{Name: name, ContentType: ct, Data: data}, nil
}

// Message is a composed email, ready to be rendered for the mail API.
type Message struct {
	From        string
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Bytes renders the message as multipart/mixed RFC 822 text.
func (m *Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }
	hdr("MIME-Version", "1.0")
	if m.From != "" {
		hdr("From", m.From)
	}
	if m.To != "" {
		hdr("To", m.To)
	}
	hdr("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	hdr("Content-Type", "multipart/mixed; boundary="+mw.Boundary())
	buf.WriteString("\r\n")

	body, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/html; charset=utf-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, eris.Wrap(err, "compose: create body part")
	}
	qp := quotedprintable.NewWriter(body)
	if _, err := qp.Write([]byte(m.HTML)); err != nil {
		return nil, eris.Wrap(err, "compose: write body")
	}
	if err := qp.Close(); err != nil {
		return nil, eris.Wrap(err, "compose: write body")
	}

	for _, a := range m.Attachments {
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {a.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.Name})},
		})
		if err != nil {
			return nil, eris.Wrapf(err, "compose: create attachment part %s", a.Name)
		}
		if err := writeBase64Lines(part, a.Data); err != nil {
			return nil, eris.Wrapf(err, "compose: write attachment %s", a.Name)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, eris.Wrap(err, "compose: close message")
	}
	return buf.Bytes(), nil
}

// writeBase64Lines encodes data in lines of 76 characters.
func writeBase64Lines(w io.Writer, data []byte) error {
	enc := base64.StdEncoding.EncodeToString(data)
	for len(enc) > 0 {
		n := min(76, len(enc))
		if _, err := w.Write([]byte(enc[:n] + "\r\n")); err != nil {
			return err
		}
		enc = enc[n:]
	}
	return nil
}
