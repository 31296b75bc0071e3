package mail

import (
	"context"
	"encoding/base64"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const me = "me"

// NewService creates a Gmail API client. An empty credentials file falls back
// to application default credentials.
func NewService(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*gmail.Service, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "mail: create gmail service")
	}
	return svc, nil
}

// Gmail delivers messages through the authenticated Gmail account.
type Gmail struct {
	svc *gmail.Service
}

// NewGmail wraps svc.
func NewGmail(svc *gmail.Service) *Gmail {
	return &Gmail{svc: svc}
}

// Profile returns the address of the authenticated account.
func (g *Gmail) Profile(ctx context.Context) (string, error) {
	p, err := g.svc.Users.GetProfile(me).Context(ctx).Do()
	if err != nil {
		return "", eris.Wrap(err, "mail: get profile")
	}
	return p.EmailAddress, nil
}

// Send sends raw immediately.
func (g *Gmail) Send(ctx context.Context, raw []byte) error {
	msg, err := g.svc.Users.Messages.Send(me, &gmail.Message{Raw: encode(raw)}).Context(ctx).Do()
	if err != nil {
		return eris.Wrap(err, "mail: send message")
	}
	zap.L().Debug("mail: message sent", zap.String("id", msg.Id))
	return nil
}

// Draft stores raw as a draft of the account.
func (g *Gmail) Draft(ctx context.Context, raw []byte) error {
	d, err := g.svc.Users.Drafts.Create(me, &gmail.Draft{Message: &gmail.Message{Raw: encode(raw)}}).Context(ctx).Do()
	if err != nil {
		return eris.Wrap(err, "mail: create draft")
	}
	zap.L().Debug("mail: draft created", zap.String("id", d.Id))
	return nil
}

func encode(raw []byte) string {
	return base64.URLEncoding.EncodeToString(raw)
}
