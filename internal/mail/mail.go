// Package mail delivers composed messages.
package mail

import "context"

// Mailer sends or drafts raw RFC 822 messages. Implementations do not retry:
// a failed call is reported and the case is picked up again on the next run.
type Mailer interface {
	Send(ctx context.Context, raw []byte) error
	Draft(ctx context.Context, raw []byte) error
}
