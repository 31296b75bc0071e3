package contact

import (
	"math/rand/v2"
	"time"

	"github.com/ldgenealogie/outreach-cli/internal/config"
)

// Policy holds the pacing around outreach actions.
type Policy struct {
	SendMin   time.Duration
	SendMax   time.Duration
	Draft     time.Duration
	AfterSend time.Duration
}

// DefaultPolicy waits 120-180s before a send, 20s before a draft and 5s after.
func DefaultPolicy() Policy {
	return Policy{
		SendMin:   120 * time.Second,
		SendMax:   180 * time.Second,
		Draft:     20 * time.Second,
		AfterSend: 5 * time.Second,
	}
}

// PolicyFromConfig converts the pacing section of the config.
func PolicyFromConfig(cfg config.PacingConfig) Policy {
	return Policy{
		SendMin:   time.Duration(cfg.SendMinSecs) * time.Second,
		SendMax:   time.Duration(cfg.SendMaxSecs) * time.Second,
		Draft:     time.Duration(cfg.DraftSecs) * time.Second,
		AfterSend: time.Duration(cfg.AfterSendSecs) * time.Second,
	}
}

// SendDelay draws a whole number of seconds uniformly from [SendMin, SendMax].
func (p Policy) SendDelay(rng *rand.Rand) time.Duration {
	lo := int64(p.SendMin / time.Second)
	hi := int64(p.SendMax / time.Second)
	if hi <= lo {
		return time.Duration(lo) * time.Second
	}
	return time.Duration(lo+rng.Int64N(hi-lo+1)) * time.Second
}

// Delay returns the wait before carrying out d.
func (p Policy) Delay(d Decision, rng *rand.Rand) time.Duration {
	switch d.Action {
	case ActionSend:
		return p.SendDelay(rng)
	case ActionDraft:
		return p.Draft
	default:
		return 0
	}
}
