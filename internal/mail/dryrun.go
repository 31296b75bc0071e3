package mail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DryRun writes every message to a directory as an .eml file instead of
// delivering it.
type DryRun struct {
	dir string

	mu  sync.Mutex
	seq int
}

// NewDryRun creates dir if needed.
func NewDryRun(dir string) (*DryRun, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "mail: create dry-run dir %s", dir)
	}
	return &DryRun{dir: dir}, nil
}

// Send writes raw as send-NNN.eml.
func (d *DryRun) Send(ctx context.Context, raw []byte) error {
	return d.write(ctx, "send", raw)
}

// Draft writes raw as draft-NNN.eml.
func (d *DryRun) Draft(ctx context.Context, raw []byte) error {
	return d.write(ctx, "draft", raw)
}

func (d *DryRun) write(ctx context.Context, kind string, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrapf(err, "mail: dry-run %s", kind)
	}

	d.mu.Lock()
	d.seq++
	name := filepath.Join(d.dir, fmt.Sprintf("%s-%03d.eml", kind, d.seq))
	d.mu.Unlock()

	if err := os.WriteFile(name, raw, 0o644); err != nil {
		return eris.Wrapf(err, "mail: write %s", name)
	}
	zap.L().Info("mail: dry run", zap.String("kind", kind), zap.String("file", name))
	return nil
}
