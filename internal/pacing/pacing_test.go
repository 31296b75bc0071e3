package pacing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdown_PrintsEveryTick(t *testing.T) {
	var buf bytes.Buffer
	c := &Countdown{Out: &buf, Tick: time.Millisecond}

	require.NoError(t, c.Wait(context.Background(), "Sending Email in", 3*time.Millisecond))

	out := buf.String()
	for _, want := range []string{"Sending Email in : 3 sec", "Sending Email in : 2 sec", "Sending Email in : 1 sec", "Sending Email in : 0 sec"} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestCountdown_ZeroDuration(t *testing.T) {
	var buf bytes.Buffer
	c := &Countdown{Out: &buf, Tick: time.Hour}

	start := time.Now()
	require.NoError(t, c.Wait(context.Background(), "Creating Draft in", 0))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "\rCreating Draft in : 0 sec\n", buf.String())
}

func TestCountdown_Cancelled(t *testing.T) {
	var buf bytes.Buffer
	c := &Countdown{Out: &buf, Tick: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Wait(ctx, "Sending Email in", 3*time.Hour)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewCountdown(t *testing.T) {
	c := NewCountdown(&bytes.Buffer{})
	assert.Equal(t, time.Second, c.Tick)
}

func TestInstant(t *testing.T) {
	assert.NoError(t, Instant{}.Wait(context.Background(), "x", time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, Instant{}.Wait(ctx, "x", time.Hour))
}
