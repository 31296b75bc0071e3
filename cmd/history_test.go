package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ldgenealogie/outreach-cli/internal/journal"
)

func TestFormatHistory(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 15, 0, 0, time.UTC)
	entries := []journal.Entry{
		{
			RunID:      "abc12345-6789-0000-0000-000000000000",
			CaseRow:    7,
			CaseName:   "Hélène LEFÈVRE",
			NotaryName: "Marie MARTIN",
			Action:     "send",
			Outcome:    "sent",
			CreatedAt:  now,
		},
		{
			RunID:     "abc12345-6789-0000-0000-000000000000",
			CaseRow:   9,
			CaseName:  "Paul DURAND",
			Action:    "send",
			Error:     "mail: send: googleapi: Error 403",
			CreatedAt: now,
		},
	}

	var buf bytes.Buffer
	formatHistory(&buf, entries)

	out := buf.String()
	assert.Contains(t, out, "RUN")
	assert.Contains(t, out, "abc12345")
	assert.NotContains(t, out, "abc12345-6789")
	assert.Contains(t, out, "Hélène LEFÈVRE")
	assert.Contains(t, out, "sent")
	assert.Contains(t, out, "error: mail: send")
	assert.Contains(t, out, "2026-10-18 09:15")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 8))
	assert.Equal(t, "abcde...", truncate("abcdefghijk", 8))
	assert.Equal(t, "Hél...", truncate("Hélène LEFÈVRE", 6))
}
