package main

import (
	"testing"

	"github.com/jonathan/exchange-insights/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "650.00", formatCents(65000))
	assert.Equal(t, "0.50", formatCents(50))
	assert.Equal(t, "0.00", formatCents(0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "a very long unive...", truncate("a very long university name", 20))
	assert.Equal(t, "abc", truncate("abcdef", 3))
}

func TestPrintGlobalStats_EmptyReport(t *testing.T) {
	// An empty platform must render without panicking.
	assert.NotPanics(t, func() {
		printGlobalStats(types.GlobalStats{})
	})
}
