package report

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootd/internal/failure"
)

func TestReport_Banner(t *testing.T) {
	var out, logs bytes.Buffer
	r := New(&out, slog.New(slog.NewJSONHandler(&logs, nil)))

	err := &failure.Failure{
		Category: failure.CategoryContextInit,
		Message:  "unable to start web server",
		Cause:    failure.New(failure.CategoryPortInUse, "listen tcp :8080: bind: address already in use"),
	}
	d := r.Report(err)

	assert.Equal(t, "Port issue: listen tcp :8080: bind: address already in use", d.Description)

	text := out.String()
	assert.Contains(t, text, "APPLICATION FAILED TO START")
	assert.Contains(t, text, "Description:\n\nPort issue: listen tcp :8080: bind: address already in use\n")
	assert.Contains(t, text, "Action:\n\nConfigure a new port\n")
	assert.Less(t, strings.Index(text, "Description:"), strings.Index(text, "Action:"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "ContextInit", rec["category"])
	assert.Equal(t, "Configure a new port", rec["action"])
	assert.Equal(t, []any{
		"ContextInit: unable to start web server",
		"PortInUse: listen tcp :8080: bind: address already in use",
	}, rec["chain"])
}

func TestReport_NilError(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	d := r.Report(nil)

	assert.Equal(t, "Unknown failure", d.Description)
	assert.Contains(t, out.String(), "No specific action available")
}

func TestReport_NilWriter(t *testing.T) {
	r := New(nil, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	assert.NotPanics(t, func() { r.Report(failure.New(failure.CategorySocket, "reset")) })
}
