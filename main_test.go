package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonify/internal/config"
	"github.com/mcncl/jsonify/internal/errors"
	"github.com/mcncl/jsonify/internal/models"
)

// newTestContext returns a quiet context writing to in-memory buffers
func newTestContext(stdin string) (*Context, *bytes.Buffer, *bytes.Buffer) {
	cfg := config.NewConfig()
	cfg.Progress.Enabled = false

	var stdout, stderr bytes.Buffer
	return &Context{
		Config: cfg,
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

func setArgs(t *testing.T, input, output string) {
	t.Helper()
	originalCLI := CLI
	t.Cleanup(func() { CLI = originalCLI })
	CLI.Input = input
	CLI.Output = output
}

func TestRun_FileToFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "trace.log")
	output := filepath.Join(dir, "trace.json")

	content := strings.Join([]string{
		`2024-01-01 INFO {"ts":1,"ph":"B","name":"open"} done`,
		`2024-01-01 INFO {"ts":2,"ph":"E","name":"open"}`,
		`no events on this line`,
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))

	setArgs(t, input, output)
	ctx, _, stderr := newTestContext("")

	require.NoError(t, run(ctx))

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, "["))
	assert.True(t, strings.HasSuffix(doc, "]\n"))
	assert.Equal(t, 1, strings.Count(doc, ",\n"))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "B", decoded[0]["ph"])
	assert.Equal(t, "E", decoded[1]["ph"])

	assert.Contains(t, stderr.String(), "Wrote to "+output)
}

func TestRun_NoMarkers(t *testing.T) {
	setArgs(t, "-", "-")
	ctx, stdout, _ := newTestContext("just\nsome\nnoise {\"a\":1}\n")

	require.NoError(t, run(ctx))
	assert.Equal(t, "[]\n", stdout.String())
}

func TestRun_EmptyInputFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.log")
	output := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(input, nil, 0644))

	setArgs(t, input, output)
	ctx, _, _ := newTestContext("")

	require.NoError(t, run(ctx))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestRun_StdinToStdout(t *testing.T) {
	setArgs(t, "-", "-")
	ctx, stdout, stderr := newTestContext(`a""{"ts":1,"name"‥"x"}""b` + "\n" + `{"ts":2,"args":{"n":{"m":1}}}` + "\n")

	require.NoError(t, run(ctx))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "x", decoded[0]["name"])
	assert.NotContains(t, stderr.String(), "Wrote to")
}

func TestRun_NoRepairKeepsRawText(t *testing.T) {
	setArgs(t, "-", "-")
	ctx, stdout, _ := newTestContext(`{"ts":1, "a" : 2 ,}` + "\n")
	ctx.Config.Repair.Enabled = false

	require.NoError(t, run(ctx))
	assert.Equal(t, "[{\"ts\":1, \"a\" : 2 ,}]\n", stdout.String())
}

func TestRun_DebugLogging(t *testing.T) {
	setArgs(t, "-", "-")
	ctx, _, stderr := newTestContext(`{"ts":1}` + "\n" + `{"ts":2,` + "\n")
	ctx.Debug = true

	require.NoError(t, run(ctx))

	out := stderr.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "dropped unbalanced event")
	assert.Contains(t, out, "events=1")
}

func TestRun_MissingInput(t *testing.T) {
	setArgs(t, filepath.Join(t.TempDir(), "missing.log"), filepath.Join(t.TempDir(), "out.json"))
	ctx, _, _ := newTestContext("")

	err := run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
	assert.Contains(t, errors.UserFriendlyError(err), "Input error")
}

func TestRun_RequiresArguments(t *testing.T) {
	setArgs(t, "", "")
	ctx, _, _ := newTestContext("")

	err := run(ctx)
	assert.ErrorIs(t, err, errors.ErrNoInput)
}

func TestRun_UnwritableOutput(t *testing.T) {
	setArgs(t, "-", filepath.Join(t.TempDir(), "no", "such", "dir.json"))
	ctx, _, _ := newTestContext(`{"ts":1}`)

	err := run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeOutput})
}

func TestReportDefects(t *testing.T) {
	ctx, _, stderr := newTestContext("")
	ctx.Config.Repair.OnError = config.PolicyPassthrough

	reportDefects(ctx, resultWithDefect())

	assert.Contains(t, stderr.String(), "1 event(s) could not be repaired and were written unrepaired")
	assert.Contains(t, stderr.String(), "segment 4, offset 12")
}

func resultWithDefect() models.Result {
	return models.Result{
		Defects: []models.Defect{{
			Segment: 4,
			Offset:  12,
			Raw:     `{"ts":1,}`,
			Err:     errors.NewRepairError("cannot repair", errors.ErrRepairFailed),
		}},
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "config error",
			err:      errors.NewConfigError("unknown on_error policy", errors.ErrInvalidConfig),
			expected: "Configuration error: unknown on_error policy",
		},
		{
			name:     "input error",
			err:      errors.NewInputError("file 'x.log' not found", errors.ErrFileNotFound),
			expected: "Input error: file 'x.log' not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)

			assert.Equal(t, tt.expected+"\n\nFor help, run: jsonify --help\n", buf.String())
		})
	}
}
