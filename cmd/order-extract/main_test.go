package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Version(t *testing.T) {
	oldVersion := version
	version = "1.2.3"
	defer func() { version = oldVersion }()

	var stdout, stderr bytes.Buffer
	code := run("order-extract", []string{"--version"}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "Version: 1.2.3")
	assert.Contains(t, stdout.String(), "Built with: go")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no layout", []string{"order.pdf"}, "--layout is required"},
		{"no input", []string{"--layout", "autry"}, "exactly one"},
		{"two inputs", []string{"--layout", "autry", "a.pdf", "b.pdf"}, "exactly one"},
		{"bad method", []string{"--layout", "autry", "--method", "vision", "a.pdf"}, "invalid method"},
		{"unknown flag", []string{"--colour", "red"}, "unknown flag"},
		{"unknown layout", []string{"--layout", "nike", "--loglevel", "error", "a.pdf"}, "unknown layout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run("order-extract", tt.args, &stdout, &stderr)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr.String(), tt.want)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("not a pdf"), 0o644))
	logFile := filepath.Join(dir, "run.log")

	var stdout, stderr bytes.Buffer
	code := run("order-extract", []string{"-l", "autry", "--logfile", logFile, broken}, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "extraction failed"))
}

func TestRun_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run("order-extract", []string{"-l", "copenhagen", "--loglevel", "error", dir}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "[]\n", stdout.String())
}
