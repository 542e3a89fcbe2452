package logger

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"
)

// The writers are captured when the logger is built, so the pipes must be
// in place before New is called.
func capturedLogger(t *testing.T, config Config) (*Logger, func() (stdout, stderr []byte)) {
	t.Helper()

	origOut, origErr := os.Stdout, os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}

	os.Stdout, os.Stderr = wOut, wErr
	l := New(config)

	return l, func() (stdout, stderr []byte) {
		os.Stdout, os.Stderr = origOut, origErr
		_ = wOut.Close()
		_ = wErr.Close()
		stdout, _ = io.ReadAll(rOut)
		stderr, _ = io.ReadAll(rErr)
		return stdout, stderr
	}
}

func TestStderrKeepsStdoutClean(t *testing.T) {
	l, collect := capturedLogger(t, Config{
		Level:           "info",
		TimeFieldFormat: time.RFC3339,
		Stderr:          true,
	})

	l.Info().Msg("routing check")

	stdout, stderr := collect()
	if len(stdout) != 0 {
		t.Errorf("stdout not clean: %q", stdout)
	}
	if !bytes.Contains(stderr, []byte("routing check")) {
		t.Errorf("stderr = %q, want the info line", stderr)
	}
}

func TestInfoDefaultsToStdout(t *testing.T) {
	l, collect := capturedLogger(t, Config{
		Level:           "info",
		TimeFieldFormat: time.RFC3339,
	})

	l.Info().Msg("routing check")

	stdout, _ := collect()
	if !bytes.Contains(stdout, []byte("routing check")) {
		t.Errorf("stdout = %q, want the info line", stdout)
	}
}
