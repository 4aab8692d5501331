package snapshotlog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestProgressWritesStageAndCounts(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, zerolog.InfoLevel)
	l.Progress("post_order", 3, 10)
	out := buf.String()
	require.Contains(t, out, "post_order")
	require.Contains(t, out, "3")
	require.Contains(t, out, "10")
}

func TestWarnWritesErrorMessage(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, zerolog.WarnLevel)
	l.Warn("class_names", errors.New("boom"))
	require.Contains(t, buf.String(), "boom")
}

func TestNopDiscardsOutput(t *testing.T) {
	l := Nop()
	l.Progress("distances", 1, 1)
	l.Warn("distances", errors.New("ignored"))
	l.Error("distances", errors.New("ignored"))
}

func TestNewDefaultsNilWriterToStderr(t *testing.T) {
	l := New(nil, zerolog.InfoLevel)
	l.Progress("build_retainers", 0, 1)
}
