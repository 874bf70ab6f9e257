package appshell

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	live := context.Background()
	dead, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 0, exitCode(live, 0))
	assert.Equal(t, 3, exitCode(live, 3))
	assert.Equal(t, ExitInterrupted, exitCode(dead, 0))
	assert.Equal(t, ExitInterrupted, exitCode(dead, 3))
	assert.Equal(t, 2, exitCode(dead, 2), "usage errors are not masked")
}

func TestRunPassesArgsAndCode(t *testing.T) {
	var got []string
	entry := func(ctx context.Context, argv []string, stdout, _ io.Writer) int {
		got = argv
		_, _ = io.WriteString(stdout, "ok")
		return 2
	}
	var out bytes.Buffer
	code := run(entry, []string{"-h"}, &out, io.Discard)
	assert.Equal(t, 2, code)
	assert.Equal(t, []string{"-h"}, got)
	assert.Equal(t, "ok", out.String())
}
