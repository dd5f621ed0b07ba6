package runner_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/creack/pty"
	"github.com/gandalfthegui/dotenv/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunPassesEnvironment(t *testing.T) {
	requireShell(t)

	var stdout bytes.Buffer
	r := &runner.Runner{Stdin: strings.NewReader(""), Stdout: &stdout, Stderr: &stdout}

	code, err := r.Run(context.Background(), []string{"FOO=from env file"}, "sh", "-c", `printf '%s' "$FOO"`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "from env file", stdout.String())
}

func TestRunStdin(t *testing.T) {
	requireShell(t)

	var stdout bytes.Buffer
	r := &runner.Runner{Stdin: strings.NewReader("piped"), Stdout: &stdout}

	code, err := r.Run(context.Background(), nil, "sh", "-c", "cat")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "piped", stdout.String())
}

func TestRunExitCode(t *testing.T) {
	requireShell(t)

	r := &runner.Runner{}
	code, err := r.Run(context.Background(), nil, "sh", "-c", "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestRunMissingCommand(t *testing.T) {
	r := &runner.Runner{}
	code, err := r.Run(context.Background(), nil, "dotenv-test-no-such-command")
	assert.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestRunKilledBySignal(t *testing.T) {
	requireShell(t)

	r := &runner.Runner{}
	code, err := r.Run(context.Background(), nil, "sh", "-c", "kill -TERM $$")
	require.NoError(t, err)
	assert.Equal(t, 128+15, code)
}

func TestRunTerminalUsesPTY(t *testing.T) {
	requireShell(t)

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	require.NoError(t, pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80}))
	before, err := term.GetState(int(tty.Fd()))
	require.NoError(t, err)

	var stdout bytes.Buffer
	r := &runner.Runner{Stdin: tty, Stdout: &stdout}

	// The child sees a terminal of the same size on its stdin.
	code, err := r.Run(context.Background(), []string{"FOO=in pty", "PATH=" + os.Getenv("PATH")},
		"sh", "-c", `test -t 0 && printf '%s|' "$FOO" && stty size; exit 4`)
	require.NoError(t, err)
	assert.Equal(t, 4, code)
	assert.Contains(t, stdout.String(), "in pty|24 80")

	// The caller's terminal is back in its original mode.
	after, err := term.GetState(int(tty.Fd()))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
