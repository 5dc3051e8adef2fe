package invoke

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/km/internal/errors"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on POSIX shell tools")
	}
}

func TestRun_CapturesStdout(t *testing.T) {
	skipOnWindows(t)

	r := NewRunner()
	res, err := r.Run(context.Background(), Request{
		Argv: []string{"sh", "-c", "echo hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", string(res.Stdout))
}

func TestRun_NonzeroExitIsNotAnError(t *testing.T) {
	skipOnWindows(t)

	r := NewRunner()
	res, err := r.Run(context.Background(), Request{
		Argv: []string{"sh", "-c", "echo oops >&2; exit 3"},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "oops\n", string(res.Stderr))
}

func TestRun_PipesStdin(t *testing.T) {
	skipOnWindows(t)

	r := NewRunner()
	res, err := r.Run(context.Background(), Request{
		Argv:  []string{"cat"},
		Stdin: []byte("old\nnew\nnew\n"),
	})

	require.NoError(t, err)
	assert.Equal(t, "old\nnew\nnew\n", string(res.Stdout))
}

func TestRun_Timeout(t *testing.T) {
	skipOnWindows(t)

	r := NewRunner()
	start := time.Now()
	_, err := r.Run(context.Background(), Request{
		Argv:    []string{"sleep", "10"},
		Timeout: 100 * time.Millisecond,
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTimeout), "expected TIMEOUT, got: %v", err)
	assert.Less(t, time.Since(start), 5*time.Second, "child should be killed promptly")
}

func TestRun_Cancellation(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	r := NewRunner()
	_, err := r.Run(ctx, Request{Argv: []string{"sleep", "10"}})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCancelled), "expected CANCELLED, got: %v", err)
}

func TestRun_MissingProgram(t *testing.T) {
	r := NewRunner()
	_, err := r.Run(context.Background(), Request{
		Argv: []string{"definitely-not-a-real-program-km"},
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrToolMissing), "expected TOOLMISSING, got: %v", err)
}

func TestRun_EmptyArgv(t *testing.T) {
	r := NewRunner()
	_, err := r.Run(context.Background(), Request{})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}

func TestLookPath_Missing(t *testing.T) {
	_, err := LookPath("definitely-not-a-real-program-km")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrToolMissing))
}

func TestFakeRunner_MatchesAndRecords(t *testing.T) {
	f := NewFakeRunner().
		On("-lf", FakeResponse{Stdout: "256 SHA256:abc user@host (ED25519)\n"}).
		On("ssh-keygen", FakeResponse{ExitCode: 1, Stderr: "boom"})

	res, err := f.Run(context.Background(), Request{Argv: []string{"ssh-keygen", "-lf", "/tmp/key"}})
	require.NoError(t, err)
	assert.Contains(t, string(res.Stdout), "ED25519")

	res, err = f.Run(context.Background(), Request{Argv: []string{"ssh-keygen", "-t", "ed25519"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)

	assert.Equal(t, 2, f.CallCount("ssh-keygen"))
	assert.Equal(t, 1, f.CallCount("-lf"))
}
