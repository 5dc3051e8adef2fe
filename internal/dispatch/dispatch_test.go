package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/km/internal/errors"
)

func TestGo_DeliversValue(t *testing.T) {
	d := New()

	out := Go(d, context.Background(), func(context.Context) (int, error) {
		return 42, nil
	})

	res := <-out
	assert.NoError(t, res.Err)
	assert.Equal(t, 42, res.Value)

	_, open := <-out
	assert.False(t, open, "channel closes after the single outcome")
}

func TestGo_DeliversError(t *testing.T) {
	d := New()
	boom := errors.New(errors.ErrTool, "tool exploded", "")

	out := Go(d, context.Background(), func(context.Context) (string, error) {
		return "", boom
	})

	res := <-out
	assert.Equal(t, boom, res.Err)
	assert.Empty(t, res.Value)
}

func TestGo_PropagatesContext(t *testing.T) {
	d := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Go(d, ctx, func(inner context.Context) (struct{}, error) {
		return struct{}{}, inner.Err()
	})

	res := <-out
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestGo_RecoversPanics(t *testing.T) {
	d := New()

	out := Go(d, context.Background(), func(context.Context) (int, error) {
		panic("disk fell out")
	})

	res := <-out
	require.Error(t, res.Err)
	assert.True(t, errors.IsCode(res.Err, errors.ErrTool))
	assert.Contains(t, res.Err.Error(), "disk fell out")
}

func TestGo_AbandonedChannelDoesNotBlock(t *testing.T) {
	d := New()

	done := make(chan struct{})
	Go(d, context.Background(), func(context.Context) (int, error) {
		defer close(done)
		return 1, nil
	})

	// Nobody reads the outcome channel; the goroutine must still finish.
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatched goroutine blocked on an abandoned channel")
	}
}

func TestWait_BlocksUntilAllDone(t *testing.T) {
	d := New()

	release := make(chan struct{})
	out := Go(d, context.Background(), func(context.Context) (int, error) {
		<-release
		return 7, nil
	})

	close(release)
	d.Wait()

	// After Wait, the outcome is already buffered.
	select {
	case res := <-out:
		assert.Equal(t, 7, res.Value)
	default:
		t.Fatal("outcome not delivered before Wait returned")
	}
}
