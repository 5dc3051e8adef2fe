// Package dispatch runs blocking key operations off the caller's
// goroutine so an interactive surface stays responsive. Every operation
// in the keystore package blocks until its external tool finishes; the
// dispatcher wraps one in a goroutine and delivers its outcome on a
// channel.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/logger"
)

// Outcome carries the result of one dispatched operation.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Dispatcher tracks in-flight operations so a shutdown can wait for them.
// The zero value is usable.
type Dispatcher struct {
	wg  sync.WaitGroup
	log logger.Logger
}

// New creates a dispatcher.
func New() *Dispatcher {
	return &Dispatcher{log: logger.NewEnvLogger("[dispatch]")}
}

// Go runs fn on its own goroutine and returns a channel that delivers
// exactly one Outcome and is then closed. The channel is buffered: the
// caller may abandon it without leaking the goroutine.
//
// A panic inside fn is recovered and delivered as an error rather than
// tearing down the process; a background key operation must never take
// the UI with it.
func Go[T any](d *Dispatcher, ctx context.Context, fn func(context.Context) (T, error)) <-chan Outcome[T] {
	out := make(chan Outcome[T], 1)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				d.logf("recovered panic in dispatched operation: %v", r)
				out <- Outcome[T]{Err: errors.New(errors.ErrTool,
					fmt.Sprintf("Operation panicked: %v", r),
					"This is a bug; please report it.")}
			}
		}()

		v, err := fn(ctx)
		out <- Outcome[T]{Value: v, Err: err}
	}()

	return out
}

// Wait blocks until every dispatched operation has delivered its outcome.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) logf(format string, args ...interface{}) {
	if d.log != nil {
		d.log.Error(format, args...)
	}
}
