// Package middleware provides composable handler wrappers: logging,
// panic recovery and timeouts. A middleware wraps a handler and returns a
// new one, so chains build with plain function composition and attach
// through the regular builder Action call.
package middleware

import (
	"fmt"
	"time"

	"github.com/dzonerzy/go-cliq/cliq"
)

// Func wraps a handler, returning a new handler.
type Func func(cliq.Handler) cliq.Handler

// Chain applies middlewares left to right: the first listed is outermost.
func Chain(handler cliq.Handler, wrappers ...Func) cliq.Handler {
	for i := len(wrappers) - 1; i >= 0; i-- {
		handler = wrappers[i](handler)
	}
	return handler
}

// Logging logs command start and completion, including duration and error
// outcome, at info level.
func Logging(logger *cliq.Logger) Func {
	return func(next cliq.Handler) cliq.Handler {
		return func(ctx *cliq.Context) (any, error) {
			path := ctx.Command.Path()
			logger.Infof("running %s", path)
			start := time.Now()
			result, err := next(ctx)
			elapsed := time.Since(start)
			if err != nil {
				logger.Errorf("%s failed after %s: %v", path, elapsed, err)
			} else {
				logger.Infof("%s finished in %s", path, elapsed)
			}
			return result, err
		}
	}
}

// Recovery converts a handler panic into an ordinary error so one bad
// command does not take down an embedding process.
func Recovery() Func {
	return func(next cliq.Handler) cliq.Handler {
		return func(ctx *cliq.Context) (result any, err error) {
			defer func() {
				if r := recover(); r != nil {
					result = nil
					err = fmt.Errorf("command %s panicked: %v", ctx.Command.Path(), r)
				}
			}()
			return next(ctx)
		}
	}
}

// Timeout fails the command when the handler runs longer than d. The
// handler keeps running in its goroutine; cooperative handlers should watch
// their own deadlines for real cancellation.
func Timeout(d time.Duration) Func {
	return func(next cliq.Handler) cliq.Handler {
		return func(ctx *cliq.Context) (any, error) {
			type outcome struct {
				result any
				err    error
			}
			done := make(chan outcome, 1)
			go func() {
				result, err := next(ctx)
				done <- outcome{result, err}
			}()

			select {
			case out := <-done:
				return out.result, out.err
			case <-time.After(d):
				return nil, fmt.Errorf("command %s timed out after %s", ctx.Command.Path(), d)
			}
		}
	}
}
