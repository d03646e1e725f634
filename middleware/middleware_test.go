package middleware_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dzonerzy/go-cliq/cliq"
	"github.com/dzonerzy/go-cliq/middleware"
)

func runWith(t *testing.T, handler cliq.Handler) (*cliq.RunResult, error) {
	t.Helper()
	root := cliq.New("app", "").
		Command(cliq.New("job", "").Action(handler)).
		MustBuild()
	return cliq.NewCLI(root).Output(&bytes.Buffer{}).Cli("job")
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Func {
		return func(next cliq.Handler) cliq.Handler {
			return func(ctx *cliq.Context) (any, error) {
				order = append(order, name)
				return next(ctx)
			}
		}
	}

	handler := middleware.Chain(
		func(*cliq.Context) (any, error) {
			order = append(order, "handler")
			return nil, nil
		},
		tag("outer"), tag("inner"),
	)

	if _, err := runWith(t, handler); err != nil {
		t.Fatal(err)
	}
	want := "outer,inner,handler"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestLogging(t *testing.T) {
	var log bytes.Buffer
	handler := middleware.Chain(
		func(*cliq.Context) (any, error) { return "ok", nil },
		middleware.Logging(cliq.NewLogger(&log)),
	)

	res, err := runWith(t, handler)
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != "ok" {
		t.Errorf("result = %v", res.Result)
	}
	if !strings.Contains(log.String(), "running app job") {
		t.Errorf("start line missing: %q", log.String())
	}
	if !strings.Contains(log.String(), "finished in") {
		t.Errorf("finish line missing: %q", log.String())
	}
}

func TestLoggingError(t *testing.T) {
	var log bytes.Buffer
	boom := errors.New("boom")
	handler := middleware.Chain(
		func(*cliq.Context) (any, error) { return nil, boom },
		middleware.Logging(cliq.NewLogger(&log)),
	)

	if _, err := runWith(t, handler); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(log.String(), "failed after") {
		t.Errorf("failure line missing: %q", log.String())
	}
}

func TestRecovery(t *testing.T) {
	handler := middleware.Chain(
		func(*cliq.Context) (any, error) { panic("kaput") },
		middleware.Recovery(),
	)

	_, err := runWith(t, handler)
	if err == nil || !strings.Contains(err.Error(), "kaput") {
		t.Fatalf("err = %v", err)
	}
}

func TestTimeout(t *testing.T) {
	handler := middleware.Chain(
		func(*cliq.Context) (any, error) {
			time.Sleep(200 * time.Millisecond)
			return "late", nil
		},
		middleware.Timeout(10*time.Millisecond),
	)

	_, err := runWith(t, handler)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("err = %v", err)
	}
}

func TestTimeoutFastHandlerPasses(t *testing.T) {
	handler := middleware.Chain(
		func(*cliq.Context) (any, error) { return "fast", nil },
		middleware.Timeout(time.Second),
	)

	res, err := runWith(t, handler)
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != "fast" {
		t.Errorf("result = %v", res.Result)
	}
}
