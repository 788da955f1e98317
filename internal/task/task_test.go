package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRun_ZeroDelayIsSynchronous(t *testing.T) {
	called := false
	f := Run(0, func() (int, error) {
		called = true
		return 42, nil
	})

	if !called {
		t.Fatalf("fn must run before Run returns when delay is zero")
	}

	select {
	case <-f.Done():
	default:
		t.Fatalf("future must already be resolved")
	}

	v, err := f.Wait(context.Background())
	if err != nil || v != 42 {
		t.Fatalf("Wait() = %d, %v; want 42, nil", v, err)
	}
}

func TestRun_DelayedResult(t *testing.T) {
	wantErr := errors.New("boom")
	f := Run(20*time.Millisecond, func() (string, error) {
		return "", wantErr
	})

	_, err := f.Wait(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("Wait() error = %v, want %v", err, wantErr)
	}
}

func TestWait_ContextBoundsOnlyTheWaiter(t *testing.T) {
	f := Run(50*time.Millisecond, func() (int, error) {
		return 7, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() error = %v, want DeadlineExceeded", err)
	}

	v, err := f.Wait(context.Background())
	if err != nil || v != 7 {
		t.Fatalf("operation must still complete: got %d, %v", v, err)
	}
}

func TestResolved(t *testing.T) {
	f := Resolved("ok", nil)
	v, err := f.Wait(context.Background())
	if err != nil || v != "ok" {
		t.Fatalf("Wait() = %q, %v", v, err)
	}
}

func TestThen(t *testing.T) {
	var got []int
	f := Then(Resolved(3, nil), func(v int) { got = append(got, v) })
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("resolved future: callback got %v, want [3]", got)
	}
	if v, err := f.Wait(context.Background()); err != nil || v != 3 {
		t.Fatalf("Wait() = %d, %v", v, err)
	}

	wantErr := errors.New("rejected")
	called := false
	f = Then(Run(10*time.Millisecond, func() (int, error) { return 0, wantErr }), func(int) { called = true })
	if _, err := f.Wait(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("Wait() error = %v, want %v", err, wantErr)
	}
	if called {
		t.Fatalf("callback must not run on error")
	}
}
