package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/brl0/konch/internal/logging"
)

// fakeBackend records launcher interactions.
type fakeBackend struct {
	name      string
	available error
	startErr  error
	log       *[]string
}

func (f *fakeBackend) Name() string {
	return f.name
}

func (f *fakeBackend) Available() error {
	return f.available
}

func (f *fakeBackend) Start(ctx context.Context, opts Options) error {
	*f.log = append(*f.log, "start:"+f.name)
	return f.startErr
}

func newFakeLauncher(backends ...Backend) *Launcher {
	return &Launcher{chain: backends, logger: logging.Noop()}
}

func TestLauncher_AutoWalksChain(t *testing.T) {
	var log []string
	first := &fakeBackend{name: "first", available: errors.New("no tty"), log: &log}
	second := &fakeBackend{name: "second", available: errors.New("no tty"), log: &log}
	third := &fakeBackend{name: "third", log: &log}
	l := newFakeLauncher(first, second, third)

	if err := l.Start(context.Background(), BackendAuto, Options{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(log) != 1 || log[0] != "start:third" {
		t.Errorf("log = %v, want [start:third]", log)
	}
}

func TestLauncher_AutoStopsAtFirstAvailable(t *testing.T) {
	var log []string
	first := &fakeBackend{name: "first", log: &log}
	second := &fakeBackend{name: "second", log: &log}
	l := newFakeLauncher(first, second)

	if err := l.Start(context.Background(), "", Options{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(log) != 1 || log[0] != "start:first" {
		t.Errorf("log = %v, want [start:first]", log)
	}
}

func TestLauncher_UnknownBackend(t *testing.T) {
	var log []string
	l := newFakeLauncher(&fakeBackend{name: "first", log: &log})

	err := l.Start(context.Background(), "nope", Options{})
	if err == nil {
		t.Fatal("Start() expected error, got nil")
	}
	var unknown *UnknownBackendError
	if !errors.As(err, &unknown) {
		t.Fatalf("error type = %T, want *UnknownBackendError", err)
	}
	if unknown.Name != "nope" {
		t.Errorf("Name = %q, want %q", unknown.Name, "nope")
	}
	if !strings.Contains(err.Error(), "unknown shell") {
		t.Errorf("error = %v, want substring %q", err, "unknown shell")
	}
	if !strings.Contains(err.Error(), "first") {
		t.Errorf("error = %v, should list known backends", err)
	}
}

func TestLauncher_ExplicitSkipsAvailability(t *testing.T) {
	var log []string
	backend := &fakeBackend{name: "picky", available: errors.New("no tty"), log: &log}
	l := newFakeLauncher(backend)

	if err := l.Start(context.Background(), "picky", Options{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(log) != 1 {
		t.Errorf("log = %v, want one start", log)
	}
}

func TestLauncher_ExplicitStartFailure(t *testing.T) {
	var log []string
	backend := &fakeBackend{name: "broken", startErr: errors.New("boom"), log: &log}
	l := newFakeLauncher(backend)

	err := l.Start(context.Background(), "broken", Options{})
	if err == nil {
		t.Fatal("Start() expected error, got nil")
	}
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("error type = %T, want *UnavailableError", err)
	}
	if unavailable.Name != "broken" {
		t.Errorf("Name = %q, want %q", unavailable.Name, "broken")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error = %v, should name the backend", err)
	}
}

func TestLauncher_HookOrder(t *testing.T) {
	var log []string
	backend := &fakeBackend{name: "session", log: &log}
	l := newFakeLauncher(backend)

	opts := Options{
		Setup: func() error {
			log = append(log, "setup")
			return nil
		},
		Teardown: func() error {
			log = append(log, "teardown")
			return nil
		},
	}
	if err := l.Start(context.Background(), BackendAuto, opts); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	want := []string{"setup", "start:session", "teardown"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestLauncher_TeardownRunsAfterSessionError(t *testing.T) {
	var log []string
	backend := &fakeBackend{name: "session", startErr: errors.New("boom"), log: &log}
	l := newFakeLauncher(backend)

	tornDown := false
	opts := Options{
		Setup:    func() error { return nil },
		Teardown: func() error { tornDown = true; return nil },
	}
	err := l.Start(context.Background(), BackendAuto, opts)
	if err == nil {
		t.Fatal("Start() expected error, got nil")
	}
	if !tornDown {
		t.Error("teardown should run when the session fails")
	}
}

func TestLauncher_SetupFailureSkipsSession(t *testing.T) {
	var log []string
	backend := &fakeBackend{name: "session", log: &log}
	l := newFakeLauncher(backend)

	tornDown := false
	opts := Options{
		Setup:    func() error { return errors.New("no database") },
		Teardown: func() error { tornDown = true; return nil },
	}
	err := l.Start(context.Background(), BackendAuto, opts)
	if err == nil {
		t.Fatal("Start() expected error, got nil")
	}
	var hookErr *HookError
	if !errors.As(err, &hookErr) {
		t.Fatalf("error type = %T, want *HookError", err)
	}
	if hookErr.Hook != "setup" {
		t.Errorf("Hook = %q, want %q", hookErr.Hook, "setup")
	}
	if len(log) != 0 {
		t.Errorf("session should not start after setup failure, log = %v", log)
	}
	if tornDown {
		t.Error("teardown should not run when setup never completed")
	}
}

func TestLauncher_CancelMidSessionRunsTeardown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	var log []string
	l := NewLauncher(nil)
	done := make(chan error, 1)
	go func() {
		done <- l.Start(ctx, BackendPlain, Options{
			Setup:    func() error { log = append(log, "setup"); return nil },
			Teardown: func() error { log = append(log, "teardown"); return nil },
			Stdin:    pr,
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
		})
	}()

	// The write returns once the session loop is consuming input, so the
	// cancellation lands mid-session.
	if _, err := io.WriteString(pw, ":help\n"); err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v, want an orderly end", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after cancellation")
	}

	if len(log) != 2 || log[0] != "setup" || log[1] != "teardown" {
		t.Errorf("hook order = %v, want [setup teardown]", log)
	}
}

func TestLauncher_InterruptRunsTeardown(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("the test interrupts its own process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	var log []string
	setupRan := make(chan struct{})
	l := NewLauncher(nil)
	done := make(chan error, 1)
	go func() {
		done <- l.Start(ctx, BackendPlain, Options{
			Setup:    func() error { log = append(log, "setup"); close(setupRan); return nil },
			Teardown: func() error { log = append(log, "teardown"); return nil },
			Stdin:    pr,
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
		})
	}()

	<-setupRan
	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}
	if err := proc.Signal(os.Interrupt); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v, want an orderly end", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after the interrupt")
	}

	if len(log) != 2 || log[0] != "setup" || log[1] != "teardown" {
		t.Errorf("hook order = %v, want [setup teardown]", log)
	}
}

func TestLauncher_TeardownErrorSurfaces(t *testing.T) {
	var log []string
	backend := &fakeBackend{name: "session", log: &log}
	l := newFakeLauncher(backend)

	opts := Options{
		Teardown: func() error { return errors.New("cleanup failed") },
	}
	err := l.Start(context.Background(), BackendAuto, opts)
	var hookErr *HookError
	if !errors.As(err, &hookErr) {
		t.Fatalf("error type = %T, want *HookError", err)
	}
	if hookErr.Hook != "teardown" {
		t.Errorf("Hook = %q, want %q", hookErr.Hook, "teardown")
	}
}

func TestLauncher_ExplicitHookFailureStaysHookError(t *testing.T) {
	var log []string
	backend := &fakeBackend{name: "session", log: &log}
	l := newFakeLauncher(backend)

	opts := Options{
		Setup: func() error { return errors.New("no database") },
	}
	err := l.Start(context.Background(), "session", Options{Setup: opts.Setup})
	var hookErr *HookError
	if !errors.As(err, &hookErr) {
		t.Fatalf("error type = %T, want *HookError", err)
	}
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		t.Error("hook failures should not be reported as backend unavailability")
	}
}

func TestNewLauncher_DefaultChain(t *testing.T) {
	l := NewLauncher(nil)

	want := []string{BackendAuto, BackendGo, BackendLua, BackendPlain}
	got := l.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	last := l.chain[len(l.chain)-1]
	if err := last.Available(); err != nil {
		t.Errorf("terminal backend Available() = %v, want nil", err)
	}
}
