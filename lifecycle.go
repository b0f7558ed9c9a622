package logtap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// flushGrace bounds the final flush attempt on the exit paths. It must cover
// one full push attempt.
const flushGrace = 3 * time.Second

// WatchSignals flushes the buffer when one of the given signals arrives,
// then terminates the process with the conventional 128+signo status. With
// no signals given it watches SIGINT and SIGTERM. The final flush is a
// single best-effort attempt; shutdown is never blocked by a slow endpoint.
func (t *Tap) WatchSignals(sigs ...os.Signal) {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	go func() {
		sig := <-ch
		t.flushForExit()
		os.Exit(exitStatus(sig))
	}()
}

// Recover is meant to be deferred in main. On panic it logs the panic
// through the capture path, forces a final flush, and re-panics so the
// process still terminates with a failure status.
func (t *Tap) Recover() {
	if r := recover(); r != nil {
		t.capture("ERROR", fmt.Sprintf("panic: %v", r))
		t.flushForExit()
		panic(r)
	}
}

// Go runs fn on its own goroutine. A panic in fn is logged through the
// capture path and force-flushed, but the process keeps running.
func (t *Tap) Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				t.capture("ERROR", fmt.Sprintf("panic: %v", r))
				t.flushForExit()
			}
		}()
		fn()
	}()
}

func (t *Tap) flushForExit() {
	ctx, cancel := context.WithTimeout(context.Background(), flushGrace)
	defer cancel()
	t.Flush(ctx)
}

func exitStatus(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}
