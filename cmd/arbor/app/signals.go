package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/sonemaro/arbor/pkg/logger"
)

// ExitInterrupted is the process status after an interrupt.
const ExitInterrupted = 130

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// WithSignals returns a context that is cancelled by the first SIGINT or
// SIGTERM. A second signal exits the process immediately. The returned stop
// function releases the handler.
func WithSignals(parent context.Context, log logger.Logger) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go handleSignals(sigChan, done, cancel, log, os.Exit)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(done)
			cancel()
		})
	}
	return ctx, stop
}

// handleSignals cancels on the first signal and calls exit on the second.
func handleSignals(sigChan <-chan os.Signal, done <-chan struct{}, cancel context.CancelFunc, log logger.Logger, exit func(int)) {
	state := &signalState{}
	for {
		select {
		case <-done:
			return
		case sig := <-sigChan:
			log.WithFields(logger.Fields{
				"signal": sig.String(),
			}).Debug("Received system signal")

			if state.shutdownInitiated.CompareAndSwap(false, true) {
				log.Info("Interrupted, cancelling scan")
				cancel()
				continue
			}

			log.Warn("Received second interrupt, forcing exit")
			exit(ExitInterrupted)
			return
		}
	}
}
