// Package spinner shows a terminal spinner while a long step, such as training
// a model on a large corpus, is running.
package spinner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner represents a spinning progress indicator.
type Spinner struct {
	frames  []string
	delay   time.Duration
	writer  io.Writer
	message string
	started time.Time
	active  bool
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a spinner writing to writer.
// ctx allows for cancellation of the spinner goroutine.
func New(ctx context.Context, writer io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		frames:  defaultFrames,
		delay:   80 * time.Millisecond,
		writer:  writer,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return
	}

	s.active = true
	s.started = time.Now()

	s.wg.Add(1)
	go s.run()
}

// Stop stops the animation, clears the line and returns how long the spinner ran.
func (s *Spinner) Stop() time.Duration {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return 0
	}

	s.active = false
	s.cancel()
	elapsed := time.Since(s.started)
	s.mu.Unlock()

	s.wg.Wait()

	if IsTerminal(s.writer) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
	return elapsed
}

// UpdateMessage updates the spinner message
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

func (s *Spinner) run() {
	defer s.wg.Done()

	frameIndex := 0
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			frame := s.frames[frameIndex%len(s.frames)]
			message := s.message
			elapsed := time.Since(s.started).Truncate(100 * time.Millisecond)
			s.mu.RUnlock()

			fmt.Fprintf(s.writer, "\r%s %s (%s)", frame, message, elapsed)
			frameIndex++
		}
	}
}

// Run calls fn while a spinner with message runs on writer. fn may replace the
// message through update. A nil writer runs fn without a spinner.
func Run(ctx context.Context, writer io.Writer, message string, fn func(update func(message string)) error) error {
	if writer == nil {
		return fn(func(string) {})
	}

	s := New(ctx, writer, message)
	s.Start()

	err := fn(s.UpdateMessage)
	slog.Debug("Spinner stopped", "message", message, "elapsed", s.Stop())
	return err
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
