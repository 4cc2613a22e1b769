package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner animates a braille frame beside a label until stopped. It writes
// nothing when disabled, so callers can use it unconditionally.
type Spinner struct {
	out     io.Writer
	frames  []string
	delay   time.Duration
	suffix  string
	enabled bool

	mu     sync.Mutex
	stop   chan struct{}
	wg     sync.WaitGroup
	active bool
}

func NewSpinner(out io.Writer, suffix string, enabled bool) *Spinner {
	return &Spinner{
		out:     out,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		delay:   100 * time.Millisecond,
		suffix:  suffix,
		enabled: enabled,
	}
}

func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || s.active {
		return
	}
	s.active = true
	s.stop = make(chan struct{})

	s.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer s.wg.Done()
		ticker := time.NewTicker(s.delay)
		defer ticker.Stop()
		for i := 0; ; i = (i + 1) % len(s.frames) {
			fmt.Fprintf(s.out, "\r%s %s", StylePrimary.Render(s.frames[i]), s.suffix)
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}(s.stop)
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.stop)
	s.mu.Unlock()

	s.wg.Wait()
	fmt.Fprint(s.out, "\r\033[K")
}
