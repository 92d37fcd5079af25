package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"harmonizer/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

var spinnerFrames = []string{"-", "\\", "|", "/"}

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by the provided text, updating
// the same line in the terminal. The spinner runs in a separate goroutine and
// can be stopped by calling the returned function, which clears the line.
//
// Nothing is drawn when w is not a terminal; the returned function is still safe to call.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	if f, ok := w.(*os.File); !ok || !terminal.IsTerminal(f) {
		return func() {}
	}
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				// Clear the spinner line completely, then return
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

// areaSpinner shows a one-line status with an animated frame in a pterm area.
// It hides the cursor while running.
type areaSpinner struct {
	area  *pterm.AreaPrinter
	stop  chan struct{}
	wg    sync.WaitGroup
	mu    sync.Mutex
	label string
	once  sync.Once
}

// startAreaSpinner starts an area spinner when stdout is a terminal.
// It returns nil otherwise; all methods accept a nil receiver.
func startAreaSpinner(label string) *areaSpinner {
	if !terminal.IsTerminal(os.Stdout) {
		return nil
	}
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return nil
	}
	s := &areaSpinner{area: area, stop: make(chan struct{}), label: label}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		i := 0
		for {
			select {
			case <-t.C:
				i++
				s.mu.Lock()
				label := s.label
				s.mu.Unlock()
				area.Update(fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], label))
			case <-s.stop:
				return
			}
		}
	}()
	return s
}

// Set replaces the status text.
func (s *areaSpinner) Set(label string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// Stop ends the animation, removes the area and shows the cursor again.
func (s *areaSpinner) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		close(s.stop)
		s.wg.Wait()
		_ = s.area.Stop()
		cursor.Show()
	})
}
