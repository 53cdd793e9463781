package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"lintang/tspanneal/pkg/logging"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

// MeasureOptions configures the observer goroutine that runs next to a
// measured function. None of it touches the function's state.
type MeasureOptions struct {
	// Budget is the wall-clock limit, 0 disables it.
	Budget time.Duration
	// OnBudgetExceeded runs once, on the observer goroutine, when Budget
	// passes before the function returns. Aborting is up to the callback.
	OnBudgetExceeded func(elapsed time.Duration)
	// SampleInterval is the observer tick. Defaults to 100ms.
	SampleInterval time.Duration
	// MemFile receives "elapsed_ns, heap_alloc, sys" lines, appended.
	MemFile string
	// Spinner shows a progress spinner on stderr.
	Spinner bool
	// Bar replaces the spinner with a bar the caller advances itself.
	Bar         *progressbar.ProgressBar
	Description string
	Logger      *slog.Logger
}

type sampler struct {
	opts  MeasureOptions
	start time.Time
	mem   io.WriteCloser
	bar   *progressbar.ProgressBar
	log   *slog.Logger
}

func newSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(ansi.NewAnsiStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(9),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
	)
}

// NewEraBar is a stderr bar sized to the number of eras a schedule runs.
func NewEraBar(eras int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(eras,
		progressbar.OptionSetWriter(ansi.NewAnsiStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func (s *sampler) sampleMemory() {
	if s.mem == nil {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if _, err := fmt.Fprintf(s.mem, "%d, %d, %d\n", time.Since(s.start).Nanoseconds(), ms.HeapAlloc, ms.Sys); err != nil {
		s.log.Warn("memory sample dropped", "err", err)
	}
}

// loop runs until done is closed or the budget is exceeded.
func (s *sampler) loop(done <-chan struct{}) {
	ticker := time.NewTicker(s.opts.SampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.sampleMemory()
			if s.bar != nil && s.opts.Bar == nil {
				_ = s.bar.Add(1)
			}
			elapsed := time.Since(s.start)
			if s.opts.Budget > 0 && elapsed >= s.opts.Budget {
				if s.bar != nil {
					_ = s.bar.Exit()
					s.bar = nil
				}
				s.log.Error("time limit exceeded", "limit", s.opts.Budget, "elapsed", elapsed)
				if s.opts.OnBudgetExceeded != nil {
					s.opts.OnBudgetExceeded(elapsed)
				}
				return
			}
		}
	}
}

// MeasureExecutionTime runs fn on the calling goroutine and returns how long
// it took. An observer goroutine samples memory, drives the spinner and
// watches the budget; it is stopped with a one-shot signal once fn returns.
func MeasureExecutionTime[T any](opts MeasureOptions, fn func() T) (time.Duration, T) {
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = 100 * time.Millisecond
	}
	if opts.Description == "" {
		opts.Description = "Calculating best route"
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &sampler{opts: opts, start: time.Now(), log: logger}
	if opts.MemFile != "" {
		f, err := os.OpenFile(opts.MemFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Warn("memory sampling disabled", "file", opts.MemFile, "err", err)
		} else {
			s.mem = f
		}
	}
	switch {
	case opts.Bar != nil:
		s.bar = opts.Bar
	case opts.Spinner:
		s.bar = newSpinner(opts.Description)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.loop(done)
	}()

	instant := time.Now()
	res := fn()
	elapsed := time.Since(instant)

	close(done)
	wg.Wait()
	if s.bar != nil {
		_ = s.bar.Exit()
	}
	if s.mem != nil {
		if err := s.mem.Close(); err != nil {
			s.log.Warn("closing memory samples", "file", s.opts.MemFile, "err", err)
		}
	}
	return elapsed, res
}
