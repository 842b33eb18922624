package picker

import (
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
)

// ProgressText renders the overlay caption for percent
func ProgressText(percent int) string {
	if percent >= 100 {
		return "Processing results…"
	}
	return fmt.Sprintf("Fetching restaurants… %d%%", percent)
}

// Progress is the fetch progress overlay state machine.
// Every fetch cycle owns a generation; frames from an older generation are dropped,
// so a superseded cycle can never move the overlay.
type Progress struct {
	mu         sync.Mutex
	generation uint64
	state      models.ProgressState
	percent    int

	surface  interfaces.WheelSurface
	interval time.Duration
	step     int
	cap      int
	logger   arbor.ILogger
}

// NewProgress creates an idle progress indicator rendering to surface
func NewProgress(surface interfaces.WheelSurface, config *common.WheelConfig, logger arbor.ILogger) *Progress {
	return &Progress{
		state:    models.ProgressIdle,
		surface:  surface,
		interval: config.ProgressInterval,
		step:     config.ProgressStep,
		cap:      config.ProgressCap,
		logger:   logger,
	}
}

// Begin starts a new generation and shows the overlay at 0%
func (p *Progress) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.generation++
	p.state = models.ProgressBusy
	p.percent = 0
	p.render()

	return p.generation
}

// Advance moves the overlay forward to percent. Lower values are ignored.
func (p *Progress) Advance(gen uint64, percent int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation || p.state != models.ProgressBusy {
		return false
	}
	if percent > 100 {
		percent = 100
	}
	if percent > p.percent {
		p.percent = percent
		p.render()
	}
	return true
}

// Animate starts the cosmetic animation: +step every interval, never past cap.
// The returned stop func blocks until the animation goroutine has exited.
func (p *Progress) Animate(gen uint64) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})

	if p.interval <= 0 || p.step <= 0 {
		close(exited)
	} else {
		common.SafeGo(p.logger, "progressAnimation", func() {
			defer close(exited)

			ticker := time.NewTicker(p.interval)
			defer ticker.Stop()

			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if !p.tick(gen) {
						return
					}
				}
			}
		})
	}

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		<-exited
	}
}

// tick reports false once the animation has nothing left to do
func (p *Progress) tick(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation || p.state != models.ProgressBusy {
		return false
	}
	if p.percent >= p.cap {
		return false
	}

	next := p.percent + p.step
	if next > p.cap {
		next = p.cap
	}
	p.percent = next
	p.render()
	return true
}

// Finish returns the overlay to idle, then runs after while still holding
// the generation, so nothing from a newer cycle can interleave.
func (p *Progress) Finish(gen uint64, after func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		return false
	}

	p.state = models.ProgressIdle
	p.percent = 0
	p.render()

	if after != nil {
		after()
	}
	return true
}

// Current reports the frame last rendered
func (p *Progress) Current() models.ProgressUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame()
}

func (p *Progress) frame() models.ProgressUpdate {
	update := models.ProgressUpdate{State: p.state}
	if p.state == models.ProgressBusy {
		update.Percent = p.percent
		update.Text = ProgressText(p.percent)
	}
	return update
}

func (p *Progress) render() {
	p.surface.ShowProgress(p.frame())
}
