package services

import (
	"sync"
	"time"
)

// ProgressTicker cycles through a fixed list of stage descriptions on a
// fixed interval while an analysis is in flight. It is cosmetic only and
// carries no information about actual backend progress.
type ProgressTicker struct {
	stages   []string
	interval time.Duration
	onStage  func(index int, stage string)

	stopOnce sync.Once
	done     chan struct{}
}

// NewProgressTicker creates a ticker over the given stages. The callback is
// invoked from the ticker's own goroutine.
func NewProgressTicker(stages []string, interval time.Duration, onStage func(index int, stage string)) *ProgressTicker {
	return &ProgressTicker{
		stages:   stages,
		interval: interval,
		onStage:  onStage,
		done:     make(chan struct{}),
	}
}

// Start begins cycling. The first stage fires immediately, later stages on
// the configured interval, wrapping around after the last.
func (t *ProgressTicker) Start() {
	if len(t.stages) == 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		index := 0
		t.emit(index)

		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				index = (index + 1) % len(t.stages)
				t.emit(index)
			}
		}
	}()
}

func (t *ProgressTicker) emit(index int) {
	// The stop signal wins over a tick that raced with it.
	select {
	case <-t.done:
		return
	default:
	}

	if t.onStage != nil {
		t.onStage(index, t.stages[index])
	}
}

// Stop halts stage advancement. Safe to call more than once.
func (t *ProgressTicker) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
}
