package skyview

import "time"

// StepTimer measures frame time. Call Tick once per frame; Elapsed is the time since the previous Tick and Total the
// time since the first one.
type StepTimer struct {
	Now func() time.Time // Clock source; time.Now by default

	start, last time.Time
	elapsed     time.Duration
	total       time.Duration
	frames      int
}

// NewStepTimer returns a StepTimer that reads the wall clock.
func NewStepTimer() *StepTimer {
	return &StepTimer{Now: time.Now}
}

// Tick samples the clock, advancing the timer by the time since the previous Tick. The first Tick has an elapsed
// time of zero.
func (timer *StepTimer) Tick() {
	now := timer.Now()
	if timer.frames == 0 {
		timer.start = now
		timer.last = now
	}
	timer.Advance(now.Sub(timer.last))
	timer.last = now
}

// Advance moves the timer forward by a fixed step without reading the clock.
func (timer *StepTimer) Advance(step time.Duration) {
	if step < 0 {
		step = 0
	}
	timer.elapsed = step
	timer.total += step
	timer.frames++
}

// Elapsed returns the length of the last frame, in seconds.
func (timer *StepTimer) Elapsed() float32 { return float32(timer.elapsed.Seconds()) }

// Total returns the time accumulated since the timer started, in seconds.
func (timer *StepTimer) Total() float32 { return float32(timer.total.Seconds()) }

// FrameCount returns how many frames the timer has counted.
func (timer *StepTimer) FrameCount() int { return timer.frames }
