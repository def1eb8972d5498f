// Package typing derives a mood label from keystroke timing.
package typing

import (
	"sync"

	"github.com/onkardamal/Aura/internal/model"
)

// Config holds the tracker's timing thresholds. Zero fields take defaults.
type Config struct {
	RetentionMs int64
	FastGapMs   int64
	SlowGapMs   int64

	SpeedStep     int
	SlowSpeedStep int
	SpeedCeiling  int
	SpeedFloor    int

	FrustratedFastGaps int
	FrustratedRate     float64
	AnxiousFastGaps    int
	AnxiousRate        float64
	ExcitedFastGaps    int
	ExcitedRate        float64
	CalmSpeed          int
	CalmRate           float64
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		RetentionMs: 120_000,
		FastGapMs:   1_000,
		SlowGapMs:   5_000,

		SpeedStep:     10,
		SlowSpeedStep: 5,
		SpeedCeiling:  150,
		SpeedFloor:    30,

		FrustratedFastGaps: 9,
		FrustratedRate:     0.3,
		AnxiousFastGaps:    7,
		AnxiousRate:        0.2,
		ExcitedFastGaps:    9,
		ExcitedRate:        0.1,
		CalmSpeed:          60,
		CalmRate:           0.1,
	}
}

func applyDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.RetentionMs <= 0 {
		cfg.RetentionMs = def.RetentionMs
	}
	if cfg.FastGapMs <= 0 {
		cfg.FastGapMs = def.FastGapMs
	}
	if cfg.SlowGapMs <= 0 {
		cfg.SlowGapMs = def.SlowGapMs
	}
	if cfg.SpeedStep <= 0 {
		cfg.SpeedStep = def.SpeedStep
	}
	if cfg.SlowSpeedStep <= 0 {
		cfg.SlowSpeedStep = def.SlowSpeedStep
	}
	if cfg.SpeedCeiling <= 0 {
		cfg.SpeedCeiling = def.SpeedCeiling
	}
	if cfg.SpeedFloor <= 0 {
		cfg.SpeedFloor = def.SpeedFloor
	}
	if cfg.FrustratedFastGaps <= 0 {
		cfg.FrustratedFastGaps = def.FrustratedFastGaps
	}
	if cfg.FrustratedRate <= 0 {
		cfg.FrustratedRate = def.FrustratedRate
	}
	if cfg.AnxiousFastGaps <= 0 {
		cfg.AnxiousFastGaps = def.AnxiousFastGaps
	}
	if cfg.AnxiousRate <= 0 {
		cfg.AnxiousRate = def.AnxiousRate
	}
	if cfg.ExcitedFastGaps <= 0 {
		cfg.ExcitedFastGaps = def.ExcitedFastGaps
	}
	if cfg.ExcitedRate <= 0 {
		cfg.ExcitedRate = def.ExcitedRate
	}
	if cfg.CalmSpeed <= 0 {
		cfg.CalmSpeed = def.CalmSpeed
	}
	if cfg.CalmRate <= 0 {
		cfg.CalmRate = def.CalmRate
	}
	return cfg
}

// IsDeletion reports whether a sample counts as an error correction.
func IsDeletion(s model.TypingSample) bool {
	return s.IsDeletion || s.RawKey == "Backspace" || s.RawKey == "Delete" ||
		s.RawKey == "backspace" || s.RawKey == "delete"
}

// Tracker holds the rolling typing state for one session.
type Tracker struct {
	mu      sync.Mutex
	cfg     Config
	enabled bool
	samples []model.TypingSample
	newest  int64
	speed   int
	mood    model.MoodLabel
}

// New creates an enabled tracker.
func New(cfg Config) *Tracker {
	t := &Tracker{cfg: applyDefaults(cfg), enabled: true}
	t.reset()
	return t
}

func (t *Tracker) reset() {
	t.samples = nil
	t.newest = 0
	t.speed = t.cfg.SpeedFloor
	t.mood = model.MoodNeutral
}

// Reset clears all state and sets the mood to neutral.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
}

// SetEnabled toggles sample processing. Disabling resets state.
func (t *Tracker) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !enabled {
		t.reset()
	}
	t.enabled = enabled
}

// Enabled reports whether samples are processed.
func (t *Tracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Observe records a sample and returns the resulting mood.
func (t *Tracker) Observe(s model.TypingSample) model.MoodLabel {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return t.mood
	}
	if n := len(t.samples); n > 0 {
		gap := s.TimestampMs - t.samples[n-1].TimestampMs
		switch {
		case gap < 0:
			// clock stepped back
		case gap < t.cfg.FastGapMs:
			t.speed = min(t.speed+t.cfg.SpeedStep, t.cfg.SpeedCeiling)
		case gap > t.cfg.SlowGapMs:
			t.speed = max(t.speed-t.cfg.SlowSpeedStep, t.cfg.SpeedFloor)
		}
	}
	t.samples = append(t.samples, s)
	if s.TimestampMs > t.newest {
		t.newest = s.TimestampMs
	}
	t.prune(t.newest)
	t.evaluate()
	return t.mood
}

// Evaluate prunes against nowMs and re-runs the mood cascade.
func (t *Tracker) Evaluate(nowMs int64) model.MoodLabel {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return t.mood
	}
	if nowMs > t.newest {
		t.newest = nowMs
	}
	t.prune(t.newest)
	t.evaluate()
	return t.mood
}

// prune keeps samples younger than the retention window. Samples may be out of order.
func (t *Tracker) prune(nowMs int64) {
	kept := t.samples[:0]
	for _, s := range t.samples {
		if nowMs-s.TimestampMs < t.cfg.RetentionMs {
			kept = append(kept, s)
		}
	}
	clear(t.samples[len(kept):])
	t.samples = kept
}

func (t *Tracker) fastGaps() int {
	n := 0
	for i := 1; i < len(t.samples); i++ {
		gap := t.samples[i].TimestampMs - t.samples[i-1].TimestampMs
		if gap >= 0 && gap < t.cfg.FastGapMs {
			n++
		}
	}
	return n
}

func (t *Tracker) errorCount() int {
	n := 0
	for _, s := range t.samples {
		if IsDeletion(s) {
			n++
		}
	}
	return n
}

func (t *Tracker) errorRate() float64 {
	return float64(t.errorCount()) / float64(max(len(t.samples), 1))
}

func (t *Tracker) evaluate() {
	fast := t.fastGaps()
	rate := t.errorRate()
	c := t.cfg
	switch {
	case fast >= c.FrustratedFastGaps && rate > c.FrustratedRate:
		t.mood = model.MoodFrustrated
	case fast >= c.AnxiousFastGaps && rate > c.AnxiousRate:
		t.mood = model.MoodAnxious
	case fast >= c.ExcitedFastGaps && rate < c.ExcitedRate:
		t.mood = model.MoodExcited
	case t.speed < c.CalmSpeed && rate < c.CalmRate:
		t.mood = model.MoodCalm
	}
}

// Mood returns the current mood.
func (t *Tracker) Mood() model.MoodLabel {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mood
}

// ErrorRate returns deletions over retained samples, in [0,1].
func (t *Tracker) ErrorRate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errorRate()
}

// Snapshot returns a copy of the rolling state.
func (t *Tracker) Snapshot() model.TypingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	samples := make([]model.TypingSample, len(t.samples))
	copy(samples, t.samples)
	return model.TypingState{
		WindowSamples: samples,
		SpeedEstimate: t.speed,
		ErrorCount:    t.errorCount(),
		Mood:          t.mood,
	}
}
