package typing

import (
	"testing"

	"github.com/onkardamal/Aura/internal/model"
)

func key(ts int64) model.TypingSample {
	return model.TypingSample{TimestampMs: ts, RawKey: "a"}
}

func backspace(ts int64) model.TypingSample {
	return model.TypingSample{TimestampMs: ts, RawKey: "Backspace"}
}

func TestInitialState(t *testing.T) {
	tr := New(Config{})
	snap := tr.Snapshot()
	if snap.Mood != model.MoodNeutral || snap.SpeedEstimate != 30 || len(snap.WindowSamples) != 0 {
		t.Fatalf("unexpected initial state: %+v", snap)
	}
}

func TestFrustratedTyping(t *testing.T) {
	tr := New(DefaultConfig())
	var mood model.MoodLabel
	for i := int64(0); i < 10; i++ {
		s := key(1000 + i*100)
		if i%3 == 1 || i == 9 {
			s = backspace(1000 + i*100)
		}
		mood = tr.Observe(s)
	}
	if mood != model.MoodFrustrated {
		t.Fatalf("expected frustrated, got %q (rate %.2f)", mood, tr.ErrorRate())
	}
}

func TestAnxiousTyping(t *testing.T) {
	tr := New(DefaultConfig())
	var mood model.MoodLabel
	for i := int64(0); i < 8; i++ {
		s := key(i * 200)
		if i == 3 || i == 6 {
			s = backspace(i * 200)
		}
		mood = tr.Observe(s)
	}
	if mood != model.MoodAnxious {
		t.Fatalf("expected anxious, got %q", mood)
	}
}

func TestExcitedTyping(t *testing.T) {
	tr := New(DefaultConfig())
	var mood model.MoodLabel
	for i := int64(0); i < 10; i++ {
		mood = tr.Observe(key(i * 150))
	}
	if mood != model.MoodExcited {
		t.Fatalf("expected excited, got %q", mood)
	}
	if speed := tr.Snapshot().SpeedEstimate; speed != 120 {
		t.Fatalf("expected speed 120, got %d", speed)
	}
}

func TestCalmTyping(t *testing.T) {
	tr := New(DefaultConfig())
	var mood model.MoodLabel
	for i := int64(0); i < 4; i++ {
		mood = tr.Observe(key(i * 6000))
	}
	if mood != model.MoodCalm {
		t.Fatalf("expected calm, got %q", mood)
	}
	if speed := tr.Snapshot().SpeedEstimate; speed != 30 {
		t.Fatalf("expected speed to stay at floor, got %d", speed)
	}
}

func TestMoodUnchangedWhenNoRuleMatches(t *testing.T) {
	tr := New(DefaultConfig())
	for i := int64(0); i < 10; i++ {
		tr.Observe(key(i * 150))
	}
	if tr.Mood() != model.MoodExcited {
		t.Fatalf("expected excited before corrections")
	}
	// moderate error rate, high speed, gaps between fast and slow thresholds
	tr.Observe(backspace(3350))
	mood := tr.Observe(backspace(5350))
	if mood != model.MoodExcited {
		t.Fatalf("expected mood to hold, got %q (rate %.2f)", mood, tr.ErrorRate())
	}
}

func TestSpeedCeiling(t *testing.T) {
	tr := New(DefaultConfig())
	for i := int64(0); i < 40; i++ {
		tr.Observe(key(i * 10))
	}
	if speed := tr.Snapshot().SpeedEstimate; speed != 150 {
		t.Fatalf("expected ceiling 150, got %d", speed)
	}
}

func TestWindowPruning(t *testing.T) {
	tr := New(DefaultConfig())
	tr.Observe(key(0))
	tr.Observe(backspace(500))
	tr.Observe(key(200_000))
	snap := tr.Snapshot()
	if len(snap.WindowSamples) != 1 || snap.ErrorCount != 0 {
		t.Fatalf("expected old samples pruned, got %+v", snap)
	}
	tr.Evaluate(400_000)
	if n := len(tr.Snapshot().WindowSamples); n != 0 {
		t.Fatalf("expected empty window after evaluate, got %d", n)
	}
	if rate := tr.ErrorRate(); rate != 0 {
		t.Fatalf("expected zero rate on empty window, got %f", rate)
	}
}

func TestOutOfOrderSamples(t *testing.T) {
	tr := New(DefaultConfig())
	tr.Observe(key(200_000))
	tr.Observe(key(0))
	snap := tr.Snapshot()
	if len(snap.WindowSamples) != 1 || snap.WindowSamples[0].TimestampMs != 200_000 {
		t.Fatalf("expected late sample pruned on arrival, got %+v", snap.WindowSamples)
	}
	if snap.SpeedEstimate != 30 {
		t.Fatalf("backwards gap should not raise speed, got %d", snap.SpeedEstimate)
	}

	tr.Reset()
	tr.Observe(key(100_000))
	tr.Observe(key(50_000))
	if n := len(tr.Snapshot().WindowSamples); n != 2 {
		t.Fatalf("expected both samples retained, got %d", n)
	}
	tr.Evaluate(171_000)
	snap = tr.Snapshot()
	if len(snap.WindowSamples) != 1 || snap.WindowSamples[0].TimestampMs != 100_000 {
		t.Fatalf("expected out-of-order sample pruned, got %+v", snap.WindowSamples)
	}
	if snap.SpeedEstimate != 30 {
		t.Fatalf("expected speed at floor, got %d", snap.SpeedEstimate)
	}
}

func TestRetentionBoundary(t *testing.T) {
	tr := New(DefaultConfig())
	tr.Observe(key(0))
	tr.Observe(key(120_000))
	snap := tr.Snapshot()
	if len(snap.WindowSamples) != 1 || snap.WindowSamples[0].TimestampMs != 120_000 {
		t.Fatalf("sample exactly one window old should be dropped, got %+v", snap.WindowSamples)
	}
	tr.Observe(key(239_999))
	if n := len(tr.Snapshot().WindowSamples); n != 2 {
		t.Fatalf("expected sample just inside the window kept, got %d", n)
	}
}

func TestResetAndDisable(t *testing.T) {
	tr := New(DefaultConfig())
	for i := int64(0); i < 10; i++ {
		tr.Observe(key(i * 100))
	}
	tr.Reset()
	snap := tr.Snapshot()
	if snap.Mood != model.MoodNeutral || len(snap.WindowSamples) != 0 || snap.SpeedEstimate != 30 {
		t.Fatalf("unexpected state after reset: %+v", snap)
	}

	tr.Observe(key(0))
	tr.SetEnabled(false)
	if tr.Enabled() {
		t.Fatalf("expected tracker disabled")
	}
	if mood := tr.Observe(key(100)); mood != model.MoodNeutral {
		t.Fatalf("expected neutral while disabled, got %q", mood)
	}
	if n := len(tr.Snapshot().WindowSamples); n != 0 {
		t.Fatalf("expected samples ignored while disabled, got %d", n)
	}
	tr.SetEnabled(true)
	tr.Observe(key(200))
	if n := len(tr.Snapshot().WindowSamples); n != 1 {
		t.Fatalf("expected sample after re-enable, got %d", n)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := New(DefaultConfig())
	tr.Observe(key(0))
	snap := tr.Snapshot()
	snap.WindowSamples[0].RawKey = "mutated"
	if tr.Snapshot().WindowSamples[0].RawKey != "a" {
		t.Fatalf("snapshot shares backing storage")
	}
}

func TestIsDeletion(t *testing.T) {
	if !IsDeletion(model.TypingSample{RawKey: "Delete"}) || !IsDeletion(model.TypingSample{IsDeletion: true}) {
		t.Fatalf("expected deletions")
	}
	if IsDeletion(model.TypingSample{RawKey: "d"}) {
		t.Fatalf("did not expect deletion")
	}
}
