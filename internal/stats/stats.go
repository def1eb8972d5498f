// Package stats contains typing metrics and history reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/onkardamal/Aura/internal/model"
	"github.com/onkardamal/Aura/internal/typing"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM, CPM, and accuracy from kept and corrected keystrokes.
func SessionMetrics(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	if durationMs <= 0 {
		return 0, 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	if minutes <= 0 {
		return 0, 0, 0
	}
	wpm = (float64(correct) / 5.0) / minutes
	cpm = float64(correct) / minutes
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	return wpm, cpm, accuracy
}

// WindowMetrics computes WPM and accuracy over a tracker snapshot.
// Deletions count against accuracy and are not counted as typed characters.
func WindowMetrics(state model.TypingState) (wpm, accuracy float64) {
	samples := state.WindowSamples
	if len(samples) < 2 {
		return 0, 0
	}
	deletions := 0
	for _, s := range samples {
		if typing.IsDeletion(s) {
			deletions++
		}
	}
	typed := len(samples) - deletions
	durationMs := samples[len(samples)-1].TimestampMs - samples[0].TimestampMs
	wpm, _, accuracy = SessionMetrics(typed, deletions, durationMs)
	return wpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints label and intent totals for analyses.
func RenderSummary(w io.Writer, analyses []model.AnalysisRecord) error {
	if len(analyses) == 0 {
		_, err := fmt.Fprintln(w, "No analyses found.")
		return err
	}
	labels := map[model.SentimentLabel]int{}
	intents := map[model.Intent]int{}
	total := 0
	for _, a := range analyses {
		labels[a.Result.Sentiment.Label]++
		intents[a.Result.Intent]++
		total += a.Result.Sentiment.Score
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analyses: %d\n", len(analyses)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Score: %.2f\n", float64(total)/float64(len(analyses))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Positive/Neutral/Negative: %d/%d/%d\n",
		labels[model.SentimentPositive], labels[model.SentimentNeutral], labels[model.SentimentNegative]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Top Intent: %s\n", topIntent(intents)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func topIntent(counts map[model.Intent]int) string {
	if len(counts) == 0 {
		return "-"
	}
	intents := make([]model.Intent, 0, len(counts))
	for i := range counts {
		intents = append(intents, i)
	}
	sort.Slice(intents, func(a, b int) bool {
		if counts[intents[a]] == counts[intents[b]] {
			return intents[a] < intents[b]
		}
		return counts[intents[a]] > counts[intents[b]]
	})
	return fmt.Sprintf("%s (%d)", intents[0], counts[intents[0]])
}

// RenderTrend prints a smoothed sentiment score sparkline.
func RenderTrend(w io.Writer, analyses []model.AnalysisRecord, window int) error {
	if len(analyses) == 0 {
		return nil
	}
	scores := make([]float64, len(analyses))
	for i, a := range analyses {
		scores[i] = float64(a.Result.Sentiment.Score)
	}
	smoothed := MovingAverage(scores, window)
	if _, err := fmt.Fprintf(w, "Sentiment Trend (window %d)\n", max(window, 1)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s]\n\n", Sparkline(smoothed)); err != nil {
		return err
	}
	return nil
}

// RenderCategoryTable prints category counts.
func RenderCategoryTable(w io.Writer, counts []model.CategoryCount) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "No categories found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Categories (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Category", "Analyses"}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{string(c.Category), fmt.Sprintf("%d", c.Count)})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderMoodTable prints recorded typing mood changes.
func RenderMoodTable(w io.Writer, moods []model.MoodRecord) error {
	if len(moods) == 0 {
		_, err := fmt.Fprintln(w, "No mood changes found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Mood Changes"); err != nil {
		return err
	}
	headers := []string{"Time", "Mood", "Mode", "Speed", "Error Rate"}
	rows := make([][]string, 0, len(moods))
	for _, m := range moods {
		rows = append(rows, []string{
			m.At.Local().Format("2006-01-02 15:04:05"),
			string(m.Mood),
			string(m.Mode),
			fmt.Sprintf("%d", m.SpeedEstimate),
			fmt.Sprintf("%.2f%%", m.ErrorRate*100),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
