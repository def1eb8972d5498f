package stats

import (
	"context"
	"io"
	"time"

	"github.com/onkardamal/Aura/internal/model"
	"github.com/onkardamal/Aura/internal/store"
)

// ReportConfig narrows a history report.
type ReportConfig struct {
	SessionID   string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Report contains precomputed data for history rendering.
type Report struct {
	Analyses   []model.AnalysisRecord
	Moods      []model.MoodRecord
	Categories []model.CategoryCount
	Window     int
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg ReportConfig) (Report, error) {
	filter := model.HistoryFilter{SessionID: cfg.SessionID, Since: cfg.Since, Last: cfg.Last}
	analyses, err := st.ListAnalyses(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	moods, err := st.ListMoods(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	window := cfg.CurveWindow
	if window <= 0 || window > len(analyses) {
		window = len(analyses)
	}
	categories, err := st.CategoryCounts(ctx, window)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Analyses:   analyses,
		Moods:      moods,
		Categories: categories,
		Window:     cfg.CurveWindow,
	}, nil
}

// Render writes every report section.
func (r Report) Render(w io.Writer) error {
	if err := RenderSummary(w, r.Analyses); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Analyses, r.Window); err != nil {
		return err
	}
	if err := RenderCategoryTable(w, r.Categories); err != nil {
		return err
	}
	return RenderMoodTable(w, r.Moods)
}
