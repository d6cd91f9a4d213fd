package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/cwterm/internal/model"
)

// HistoryReader is the read side of the practice history store.
type HistoryReader interface {
	ListRounds(ctx context.Context, cfg model.StatsConfig) ([]model.RoundAggregate, error)
	ListCharAggregatesForRounds(ctx context.Context, roundIDs []string) ([]model.CharAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Rounds   []model.RoundAggregate
	CharAggs []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st HistoryReader, cfg model.StatsConfig) (Report, error) {
	rounds, err := st.ListRounds(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	charAggs, err := st.ListCharAggregatesForRounds(ctx, roundIDs(rounds))
	if err != nil {
		return Report{}, err
	}
	return Report{Rounds: rounds, CharAggs: charAggs}, nil
}

// Render writes the summary and the per-character table.
func (r Report) Render(w io.Writer, window int) error {
	if err := RenderSummary(w, r.Rounds, window); err != nil {
		return err
	}
	if len(r.Rounds) == 0 {
		return nil
	}
	return RenderCharTable(w, r.CharAggs)
}

func roundIDs(rounds []model.RoundAggregate) []string {
	ids := make([]string, len(rounds))
	for i, r := range rounds {
		ids[i] = r.RoundID
	}
	return ids
}
