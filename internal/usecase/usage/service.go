package usage

import (
	"context"
	"math"
	"sort"
	"time"

	domusage "github.com/kailas-cloud/resumechat/internal/domain/usage"
)

// Source is one provider's budget plus its price for cost estimates.
type Source struct {
	Budget               BudgetReader
	CostPerMillionTokens float64 // USD
}

// Service handles usage reporting.
type Service struct {
	sources []Source
	now     func() time.Time
}

// New creates a Service. With no sources every report is empty.
func New(sources ...Source) *Service {
	sorted := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.Budget != nil {
			sorted = append(sorted, s)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Budget.Provider() < sorted[j].Budget.Provider()
	})
	return &Service{sources: sorted, now: time.Now}
}

// GetReport builds one report per provider for the given period, ordered by provider.
func (s *Service) GetReport(_ context.Context, period domusage.Period) []domusage.Report {
	now := s.now().UTC()
	var start, end int64

	switch period {
	case domusage.PeriodDay:
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start = dayStart.UnixMilli()
		end = dayStart.Add(24 * time.Hour).UnixMilli()
	case domusage.PeriodMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = monthStart.UnixMilli()
		end = monthStart.AddDate(0, 1, 0).UnixMilli()
	}

	out := make([]domusage.Report, 0, len(s.sources))
	for _, src := range s.sources {
		br := src.Budget
		var limit, used, remaining int64
		if period == domusage.PeriodDay {
			limit, used, remaining = br.DailyLimit(), br.DailyUsed(), br.RemainingDaily()
		} else {
			// total reuses the monthly counters; nothing older is kept
			limit, used, remaining = br.MonthlyLimit(), br.MonthlyUsed(), br.RemainingMonthly()
		}

		b := domusage.Budget{
			TokensLimit:     limit,
			TokensRemaining: remaining,
			IsExhausted:     limit > 0 && remaining <= 0,
			ResetsAt:        end,
		}
		out = append(out, domusage.NewReport(period, br.Provider(), start, end, used, costMillidollars(used, src.CostPerMillionTokens), b))
	}
	return out
}

func costMillidollars(tokens int64, perMillion float64) int64 {
	return int64(math.Round(float64(tokens) * perMillion / 1000))
}
