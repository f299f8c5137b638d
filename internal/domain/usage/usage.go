package usage

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// ParsePeriod maps a query value to a Period, defaulting to month.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodDay, PeriodTotal:
		return Period(s)
	default:
		return PeriodMonth
	}
}

// Budget is a token budget snapshot for one provider.
type Budget struct {
	TokensLimit     int64 // 0 = unlimited
	TokensRemaining int64 // -1 = unlimited
	IsExhausted     bool
	ResetsAt        int64 // unix millis, converted to ISO 8601 at transport layer
}

// Report is the provider token usage for a time period.
type Report struct {
	period           Period
	provider         string
	periodStart      int64
	periodEnd        int64
	tokens           int64
	costMillidollars int64
	budget           Budget
}

// NewReport creates a usage report.
func NewReport(period Period, provider string, start, end, tokens, costMillidollars int64, b Budget) Report {
	return Report{
		period:           period,
		provider:         provider,
		periodStart:      start,
		periodEnd:        end,
		tokens:           tokens,
		costMillidollars: costMillidollars,
		budget:           b,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// Provider returns the provider the counters belong to.
func (r *Report) Provider() string { return r.provider }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Tokens returns the tokens consumed in the period.
func (r *Report) Tokens() int64 { return r.tokens }

// CostMillidollars returns the estimated cost (1 USD = 1000).
func (r *Report) CostMillidollars() int64 { return r.costMillidollars }

// Budget returns the budget status.
func (r *Report) Budget() Budget { return r.budget }
