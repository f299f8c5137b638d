package chi

import (
	"net/http"

	domusage "github.com/kailas-cloud/resumechat/internal/domain/usage"
	healthuc "github.com/kailas-cloud/resumechat/internal/usecase/health"
)

// GetUsage handles GET /usage?period=.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period := domusage.ParsePeriod(r.URL.Query().Get("period"))
	reports := s.svc.Usage.GetReport(r.Context(), period)

	out := make([]ProviderUsageDTO, len(reports))
	for i := range reports {
		out[i] = usageToDTO(&reports[i])
	}
	writeJSON(w, http.StatusOK, UsageResponse{Period: string(period), Providers: out})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}
