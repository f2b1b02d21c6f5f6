package telemetry

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohammad-safakhou/gradpath/config"
)

// Telemetry tracks pipeline activity: turns per branch, LLM calls per stage,
// structured-output parse failures, and search fan-out. Counters are exported
// through the prometheus registry handed in at construction.
type Telemetry struct {
	config config.TelemetryConfig
	logger *log.Logger

	turnsTotal    *prometheus.CounterVec
	llmRequests   *prometheus.CounterVec
	parseFailures *prometheus.CounterVec
	searchQueries *prometheus.CounterVec
	candidates    prometheus.Counter
}

// NewTelemetry creates a new telemetry instance registered against reg.
func NewTelemetry(cfg config.TelemetryConfig, reg prometheus.Registerer) *Telemetry {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Telemetry{
		config: cfg,
		logger: log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		turnsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gradpath_turns_total",
			Help: "User turns processed, by pipeline branch.",
		}, []string{"branch"}),
		llmRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gradpath_llm_requests_total",
			Help: "Completion-service calls, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		parseFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gradpath_parse_failures_total",
			Help: "Structured-output parse failures that fell back, by stage.",
		}, []string{"stage"}),
		searchQueries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gradpath_search_queries_total",
			Help: "Web-search queries issued, by outcome.",
		}, []string{"outcome"}),
		candidates: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "gradpath_search_candidates_total",
			Help: "Search candidates extracted across all queries.",
		}),
	}
}

// RecordTurn counts one processed turn for a pipeline branch.
func (t *Telemetry) RecordTurn(branch string) {
	if t == nil {
		return
	}
	t.turnsTotal.WithLabelValues(branch).Inc()
}

// RecordLLMRequest counts one completion call for a stage.
func (t *Telemetry) RecordLLMRequest(stage string, err error) {
	if t == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	t.llmRequests.WithLabelValues(stage, outcome).Inc()
}

// RecordParseFailure counts one structured-output fallback for a stage.
func (t *Telemetry) RecordParseFailure(stage string) {
	if t == nil {
		return
	}
	t.parseFailures.WithLabelValues(stage).Inc()
}

// RecordSearchQuery counts one issued search query.
func (t *Telemetry) RecordSearchQuery(err error) {
	if t == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	t.searchQueries.WithLabelValues(outcome).Inc()
}

// RecordCandidates counts candidates extracted from one query.
func (t *Telemetry) RecordCandidates(n int) {
	if t == nil {
		return
	}
	t.candidates.Add(float64(n))
}
