package external

import (
	"encoding/json"
	"fmt"
	"net/http"
	"pawkeeper/sources/configuration"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/repository"
	"pawkeeper/sources/texting/format"
	"pawkeeper/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Outsiders struct {
	log    *tracing.Logger
	config *configuration.Config
	health *repository.HealthRepository
	ss     *http.Server
	sms    *http.Server
	as     *http.Server
}

func NewOutsiders(log *tracing.Logger, config *configuration.Config, health *repository.HealthRepository, tiers *repository.TiersRepository) *Outsiders {
	systemRegistry := prometheus.NewRegistry()

	systemRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)

	return &Outsiders{
		log:    log,
		config: config,
		health: health,
		ss: &http.Server{
			Addr: fmt.Sprintf(":%d", config.Service.StartupPort),
			Handler: platform.Curry(http.NewServeMux, func(m *http.ServeMux) {
				m.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
					startuphandler(log, w, r)
				})
				m.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
					readyhandler(log, health, w, r)
				})
				m.HandleFunc("/tiers", func(w http.ResponseWriter, r *http.Request) {
					tiershandler(log, tiers, w, r)
				})
			}),
		},
		sms: &http.Server{
			Addr: fmt.Sprintf(":%d", config.Service.SystemMetricsPort),
			Handler: platform.Curry(http.NewServeMux, func(m *http.ServeMux) {
				m.Handle("/metrics", promhttp.HandlerFor(systemRegistry, promhttp.HandlerOpts{}))
			}),
		},
		as: &http.Server{
			Addr: fmt.Sprintf(":%d", config.Service.ApplicationMetricsPort),
			Handler: platform.Curry(http.NewServeMux, func(m *http.ServeMux) {
				m.Handle("/metrics", promhttp.Handler())
			}),
		},
	}
}

func (x *Outsiders) startup() {
	x.log.I("Startup server is starting", tracing.OutsiderKind, "startup", "port", x.config.Service.StartupPort)

	if err := x.ss.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		x.log.F("Failed to start startup server", tracing.OutsiderKind, "startup", tracing.InnerError, err)
	}
}

func (x *Outsiders) systemMetrics() {
	x.log.I("System metrics server is starting", tracing.OutsiderKind, "system_metrics", "port", x.config.Service.SystemMetricsPort)

	if err := x.sms.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		x.log.F("Failed to start system metrics server", tracing.OutsiderKind, "system_metrics", tracing.InnerError, err)
	}
}

func (x *Outsiders) applicationMetrics() {
	x.log.I("Application metrics server is starting", tracing.OutsiderKind, "application_metrics", "port", x.config.Service.ApplicationMetricsPort)

	if err := x.as.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		x.log.F("Failed to start application metrics server", tracing.OutsiderKind, "application_metrics", tracing.InnerError, err)
	}
}

func startuphandler(log *tracing.Logger, w http.ResponseWriter, r *http.Request) {
	log.I("Outsider service got a ping", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"pawkeeper"}`))
}

type catalogTier struct {
	Key          string   `json:"key"`
	DisplayName  string   `json:"display_name"`
	MonthlyLimit string   `json:"monthly_limit"`
	GraceBuffer  int      `json:"grace_buffer"`
	Price        string   `json:"price"`
	PriceDisplay string   `json:"price_display"`
	Features     []string `json:"features"`
}

// tiershandler serves the public tier catalog with prices pre-formatted for
// display, so web clients do not duplicate the currency rendering.
func tiershandler(log *tracing.Logger, tiers *repository.TiersRepository, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	latest, err := tiers.GetAllLatest(log)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"catalog unavailable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{"tiers": catalogFromTiers(latest)}); err != nil {
		log.E("Failed to encode tier catalog", tracing.InnerError, err)
	}
}

func catalogFromTiers(latest []*entities.Tier) []catalogTier {
	catalog := make([]catalogTier, 0, len(latest))
	for _, tier := range latest {
		catalog = append(catalog, catalogTier{
			Key:          tier.Key,
			DisplayName:  tier.DisplayName,
			MonthlyLimit: format.Numberify(int64(tier.MonthlyLimit)),
			GraceBuffer:  tier.GraceBuffer,
			Price:        format.Decimalify(tier.Price),
			PriceDisplay: format.Currencify("$", tier.Price),
			Features:     tier.Features,
		})
	}
	return catalog
}

// readyhandler reports readiness off the stores the quota path actually hits.
// OpenAI and Unleash are deliberately excluded: the engine fails open without
// them and a flaky vendor must not flap our readiness.
func readyhandler(log *tracing.Logger, health *repository.HealthRepository, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := health.CheckDatabaseHealth(log); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded","component":"database"}`))
		return
	}

	if err := health.CheckRedisHealth(log); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded","component":"redis"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
