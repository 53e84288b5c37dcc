package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sjsage522/clienreader/logger"
)

var (
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clien_fetch_total",
		Help: "Page fetches by outcome",
	}, []string{"status"})

	FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clien_fetch_duration_seconds",
		Help:    "Page fetch latency including retries",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clien_cache_lookups_total",
		Help: "Cache lookups by category, tier and result",
	}, []string{"category", "tier", "result"})

	ExtractedItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clien_extracted_items_total",
		Help: "Records produced by the extractors",
	}, []string{"kind"})

	PublishedPosts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clien_published_posts_total",
		Help: "New posts published by the watch worker",
	})
)

// MustRegister registers all collectors.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		FetchTotal,
		FetchDuration,
		CacheLookups,
		ExtractedItems,
		PublishedPosts,
	)
}

// ObserveFetch records one fetch outcome.
func ObserveFetch(status string, elapsed time.Duration) {
	FetchTotal.WithLabelValues(status).Inc()
	FetchDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// ObserveCache records one cache lookup.
func ObserveCache(category, tier string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(category, tier, result).Inc()
}

// ObserveExtracted records n extracted records of a kind.
func ObserveExtracted(kind string, n int) {
	ExtractedItems.WithLabelValues(kind).Add(float64(n))
}

// StartServer serves /metrics until ctx is done.
func StartServer(ctx context.Context, addr string) {
	log := logger.ForComponent("metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("metrics server shutdown")
		}
	}()

	go func() {
		log.Info().Str("addr", addr).Msg("metrics server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
}
