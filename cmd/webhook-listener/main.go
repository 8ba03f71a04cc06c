// Command webhook-listener runs a small HTTP server that ingests gateway
// webhook deliveries through the validation pipeline and exposes prometheus
// metrics for them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cassiomorais/gopay"
	"github.com/cassiomorais/gopay/apierror"
	"github.com/cassiomorais/gopay/internal/observability"
	"github.com/cassiomorais/gopay/metadata"
	"github.com/cassiomorais/gopay/webhook"
)

const listenAddr = ":8080"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "webhook-listener: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := gopay.LoadConfig()
	if err != nil {
		return err
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, os.Stdout)

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer("gopay-webhook-listener", cfg.Observability.JaegerEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			observability.Shutdown(shutdownCtx, tp)
		}()
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(cfg.Observability.MetricNamespace, registry)

	emitter := webhook.NewEmitter[map[string]string](logger)
	pipeline := webhook.NewPipeline(metadata.Identity(), emitter, logger)
	pipeline.OnAnyPaymentEvent(func(p *webhook.Payload[map[string]string]) error {
		evt := logger.Info().Str("event", string(p.Type)).Str("delivery_id", p.ID)
		if p.Data != nil {
			evt = evt.Str("payment_id", p.Data.ID).Str("status", string(p.Data.Status))
		}
		evt.Msg("payment event received")
		return nil
	})

	router := newRouter(pipeline, cfg.Webhook.SharedSecret, metrics, registry, logger)

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", listenAddr).Msg("starting webhook listener")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down webhook listener")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRouter(
	pipeline *webhook.Pipeline[map[string]string],
	sharedSecret string,
	metrics *observability.Metrics,
	registry *prometheus.Registry,
	logger zerolog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Post("/webhooks", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable body")
			return
		}

		payload, err := pipeline.Ingest(body, sharedSecret)
		if err != nil {
			status, event := classifyIngestError(err, payload)
			metrics.WebhooksIngested.WithLabelValues(event, "rejected").Inc()
			logger.Warn().Err(err).Int("status", status).Msg("webhook delivery rejected")
			writeError(w, status, err.Error())
			return
		}

		metrics.WebhooksIngested.WithLabelValues(string(payload.Type), "accepted").Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": payload.ID, "type": string(payload.Type)})
	})

	return r
}

func classifyIngestError(err error, payload *webhook.Payload[map[string]string]) (status int, event string) {
	event = "unknown"
	if payload != nil && payload.Type != "" {
		event = string(payload.Type)
	}

	var structural *apierror.WebhookStructuralError
	var auth *apierror.WebhookAuthenticationError
	var meta *apierror.WebhookMetadataError
	switch {
	case errors.As(err, &structural):
		return http.StatusBadRequest, event
	case errors.As(err, &auth):
		return http.StatusUnauthorized, event
	case errors.As(err, &meta):
		return http.StatusUnprocessableEntity, event
	default:
		return http.StatusInternalServerError, event
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
