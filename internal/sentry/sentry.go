package sentry

import (
	"context"
	"net/http"
	"time"

	"github.com/ahamo-portal/portal/internal/config"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/getsentry/sentry-go"
	"go.uber.org/fx"
)

type Service struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

// Module provides fx options for Sentry
func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewSentryService),
		fx.Invoke(RegisterHooks),
	)
}

// RegisterHooks registers lifecycle hooks for Sentry
func RegisterHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !svc.cfg.Sentry.Enabled {
				svc.logger.Info("Sentry is disabled")
				return nil
			}

			err := sentry.Init(sentry.ClientOptions{
				Dsn:              svc.cfg.Sentry.DSN,
				Environment:      svc.cfg.Sentry.Environment,
				EnableTracing:    true,
				TracesSampleRate: svc.cfg.Sentry.SampleRate,
				TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
					if ctx.Span.Name == "GET /health" {
						return 0.0
					}
					return svc.cfg.Sentry.SampleRate
				}),
			})
			if err != nil {
				svc.logger.Errorw("Failed to initialize Sentry", "error", err)
				return err
			}
			svc.logger.Infow("Sentry initialized successfully",
				"environment", svc.cfg.Sentry.Environment,
				"sample_rate", svc.cfg.Sentry.SampleRate,
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if svc.cfg.Sentry.Enabled {
				svc.logger.Info("Flushing Sentry events before shutdown")
				sentry.Flush(2 * time.Second)
			}
			return nil
		},
	})
}

// NewSentryService creates a new Sentry service
func NewSentryService(cfg *config.Configuration, logger *logger.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Service) Enabled() bool {
	return s != nil && s.cfg.Sentry.Enabled
}

// CaptureException reports err on the request hub when there is one, tagged
// with its error code and the request identifiers
func (s *Service) CaptureException(ctx context.Context, err error) {
	if !s.Enabled() || err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_code", ierr.CodeFromErr(err))
		if requestID := types.GetRequestID(ctx); requestID != "" {
			scope.SetTag("request_id", requestID)
		}
		if subscriberID := types.GetSubscriberID(ctx); subscriberID != "" {
			scope.SetUser(sentry.User{ID: subscriberID})
		}
		hub.CaptureException(err)
	})
}

func (s *Service) AddBreadcrumb(category, message string, data map[string]interface{}) {
	if !s.Enabled() {
		return
	}
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category: category,
		Message:  message,
		Level:    sentry.LevelInfo,
		Data:     data,
	})
}

// StartRepositorySpan opens a span around a read from the source of record:
// an http.client span for the backend API, a db.postgres span otherwise
func (s *Service) StartRepositorySpan(ctx context.Context, operation string, params map[string]interface{}) (*sentry.Span, context.Context) {
	op := "db.postgres"
	if s.Enabled() && s.cfg.Catalog.Source == types.CatalogSourceBackend {
		op = "http.client"
	}
	return s.startSpan(ctx, op, operation, params)
}

func (s *Service) StartSimulationSpan(ctx context.Context, currentPlanID, newPlanID string) (*sentry.Span, context.Context) {
	return s.startSpan(ctx, "planchange.simulate", "planchange.simulate", map[string]interface{}{
		"current_plan_id": currentPlanID,
		"new_plan_id":     newPlanID,
	})
}

func (s *Service) startSpan(ctx context.Context, op, operation string, params map[string]interface{}) (*sentry.Span, context.Context) {
	if !s.Enabled() {
		return nil, ctx
	}

	span := sentry.StartSpan(ctx, operation)
	span.Description = operation
	span.Op = op
	for k, v := range params {
		span.SetData(k, v)
	}

	return span, span.Context()
}

// FinishSpan closes span with a status derived from err. Rejected simulations
// are client errors, not internal ones.
func FinishSpan(span *sentry.Span, err error) {
	if span == nil {
		return
	}
	span.Status = spanStatusOf(err)
	if err != nil {
		span.SetData("error_code", ierr.CodeFromErr(err))
	}
	span.Finish()
}

func spanStatusOf(err error) sentry.SpanStatus {
	if err == nil {
		return sentry.SpanStatusOK
	}

	switch ierr.HTTPStatusFromErr(err) {
	case http.StatusNotFound:
		return sentry.SpanStatusNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return sentry.SpanStatusInvalidArgument
	case http.StatusConflict:
		return sentry.SpanStatusFailedPrecondition
	case http.StatusForbidden:
		return sentry.SpanStatusPermissionDenied
	case http.StatusTooManyRequests:
		return sentry.SpanStatusResourceExhausted
	default:
		return sentry.SpanStatusInternalError
	}
}
