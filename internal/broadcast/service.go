package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrJamesThe3rd/kongbun/internal/auth"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=broadcast
type Repository interface {
	// ContributorChannels returns the distinct non-empty channel ids having
	// any contribution matching q.
	ContributorChannels(ctx context.Context, q AudienceQuery) ([]string, error)
}

// Dispatcher delivers a message to recipients outside this service.
type Dispatcher interface {
	Send(ctx context.Context, recipients []string, template string, payload map[string]any) error
}

type Service struct {
	repo       Repository
	dispatcher Dispatcher
	now        func() time.Time
	tracer     trace.Tracer
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, dispatcher Dispatcher, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		dispatcher: dispatcher,
		now:        time.Now,
		tracer:     otel.Tracer("github.com/MrJamesThe3rd/kongbun/internal/broadcast"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SelectAudience computes who would receive a broadcast for scope within
// window, relative to now. WindowNone never touches the store.
func (s *Service) SelectAudience(ctx context.Context, scope Scope, window Window) (_ *Audience, err error) {
	ctx, span := s.tracer.Start(ctx, "broadcast.SelectAudience", trace.WithAttributes(
		attribute.String("scope.kind", string(scope.Kind)),
		attribute.String("window", string(window)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	if err := scope.validate(); err != nil {
		return nil, err
	}

	if _, err := ParseWindow(string(window)); err != nil {
		return nil, err
	}

	audience := &Audience{Scope: scope, Window: window, Recipients: []string{}}
	if window == WindowNone {
		return audience, nil
	}

	var since *time.Time
	if cutoff, ok := window.Cutoff(s.now()); ok {
		cutoff = cutoff.UTC()
		since = &cutoff
		audience.Cutoff = &cutoff
	}

	channels, err := s.repo.ContributorChannels(ctx, scope.query(since))
	if err != nil {
		return nil, fmt.Errorf("selecting audience: %w", err)
	}

	audience.Recipients = normalize(channels)
	span.SetAttributes(attribute.Int("recipients", len(audience.Recipients)))

	return audience, nil
}

// Broadcast selects the audience and hands it to the dispatcher. An empty
// audience is not dispatched.
func (s *Service) Broadcast(ctx context.Context, scope Scope, window Window, msg Message) (*Result, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if strings.TrimSpace(msg.Template) == "" {
		return nil, fmt.Errorf("%w: template is required", ErrInvalidMessage)
	}

	audience, err := s.SelectAudience(ctx, scope, window)
	if err != nil {
		return nil, err
	}

	if len(audience.Recipients) == 0 {
		slog.InfoContext(ctx, "broadcast skipped, empty audience", "scope", scope.Kind, "window", window)
		return &Result{Audience: audience}, nil
	}

	if err := s.dispatcher.Send(ctx, audience.Recipients, msg.Template, msg.Payload); err != nil {
		return nil, fmt.Errorf("dispatching broadcast: %w", err)
	}

	slog.InfoContext(ctx, "broadcast dispatched",
		"scope", scope.Kind,
		"window", window,
		"recipients", len(audience.Recipients),
	)

	return &Result{Audience: audience, Dispatched: true}, nil
}

func normalize(channels []string) []string {
	out := make([]string, 0, len(channels))

	for _, c := range channels {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}
