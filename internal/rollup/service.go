package rollup

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=rollup
type Reader interface {
	ListTopics(ctx context.Context, filter ledger.TopicFilter) ([]*ledger.Topic, error)
	ListCampaigns(ctx context.Context, filter ledger.CampaignFilter) ([]*ledger.Campaign, error)
	// CampaignUnitTotals left-joins campaigns to their contributions and
	// groups by campaign. Campaigns without contributions yield zero counts.
	CampaignUnitTotals(ctx context.Context, filter ledger.CampaignFilter) ([]CampaignUnits, error)
}

type Repository interface {
	// ReadSnapshot runs fn against one consistent read-only view of the
	// ledger.
	ReadSnapshot(ctx context.Context, fn func(Reader) error) error
}

type Service struct {
	repo   Repository
	tracer trace.Tracer
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:   repo,
		tracer: otel.Tracer("github.com/MrJamesThe3rd/kongbun/internal/rollup"),
	}
}

// ListCampaignsWithAggregates returns every campaign, or those of one topic,
// with its contribution count, unit total and value.
func (s *Service) ListCampaignsWithAggregates(ctx context.Context, topicID *uuid.UUID) (_ []CampaignSummary, err error) {
	ctx, span := s.tracer.Start(ctx, "rollup.ListCampaignsWithAggregates")
	defer func() { endSpan(span, err) }()

	if topicID != nil {
		span.SetAttributes(attribute.String("topic.id", topicID.String()))
	}

	var summaries []CampaignSummary

	err = s.repo.ReadSnapshot(ctx, func(r Reader) error {
		var err error

		summaries, err = campaignSummaries(ctx, r, ledger.CampaignFilter{TopicID: topicID})

		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("campaigns", len(summaries)))

	return summaries, nil
}

// ListTopicsWithAggregates returns every topic with its campaign count and
// the sum of its campaigns' values. Topics and campaign totals come from the
// same snapshot, so counts and values agree within one response.
func (s *Service) ListTopicsWithAggregates(ctx context.Context) (_ []TopicSummary, err error) {
	ctx, span := s.tracer.Start(ctx, "rollup.ListTopicsWithAggregates")
	defer func() { endSpan(span, err) }()

	var (
		topics    []*ledger.Topic
		campaigns []CampaignSummary
	)

	err = s.repo.ReadSnapshot(ctx, func(r Reader) error {
		var err error

		topics, err = r.ListTopics(ctx, ledger.TopicFilter{})
		if err != nil {
			return fmt.Errorf("listing topics: %w", err)
		}

		campaigns, err = campaignSummaries(ctx, r, ledger.CampaignFilter{})

		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("topics", len(topics)))

	return SummarizeTopics(topics, campaigns), nil
}

func campaignSummaries(ctx context.Context, r Reader, filter ledger.CampaignFilter) ([]CampaignSummary, error) {
	campaigns, err := r.ListCampaigns(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}

	totals, err := r.CampaignUnitTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("totalling campaigns: %w", err)
	}

	return SummarizeCampaigns(campaigns, totals), nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}
