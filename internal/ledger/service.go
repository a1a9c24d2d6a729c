package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kongbun/internal/auth"
	"github.com/MrJamesThe3rd/kongbun/internal/lifecycle"
	"github.com/MrJamesThe3rd/kongbun/internal/pricing"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateTopic(ctx context.Context, t *Topic) error
	GetTopic(ctx context.Context, id uuid.UUID) (*Topic, error)
	ListTopics(ctx context.Context, filter TopicFilter) ([]*Topic, error)
	UpdateTopic(ctx context.Context, t *Topic) error
	// DeleteTopic removes the topic only while its status is deletable and
	// detaches its campaigns, atomically.
	DeleteTopic(ctx context.Context, id uuid.UUID, deletable lifecycle.TopicStatus) error

	CreateCampaign(ctx context.Context, c *Campaign) error
	GetCampaign(ctx context.Context, id uuid.UUID) (*Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]*Campaign, error)
	UpdateCampaign(ctx context.Context, c *Campaign) error
	// DeleteCampaign returns how many contributions were removed with it.
	// Without cascade a campaign that still has contributions is a conflict.
	DeleteCampaign(ctx context.Context, id uuid.UUID, cascade bool) (int64, error)

	CreateContribution(ctx context.Context, c *Contribution) error
	CreateContributions(ctx context.Context, cs []*Contribution) error
	GetContribution(ctx context.Context, id uuid.UUID) (*Contribution, error)
	ListContributions(ctx context.Context, filter ContributionFilter) ([]*Contribution, error)
	DeleteContribution(ctx context.Context, id uuid.UUID) error
	AttachSlip(ctx context.Context, contributionID uuid.UUID, slip *Slip) error
}

type TopicFilter struct {
	Status *lifecycle.TopicStatus
}

type CampaignFilter struct {
	TopicID *uuid.UUID
}

// ContributionFilter scopes a listing to exactly one campaign or topic.
type ContributionFilter struct {
	CampaignID *uuid.UUID
	TopicID    *uuid.UUID
}

type Service struct {
	repo        Repository
	policy      lifecycle.Policy
	requireOpen bool
	now         func() time.Time
	newID       func() (uuid.UUID, error)
}

type Option func(*Service)

// WithTransitionPolicy sets the campaign status policy. Defaults to
// lifecycle.Unrestricted.
func WithTransitionPolicy(p lifecycle.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithRequireOpenCampaign rejects contributions to campaigns that are not open.
func WithRequireOpenCampaign(v bool) Option {
	return func(s *Service) { s.requireOpen = v }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() (uuid.UUID, error)) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		policy: lifecycle.Unrestricted{},
		now:    time.Now,
		newID:  uuid.NewV7,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateTopicParams struct {
	Name   string
	Status lifecycle.TopicStatus
}

type UpdateTopicParams struct {
	Name   *string
	Status *lifecycle.TopicStatus
}

func (s *Service) CreateTopic(ctx context.Context, params CreateTopicParams) (*Topic, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.Name)
	if err := validateTopic(name, params.Status); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generating topic id: %w", err)
	}

	now := s.now().UTC()
	t := &Topic{
		ID:        id,
		Name:      name,
		Status:    params.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateTopic(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) GetTopic(ctx context.Context, id uuid.UUID) (*Topic, error) {
	return s.repo.GetTopic(ctx, id)
}

func (s *Service) ListTopics(ctx context.Context, filter TopicFilter) ([]*Topic, error) {
	return s.repo.ListTopics(ctx, filter)
}

// ListTopicOptions lists the topics new campaigns may be filed under.
func (s *Service) ListTopicOptions(ctx context.Context) ([]*Topic, error) {
	status := lifecycle.TopicInProgress
	return s.repo.ListTopics(ctx, TopicFilter{Status: &status})
}

func (s *Service) UpdateTopic(ctx context.Context, id uuid.UUID, params UpdateTopicParams) (*Topic, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	t, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		t.Name = strings.TrimSpace(*params.Name)
	}

	if params.Status != nil {
		t.Status = *params.Status
	}

	if err := validateTopic(t.Name, t.Status); err != nil {
		return nil, err
	}

	t.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateTopic(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// DeleteTopic fails with a ConflictError unless the topic is in progress.
// Its campaigns survive with their topic cleared.
func (s *Service) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	return s.repo.DeleteTopic(ctx, id, lifecycle.DeletableTopicStatus)
}

func validateTopic(name string, status lifecycle.TopicStatus) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}

	if !status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown topic status %q", status)}
	}

	return nil
}

type CreateCampaignParams struct {
	TopicID      uuid.UUID
	Name         string
	Description  string
	Status       lifecycle.CampaignStatus
	Pricing      pricing.Mode
	ImageRef     string
	DetailsKind  DetailsKind
	ReplyMessage string
}

// UpdateCampaignParams holds the fields to change; nil leaves a field as is.
// Pricing may change its numbers but never its kind.
type UpdateCampaignParams struct {
	TopicID      *uuid.UUID
	Name         *string
	Description  *string
	Status       *lifecycle.CampaignStatus
	Pricing      pricing.Mode
	ImageRef     *string
	DetailsKind  *DetailsKind
	ReplyMessage *string
}

func (s *Service) CreateCampaign(ctx context.Context, params CreateCampaignParams) (*Campaign, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if params.TopicID == uuid.Nil {
		return nil, &ValidationError{Field: "topic_id", Reason: "is required"}
	}

	c := &Campaign{
		TopicID:      &params.TopicID,
		Name:         strings.TrimSpace(params.Name),
		Description:  params.Description,
		Status:       params.Status,
		Pricing:      params.Pricing,
		ImageRef:     params.ImageRef,
		DetailsKind:  params.DetailsKind,
		ReplyMessage: params.ReplyMessage,
	}

	if err := validateCampaign(c); err != nil {
		return nil, err
	}

	if err := s.requireTopic(ctx, params.TopicID); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generating campaign id: %w", err)
	}

	now := s.now().UTC()
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.repo.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) GetCampaign(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	return s.repo.GetCampaign(ctx, id)
}

func (s *Service) ListCampaigns(ctx context.Context, filter CampaignFilter) ([]*Campaign, error) {
	return s.repo.ListCampaigns(ctx, filter)
}

func (s *Service) UpdateCampaign(ctx context.Context, id uuid.UUID, params UpdateCampaignParams) (*Campaign, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	c, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Pricing != nil {
		if !pricing.SameKind(c.Pricing, params.Pricing) {
			return nil, &ValidationError{Field: "pricing", Reason: "pricing mode cannot change after creation"}
		}

		c.Pricing = params.Pricing
	}

	if params.Status != nil {
		if err := s.policy.CheckCampaign(c.Status, *params.Status); err != nil {
			if errors.Is(err, lifecycle.ErrInvalidStatus) {
				return nil, &ValidationError{Field: "status", Reason: err.Error()}
			}

			return nil, &ConflictError{Entity: EntityCampaign, ID: id, Reason: err.Error()}
		}

		c.Status = *params.Status
	}

	topicChanged := params.TopicID != nil && (c.TopicID == nil || *c.TopicID != *params.TopicID)
	if params.TopicID != nil {
		if *params.TopicID == uuid.Nil {
			return nil, &ValidationError{Field: "topic_id", Reason: "must not be empty"}
		}

		topicID := *params.TopicID
		c.TopicID = &topicID
	}

	if params.Name != nil {
		c.Name = strings.TrimSpace(*params.Name)
	}

	if params.Description != nil {
		c.Description = *params.Description
	}

	if params.ImageRef != nil {
		c.ImageRef = *params.ImageRef
	}

	if params.DetailsKind != nil {
		c.DetailsKind = *params.DetailsKind
	}

	if params.ReplyMessage != nil {
		c.ReplyMessage = *params.ReplyMessage
	}

	if err := validateCampaign(c); err != nil {
		return nil, err
	}

	if topicChanged {
		if err := s.requireTopic(ctx, *c.TopicID); err != nil {
			return nil, err
		}
	}

	c.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateCampaign(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteCampaign removes a campaign regardless of its status. When it still
// has contributions the caller must confirm with cascade, which deletes them
// in the same transaction. Returns the number of contributions removed.
func (s *Service) DeleteCampaign(ctx context.Context, id uuid.UUID, cascade bool) (int64, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return 0, err
	}

	return s.repo.DeleteCampaign(ctx, id, cascade)
}

func (s *Service) requireTopic(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetTopic(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &ValidationError{Field: "topic_id", Reason: fmt.Sprintf("topic %s does not exist", id)}
		}

		return err
	}

	return nil
}

func validateCampaign(c *Campaign) error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}

	if !c.Status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown campaign status %q", c.Status)}
	}

	if err := pricing.Validate(c.Pricing); err != nil {
		return &ValidationError{Field: pricingField(err), Reason: err.Error()}
	}

	if _, err := ParseDetailsKind(string(c.DetailsKind)); err != nil {
		return &ValidationError{Field: "details_kind", Reason: err.Error()}
	}

	return nil
}

func pricingField(err error) string {
	switch {
	case errors.Is(err, pricing.ErrInvalidUnitPrice):
		return "pricing.unit_price"
	case errors.Is(err, pricing.ErrInvalidStockLimit):
		return "pricing.stock_limit"
	}

	return "pricing"
}

type CreateContributionParams struct {
	CampaignID           uuid.UUID
	AmountUnits          int64
	Details              Details
	ContributorChannelID string
	ContributorName      string
	Source               SourceChannel
	// SlipRef is stored in the same transaction as the contribution.
	SlipRef string
	// RecordedAt backdates imported contributions; zero means now.
	RecordedAt time.Time
}

func (s *Service) CreateContribution(ctx context.Context, params CreateContributionParams) (*Contribution, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := validateContribution("", params); err != nil {
		return nil, err
	}

	if err := s.checkAcceptsContributions(ctx, params.CampaignID); err != nil {
		return nil, err
	}

	c, err := s.newContribution(params)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateContribution(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// ImportContributions records rows against one campaign atomically. Every
// row is validated before anything is written.
func (s *Service) ImportContributions(ctx context.Context, campaignID uuid.UUID, rows []CreateContributionParams) ([]*Contribution, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, &ValidationError{Field: "rows", Reason: "no contributions to import"}
	}

	for i := range rows {
		rows[i].CampaignID = campaignID
		if err := validateContribution(fmt.Sprintf("rows[%d].", i), rows[i]); err != nil {
			return nil, err
		}
	}

	if err := s.checkAcceptsContributions(ctx, campaignID); err != nil {
		return nil, err
	}

	cs := make([]*Contribution, len(rows))
	for i, p := range rows {
		c, err := s.newContribution(p)
		if err != nil {
			return nil, err
		}

		cs[i] = c
	}

	if err := s.repo.CreateContributions(ctx, cs); err != nil {
		return nil, fmt.Errorf("importing contributions: %w", err)
	}

	return cs, nil
}

func (s *Service) GetContribution(ctx context.Context, id uuid.UUID) (*Contribution, error) {
	return s.repo.GetContribution(ctx, id)
}

func (s *Service) ListContributions(ctx context.Context, filter ContributionFilter) ([]*Contribution, error) {
	if (filter.CampaignID == nil) == (filter.TopicID == nil) {
		return nil, &ValidationError{Field: "scope", Reason: "exactly one of campaign_id or topic_id is required"}
	}

	return s.repo.ListContributions(ctx, filter)
}

func (s *Service) DeleteContribution(ctx context.Context, id uuid.UUID) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	return s.repo.DeleteContribution(ctx, id)
}

// AttachSlip links a payment slip to an existing contribution, replacing any
// previous one.
func (s *Service) AttachSlip(ctx context.Context, id uuid.UUID, ref string) (*Contribution, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &ValidationError{Field: "slip_ref", Reason: "is required"}
	}

	slip, err := s.newSlip(ref)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AttachSlip(ctx, id, slip); err != nil {
		return nil, err
	}

	return s.repo.GetContribution(ctx, id)
}

func (s *Service) checkAcceptsContributions(ctx context.Context, campaignID uuid.UUID) error {
	if !s.requireOpen {
		return nil
	}

	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return err
	}

	if !c.Status.AcceptsContributions() {
		return &ConflictError{Entity: EntityCampaign, ID: c.ID, Reason: fmt.Sprintf("campaign is %s", c.Status)}
	}

	return nil
}

func (s *Service) newContribution(p CreateContributionParams) (*Contribution, error) {
	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generating contribution id: %w", err)
	}

	recordedAt := p.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	c := &Contribution{
		ID:                   id,
		CampaignID:           p.CampaignID,
		AmountUnits:          p.AmountUnits,
		ContributorChannelID: strings.TrimSpace(p.ContributorChannelID),
		ContributorName:      strings.TrimSpace(p.ContributorName),
		Source:               p.Source,
		Details:              p.Details,
		CreatedAt:            recordedAt.UTC(),
	}

	if p.SlipRef != "" {
		slip, err := s.newSlip(p.SlipRef)
		if err != nil {
			return nil, err
		}

		c.Slip = slip
	}

	return c, nil
}

func (s *Service) newSlip(ref string) (*Slip, error) {
	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generating slip id: %w", err)
	}

	return &Slip{ID: id, Ref: ref, CreatedAt: s.now().UTC()}, nil
}

func validateContribution(prefix string, p CreateContributionParams) error {
	if p.CampaignID == uuid.Nil {
		return &ValidationError{Field: prefix + "campaign_id", Reason: "is required"}
	}

	if p.AmountUnits < 1 {
		return &ValidationError{Field: prefix + "amount_units", Reason: "must be at least 1"}
	}

	if strings.TrimSpace(p.ContributorChannelID) == "" && strings.TrimSpace(p.ContributorName) == "" {
		return &ValidationError{Field: prefix + "contributor", Reason: "channel id or name is required"}
	}

	if p.Source.Code() == "" {
		return &ValidationError{Field: prefix + "source_channel", Reason: fmt.Sprintf("unknown source channel %q", p.Source)}
	}

	if p.Details != nil {
		if err := p.Details.validate(); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Field = prefix + verr.Field
			}

			return err
		}
	}

	return nil
}
