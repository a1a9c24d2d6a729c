package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Ledger interface {
	ImportContributions(ctx context.Context, campaignID uuid.UUID, rows []ledger.CreateContributionParams) ([]*ledger.Contribution, error)
}

type Service struct {
	ledger Ledger
	parser *Parser
}

func NewService(l Ledger, parser *Parser) *Service {
	if parser == nil {
		parser = NewParser()
	}

	return &Service{ledger: l, parser: parser}
}

// Summary describes a finished import.
type Summary struct {
	CampaignID    uuid.UUID              `json:"campaign_id"`
	Imported      int                    `json:"imported"`
	TotalUnits    decimal.Decimal        `json:"total_units"`
	Contributions []*ledger.Contribution `json:"-"`
}

// Import parses the sheet and records every row against campaignID in one
// transaction.
func (s *Service) Import(ctx context.Context, campaignID uuid.UUID, r io.Reader) (*Summary, error) {
	rows, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	created, err := s.ledger.ImportContributions(ctx, campaignID, rows)
	if err != nil {
		return nil, err
	}

	sum := &Summary{CampaignID: campaignID, Imported: len(created), Contributions: created}
	for _, c := range created {
		sum.TotalUnits = sum.TotalUnits.Add(decimal.NewFromInt(c.AmountUnits))
	}

	slog.InfoContext(ctx, "contributions imported",
		"campaign_id", campaignID,
		"rows", sum.Imported,
		"units", sum.TotalUnits.String(),
	)

	return sum, nil
}

// Preview parses the sheet without writing anything.
func (s *Service) Preview(r io.Reader) ([]ledger.CreateContributionParams, error) {
	rows, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing sheet: %w", err)
	}

	return rows, nil
}
