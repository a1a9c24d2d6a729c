package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kongbun/internal/lifecycle"
	"github.com/MrJamesThe3rd/kongbun/internal/pricing"
)

// Topic groups the campaigns of one event or work period.
type Topic struct {
	ID        uuid.UUID
	Name      string
	Status    lifecycle.TopicStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Campaign is a single merit-fund drive.
type Campaign struct {
	ID           uuid.UUID
	TopicID      *uuid.UUID // nil once its topic is deleted
	Name         string
	Description  string
	Status       lifecycle.CampaignStatus
	Pricing      pricing.Mode
	ImageRef     string
	DetailsKind  DetailsKind // what the intake form asks contributors for
	ReplyMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SourceChannel is where a contribution was received.
type SourceChannel string

const (
	SourceLine           SourceChannel = "line"
	SourceInstantMessage SourceChannel = "instant_message"
	SourcePhone          SourceChannel = "phone"
)

// Code is the short form used on sheets and slips.
func (s SourceChannel) Code() string {
	switch s {
	case SourceLine:
		return "L"
	case SourceInstantMessage:
		return "IB"
	case SourcePhone:
		return "P"
	}

	return ""
}

// ParseSourceChannel accepts both the long names and the short codes.
func ParseSourceChannel(s string) (SourceChannel, error) {
	switch s {
	case string(SourceLine), "L":
		return SourceLine, nil
	case string(SourceInstantMessage), "IB":
		return SourceInstantMessage, nil
	case string(SourcePhone), "P":
		return SourcePhone, nil
	}

	return "", fmt.Errorf("unknown source channel %q", s)
}

// Contribution is one donation recorded against a campaign.
type Contribution struct {
	ID                   uuid.UUID
	CampaignID           uuid.UUID
	AmountUnits          int64
	UnitPrice            int64 // Loaded via JOIN
	ContributorChannelID string
	ContributorName      string
	Source               SourceChannel
	Details              Details // nil when the intake asked for nothing
	Slip                 *Slip
	CreatedAt            time.Time
}

// Value is the monetary value of the contribution at the campaign's price.
func (c *Contribution) Value() decimal.Decimal {
	return pricing.ValueAt(c.UnitPrice, c.AmountUnits)
}

// Slip is a payment proof reference stored by the external media store.
type Slip struct {
	ID        uuid.UUID
	Ref       string
	CreatedAt time.Time
}
