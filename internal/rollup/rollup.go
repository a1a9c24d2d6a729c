// Package rollup computes per-campaign and per-topic totals from the ledger.
//
// Totals are recomputed on every read; nothing here is cached, so a total
// always reflects the contributions committed when it was read.
package rollup

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
	"github.com/MrJamesThe3rd/kongbun/internal/pricing"
)

// CampaignUnits is one row of the campaign ⟕ contribution grouping.
// Units is arbitrary precision; sums may exceed int64.
type CampaignUnits struct {
	CampaignID    uuid.UUID
	Contributions int64
	Units         decimal.Decimal
}

type CampaignSummary struct {
	Campaign           *ledger.Campaign
	TotalContributions int64
	TotalUnits         decimal.Decimal
	TotalValue         decimal.Decimal
	Display            pricing.Display
}

type TopicSummary struct {
	Topic          *ledger.Topic
	TotalCampaigns int64
	TotalValue     decimal.Decimal
	DisplayTotal   string
}

// SummarizeCampaigns pairs every campaign with its totals. A campaign with no
// totals row reports zero rather than being dropped.
func SummarizeCampaigns(campaigns []*ledger.Campaign, totals []CampaignUnits) []CampaignSummary {
	byCampaign := make(map[uuid.UUID]CampaignUnits, len(totals))
	for _, t := range totals {
		byCampaign[t.CampaignID] = t
	}

	out := make([]CampaignSummary, 0, len(campaigns))

	for _, c := range campaigns {
		t := byCampaign[c.ID]

		units := t.Units
		value := decimal.NewFromInt(c.Pricing.UnitPrice()).Mul(units)

		out = append(out, CampaignSummary{
			Campaign:           c,
			TotalContributions: t.Contributions,
			TotalUnits:         units,
			TotalValue:         value,
			Display:            pricing.Describe(c.Pricing, value),
		})
	}

	return out
}

// SummarizeTopics sums campaign values per topic. Topics without campaigns
// report zero. Campaigns detached from any topic are not counted.
func SummarizeTopics(topics []*ledger.Topic, campaigns []CampaignSummary) []TopicSummary {
	type acc struct {
		count int64
		value decimal.Decimal
	}

	byTopic := make(map[uuid.UUID]*acc, len(topics))
	for _, t := range topics {
		byTopic[t.ID] = &acc{}
	}

	for _, c := range campaigns {
		if c.Campaign.TopicID == nil {
			continue
		}

		a, ok := byTopic[*c.Campaign.TopicID]
		if !ok {
			continue
		}

		a.count++
		a.value = a.value.Add(c.TotalValue)
	}

	out := make([]TopicSummary, 0, len(topics))

	for _, t := range topics {
		a := byTopic[t.ID]
		out = append(out, TopicSummary{
			Topic:          t,
			TotalCampaigns: a.count,
			TotalValue:     a.value,
			DisplayTotal:   pricing.FormatAmount(a.value) + " " + pricing.CurrencySuffix,
		})
	}

	return out
}
