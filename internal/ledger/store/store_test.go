package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kongbun/internal/auth"
	"github.com/MrJamesThe3rd/kongbun/internal/broadcast"
	"github.com/MrJamesThe3rd/kongbun/internal/database"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger/store"
	"github.com/MrJamesThe3rd/kongbun/internal/lifecycle"
	"github.com/MrJamesThe3rd/kongbun/internal/pricing"
	"github.com/MrJamesThe3rd/kongbun/internal/rollup"
)

func newStore(t *testing.T) (*store.Store, *sql.DB) {
	t.Helper()

	db, err := database.Open(database.SQLite, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db, database.SQLite), db
}

func adminCtx() context.Context {
	return auth.WithContext(context.Background(), auth.Context{Subject: "admin", Role: auth.RoleAdmin})
}

type fixture struct {
	st  *store.Store
	db  *sql.DB
	svc *ledger.Service
	ctx context.Context
}

func newFixture(t *testing.T, opts ...ledger.Option) *fixture {
	t.Helper()

	st, db := newStore(t)

	return &fixture{st: st, db: db, svc: ledger.NewService(st, opts...), ctx: adminCtx()}
}

func (f *fixture) slipRefs(t *testing.T) []string {
	t.Helper()

	rows, err := f.db.QueryContext(f.ctx, `SELECT ref FROM slips ORDER BY ref`)
	require.NoError(t, err)
	defer rows.Close()

	refs := []string{}

	for rows.Next() {
		var ref string
		require.NoError(t, rows.Scan(&ref))

		refs = append(refs, ref)
	}

	require.NoError(t, rows.Err())

	return refs
}

func (f *fixture) topic(t *testing.T, name string, status lifecycle.TopicStatus) *ledger.Topic {
	t.Helper()

	tp, err := f.svc.CreateTopic(f.ctx, ledger.CreateTopicParams{Name: name, Status: status})
	require.NoError(t, err)

	return tp
}

func (f *fixture) campaign(t *testing.T, topicID uuid.UUID, name string, m pricing.Mode) *ledger.Campaign {
	t.Helper()

	c, err := f.svc.CreateCampaign(f.ctx, ledger.CreateCampaignParams{
		TopicID: topicID,
		Name:    name,
		Status:  lifecycle.CampaignOpen,
		Pricing: m,
	})
	require.NoError(t, err)

	return c
}

func (f *fixture) contribute(t *testing.T, campaignID uuid.UUID, units int64, channel string) *ledger.Contribution {
	t.Helper()

	c, err := f.svc.CreateContribution(f.ctx, ledger.CreateContributionParams{
		CampaignID:           campaignID,
		AmountUnits:          units,
		ContributorChannelID: channel,
		ContributorName:      "ผู้บริจาค",
		Source:               ledger.SourceLine,
	})
	require.NoError(t, err)

	return c
}

func TestStore_Topics(t *testing.T) {
	f := newFixture(t)

	first := f.topic(t, "กฐิน 2567", lifecycle.TopicPending)
	second := f.topic(t, "ผ้าป่า", lifecycle.TopicInProgress)

	got, err := f.st.GetTopic(f.ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "กฐิน 2567", got.Name)
	assert.Equal(t, lifecycle.TopicPending, got.Status)
	assert.Equal(t, first.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())

	all, err := f.st.ListTopics(f.ctx, ledger.TopicFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	options, err := f.svc.ListTopicOptions(f.ctx)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, second.ID, options[0].ID)

	status := lifecycle.TopicClosed
	updated, err := f.svc.UpdateTopic(f.ctx, first.ID, ledger.UpdateTopicParams{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TopicClosed, updated.Status)

	_, err = f.st.GetTopic(f.ctx, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	err = f.st.UpdateTopic(f.ctx, &ledger.Topic{ID: uuid.New(), Name: "x", Status: lifecycle.TopicPending})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_DeleteTopic(t *testing.T) {
	f := newFixture(t)

	pending := f.topic(t, "pending", lifecycle.TopicPending)
	running := f.topic(t, "running", lifecycle.TopicInProgress)
	c := f.campaign(t, running.ID, "ถวายสังฆทาน", pricing.Open{})

	err := f.svc.DeleteTopic(f.ctx, pending.ID)
	assert.ErrorIs(t, err, ledger.ErrConflict)

	_, err = f.st.GetTopic(f.ctx, pending.ID)
	require.NoError(t, err, "rejected delete must leave the topic")

	require.NoError(t, f.svc.DeleteTopic(f.ctx, running.ID))

	_, err = f.st.GetTopic(f.ctx, running.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	detached, err := f.st.GetCampaign(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.TopicID)

	err = f.svc.DeleteTopic(f.ctx, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_Campaigns(t *testing.T) {
	f := newFixture(t)

	tp := f.topic(t, "T1", lifecycle.TopicInProgress)
	other := f.topic(t, "T2", lifecycle.TopicInProgress)

	fixed := f.campaign(t, tp.ID, "พระประธาน", pricing.Fixed{Price: 100, StockLimit: 10})
	open := f.campaign(t, tp.ID, "ตามกำลังศรัทธา", pricing.Open{})
	f.campaign(t, other.ID, "elsewhere", pricing.Open{})

	got, err := f.st.GetCampaign(f.ctx, fixed.ID)
	require.NoError(t, err)
	assert.Equal(t, pricing.Fixed{Price: 100, StockLimit: 10}, got.Pricing)
	require.NotNil(t, got.TopicID)
	assert.Equal(t, tp.ID, *got.TopicID)

	got, err = f.st.GetCampaign(f.ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, pricing.Open{}, got.Pricing)

	list, err := f.st.ListCampaigns(f.ctx, ledger.CampaignFilter{TopicID: &tp.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, fixed.ID, list[0].ID)
	assert.Equal(t, open.ID, list[1].ID)

	status := lifecycle.CampaignClosed
	updated, err := f.svc.UpdateCampaign(f.ctx, fixed.ID, ledger.UpdateCampaignParams{
		Status:  &status,
		Pricing: pricing.Fixed{Price: 120, StockLimit: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.CampaignClosed, updated.Status)

	got, err = f.st.GetCampaign(f.ctx, fixed.ID)
	require.NoError(t, err)
	assert.Equal(t, pricing.Fixed{Price: 120, StockLimit: 5}, got.Pricing)
	assert.Equal(t, lifecycle.CampaignClosed, got.Status)

	missing := uuid.New()
	_, err = f.svc.CreateCampaign(f.ctx, ledger.CreateCampaignParams{
		TopicID: missing,
		Name:    "orphan",
		Status:  lifecycle.CampaignPending,
		Pricing: pricing.Open{},
	})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestStore_DeleteCampaign(t *testing.T) {
	f := newFixture(t)

	tp := f.topic(t, "T1", lifecycle.TopicInProgress)
	c := f.campaign(t, tp.ID, "C1", pricing.Open{})
	f.contribute(t, c.ID, 3, "U1")
	f.contribute(t, c.ID, 5, "U2")

	_, err := f.svc.DeleteCampaign(f.ctx, c.ID, false)
	assert.ErrorIs(t, err, ledger.ErrConflict)

	removed, err := f.svc.DeleteCampaign(f.ctx, c.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = f.st.GetCampaign(f.ctx, c.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	left, err := f.st.ListContributions(f.ctx, ledger.ContributionFilter{CampaignID: &c.ID})
	require.NoError(t, err)
	assert.Empty(t, left)

	empty := f.campaign(t, tp.ID, "empty", pricing.Open{})
	removed, err = f.svc.DeleteCampaign(f.ctx, empty.ID, false)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = f.svc.DeleteCampaign(f.ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_Contributions(t *testing.T) {
	f := newFixture(t)

	tp := f.topic(t, "T1", lifecycle.TopicInProgress)
	c := f.campaign(t, tp.ID, "C1", pricing.Fixed{Price: 100, StockLimit: 10})

	created, err := f.svc.CreateContribution(f.ctx, ledger.CreateContributionParams{
		CampaignID:           c.ID,
		AmountUnits:          3,
		ContributorChannelID: "U1",
		ContributorName:      "สมชาย",
		Source:               ledger.SourcePhone,
		Details:              ledger.Wish{Name: "สมชาย", Wish: "ขอให้สุขภาพแข็งแรง"},
		SlipRef:              "slips/a.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), created.UnitPrice)
	require.NotNil(t, created.Slip)

	got, err := f.svc.GetContribution(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.AmountUnits)
	assert.Equal(t, int64(100), got.UnitPrice)
	assert.Equal(t, "300", got.Value().String())
	assert.Equal(t, ledger.SourcePhone, got.Source)
	assert.Equal(t, ledger.Wish{Name: "สมชาย", Wish: "ขอให้สุขภาพแข็งแรง"}, got.Details)
	require.NotNil(t, got.Slip)
	assert.Equal(t, "slips/a.jpg", got.Slip.Ref)

	plain := f.contribute(t, c.ID, 1, "U2")

	byCampaign, err := f.svc.ListContributions(f.ctx, ledger.ContributionFilter{CampaignID: &c.ID})
	require.NoError(t, err)
	require.Len(t, byCampaign, 2)
	assert.Equal(t, created.ID, byCampaign[0].ID)
	assert.Equal(t, plain.ID, byCampaign[1].ID)
	assert.Nil(t, byCampaign[1].Details)
	assert.Nil(t, byCampaign[1].Slip)

	byTopic, err := f.svc.ListContributions(f.ctx, ledger.ContributionFilter{TopicID: &tp.ID})
	require.NoError(t, err)
	assert.Len(t, byTopic, 2)

	require.NoError(t, f.svc.DeleteContribution(f.ctx, plain.ID))

	err = f.svc.DeleteContribution(f.ctx, plain.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_CreateContributionUnknownCampaign(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateContribution(f.ctx, ledger.CreateContributionParams{
		CampaignID:      uuid.New(),
		AmountUnits:     1,
		ContributorName: "x",
		Source:          ledger.SourceLine,
	})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_ImportIsAllOrNothing(t *testing.T) {
	f := newFixture(t)

	tp := f.topic(t, "T1", lifecycle.TopicInProgress)
	c := f.campaign(t, tp.ID, "C1", pricing.Open{})

	rows := []ledger.CreateContributionParams{
		{AmountUnits: 2, ContributorName: "a", Source: ledger.SourceLine},
		{AmountUnits: 4, ContributorName: "b", Source: ledger.SourceInstantMessage, SlipRef: "s1"},
	}

	imported, err := f.svc.ImportContributions(f.ctx, c.ID, rows)
	require.NoError(t, err)
	assert.Len(t, imported, 2)

	list, err := f.st.ListContributions(f.ctx, ledger.ContributionFilter{CampaignID: &c.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// The second row points at a campaign that does not exist, so the first
	// must roll back with it.
	cs := []*ledger.Contribution{
		{ID: uuid.New(), CampaignID: c.ID, AmountUnits: 1, ContributorName: "c", Source: ledger.SourceLine},
		{ID: uuid.New(), CampaignID: uuid.New(), AmountUnits: 1, ContributorName: "d", Source: ledger.SourceLine},
	}
	err = f.st.CreateContributions(f.ctx, cs)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	list, err = f.st.ListContributions(f.ctx, ledger.ContributionFilter{CampaignID: &c.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStore_Slips(t *testing.T) {
	f := newFixture(t)

	tp := f.topic(t, "T1", lifecycle.TopicInProgress)
	c := f.campaign(t, tp.ID, "C1", pricing.Open{})

	a := f.contribute(t, c.ID, 1, "U1")
	b := f.contribute(t, c.ID, 1, "U2")

	withA, err := f.svc.AttachSlip(f.ctx, a.ID, "  slips/shared.png ")
	require.NoError(t, err)
	require.NotNil(t, withA.Slip)
	assert.Equal(t, "slips/shared.png", withA.Slip.Ref)

	withB, err := f.svc.AttachSlip(f.ctx, b.ID, "slips/shared.png")
	require.NoError(t, err)
	require.NotNil(t, withB.Slip)
	assert.Equal(t, withA.Slip.ID, withB.Slip.ID, "same ref resolves to the same slip")

	_, err = f.svc.AttachSlip(f.ctx, uuid.New(), "slips/other.png")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_SlipsReleasedWithContributions(t *testing.T) {
	f := newFixture(t)

	tp := f.topic(t, "T1", lifecycle.TopicInProgress)
	c1 := f.campaign(t, tp.ID, "C1", pricing.Open{})
	c2 := f.campaign(t, tp.ID, "C2", pricing.Open{})

	a := f.contribute(t, c1.ID, 1, "U1")
	b := f.contribute(t, c1.ID, 1, "U2")
	d := f.contribute(t, c2.ID, 1, "U3")

	_, err := f.svc.AttachSlip(f.ctx, a.ID, "slips/shared.png")
	require.NoError(t, err)
	_, err = f.svc.AttachSlip(f.ctx, b.ID, "slips/shared.png")
	require.NoError(t, err)
	_, err = f.svc.AttachSlip(f.ctx, d.ID, "slips/d-old.png")
	require.NoError(t, err)

	_, err = f.svc.AttachSlip(f.ctx, d.ID, "slips/d-new.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"slips/d-new.png", "slips/shared.png"}, f.slipRefs(t), "replaced slip is released")

	require.NoError(t, f.svc.DeleteContribution(f.ctx, a.ID))
	assert.Equal(t, []string{"slips/d-new.png", "slips/shared.png"}, f.slipRefs(t), "shared slip is kept while referenced")

	require.NoError(t, f.svc.DeleteContribution(f.ctx, b.ID))
	assert.Equal(t, []string{"slips/d-new.png"}, f.slipRefs(t))

	removed, err := f.svc.DeleteCampaign(f.ctx, c2.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Empty(t, f.slipRefs(t))

	err = f.svc.DeleteContribution(f.ctx, a.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_CampaignUnitTotals(t *testing.T) {
	f := newFixture(t)

	tp := f.topic(t, "T1", lifecycle.TopicInProgress)
	c1 := f.campaign(t, tp.ID, "C1", pricing.Open{})
	c2 := f.campaign(t, tp.ID, "C2", pricing.Fixed{Price: 100, StockLimit: 10})
	c3 := f.campaign(t, tp.ID, "C3", pricing.Open{})

	f.contribute(t, c1.ID, 3, "U1")
	f.contribute(t, c1.ID, 5, "U2")
	f.contribute(t, c2.ID, 3, "U1")

	totals, err := f.st.CampaignUnitTotals(f.ctx, ledger.CampaignFilter{TopicID: &tp.ID})
	require.NoError(t, err)
	require.Len(t, totals, 3)

	byID := make(map[uuid.UUID]rollup.CampaignUnits, len(totals))
	for _, tt := range totals {
		byID[tt.CampaignID] = tt
	}

	assert.Equal(t, int64(2), byID[c1.ID].Contributions)
	assert.Equal(t, "8", byID[c1.ID].Units.String())
	assert.Equal(t, "3", byID[c2.ID].Units.String())
	assert.Equal(t, int64(0), byID[c3.ID].Contributions)
	assert.True(t, byID[c3.ID].Units.IsZero())
}

func TestStore_Rollup(t *testing.T) {
	f := newFixture(t)
	agg := rollup.NewService(f.st)

	tp := f.topic(t, "T1", lifecycle.TopicInProgress)
	c1 := f.campaign(t, tp.ID, "C1", pricing.Open{})
	c2 := f.campaign(t, tp.ID, "C2", pricing.Fixed{Price: 100, StockLimit: 10})

	f.contribute(t, c1.ID, 3, "U1")
	f.contribute(t, c1.ID, 5, "U2")
	last := f.contribute(t, c2.ID, 3, "U1")

	campaigns, err := agg.ListCampaignsWithAggregates(f.ctx, &tp.ID)
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, "8", campaigns[0].TotalValue.String())
	assert.Equal(t, "8 (บาท)", campaigns[0].Display.Total)
	assert.Equal(t, "300", campaigns[1].TotalValue.String())

	topics, err := agg.ListTopicsWithAggregates(f.ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, int64(2), topics[0].TotalCampaigns)
	assert.Equal(t, "308", topics[0].TotalValue.String())

	require.NoError(t, f.svc.DeleteContribution(f.ctx, last.ID))

	campaigns, err = agg.ListCampaignsWithAggregates(f.ctx, &tp.ID)
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, c2.ID, campaigns[1].Campaign.ID)
	assert.True(t, campaigns[1].TotalValue.IsZero())
	assert.True(t, campaigns[1].TotalUnits.IsZero())

	topics, err = agg.ListTopicsWithAggregates(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), topics[0].TotalCampaigns)
	assert.Equal(t, "8", topics[0].TotalValue.String())
}

func TestStore_ContributorChannels(t *testing.T) {
	f := newFixture(t)

	now := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)

	tp := f.topic(t, "T1", lifecycle.TopicInProgress)
	c1 := f.campaign(t, tp.ID, "C1", pricing.Open{})
	c2 := f.campaign(t, tp.ID, "C2", pricing.Open{})

	record := func(campaignID uuid.UUID, channel string, at time.Time) {
		_, err := f.svc.CreateContribution(f.ctx, ledger.CreateContributionParams{
			CampaignID:           campaignID,
			AmountUnits:          1,
			ContributorChannelID: channel,
			ContributorName:      "n",
			Source:               ledger.SourceLine,
			RecordedAt:           at,
		})
		require.NoError(t, err)
	}

	record(c1.ID, "U1", now.AddDate(0, -1, 0))
	record(c1.ID, "U1", now.AddDate(0, -2, 0))
	record(c1.ID, "U2", now.AddDate(-2, 0, 0))
	record(c2.ID, "U3", now.AddDate(0, -6, 0))
	record(c2.ID, "", now)

	since := now.AddDate(0, -3, 0)

	tests := []struct {
		name string
		q    broadcast.AudienceQuery
		want []string
	}{
		{name: "CampaignAll", q: broadcast.AudienceQuery{CampaignID: &c1.ID}, want: []string{"U1", "U2"}},
		{name: "CampaignRecent", q: broadcast.AudienceQuery{CampaignID: &c1.ID, Since: &since}, want: []string{"U1"}},
		{name: "Topic", q: broadcast.AudienceQuery{TopicID: &tp.ID}, want: []string{"U1", "U2", "U3"}},
		{name: "EveryoneRecent", q: broadcast.AudienceQuery{Since: &since}, want: []string{"U1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.st.ContributorChannels(f.ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
