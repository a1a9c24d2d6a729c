package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
)

// scanContribution reads a contribution row.
// Expected column order: id, campaign_id, amount_units, unit_price, contributor_channel_id,
// contributor_name, source_channel, details_kind, details, slip_id, slip_ref, slip_created_at, created_at
func scanContribution(s scanner) (*ledger.Contribution, error) {
	var (
		c             ledger.Contribution
		source, kind  string
		details       string
		slipID        *uuid.UUID
		slipRef       sql.NullString
		slipCreatedAt sql.NullInt64
		createdAt     int64
	)

	if err := s.Scan(
		&c.ID, &c.CampaignID, &c.AmountUnits, &c.UnitPrice,
		&c.ContributorChannelID, &c.ContributorName, &source,
		&kind, &details,
		&slipID, &slipRef, &slipCreatedAt,
		&createdAt,
	); err != nil {
		return nil, err
	}

	d, err := ledger.DecodeDetails(ledger.DetailsKind(kind), []byte(details))
	if err != nil {
		return nil, fmt.Errorf("contribution %s: %w", c.ID, err)
	}

	c.Source = ledger.SourceChannel(source)
	c.Details = d
	c.CreatedAt = fromMillis(createdAt)

	if slipID != nil && slipRef.Valid {
		c.Slip = &ledger.Slip{
			ID:        *slipID,
			Ref:       slipRef.String,
			CreatedAt: fromMillis(slipCreatedAt.Int64),
		}
	}

	return &c, nil
}

const selectContributionColumns = `
	co.id, co.campaign_id, co.amount_units, ca.unit_price,
	co.contributor_channel_id, co.contributor_name, co.source_channel,
	co.details_kind, co.details,
	co.slip_id, sl.ref AS slip_ref, sl.created_at AS slip_created_at,
	co.created_at
`

const contributionJoins = `
	FROM contributions co
	JOIN campaigns ca ON ca.id = co.campaign_id
	LEFT JOIN slips sl ON sl.id = co.slip_id
`

// CreateContribution records c and its slip, if any, in one transaction.
func (s *Store) CreateContribution(ctx context.Context, c *ledger.Contribution) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := s.insertContribution(ctx, dbTx, c, map[uuid.UUID]int64{}); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// CreateContributions records every contribution or none.
func (s *Store) CreateContributions(ctx context.Context, cs []*ledger.Contribution) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	prices := make(map[uuid.UUID]int64)

	for _, c := range cs {
		if err := s.insertContribution(ctx, dbTx, c, prices); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// insertContribution resolves the campaign price, upserts the slip and
// inserts the row. prices caches unit prices already read in this transaction.
func (s *Store) insertContribution(ctx context.Context, q querier, c *ledger.Contribution, prices map[uuid.UUID]int64) error {
	unitPrice, ok := prices[c.CampaignID]
	if !ok {
		query := `SELECT unit_price FROM campaigns WHERE id = ?` + s.dialect.ForShare()

		err := q.QueryRowContext(ctx, s.q(query), c.CampaignID.String()).Scan(&unitPrice)
		if errors.Is(err, sql.ErrNoRows) {
			return &ledger.NotFoundError{Entity: ledger.EntityCampaign, ID: c.CampaignID}
		}

		if err != nil {
			return fmt.Errorf("reading campaign %s: %w", c.CampaignID, err)
		}

		prices[c.CampaignID] = unitPrice
	}

	var slipID *uuid.UUID

	if c.Slip != nil {
		if err := s.upsertSlip(ctx, q, c.Slip); err != nil {
			return err
		}

		slipID = &c.Slip.ID
	}

	kind, details, err := ledger.EncodeDetails(c.Details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO contributions (
			id, campaign_id, amount_units, contributor_channel_id, contributor_name,
			source_channel, details_kind, details, slip_id, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = q.ExecContext(ctx, s.q(query),
		c.ID.String(), c.CampaignID.String(), c.AmountUnits, c.ContributorChannelID, c.ContributorName,
		string(c.Source), string(kind), string(details), nullableID(slipID), toMillis(c.CreatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &ledger.IntegrityError{Entity: ledger.EntityContribution, ID: c.ID, Err: err}
		}

		return fmt.Errorf("creating contribution %s: %w", c.ID, err)
	}

	c.UnitPrice = unitPrice

	return nil
}

// upsertSlip finds or creates the slip by ref and sets slip.ID to the stored id.
func (s *Store) upsertSlip(ctx context.Context, q querier, slip *ledger.Slip) error {
	query := `
		INSERT INTO slips (id, ref, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (ref) DO UPDATE SET ref = excluded.ref
		RETURNING id, created_at
	`

	var createdAt int64

	if err := q.QueryRowContext(ctx, s.q(query), slip.ID.String(), slip.Ref, toMillis(slip.CreatedAt)).Scan(&slip.ID, &createdAt); err != nil {
		return fmt.Errorf("upserting slip: %w", err)
	}

	slip.CreatedAt = fromMillis(createdAt)

	return nil
}

func (s *Store) GetContribution(ctx context.Context, id uuid.UUID) (*ledger.Contribution, error) {
	query := `SELECT ` + selectContributionColumns + contributionJoins + ` WHERE co.id = ?`

	c, err := scanContribution(s.db.QueryRowContext(ctx, s.q(query), id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ledger.NotFoundError{Entity: ledger.EntityContribution, ID: id}
		}

		return nil, fmt.Errorf("getting contribution %s: %w", id, err)
	}

	return c, nil
}

func (s *Store) ListContributions(ctx context.Context, filter ledger.ContributionFilter) ([]*ledger.Contribution, error) {
	query := `SELECT ` + selectContributionColumns + contributionJoins

	var args []any

	switch {
	case filter.CampaignID != nil:
		query += ` WHERE co.campaign_id = ?`

		args = append(args, filter.CampaignID.String())
	case filter.TopicID != nil:
		query += ` WHERE ca.topic_id = ?`

		args = append(args, filter.TopicID.String())
	}

	query += ` ORDER BY co.id`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*ledger.Contribution

	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contribution: %w", err)
		}

		contributions = append(contributions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contributions: %w", err)
	}

	return contributions, nil
}

// DeleteContribution removes the contribution and, in the same transaction,
// its slip once no other contribution shares it.
func (s *Store) DeleteContribution(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var slipID sql.NullString

	err = dbTx.QueryRowContext(ctx, s.q(`SELECT slip_id FROM contributions WHERE id = ?`+s.dialect.ForUpdate()), id.String()).Scan(&slipID)
	if errors.Is(err, sql.ErrNoRows) {
		return &ledger.NotFoundError{Entity: ledger.EntityContribution, ID: id}
	}

	if err != nil {
		return fmt.Errorf("locking contribution %s: %w", id, err)
	}

	if _, err := dbTx.ExecContext(ctx, s.q(`DELETE FROM contributions WHERE id = ?`), id.String()); err != nil {
		return fmt.Errorf("deleting contribution %s: %w", id, err)
	}

	if slipID.Valid {
		if err := s.releaseSlips(ctx, dbTx, []string{slipID.String}); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// releaseSlips deletes each slip that no contribution references any more.
func (s *Store) releaseSlips(ctx context.Context, q querier, ids []string) error {
	query := `DELETE FROM slips WHERE id = ? AND NOT EXISTS (SELECT 1 FROM contributions WHERE slip_id = ?)`

	for _, id := range ids {
		if _, err := q.ExecContext(ctx, s.q(query), id, id); err != nil {
			return fmt.Errorf("releasing slip %s: %w", id, err)
		}
	}

	return nil
}

// AttachSlip finds or creates the slip and links it to the contribution. A
// replaced slip no other contribution shares is removed. All writes share one
// transaction.
func (s *Store) AttachSlip(ctx context.Context, contributionID uuid.UUID, slip *ledger.Slip) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var previous sql.NullString

	err = dbTx.QueryRowContext(ctx, s.q(`SELECT slip_id FROM contributions WHERE id = ?`+s.dialect.ForUpdate()), contributionID.String()).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return &ledger.NotFoundError{Entity: ledger.EntityContribution, ID: contributionID}
	}

	if err != nil {
		return fmt.Errorf("locking contribution %s: %w", contributionID, err)
	}

	if err := s.upsertSlip(ctx, dbTx, slip); err != nil {
		return err
	}

	res, err := dbTx.ExecContext(ctx, s.q(`UPDATE contributions SET slip_id = ? WHERE id = ?`), slip.ID.String(), contributionID.String())
	if err != nil {
		return fmt.Errorf("linking slip to contribution %s: %w", contributionID, err)
	}

	if err := requireAffected(res, ledger.EntityContribution, contributionID); err != nil {
		return err
	}

	if previous.Valid && previous.String != slip.ID.String() {
		if err := s.releaseSlips(ctx, dbTx, []string{previous.String}); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
