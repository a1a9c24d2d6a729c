package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/kongbun/internal/broadcast"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
	"github.com/MrJamesThe3rd/kongbun/internal/rollup"
)

// ReadSnapshot runs fn against a read-only repeatable-read transaction, so
// topics, campaigns and unit totals read inside fn agree with each other.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(rollup.Reader) error) error {
	dbTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("beginning snapshot: %w", err)
	}
	defer dbTx.Rollback()

	if err := fn(&Store{db: s.db, dialect: s.dialect, snapshot: dbTx}); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}

	return nil
}

// CampaignUnitTotals left-joins every campaign (or those of one topic) to its
// contributions and groups by campaign. Campaigns without contributions
// report zero count and zero units. Unit sums are read as decimals because
// Postgres widens SUM(bigint) to numeric.
func (s *Store) CampaignUnitTotals(ctx context.Context, filter ledger.CampaignFilter) ([]rollup.CampaignUnits, error) {
	query := `
		SELECT ca.id, COUNT(co.id), COALESCE(SUM(co.amount_units), 0)
		FROM campaigns ca
		LEFT JOIN contributions co ON co.campaign_id = ca.id`

	var args []any

	if filter.TopicID != nil {
		query += ` WHERE ca.topic_id = ?`

		args = append(args, filter.TopicID.String())
	}

	query += ` GROUP BY ca.id ORDER BY ca.id`

	rows, err := s.reader().QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("totalling campaigns: %w", err)
	}
	defer rows.Close()

	var totals []rollup.CampaignUnits

	for rows.Next() {
		var t rollup.CampaignUnits
		if err := rows.Scan(&t.CampaignID, &t.Contributions, &t.Units); err != nil {
			return nil, fmt.Errorf("scanning campaign total: %w", err)
		}

		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating campaign totals: %w", err)
	}

	return totals, nil
}

// ContributorChannels returns the distinct non-empty contributor channel ids
// with any contribution in scope at or after q.Since.
func (s *Store) ContributorChannels(ctx context.Context, q broadcast.AudienceQuery) ([]string, error) {
	query := `
		SELECT DISTINCT co.contributor_channel_id
		FROM contributions co
		JOIN campaigns ca ON ca.id = co.campaign_id
		WHERE co.contributor_channel_id <> ''`

	var args []any

	if q.CampaignID != nil {
		query += ` AND co.campaign_id = ?`

		args = append(args, q.CampaignID.String())
	}

	if q.TopicID != nil {
		query += ` AND ca.topic_id = ?`

		args = append(args, q.TopicID.String())
	}

	if q.Since != nil {
		query += ` AND co.created_at >= ?`

		args = append(args, toMillis(*q.Since))
	}

	query += ` ORDER BY co.contributor_channel_id`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("selecting contributor channels: %w", err)
	}
	defer rows.Close()

	var channels []string

	for rows.Next() {
		var ch string
		if err := rows.Scan(&ch); err != nil {
			return nil, fmt.Errorf("scanning contributor channel: %w", err)
		}

		channels = append(channels, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contributor channels: %w", err)
	}

	return channels, nil
}
