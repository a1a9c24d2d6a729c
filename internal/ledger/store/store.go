package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/MrJamesThe3rd/kongbun/internal/database"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
	"github.com/MrJamesThe3rd/kongbun/internal/lifecycle"
	"github.com/MrJamesThe3rd/kongbun/internal/pricing"
)

// Store persists the ledger in Postgres or SQLite. Timestamps are stored as
// unix milliseconds and ids as UUIDv7, so ordering by id is creation order.
type Store struct {
	db      *sql.DB
	dialect database.Dialect

	// snapshot, when set, serves list reads from one read-only transaction.
	snapshot *sql.Tx
}

func New(db *sql.DB, dialect database.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowsQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowsQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) reader() rowsQuerier {
	if s.snapshot != nil {
		return s.snapshot
	}

	return s.db
}

func (s *Store) q(query string) string {
	return s.dialect.Rebind(query)
}

// nullableID binds an optional id; drivers differ on how they encode uuid.UUID.
func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}

	return id.String()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}

	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

func requireAffected(res sql.Result, entity ledger.Entity, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return &ledger.NotFoundError{Entity: entity, ID: id}
	}

	return nil
}

// Topics

func scanTopic(s scanner) (*ledger.Topic, error) {
	var (
		t                    ledger.Topic
		status               string
		createdAt, updatedAt int64
	)

	if err := s.Scan(&t.ID, &t.Name, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	t.Status = lifecycle.TopicStatus(status)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)

	return &t, nil
}

const selectTopicColumns = `id, name, status, created_at, updated_at`

func (s *Store) CreateTopic(ctx context.Context, t *ledger.Topic) error {
	query := `
		INSERT INTO topics (id, name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, s.q(query),
		t.ID.String(), t.Name, string(t.Status), toMillis(t.CreatedAt), toMillis(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating topic %s: %w", t.ID, err)
	}

	return nil
}

func (s *Store) GetTopic(ctx context.Context, id uuid.UUID) (*ledger.Topic, error) {
	query := `SELECT ` + selectTopicColumns + ` FROM topics WHERE id = ?`

	t, err := scanTopic(s.db.QueryRowContext(ctx, s.q(query), id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ledger.NotFoundError{Entity: ledger.EntityTopic, ID: id}
		}

		return nil, fmt.Errorf("getting topic %s: %w", id, err)
	}

	return t, nil
}

func (s *Store) ListTopics(ctx context.Context, filter ledger.TopicFilter) ([]*ledger.Topic, error) {
	query := `SELECT ` + selectTopicColumns + ` FROM topics`

	var args []any

	if filter.Status != nil {
		query += ` WHERE status = ?`

		args = append(args, string(*filter.Status))
	}

	query += ` ORDER BY id`

	rows, err := s.reader().QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	var topics []*ledger.Topic

	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}

		topics = append(topics, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topics: %w", err)
	}

	return topics, nil
}

func (s *Store) UpdateTopic(ctx context.Context, t *ledger.Topic) error {
	query := `
		UPDATE topics
		SET name = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, s.q(query), t.Name, string(t.Status), toMillis(t.UpdatedAt), t.ID.String())
	if err != nil {
		return fmt.Errorf("updating topic %s: %w", t.ID, err)
	}

	return requireAffected(res, ledger.EntityTopic, t.ID)
}

// DeleteTopic locks the topic row, checks its status, detaches its campaigns
// and deletes it in one transaction.
func (s *Store) DeleteTopic(ctx context.Context, id uuid.UUID, deletable lifecycle.TopicStatus) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var status string

	err = dbTx.QueryRowContext(ctx, s.q(`SELECT status FROM topics WHERE id = ?`+s.dialect.ForUpdate()), id.String()).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return &ledger.NotFoundError{Entity: ledger.EntityTopic, ID: id}
	}

	if err != nil {
		return fmt.Errorf("locking topic %s: %w", id, err)
	}

	if lifecycle.TopicStatus(status) != deletable {
		return &ledger.ConflictError{
			Entity: ledger.EntityTopic,
			ID:     id,
			Reason: fmt.Sprintf("topic is %s; only %s topics can be deleted", status, deletable),
		}
	}

	if _, err := dbTx.ExecContext(ctx, s.q(`UPDATE campaigns SET topic_id = NULL WHERE topic_id = ?`), id.String()); err != nil {
		return fmt.Errorf("detaching campaigns of topic %s: %w", id, err)
	}

	if _, err := dbTx.ExecContext(ctx, s.q(`DELETE FROM topics WHERE id = ?`), id.String()); err != nil {
		return fmt.Errorf("deleting topic %s: %w", id, err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Campaigns

func scanCampaign(s scanner) (*ledger.Campaign, error) {
	var (
		c                    ledger.Campaign
		topicID              *uuid.UUID
		status, mode, kind   string
		unitPrice            int64
		stockLimit           sql.NullInt64
		createdAt, updatedAt int64
	)

	if err := s.Scan(
		&c.ID, &topicID, &c.Name, &c.Description, &status,
		&mode, &unitPrice, &stockLimit,
		&c.ImageRef, &kind, &c.ReplyMessage, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	m, err := pricing.Decode(pricing.Kind(mode), unitPrice, stockLimit.Int64)
	if err != nil {
		return nil, fmt.Errorf("decoding pricing of campaign %s: %w", c.ID, err)
	}

	c.TopicID = topicID
	c.Status = lifecycle.CampaignStatus(status)
	c.Pricing = m
	c.DetailsKind = ledger.DetailsKind(kind)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)

	return &c, nil
}

const selectCampaignColumns = `
	id, topic_id, name, description, status,
	pricing_mode, unit_price, stock_limit,
	image_ref, details_kind, reply_message, created_at, updated_at
`

func stockColumn(limit int64) sql.NullInt64 {
	return sql.NullInt64{Int64: limit, Valid: limit > 0}
}

func (s *Store) CreateCampaign(ctx context.Context, c *ledger.Campaign) error {
	query := `
		INSERT INTO campaigns (
			id, topic_id, name, description, status,
			pricing_mode, unit_price, stock_limit,
			image_ref, details_kind, reply_message, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	mode, unitPrice, stockLimit := pricing.Encode(c.Pricing)

	_, err := s.db.ExecContext(ctx, s.q(query),
		c.ID.String(), nullableID(c.TopicID), c.Name, c.Description, string(c.Status),
		string(mode), unitPrice, stockColumn(stockLimit),
		c.ImageRef, string(c.DetailsKind), c.ReplyMessage, toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &ledger.IntegrityError{Entity: ledger.EntityCampaign, ID: c.ID, Err: err}
		}

		return fmt.Errorf("creating campaign %s: %w", c.ID, err)
	}

	return nil
}

func (s *Store) GetCampaign(ctx context.Context, id uuid.UUID) (*ledger.Campaign, error) {
	query := `SELECT ` + selectCampaignColumns + ` FROM campaigns WHERE id = ?`

	c, err := scanCampaign(s.db.QueryRowContext(ctx, s.q(query), id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ledger.NotFoundError{Entity: ledger.EntityCampaign, ID: id}
		}

		return nil, fmt.Errorf("getting campaign %s: %w", id, err)
	}

	return c, nil
}

func (s *Store) ListCampaigns(ctx context.Context, filter ledger.CampaignFilter) ([]*ledger.Campaign, error) {
	query := `SELECT ` + selectCampaignColumns + ` FROM campaigns`

	var args []any

	if filter.TopicID != nil {
		query += ` WHERE topic_id = ?`

		args = append(args, filter.TopicID.String())
	}

	query += ` ORDER BY id`

	rows, err := s.reader().QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*ledger.Campaign

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning campaign: %w", err)
		}

		campaigns = append(campaigns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating campaigns: %w", err)
	}

	return campaigns, nil
}

func (s *Store) UpdateCampaign(ctx context.Context, c *ledger.Campaign) error {
	query := `
		UPDATE campaigns
		SET topic_id = ?, name = ?, description = ?, status = ?,
			pricing_mode = ?, unit_price = ?, stock_limit = ?,
			image_ref = ?, details_kind = ?, reply_message = ?, updated_at = ?
		WHERE id = ?
	`

	mode, unitPrice, stockLimit := pricing.Encode(c.Pricing)

	res, err := s.db.ExecContext(ctx, s.q(query),
		nullableID(c.TopicID), c.Name, c.Description, string(c.Status),
		string(mode), unitPrice, stockColumn(stockLimit),
		c.ImageRef, string(c.DetailsKind), c.ReplyMessage, toMillis(c.UpdatedAt),
		c.ID.String(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &ledger.IntegrityError{Entity: ledger.EntityCampaign, ID: c.ID, Err: err}
		}

		return fmt.Errorf("updating campaign %s: %w", c.ID, err)
	}

	return requireAffected(res, ledger.EntityCampaign, c.ID)
}

// DeleteCampaign deletes the campaign and, when cascade is set, its
// contributions and their unshared slips in one transaction.
func (s *Store) DeleteCampaign(ctx context.Context, id uuid.UUID, cascade bool) (int64, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var found int

	err = dbTx.QueryRowContext(ctx, s.q(`SELECT 1 FROM campaigns WHERE id = ?`+s.dialect.ForUpdate()), id.String()).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &ledger.NotFoundError{Entity: ledger.EntityCampaign, ID: id}
	}

	if err != nil {
		return 0, fmt.Errorf("locking campaign %s: %w", id, err)
	}

	var count int64
	if err := dbTx.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM contributions WHERE campaign_id = ?`), id.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting contributions of campaign %s: %w", id, err)
	}

	if count > 0 && !cascade {
		return 0, &ledger.ConflictError{
			Entity: ledger.EntityCampaign,
			ID:     id,
			Reason: fmt.Sprintf("campaign has %d contributions; confirm cascade to delete them", count),
		}
	}

	slipIDs, err := campaignSlipIDs(ctx, dbTx, s.q(`SELECT DISTINCT slip_id FROM contributions WHERE campaign_id = ? AND slip_id IS NOT NULL`), id)
	if err != nil {
		return 0, err
	}

	if _, err := dbTx.ExecContext(ctx, s.q(`DELETE FROM contributions WHERE campaign_id = ?`), id.String()); err != nil {
		return 0, fmt.Errorf("deleting contributions of campaign %s: %w", id, err)
	}

	if err := s.releaseSlips(ctx, dbTx, slipIDs); err != nil {
		return 0, err
	}

	if _, err := dbTx.ExecContext(ctx, s.q(`DELETE FROM campaigns WHERE id = ?`), id.String()); err != nil {
		return 0, fmt.Errorf("deleting campaign %s: %w", id, err)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return count, nil
}

func campaignSlipIDs(ctx context.Context, dbTx *sql.Tx, query string, campaignID uuid.UUID) ([]string, error) {
	rows, err := dbTx.QueryContext(ctx, query, campaignID.String())
	if err != nil {
		return nil, fmt.Errorf("listing slips of campaign %s: %w", campaignID, err)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning slip id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slips of campaign %s: %w", campaignID, err)
	}

	return ids, nil
}
