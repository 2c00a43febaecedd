package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/database"
	"auction-board/internal/models"
)

const (
	bidColumns     = "id, session_id, name, amount, created_at, updated_at"
	sessionColumns = "id, item_name, item_description, starting_price, status, created_at, updated_at"
)

// SQLRepo implements BidRepository and SessionRepository on SQLite or PostgreSQL
type SQLRepo struct {
	db *database.DB
}

// NewSQLRepo creates a new SQLRepo
func NewSQLRepo(db *database.DB) *SQLRepo {
	return &SQLRepo{db: db}
}

// SaveBid updates by id when the id exists in the session, otherwise upserts by
// name key in a single statement guarded by UNIQUE(session_id, name_key).
func (r *SQLRepo) SaveBid(ctx context.Context, w BidWrite) (models.Bid, error) {
	key := models.NameKey(w.Name)

	if w.ID != "" {
		query, args, err := r.db.Builder.
			Update("bids").
			Set("name", w.Name).
			Set("name_key", key).
			Set("amount", w.Amount).
			Set("updated_at", w.At.UnixMilli()).
			Where(squirrel.Eq{"id": w.ID, "session_id": w.SessionID}).
			Suffix("RETURNING " + bidColumns).
			ToSql()
		if err != nil {
			return models.Bid{}, fmt.Errorf("build bid update: %w", err)
		}

		bid, err := scanBid(r.db.QueryRowContext(ctx, query, args...))
		switch {
		case err == nil:
			return bid, nil
		case isUniqueViolation(err):
			return models.Bid{}, fmt.Errorf("rename bid %s to %q: %w", w.ID, w.Name, auctionerrors.ErrDuplicateName)
		case !errors.Is(err, sql.ErrNoRows):
			return models.Bid{}, auctionerrors.StoreIO("update bid", err)
		}
	}

	query, args, err := r.db.Builder.
		Insert("bids").
		Columns("id", "session_id", "name", "name_key", "amount", "created_at", "updated_at").
		Values(w.NewID, w.SessionID, w.Name, key, w.Amount, w.At.UnixMilli(), w.At.UnixMilli()).
		Suffix("ON CONFLICT (session_id, name_key) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at RETURNING " + bidColumns).
		ToSql()
	if err != nil {
		return models.Bid{}, fmt.Errorf("build bid upsert: %w", err)
	}

	bid, err := scanBid(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Bid{}, fmt.Errorf("save bid in session %s: %w", w.SessionID, auctionerrors.ErrSessionNotFound)
		}
		return models.Bid{}, auctionerrors.StoreIO("upsert bid", err)
	}
	return bid, nil
}

// DeleteBid removes a bid; missing bids are ignored
func (r *SQLRepo) DeleteBid(ctx context.Context, sessionID, bidID string) error {
	query, args, err := r.db.Builder.
		Delete("bids").
		Where(squirrel.Eq{"id": bidID, "session_id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build bid delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return auctionerrors.StoreIO("delete bid", err)
	}
	return nil
}

// DeleteBids removes every bid of a session
func (r *SQLRepo) DeleteBids(ctx context.Context, sessionID string) error {
	query, args, err := r.db.Builder.
		Delete("bids").
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build bids reset: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return auctionerrors.StoreIO("reset bids", err)
	}
	return nil
}

// ListBids returns the ranked bids of a session
func (r *SQLRepo) ListBids(ctx context.Context, sessionID string) ([]models.Bid, error) {
	query, args, err := r.db.Builder.
		Select(bidColumns).
		From("bids").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("amount DESC", "updated_at ASC", "created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bid list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, auctionerrors.StoreIO("list bids", err)
	}
	defer rows.Close()

	bids := []models.Bid{}
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, auctionerrors.StoreIO("scan bid", err)
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, auctionerrors.StoreIO("iterate bids", err)
	}

	models.RankBids(bids)
	return bids, nil
}

// CreateSession inserts a session row
func (r *SQLRepo) CreateSession(ctx context.Context, s models.Session) error {
	query, args, err := r.db.Builder.
		Insert("sessions").
		Columns("id", "item_name", "item_description", "starting_price", "status", "created_at", "updated_at").
		Values(s.ID, s.ItemName, s.ItemDescription, s.StartingPrice, string(s.Status), s.CreatedAt.UnixMilli(), s.UpdatedAt.UnixMilli()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build session insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create session %s: %w: duplicate id", s.ID, auctionerrors.ErrValidation)
		}
		return auctionerrors.StoreIO("create session", err)
	}
	return nil
}

// GetSession returns a session by id
func (r *SQLRepo) GetSession(ctx context.Context, id string) (models.Session, error) {
	query, args, err := r.db.Builder.
		Select(sessionColumns).
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Session{}, fmt.Errorf("build session get: %w", err)
	}

	session, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, fmt.Errorf("get session %s: %w", id, auctionerrors.ErrSessionNotFound)
	}
	if err != nil {
		return models.Session{}, auctionerrors.StoreIO("get session", err)
	}
	return session, nil
}

// UpdateSession merges patch into a session row
func (r *SQLRepo) UpdateSession(ctx context.Context, id string, patch models.SessionPatch, at time.Time) (models.Session, error) {
	set := map[string]any{"updated_at": at.UnixMilli()}
	if patch.ItemName != nil {
		set["item_name"] = *patch.ItemName
	}
	if patch.ItemDescription != nil {
		set["item_description"] = *patch.ItemDescription
	}
	if patch.StartingPrice != nil {
		set["starting_price"] = *patch.StartingPrice
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}

	query, args, err := r.db.Builder.
		Update("sessions").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + sessionColumns).
		ToSql()
	if err != nil {
		return models.Session{}, fmt.Errorf("build session update: %w", err)
	}

	session, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, fmt.Errorf("update session %s: %w", id, auctionerrors.ErrSessionNotFound)
	}
	if err != nil {
		return models.Session{}, auctionerrors.StoreIO("update session", err)
	}
	return session, nil
}

// ListSessions returns all sessions, newest first
func (r *SQLRepo) ListSessions(ctx context.Context) ([]models.Session, error) {
	query, args, err := r.db.Builder.
		Select(sessionColumns).
		From("sessions").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build session list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, auctionerrors.StoreIO("list sessions", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, auctionerrors.StoreIO("scan session", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, auctionerrors.StoreIO("iterate sessions", err)
	}

	models.SortSessions(sessions)
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBid(row rowScanner) (models.Bid, error) {
	var (
		bid                  models.Bid
		createdAt, updatedAt int64
	)
	if err := row.Scan(&bid.ID, &bid.SessionID, &bid.Name, &bid.Amount, &createdAt, &updatedAt); err != nil {
		return models.Bid{}, err
	}
	bid.CreatedAt = time.UnixMilli(createdAt).UTC()
	bid.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return bid, nil
}

func scanSession(row rowScanner) (models.Session, error) {
	var (
		session              models.Session
		status               string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&session.ID,
		&session.ItemName,
		&session.ItemDescription,
		&session.StartingPrice,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.Session{}, err
	}
	session.Status = models.SessionStatus(status)
	session.CreatedAt = time.UnixMilli(createdAt).UTC()
	session.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return session, nil
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
