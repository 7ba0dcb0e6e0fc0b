package store

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateExport(ctx context.Context, export *Export) error
	GetExport(ctx context.Context, id string) (*Export, error)
	ListExports(ctx context.Context, limit int) ([]*Export, error)
	ListPendingExports(ctx context.Context) ([]*Export, error)
	MarkExportRunning(ctx context.Context, id string) error
	CompleteExport(ctx context.Context, id, edl string) error
	FailExport(ctx context.Context, id, errorMsg string) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const exportColumns = `id, title, status, clip_count, total_duration, summary, clips, edl, error, created_at, updated_at`

func (r *SQLiteRepository) CreateExport(ctx context.Context, e *Export) error {
	if e.Status == "" {
		e.Status = ExportStatusPending
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	clips := e.Clips
	if clips == "" {
		clips = "[]"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exports (`+exportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Title, e.Status, e.ClipCount, e.TotalDuration, e.Summary, clips,
		nullString(e.EDL), nullString(e.Error),
		e.CreatedAt.Format(time.RFC3339Nano), e.UpdatedAt.Format(time.RFC3339Nano))
	return err
}

func (r *SQLiteRepository) GetExport(ctx context.Context, id string) (*Export, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+exportColumns+` FROM exports WHERE id = ?`, id)
	e, err := scanExport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *SQLiteRepository) ListExports(ctx context.Context, limit int) ([]*Export, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+exportColumns+` FROM exports ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExports(rows)
}

func (r *SQLiteRepository) ListPendingExports(ctx context.Context) ([]*Export, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+exportColumns+` FROM exports WHERE status = 'pending' ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExports(rows)
}

func (r *SQLiteRepository) MarkExportRunning(ctx context.Context, id string) error {
	return r.updateStatus(ctx, id, ExportStatusRunning, "", "")
}

func (r *SQLiteRepository) CompleteExport(ctx context.Context, id, edl string) error {
	return r.updateStatus(ctx, id, ExportStatusCompleted, edl, "")
}

func (r *SQLiteRepository) FailExport(ctx context.Context, id, errorMsg string) error {
	return r.updateStatus(ctx, id, ExportStatusFailed, "", errorMsg)
}

func (r *SQLiteRepository) updateStatus(ctx context.Context, id, status, edl, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE exports SET status = ?, edl = COALESCE(?, edl), error = ?, updated_at = ? WHERE id = ?
	`, status, nullString(edl), nullString(errorMsg), time.Now().UTC().Format(time.RFC3339Nano), id)
	return err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExport(row scanner) (*Export, error) {
	var e Export
	var edl, errMsg sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&e.ID, &e.Title, &e.Status, &e.ClipCount, &e.TotalDuration, &e.Summary, &e.Clips,
		&edl, &errMsg, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.EDL = edl.String
	e.Error = errMsg.String
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &e, nil
}

func scanExports(rows *sql.Rows) ([]*Export, error) {
	var exports []*Export
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
