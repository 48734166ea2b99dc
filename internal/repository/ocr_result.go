package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/entity"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ListFilter narrows List. Lokasi matches as a case-insensitive substring.
type ListFilter struct {
	Limit  int
	Lokasi string
}

type OCRResultRepository interface {
	Save(ctx context.Context, rec *entity.OCRResult) (*entity.OCRResult, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.OCRResult, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.OCRResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ocrResultRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewOCRResultRepository(db *DB, logger *slog.Logger) OCRResultRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ocrResultRepo{db: db, logger: logger}
}

const resultColumns = `id, message, lokasi, latitude, longitude, source_file, engine, created_at`

// Save inserts rec, assigning an ID and creation time when unset.
func (r *ocrResultRepo) Save(ctx context.Context, rec *entity.OCRResult) (*entity.OCRResult, error) {
	out := *rec
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now()
	}
	out.CreatedAt = out.CreatedAt.UTC()

	q := r.db.Rebind(`INSERT INTO ocr_results (` + resultColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.SQL.ExecContext(ctx, q,
		out.ID.String(), out.Message, out.Lokasi,
		nullFloat(out.Latitude), nullFloat(out.Longitude),
		out.SourceFile, out.Engine, out.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to save ocr result", "id", out.ID, "error", err)
		return nil, fmt.Errorf("%w: save result: %w", common.ErrDatabase, err)
	}
	r.logger.Debug("ocr result saved", "id", out.ID, "lokasi", out.Lokasi)
	return &out, nil
}

// List returns the newest results first.
func (r *ocrResultRepo) List(ctx context.Context, filter ListFilter) ([]*entity.OCRResult, error) {
	limit := filter.Limit
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	var (
		where string
		args  []any
	)
	if s := strings.TrimSpace(filter.Lokasi); s != "" {
		where = ` WHERE LOWER(lokasi) LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	args = append(args, limit)

	q := r.db.Rebind(`SELECT ` + resultColumns + ` FROM ocr_results` + where + ` ORDER BY created_at DESC, id DESC LIMIT ?`)
	rows, err := r.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to list ocr results", "error", err)
		return nil, fmt.Errorf("%w: list results: %w", common.ErrDatabase, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.logger.Warn("failed to close rows", "error", err)
		}
	}(rows)

	out := make([]*entity.OCRResult, 0, limit)
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan result: %w", common.ErrDatabase, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list results: %w", common.ErrDatabase, err)
	}
	return out, nil
}

func (r *ocrResultRepo) Get(ctx context.Context, id uuid.UUID) (*entity.OCRResult, error) {
	q := r.db.Rebind(`SELECT ` + resultColumns + ` FROM ocr_results WHERE id = ?`)
	rec, err := scanResult(r.db.SQL.QueryRowContext(ctx, q, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", "result "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get ocr result", "id", id, "error", err)
		return nil, fmt.Errorf("%w: get result: %w", common.ErrDatabase, err)
	}
	return rec, nil
}

func (r *ocrResultRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.SQL.ExecContext(ctx, r.db.Rebind(`DELETE FROM ocr_results WHERE id = ?`), id.String())
	if err != nil {
		r.logger.Error("failed to delete ocr result", "id", id, "error", err)
		return fmt.Errorf("%w: delete result: %w", common.ErrDatabase, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete result: %w", common.ErrDatabase, err)
	}
	if n == 0 {
		return common.NewAppError("NOT_FOUND", "result "+id.String(), common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*entity.OCRResult, error) {
	var (
		rec      entity.OCRResult
		id       string
		lat, lon sql.NullFloat64
	)
	if err := row.Scan(&id, &rec.Message, &rec.Lokasi, &lat, &lon, &rec.SourceFile, &rec.Engine, &rec.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("bad id %q: %w", id, err)
	}
	rec.ID = parsed
	if lat.Valid {
		rec.Latitude = &lat.Float64
	}
	if lon.Valid {
		rec.Longitude = &lon.Float64
	}
	return &rec, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
