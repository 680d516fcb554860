package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Shemantipal/Green-Receipt/internal/entity"
)

// ErrNotFound is returned when no analysis exists for an ID.
var ErrNotFound = errors.New("analysis not found")

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id              TEXT PRIMARY KEY,
	created_at      TEXT NOT NULL,
	store           TEXT NOT NULL DEFAULT '',
	overall_rating  TEXT NOT NULL,
	item_count      INTEGER NOT NULL,
	total_carbon_kg REAL NOT NULL,
	total_water_l   REAL NOT NULL,
	total_waste_g   REAL NOT NULL,
	total_price     REAL NOT NULL,
	payload         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

// Summary is the list-view projection of a stored analysis.
type Summary struct {
	ID            uuid.UUID `json:"id"`
	Store         string    `json:"store,omitempty"`
	OverallRating string    `json:"overall_rating"`
	ItemCount     int       `json:"item_count"`
	TotalCarbonKg float64   `json:"total_carbon_kg"`
	TotalPrice    float64   `json:"total_price"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store persists completed analyses in a local sqlite database. Saving is
// best-effort from the pipeline's point of view: the caller logs failures and
// still returns the full result to the client.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, res *entity.AnalysisResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses
			(id, created_at, store, overall_rating, item_count,
			 total_carbon_kg, total_water_l, total_waste_g, total_price, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID.String(),
		res.CreatedAt.UTC().Format(time.RFC3339Nano),
		res.Store,
		string(res.OverallRating),
		len(res.Items),
		res.Totals.CarbonFootprintKg,
		res.Totals.WaterUsageLiters,
		res.Totals.PackagingWasteG,
		res.Totals.TotalPrice,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	s.logger.Debug("history.saved", "analysis_id", res.ID)
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*entity.AnalysisResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM analyses WHERE id = ?`, id.String(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}

	var res entity.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &res, nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, store, overall_rating, item_count, total_carbon_kg, total_price
		FROM analyses
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("history.rows_close_error", "error", err)
		}
	}()

	var out []Summary
	for rows.Next() {
		var (
			idStr     string
			createdAt string
			sum       Summary
		)
		if err := rows.Scan(&idStr, &createdAt, &sum.Store, &sum.OverallRating, &sum.ItemCount, &sum.TotalCarbonKg, &sum.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		if id, err := uuid.Parse(idStr); err == nil {
			sum.ID = id
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			sum.CreatedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
