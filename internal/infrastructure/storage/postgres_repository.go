package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"LegalAnalyzer/internal/domain"
	"LegalAnalyzer/internal/ports"
)

// ErrNotFound is returned when no analysis exists for the requested id.
var ErrNotFound = errors.New("analysis not found")

const analysesTable = "analyses"

const schema = `CREATE TABLE IF NOT EXISTS analyses (
    id            TEXT PRIMARY KEY,
    document_name TEXT NOT NULL,
    document_type TEXT NOT NULL,
    clause_count  INTEGER NOT NULL,
    result        JSONB NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AnalysisSummary is the listing view of an archived analysis.
type AnalysisSummary struct {
	ID           string    `json:"id"`
	DocumentName string    `json:"document_name"`
	DocumentType string    `json:"document_type"`
	ClauseCount  int       `json:"clause_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// PostgresRepository archives analysis results as JSONB documents.
type PostgresRepository struct {
	db DB
}

var _ ports.AnalysisRepository = (*PostgresRepository)(nil)

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// EnsureSchema creates the analyses table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save upserts the analysis snapshot keyed by its id.
func (r *PostgresRepository) Save(ctx context.Context, result domain.AnalysisResult) error {
	if result.ID == "" {
		return errors.New("analysis id is required")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	query, args, err := builder().
		Insert(analysesTable).
		Columns("id", "document_name", "document_type", "clause_count", "result", "created_at").
		Values(
			result.ID,
			result.DocumentName,
			result.Summary.DocumentType,
			result.Clauses.TotalFound,
			payload,
			result.CreatedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE
SET document_name = EXCLUDED.document_name,
    document_type = EXCLUDED.document_type,
    clause_count = EXCLUDED.clause_count,
    result = EXCLUDED.result,
    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}
	return nil
}

// Get loads one archived analysis.
func (r *PostgresRepository) Get(ctx context.Context, id string) (domain.AnalysisResult, error) {
	query, args, err := builder().
		Select("result").
		From(analysesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("build select: %w", err)
	}

	var payload []byte
	if err := r.db.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AnalysisResult{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return domain.AnalysisResult{}, fmt.Errorf("select analysis: %w", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("decode analysis %s: %w", id, err)
	}
	return result, nil
}

// List returns the most recent analyses, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit uint64) ([]AnalysisSummary, error) {
	query, args, err := builder().
		Select("id", "document_name", "document_type", "clause_count", "created_at").
		From(analysesTable).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	out := []AnalysisSummary{}
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(&s.ID, &s.DocumentName, &s.DocumentType, &s.ClauseCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}
