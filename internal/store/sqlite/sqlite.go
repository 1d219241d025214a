package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/arbiter-ai/arbiter/internal/store"
	"github.com/arbiter-ai/arbiter/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // Used for actual queries (can be *sqlx.DB or *sqlx.Tx)
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// attempt rollback, but prioritize original error
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) Responses() store.ResponseRepository {
	return &responseRepo{db: r.executor}
}

func (r *SqliteRepository) Evaluations() store.EvaluationRepository {
	return &evaluationRepo{db: r.executor}
}

type responseRepo struct {
	db DB
}

func (r *responseRepo) Log(ctx context.Context, log *model.ResponseLog) error {
	query := `
	INSERT INTO responses (id, model_id, text, tokens_used, cost_micros, latency_ms, created_at)
	VALUES (:id, :model_id, :text, :tokens_used, :cost_micros, :latency_ms, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, log)
	return err
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.ResponseLog, error) {
	var log model.ResponseLog
	err := r.db.GetContext(ctx, &log, `SELECT * FROM responses WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *responseRepo) GetRecent(ctx context.Context, limit int) ([]model.ResponseLog, error) {
	var logs []model.ResponseLog
	err := r.db.SelectContext(ctx, &logs,
		`SELECT * FROM responses ORDER BY created_at DESC LIMIT ?`, limit)
	return logs, err
}

func (r *responseRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	var stats []model.DailyStats
	query := `
	SELECT
		DATE(created_at) as date,
		COUNT(*) as total_requests,
		COALESCE(SUM(tokens_used), 0) as total_tokens,
		COALESCE(SUM(cost_micros), 0) as total_cost_micros,
		COALESCE(AVG(latency_ms), 0) as avg_latency
	FROM responses
	WHERE created_at >= DATE('now', ?)
	GROUP BY DATE(created_at)
	ORDER BY date DESC`
	err := r.db.SelectContext(ctx, &stats, query, fmt.Sprintf("-%d days", days))
	return stats, err
}

type evaluationRepo struct {
	db DB
}

func (r *evaluationRepo) Save(ctx context.Context, rec *model.EvaluationRecord) error {
	query := `
	INSERT INTO evaluations (
		id, request_id, overall_score, passed,
		outcomes_json, issues_json, recommendations_json, created_at
	) VALUES (
		:id, :request_id, :overall_score, :passed,
		:outcomes_json, :issues_json, :recommendations_json, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, rec)
	return err
}

func (r *evaluationRepo) GetByID(ctx context.Context, id string) (*model.EvaluationRecord, error) {
	var rec model.EvaluationRecord
	err := r.db.GetContext(ctx, &rec, `SELECT * FROM evaluations WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *evaluationRepo) GetByRequestID(ctx context.Context, requestID string) ([]model.EvaluationRecord, error) {
	var recs []model.EvaluationRecord
	err := r.db.SelectContext(ctx, &recs,
		`SELECT * FROM evaluations WHERE request_id = ? ORDER BY created_at`, requestID)
	return recs, err
}

func (r *evaluationRepo) SaveBenchmark(ctx context.Context, rec *model.BenchmarkRecord) error {
	query := `
	INSERT INTO benchmark_runs (
		id, benchmark_id, model_id, overall_score, pass_rate, outcomes_json, created_at
	) VALUES (
		:id, :benchmark_id, :model_id, :overall_score, :pass_rate, :outcomes_json, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, rec)
	return err
}

func (r *evaluationRepo) GetBenchmarks(ctx context.Context, modelID string, limit int) ([]model.BenchmarkRecord, error) {
	var recs []model.BenchmarkRecord
	if limit <= 0 {
		limit = 100
	}
	if modelID == "" {
		err := r.db.SelectContext(ctx, &recs,
			`SELECT * FROM benchmark_runs ORDER BY created_at DESC LIMIT ?`, limit)
		return recs, err
	}
	err := r.db.SelectContext(ctx, &recs,
		`SELECT * FROM benchmark_runs WHERE model_id = ? ORDER BY created_at DESC LIMIT ?`,
		modelID, limit)
	return recs, err
}
