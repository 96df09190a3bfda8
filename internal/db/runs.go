package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/velocity.plan/internal/stspeed"
)

// RunStatus is the outcome of a planning run.
type RunStatus string

const (
	StatusOK     RunStatus = "ok"
	StatusFailed RunStatus = "failed"
)

var (
	// ErrRunNotFound is returned when no run has the requested ID.
	ErrRunNotFound = errors.New("plan run not found")
	// ErrFailedRunSamples is returned when a failed run carries samples.
	ErrFailedRunSamples = errors.New("failed plan run cannot have samples")
)

// Run is one row of plan_runs.
type Run struct {
	RunID         string
	CreatedAt     time.Time
	ScenarioName  string
	Status        RunStatus
	ErrorKind     string
	ErrorMessage  string
	TotalTime     float64
	TotalDistance float64
	MaxSpeed      float64
	SolveMs       float64
	Iterations    int
}

// RunFromSearch summarises the outcome of a Search call.
func RunFromSearch(scenarioName string, data *stspeed.SpeedData, stats stspeed.CycleStats, err error) Run {
	run := Run{
		ScenarioName: scenarioName,
		Status:       StatusOK,
		SolveMs:      float64(stats.Solve) / float64(time.Millisecond),
		Iterations:   stats.Iterations,
	}
	if err != nil {
		run.Status = StatusFailed
		run.ErrorMessage = err.Error()
		if kind := stspeed.KindOf(err); kind != 0 {
			run.ErrorKind = kind.String()
		}
		return run
	}
	run.TotalTime = data.TotalTime()
	run.TotalDistance = data.TotalDistance()
	run.MaxSpeed = data.MaxSpeed()
	return run
}

// RecordRun stores a run and its samples in one transaction and returns the
// run ID, generating one when run.RunID is empty.
func (db *DB) RecordRun(ctx context.Context, run Run, samples []stspeed.SpeedPoint) (string, error) {
	if run.Status == "" {
		run.Status = StatusOK
	}
	if run.Status == StatusFailed && len(samples) > 0 {
		return "", ErrFailedRunSamples
	}
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = db.clock.Now()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plan_runs (
			run_id, created_at, scenario_name, status, error_kind, error_message,
			total_time, total_distance, max_speed, solve_ms, iterations
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.CreatedAt.UnixNano(), run.ScenarioName, string(run.Status),
		run.ErrorKind, run.ErrorMessage, run.TotalTime, run.TotalDistance,
		run.MaxSpeed, run.SolveMs, run.Iterations,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert plan run: %w", err)
	}

	if len(samples) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO plan_samples (run_id, idx, t, s, v, a, jerk)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return "", fmt.Errorf("failed to prepare sample insert: %w", err)
		}
		defer stmt.Close()
		for i, p := range samples {
			if _, err := stmt.ExecContext(ctx, run.RunID, i, p.T, p.S, p.V, p.A, p.Da); err != nil {
				return "", fmt.Errorf("failed to insert sample %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit plan run: %w", err)
	}
	return run.RunID, nil
}

const runColumns = `run_id, created_at, scenario_name, status, error_kind, error_message,
	total_time, total_distance, max_speed, solve_ms, iterations`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var createdAt int64
	var status string
	err := row.Scan(&r.RunID, &createdAt, &r.ScenarioName, &status, &r.ErrorKind,
		&r.ErrorMessage, &r.TotalTime, &r.TotalDistance, &r.MaxSpeed, &r.SolveMs, &r.Iterations)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = time.Unix(0, createdAt).UTC()
	r.Status = RunStatus(status)
	return r, nil
}

// GetRun returns the run with the given ID.
func (db *DB) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM plan_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan run: %w", err)
	}
	return &r, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM plan_runs ORDER BY created_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunSamples returns the samples of a run in time order.
func (db *DB) RunSamples(ctx context.Context, runID string) ([]stspeed.SpeedPoint, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT t, s, v, a, jerk FROM plan_samples WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []stspeed.SpeedPoint
	for rows.Next() {
		var p stspeed.SpeedPoint
		if err := rows.Scan(&p.T, &p.S, &p.V, &p.A, &p.Da); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, p)
	}
	return samples, rows.Err()
}
