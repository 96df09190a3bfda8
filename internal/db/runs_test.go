package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/velocity.plan/internal/stspeed"
)

func sampleProfile() []stspeed.SpeedPoint {
	return []stspeed.SpeedPoint{
		{S: 0, T: 0, V: 0, A: 1, Da: 0.5},
		{S: 0.5, T: 1, V: 1, A: 1, Da: 0},
		{S: 2, T: 2, V: 2, A: 0.5, Da: -0.5},
	}
}

func TestRecordAndGetRun(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	id, err := db.RecordRun(ctx, Run{
		ScenarioName:  "cruise",
		TotalTime:     2,
		TotalDistance: 2,
		MaxSpeed:      2,
		SolveMs:       3.5,
		Iterations:    120,
	}, sampleProfile())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := db.GetRun(ctx, id)
	require.NoError(t, err)
	want := &Run{
		RunID:         id,
		CreatedAt:     testEpoch,
		ScenarioName:  "cruise",
		Status:        StatusOK,
		TotalTime:     2,
		TotalDistance: 2,
		MaxSpeed:      2,
		SolveMs:       3.5,
		Iterations:    120,
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("GetRun mismatch (-got +want):\n%s", diff)
	}

	samples, err := db.RunSamples(ctx, id)
	require.NoError(t, err)
	if diff := cmp.Diff(samples, sampleProfile()); diff != "" {
		t.Errorf("RunSamples mismatch (-got +want):\n%s", diff)
	}
}

func TestRecordFailedRun(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	_, err := db.RecordRun(ctx, Run{Status: StatusFailed}, sampleProfile())
	assert.ErrorIs(t, err, ErrFailedRunSamples)

	id, err := db.RecordRun(ctx, Run{
		RunID:        "fixed-id",
		Status:       StatusFailed,
		ErrorKind:    "solve",
		ErrorMessage: "not converged",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	got, err := db.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "solve", got.ErrorKind)

	samples, err := db.RunSamples(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, samples)

	// run IDs are unique
	_, err = db.RecordRun(ctx, Run{RunID: "fixed-id"}, nil)
	assert.Error(t, err)
}

func TestGetRunNotFound(t *testing.T) {
	db, _ := openTestDB(t)
	_, err := db.GetRun(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound), "got %v", err)
}

func TestListRuns(t *testing.T) {
	db, clock := openTestDB(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		id, err := db.RecordRun(ctx, Run{ScenarioName: name}, nil)
		require.NoError(t, err)
		ids = append(ids, id)
		clock.Advance(time.Second)
	}

	runs, err := db.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"third", "second", "first"},
		[]string{runs[0].ScenarioName, runs[1].ScenarioName, runs[2].ScenarioName})
	assert.Equal(t, testEpoch.Add(2*time.Second), runs[0].CreatedAt)

	runs, err = db.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].RunID)
}

func TestSamplesCascadeOnDelete(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	id, err := db.RecordRun(ctx, Run{}, sampleProfile())
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `DELETE FROM plan_runs WHERE run_id = ?`, id)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM plan_samples`).Scan(&n))
	assert.Zero(t, n)
}

func TestRunFromSearch(t *testing.T) {
	data := &stspeed.SpeedData{}
	data.AppendSpeedPoint(0, 0, 1, 0, 0)
	data.AppendSpeedPoint(4, 2, 3, 0, 0)
	stats := stspeed.CycleStats{Solve: 1500 * time.Microsecond, Iterations: 80}

	run := RunFromSearch("follow", data, stats, nil)
	assert.Equal(t, Run{
		ScenarioName:  "follow",
		Status:        StatusOK,
		TotalTime:     2,
		TotalDistance: 4,
		MaxSpeed:      3,
		SolveMs:       1.5,
		Iterations:    80,
	}, run)

	planErr := &stspeed.PlanningError{Kind: stspeed.KindSolve, Op: "solve", Msg: "solve qp problem failed"}
	run = RunFromSearch("follow", nil, stats, planErr)
	assert.Equal(t, StatusFailed, run.Status)
	assert.Equal(t, "solve", run.ErrorKind)
	assert.Equal(t, planErr.Error(), run.ErrorMessage)
	assert.Zero(t, run.TotalDistance)

	run = RunFromSearch("follow", nil, stats, errors.New("plain"))
	assert.Empty(t, run.ErrorKind)
}
