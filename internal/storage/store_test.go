package storage

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/advection"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/swarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrajectory() *dynamo.Trajectory {
	traj := dynamo.NewTrajectory(3)
	traj.Append(0, dynamo.State{1, 0})
	traj.Append(0.1, dynamo.State{0.995, -0.0981})
	traj.Append(0.2, dynamo.State{0.980125, -0.19424})
	return traj
}

func TestSaveAndLoadTrajectory(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	meta := RunMetadata{
		Model:      "pendulum",
		Seed:       7,
		Dt:         0.1,
		Duration:   0.2,
		Integrator: "rk4",
		Metrics:    map[string]float64{"energy_drift": 1e-9},
	}
	id, err := store.Save(meta, sampleTrajectory())
	require.NoError(t, err)
	assert.Contains(t, id, "pendulum_")

	loaded, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, KindTrajectory, loaded.Kind)
	assert.Equal(t, "rk4", loaded.Integrator)
	assert.Equal(t, int64(7), loaded.Seed)
	assert.InDelta(t, 1e-9, loaded.Metrics["energy_drift"], 1e-20)

	traj, err := store.LoadStates(id)
	require.NoError(t, err)
	require.Equal(t, 3, traj.Len())

	want := sampleTrajectory()
	for i := 0; i < want.Len(); i++ {
		wt, wx := want.At(i)
		gt, gx := traj.At(i)
		assert.Equal(t, wt, gt)
		assert.Equal(t, wx, gx)
	}
}

func TestSaveField(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	u0 := []float64{0, 1, 0, 0}
	hist, err := advection.Solve(u0, advection.SchemeUpwind, 1, 0.5, 0.5, 2)
	require.NoError(t, err)

	id, err := store.SaveField(RunMetadata{Model: "box"}, hist)
	require.NoError(t, err)

	meta, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, KindField, meta.Kind)
	assert.Equal(t, "upwind", meta.Scheme)

	field, err := store.LoadStates(id)
	require.NoError(t, err)
	require.Equal(t, 3, field.Len())
	_, last := field.Final()
	assert.Equal(t, dynamo.State{0, 0, 0, 1}, last)
	tm, _ := field.At(1)
	assert.InDelta(t, 0.5, tm, 1e-12)
}

func TestSaveSnapshots(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	snaps := []swarm.Snapshot{
		{Time: 0, Dim: 2, Positions: []float64{0.1, 0.2}, Concentration: []float64{-1}},
		{Time: 0.1, Step: 100, Dim: 2, Positions: []float64{0.15, 0.3}, Concentration: []float64{-1}},
	}
	id, err := store.SaveSnapshots(RunMetadata{Model: "swarm", Seed: 3}, snaps)
	require.NoError(t, err)

	got, err := store.LoadSnapshots(id)
	require.NoError(t, err)
	assert.Equal(t, snaps, got)
}

func TestListOrdersByTimestamp(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := store.Save(RunMetadata{ID: "late", Model: "lotka", Timestamp: base.Add(time.Hour)}, sampleTrajectory())
	require.NoError(t, err)
	_, err = store.Save(RunMetadata{ID: "early", Model: "heater", Timestamp: base}, sampleTrajectory())
	require.NoError(t, err)

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "early", runs[0].ID)
	assert.Equal(t, "late", runs[1].ID)
}

func TestListMissingDir(t *testing.T) {
	store := New(t.TempDir() + "/absent")
	runs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Load("nope")
	assert.Error(t, err)
	_, err = store.LoadStates("nope")
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, RunMetadata{ID: "x", Model: "pendulum"}, sampleTrajectory()))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, 3, data.Steps)
	assert.Equal(t, "pendulum", data.Meta.Model)
	assert.Equal(t, []float64{0, 0.1, 0.2}, data.Times)
	assert.Equal(t, []float64{1, 0}, data.States[0])
}
