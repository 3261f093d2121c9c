package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/experiment"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
)

func runDefault(t *testing.T) (*config.Config, *sim.Result) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Steps = 20
	exp, err := experiment.New(cfg, nil)
	require.NoError(t, err)
	result, err := exp.Run()
	require.NoError(t, err)
	return cfg, result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg, result := runDefault(t)

	runID, err := st.Save(RunMetadata{
		Preset: "default",
		Links:  cfg.Links,
		Steps:  cfg.Steps,
		Dt:     cfg.Dt,
		Gains:  cfg.JointGains(),
	}, result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "run_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "default", meta.Preset)
	assert.Equal(t, kinematics.DefaultLinks, meta.Links)
	assert.Equal(t, result.Target, meta.Target)
	assert.Equal(t, 20, meta.StepsTaken)
	assert.Len(t, meta.Gains, 3)
	assert.InDelta(t, result.Metrics["tracking_rms"], meta.Metrics["tracking_rms"], 1e-12)

	traj, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	if diff := cmp.Diff(result.Trajectory, traj, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("trajectory mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	_, result := runDefault(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	second, err := st.Save(RunMetadata{Timestamp: base.Add(time.Minute)}, result)
	require.NoError(t, err)
	first, err := st.Save(RunMetadata{Timestamp: base}, result)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "unrelated"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "run_broken"), 0755))

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("run_nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.LoadTrajectory("run_nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStoreDropsNonFiniteMetrics(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg := config.DefaultConfig()
	cfg.Steps = 0
	exp, err := experiment.New(cfg, nil)
	require.NoError(t, err)
	result, err := exp.Run()
	require.NoError(t, err)

	runID, err := st.Save(RunMetadata{}, result)
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.NotContains(t, meta.Metrics, "position_error")
	assert.Equal(t, -1.0, meta.Metrics["settling_step"])

	traj, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	assert.Empty(t, traj)
}

func TestTrajectoryCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	traj := sim.Trajectory{{
		Step:        0,
		Time:        0.05,
		Angles:      kinematics.Angles{0.1, 0.2, 0},
		EndEffector: kinematics.Point{X: 2.3, Y: 0.4},
	}}
	require.NoError(t, WriteTrajectoryCSV(&buf, traj))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "step,time,theta1,theta2,theta3,x,y", lines[0])
	assert.Equal(t, "0,0.050000,0.100000,0.200000,0.000000,2.300000,0.400000", lines[1])
}

func TestReadTrajectoryCSVRejectsGarbage(t *testing.T) {
	_, err := ReadTrajectoryCSV(strings.NewReader("step,time,theta1,theta2,theta3,x,y\n0,abc,0,0,0,0,0\n"))
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, result := runDefault(t)

	err := writeFile(path, func(w io.Writer) error {
		return WriteTrajectoryCSV(w, result.Trajectory)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, len(result.Trajectory)+1, strings.Count(string(data), "\n"))

	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full on this system")
	}
	err = writeFile("/dev/full", func(w io.Writer) error {
		return WriteTrajectoryCSV(w, result.Trajectory)
	})
	assert.Error(t, err)
}

func TestSaveReportsUnwritableRunDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(base, nil, 0644))
	_, result := runDefault(t)

	st := New(base)
	_, err := st.Save(RunMetadata{}, result)
	assert.Error(t, err)
}
