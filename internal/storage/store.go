package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/advection"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/swarm"
)

const (
	metadataFile  = "metadata.json"
	statesFile    = "states.csv"
	fieldFile     = "field.csv"
	snapshotsFile = "snapshots.json"
)

// Kinds of stored runs.
const (
	KindTrajectory = "trajectory"
	KindField      = "field"
	KindSwarm      = "swarm"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	Model      string             `json:"model"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator,omitempty"`
	Scheme     string             `json:"scheme,omitempty"`
	Params     map[string]float64 `json:"params,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Save writes a trajectory as states.csv with one row per sample.
func (s *Store) Save(meta RunMetadata, traj *dynamo.Trajectory) (string, error) {
	meta.Kind = KindTrajectory
	runDir, meta, err := s.newRun(meta)
	if err != nil {
		return "", err
	}

	header := []string{"time"}
	if traj.Len() > 0 {
		for i := range traj.States[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	rows := make([][]float64, traj.Len())
	for i := range rows {
		t, x := traj.At(i)
		rows[i] = append([]float64{t}, x...)
	}

	if err := writeCSV(filepath.Join(runDir, statesFile), header, rows); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// SaveField writes an advection history as field.csv, one row per time
// level with the time in the first column.
func (s *Store) SaveField(meta RunMetadata, hist *advection.History) (string, error) {
	meta.Kind = KindField
	meta.Scheme = string(hist.Scheme)
	meta.Dt = hist.Dt
	runDir, meta, err := s.newRun(meta)
	if err != nil {
		return "", err
	}

	header := []string{"time"}
	if hist.Len() > 0 {
		for i := range hist.Rows[0] {
			header = append(header, fmt.Sprintf("u%d", i))
		}
	}
	rows := make([][]float64, hist.Len())
	for n := range rows {
		rows[n] = append([]float64{hist.Time(n)}, hist.Snapshot(n)...)
	}

	if err := writeCSV(filepath.Join(runDir, fieldFile), header, rows); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// SaveSnapshots writes swarm snapshots as JSON.
func (s *Store) SaveSnapshots(meta RunMetadata, snaps []swarm.Snapshot) (string, error) {
	meta.Kind = KindSwarm
	runDir, meta, err := s.newRun(meta)
	if err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, snapshotsFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(snaps); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) newRun(meta RunMetadata) (string, RunMetadata, error) {
	now := time.Now()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Model, now.UnixNano())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", meta, err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", meta, err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", meta, err
	}
	return runDir, meta, nil
}

func writeCSV(path string, header []string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads back a trajectory saved by Save or a field saved by
// SaveField. The first column becomes the time axis.
func (s *Store) LoadStates(runID string) (*dynamo.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	name := statesFile
	if meta.Kind == KindField {
		name = fieldFile
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return dynamo.NewTrajectory(0), nil
	}

	traj := dynamo.NewTrajectory(len(records) - 1)
	for i, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
			}
			row[j] = v
		}
		traj.Append(row[0], row[1:])
	}
	return traj, nil
}

// LoadSnapshots reads back swarm snapshots saved by SaveSnapshots.
func (s *Store) LoadSnapshots(runID string) ([]swarm.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, snapshotsFile))
	if err != nil {
		return nil, err
	}
	var snaps []swarm.Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return snaps, nil
}

type ExportData struct {
	Meta   RunMetadata `json:"meta"`
	Steps  int         `json:"steps"`
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// ExportJSON writes the run and its trajectory as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, traj *dynamo.Trajectory) error {
	data := ExportData{
		Meta:   meta,
		Steps:  traj.Len(),
		Times:  traj.Times,
		States: make([][]float64, traj.Len()),
	}
	for i, x := range traj.States {
		data.States[i] = x
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
