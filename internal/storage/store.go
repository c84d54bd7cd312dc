package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/physics"
	"github.com/san-kum/lorenzlab/internal/render"
	"github.com/san-kum/lorenzlab/internal/sim"
)

const (
	metadataFile     = "metadata.json"
	trajectoriesFile = "trajectories.csv"
)

// ErrRunNotFound is returned for an unknown run ID.
var ErrRunNotFound = errors.New("storage: run not found")

// Store archives runs under baseDir, one directory per run.
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
	ID           string                `json:"id"`
	Timestamp    time.Time             `json:"timestamp"`
	Params       physics.Params        `json:"params"`
	Grid         sim.TimeGrid          `json:"grid"`
	Seed         int64                 `json:"seed"`
	Integrator   string                `json:"integrator"`
	View         render.ViewParameters `json:"view"`
	Trajectories int                   `json:"trajectories"`
	Stats        dynamo.Stats          `json:"stats"`
	Means        []render.Mean         `json:"means"`
}

func newRunID(now time.Time) string {
	return fmt.Sprintf("%s_%s", now.Format("20060102-150405"), uuid.NewString()[:8])
}

// Save writes metadata.json and trajectories.csv for set and returns the
// stored metadata.
func (s *Store) Save(set *sim.TrajectorySet, seed int64, view render.ViewParameters) (*RunMetadata, error) {
	means, err := render.Summarize(set)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	meta := &RunMetadata{
		ID:           newRunID(now),
		Timestamp:    now,
		Params:       set.Params,
		Grid:         set.Grid,
		Seed:         seed,
		Integrator:   set.Integrator,
		View:         view,
		Trajectories: set.Len(),
		Stats:        set.Stats(),
		Means:        means,
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	if err := writeTrajectories(filepath.Join(runDir, trajectoriesFile), set); err != nil {
		return nil, fmt.Errorf("write trajectories: %w", err)
	}
	return meta, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeTrajectories(path string, set *sim.TrajectorySet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, set); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes one row per (trajectory, sample): traj,time,x,y,z.
func WriteCSV(w io.Writer, set *sim.TrajectorySet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"traj", "time", "x", "y", "z"}); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i, tr := range set.Trajectories {
		idx := strconv.Itoa(i)
		for k, st := range tr.States {
			row := []string{idx, format(set.Times[k]), format(st[0]), format(st[1]), format(st[2])}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns archived runs, oldest first. Directories without readable
// metadata are skipped.
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectories rebuilds the archived TrajectorySet of a run.
func (s *Store) LoadTrajectories(runID string) (*sim.TrajectorySet, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoriesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read trajectories of %s: %w", runID, err)
	}
	set.Params = meta.Params
	set.Grid = meta.Grid
	set.Integrator = meta.Integrator
	return set, nil
}

// ReadCSV parses the format written by WriteCSV. Parameters and grid are
// left for the caller to fill in.
func ReadCSV(r io.Reader) (*sim.TrajectorySet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	set := &sim.TrajectorySet{}
	if len(records) < 2 {
		return set, nil
	}

	for line, rec := range records[1:] {
		vals := make([]float64, 5)
		for j, field := range rec {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", line+2, err)
			}
		}
		idx := int(vals[0])
		switch {
		case idx == len(set.Trajectories):
			set.Trajectories = append(set.Trajectories, sim.Trajectory{
				Initial: sim.InitialCondition{vals[2], vals[3], vals[4]},
			})
		case idx != len(set.Trajectories)-1:
			return nil, fmt.Errorf("line %d: trajectory %d out of order", line+2, idx)
		}
		if idx == 0 {
			set.Times = append(set.Times, vals[1])
		}
		tr := &set.Trajectories[idx]
		tr.States = append(tr.States, dynamo.State{vals[2], vals[3], vals[4]})
	}
	return set, nil
}
