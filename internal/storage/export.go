package storage

import (
	"encoding/json"
	"os"

	"github.com/san-kum/lorenzlab/internal/sim"
)

type ExportData struct {
	Meta         *RunMetadata  `json:"meta"`
	Times        []float64     `json:"times"`
	Trajectories [][][]float64 `json:"trajectories"`
}

// ExportJSON writes the run metadata and every trajectory to a single JSON
// file.
func ExportJSON(path string, meta *RunMetadata, set *sim.TrajectorySet) error {
	data := ExportData{
		Meta:         meta,
		Times:        set.Times,
		Trajectories: make([][][]float64, len(set.Trajectories)),
	}
	for i, tr := range set.Trajectories {
		data.Trajectories[i] = make([][]float64, len(tr.States))
		for k, s := range tr.States {
			data.Trajectories[i][k] = s
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return err
	}
	return f.Close()
}
