package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/kerr"
	"github.com/san-kum/kerrsim/internal/tracer"
)

const (
	metadataFile = "metadata.json"
	raysFile     = "rays.csv"
)

var raysHeader = []string{
	"step",
	"t", "x", "y", "z",
	"p0", "p1", "p2", "p3",
	"u0", "u1", "u2", "u3",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Run is a finished trace as handed to Save.
type Run struct {
	Name      string
	BlackHole kerr.BlackHole
	Origin    geom.Vec4
	Direction geom.Vec3
	Options   tracer.Options
	Rays      []tracer.Ray
	Escaped   bool
	Err       error
	Metrics   map[string]float64
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Timestamp     time.Time          `json:"timestamp"`
	A             float64            `json:"a"`
	Mass          float64            `json:"mass"`
	Charge        float64            `json:"charge"`
	Origin        [4]float64         `json:"origin"`
	Direction     [3]float64         `json:"direction"`
	Steps         int                `json:"steps"`
	StepScale     float64            `json:"step_scale"`
	MomentumScale float64            `json:"momentum_scale"`
	EscapeRadius  float64            `json:"escape_radius,omitempty"`
	Rays          int                `json:"rays"`
	Escaped       bool               `json:"escaped"`
	Error         string             `json:"error,omitempty"`
	Metrics       map[string]float64 `json:"metrics"`
}

func (m *RunMetadata) BlackHole() *kerr.BlackHole {
	return kerr.New(m.A, m.Mass, m.Charge)
}

// Save writes the run under a fresh id and returns it. Non-finite metric
// values are left out since JSON cannot represent them.
func (s *Store) Save(run *Run) (string, error) {
	name := run.Name
	if name == "" {
		name = "trace"
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid run name %q: must not contain path separators", name)
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Name:          name,
		Timestamp:     now,
		A:             run.BlackHole.A,
		Mass:          run.BlackHole.Mass,
		Charge:        run.BlackHole.Charge,
		Origin:        run.Origin,
		Direction:     run.Direction,
		Steps:         run.Options.Steps,
		StepScale:     run.Options.StepScale,
		MomentumScale: run.Options.MomentumScale,
		EscapeRadius:  run.Options.EscapeRadius,
		Rays:          len(run.Rays),
		Escaped:       run.Escaped,
		Metrics:       make(map[string]float64, len(run.Metrics)),
	}
	if run.Err != nil {
		meta.Error = run.Err.Error()
	}
	for k, v := range run.Metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		meta.Metrics[k] = v
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), &meta); err != nil {
		return "", err
	}
	if err := writeRays(filepath.Join(runDir, raysFile), run.Rays); err != nil {
		return "", err
	}
	return runID, nil
}

func writeMetadata(path string, meta *RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeRays(path string, rays []tracer.Ray) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(raysHeader); err != nil {
		return err
	}
	for i, r := range rays {
		row := make([]string, 0, len(raysHeader))
		row = append(row, strconv.Itoa(i))
		for _, v := range [3]geom.Vec4{r.X, r.P, r.U} {
			for _, c := range v {
				row = append(row, strconv.FormatFloat(c, 'g', -1, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the stored runs, oldest first. Directories without readable
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

func (s *Store) LoadRays(runID string) ([]tracer.Ray, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, raysFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(raysHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []tracer.Ray{}, nil
	}

	rays := make([]tracer.Ray, 0, len(records)-1)
	for line, record := range records[1:] {
		var vals [12]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s line %d: %w", runID, line+2, err)
			}
			vals[j] = v
		}
		rays = append(rays, tracer.Ray{
			X: geom.Vec4{vals[0], vals[1], vals[2], vals[3]},
			P: geom.Vec4{vals[4], vals[5], vals[6], vals[7]},
			U: geom.Vec4{vals[8], vals[9], vals[10], vals[11]},
		})
	}
	return rays, nil
}
