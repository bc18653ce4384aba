// Package storage persists finished headless runs so they can be
// listed and re-analyzed later. Each run gets its own directory holding
// a metadata file and the recorded history.
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
	"time"

	"github.com/san-kum/vizlab/internal/model"
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
	ID        string             `json:"id"`
	Sample    string             `json:"sample"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Preset    string             `json:"preset,omitempty"`
	Status    string             `json:"status"`
	Outputs   map[string]float64 `json:"outputs"`
}

// Save writes one run directory. Non-finite outputs are dropped from
// the metadata because JSON cannot carry them; the history keeps them.
func (s *Store) Save(meta RunMetadata, hist *model.History) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Sample, time.Now().Unix())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	for k, v := range meta.Outputs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			delete(meta.Outputs, k)
		}
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if hist == nil || hist.Len() == 0 {
		return meta.ID, nil
	}
	return meta.ID, s.saveHistory(runDir, hist)
}

func (s *Store) saveHistory(runDir string, hist *model.History) error {
	csvFile, err := os.Create(filepath.Join(runDir, "history.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	cols := hist.Cols()
	header := append([]string{"time"}, cols...)
	if err := w.Write(header); err != nil {
		return err
	}

	times := hist.Times()
	series := make([][]float64, len(cols))
	for i, col := range cols {
		series[i] = hist.Series(col)
	}
	for i := range times {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(times[i], 'f', 6, 64))
		for _, vals := range series {
			row = append(row, strconv.FormatFloat(vals[i], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// List returns every readable run, oldest first. Directories without a
// metadata file are skipped, not errors.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadHistory reads a run's recorded series back, keyed by column.
func (s *Store) LoadHistory(runID string) ([]float64, map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("run %s: empty history", runID)
	}

	header := records[0]
	if len(header) < 1 || header[0] != "time" {
		return nil, nil, fmt.Errorf("run %s: malformed history header", runID)
	}
	times := make([]float64, 0, len(records)-1)
	series := make(map[string][]float64, len(header)-1)
	for _, col := range header[1:] {
		series[col] = make([]float64, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for j, col := range header[1:] {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				v = math.NaN()
			}
			series[col] = append(series[col], v)
		}
	}
	return times, series, nil
}
