package adapter

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/optilabel/internal/model"
)

const (
	reportExt     = ".yaml"
	indexFileName = "_index.yaml"
)

// ReportStore persists labeling results as YAML reports.
type ReportStore interface {
	SaveReport(dir m.Path, result m.LabelingResult) (m.Path, error)
	LoadReports(dir m.Path) ([]m.LabelingResult, error)
	RegenerateIndex(dir m.Path) error
}

// LocalReportStore writes one YAML file per result, named by a content hash.
type LocalReportStore struct {
	fs TextFSAdapter
}

// NewReportStore constructs a ReportStore backed by fs.
func NewReportStore(fs TextFSAdapter) *LocalReportStore {
	return &LocalReportStore{fs: fs}
}

type indexEntry struct {
	Reports               int      `yaml:"reports"`
	WithReference         int      `yaml:"with_reference"`
	MeanMatchPercentage   float64  `yaml:"mean_match_percentage"`
	LowestMatchPercentage float64  `yaml:"lowest_match_percentage"`
	Files                 []string `yaml:"files"`
}

// SaveReport writes result under dir and returns the file path.
func (rs *LocalReportStore) SaveReport(dir m.Path, result m.LabelingResult) (m.Path, error) {
	if err := rs.fs.MkdirAll(dir); err != nil {
		return "", fmt.Errorf("failed to create reports dir: %w", err)
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	path := rs.fs.JoinPath(string(dir), rs.computeReportHash(data)+reportExt)
	if err := rs.fs.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// LoadReports decodes every report in dir, skipping the index.
func (rs *LocalReportStore) LoadReports(dir m.Path) ([]m.LabelingResult, error) {
	files, err := rs.reportFiles(dir)
	if err != nil {
		return nil, err
	}

	results := make([]m.LabelingResult, 0, len(files))

	for _, file := range files {
		data, err := rs.fs.ReadFile(file)
		if err != nil {
			return nil, &FileLoadError{Path: file, Err: err}
		}

		var result m.LabelingResult
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to decode report %s: %w", file, err)
		}

		results = append(results, result)
	}

	return results, nil
}

// RegenerateIndex writes _index.yaml summarizing the reports in dir.
func (rs *LocalReportStore) RegenerateIndex(dir m.Path) error {
	files, err := rs.reportFiles(dir)
	if err != nil {
		return err
	}

	results, err := rs.LoadReports(dir)
	if err != nil {
		return err
	}

	idx := indexEntry{Reports: len(results), Files: make([]string, 0, len(files))}
	for _, file := range files {
		idx.Files = append(idx.Files, filepath.Base(string(file)))
	}

	sum := 0.0

	for _, result := range results {
		if !result.HasReference {
			continue
		}

		idx.WithReference++
		sum += result.Accuracy.MatchPercentage

		if idx.WithReference == 1 || result.Accuracy.MatchPercentage < idx.LowestMatchPercentage {
			idx.LowestMatchPercentage = result.Accuracy.MatchPercentage
		}
	}

	if idx.WithReference > 0 {
		idx.MeanMatchPercentage = sum / float64(idx.WithReference)
	}

	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	return rs.fs.WriteFile(rs.fs.JoinPath(string(dir), indexFileName), data, 0o600)
}

func (rs *LocalReportStore) reportFiles(dir m.Path) ([]m.Path, error) {
	entries, err := rs.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports in %s: %w", dir, err)
	}

	files := make([]m.Path, 0, len(entries))

	for _, entry := range entries {
		name := filepath.Base(string(entry))
		if name == indexFileName || !strings.HasSuffix(name, reportExt) {
			continue
		}

		files = append(files, entry)
	}

	return files, nil
}

// computeReportHash returns the first 16 hex characters of the content hash.
func (rs *LocalReportStore) computeReportHash(data []byte) string {
	return rs.fs.HashBytes(data)[:16]
}
