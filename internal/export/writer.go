// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tomtom215/coursepair/internal/logging"
	"github.com/tomtom215/coursepair/internal/metrics"
)

// Output file names.
const (
	FilePairStats            = "course_pair_statistics.csv"
	FileQualityMetrics       = "course_quality_metrics.csv"
	FileFinalRecommendations = "final_course_recommendations.csv"
	FileLTV                  = "ltv_analysis_results.csv"
	FileABTest               = "ab_test_results.csv"
	FileSummaryJSON          = "summary.json"
	FileSummaryReport        = "summary_report.txt"
)

// RecommendationsFile names the full recommendation table for one min
// quality.
func RecommendationsFile(minQuality float64) string {
	return "course_recommendations_q" + metrics.QualityLabel(minQuality) + ".csv"
}

// Writer writes export files into one directory.
type Writer struct {
	dir string
}

// New creates dir if needed and returns a Writer for it.
func New(dir string) (*Writer, error) {
	if dir == "" {
		return nil, errors.New("output directory is required")
	}
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the full path of an output file.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// writeFile writes name atomically through fill and returns its path.
func (w *Writer) writeFile(name string, fill func(io.Writer) error) (path string, err error) {
	path = w.Path(name)

	tmp, err := os.CreateTemp(w.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			if rmErr := os.Remove(tmp.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				logging.Warn().Err(rmErr).Str("file", tmp.Name()).Msg("failed to remove temporary export file")
			}
		}
	}()

	if err = fill(tmp); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	//nolint:gosec // G302: export files are meant to be shared with analysts
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", name, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return path, nil
}

// writeCSV writes a header plus rows and records the row count.
func (w *Writer) writeCSV(name string, header []string, rows [][]string) (string, error) {
	path, err := w.writeFile(name, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	})
	if err != nil {
		return "", err
	}

	metrics.RecordExport(name, len(rows))
	logging.Debug().Str("file", path).Int("rows", len(rows)).Msg("export written")
	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func formatInt[T ~int | ~int64](v T) string {
	return strconv.FormatInt(int64(v), 10)
}
