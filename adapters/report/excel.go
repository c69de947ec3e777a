// Package report exports battery run results to spreadsheet files.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gonist/app"
)

// ExcelWriter exports run reports as xlsx workbooks, one row per test.
type ExcelWriter struct {
	filePath string
}

// NewExcelWriter creates a writer targeting the given file path.
func NewExcelWriter(filePath string) *ExcelWriter {
	return &ExcelWriter{filePath: filePath}
}

var reportHeaders = []string{
	"test", "status", "statistic", "mean_score", "min_score", "scores", "cache_hit", "elapsed_ms", "reason",
}

// Write saves the report. A summary sheet carries the run metadata and a
// results sheet carries one row per test in battery order.
func (w *ExcelWriter) Write(report *app.RunReport) error {
	f := excelize.NewFile()

	sheet := "Results"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create results sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, result := range report.Results {
		minScore := 0.0
		if len(result.Scores) > 0 {
			minScore = result.Scores[0]
			for _, score := range result.Scores[1:] {
				if score < minScore {
					minScore = score
				}
			}
		}
		row := []interface{}{
			result.Name,
			string(result.Status),
			result.Statistic,
			result.Score(),
			minScore,
			joinScores(result.Scores),
			result.CacheHit,
			float64(result.Elapsed.Microseconds()) / 1e3,
			result.Reason,
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := w.writeSummary(f, report); err != nil {
		return err
	}

	if err := f.SaveAs(w.filePath); err != nil {
		return fmt.Errorf("failed to save report to %s: %w", w.filePath, err)
	}
	return nil
}

func (w *ExcelWriter) writeSummary(f *excelize.File, report *app.RunReport) error {
	sheet := "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"run_id", report.RunID},
		{"sequence_fingerprint", report.SequenceFingerprint},
		{"sequence_length", report.SequenceLength},
		{"significance", report.Significance},
		{"eligible", report.Summary.Eligible},
		{"passed", report.Summary.Passed},
		{"failed", report.Summary.Failed},
		{"ineligible", report.Summary.Ineligible},
		{"pass_rate", report.Summary.PassRate},
		{"mean_score", report.Summary.MeanScore},
		{"min_score", report.Summary.MinScore},
		{"elapsed_ms", float64(report.Elapsed.Microseconds()) / 1e3},
		{"created_at", report.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, score := range scores {
		parts[i] = strconv.FormatFloat(score, 'f', 6, 64)
	}
	return strings.Join(parts, ", ")
}
