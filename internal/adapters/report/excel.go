package report

import (
	"fmt"
	"time"

	"github.com/QuickEst-app/QuickEst/internal/application"
	"github.com/QuickEst-app/QuickEst/internal/domain"
	"github.com/xuri/excelize/v2"
)

// WriteWorkbook renders a project estimate into an .xlsx workbook: result and
// metric sheets, the effort distribution, then one sheet per entity table.
func WriteWorkbook(path string, data domain.ProjectData, overview application.Overview) error {
	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{f: f}
	if err := w.titleStyle(); err != nil {
		return err
	}

	if err := w.writeResults(overview); err != nil {
		return err
	}
	if err := w.writeMetrics(overview); err != nil {
		return err
	}
	if err := w.writeEffortDistribution(overview); err != nil {
		return err
	}
	if err := w.writeActors(data.Actors); err != nil {
		return err
	}
	if err := w.writeUseCases(data.UseCases); err != nil {
		return err
	}
	if err := w.writeFactors("Technical Factors", data.TechnicalFactors); err != nil {
		return err
	}
	if err := w.writeFactors("Environmental Factors", data.EnvironmentalFactors); err != nil {
		return err
	}

	f.DeleteSheet("Sheet1")
	return f.SaveAs(path)
}

type workbook struct {
	f     *excelize.File
	style int
}

func (w *workbook) titleStyle() error {
	style, err := w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}
	w.style = style
	return nil
}

func (w *workbook) newSheet(sheet string, widths map[string]float64) error {
	if _, err := w.f.NewSheet(sheet); err != nil {
		return err
	}
	for col, width := range widths {
		if err := w.f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) writeResults(overview application.Overview) error {
	const sheet = "Results"
	if err := w.newSheet(sheet, map[string]float64{"A": 28, "B": 40}); err != nil {
		return err
	}

	rows := [][]any{
		{"Project", overview.Project.Name},
		{"Description", overview.Project.Description},
		{"Report date", time.Now().Format("2006-01-02 15:04")},
		{},
		{"UCP", overview.Summary.UCP},
		{"CF (hours per UCP)", overview.Summary.CF},
		{"Effort (person-hours)", overview.Summary.Effort},
	}
	if err := w.writeRows(sheet, rows); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, "A1", "A7", w.style)
}

func (w *workbook) writeMetrics(overview application.Overview) error {
	const sheet = "Estimation Metrics"
	if err := w.newSheet(sheet, map[string]float64{"A": 24, "B": 14, "C": 14, "D": 14, "E": 14, "F": 14}); err != nil {
		return err
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"UAW", overview.Summary.UAW},
		{"UUCW", overview.Summary.UUCW},
		{"UUCP", overview.Summary.UUCP},
		{"TFactor", overview.Summary.TFactor},
		{"TCF", overview.Summary.TCF},
		{"EFactor", overview.Summary.EFactor},
		{"ECF", overview.Summary.ECF},
		{},
		{"Band", "Simple", "Average", "Complex", "Total", "Weighted"},
		{"Actors", overview.Actors.Simple, overview.Actors.Average, overview.Actors.Complex, overview.Actors.Total, overview.Actors.Weight},
		{"Use cases", overview.UseCases.Simple, overview.UseCases.Average, overview.UseCases.Complex, overview.UseCases.Total, overview.UseCases.Weight},
		{},
		{"Factors", "Irrelevant", "Medium", "Essential", "Factor total"},
		{"Technical", overview.TFactors.Irrelevant, overview.TFactors.Medium, overview.TFactors.Essential, overview.TFactors.Total},
		{"Environmental", overview.EFactors.Irrelevant, overview.EFactors.Medium, overview.EFactors.Essential, overview.EFactors.Total},
	}
	if err := w.writeRows(sheet, rows); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, "A1", "B1", w.style); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, "A10", "F10", w.style); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, "A14", "E14", w.style)
}

func (w *workbook) writeEffortDistribution(overview application.Overview) error {
	const sheet = "Effort Distribution"
	if err := w.newSheet(sheet, map[string]float64{"A": 20, "B": 16}); err != nil {
		return err
	}

	rows := [][]any{
		{"Phase", "Hours"},
		{"Analysis", overview.Phases.Analysis},
		{"Design", overview.Phases.Design},
		{"Programming", overview.Phases.Programming},
		{"Testing", overview.Phases.Testing},
		{"Overloading", overview.Phases.Overloading},
		{"Total", overview.Phases.Total()},
	}
	if err := w.writeRows(sheet, rows); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, "A1", "B1", w.style)
}

func (w *workbook) writeActors(actors []domain.Actor) error {
	const sheet = "Actors"
	if err := w.newSheet(sheet, map[string]float64{"A": 10, "B": 24, "C": 14, "D": 40}); err != nil {
		return err
	}

	rows := [][]any{{"Code", "Name", "Complexity", "Comment"}}
	for _, a := range actors {
		rows = append(rows, []any{a.Code, a.Name, string(a.Complexity), a.Comment})
	}
	if err := w.writeRows(sheet, rows); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, "A1", "D1", w.style)
}

func (w *workbook) writeUseCases(useCases []domain.UseCase) error {
	const sheet = "Use Cases"
	if err := w.newSheet(sheet, map[string]float64{"A": 10, "B": 24, "C": 14, "D": 14, "E": 40}); err != nil {
		return err
	}

	rows := [][]any{{"Code", "Name", "Complexity", "Transactions", "Comment"}}
	for _, u := range useCases {
		rows = append(rows, []any{u.Code, u.Name, string(u.Complexity), u.Transactions, u.Comment})
	}
	if err := w.writeRows(sheet, rows); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, "A1", "E1", w.style)
}

func (w *workbook) writeFactors(sheet string, factors []domain.Factor) error {
	if err := w.newSheet(sheet, map[string]float64{"A": 10, "B": 42, "C": 10, "D": 12, "E": 10, "F": 40}); err != nil {
		return err
	}

	rows := [][]any{{"Factor", "Description", "Weight", "Influence", "Result", "Comment"}}
	for _, factor := range factors {
		rows = append(rows, []any{
			factor.Factor,
			factor.Description,
			factor.Weight,
			factor.Influence,
			factor.Weight * float64(factor.Influence),
			factor.Comment,
		})
	}
	if err := w.writeRows(sheet, rows); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, "A1", "F1", w.style)
}

func (w *workbook) writeRows(sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
