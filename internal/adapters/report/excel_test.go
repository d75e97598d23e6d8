package report

import (
	"path/filepath"
	"testing"

	"github.com/QuickEst-app/QuickEst/internal/application"
	"github.com/QuickEst-app/QuickEst/internal/domain"
	"github.com/QuickEst-app/QuickEst/internal/estimation"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	project := domain.Project{ID: 1, Name: "CRM", Description: "Customer base"}
	params := domain.DefaultParameters(project.ID)
	data := domain.ProjectData{
		Project:    project,
		Parameters: params,
		Actors: []domain.Actor{
			{Code: "ACT-1", Name: "Admin", Complexity: domain.Average, ProjectID: project.ID},
		},
		UseCases: []domain.UseCase{
			{Code: "UC-1", Name: "Login", Complexity: domain.Simple, Transactions: 2, ProjectID: project.ID},
		},
		TechnicalFactors:     domain.DefaultTechnicalFactors(project.ID),
		EnvironmentalFactors: domain.DefaultEnvironmentalFactors(project.ID),
	}

	overview := application.Overview{
		Project: project,
		Summary: estimation.Summarize(2, 5, 0, 0, params),
		Phases:  estimation.DistributeEffort(140, domain.Percentages{Analysis: 10, Design: 20, Programming: 40, Testing: 15, Overloading: 15}),
	}

	path := filepath.Join(t.TempDir(), "crm.xlsx")
	if err := WriteWorkbook(path, data, overview); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	want := []string{"Results", "Estimation Metrics", "Effort Distribution", "Actors", "Use Cases", "Technical Factors", "Environmental Factors"}
	sheets := f.GetSheetList()
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}

	name, err := f.GetCellValue("Results", "B1")
	if err != nil || name != "CRM" {
		t.Fatalf("Results!B1 = %q (%v), want CRM", name, err)
	}
	code, err := f.GetCellValue("Actors", "A2")
	if err != nil || code != "ACT-1" {
		t.Fatalf("Actors!A2 = %q (%v), want ACT-1", code, err)
	}
}
