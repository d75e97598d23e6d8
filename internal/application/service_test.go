package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/QuickEst-app/QuickEst/internal/adapters/db/sqlite"
	"github.com/QuickEst-app/QuickEst/internal/bundle"
	"github.com/QuickEst-app/QuickEst/internal/domain"
	"github.com/QuickEst-app/QuickEst/internal/estimation"
)

func newTestService(t *testing.T) *ProjectService {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "quickest_test.db")

	db, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := sqlite.RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewProjectService(sqlite.NewProjectRepository(db))
}

func seedProject(t *testing.T, svc *ProjectService) domain.Project {
	t.Helper()
	ctx := context.Background()

	project, status, err := svc.CreateProject(ctx, "CRM", "Customer base")
	if err != nil || status != domain.Success {
		t.Fatalf("create project: %v %v", status, err)
	}
	if _, status, err := svc.AddActor(ctx, project.ID, "Admin", domain.Average, ""); err != nil || status != domain.Success {
		t.Fatalf("add actor: %v %v", status, err)
	}
	if _, status, err := svc.AddActor(ctx, project.ID, "Customer", domain.Simple, ""); err != nil || status != domain.Success {
		t.Fatalf("add actor: %v %v", status, err)
	}
	if _, status, err := svc.AddUseCase(ctx, project.ID, "Login", domain.Simple, 2, ""); err != nil || status != domain.Success {
		t.Fatalf("add use case: %v %v", status, err)
	}
	if _, status, err := svc.AddUseCase(ctx, project.ID, "Checkout", domain.Complex, 12, ""); err != nil || status != domain.Success {
		t.Fatalf("add use case: %v %v", status, err)
	}
	if status, err := svc.SetFactor(ctx, domain.Technical, project.ID, "T01", 3, 0, ""); err != nil || status != domain.Success {
		t.Fatalf("set technical factor: %v %v", status, err)
	}
	if status, err := svc.SetFactor(ctx, domain.Environmental, project.ID, "E6", 5, 0, ""); err != nil || status != domain.Success {
		t.Fatalf("set environmental factor: %v %v", status, err)
	}
	return project
}

func TestCodeGenerationSkipsGaps(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	project := seedProject(t, svc)

	actors, _ := svc.ListActors(ctx, project.ID)
	if actors[0].Code != "ACT-1" || actors[1].Code != "ACT-2" {
		t.Fatalf("unexpected actor codes: %+v", actors)
	}

	if _, status := svc.RemoveActors(ctx, project.ID, []string{"ACT-1"}); status != domain.Success {
		t.Fatalf("remove actor: %v", status)
	}
	actor, status, err := svc.AddActor(ctx, project.ID, "Operator", domain.Complex, "")
	if err != nil || status != domain.Success {
		t.Fatalf("add actor: %v %v", status, err)
	}
	if actor.Code != "ACT-3" {
		t.Fatalf("expected ACT-3 after removing ACT-1, got %s", actor.Code)
	}
}

func TestNextCodeReusesGapsOnlyWhenExhausted(t *testing.T) {
	if got := nextCode("ACT", []string{"ACT-1", "ACT-3"}, 200); got != "ACT-4" {
		t.Fatalf("expected ACT-4, got %s", got)
	}
	if got := nextCode("ACT", []string{"ACT-200"}, 200); got != "ACT-1" {
		t.Fatalf("expected lowest free suffix once numbering is exhausted, got %s", got)
	}
	if got := nextCode("ACT", []string{"ACT-199", "ACT-200", "ACT-1"}, 200); got != "ACT-2" {
		t.Fatalf("expected ACT-2, got %s", got)
	}
}

func TestEstimateMatchesIncrementalAggregates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	project := seedProject(t, svc)

	overview, status := svc.Estimate(ctx, project.ID)
	if status != domain.Success {
		t.Fatalf("estimate: %v", status)
	}

	// 1 simple + 1 average actor, 1 simple + 1 complex use case on default weights.
	if overview.Summary.UAW != 3.0 {
		t.Fatalf("UAW = %v, want 3.0", overview.Summary.UAW)
	}
	if overview.Summary.UUCW != 20.0 {
		t.Fatalf("UUCW = %v, want 20.0", overview.Summary.UUCW)
	}
	if overview.Summary.UUCP != 23.0 {
		t.Fatalf("UUCP = %v, want 23.0", overview.Summary.UUCP)
	}

	// T01 weight 2 influence 3, E6 weight 2 influence 5.
	if overview.Summary.TFactor != 6.0 {
		t.Fatalf("TFactor = %v, want 6.0", overview.Summary.TFactor)
	}
	if overview.Summary.EFactor != 10.0 {
		t.Fatalf("EFactor = %v, want 10.0", overview.Summary.EFactor)
	}
	if overview.Summary.TCF != 0.66 || overview.Summary.ECF != 1.1 {
		t.Fatalf("TCF/ECF = %v/%v, want 0.66/1.1", overview.Summary.TCF, overview.Summary.ECF)
	}

	wantUCP := estimation.Round4(23.0 * 1.1 * 0.66)
	if overview.Summary.UCP != wantUCP {
		t.Fatalf("UCP = %v, want %v", overview.Summary.UCP, wantUCP)
	}
	if overview.Summary.Effort != estimation.Round4(wantUCP*20.0) {
		t.Fatalf("Effort = %v, want %v", overview.Summary.Effort, estimation.Round4(wantUCP*20.0))
	}

	if overview.Actors.Total != 2 || overview.UseCases.Total != 2 {
		t.Fatalf("unexpected breakdown counts: %+v %+v", overview.Actors, overview.UseCases)
	}
	if overview.EFactors.Essential != 1 {
		t.Fatalf("expected one essential environmental factor, got %+v", overview.EFactors)
	}
}

func TestEstimateReactsToParameterChanges(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	project := seedProject(t, svc)

	before, _ := svc.Estimate(ctx, project.ID)

	if status, err := svc.SetCF(ctx, project.ID, 28.0); err != nil || status != domain.Success {
		t.Fatalf("set cf: %v %v", status, err)
	}
	if status, err := svc.SetActorWeights(ctx, project.ID, domain.WeightTriple{Simple: 2, Average: 3, Complex: 4}); err != nil || status != domain.Success {
		t.Fatalf("set actor weights: %v %v", status, err)
	}

	after, status := svc.Estimate(ctx, project.ID)
	if status != domain.Success {
		t.Fatalf("estimate: %v", status)
	}
	if after.Summary.UAW != 5.0 {
		t.Fatalf("UAW after reweight = %v, want 5.0", after.Summary.UAW)
	}
	if after.Summary.CF != 28.0 || after.Summary.Effort == before.Summary.Effort {
		t.Fatalf("effort should change with CF: before %v after %v", before.Summary.Effort, after.Summary.Effort)
	}

	if _, err := svc.SetCF(ctx, project.ID, 50.0); err == nil {
		t.Fatalf("expected CF out of range to be rejected")
	}
	if _, err := svc.SetPercentages(ctx, project.ID, domain.Percentages{Analysis: 50, Design: 20, Programming: 10, Testing: 10, Overloading: 10}); err == nil {
		t.Fatalf("expected low programming percentage to be rejected")
	}
}

func TestSetFactorRejectsOutOfRangeInfluence(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	project := seedProject(t, svc)

	if _, err := svc.SetFactor(ctx, domain.Technical, project.ID, "T02", 6, 0, ""); err == nil {
		t.Fatalf("expected influence 6 to be rejected")
	}
	if status, err := svc.SetFactor(ctx, domain.Technical, project.ID, "T99", 2, 0, ""); err != nil || status != domain.NotExist {
		t.Fatalf("expected NotExist for unknown code, got %v %v", status, err)
	}
}

func TestSetFactorWeightWithinRange(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	project := seedProject(t, svc)

	if status, err := svc.SetFactor(ctx, domain.Technical, project.ID, "T01", 3, 2.5, ""); err != nil || status != domain.Success {
		t.Fatalf("set weight: %v %v", status, err)
	}
	factors, status := svc.ListFactors(ctx, domain.Technical, project.ID)
	if status != domain.Success {
		t.Fatalf("list factors: %v", status)
	}
	if factors[0].Weight != 2.5 {
		t.Fatalf("expected T01 weight 2.5, got %v", factors[0].Weight)
	}

	// T01 allows [1,3]; 3.5 is outside it.
	if _, err := svc.SetFactor(ctx, domain.Technical, project.ID, "T01", 3, 3.5, ""); err == nil {
		t.Fatalf("expected out-of-range weight to be rejected")
	}
	// E7 runs negative; its default -1 must survive an influence-only update.
	if status, err := svc.SetFactor(ctx, domain.Environmental, project.ID, "E7", 2, 0, ""); err != nil || status != domain.Success {
		t.Fatalf("set E7 influence: %v %v", status, err)
	}
	envs, _ := svc.ListFactors(ctx, domain.Environmental, project.ID)
	for _, f := range envs {
		if f.Factor == "E7" && f.Weight != -1.0 {
			t.Fatalf("expected E7 weight kept at -1, got %v", f.Weight)
		}
	}
}

func TestExportImportRoundTripThroughService(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	project := seedProject(t, svc)

	dir := t.TempDir()
	manifestPath, status, err := svc.ExportProject(ctx, project.ID, dir)
	if err != nil || status != domain.Success {
		t.Fatalf("export: %v %v", status, err)
	}

	// A second import under the same name must be rejected.
	if _, status, err := svc.ImportProject(ctx, manifestPath); err != nil || status != domain.AlreadyExist {
		t.Fatalf("expected AlreadyExist, got %v %v", status, err)
	}

	if _, status := svc.DeleteProjects(ctx, []uint{project.ID}); status != domain.Success {
		t.Fatalf("delete project: %v", status)
	}

	imported, status, err := svc.ImportProject(ctx, manifestPath)
	if err != nil || status != domain.Success {
		t.Fatalf("import: %v %v", status, err)
	}

	overview, status := svc.Estimate(ctx, imported.ID)
	if status != domain.Success {
		t.Fatalf("estimate imported: %v", status)
	}
	if overview.Summary.UUCP != 23.0 || overview.Summary.TFactor != 6.0 {
		t.Fatalf("imported project lost state: %+v", overview.Summary)
	}
}

func TestImportRenamedManifest(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	project := seedProject(t, svc)

	dir := t.TempDir()
	manifestPath, status, err := svc.ExportProject(ctx, project.ID, dir)
	if err != nil || status != domain.Success {
		t.Fatalf("export: %v %v", status, err)
	}

	renamed := filepath.Join(dir, "CRM Copy.qckproj")
	if err := os.Rename(manifestPath, renamed); err != nil {
		t.Fatalf("rename manifest: %v", err)
	}

	imported, status, err := svc.ImportProject(ctx, renamed)
	if err != nil || status != domain.Success {
		t.Fatalf("import renamed: %v %v", status, err)
	}
	if imported.Name != "CRM Copy" {
		t.Fatalf("imported name = %q, want CRM Copy", imported.Name)
	}
}

func TestImportFromDirectoryUsesDirectoryName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	project := seedProject(t, svc)
	if status := svc.SetFavorite(ctx, project.ID, true); status != domain.Success {
		t.Fatalf("set favorite: %v", status)
	}

	dir := filepath.Join(t.TempDir(), "CRM Archive")
	if _, status, err := svc.ExportProject(ctx, project.ID, dir); err != nil || status != domain.Success {
		t.Fatalf("export: %v %v", status, err)
	}

	imported, status, err := svc.ImportProject(ctx, dir)
	if err != nil || status != domain.Success {
		t.Fatalf("import dir: %v %v", status, err)
	}
	if imported.Name != "CRM Archive" {
		t.Fatalf("imported name = %q, want CRM Archive", imported.Name)
	}
	if imported.Favorite {
		t.Fatalf("imported project must not keep the favorite flag")
	}
}

func TestImportRejectsInvalidParameters(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	data := domain.ProjectData{
		Project:              domain.Project{Name: "Tuned"},
		Parameters:           domain.DefaultParameters(0),
		TechnicalFactors:     domain.DefaultTechnicalFactors(0),
		EnvironmentalFactors: domain.DefaultEnvironmentalFactors(0),
	}
	data.Parameters.CF = 1000

	dir := filepath.Join(t.TempDir(), "Tuned")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifestPath, err := bundle.ExportProject(dir, data)
	if err != nil {
		t.Fatalf("export bundle: %v", err)
	}

	// The bundle is self-consistent, so only parameter validation can stop it.
	if _, status, err := svc.ImportProject(ctx, manifestPath); err == nil || status == domain.Success {
		t.Fatalf("expected out-of-range CF to be rejected, got %v %v", status, err)
	}
	projects, status := svc.ListProjects(ctx)
	if status != domain.Success {
		t.Fatalf("list projects: %v", status)
	}
	if len(projects) != 0 {
		t.Fatalf("rejected import must leave nothing behind, got %d projects", len(projects))
	}
}

func TestObserversFireOnMetricChanges(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	var calls []uint
	svc.Subscribe(func(projectID uint) {
		calls = append(calls, projectID)
	})

	project := seedProject(t, svc)
	seeded := len(calls) // 2 actors, 2 use cases, 2 factors
	if seeded != 6 {
		t.Fatalf("expected 6 notifications after seeding, got %d", seeded)
	}
	for _, id := range calls {
		if id != project.ID {
			t.Fatalf("notification for wrong project: %d", id)
		}
	}

	if status, err := svc.SetCF(ctx, project.ID, 25.0); err != nil || status != domain.Success {
		t.Fatalf("set cf: %v %v", status, err)
	}
	if len(calls) != seeded+1 {
		t.Fatalf("expected one more notification after SetCF, got %d", len(calls)-seeded)
	}

	// Rejected input must not notify.
	if _, err := svc.SetCF(ctx, project.ID, 50.0); err == nil {
		t.Fatalf("expected CF out of range to be rejected")
	}
	if len(calls) != seeded+1 {
		t.Fatalf("rejected mutation should not notify")
	}
}

func TestExportProjectsArchive(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	project := seedProject(t, svc)

	second, status, err := svc.CreateProject(ctx, "Portal", "")
	if err != nil || status != domain.Success {
		t.Fatalf("create second project: %v %v", status, err)
	}

	zipPath := filepath.Join(t.TempDir(), "projects.zip")
	if status, err := svc.ExportProjects(ctx, []uint{project.ID, second.ID}, zipPath); err != nil || status != domain.Success {
		t.Fatalf("export projects: %v %v", status, err)
	}

	if status, err := svc.ExportProjects(ctx, []uint{9999}, zipPath); err != nil || status != domain.NotExist {
		t.Fatalf("expected NotExist for missing project, got %v %v", status, err)
	}
}
