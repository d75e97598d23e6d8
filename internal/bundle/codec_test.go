package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/QuickEst-app/QuickEst/internal/domain"
)

func sampleData() domain.ProjectData {
	data := domain.ProjectData{
		Project:    domain.Project{Name: "CRM", Description: "Customer base", Favorite: true},
		Parameters: domain.DefaultParameters(0),
		Actors: []domain.Actor{
			{Code: "ACT-1", Name: "Admin", Complexity: domain.Average, Comment: "backoffice"},
			{Code: "ACT-2", Name: "Customer", Complexity: domain.Simple},
		},
		UseCases: []domain.UseCase{
			{Code: "UC-1", Name: "Login", Complexity: domain.Simple, Transactions: 2},
			{Code: "UC-2", Name: "Checkout", Complexity: domain.Complex, Transactions: 12, Comment: "payment flow"},
		},
		TechnicalFactors:     domain.DefaultTechnicalFactors(0),
		EnvironmentalFactors: domain.DefaultEnvironmentalFactors(0),
	}
	data.TechnicalFactors[0].Influence = 4
	data.EnvironmentalFactors[5].Influence = 5
	return data
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := sampleData()

	manifestPath, err := ExportProject(dir, data)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(manifestPath) != "CRM"+ManifestExtension {
		t.Fatalf("unexpected manifest name %q", manifestPath)
	}

	decoded, err := ImportProject(manifestPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if decoded.Project.Name != "CRM" || !decoded.Project.Favorite {
		t.Fatalf("unexpected project: %+v", decoded.Project)
	}
	if decoded.Parameters.CF != 20.0 || decoded.Parameters.UseCaseWeights.Complex != 15.0 {
		t.Fatalf("unexpected parameters: %+v", decoded.Parameters)
	}
	if len(decoded.Actors) != 2 || decoded.Actors[0].Comment != "backoffice" {
		t.Fatalf("unexpected actors: %+v", decoded.Actors)
	}
	if len(decoded.UseCases) != 2 || decoded.UseCases[1].Transactions != 12 {
		t.Fatalf("unexpected use cases: %+v", decoded.UseCases)
	}
	if len(decoded.TechnicalFactors) != 13 || decoded.TechnicalFactors[0].Influence != 4 {
		t.Fatalf("unexpected technical factors: %+v", decoded.TechnicalFactors[0])
	}
	if len(decoded.EnvironmentalFactors) != 8 || decoded.EnvironmentalFactors[5].Influence != 5 {
		t.Fatalf("unexpected environmental factors: %+v", decoded.EnvironmentalFactors[5])
	}
}

func TestImportDetectsTampering(t *testing.T) {
	dir := t.TempDir()
	manifestPath, err := ExportProject(dir, sampleData())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	actorFile := filepath.Join(dir, "actors.qck")
	raw, err := os.ReadFile(actorFile)
	if err != nil {
		t.Fatalf("read actors file: %v", err)
	}
	raw[len(raw)-1] ^= 0xFF
	if err := os.WriteFile(actorFile, raw, 0o644); err != nil {
		t.Fatalf("write tampered file: %v", err)
	}

	if _, err := ImportProject(manifestPath); !errors.Is(err, ErrHashMismatch) {
		t.Fatalf("expected hash mismatch, got %v", err)
	}
}

func TestArchiveDirectoryReportsWriteFailure(t *testing.T) {
	srcDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcDir, "project.qck"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	zipPath := filepath.Join(t.TempDir(), "missing", "projects.zip")
	if err := ArchiveDirectory(zipPath, srcDir); err == nil {
		t.Fatal("expected error for unwritable archive path")
	}
}

func TestFindManifest(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindManifest(dir); !errors.Is(err, ErrManifestMissing) {
		t.Fatalf("expected ErrManifestMissing, got %v", err)
	}

	manifestPath, err := ExportProject(dir, sampleData())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	found, err := FindManifest(dir)
	if err != nil {
		t.Fatalf("find manifest: %v", err)
	}
	if found != manifestPath {
		t.Fatalf("expected %q, got %q", manifestPath, found)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	projectDir := filepath.Join(srcDir, "CRM")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := ExportProject(projectDir, sampleData()); err != nil {
		t.Fatalf("export: %v", err)
	}

	zipPath := filepath.Join(t.TempDir(), "projects.zip")
	if err := ArchiveDirectory(zipPath, srcDir); err != nil {
		t.Fatalf("archive: %v", err)
	}

	destDir := t.TempDir()
	if err := ExtractArchive(zipPath, destDir); err != nil {
		t.Fatalf("extract: %v", err)
	}

	manifestPath, err := FindManifest(filepath.Join(destDir, "CRM"))
	if err != nil {
		t.Fatalf("find manifest in extracted dir: %v", err)
	}
	decoded, err := ImportProject(manifestPath)
	if err != nil {
		t.Fatalf("import extracted: %v", err)
	}
	if decoded.Project.Name != "CRM" {
		t.Fatalf("unexpected project: %+v", decoded.Project)
	}
}
