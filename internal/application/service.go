package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/QuickEst-app/QuickEst/internal/bundle"
	"github.com/QuickEst-app/QuickEst/internal/domain"
	"github.com/QuickEst-app/QuickEst/internal/estimation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MetricsObserver is called after any committed mutation that changes a
// project's derived estimate.
type MetricsObserver func(projectID uint)

type ProjectService struct {
	repo      domain.ProjectRepository
	log       *zap.Logger
	observers []MetricsObserver
}

func NewProjectService(repo domain.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo, log: zap.NewNop()}
}

func (s *ProjectService) UseLogger(log *zap.Logger) {
	s.log = log
}

// Subscribe registers an observer for metric changes. Not safe to call once
// the service is serving requests.
func (s *ProjectService) Subscribe(obs MetricsObserver) {
	s.observers = append(s.observers, obs)
}

func (s *ProjectService) notifyMetrics(projectID uint) {
	for _, obs := range s.observers {
		obs(projectID)
	}
}

type Overview struct {
	Project  domain.Project         `json:"project"`
	Summary  estimation.Summary     `json:"summary"`
	Actors   BandBreakdown          `json:"actors"`
	UseCases BandBreakdown          `json:"use_cases"`
	TFactors InfluenceBreakdown     `json:"technical_factors"`
	EFactors InfluenceBreakdown     `json:"environmental_factors"`
	Phases   estimation.PhaseEffort `json:"phases"`
}

type BandBreakdown struct {
	Simple  int     `json:"simple"`
	Average int     `json:"average"`
	Complex int     `json:"complex"`
	Total   int     `json:"total"`
	Weight  float64 `json:"weighted_total"`
}

type InfluenceBreakdown struct {
	Irrelevant int     `json:"irrelevant"`
	Medium     int     `json:"medium"`
	Essential  int     `json:"essential"`
	Total      float64 `json:"factor_total"`
}

func (s *ProjectService) CreateProject(ctx context.Context, name, description string) (domain.Project, domain.Status, error) {
	project := domain.Project{Name: strings.TrimSpace(name), Description: description}
	if err := project.Validate(); err != nil {
		return domain.Project{}, domain.Failure, err
	}
	created, status := s.repo.CreateProject(ctx, project)
	return created, status, nil
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]domain.Project, domain.Status) {
	return s.repo.ListProjects(ctx)
}

func (s *ProjectService) GetProject(ctx context.Context, projectID uint) (domain.Project, domain.Status) {
	return s.repo.GetProjectByID(ctx, projectID)
}

func (s *ProjectService) UpdateProject(ctx context.Context, projectID uint, name, description string) (domain.Status, error) {
	project := domain.Project{Name: strings.TrimSpace(name), Description: description}
	if err := project.Validate(); err != nil {
		return domain.Failure, err
	}
	return s.repo.UpdateProject(ctx, projectID, project.Name, project.Description), nil
}

func (s *ProjectService) SetFavorite(ctx context.Context, projectID uint, favorite bool) domain.Status {
	return s.repo.UpdateProjectFavorite(ctx, projectID, favorite)
}

// DeleteProjects removes every project that exists and reports the IDs
// that did not, so a batch with stale entries still clears the rest.
func (s *ProjectService) DeleteProjects(ctx context.Context, projectIDs []uint) ([]uint, domain.Status) {
	missing, status := s.repo.DeleteProjects(ctx, projectIDs)
	if status == domain.Success || status == domain.NotExist {
		gone := make(map[uint]bool, len(missing))
		for _, id := range missing {
			gone[id] = true
		}
		for _, projectID := range projectIDs {
			if !gone[projectID] {
				s.notifyMetrics(projectID)
			}
		}
	}
	return missing, status
}

// OpenProject refreshes the last-access timestamp and loads the full state.
func (s *ProjectService) OpenProject(ctx context.Context, projectID uint) (domain.ProjectData, domain.Status) {
	return s.repo.OpenProject(ctx, projectID)
}

func (s *ProjectService) GetParameters(ctx context.Context, projectID uint) (domain.Parameters, domain.Status) {
	return s.repo.GetParameters(ctx, projectID)
}

func (s *ProjectService) SetCF(ctx context.Context, projectID uint, cf float64) (domain.Status, error) {
	if err := domain.ValidateCF(cf); err != nil {
		return domain.Failure, err
	}
	status := s.repo.UpdateCF(ctx, projectID, cf)
	if status == domain.Success {
		s.notifyMetrics(projectID)
	}
	return status, nil
}

func (s *ProjectService) SetPercentages(ctx context.Context, projectID uint, p domain.Percentages) (domain.Status, error) {
	if err := p.Validate(); err != nil {
		return domain.Failure, err
	}
	status := s.repo.UpdatePercentages(ctx, projectID, p)
	if status == domain.Success {
		s.notifyMetrics(projectID)
	}
	return status, nil
}

func (s *ProjectService) SetActorWeights(ctx context.Context, projectID uint, w domain.WeightTriple) (domain.Status, error) {
	if err := domain.ValidateActorWeights(w); err != nil {
		return domain.Failure, err
	}
	status := s.repo.UpdateActorWeights(ctx, projectID, w)
	if status == domain.Success {
		s.notifyMetrics(projectID)
	}
	return status, nil
}

func (s *ProjectService) SetUseCaseWeights(ctx context.Context, projectID uint, w domain.WeightTriple) (domain.Status, error) {
	if err := domain.ValidateUseCaseWeights(w); err != nil {
		return domain.Failure, err
	}
	status := s.repo.UpdateUseCaseWeights(ctx, projectID, w)
	if status == domain.Success {
		s.notifyMetrics(projectID)
	}
	return status, nil
}

func (s *ProjectService) AddActor(ctx context.Context, projectID uint, name string, complexity domain.Complexity, comment string) (domain.Actor, domain.Status, error) {
	actors, status := s.repo.ListActors(ctx, projectID)
	if status != domain.Success {
		return domain.Actor{}, status, nil
	}
	if len(actors) >= domain.ActorLimit {
		return domain.Actor{}, domain.Failure, fmt.Errorf("project cannot hold more than %d actors", domain.ActorLimit)
	}

	actor := domain.Actor{
		Code:       nextCode("ACT", actorCodes(actors), domain.ActorLimit),
		Name:       strings.TrimSpace(name),
		Complexity: complexity,
		Comment:    comment,
		ProjectID:  projectID,
	}
	if err := actor.Validate(); err != nil {
		return domain.Actor{}, domain.Failure, err
	}
	created, status := s.repo.CreateActor(ctx, actor)
	if status == domain.Success {
		s.notifyMetrics(projectID)
	}
	return created, status, nil
}

func (s *ProjectService) ListActors(ctx context.Context, projectID uint) ([]domain.Actor, domain.Status) {
	return s.repo.ListActors(ctx, projectID)
}

func (s *ProjectService) UpdateActor(ctx context.Context, actor domain.Actor) (domain.Status, error) {
	actor.Name = strings.TrimSpace(actor.Name)
	if err := actor.Validate(); err != nil {
		return domain.Failure, err
	}
	status := s.repo.UpdateActor(ctx, actor)
	if status == domain.Success {
		s.notifyMetrics(actor.ProjectID)
	}
	return status, nil
}

func (s *ProjectService) RemoveActors(ctx context.Context, projectID uint, codes []string) ([]string, domain.Status) {
	missing, status := s.repo.DeleteActors(ctx, projectID, codes)
	if len(missing) < len(codes) && (status == domain.Success || status == domain.NotExist) {
		s.notifyMetrics(projectID)
	}
	return missing, status
}

func (s *ProjectService) AddUseCase(ctx context.Context, projectID uint, name string, complexity domain.Complexity, transactions int, comment string) (domain.UseCase, domain.Status, error) {
	useCases, status := s.repo.ListUseCases(ctx, projectID)
	if status != domain.Success {
		return domain.UseCase{}, status, nil
	}
	if len(useCases) >= domain.UseCaseLimit {
		return domain.UseCase{}, domain.Failure, fmt.Errorf("project cannot hold more than %d use cases", domain.UseCaseLimit)
	}

	useCase := domain.UseCase{
		Code:         nextCode("UC", useCaseCodes(useCases), domain.UseCaseLimit),
		Name:         strings.TrimSpace(name),
		Complexity:   complexity,
		Transactions: transactions,
		Comment:      comment,
		ProjectID:    projectID,
	}
	if err := useCase.Validate(); err != nil {
		return domain.UseCase{}, domain.Failure, err
	}
	created, status := s.repo.CreateUseCase(ctx, useCase)
	if status == domain.Success {
		s.notifyMetrics(projectID)
	}
	return created, status, nil
}

func (s *ProjectService) ListUseCases(ctx context.Context, projectID uint) ([]domain.UseCase, domain.Status) {
	return s.repo.ListUseCases(ctx, projectID)
}

func (s *ProjectService) UpdateUseCase(ctx context.Context, useCase domain.UseCase) (domain.Status, error) {
	useCase.Name = strings.TrimSpace(useCase.Name)
	if err := useCase.Validate(); err != nil {
		return domain.Failure, err
	}
	status := s.repo.UpdateUseCase(ctx, useCase)
	if status == domain.Success {
		s.notifyMetrics(useCase.ProjectID)
	}
	return status, nil
}

func (s *ProjectService) RemoveUseCases(ctx context.Context, projectID uint, codes []string) ([]string, domain.Status) {
	missing, status := s.repo.DeleteUseCases(ctx, projectID, codes)
	if len(missing) < len(codes) && (status == domain.Success || status == domain.NotExist) {
		s.notifyMetrics(projectID)
	}
	return missing, status
}

func (s *ProjectService) ListFactors(ctx context.Context, kind domain.FactorKind, projectID uint) ([]domain.Factor, domain.Status) {
	return s.repo.ListFactors(ctx, kind, projectID)
}

// SetFactor updates one factor's influence, weight and comment. A zero
// weight keeps the stored one; every editable range excludes zero.
func (s *ProjectService) SetFactor(ctx context.Context, kind domain.FactorKind, projectID uint, code string, influence int, weight float64, comment string) (domain.Status, error) {
	factors, status := s.repo.ListFactors(ctx, kind, projectID)
	if status != domain.Success {
		return status, nil
	}
	var current *domain.Factor
	for i := range factors {
		if factors[i].Factor == code {
			current = &factors[i]
			break
		}
	}
	if current == nil {
		return domain.NotExist, nil
	}

	updated := *current
	updated.Influence = influence
	updated.Comment = comment
	if weight != 0 {
		updated.Weight = weight
	}
	if err := updated.Validate(kind); err != nil {
		return domain.Failure, err
	}
	status = s.repo.UpdateFactor(ctx, kind, updated)
	if status == domain.Success {
		s.notifyMetrics(projectID)
	}
	return status, nil
}

// Estimate recomputes the full summary from persisted state.
func (s *ProjectService) Estimate(ctx context.Context, projectID uint) (Overview, domain.Status) {
	data, status := s.repo.LoadProjectData(ctx, projectID)
	if status != domain.Success {
		return Overview{}, status
	}
	return overviewFrom(data), domain.Success
}

func overviewFrom(data domain.ProjectData) Overview {
	actorAgg := estimation.ReplayActors(data.Actors, data.Parameters.ActorWeights)
	useCaseAgg := estimation.ReplayUseCases(data.UseCases, data.Parameters.UseCaseWeights)
	tAgg := estimation.ReplayFactors(data.TechnicalFactors)
	eAgg := estimation.ReplayFactors(data.EnvironmentalFactors)

	summary := estimation.Summarize(actorAgg.Total(), useCaseAgg.Total(), tAgg.Total(), eAgg.Total(), data.Parameters)

	return Overview{
		Project:  data.Project,
		Summary:  summary,
		Actors:   bandBreakdown(actorAgg),
		UseCases: bandBreakdown(useCaseAgg),
		TFactors: influenceBreakdown(tAgg),
		EFactors: influenceBreakdown(eAgg),
		Phases:   summary.Phases,
	}
}

func bandBreakdown(agg *estimation.WeightedCount) BandBreakdown {
	return BandBreakdown{
		Simple:  agg.Count(domain.Simple),
		Average: agg.Count(domain.Average),
		Complex: agg.Count(domain.Complex),
		Total:   agg.TotalCount(),
		Weight:  agg.Total(),
	}
}

func influenceBreakdown(agg *estimation.FactorAggregate) InfluenceBreakdown {
	counts := agg.CategoryCounts()
	return InfluenceBreakdown{
		Irrelevant: counts[domain.Irrelevant],
		Medium:     counts[domain.Medium],
		Essential:  counts[domain.Essential],
		Total:      agg.Total(),
	}
}

// ExportProject writes one project bundle into dir and returns the manifest path.
func (s *ProjectService) ExportProject(ctx context.Context, projectID uint, dir string) (string, domain.Status, error) {
	data, status := s.repo.LoadProjectData(ctx, projectID)
	if status != domain.Success {
		return "", status, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.Failure, err
	}
	manifestPath, err := bundle.ExportProject(dir, data)
	if err != nil {
		return "", domain.Failure, err
	}
	s.log.Info("project exported", zap.String("name", data.Project.Name), zap.String("manifest", manifestPath))
	return manifestPath, domain.Success, nil
}

// ExportProjects stages each project bundle in a temporary directory and
// archives them all into zipPath.
func (s *ProjectService) ExportProjects(ctx context.Context, projectIDs []uint, zipPath string) (domain.Status, error) {
	stageDir := filepath.Join(os.TempDir(), "quickest-export-"+uuid.NewString())
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return domain.Failure, err
	}
	defer os.RemoveAll(stageDir)

	for _, projectID := range projectIDs {
		data, status := s.repo.LoadProjectData(ctx, projectID)
		if status != domain.Success {
			return status, nil
		}
		projectDir := filepath.Join(stageDir, data.Project.Name)
		if err := os.MkdirAll(projectDir, 0o755); err != nil {
			return domain.Failure, err
		}
		if _, err := bundle.ExportProject(projectDir, data); err != nil {
			return domain.Failure, err
		}
	}

	if err := bundle.ArchiveDirectory(zipPath, stageDir); err != nil {
		return domain.Failure, err
	}
	return domain.Success, nil
}

// ImportProject loads a bundle from a manifest path or a directory holding
// one and inserts it as a new project. A corrupted bundle rolls back with
// nothing written.
func (s *ProjectService) ImportProject(ctx context.Context, path string) (domain.Project, domain.Status, error) {
	manifestPath := path
	// The imported project takes its name from the bundle location: the
	// directory's base name, or the manifest's base name when a manifest
	// file is given directly. Renaming either imports under the new name.
	name := strings.TrimSuffix(filepath.Base(path), bundle.ManifestExtension)
	info, err := os.Stat(path)
	if err != nil {
		return domain.Project{}, domain.NotExist, nil
	}
	if info.IsDir() {
		name = filepath.Base(filepath.Clean(path))
		manifestPath, err = bundle.FindManifest(path)
		if err != nil {
			if errors.Is(err, bundle.ErrManifestMissing) {
				return domain.Project{}, domain.NotExist, nil
			}
			return domain.Project{}, domain.Failure, err
		}
	}

	data, err := bundle.ImportProject(manifestPath)
	if err != nil {
		s.log.Warn("bundle import failed", zap.String("manifest", manifestPath), zap.Error(err))
		return domain.Project{}, domain.Failure, err
	}
	data.Project.Name = name
	data.Project.Favorite = false
	if err := data.Project.Validate(); err != nil {
		return domain.Project{}, domain.Failure, err
	}
	if err := data.Parameters.Validate(); err != nil {
		return domain.Project{}, domain.Failure, err
	}
	for _, a := range data.Actors {
		if err := a.Validate(); err != nil {
			return domain.Project{}, domain.Failure, err
		}
	}
	for _, u := range data.UseCases {
		if err := u.Validate(); err != nil {
			return domain.Project{}, domain.Failure, err
		}
	}
	for _, f := range data.TechnicalFactors {
		if err := f.Validate(domain.Technical); err != nil {
			return domain.Project{}, domain.Failure, err
		}
	}
	for _, f := range data.EnvironmentalFactors {
		if err := f.Validate(domain.Environmental); err != nil {
			return domain.Project{}, domain.Failure, err
		}
	}

	imported, status := s.repo.ImportProjectData(ctx, data)
	if status == domain.Success {
		s.log.Info("project imported", zap.String("name", imported.Name), zap.Uint("id", imported.ID))
		s.notifyMetrics(imported.ID)
	}
	return imported, status, nil
}

func actorCodes(actors []domain.Actor) []string {
	codes := make([]string, 0, len(actors))
	for _, a := range actors {
		codes = append(codes, a.Code)
	}
	return codes
}

func useCaseCodes(useCases []domain.UseCase) []string {
	codes := make([]string, 0, len(useCases))
	for _, u := range useCases {
		codes = append(codes, u.Code)
	}
	return codes
}

func nextCode(prefix string, existing []string, limit int) string {
	used := make(map[int]bool, len(existing))
	max := 0
	for _, code := range existing {
		raw, ok := strings.CutPrefix(code, prefix+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(raw); err == nil {
			used[n] = true
			if n > max {
				max = n
			}
		}
	}
	// Deleted codes are not recycled until the numbering space is
	// exhausted; then the lowest free suffix is reused.
	if max+1 > limit {
		for n := 1; n <= limit; n++ {
			if !used[n] {
				return fmt.Sprintf("%s-%d", prefix, n)
			}
		}
	}
	return fmt.Sprintf("%s-%d", prefix, max+1)
}
