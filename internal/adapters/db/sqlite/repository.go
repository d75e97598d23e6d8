package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/QuickEst-app/QuickEst/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

type ProjectRepository struct {
	db           *gorm.DB
	projectLimit int
}

func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + "?_pragma=foreign_keys(1)",
	}, &gorm.Config{})
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db, projectLimit: domain.ProjectLimit}
}

func (r *ProjectRepository) SetProjectLimit(limit int) {
	r.projectLimit = limit
}

func (r *ProjectRepository) CreateProject(ctx context.Context, project domain.Project) (domain.Project, domain.Status) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProjectModel{}).Count(&count).Error; err != nil {
		return domain.Project{}, domain.Failure
	}
	if count >= int64(r.projectLimit) {
		return domain.Project{}, domain.TooManyProjects
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&ProjectModel{}).Where("name = ?", project.Name).Count(&existing).Error; err != nil {
		return domain.Project{}, domain.Failure
	}
	if existing > 0 {
		return domain.Project{}, domain.AlreadyExist
	}

	now := time.Now()
	m := ProjectModel{
		Favorite:    project.Favorite,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   now,
		LastAccess:  now,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		if err := tx.Create(parameterModelFrom(domain.DefaultParameters(m.ID))).Error; err != nil {
			return err
		}
		for _, f := range domain.DefaultTechnicalFactors(m.ID) {
			tf := TechnicalFactorModel{Factor: f.Factor, Description: f.Description, Weight: f.Weight, ProjectID: m.ID}
			if err := tx.Create(&tf).Error; err != nil {
				return err
			}
		}
		for _, f := range domain.DefaultEnvironmentalFactors(m.ID) {
			ef := EnvironmentalFactorModel{Factor: f.Factor, Description: f.Description, Weight: f.Weight, ProjectID: m.ID}
			if err := tx.Create(&ef).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Project{}, domain.Failure
	}

	return projectFrom(m), domain.Success
}

func (r *ProjectRepository) GetProjectByID(ctx context.Context, projectID uint) (domain.Project, domain.Status) {
	var m ProjectModel
	if err := r.db.WithContext(ctx).First(&m, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Project{}, domain.NotExist
		}
		return domain.Project{}, domain.Failure
	}
	return projectFrom(m), domain.Success
}

func (r *ProjectRepository) ListProjects(ctx context.Context) ([]domain.Project, domain.Status) {
	rows := make([]ProjectModel, 0)
	if err := r.db.WithContext(ctx).Order("favorite DESC, last_access DESC").Find(&rows).Error; err != nil {
		return nil, domain.Failure
	}
	result := make([]domain.Project, 0, len(rows))
	for _, m := range rows {
		result = append(result, projectFrom(m))
	}
	return result, domain.Success
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, projectID uint, name, description string) domain.Status {
	var taken int64
	err := r.db.WithContext(ctx).Model(&ProjectModel{}).
		Where("name = ? AND id <> ?", name, projectID).
		Count(&taken).Error
	if err != nil {
		return domain.Failure
	}
	if taken > 0 {
		return domain.AlreadyExist
	}

	res := r.db.WithContext(ctx).Model(&ProjectModel{}).Where("id = ?", projectID).
		Updates(map[string]any{"name": name, "description": description})
	if res.Error != nil {
		return domain.Failure
	}
	if res.RowsAffected == 0 {
		return domain.NotExist
	}
	return domain.Success
}

func (r *ProjectRepository) UpdateProjectFavorite(ctx context.Context, projectID uint, favorite bool) domain.Status {
	res := r.db.WithContext(ctx).Model(&ProjectModel{}).Where("id = ?", projectID).Update("favorite", favorite)
	if res.Error != nil {
		return domain.Failure
	}
	if res.RowsAffected == 0 {
		return domain.NotExist
	}
	return domain.Success
}

func (r *ProjectRepository) TouchProjectAccess(ctx context.Context, projectID uint) domain.Status {
	res := r.db.WithContext(ctx).Model(&ProjectModel{}).Where("id = ?", projectID).Update("last_access", time.Now())
	if res.Error != nil {
		return domain.Failure
	}
	if res.RowsAffected == 0 {
		return domain.NotExist
	}
	return domain.Success
}

// DeleteProjects removes every project it can find. Unknown IDs do not
// block the rest of the batch; they come back as the missing list with
// a NotExist status.
func (r *ProjectRepository) DeleteProjects(ctx context.Context, projectIDs []uint) ([]uint, domain.Status) {
	if len(projectIDs) == 0 {
		return nil, domain.Success
	}
	var found []uint
	err := r.db.WithContext(ctx).Model(&ProjectModel{}).
		Where("id IN ?", projectIDs).
		Pluck("id", &found).Error
	if err != nil {
		return nil, domain.Failure
	}
	if len(found) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", found).Delete(&ProjectModel{}).Error; err != nil {
			return nil, domain.Failure
		}
	}
	missing := missingIDs(projectIDs, found)
	if len(missing) > 0 {
		return missing, domain.NotExist
	}
	return nil, domain.Success
}

func missingIDs(requested, found []uint) []uint {
	have := make(map[uint]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	var missing []uint
	for _, id := range requested {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func missingCodes(requested, found []string) []string {
	have := make(map[string]bool, len(found))
	for _, code := range found {
		have[code] = true
	}
	var missing []string
	for _, code := range requested {
		if !have[code] {
			missing = append(missing, code)
		}
	}
	return missing
}

func (r *ProjectRepository) CountProjects(ctx context.Context) (int64, domain.Status) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProjectModel{}).Count(&count).Error; err != nil {
		return 0, domain.Failure
	}
	return count, domain.Success
}

func (r *ProjectRepository) GetParameters(ctx context.Context, projectID uint) (domain.Parameters, domain.Status) {
	var m ParameterModel
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Parameters{}, domain.NotExist
		}
		return domain.Parameters{}, domain.Failure
	}
	return parametersFrom(m), domain.Success
}

func (r *ProjectRepository) UpdateCF(ctx context.Context, projectID uint, cf float64) domain.Status {
	return r.updateParameters(ctx, projectID, map[string]any{"cf": cf})
}

func (r *ProjectRepository) UpdatePercentages(ctx context.Context, projectID uint, p domain.Percentages) domain.Status {
	return r.updateParameters(ctx, projectID, map[string]any{
		"analysis_percentage":    p.Analysis,
		"design_percentage":      p.Design,
		"programming_percentage": p.Programming,
		"testing_percentage":     p.Testing,
		"overloading_percentage": p.Overloading,
	})
}

func (r *ProjectRepository) UpdateActorWeights(ctx context.Context, projectID uint, w domain.WeightTriple) domain.Status {
	return r.updateParameters(ctx, projectID, map[string]any{
		"actor_simple_weight":  w.Simple,
		"actor_average_weight": w.Average,
		"actor_complex_weight": w.Complex,
	})
}

func (r *ProjectRepository) UpdateUseCaseWeights(ctx context.Context, projectID uint, w domain.WeightTriple) domain.Status {
	return r.updateParameters(ctx, projectID, map[string]any{
		"use_case_simple_weight":  w.Simple,
		"use_case_average_weight": w.Average,
		"use_case_complex_weight": w.Complex,
	})
}

func (r *ProjectRepository) updateParameters(ctx context.Context, projectID uint, values map[string]any) domain.Status {
	res := r.db.WithContext(ctx).Model(&ParameterModel{}).Where("project_id = ?", projectID).Updates(values)
	if res.Error != nil {
		return domain.Failure
	}
	if res.RowsAffected == 0 {
		return domain.NotExist
	}
	return domain.Success
}

func (r *ProjectRepository) CreateActor(ctx context.Context, actor domain.Actor) (domain.Actor, domain.Status) {
	var existing int64
	err := r.db.WithContext(ctx).Model(&ActorModel{}).
		Where("project_id = ? AND code = ?", actor.ProjectID, actor.Code).
		Count(&existing).Error
	if err != nil {
		return domain.Actor{}, domain.Failure
	}
	if existing > 0 {
		return domain.Actor{}, domain.AlreadyExist
	}

	m := ActorModel{
		Code:       actor.Code,
		Name:       actor.Name,
		Complexity: string(actor.Complexity),
		Comment:    actor.Comment,
		ProjectID:  actor.ProjectID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Actor{}, domain.Failure
	}
	return actorFrom(m), domain.Success
}

func (r *ProjectRepository) ListActors(ctx context.Context, projectID uint) ([]domain.Actor, domain.Status) {
	rows := make([]ActorModel, 0)
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, domain.Failure
	}
	result := make([]domain.Actor, 0, len(rows))
	for _, m := range rows {
		result = append(result, actorFrom(m))
	}
	return result, domain.Success
}

func (r *ProjectRepository) UpdateActor(ctx context.Context, actor domain.Actor) domain.Status {
	res := r.db.WithContext(ctx).Model(&ActorModel{}).
		Where("project_id = ? AND code = ?", actor.ProjectID, actor.Code).
		Updates(map[string]any{
			"name":       actor.Name,
			"complexity": string(actor.Complexity),
			"comment":    actor.Comment,
		})
	if res.Error != nil {
		return domain.Failure
	}
	if res.RowsAffected == 0 {
		return domain.NotExist
	}
	return domain.Success
}

func (r *ProjectRepository) DeleteActors(ctx context.Context, projectID uint, codes []string) ([]string, domain.Status) {
	if len(codes) == 0 {
		return nil, domain.Success
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&ActorModel{}).
		Where("project_id = ? AND code IN ?", projectID, codes).
		Pluck("code", &found).Error
	if err != nil {
		return nil, domain.Failure
	}
	if len(found) > 0 {
		if err := r.db.WithContext(ctx).Where("project_id = ? AND code IN ?", projectID, found).Delete(&ActorModel{}).Error; err != nil {
			return nil, domain.Failure
		}
	}
	missing := missingCodes(codes, found)
	if len(missing) > 0 {
		return missing, domain.NotExist
	}
	return nil, domain.Success
}

func (r *ProjectRepository) CreateUseCase(ctx context.Context, useCase domain.UseCase) (domain.UseCase, domain.Status) {
	var existing int64
	err := r.db.WithContext(ctx).Model(&UseCaseModel{}).
		Where("project_id = ? AND code = ?", useCase.ProjectID, useCase.Code).
		Count(&existing).Error
	if err != nil {
		return domain.UseCase{}, domain.Failure
	}
	if existing > 0 {
		return domain.UseCase{}, domain.AlreadyExist
	}

	m := UseCaseModel{
		Code:         useCase.Code,
		Name:         useCase.Name,
		Complexity:   string(useCase.Complexity),
		Transactions: useCase.Transactions,
		Comment:      useCase.Comment,
		ProjectID:    useCase.ProjectID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.UseCase{}, domain.Failure
	}
	return useCaseFrom(m), domain.Success
}

func (r *ProjectRepository) ListUseCases(ctx context.Context, projectID uint) ([]domain.UseCase, domain.Status) {
	rows := make([]UseCaseModel, 0)
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, domain.Failure
	}
	result := make([]domain.UseCase, 0, len(rows))
	for _, m := range rows {
		result = append(result, useCaseFrom(m))
	}
	return result, domain.Success
}

func (r *ProjectRepository) UpdateUseCase(ctx context.Context, useCase domain.UseCase) domain.Status {
	res := r.db.WithContext(ctx).Model(&UseCaseModel{}).
		Where("project_id = ? AND code = ?", useCase.ProjectID, useCase.Code).
		Updates(map[string]any{
			"name":         useCase.Name,
			"complexity":   string(useCase.Complexity),
			"transactions": useCase.Transactions,
			"comment":      useCase.Comment,
		})
	if res.Error != nil {
		return domain.Failure
	}
	if res.RowsAffected == 0 {
		return domain.NotExist
	}
	return domain.Success
}

func (r *ProjectRepository) DeleteUseCases(ctx context.Context, projectID uint, codes []string) ([]string, domain.Status) {
	if len(codes) == 0 {
		return nil, domain.Success
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&UseCaseModel{}).
		Where("project_id = ? AND code IN ?", projectID, codes).
		Pluck("code", &found).Error
	if err != nil {
		return nil, domain.Failure
	}
	if len(found) > 0 {
		if err := r.db.WithContext(ctx).Where("project_id = ? AND code IN ?", projectID, found).Delete(&UseCaseModel{}).Error; err != nil {
			return nil, domain.Failure
		}
	}
	missing := missingCodes(codes, found)
	if len(missing) > 0 {
		return missing, domain.NotExist
	}
	return nil, domain.Success
}

func (r *ProjectRepository) ListFactors(ctx context.Context, kind domain.FactorKind, projectID uint) ([]domain.Factor, domain.Status) {
	result := make([]domain.Factor, 0)
	if kind == domain.Technical {
		rows := make([]TechnicalFactorModel, 0)
		if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("factor ASC").Find(&rows).Error; err != nil {
			return nil, domain.Failure
		}
		for _, m := range rows {
			result = append(result, domain.Factor{ID: m.ID, Factor: m.Factor, Description: m.Description, Weight: m.Weight, Influence: m.Influence, Comment: m.Comment, ProjectID: m.ProjectID})
		}
		return result, domain.Success
	}

	rows := make([]EnvironmentalFactorModel, 0)
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("factor ASC").Find(&rows).Error; err != nil {
		return nil, domain.Failure
	}
	for _, m := range rows {
		result = append(result, domain.Factor{ID: m.ID, Factor: m.Factor, Description: m.Description, Weight: m.Weight, Influence: m.Influence, Comment: m.Comment, ProjectID: m.ProjectID})
	}
	return result, domain.Success
}

func (r *ProjectRepository) UpdateFactor(ctx context.Context, kind domain.FactorKind, factor domain.Factor) domain.Status {
	q := r.db.WithContext(ctx).Model(&TechnicalFactorModel{})
	if kind == domain.Environmental {
		q = r.db.WithContext(ctx).Model(&EnvironmentalFactorModel{})
	}
	res := q.Where("project_id = ? AND factor = ?", factor.ProjectID, factor.Factor).
		Updates(map[string]any{
			"weight":    factor.Weight,
			"influence": factor.Influence,
			"comment":   factor.Comment,
		})
	if res.Error != nil {
		return domain.Failure
	}
	if res.RowsAffected == 0 {
		return domain.NotExist
	}
	return domain.Success
}

var errAbortTx = errors.New("abort transaction")

// OpenProject stamps last_access and loads the full project state inside
// one transaction, so a failed load leaves the timestamp untouched.
func (r *ProjectRepository) OpenProject(ctx context.Context, projectID uint) (domain.ProjectData, domain.Status) {
	var data domain.ProjectData
	status := domain.Failure
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &ProjectRepository{db: tx, projectLimit: r.projectLimit}
		if status = txRepo.TouchProjectAccess(ctx, projectID); status != domain.Success {
			return errAbortTx
		}
		if data, status = txRepo.LoadProjectData(ctx, projectID); status != domain.Success {
			return errAbortTx
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, errAbortTx) {
			return domain.ProjectData{}, domain.Failure
		}
		return domain.ProjectData{}, status
	}
	return data, domain.Success
}

func (r *ProjectRepository) LoadProjectData(ctx context.Context, projectID uint) (domain.ProjectData, domain.Status) {
	project, status := r.GetProjectByID(ctx, projectID)
	if status != domain.Success {
		return domain.ProjectData{}, status
	}
	params, status := r.GetParameters(ctx, projectID)
	if status != domain.Success {
		return domain.ProjectData{}, status
	}
	actors, status := r.ListActors(ctx, projectID)
	if status != domain.Success {
		return domain.ProjectData{}, status
	}
	useCases, status := r.ListUseCases(ctx, projectID)
	if status != domain.Success {
		return domain.ProjectData{}, status
	}
	technical, status := r.ListFactors(ctx, domain.Technical, projectID)
	if status != domain.Success {
		return domain.ProjectData{}, status
	}
	environmental, status := r.ListFactors(ctx, domain.Environmental, projectID)
	if status != domain.Success {
		return domain.ProjectData{}, status
	}

	return domain.ProjectData{
		Project:              project,
		Parameters:           params,
		Actors:               actors,
		UseCases:             useCases,
		TechnicalFactors:     technical,
		EnvironmentalFactors: environmental,
	}, domain.Success
}

func (r *ProjectRepository) ImportProjectData(ctx context.Context, data domain.ProjectData) (domain.Project, domain.Status) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProjectModel{}).Count(&count).Error; err != nil {
		return domain.Project{}, domain.Failure
	}
	if count >= int64(r.projectLimit) {
		return domain.Project{}, domain.TooManyProjects
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&ProjectModel{}).Where("name = ?", data.Project.Name).Count(&existing).Error; err != nil {
		return domain.Project{}, domain.Failure
	}
	if existing > 0 {
		return domain.Project{}, domain.AlreadyExist
	}

	now := time.Now()
	createdAt := data.Project.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	m := ProjectModel{
		Favorite:    data.Project.Favorite,
		Name:        data.Project.Name,
		Description: data.Project.Description,
		CreatedAt:   createdAt,
		LastAccess:  now,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		params := data.Parameters
		params.ProjectID = m.ID
		if err := tx.Create(parameterModelFrom(params)).Error; err != nil {
			return err
		}
		for _, a := range data.Actors {
			am := ActorModel{Code: a.Code, Name: a.Name, Complexity: string(a.Complexity), Comment: a.Comment, ProjectID: m.ID}
			if err := tx.Create(&am).Error; err != nil {
				return err
			}
		}
		for _, u := range data.UseCases {
			um := UseCaseModel{Code: u.Code, Name: u.Name, Complexity: string(u.Complexity), Transactions: u.Transactions, Comment: u.Comment, ProjectID: m.ID}
			if err := tx.Create(&um).Error; err != nil {
				return err
			}
		}
		for _, f := range data.TechnicalFactors {
			fm := TechnicalFactorModel{Factor: f.Factor, Description: f.Description, Weight: f.Weight, Influence: f.Influence, Comment: f.Comment, ProjectID: m.ID}
			if err := tx.Create(&fm).Error; err != nil {
				return err
			}
		}
		for _, f := range data.EnvironmentalFactors {
			fm := EnvironmentalFactorModel{Factor: f.Factor, Description: f.Description, Weight: f.Weight, Influence: f.Influence, Comment: f.Comment, ProjectID: m.ID}
			if err := tx.Create(&fm).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Project{}, domain.Failure
	}

	return projectFrom(m), domain.Success
}

func projectFrom(m ProjectModel) domain.Project {
	return domain.Project{
		ID:          m.ID,
		Favorite:    m.Favorite,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		LastAccess:  m.LastAccess,
	}
}

func parametersFrom(m ParameterModel) domain.Parameters {
	return domain.Parameters{
		ID:                    m.ID,
		CF:                    m.CF,
		AnalysisPercentage:    m.AnalysisPercentage,
		DesignPercentage:      m.DesignPercentage,
		ProgrammingPercentage: m.ProgrammingPercentage,
		TestingPercentage:     m.TestingPercentage,
		OverloadingPercentage: m.OverloadingPercentage,
		ActorWeights:          domain.WeightTriple{Simple: m.ActorSimpleWeight, Average: m.ActorAverageWeight, Complex: m.ActorComplexWeight},
		UseCaseWeights:        domain.WeightTriple{Simple: m.UseCaseSimpleWeight, Average: m.UseCaseAverageWeight, Complex: m.UseCaseComplexWeight},
		ProjectID:             m.ProjectID,
	}
}

func parameterModelFrom(p domain.Parameters) *ParameterModel {
	return &ParameterModel{
		CF:                    p.CF,
		AnalysisPercentage:    p.AnalysisPercentage,
		DesignPercentage:      p.DesignPercentage,
		ProgrammingPercentage: p.ProgrammingPercentage,
		TestingPercentage:     p.TestingPercentage,
		OverloadingPercentage: p.OverloadingPercentage,
		ActorSimpleWeight:     p.ActorWeights.Simple,
		ActorAverageWeight:    p.ActorWeights.Average,
		ActorComplexWeight:    p.ActorWeights.Complex,
		UseCaseSimpleWeight:   p.UseCaseWeights.Simple,
		UseCaseAverageWeight:  p.UseCaseWeights.Average,
		UseCaseComplexWeight:  p.UseCaseWeights.Complex,
		ProjectID:             p.ProjectID,
	}
}

func actorFrom(m ActorModel) domain.Actor {
	return domain.Actor{
		ID:         m.ID,
		Code:       m.Code,
		Name:       strings.TrimSpace(m.Name),
		Complexity: domain.Complexity(m.Complexity),
		Comment:    m.Comment,
		ProjectID:  m.ProjectID,
	}
}

func useCaseFrom(m UseCaseModel) domain.UseCase {
	return domain.UseCase{
		ID:           m.ID,
		Code:         m.Code,
		Name:         strings.TrimSpace(m.Name),
		Complexity:   domain.Complexity(m.Complexity),
		Transactions: m.Transactions,
		Comment:      m.Comment,
		ProjectID:    m.ProjectID,
	}
}
