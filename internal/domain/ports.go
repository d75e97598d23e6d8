package domain

import "context"

type ProjectRepository interface {
	CreateProject(ctx context.Context, project Project) (Project, Status)
	GetProjectByID(ctx context.Context, projectID uint) (Project, Status)
	ListProjects(ctx context.Context) ([]Project, Status)
	UpdateProject(ctx context.Context, projectID uint, name, description string) Status
	UpdateProjectFavorite(ctx context.Context, projectID uint, favorite bool) Status
	TouchProjectAccess(ctx context.Context, projectID uint) Status
	DeleteProjects(ctx context.Context, projectIDs []uint) ([]uint, Status)
	CountProjects(ctx context.Context) (int64, Status)

	GetParameters(ctx context.Context, projectID uint) (Parameters, Status)
	UpdateCF(ctx context.Context, projectID uint, cf float64) Status
	UpdatePercentages(ctx context.Context, projectID uint, p Percentages) Status
	UpdateActorWeights(ctx context.Context, projectID uint, w WeightTriple) Status
	UpdateUseCaseWeights(ctx context.Context, projectID uint, w WeightTriple) Status

	CreateActor(ctx context.Context, actor Actor) (Actor, Status)
	ListActors(ctx context.Context, projectID uint) ([]Actor, Status)
	UpdateActor(ctx context.Context, actor Actor) Status
	DeleteActors(ctx context.Context, projectID uint, codes []string) ([]string, Status)

	CreateUseCase(ctx context.Context, useCase UseCase) (UseCase, Status)
	ListUseCases(ctx context.Context, projectID uint) ([]UseCase, Status)
	UpdateUseCase(ctx context.Context, useCase UseCase) Status
	DeleteUseCases(ctx context.Context, projectID uint, codes []string) ([]string, Status)

	ListFactors(ctx context.Context, kind FactorKind, projectID uint) ([]Factor, Status)
	UpdateFactor(ctx context.Context, kind FactorKind, factor Factor) Status

	OpenProject(ctx context.Context, projectID uint) (ProjectData, Status)
	LoadProjectData(ctx context.Context, projectID uint) (ProjectData, Status)
	ImportProjectData(ctx context.Context, data ProjectData) (Project, Status)
}
