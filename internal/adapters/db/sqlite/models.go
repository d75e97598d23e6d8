package sqlite

import "time"

type ProjectModel struct {
	ID          uint   `gorm:"primaryKey"`
	Favorite    bool   `gorm:"not null;default:false"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	CreatedAt   time.Time
	LastAccess  time.Time
}

func (ProjectModel) TableName() string { return "projects" }

type ParameterModel struct {
	ID                    uint    `gorm:"primaryKey"`
	CF                    float64 `gorm:"not null;default:20.0"`
	AnalysisPercentage    float64 `gorm:"not null;default:10.0"`
	DesignPercentage      float64 `gorm:"not null;default:20.0"`
	ProgrammingPercentage float64 `gorm:"not null;default:40.0"`
	TestingPercentage     float64 `gorm:"not null;default:15.0"`
	OverloadingPercentage float64 `gorm:"not null;default:15.0"`
	ActorSimpleWeight     float64 `gorm:"not null;default:1.0"`
	ActorAverageWeight    float64 `gorm:"not null;default:2.0"`
	ActorComplexWeight    float64 `gorm:"not null;default:3.0"`
	UseCaseSimpleWeight   float64 `gorm:"not null;default:5.0"`
	UseCaseAverageWeight  float64 `gorm:"not null;default:10.0"`
	UseCaseComplexWeight  float64 `gorm:"not null;default:15.0"`
	ProjectID             uint    `gorm:"not null;uniqueIndex"`
}

func (ParameterModel) TableName() string { return "parameters" }

type ActorModel struct {
	ID         uint   `gorm:"primaryKey"`
	Code       string `gorm:"not null;index:idx_actor_project_code,unique"`
	Name       string `gorm:"not null"`
	Complexity string `gorm:"not null"`
	Comment    string
	ProjectID  uint `gorm:"not null;index:idx_actor_project_code,unique"`
}

func (ActorModel) TableName() string { return "actors" }

type UseCaseModel struct {
	ID           uint   `gorm:"primaryKey"`
	Code         string `gorm:"not null;index:idx_use_case_project_code,unique"`
	Name         string `gorm:"not null"`
	Complexity   string `gorm:"not null"`
	Transactions int    `gorm:"not null;default:0"`
	Comment      string
	ProjectID    uint `gorm:"not null;index:idx_use_case_project_code,unique"`
}

func (UseCaseModel) TableName() string { return "use_cases" }

type TechnicalFactorModel struct {
	ID          uint   `gorm:"primaryKey"`
	Factor      string `gorm:"not null;index:idx_tf_project_factor,unique"`
	Description string `gorm:"not null"`
	Weight      float64
	Influence   int `gorm:"not null;default:0"`
	Comment     string
	ProjectID   uint `gorm:"not null;index:idx_tf_project_factor,unique"`
}

func (TechnicalFactorModel) TableName() string { return "technical_factors" }

type EnvironmentalFactorModel struct {
	ID          uint   `gorm:"primaryKey"`
	Factor      string `gorm:"not null;index:idx_ef_project_factor,unique"`
	Description string `gorm:"not null"`
	Weight      float64
	Influence   int `gorm:"not null;default:0"`
	Comment     string
	ProjectID   uint `gorm:"not null;index:idx_ef_project_factor,unique"`
}

func (EnvironmentalFactorModel) TableName() string { return "environmental_factors" }
