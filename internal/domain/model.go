package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	ProjectLimit = 500
	ActorLimit   = 200
	UseCaseLimit = 1000

	NameMaxLen        = 20
	DescriptionMaxLen = 300
	CommentMaxLen     = 300
)

// Status is the outcome of a store or codec operation. Expected conditions are
// reported through this enumeration, never through errors.
type Status int

const (
	Success Status = iota
	Failure
	NotExist
	AlreadyExist
	TooManyProjects
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case NotExist:
		return "not_exist"
	case AlreadyExist:
		return "already_exist"
	case TooManyProjects:
		return "too_many_projects"
	}
	return "unknown"
}

type Complexity string

const (
	Simple  Complexity = "Simple"
	Average Complexity = "Average"
	Complex Complexity = "Complex"
)

func (c Complexity) Valid() bool {
	return c == Simple || c == Average || c == Complex
}

// Complexities lists the bands in ascending order.
func Complexities() []Complexity {
	return []Complexity{Simple, Average, Complex}
}

// InfluenceCategory buckets a factor's influence rating.
type InfluenceCategory string

const (
	Irrelevant InfluenceCategory = "irrelevant"
	Medium     InfluenceCategory = "medium"
	Essential  InfluenceCategory = "essential"
)

// CategorizeInfluence maps an influence rating to its bucket. Ratings outside
// [0,5] are rejected at validation time, so every stored row categorizes.
func CategorizeInfluence(influence int) InfluenceCategory {
	switch {
	case influence <= 2:
		return Irrelevant
	case influence <= 4:
		return Medium
	default:
		return Essential
	}
}

type FactorKind string

const (
	Technical     FactorKind = "technical"
	Environmental FactorKind = "environmental"
)

type Project struct {
	ID          uint
	Favorite    bool
	Name        string
	Description string
	CreatedAt   time.Time
	LastAccess  time.Time
}

type Parameters struct {
	ID                    uint
	CF                    float64
	AnalysisPercentage    float64
	DesignPercentage      float64
	ProgrammingPercentage float64
	TestingPercentage     float64
	OverloadingPercentage float64
	ActorWeights          WeightTriple
	UseCaseWeights        WeightTriple
	ProjectID             uint
}

// Percentages returns the phase distribution carried by the row.
func (p Parameters) Percentages() Percentages {
	return Percentages{
		Analysis:    p.AnalysisPercentage,
		Design:      p.DesignPercentage,
		Programming: p.ProgrammingPercentage,
		Testing:     p.TestingPercentage,
		Overloading: p.OverloadingPercentage,
	}
}

// Validate checks a full parameter row against the same rules the
// individual setters enforce. Used when a row arrives whole, as from a
// bundle.
func (p Parameters) Validate() error {
	if err := ValidateCF(p.CF); err != nil {
		return err
	}
	if err := p.Percentages().Validate(); err != nil {
		return err
	}
	if err := ValidateActorWeights(p.ActorWeights); err != nil {
		return err
	}
	return ValidateUseCaseWeights(p.UseCaseWeights)
}

// WeightTriple holds the per-complexity weights of actors or use cases.
type WeightTriple struct {
	Simple  float64
	Average float64
	Complex float64
}

func (w WeightTriple) For(c Complexity) float64 {
	switch c {
	case Simple:
		return w.Simple
	case Average:
		return w.Average
	default:
		return w.Complex
	}
}

type Actor struct {
	ID         uint
	Code       string
	Name       string
	Complexity Complexity
	Comment    string
	ProjectID  uint
}

type UseCase struct {
	ID           uint
	Code         string
	Name         string
	Complexity   Complexity
	Transactions int
	Comment      string
	ProjectID    uint
}

type Factor struct {
	ID          uint
	Factor      string
	Description string
	Weight      float64
	Influence   int
	Comment     string
	ProjectID   uint
}

// ProjectData is the full relational state of one project, as loaded on open
// or carried through export/import.
type ProjectData struct {
	Project              Project
	Parameters           Parameters
	Actors               []Actor
	UseCases             []UseCase
	TechnicalFactors     []Factor
	EnvironmentalFactors []Factor
}

// DefaultParameters returns the parameter row seeded at project creation.
func DefaultParameters(projectID uint) Parameters {
	return Parameters{
		CF:                    20.0,
		AnalysisPercentage:    10.0,
		DesignPercentage:      20.0,
		ProgrammingPercentage: 40.0,
		TestingPercentage:     15.0,
		OverloadingPercentage: 15.0,
		ActorWeights:          WeightTriple{Simple: 1.0, Average: 2.0, Complex: 3.0},
		UseCaseWeights:        WeightTriple{Simple: 5.0, Average: 10.0, Complex: 15.0},
		ProjectID:             projectID,
	}
}

// DefaultTechnicalFactors returns the 13 fixed rows seeded at project creation.
func DefaultTechnicalFactors(projectID uint) []Factor {
	defs := []struct {
		code        string
		description string
		weight      float64
	}{
		{"T01", "Distributed system", 2.0},
		{"T02", "Performance or response time", 1.0},
		{"T03", "End user efficiency", 1.0},
		{"T04", "Complex internal processing", 1.0},
		{"T05", "The code must be reusable", 1.0},
		{"T06", "Ease of installation", 0.5},
		{"T07", "Easy to use", 0.5},
		{"T08", "Portability", 2.0},
		{"T09", "Ease of change", 1.0},
		{"T10", "Concurrence", 1.0},
		{"T11", "Special security features", 1.0},
		{"T12", "Provides direct access to third parties", 1.0},
		{"T13", "Special user training required", 1.0},
	}
	factors := make([]Factor, 0, len(defs))
	for _, d := range defs {
		factors = append(factors, Factor{Factor: d.code, Description: d.description, Weight: d.weight, ProjectID: projectID})
	}
	return factors
}

// DefaultEnvironmentalFactors returns the 8 fixed rows seeded at project creation.
func DefaultEnvironmentalFactors(projectID uint) []Factor {
	defs := []struct {
		code        string
		description string
		weight      float64
	}{
		{"E1", "Familiarity with the project model used", 1.5},
		{"E2", "Application experience", 0.5},
		{"E3", "Object oriented experience", 1.0},
		{"E4", "Lead analyst capability", 0.5},
		{"E5", "Motivation", 1.0},
		{"E6", "Stability of requirements", 2.0},
		{"E7", "Part time workers", -1.0},
		{"E8", "Programming language difficulty", -1.0},
	}
	factors := make([]Factor, 0, len(defs))
	for _, d := range defs {
		factors = append(factors, Factor{Factor: d.code, Description: d.description, Weight: d.weight, ProjectID: projectID})
	}
	return factors
}

var (
	technicalWeightRanges = map[string][2]float64{
		"T01": {1, 3}, "T02": {0.5, 2}, "T03": {0.5, 2}, "T04": {0.5, 2},
		"T05": {0.5, 2}, "T06": {0.2, 1}, "T07": {0.2, 1}, "T08": {1, 3},
		"T09": {0.5, 2}, "T10": {0.5, 2}, "T11": {0.5, 2}, "T12": {0.5, 2},
		"T13": {0.5, 2},
	}
	environmentalWeightRanges = map[string][2]float64{
		"E1": {1, 2}, "E2": {0.2, 0.8}, "E3": {0.5, 1.5}, "E4": {0.2, 0.8},
		"E5": {0.5, 1.5}, "E6": {1, 2.5}, "E7": {-1.5, -0.5}, "E8": {-1.5, -0.5},
	}
)

// FactorWeightRange returns the editable weight range of one factor.
func FactorWeightRange(kind FactorKind, code string) (min, max float64, ok bool) {
	ranges := technicalWeightRanges
	if kind == Environmental {
		ranges = environmentalWeightRanges
	}
	r, found := ranges[code]
	return r[0], r[1], found
}

// TechnicalFactorCodes lists T01..T13 in order.
func TechnicalFactorCodes() []string {
	codes := make([]string, 0, 13)
	for i := 1; i <= 13; i++ {
		codes = append(codes, fmt.Sprintf("T%02d", i))
	}
	return codes
}

// EnvironmentalFactorCodes lists E1..E8 in order.
func EnvironmentalFactorCodes() []string {
	codes := make([]string, 0, 8)
	for i := 1; i <= 8; i++ {
		codes = append(codes, fmt.Sprintf("E%d", i))
	}
	return codes
}

var (
	actorCodePattern   = regexp.MustCompile(`^ACT-([0-9]+)$`)
	useCaseCodePattern = regexp.MustCompile(`^UC-([0-9]+)$`)
)

func ValidateProjectName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	if len(name) > NameMaxLen {
		return fmt.Errorf("project name cannot exceed %d characters", NameMaxLen)
	}
	return nil
}

func (p Project) Validate() error {
	if err := ValidateProjectName(p.Name); err != nil {
		return err
	}
	if len(p.Description) > DescriptionMaxLen {
		return fmt.Errorf("project description cannot exceed %d characters", DescriptionMaxLen)
	}
	return nil
}

func (a Actor) Validate() error {
	n, err := parseCode(actorCodePattern, a.Code)
	if err != nil {
		return fmt.Errorf("actor code must have the form ACT-<n>")
	}
	if n < 1 || n > ActorLimit {
		return fmt.Errorf("actor code number must be in [1,%d]", ActorLimit)
	}
	if a.Name == "" || len(a.Name) > NameMaxLen {
		return fmt.Errorf("actor name is required and cannot exceed %d characters", NameMaxLen)
	}
	if !a.Complexity.Valid() {
		return fmt.Errorf("invalid actor complexity %q", a.Complexity)
	}
	if len(a.Comment) > CommentMaxLen {
		return fmt.Errorf("actor comment cannot exceed %d characters", CommentMaxLen)
	}
	return nil
}

// TransactionBand returns the inclusive transaction range allowed for a band.
func TransactionBand(c Complexity) (min, max int) {
	switch c {
	case Simple:
		return 1, 3
	case Average:
		return 4, 7
	default:
		return 8, 100
	}
}

func (u UseCase) Validate() error {
	n, err := parseCode(useCaseCodePattern, u.Code)
	if err != nil {
		return fmt.Errorf("use case code must have the form UC-<n>")
	}
	if n < 1 || n > UseCaseLimit {
		return fmt.Errorf("use case code number must be in [1,%d]", UseCaseLimit)
	}
	if u.Name == "" || len(u.Name) > NameMaxLen {
		return fmt.Errorf("use case name is required and cannot exceed %d characters", NameMaxLen)
	}
	if !u.Complexity.Valid() {
		return fmt.Errorf("invalid use case complexity %q", u.Complexity)
	}
	min, max := TransactionBand(u.Complexity)
	if u.Transactions < min || u.Transactions > max {
		return fmt.Errorf("%s use cases require between %d and %d transactions", u.Complexity, min, max)
	}
	if len(u.Comment) > CommentMaxLen {
		return fmt.Errorf("use case comment cannot exceed %d characters", CommentMaxLen)
	}
	return nil
}

func (f Factor) Validate(kind FactorKind) error {
	codes := TechnicalFactorCodes()
	if kind == Environmental {
		codes = EnvironmentalFactorCodes()
	}
	known := false
	for _, code := range codes {
		if code == f.Factor {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown %s factor code %q", kind, f.Factor)
	}
	if f.Influence < 0 || f.Influence > 5 {
		return fmt.Errorf("factor influence must be in [0,5]")
	}
	if min, max, ok := FactorWeightRange(kind, f.Factor); ok && (f.Weight < min || f.Weight > max) {
		return fmt.Errorf("%s weight must be in [%g,%g]", f.Factor, min, max)
	}
	if len(f.Comment) > CommentMaxLen {
		return fmt.Errorf("factor comment cannot exceed %d characters", CommentMaxLen)
	}
	return nil
}

var (
	actorWeightBounds   = [3][2]float64{{0.5, 2}, {1, 3}, {2, 5}}
	useCaseWeightBounds = [3][2]float64{{3, 7}, {7, 13}, {10, 20}}
)

// ValidateActorWeights checks the absolute ranges and the monotonic gaps
// average >= simple+0.5, complex >= average+0.5.
func ValidateActorWeights(w WeightTriple) error {
	return validateWeights(w, actorWeightBounds, "actor")
}

func ValidateUseCaseWeights(w WeightTriple) error {
	return validateWeights(w, useCaseWeightBounds, "use case")
}

func validateWeights(w WeightTriple, bounds [3][2]float64, label string) error {
	values := [3]float64{w.Simple, w.Average, w.Complex}
	names := [3]string{"simple", "average", "complex"}
	for i, v := range values {
		if v < bounds[i][0] || v > bounds[i][1] {
			return fmt.Errorf("%s %s weight must be in [%g,%g]", label, names[i], bounds[i][0], bounds[i][1])
		}
	}
	if w.Average < w.Simple+0.5 {
		return fmt.Errorf("%s average weight must be at least simple weight + 0.5", label)
	}
	if w.Complex < w.Average+0.5 {
		return fmt.Errorf("%s complex weight must be at least average weight + 0.5", label)
	}
	return nil
}

// Percentages carries the effort distribution per phase.
type Percentages struct {
	Analysis    float64
	Design      float64
	Programming float64
	Testing     float64
	Overloading float64
}

func (p Percentages) Validate() error {
	for _, v := range []float64{p.Analysis, p.Design, p.Programming, p.Testing, p.Overloading} {
		if v < 0 || v > 100 {
			return fmt.Errorf("phase percentages must be in [0,100]")
		}
	}
	if p.Programming < 20 {
		return fmt.Errorf("programming percentage must be at least 20")
	}
	total := p.Analysis + p.Design + p.Programming + p.Testing + p.Overloading
	if total < 99.999 || total > 100.001 {
		return fmt.Errorf("phase percentages must sum to 100, got %g", total)
	}
	return nil
}

func ValidateCF(cf float64) error {
	if cf < 1 || cf > 40 {
		return fmt.Errorf("conversion factor must be in [1,40]")
	}
	return nil
}

func parseCode(pattern *regexp.Regexp, code string) (int, error) {
	m := pattern.FindStringSubmatch(code)
	if m == nil {
		return 0, fmt.Errorf("malformed code %q", code)
	}
	return strconv.Atoi(m[1])
}
