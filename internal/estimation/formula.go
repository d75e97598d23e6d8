package estimation

import (
	"math"

	"github.com/QuickEst-app/QuickEst/internal/domain"
)

// Round4 rounds half away from zero to four decimal places. Every published
// figure passes through it so recomputation is stable.
func Round4(v float64) float64 {
	if v < 0 {
		return -math.Floor(-v*10000+0.5) / 10000
	}
	return math.Floor(v*10000+0.5) / 10000
}

func UUCP(uaw, uucw float64) float64 {
	return Round4(uaw + uucw)
}

func TCF(tFactor float64) float64 {
	return Round4(0.6 + 0.01*tFactor)
}

func ECF(eFactor float64) float64 {
	return Round4(1.4 - 0.03*eFactor)
}

func UCP(uucp, ecf, tcf float64) float64 {
	return Round4(uucp * ecf * tcf)
}

// Effort converts use case points to person-hours through the conversion
// factor (hours per UCP).
func Effort(ucp, cf float64) float64 {
	return Round4(ucp * cf)
}

// PhaseEffort holds person-hours per development phase. Total is the effort E
// itself, which by construction lands in the programming phase scaled up to
// the remaining phases.
type PhaseEffort struct {
	Analysis    float64
	Design      float64
	Programming float64
	Testing     float64
	Overloading float64
}

func (p PhaseEffort) Total() float64 {
	return Round4(p.Analysis + p.Design + p.Programming + p.Testing + p.Overloading)
}

// DistributeEffort spreads the estimated effort across phases. The estimate E
// covers the programming phase, so each phase gets E*pct/programmingPct. A
// zero programming percentage yields all-zero phases rather than dividing.
func DistributeEffort(effort float64, p domain.Percentages) PhaseEffort {
	if p.Programming == 0 {
		return PhaseEffort{}
	}
	return PhaseEffort{
		Analysis:    Round4(effort * p.Analysis / p.Programming),
		Design:      Round4(effort * p.Design / p.Programming),
		Programming: Round4(effort),
		Testing:     Round4(effort * p.Testing / p.Programming),
		Overloading: Round4(effort * p.Overloading / p.Programming),
	}
}

// Summary is the complete estimate for one project state.
type Summary struct {
	UAW     float64
	UUCW    float64
	UUCP    float64
	TFactor float64
	TCF     float64
	EFactor float64
	ECF     float64
	UCP     float64
	CF      float64
	Effort  float64
	Phases  PhaseEffort
}

// Summarize recomputes the full estimate from aggregate totals and parameters.
func Summarize(uaw, uucw, tFactor, eFactor float64, params domain.Parameters) Summary {
	s := Summary{
		UAW:     Round4(uaw),
		UUCW:    Round4(uucw),
		TFactor: Round4(tFactor),
		EFactor: Round4(eFactor),
		CF:      params.CF,
	}
	s.UUCP = UUCP(s.UAW, s.UUCW)
	s.TCF = TCF(s.TFactor)
	s.ECF = ECF(s.EFactor)
	s.UCP = UCP(s.UUCP, s.ECF, s.TCF)
	s.Effort = Effort(s.UCP, s.CF)
	s.Phases = DistributeEffort(s.Effort, domain.Percentages{
		Analysis:    params.AnalysisPercentage,
		Design:      params.DesignPercentage,
		Programming: params.ProgrammingPercentage,
		Testing:     params.TestingPercentage,
		Overloading: params.OverloadingPercentage,
	})
	return s
}
