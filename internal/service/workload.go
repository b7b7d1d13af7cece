package service

import (
	"math"

	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/pkg/config"
)

// WorkloadPolicy is the configurable table turning course hours into instructor workload
// and programs into nominal teaching load.
type WorkloadPolicy struct {
	BaseHours            map[models.Program]float64
	LectureWeight        float64
	TutorialWeight       float64
	LabMultiplier        float64
	DividedLabMultiplier float64
}

// DefaultWorkloadPolicy charges lecture + tutorial + lab, doubling the lab when divided.
func DefaultWorkloadPolicy() WorkloadPolicy {
	return WorkloadPolicy{
		BaseHours: map[models.Program]float64{
			models.ProgramRegular:   12,
			models.ProgramCommon:    12,
			models.ProgramExtension: 9,
			models.ProgramSummer:    6,
		},
		LectureWeight:        1,
		TutorialWeight:       1,
		LabMultiplier:        1,
		DividedLabMultiplier: 2,
	}
}

// WorkloadPolicyFromConfig builds the policy from configuration.
func WorkloadPolicyFromConfig(cfg config.WorkloadConfig) WorkloadPolicy {
	return WorkloadPolicy{
		BaseHours: map[models.Program]float64{
			models.ProgramRegular:   cfg.BaseHoursRegular,
			models.ProgramCommon:    cfg.BaseHoursCommon,
			models.ProgramExtension: cfg.BaseHoursExtension,
			models.ProgramSummer:    cfg.BaseHoursSummer,
		},
		LectureWeight:        cfg.LectureWeight,
		TutorialWeight:       cfg.TutorialWeight,
		LabMultiplier:        cfg.LabMultiplier,
		DividedLabMultiplier: cfg.DividedLabMultiplier,
	}
}

// BaseHoursFor returns the nominal teaching load of a program.
func (p WorkloadPolicy) BaseHoursFor(program models.Program) (float64, bool) {
	hours, ok := p.BaseHours[program]
	return hours, ok
}

// CourseLoad is the hour cost of one instructor teaching one section of the course.
func (p WorkloadPolicy) CourseLoad(course models.Course, division models.LabDivision) float64 {
	labMultiplier := p.LabMultiplier
	if division.Divided() {
		labMultiplier = p.DividedLabMultiplier
	}
	hours := course.LectureHours*p.LectureWeight +
		course.TutorialHours*p.TutorialWeight +
		course.LabHours*labMultiplier
	return roundHours(hours)
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
