package models

import (
	"fmt"
	"strings"
)

// Program identifies the teaching program a period belongs to.
type Program string

const (
	ProgramRegular   Program = "Regular"
	ProgramCommon    Program = "Common"
	ProgramExtension Program = "Extension"
	ProgramSummer    Program = "Summer"
)

// Programs lists every supported program in display order.
var Programs = []Program{ProgramRegular, ProgramCommon, ProgramExtension, ProgramSummer}

// ParseProgram accepts any casing of a known program name.
func ParseProgram(raw string) (Program, bool) {
	for _, p := range Programs {
		if strings.EqualFold(string(p), strings.TrimSpace(raw)) {
			return p, true
		}
	}
	return "", false
}

// Period scopes all assignment and workload calculations.
type Period struct {
	Year     string  `db:"year" json:"year"`
	Semester string  `db:"semester" json:"semester,omitempty"`
	Program  Program `db:"program" json:"program"`
}

// Normalize trims whitespace so equal periods compare equal.
func (p Period) Normalize() Period {
	return Period{
		Year:     strings.TrimSpace(p.Year),
		Semester: strings.TrimSpace(p.Semester),
		Program:  p.Program,
	}
}

// Key renders the period as a stable lock/cache key fragment.
func (p Period) Key() string {
	return fmt.Sprintf("%s:%s:%s", p.Year, p.Semester, p.Program)
}

func (p Period) String() string {
	if p.Semester == "" {
		return fmt.Sprintf("%s %s", p.Year, p.Program)
	}
	return fmt.Sprintf("%s/%s %s", p.Year, p.Semester, p.Program)
}
