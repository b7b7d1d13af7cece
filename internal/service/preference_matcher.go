package service

import (
	"math"
	"sort"

	"github.com/noah-isme/teaching-load-api/internal/models"
)

// NoPreferenceRank ranks pairs without a submitted preference after every ranked pair.
const NoPreferenceRank = math.MaxInt32

// MatchInstructor is an instructor entering the matcher with their capacity at request start.
type MatchInstructor struct {
	ID        string
	Remaining float64
}

// Slot is one (course, section) awaiting an instructor.
type Slot struct {
	CourseID    string
	Section     string
	LabDivision models.LabDivision
}

// CandidatePair proposes instructor Instructors[Instructor] for Slots[Slot].
type CandidatePair struct {
	Instructor int
	Slot       int
	Rank       int
}

// RankTable maps instructor id to course id to submitted rank.
type RankTable map[string]map[string]int

// NewRankTable indexes ranked preference items. The best rank wins on repeats.
func NewRankTable(items []models.RankedItem) RankTable {
	table := make(RankTable)
	for _, item := range items {
		byCourse, ok := table[item.InstructorID]
		if !ok {
			byCourse = make(map[string]int)
			table[item.InstructorID] = byCourse
		}
		if current, seen := byCourse[item.CourseID]; !seen || item.Rank < current {
			byCourse[item.CourseID] = item.Rank
		}
	}
	return table
}

// Rank returns the instructor's rank for the course or NoPreferenceRank.
func (t RankTable) Rank(instructorID, courseID string) int {
	if rank, ok := t[instructorID][courseID]; ok {
		return rank
	}
	return NoPreferenceRank
}

// PreferenceMatcher orders candidate pairs; it keeps no state between calls.
type PreferenceMatcher struct{}

// Order returns every (instructor, slot) pair sorted by ascending rank, then descending
// remaining capacity, then input order (slot-major, instructor-minor).
func (PreferenceMatcher) Order(instructors []MatchInstructor, slots []Slot, ranks RankTable) []CandidatePair {
	pairs := make([]CandidatePair, 0, len(instructors)*len(slots))
	for si, slot := range slots {
		for ii, inst := range instructors {
			pairs = append(pairs, CandidatePair{Instructor: ii, Slot: si, Rank: ranks.Rank(inst.ID, slot.CourseID)})
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		pa, pb := pairs[a], pairs[b]
		if pa.Rank != pb.Rank {
			return pa.Rank < pb.Rank
		}
		ra, rb := instructors[pa.Instructor].Remaining, instructors[pb.Instructor].Remaining
		if ra != rb {
			return ra > rb
		}
		return false
	})
	return pairs
}
