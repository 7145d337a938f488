package result

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/grading"
)

// Statistics summarises the results of one exam.
// Marks based figures only consider graded students; they are null when nobody is graded.
type Statistics struct {
	TotalStudents  int          `json:"total_students"`
	PresentCount   int          `json:"present_count"`
	AbsentCount    int          `json:"absent_count"`
	GradedCount    int          `json:"graded_count"`
	HighestMarks   null.Int     `json:"highest_marks"`
	LowestMarks    null.Int     `json:"lowest_marks"`
	AverageMarks   null.Float64 `json:"average_marks"`
	PassedCount    int          `json:"passed_count"`
	FailedCount    int          `json:"failed_count"`
	PassPercentage float64      `json:"pass_percentage"` // of graded students
}

// Aggregate computes the Statistics of records.
func Aggregate(records []Record, maxMarks int) Statistics {
	st := Statistics{TotalStudents: len(records)}

	var sum int
	for _, r := range records {
		if r.IsAbsent {
			st.AbsentCount++
			continue
		}
		st.PresentCount++
		if !r.Marks.Valid {
			continue
		}

		m := r.Marks.Int
		st.GradedCount++
		sum += m
		if !st.HighestMarks.Valid || m > st.HighestMarks.Int {
			st.HighestMarks = null.IntFrom(m)
		}
		if !st.LowestMarks.Valid || m < st.LowestMarks.Int {
			st.LowestMarks = null.IntFrom(m)
		}
		if grading.IsPass(m, maxMarks) {
			st.PassedCount++
		} else {
			st.FailedCount++
		}
	}

	if st.GradedCount > 0 {
		st.AverageMarks = null.Float64From(float64(sum) / float64(st.GradedCount))
		st.PassPercentage = float64(st.PassedCount*100) / float64(st.GradedCount)
	}
	return st
}
