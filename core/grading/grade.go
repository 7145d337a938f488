// Package grading maps marks to percentages, letter grades and pass/fail.
// It is the only place where grade breakpoints and the pass mark are defined.
package grading

import "github.com/volatiletech/null/v8"

// Grade is a letter grade.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
	// NoGrade is shown for absent or ungraded students.
	NoGrade Grade = "—"
)

// PassPercentage is the pass mark, as a percentage of the exam's max marks.
const PassPercentage = 33

// breakpoints are inclusive lower bounds, highest first.
var breakpoints = []struct {
	min   float64
	grade Grade
}{
	{90, GradeAPlus},
	{80, GradeA},
	{70, GradeBPlus},
	{60, GradeB},
	{50, GradeCPlus},
	{40, GradeC},
	{PassPercentage, GradeD},
}

// Percentage returns marks / maxMarks × 100.
func Percentage(marks, maxMarks int) float64 {
	if maxMarks <= 0 {
		return 0
	}
	return float64(marks*100) / float64(maxMarks)
}

// LetterGrade maps a percentage to its letter grade.
func LetterGrade(percentage float64) Grade {
	for _, bp := range breakpoints {
		if percentage >= bp.min {
			return bp.grade
		}
	}
	return GradeF
}

// PassThreshold returns the minimum marks required to pass.
func PassThreshold(maxMarks int) float64 {
	return float64(maxMarks*PassPercentage) / 100
}

// IsPass reports whether marks reach the pass threshold.
// Integer arithmetic keeps it consistent with LetterGrade(...) != GradeF.
func IsPass(marks, maxMarks int) bool {
	return marks*100 >= maxMarks*PassPercentage
}

// Outcome holds the values derived from a student's marks.
// Percentage and Passed are null when the student is absent or ungraded.
type Outcome struct {
	Percentage null.Float64 `json:"percentage"`
	Grade      Grade        `json:"letter_grade"`
	Passed     null.Bool    `json:"passed"`
}

// Evaluate derives the Outcome of a single result.
func Evaluate(marks null.Int, isAbsent bool, maxMarks int) Outcome {
	if isAbsent || !marks.Valid {
		return Outcome{Grade: NoGrade}
	}
	pct := Percentage(marks.Int, maxMarks)
	return Outcome{
		Percentage: null.Float64From(pct),
		Grade:      LetterGrade(pct),
		Passed:     null.BoolFrom(IsPass(marks.Int, maxMarks)),
	}
}

func (o Outcome) IsGraded() bool { return o.Percentage.Valid }
