package result

import (
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
)

// Record is one student's grading outcome for one exam.
// Marks is null until graded, and always null while the student is absent.
type Record struct {
	ExamID    string    `json:"exam_id" db:"exam_id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Marks     null.Int  `json:"marks" db:"marks"`
	IsAbsent  bool      `json:"is_absent" db:"is_absent"`
	Remarks   string    `json:"remarks" db:"remarks"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewRecord returns an ungraded, present record.
func NewRecord(examID, studentID string) Record {
	return Record{ExamID: examID, StudentID: studentID}
}

// IsGraded reports whether the student was present and has marks.
func (r Record) IsGraded() bool {
	return !r.IsAbsent && r.Marks.Valid
}

func (r Record) Evaluate(maxMarks int) grading.Outcome {
	return grading.Evaluate(r.Marks, r.IsAbsent, maxMarks)
}

// validate returns every invariant the record breaks; field names are prefixed with `prefix`.
func (r Record) validate(maxMarks int, prefix string) []core.FieldError {
	var flds []core.FieldError
	if r.StudentID == "" {
		flds = append(flds, core.FieldError{Field: prefix + "student_id", Error: "this field is required"})
	}
	if r.IsAbsent && r.Marks.Valid {
		flds = append(flds, core.FieldError{Field: prefix + "marks", Error: errAbsentWithMarks})
	}
	if r.Marks.Valid && (r.Marks.Int < 0 || r.Marks.Int > maxMarks) {
		flds = append(flds, core.FieldError{Field: prefix + "marks", Error: marksOutOfRangeText(maxMarks)})
	}
	return flds
}

// ValidateRecords checks the invariants of every record and reports all violations together.
func ValidateRecords(records []Record, maxMarks int) error {
	var flds []core.FieldError
	seen := make(map[string]int, len(records))
	for i, r := range records {
		prefix := fmt.Sprintf("results[%d].", i)
		flds = append(flds, r.validate(maxMarks, prefix)...)
		if j, ok := seen[r.StudentID]; ok && r.StudentID != "" {
			flds = append(flds, core.FieldError{
				Field: prefix + "student_id",
				Error: fmt.Sprintf("duplicate of results[%d]", j),
			})
		}
		seen[r.StudentID] = i
	}
	if len(flds) > 0 {
		return core.NewValidationError(ErrInvalidRecords, flds...)
	}
	return nil
}

func marksOutOfRangeText(maxMarks int) string {
	return fmt.Sprintf("marks must be between 0 and %d", maxMarks)
}
