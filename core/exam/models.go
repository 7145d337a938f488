package exam

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

const DateLayout = "2006-01-02"

// Type is the kind of assessment.
type Type string

const (
	TypeUnitTest   Type = "UNIT_TEST"
	TypeMidterm    Type = "MIDTERM"
	TypeFinal      Type = "FINAL"
	TypeQuiz       Type = "QUIZ"
	TypeAssignment Type = "ASSIGNMENT"
)

var AllTypes = []Type{TypeUnitTest, TypeMidterm, TypeFinal, TypeQuiz, TypeAssignment}

func (t Type) IsValid() bool {
	for _, typ := range AllTypes {
		if t == typ {
			return true
		}
	}
	return false
}

type Exam struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ExamDate    time.Time `json:"exam_date" db:"exam_date"` // UTC midnight
	SubjectID   string    `json:"subject_id" db:"subject_id"`
	ClassID     string    `json:"class_id" db:"class_id"`
	MaxMarks    int       `json:"max_marks" db:"max_marks"`
	Duration    int       `json:"duration" db:"duration"` // minutes
	Type        Type      `json:"exam_type" db:"exam_type"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewExam contains information needed to create a new Exam.
type NewExam struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description"`
	ExamDate    string `json:"exam_date" validate:"required,datetime=2006-01-02"`
	SubjectID   string `json:"subject_id" validate:"required,notblank"`
	ClassID     string `json:"class_id" validate:"required,notblank"`
	MaxMarks    int    `json:"max_marks" validate:"required,gt=0"`
	Duration    int    `json:"duration" validate:"required,gt=0"`
	Type        Type   `json:"exam_type" validate:"required,examtype"`
}

func (ne *NewExam) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.SubjectID = core.CleanString(ne.SubjectID)
	ne.ClassID = core.CleanString(ne.ClassID)
	ne.Type = Type(core.CleanString(string(ne.Type)))
	return validate.Struct(ne)
}

// UpdateExam defines what information may be provided to modify an existing Exam.
// Status is not part of it: status changes go through the lifecycle transitions.
type UpdateExam struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description"`
	ExamDate    *string `json:"exam_date" validate:"omitempty,datetime=2006-01-02"`
	SubjectID   *string `json:"subject_id" validate:"omitempty,notblank"`
	ClassID     *string `json:"class_id" validate:"omitempty,notblank"`
	MaxMarks    *int    `json:"max_marks" validate:"omitempty,gt=0"`
	Duration    *int    `json:"duration" validate:"omitempty,gt=0"`
	Type        *Type   `json:"exam_type" validate:"omitempty,examtype"`
}

func (ue *UpdateExam) Validate(validate *validator.Validate) error {
	return validate.Struct(ue)
}

type QueryFilter struct {
	ClassID   string `query:"class_id"`
	SubjectID string `query:"subject_id"`
	Status    Status `query:"status"`
	Type      Type   `query:"exam_type"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.ClassID == "" && qf.SubjectID == "" && qf.Status == "" && qf.Type == ""
}

func (qf *QueryFilter) Clean() {
	qf.ClassID = core.CleanString(qf.ClassID)
	qf.SubjectID = core.CleanString(qf.SubjectID)
	qf.Status = Status(core.CleanString(string(qf.Status)))
	qf.Type = Type(core.CleanString(string(qf.Type)))
}

// Match reports whether e satisfies every set field of the filter.
func (qf *QueryFilter) Match(e Exam) bool {
	if qf == nil {
		return true
	}
	return (qf.ClassID == "" || e.ClassID == qf.ClassID) &&
		(qf.SubjectID == "" || e.SubjectID == qf.SubjectID) &&
		(qf.Status == "" || e.Status == qf.Status) &&
		(qf.Type == "" || e.Type == qf.Type)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
