package testutil

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/result"
	"github.com/trezcool/gradebook/core/roster"
)

// Enroller is implemented by the roster repositories.
type Enroller interface {
	Enroll(ctx context.Context, classID string, students ...roster.Student) error
}

// ExamOption customizes the exam created by CreateExam.
type ExamOption func(*exam.Exam)

func WithStatus(st exam.Status) ExamOption    { return func(e *exam.Exam) { e.Status = st } }
func WithMaxMarks(max int) ExamOption         { return func(e *exam.Exam) { e.MaxMarks = max } }
func WithClass(classID string) ExamOption     { return func(e *exam.Exam) { e.ClassID = classID } }
func WithTitle(title string) ExamOption       { return func(e *exam.Exam) { e.Title = title } }
func WithDate(date time.Time) ExamOption      { return func(e *exam.Exam) { e.ExamDate = date } }
func WithSubject(subjectID string) ExamOption { return func(e *exam.Exam) { e.SubjectID = subjectID } }

// CreateExam stores a COMPLETED exam of 100 marks unless options say otherwise.
func CreateExam(t *testing.T, repo exam.Repository, opts ...ExamOption) exam.Exam {
	t.Helper()

	now := time.Now().UTC()
	e := exam.Exam{
		ID:        uuid.New().String(),
		Title:     "Algebra",
		ExamDate:  time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
		SubjectID: "math",
		ClassID:   "class-a",
		MaxMarks:  100,
		Duration:  60,
		Type:      exam.TypeMidterm,
		Status:    exam.StatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&e)
	}
	e, err := repo.CreateExam(context.Background(), e)
	if err != nil {
		t.Fatalf("CreateExam() failed: %v", err)
	}
	return e
}

// SeedRoster enrolls n students in the class: s1..sn, with roll numbers 01..n.
func SeedRoster(t *testing.T, repo Enroller, classID string, n int) []roster.Student {
	t.Helper()

	students := make([]roster.Student, n)
	for i := range students {
		num := i + 1
		students[i] = roster.Student{
			ID:     "s" + strconv.Itoa(num),
			Name:   "Student " + strconv.Itoa(num),
			RollNo: fmt.Sprintf("%02d", num),
			Email:  "s" + strconv.Itoa(num) + "@school.test",
		}
	}
	if err := repo.Enroll(context.Background(), classID, students...); err != nil {
		t.Fatalf("SeedRoster() failed: %v", err)
	}
	return students
}

// SetResults stores records for the students, in order; a negative mark means absent, nil means ungraded.
func SetResults(t *testing.T, repo result.Repository, examID string, students []roster.Student, marks ...*int) []result.Record {
	t.Helper()

	records := make([]result.Record, len(marks))
	for i, m := range marks {
		r := result.NewRecord(examID, students[i].ID)
		switch {
		case m == nil:
		case *m < 0:
			r.IsAbsent = true
		default:
			r.Marks = null.IntFrom(*m)
		}
		r.UpdatedAt = time.Now().UTC()
		records[i] = r
	}
	saved, err := repo.UpsertResults(context.Background(), examID, records)
	if err != nil {
		t.Fatalf("SetResults() failed: %v", err)
	}
	return saved
}

// Marks returns a pointer to m, for SetResults.
func Marks(m int) *int { return &m }
