package report

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/result"
)

// StudentResult is a published result, as seen by the student.
type StudentResult struct {
	grading.Outcome
	Exam     exam.Exam `json:"exam"`
	Marks    null.Int  `json:"marks"`
	IsAbsent bool      `json:"is_absent"`
	Remarks  string    `json:"remarks"`
}

// visible reports whether r may be shown to its student: the exam is published and
// the student was either graded or marked absent.
func visible(e exam.Exam, r result.Record) bool {
	return e.Status == exam.StatusPublished && (r.IsAbsent || r.Marks.Valid)
}

func newStudentResult(e exam.Exam, r result.Record) StudentResult {
	return StudentResult{
		Outcome:  r.Evaluate(e.MaxMarks),
		Exam:     e,
		Marks:    r.Marks,
		IsAbsent: r.IsAbsent,
		Remarks:  r.Remarks,
	}
}

// StudentResults returns the published results of a student, latest exam first.
func (svc *Service) StudentResults(ctx context.Context, studentID string) ([]StudentResult, error) {
	records, err := svc.store.StudentRecords(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "loading student results")
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ExamID
	}
	exams, err := svc.exams.GetMany(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "loading exams")
	}

	res := make([]StudentResult, 0, len(records))
	for _, r := range records {
		e, ok := exams[r.ExamID]
		if ok && visible(e, r) {
			res = append(res, newStudentResult(e, r))
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Exam.ExamDate.After(res[j].Exam.ExamDate)
	})
	return res, nil
}

// StudentResult returns the result of a student for one exam.
// An unpublished exam is reported as not found, and so is a missing or ungraded result.
func (svc *Service) StudentResult(ctx context.Context, examID, studentID string) (StudentResult, error) {
	e, err := svc.exams.Get(ctx, examID)
	if err != nil {
		return StudentResult{}, err
	}
	if e.Status != exam.StatusPublished {
		return StudentResult{}, exam.ErrNotFound
	}

	records, err := svc.store.Load(ctx, e.ID)
	if err != nil {
		return StudentResult{}, errors.Wrap(err, "loading results")
	}
	for _, r := range records {
		if r.StudentID == studentID && visible(e, r) {
			return newStudentResult(e, r), nil
		}
	}
	return StudentResult{}, result.ErrStudentNotFound
}
