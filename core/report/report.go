// Package report serves the grading workflow of an exam: the teacher's report sheet,
// draft saving and publishing, and the published results seen by students.
package report

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/result"
	"github.com/trezcool/gradebook/core/roster"
)

type (
	// Entry is one line of the report sheet.
	Entry struct {
		result.Record
		grading.Outcome
		Name     string `json:"name"`
		RollNo   string `json:"roll_no"`
		Enrolled bool   `json:"enrolled"`
	}

	Report struct {
		Exam       exam.Exam         `json:"exam"`
		Roster     []Entry           `json:"roster"`
		Statistics result.Statistics `json:"statistics"`
	}

	// Service is the Exam Report Façade.
	Service struct {
		exams   *exam.Service
		store   *result.Store
		roster  roster.Provider
		mailSvc core.EmailService
		logger  core.Logger

		asyncNotify bool
	}

	// Option customizes a Service.
	Option func(*Service)

	// sheet is the loaded state of an exam's grading sheet.
	sheet struct {
		exam     exam.Exam
		students []roster.Student
		draft    *result.Draft
	}
)

func NewService(
	exams *exam.Service,
	store *result.Store,
	rp roster.Provider,
	mailSvc core.EmailService,
	logger core.Logger,
	opts ...Option,
) *Service {
	svc := &Service{
		exams:   exams,
		store:   store,
		roster:  rp,
		mailSvc: mailSvc,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithAsyncNotifications makes Publish return without waiting for the notification emails.
func WithAsyncNotifications() Option {
	return func(svc *Service) { svc.asyncNotify = true }
}

// load fetches the exam, its roster and stored records, and initializes the missing records in a draft.
func (svc *Service) load(ctx context.Context, examID string) (*sheet, error) {
	e, err := svc.exams.Get(ctx, examID)
	if err != nil {
		return nil, err
	}
	students, err := svc.roster.GetEnrolledStudents(ctx, e.ClassID)
	if err != nil {
		return nil, errors.Wrap(err, "getting enrolled students")
	}
	records, err := svc.store.Load(ctx, e.ID)
	if err != nil {
		return nil, errors.Wrap(err, "loading results")
	}

	ids := make([]string, len(students))
	for i, st := range students {
		ids[i] = st.ID
	}
	d := result.NewDraft(e, records)
	d.InitializeRoster(ids)
	return &sheet{exam: e, students: students, draft: d}, nil
}

func (sh *sheet) report() Report {
	byID := make(map[string]roster.Student, len(sh.students))
	for _, st := range sh.students {
		byID[st.ID] = st
	}

	records := sh.draft.Records()
	entries := make([]Entry, len(records))
	for i, r := range records {
		st, enrolled := byID[r.StudentID]
		entries[i] = Entry{
			Record:   r,
			Outcome:  r.Evaluate(sh.exam.MaxMarks),
			Name:     st.Name,
			RollNo:   st.RollNo,
			Enrolled: enrolled,
		}
	}
	return Report{
		Exam:       sh.exam,
		Roster:     entries,
		Statistics: result.Aggregate(records, sh.exam.MaxMarks),
	}
}

// LoadReport returns the exam, its full roster with derived grades and the statistics.
// Records created for newly enrolled students are persisted while the exam can still be graded.
func (svc *Service) LoadReport(ctx context.Context, examID string) (Report, error) {
	sh, err := svc.load(ctx, examID)
	if err != nil {
		return Report{}, err
	}
	if err = svc.persistNew(ctx, sh); err != nil {
		return Report{}, err
	}
	return sh.report(), nil
}

func (svc *Service) persistNew(ctx context.Context, sh *sheet) error {
	created := sh.draft.Changed()
	if len(created) == 0 || sh.exam.CheckGradable() != nil {
		return nil
	}
	if _, err := svc.store.Commit(ctx, sh.exam.ID, created); err != nil {
		switch errors.Cause(err) {
		case exam.ErrLocked, exam.ErrCancelled: // status changed since load: the sheet is read-only
			return nil
		}
		return err
	}
	return nil
}
