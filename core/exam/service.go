package exam

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

var (
	// errors
	ErrNotFound = errors.New("exam not found")
	// ErrPublishRequired is returned when PUBLISHED is requested as a plain status change;
	// publishing goes through report.Service.Publish, which notifies the students.
	ErrPublishRequired = errors.New("exams are published through the publish operation")

	errMaxMarksFrozen = "max marks can only be changed while the exam is scheduled"

	nowFunc = time.Now // mockable

	// maxTransitionAttempts bounds the re-read loop when the status changes under our feet.
	maxTransitionAttempts = 3
)

type (
	// Repository is the Exam Directory.
	Repository interface {
		CreateExam(ctx context.Context, exam Exam) (Exam, error)
		GetExam(ctx context.Context, id string) (Exam, error)
		// GetExams returns the exams of ids that exist, in no particular order.
		GetExams(ctx context.Context, ids []string) ([]Exam, error)
		// QueryExams applies AND operation on available QueryFilter fields.
		QueryExams(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Exam, error)
		UpdateExam(ctx context.Context, exam Exam) (Exam, error)
		// UpdateExamStatus sets the status of the exam only if it currently is `from`;
		// it fails with ErrStatusConflict otherwise.
		UpdateExamStatus(ctx context.Context, id string, from, to Status) (Exam, error)
	}

	// Service is the Exam Lifecycle Controller.
	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, ne NewExam) (Exam, error) {
	if err := ne.Validate(svc.validate); err != nil {
		return Exam{}, err
	}
	date, err := parseDate(ne.ExamDate)
	if err != nil {
		return Exam{}, core.NewValidationError(err, core.FieldError{Field: "exam_date", Error: err.Error()})
	}

	now := nowFunc().UTC()
	e := Exam{
		ID:          uuid.New().String(),
		Title:       ne.Title,
		Description: ne.Description,
		ExamDate:    date,
		SubjectID:   ne.SubjectID,
		ClassID:     ne.ClassID,
		MaxMarks:    ne.MaxMarks,
		Duration:    ne.Duration,
		Type:        ne.Type,
		Status:      StatusScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateExam(ctx, e)
}

func (svc *Service) Get(ctx context.Context, id string) (Exam, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Exam{}, ErrNotFound
	}
	return svc.repo.GetExam(ctx, id)
}

// GetMany returns the existing exams of ids, keyed by id.
func (svc *Service) GetMany(ctx context.Context, ids []string) (map[string]Exam, error) {
	exams := make(map[string]Exam, len(ids))
	if len(ids) == 0 {
		return exams, nil
	}
	found, err := svc.repo.GetExams(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range found {
		exams[e.ID] = e
	}
	return exams, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Exam, error) {
	return svc.repo.QueryExams(ctx, filter, ordering)
}

// Update modifies the attributes of a gradable exam.
func (svc *Service) Update(ctx context.Context, id string, ue UpdateExam) (Exam, error) {
	if err := ue.Validate(svc.validate); err != nil {
		return Exam{}, err
	}
	e, err := svc.Get(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	if err = e.CheckGradable(); err != nil {
		return Exam{}, err
	}

	if ue.Title != nil {
		e.Title = core.CleanString(*ue.Title)
	}
	if ue.Description != nil {
		e.Description = core.CleanString(*ue.Description)
	}
	if ue.ExamDate != nil {
		date, err := parseDate(*ue.ExamDate)
		if err != nil {
			return Exam{}, core.NewValidationError(err, core.FieldError{Field: "exam_date", Error: err.Error()})
		}
		e.ExamDate = date
	}
	if ue.SubjectID != nil {
		e.SubjectID = core.CleanString(*ue.SubjectID)
	}
	if ue.ClassID != nil {
		e.ClassID = core.CleanString(*ue.ClassID)
	}
	if ue.MaxMarks != nil && *ue.MaxMarks != e.MaxMarks {
		// marks already entered were validated against the current max marks
		if e.Status != StatusScheduled {
			return Exam{}, core.NewValidationError(nil, core.FieldError{Field: "max_marks", Error: errMaxMarksFrozen})
		}
		e.MaxMarks = *ue.MaxMarks
	}
	if ue.Duration != nil {
		e.Duration = *ue.Duration
	}
	if ue.Type != nil {
		e.Type = *ue.Type
	}
	e.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateExam(ctx, e)
}

// transition re-reads the exam, applies `apply` and persists the new status if it changed.
// The status is compared-and-set, so a concurrent change is detected and the transition re-evaluated.
func (svc *Service) transition(ctx context.Context, id string, apply func(*Exam) (bool, error)) (Exam, bool, error) {
	for attempt := 1; ; attempt++ {
		e, err := svc.Get(ctx, id)
		if err != nil {
			return Exam{}, false, err
		}
		from := e.Status
		changed, err := apply(&e)
		if err != nil || !changed {
			return e, false, err
		}

		updated, err := svc.repo.UpdateExamStatus(ctx, id, from, e.Status)
		if err == nil {
			return updated, true, nil
		}
		if errors.Cause(err) != ErrStatusConflict || attempt >= maxTransitionAttempts {
			return Exam{}, false, err
		}
	}
}

// Advance moves the exam one step forward: SCHEDULED -> ONGOING -> COMPLETED.
func (svc *Service) Advance(ctx context.Context, id string) (Exam, error) {
	e, _, err := svc.transition(ctx, id, func(e *Exam) (bool, error) {
		return true, e.Advance()
	})
	return e, err
}

func (svc *Service) Cancel(ctx context.Context, id string) (Exam, error) {
	e, _, err := svc.transition(ctx, id, func(e *Exam) (bool, error) {
		wasCancelled := e.Status == StatusCancelled
		return !wasCancelled, e.Cancel()
	})
	return e, err
}

// Publish freezes the results of the exam and makes them visible to students.
// Publishing an already published exam succeeds with changed = false.
func (svc *Service) Publish(ctx context.Context, id string) (e Exam, changed bool, err error) {
	return svc.transition(ctx, id, func(e *Exam) (bool, error) {
		return e.Publish()
	})
}

// Transition moves the exam to the target status, if the lifecycle allows it.
// PUBLISHED is refused with ErrPublishRequired.
func (svc *Service) Transition(ctx context.Context, id string, target Status) (Exam, error) {
	if target == StatusPublished {
		return Exam{}, ErrPublishRequired
	}
	e, _, err := svc.transition(ctx, id, func(e *Exam) (bool, error) {
		return e.TransitionTo(target)
	})
	return e, err
}
