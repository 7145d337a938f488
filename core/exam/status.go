package exam

import "github.com/pkg/errors"

// Status is the state of an Exam's lifecycle:
//
//	SCHEDULED -> ONGOING -> COMPLETED
//	SCHEDULED | ONGOING | COMPLETED -> CANCELLED | PUBLISHED
//
// CANCELLED and PUBLISHED are terminal. PUBLISHED locks the results.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusOngoing   Status = "ONGOING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusPublished Status = "PUBLISHED"
)

var AllStatuses = []Status{StatusScheduled, StatusOngoing, StatusCompleted, StatusCancelled, StatusPublished}

var (
	// errors
	ErrInvalidTransition = errors.New("invalid exam status transition")
	ErrLocked            = errors.New("exam results are published and can no longer be modified")
	ErrCancelled         = errors.New("exam is cancelled")
	ErrStatusConflict    = errors.New("exam status changed concurrently")
)

func (s Status) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusPublished
}

// IsLocked reports whether results can no longer be modified.
func (s Status) IsLocked() bool {
	return s == StatusPublished
}

// next returns the status reached by Advance.
func (s Status) next() (Status, bool) {
	switch s {
	case StatusScheduled:
		return StatusOngoing, true
	case StatusOngoing:
		return StatusCompleted, true
	default:
		return "", false
	}
}

// CheckGradable fails with ErrLocked or ErrCancelled when results cannot be edited.
func (e Exam) CheckGradable() error {
	switch e.Status {
	case StatusPublished:
		return ErrLocked
	case StatusCancelled:
		return ErrCancelled
	}
	return nil
}

// Advance moves SCHEDULED to ONGOING and ONGOING to COMPLETED.
func (e *Exam) Advance() error {
	next, ok := e.Status.next()
	if !ok {
		return ErrInvalidTransition
	}
	e.Status = next
	return nil
}

// Cancel moves any non-terminal status to CANCELLED. Cancelling a cancelled exam is a no-op.
func (e *Exam) Cancel() error {
	switch e.Status {
	case StatusCancelled:
		return nil
	case StatusPublished:
		return ErrInvalidTransition
	}
	e.Status = StatusCancelled
	return nil
}

// Publish moves any non-terminal status to PUBLISHED.
// Publishing a published exam is a no-op: changed is false.
func (e *Exam) Publish() (changed bool, err error) {
	switch e.Status {
	case StatusPublished:
		return false, nil
	case StatusCancelled:
		return false, ErrCancelled
	}
	e.Status = StatusPublished
	return true, nil
}

// TransitionTo applies the transition leading to target.
// Reaching the current status again is a no-op.
func (e *Exam) TransitionTo(target Status) (changed bool, err error) {
	if !target.IsValid() {
		return false, ErrInvalidTransition
	}
	if target == e.Status {
		return false, nil
	}

	switch target {
	case StatusOngoing, StatusCompleted:
		if next, ok := e.Status.next(); !ok || next != target {
			return false, ErrInvalidTransition
		}
		e.Status = target
		return true, nil
	case StatusCancelled:
		if err := e.Cancel(); err != nil {
			return false, err
		}
		return true, nil
	case StatusPublished:
		return e.Publish()
	default: // back to SCHEDULED
		return false, ErrInvalidTransition
	}
}
