package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/result"
)

// Action is the kind of change an Edit makes to a record.
type Action string

const (
	ActionMarks   Action = "marks"
	ActionAbsent  Action = "absent" // toggles absence
	ActionRemarks Action = "remarks"
)

var (
	// errors
	ErrInvalidEdits = errors.New("invalid edits")

	invalidActionText = "action must be one of: marks, absent, remarks"
)

// Edit is one change of a batch saved from the report sheet.
type Edit struct {
	StudentID string   `json:"student_id"`
	Action    Action   `json:"action"`
	Marks     null.Int `json:"marks"` // null clears the marks
	Remarks   string   `json:"remarks"`
}

func (ed Edit) apply(d *result.Draft) error {
	switch ed.Action {
	case ActionMarks:
		return d.SetMarks(ed.StudentID, ed.Marks)
	case ActionAbsent:
		return d.ToggleAbsent(ed.StudentID)
	case ActionRemarks:
		return d.SetRemarks(ed.StudentID, ed.Remarks)
	default:
		return core.NewValidationError(nil, core.FieldError{Field: "action", Error: invalidActionText})
	}
}

// SaveDraft applies a batch of edits to the exam's sheet and commits the records it changed.
// The batch is all-or-nothing: a locked exam, an unknown student or any invalid edit
// rejects it entirely. Every invalid edit is reported in a single ValidationError.
func (svc *Service) SaveDraft(ctx context.Context, examID string, edits []Edit) (Report, error) {
	e, err := svc.exams.Get(ctx, examID)
	if err != nil {
		return Report{}, err
	}
	if err = e.CheckGradable(); err != nil {
		return Report{}, err
	}

	sh, err := svc.load(ctx, examID)
	if err != nil {
		return Report{}, err
	}

	var flds []core.FieldError
	for i, ed := range edits {
		prefix := fmt.Sprintf("edits[%d].", i)
		ed.StudentID = strings.TrimSpace(ed.StudentID)
		ed.Action = Action(strings.ToLower(strings.TrimSpace(string(ed.Action))))

		err := ed.apply(sh.draft)
		if err == nil {
			continue
		}
		if errors.Cause(err) == result.ErrStudentNotFound {
			return Report{}, errors.Wrapf(err, "%sstudent_id %q", prefix, ed.StudentID)
		}
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		if !ok {
			return Report{}, err
		}
		for _, f := range vErr.Fields {
			flds = append(flds, core.FieldError{Field: prefix + f.Field, Error: f.Error})
		}
	}
	if len(flds) > 0 {
		return Report{}, core.NewValidationError(ErrInvalidEdits, flds...)
	}

	if _, err = svc.store.Commit(ctx, examID, sh.draft.Changed()); err != nil {
		return Report{}, err
	}
	return sh.report(), nil
}
