package result

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
)

var (
	// errors
	ErrStudentNotFound = errors.New("student not found on the exam roster")
	ErrMarksOutOfRange = errors.New("marks out of range")
	ErrInvalidRecords  = errors.New("invalid result records")

	errAbsentWithMarks = "absent students cannot have marks"
)

// Draft holds the grading state of one exam while it is being edited.
// Mutators keep every record valid; nothing is persisted until the draft is committed.
type Draft struct {
	exam    exam.Exam
	records map[string]*Record // {studentID: record}
	order   []string
	changed map[string]bool
}

// NewDraft starts a draft from the records already stored for the exam.
func NewDraft(e exam.Exam, existing []Record) *Draft {
	d := &Draft{
		exam:    e,
		records: make(map[string]*Record, len(existing)),
		order:   make([]string, 0, len(existing)),
		changed: make(map[string]bool),
	}
	for _, r := range existing {
		d.add(r)
	}
	return d
}

func (d *Draft) add(r Record) {
	if _, ok := d.records[r.StudentID]; ok {
		return
	}
	r.ExamID = d.exam.ID
	d.records[r.StudentID] = &r
	d.order = append(d.order, r.StudentID)
}

// InitializeRoster creates an ungraded record for every student who has none and
// orders the draft like the roster; records of students no longer enrolled are kept, last.
// Existing records are never overwritten. It returns the whole roster.
func (d *Draft) InitializeRoster(studentIDs []string) []Record {
	order := make([]string, 0, len(studentIDs)+len(d.order))
	onRoster := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		if onRoster[id] {
			continue
		}
		onRoster[id] = true
		if _, ok := d.records[id]; !ok {
			r := NewRecord(d.exam.ID, id)
			d.records[id] = &r
			d.changed[id] = true
		}
		order = append(order, id)
	}
	for _, id := range d.order {
		if !onRoster[id] {
			order = append(order, id)
		}
	}
	d.order = order
	return d.Records()
}

func (d *Draft) get(studentID string) (*Record, error) {
	r, ok := d.records[studentID]
	if !ok {
		return nil, ErrStudentNotFound
	}
	return r, nil
}

// SetMarks sets the marks of a student; null marks clear the grade.
// It is ignored while the student is absent.
func (d *Draft) SetMarks(studentID string, marks null.Int) error {
	r, err := d.get(studentID)
	if err != nil {
		return err
	}
	if marks.Valid && (marks.Int < 0 || marks.Int > d.exam.MaxMarks) {
		return core.NewValidationError(ErrMarksOutOfRange, core.FieldError{
			Field: "marks",
			Error: marksOutOfRangeText(d.exam.MaxMarks),
		})
	}
	if r.IsAbsent {
		return nil
	}
	if r.Marks != marks {
		r.Marks = marks
		d.changed[studentID] = true
	}
	return nil
}

// ToggleAbsent flips the absence of a student.
// Marking a student absent discards their marks; marking them present again leaves them ungraded.
func (d *Draft) ToggleAbsent(studentID string) error {
	r, err := d.get(studentID)
	if err != nil {
		return err
	}
	r.IsAbsent = !r.IsAbsent
	r.Marks = null.Int{}
	d.changed[studentID] = true
	return nil
}

// SetRemarks stores text with its whitespace runs collapsed to single spaces.
func (d *Draft) SetRemarks(studentID, text string) error {
	r, err := d.get(studentID)
	if err != nil {
		return err
	}
	text = strings.Join(strings.Fields(text), " ")
	if r.Remarks != text {
		r.Remarks = text
		d.changed[studentID] = true
	}
	return nil
}

func (d *Draft) Record(studentID string) (Record, bool) {
	r, ok := d.records[studentID]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Records returns every record, in roster order.
func (d *Draft) Records() []Record {
	res := make([]Record, 0, len(d.order))
	for _, id := range d.order {
		res = append(res, *d.records[id])
	}
	return res
}

// Changed returns the records created or modified since the draft was started, in roster order.
func (d *Draft) Changed() []Record {
	res := make([]Record, 0, len(d.changed))
	for _, id := range d.order {
		if d.changed[id] {
			res = append(res, *d.records[id])
		}
	}
	return res
}

func (d *Draft) Exam() exam.Exam { return d.exam }
