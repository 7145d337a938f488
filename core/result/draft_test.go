package result

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
)

var testExam = exam.Exam{ID: "exam-1", MaxMarks: 100, Status: exam.StatusCompleted}

func TestDraft_InitializeRoster(t *testing.T) {
	existing := []Record{
		{ExamID: testExam.ID, StudentID: "s2", Marks: null.IntFrom(70), Remarks: "good"},
		{ExamID: testExam.ID, StudentID: "gone", IsAbsent: true},
	}
	d := NewDraft(testExam, existing)

	roster := d.InitializeRoster([]string{"s1", "s2", "s3", "s1"})
	require.Len(t, roster, 4)
	assert.Equal(t, []string{"s1", "s2", "s3", "gone"}, studentIDs(roster))

	s2, _ := d.Record("s2")
	assert.Equal(t, null.IntFrom(70), s2.Marks, "existing record must not be overwritten")
	assert.Equal(t, "good", s2.Remarks)

	s1, _ := d.Record("s1")
	assert.Equal(t, NewRecord(testExam.ID, "s1"), s1)
	assert.Equal(t, []string{"s1", "s3"}, studentIDs(d.Changed()))

	// idempotent
	again := d.InitializeRoster([]string{"s1", "s2", "s3"})
	assert.Equal(t, roster, again)
	assert.Len(t, d.Changed(), 2)
}

func TestDraft_SetMarks(t *testing.T) {
	tests := []struct {
		name      string
		absent    bool
		marks     null.Int
		wantMarks null.Int
		wantErr   error
		changed   bool
	}{
		{name: "in range", marks: null.IntFrom(55), wantMarks: null.IntFrom(55), changed: true},
		{name: "zero", marks: null.IntFrom(0), wantMarks: null.IntFrom(0), changed: true},
		{name: "max", marks: null.IntFrom(100), wantMarks: null.IntFrom(100), changed: true},
		{name: "clear", marks: null.Int{}, wantMarks: null.IntFrom(40), changed: true},
		{name: "above max", marks: null.IntFrom(150), wantMarks: null.IntFrom(40), wantErr: ErrMarksOutOfRange},
		{name: "negative", marks: null.IntFrom(-1), wantMarks: null.IntFrom(40), wantErr: ErrMarksOutOfRange},
		{name: "absent ignores marks", absent: true, marks: null.IntFrom(60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{StudentID: "s1", Marks: null.IntFrom(40)}
			if tt.absent {
				rec = Record{StudentID: "s1", IsAbsent: true}
			}
			d := NewDraft(testExam, []Record{rec})

			err := d.SetMarks("s1", tt.marks)
			got, _ := d.Record("s1")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, core.IsValidationError(err))
				assert.Equal(t, tt.wantErr, errors.Cause(err).(*core.ValidationError).Err)
				assert.Equal(t, rec.Marks, got.Marks, "record must not be mutated")
				assert.Empty(t, d.Changed())
				return
			}
			require.NoError(t, err)
			if tt.name == "clear" {
				assert.False(t, got.Marks.Valid)
			} else {
				assert.Equal(t, tt.wantMarks, got.Marks)
			}
			assert.Equal(t, tt.changed, len(d.Changed()) == 1)
		})
	}

	t.Run("unknown student", func(t *testing.T) {
		d := NewDraft(testExam, nil)
		assert.Equal(t, ErrStudentNotFound, d.SetMarks("nobody", null.IntFrom(1)))
	})
}

func TestDraft_ToggleAbsent(t *testing.T) {
	d := NewDraft(testExam, []Record{{StudentID: "s1", Marks: null.IntFrom(88)}})

	require.NoError(t, d.ToggleAbsent("s1"))
	got, _ := d.Record("s1")
	assert.True(t, got.IsAbsent)
	assert.False(t, got.Marks.Valid)

	require.NoError(t, d.SetMarks("s1", null.IntFrom(50)))
	got, _ = d.Record("s1")
	assert.False(t, got.Marks.Valid, "absent student cannot be graded")

	require.NoError(t, d.ToggleAbsent("s1"))
	got, _ = d.Record("s1")
	assert.False(t, got.IsAbsent)
	assert.False(t, got.Marks.Valid, "marks are not restored")

	assert.Equal(t, ErrStudentNotFound, d.ToggleAbsent("nobody"))
}

func TestDraft_AbsentImpliesNoMarks(t *testing.T) {
	d := NewDraft(testExam, nil)
	d.InitializeRoster([]string{"a", "b", "c"})

	ops := []func(){
		func() { _ = d.SetMarks("a", null.IntFrom(10)) },
		func() { _ = d.ToggleAbsent("a") },
		func() { _ = d.SetMarks("a", null.IntFrom(20)) },
		func() { _ = d.SetMarks("b", null.IntFrom(90)) },
		func() { _ = d.ToggleAbsent("b") },
		func() { _ = d.ToggleAbsent("c") },
		func() { _ = d.ToggleAbsent("c") },
		func() { _ = d.SetMarks("c", null.IntFrom(30)) },
		func() { _ = d.ToggleAbsent("a") },
	}
	for i, op := range ops {
		op()
		for _, r := range d.Records() {
			if r.IsAbsent {
				assert.False(t, r.Marks.Valid, "op %d: %s", i, r.StudentID)
			}
		}
		assert.NoError(t, ValidateRecords(d.Records(), testExam.MaxMarks), "op %d", i)
	}
}

func TestDraft_SetRemarks(t *testing.T) {
	d := NewDraft(testExam, []Record{{StudentID: "s1"}})
	require.NoError(t, d.SetRemarks("s1", "  needs   practice "))
	got, _ := d.Record("s1")
	assert.Equal(t, "needs practice", got.Remarks)
	assert.Len(t, d.Changed(), 1)

	require.NoError(t, d.SetRemarks("s1", "\tneeds\n practice"))
	got, _ = d.Record("s1")
	assert.Equal(t, "needs practice", got.Remarks)

	assert.Equal(t, ErrStudentNotFound, d.SetRemarks("nobody", "x"))
}

func TestValidateRecords(t *testing.T) {
	records := []Record{
		{StudentID: "s1", Marks: null.IntFrom(50)},
		{StudentID: "s2", Marks: null.IntFrom(150)},
		{StudentID: "s3", IsAbsent: true, Marks: null.IntFrom(10)},
		{StudentID: "s1"},
		{},
	}
	err := ValidateRecords(records, 100)
	require.Error(t, err)

	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidRecords, vErr.Err)
	assert.ElementsMatch(t, []core.FieldError{
		{Field: "results[1].marks", Error: "marks must be between 0 and 100"},
		{Field: "results[2].marks", Error: errAbsentWithMarks},
		{Field: "results[3].student_id", Error: "duplicate of results[0]"},
		{Field: "results[4].student_id", Error: "this field is required"},
	}, vErr.Fields)

	assert.NoError(t, ValidateRecords(records[:1], 100))
	assert.NoError(t, ValidateRecords(nil, 100))
}

func studentIDs(records []Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.StudentID
	}
	return ids
}
