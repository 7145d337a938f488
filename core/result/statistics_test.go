package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func graded(marks ...int) []Record {
	res := make([]Record, len(marks))
	for i, m := range marks {
		res[i] = Record{StudentID: string(rune('a' + i)), Marks: null.IntFrom(m)}
	}
	return res
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		max     int
		want    Statistics
	}{
		{
			name:    "full class graded",
			records: graded(95, 82, 71, 40, 20),
			max:     100,
			want: Statistics{
				TotalStudents:  5,
				PresentCount:   5,
				GradedCount:    5,
				HighestMarks:   null.IntFrom(95),
				LowestMarks:    null.IntFrom(20),
				AverageMarks:   null.Float64From(61.6),
				PassedCount:    4,
				FailedCount:    1,
				PassPercentage: 80,
			},
		},
		{
			name: "mixed absence",
			records: []Record{
				{StudentID: "a", Marks: null.IntFrom(80)},
				{StudentID: "b", IsAbsent: true},
				{StudentID: "c", Marks: null.IntFrom(50)},
				{StudentID: "d"},
			},
			max: 100,
			want: Statistics{
				TotalStudents:  4,
				PresentCount:   3,
				AbsentCount:    1,
				GradedCount:    2,
				HighestMarks:   null.IntFrom(80),
				LowestMarks:    null.IntFrom(50),
				AverageMarks:   null.Float64From(65),
				PassedCount:    2,
				PassPercentage: 100,
			},
		},
		{
			name: "empty roster",
			max:  100,
			want: Statistics{},
		},
		{
			name: "nobody graded",
			records: []Record{
				{StudentID: "a"},
				{StudentID: "b", IsAbsent: true},
			},
			max:  50,
			want: Statistics{TotalStudents: 2, PresentCount: 1, AbsentCount: 1},
		},
		{
			name:    "pass threshold is inclusive",
			records: graded(33, 32, 0),
			max:     100,
			want: Statistics{
				TotalStudents:  3,
				PresentCount:   3,
				GradedCount:    3,
				HighestMarks:   null.IntFrom(33),
				LowestMarks:    null.IntFrom(0),
				AverageMarks:   null.Float64From(65.0 / 3),
				PassedCount:    1,
				FailedCount:    2,
				PassPercentage: 100.0 / 3,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.records, tt.max)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.GradedCount, got.PassedCount+got.FailedCount)
			assert.Equal(t, got.TotalStudents, got.PresentCount+got.AbsentCount)
		})
	}
}
