package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
)

// examOrderings maps public ordering fields to the comparators of an exam field.
var examOrderings = map[string]func(a, b exam.Exam) int{
	"exam_date":  func(a, b exam.Exam) int { return compareInt64(a.ExamDate.Unix(), b.ExamDate.Unix()) },
	"title":      func(a, b exam.Exam) int { return strings.Compare(a.Title, b.Title) },
	"created_at": func(a, b exam.Exam) int { return compareInt64(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano()) },
	"status":     func(a, b exam.Exam) int { return strings.Compare(string(a.Status), string(b.Status)) },
}

type examRepository struct {
	db *DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *DB) *examRepository {
	return &examRepository{db: db}
}

func (repo *examRepository) CreateExam(_ context.Context, e exam.Exam) (exam.Exam, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.exams[e.ID] = &e
	return e, nil
}

func (repo *examRepository) GetExam(_ context.Context, id string) (exam.Exam, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if e, ok := repo.db.exams[id]; ok {
		return *e, nil
	}
	return exam.Exam{}, exam.ErrNotFound
}

func (repo *examRepository) GetExams(_ context.Context, ids []string) ([]exam.Exam, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	exams := make([]exam.Exam, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if e, ok := repo.db.exams[id]; ok && !seen[id] {
			seen[id] = true
			exams = append(exams, *e)
		}
	}
	return exams, nil
}

// QueryExams returns the matching exams, latest exam date first unless ordered otherwise.
func (repo *examRepository) QueryExams(_ context.Context, filter *exam.QueryFilter, ordering []core.DBOrdering) ([]exam.Exam, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	exams := make([]exam.Exam, 0, len(repo.db.exams))
	for _, e := range repo.db.exams {
		if filter.Match(*e) {
			exams = append(exams, *e)
		}
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "exam_date"}, {Field: "created_at"}}
	}
	sort.SliceStable(exams, func(i, j int) bool {
		for _, ord := range ordering {
			cmp, ok := examOrderings[ord.Field]
			if !ok {
				continue
			}
			c := cmp(exams[i], exams[j])
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return exams[i].ID < exams[j].ID
	})
	return exams, nil
}

func (repo *examRepository) UpdateExam(_ context.Context, e exam.Exam) (exam.Exam, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	orig, ok := repo.db.exams[e.ID]
	if !ok {
		return exam.Exam{}, exam.ErrNotFound
	}
	if err := orig.CheckGradable(); err != nil {
		return exam.Exam{}, err
	}
	// status and creation date are not editable here
	e.Status = orig.Status
	e.CreatedAt = orig.CreatedAt
	repo.db.exams[e.ID] = &e
	return e, nil
}

func (repo *examRepository) UpdateExamStatus(_ context.Context, id string, from, to exam.Status) (exam.Exam, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	e, ok := repo.db.exams[id]
	if !ok {
		return exam.Exam{}, exam.ErrNotFound
	}
	if e.Status != from {
		return exam.Exam{}, exam.ErrStatusConflict
	}
	e.Status = to
	e.UpdatedAt = nowFunc().UTC()
	return *e, nil
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
