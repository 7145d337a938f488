package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/result"
)

type resultRepository struct {
	db *DB
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *DB) *resultRepository {
	return &resultRepository{db: db}
}

func (repo *resultRepository) UpsertResults(_ context.Context, examID string, records []result.Record) ([]result.Record, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	e, ok := repo.db.exams[examID]
	if !ok {
		return nil, exam.ErrNotFound
	}
	if err := e.CheckGradable(); err != nil {
		return nil, err
	}

	saved := make([]result.Record, len(records))
	for i, r := range records {
		r := r
		r.ExamID = examID
		repo.db.results[resultKey{examID: examID, studentID: r.StudentID}] = &r
		saved[i] = r
	}
	return saved, nil
}

func (repo *resultRepository) GetResults(_ context.Context, examID string) ([]result.Record, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	records := make([]result.Record, 0)
	for k, r := range repo.db.results {
		if k.examID == examID {
			records = append(records, *r)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StudentID < records[j].StudentID })
	return records, nil
}

func (repo *resultRepository) GetStudentResults(_ context.Context, studentID string) ([]result.Record, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	records := make([]result.Record, 0)
	for k, r := range repo.db.results {
		if k.studentID == studentID {
			records = append(records, *r)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ExamID < records[j].ExamID })
	return records, nil
}
