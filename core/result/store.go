package result

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/exam"
)

var nowFunc = time.Now // mockable

type (
	// Repository is the Result Persistence.
	Repository interface {
		// UpsertResults writes records by (exam, student) and returns them as stored.
		// It fails with exam.ErrLocked, writing nothing, when the exam is published at write time.
		UpsertResults(ctx context.Context, examID string, records []Record) ([]Record, error)
		GetResults(ctx context.Context, examID string) ([]Record, error)
		// GetStudentResults returns the records of a student across all exams.
		GetStudentResults(ctx context.Context, studentID string) ([]Record, error)
	}

	// Store loads and commits the result records of exams.
	Store struct {
		repo  Repository
		exams exam.Repository
	}
)

func NewStore(repo Repository, exams exam.Repository) *Store {
	return &Store{repo: repo, exams: exams}
}

func (s *Store) Load(ctx context.Context, examID string) ([]Record, error) {
	return s.repo.GetResults(ctx, examID)
}

func (s *Store) StudentRecords(ctx context.Context, studentID string) ([]Record, error) {
	return s.repo.GetStudentResults(ctx, studentID)
}

// Commit validates and upserts records. The exam status is re-read first,
// so a published or cancelled exam rejects the whole batch.
// Committing the same records twice leaves the same stored state.
func (s *Store) Commit(ctx context.Context, examID string, records []Record) ([]Record, error) {
	if _, err := uuid.Parse(examID); err != nil {
		return nil, exam.ErrNotFound
	}
	e, err := s.exams.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if err = e.CheckGradable(); err != nil {
		return nil, err
	}
	if err = ValidateRecords(records, e.MaxMarks); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []Record{}, nil
	}

	now := nowFunc().UTC()
	batch := make([]Record, len(records))
	for i, r := range records {
		r.ExamID = examID
		r.UpdatedAt = now
		batch[i] = r
	}

	saved, err := s.repo.UpsertResults(ctx, examID, batch)
	if err != nil {
		return nil, errors.Wrap(err, "upserting results")
	}
	return saved, nil
}
