package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/result"
)

const resultColumns = `exam_id, student_id, marks, is_absent, remarks, updated_at`

type resultRepository struct {
	db core.DB
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db core.DB) *resultRepository {
	return &resultRepository{db: db}
}

// UpsertResults writes the batch in one transaction. The exam row is locked first,
// so publishing cannot interleave with the write.
func (repo resultRepository) UpsertResults(ctx context.Context, examID string, records []result.Record) (saved []result.Record, err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var e exam.Exam
	if err = sqlx.GetContext(ctx, tx, &e.Status, `SELECT status FROM exam WHERE id = $1 FOR UPDATE`, examID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, exam.ErrNotFound
		}
		return nil, errors.Wrap(err, "locking exam")
	}
	if err = e.CheckGradable(); err != nil {
		return nil, err
	}

	saved = make([]result.Record, len(records))
	for i, r := range records {
		err = sqlx.GetContext(ctx, tx, &saved[i], `
			INSERT INTO result (`+resultColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (exam_id, student_id) DO UPDATE
			SET marks = EXCLUDED.marks, is_absent = EXCLUDED.is_absent,
			    remarks = EXCLUDED.remarks, updated_at = EXCLUDED.updated_at
			RETURNING `+resultColumns,
			examID, r.StudentID, r.Marks, r.IsAbsent, r.Remarks, r.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrapf(err, "upserting result of student %s", r.StudentID)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing results")
	}
	return saved, nil
}

func (repo resultRepository) GetResults(ctx context.Context, examID string) ([]result.Record, error) {
	records := make([]result.Record, 0)
	err := sqlx.SelectContext(ctx, repo.db, &records,
		`SELECT `+resultColumns+` FROM result WHERE exam_id = $1 ORDER BY student_id`, examID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting results")
	}
	return records, nil
}

func (repo resultRepository) GetStudentResults(ctx context.Context, studentID string) ([]result.Record, error) {
	records := make([]result.Record, 0)
	err := sqlx.SelectContext(ctx, repo.db, &records,
		`SELECT `+resultColumns+` FROM result WHERE student_id = $1 ORDER BY exam_id`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting student results")
	}
	return records, nil
}
