package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
)

const examColumns = `id, title, description, exam_date, subject_id, class_id, max_marks, duration, exam_type, status, created_at, updated_at`

// examOrderingColumns maps public ordering fields to columns.
var examOrderingColumns = map[string]string{
	"exam_date":  "exam_date",
	"title":      "title",
	"created_at": "created_at",
	"status":     "status",
}

type examRepository struct {
	exec core.DBExecutor
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(exec core.DBExecutor) *examRepository {
	return &examRepository{exec: exec}
}

func (repo examRepository) CreateExam(ctx context.Context, e exam.Exam) (exam.Exam, error) {
	q, args, err := repo.exec.BindNamed(`
		INSERT INTO exam (`+examColumns+`)
		VALUES (:id, :title, :description, :exam_date, :subject_id, :class_id, :max_marks, :duration,
		        :exam_type, :status, :created_at, :updated_at)
		RETURNING `+examColumns, e)
	if err != nil {
		return exam.Exam{}, errors.Wrap(err, "binding exam")
	}

	var created exam.Exam
	if err = sqlx.GetContext(ctx, repo.exec, &created, q, args...); err != nil {
		return exam.Exam{}, errors.Wrap(err, "inserting exam")
	}
	return created, nil
}

func (repo examRepository) GetExam(ctx context.Context, id string) (exam.Exam, error) {
	var e exam.Exam
	err := sqlx.GetContext(ctx, repo.exec, &e, `SELECT `+examColumns+` FROM exam WHERE id = $1`, id)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return exam.Exam{}, exam.ErrNotFound
		}
		return exam.Exam{}, errors.Wrap(err, "selecting exam")
	}
	return e, nil
}

func (repo examRepository) GetExams(ctx context.Context, ids []string) ([]exam.Exam, error) {
	exams := make([]exam.Exam, 0, len(ids))
	err := sqlx.SelectContext(ctx, repo.exec, &exams, `SELECT `+examColumns+` FROM exam WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return nil, errors.Wrap(err, "selecting exams")
	}
	return exams, nil
}

func (repo examRepository) QueryExams(ctx context.Context, filter *exam.QueryFilter, ordering []core.DBOrdering) ([]exam.Exam, error) {
	var (
		where []string
		args  []interface{}
	)
	addCond := func(col string, val interface{}) {
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if filter != nil {
		if filter.ClassID != "" {
			addCond("class_id", filter.ClassID)
		}
		if filter.SubjectID != "" {
			addCond("subject_id", filter.SubjectID)
		}
		if filter.Status != "" {
			addCond("status", filter.Status)
		}
		if filter.Type != "" {
			addCond("exam_type", filter.Type)
		}
	}

	q := new(strings.Builder)
	q.WriteString(`SELECT ` + examColumns + ` FROM exam`)
	if len(where) > 0 {
		q.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	q.WriteString(" ORDER BY " + orderBy(core.FilterOrderings(ordering, examOrderingColumns), "exam_date DESC, created_at DESC"))

	exams := make([]exam.Exam, 0)
	if err := sqlx.SelectContext(ctx, repo.exec, &exams, q.String(), args...); err != nil {
		return nil, errors.Wrap(err, "selecting exams")
	}
	return exams, nil
}

// updateExamQuery leaves published and cancelled exams untouched.
const updateExamQuery = `
	UPDATE exam
	SET title = :title, description = :description, exam_date = :exam_date, subject_id = :subject_id,
	    class_id = :class_id, max_marks = :max_marks, duration = :duration, exam_type = :exam_type,
	    updated_at = :updated_at
	WHERE id = :id AND status NOT IN ('PUBLISHED', 'CANCELLED')
	RETURNING ` + examColumns

func (repo examRepository) UpdateExam(ctx context.Context, e exam.Exam) (exam.Exam, error) {
	q, args, err := repo.exec.BindNamed(updateExamQuery, e)
	if err != nil {
		return exam.Exam{}, errors.Wrap(err, "binding exam")
	}

	var updated exam.Exam
	if err = sqlx.GetContext(ctx, repo.exec, &updated, q, args...); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return exam.Exam{}, repo.updateRejected(ctx, e.ID)
		}
		return exam.Exam{}, errors.Wrap(err, "updating exam")
	}
	return updated, nil
}

// updateRejected tells why no row was updated: the exam is missing, published or cancelled.
func (repo examRepository) updateRejected(ctx context.Context, id string) error {
	current, err := repo.GetExam(ctx, id)
	if err != nil {
		return err
	}
	if err = current.CheckGradable(); err != nil {
		return err
	}
	return exam.ErrStatusConflict
}

func (repo examRepository) UpdateExamStatus(ctx context.Context, id string, from, to exam.Status) (exam.Exam, error) {
	var updated exam.Exam
	err := sqlx.GetContext(ctx, repo.exec, &updated, `
		UPDATE exam SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING `+examColumns,
		to, nowFunc().UTC(), id, from,
	)
	if err == nil {
		return updated, nil
	}
	if errors.Cause(err) != sql.ErrNoRows {
		return exam.Exam{}, errors.Wrap(err, "updating exam status")
	}

	// either the exam does not exist or its status has changed
	if _, err = repo.GetExam(ctx, id); err != nil {
		return exam.Exam{}, err
	}
	return exam.Exam{}, exam.ErrStatusConflict
}
