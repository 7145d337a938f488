package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/roster"
)

type rosterRepository struct {
	exec core.DBExecutor
}

var _ roster.Provider = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(exec core.DBExecutor) *rosterRepository {
	return &rosterRepository{exec: exec}
}

// Enroll adds the students to the class, creating or updating them.
func (repo rosterRepository) Enroll(ctx context.Context, classID string, students ...roster.Student) error {
	ids := make([]string, 0, len(students))
	for _, st := range students {
		_, err := sqlx.NamedExecContext(ctx, repo.exec, `
			INSERT INTO student (id, name, roll_no, email) VALUES (:id, :name, :roll_no, :email)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, roll_no = EXCLUDED.roll_no, email = EXCLUDED.email`,
			st,
		)
		if err != nil {
			return errors.Wrapf(err, "saving student %s", st.ID)
		}
		ids = append(ids, st.ID)
	}

	_, err := repo.exec.ExecContext(ctx, `
		INSERT INTO enrollment (class_id, student_id)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING`,
		classID, pq.Array(ids),
	)
	return errors.Wrap(err, "enrolling students")
}

// Withdraw removes the students from the class.
func (repo rosterRepository) Withdraw(ctx context.Context, classID string, studentIDs ...string) error {
	_, err := repo.exec.ExecContext(ctx,
		`DELETE FROM enrollment WHERE class_id = $1 AND student_id = ANY($2)`,
		classID, pq.Array(studentIDs),
	)
	return errors.Wrap(err, "withdrawing students")
}

// GetEnrolledStudents returns the students of the class ordered by roll number.
func (repo rosterRepository) GetEnrolledStudents(ctx context.Context, classID string) ([]roster.Student, error) {
	students := make([]roster.Student, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &students, `
		SELECT s.id, s.name, s.roll_no, s.email
		FROM student s
		JOIN enrollment e ON e.student_id = s.id
		WHERE e.class_id = $1
		ORDER BY s.roll_no, s.id`,
		classID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "selecting enrolled students")
	}
	return students, nil
}
