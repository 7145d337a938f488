package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/gradebook/core/roster"
)

type rosterRepository struct {
	db *DB
}

var _ roster.Provider = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *DB) *rosterRepository {
	return &rosterRepository{db: db}
}

// Enroll adds the students to the class, creating or updating them.
func (repo *rosterRepository) Enroll(_ context.Context, classID string, students ...roster.Student) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ids := repo.db.enrolled[classID]
	for _, st := range students {
		st := st
		if !contains(ids, st.ID) {
			ids = append(ids, st.ID)
		}
		repo.db.students[st.ID] = &st
	}
	repo.db.enrolled[classID] = ids
	return nil
}

// Withdraw removes the students from the class.
func (repo *rosterRepository) Withdraw(_ context.Context, classID string, studentIDs ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ids := repo.db.enrolled[classID][:0]
	for _, id := range repo.db.enrolled[classID] {
		if !contains(studentIDs, id) {
			ids = append(ids, id)
		}
	}
	repo.db.enrolled[classID] = ids
	return nil
}

// GetEnrolledStudents returns the students of the class ordered by roll number.
func (repo *rosterRepository) GetEnrolledStudents(_ context.Context, classID string) ([]roster.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]roster.Student, 0, len(repo.db.enrolled[classID]))
	for _, id := range repo.db.enrolled[classID] {
		if st, ok := repo.db.students[id]; ok {
			students = append(students, *st)
		}
	}
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].RollNo != students[j].RollNo {
			return students[i].RollNo < students[j].RollNo
		}
		return students[i].ID < students[j].ID
	})
	return students, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
