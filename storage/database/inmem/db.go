package inmemdb

import (
	"sync"
	"time"

	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/result"
	"github.com/trezcool/gradebook/core/roster"
)

var nowFunc = time.Now // mockable

type resultKey struct {
	examID    string
	studentID string
}

// DB is a process-local store. A single RWMutex guards every table,
// so a results upsert observes the exam status it is guarded by atomically.
type DB struct {
	mu sync.RWMutex

	exams    map[string]*exam.Exam // {id: exam}
	results  map[resultKey]*result.Record
	students map[string]*roster.Student // {id: student}
	enrolled map[string][]string        // {classID: studentIDs}
}

func Open() *DB {
	return &DB{
		exams:    make(map[string]*exam.Exam),
		results:  make(map[resultKey]*result.Record),
		students: make(map[string]*roster.Student),
		enrolled: make(map[string][]string),
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.exams = make(map[string]*exam.Exam)
	db.results = make(map[resultKey]*result.Record)
	db.students = make(map[string]*roster.Student)
	db.enrolled = make(map[string][]string)
}
