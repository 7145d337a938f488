// Package roster describes the class roster collaborator: which students sit an exam.
package roster

import (
	"context"
	"net/mail"
)

type Student struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	RollNo string `json:"roll_no" db:"roll_no"`
	Email  string `json:"email,omitempty" db:"email"`
}

// Address returns the student's email address, if they have one.
func (s Student) Address() (mail.Address, bool) {
	if s.Email == "" {
		return mail.Address{}, false
	}
	return mail.Address{Name: s.Name, Address: s.Email}, true
}

// Provider returns the students enrolled in a class.
// The list must be stable (ordered by roll number) and free of duplicates.
type Provider interface {
	GetEnrolledStudents(ctx context.Context, classID string) ([]Student, error)
}
