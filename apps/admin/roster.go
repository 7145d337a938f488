package main

import (
	"context"
	"fmt"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/roster"
)

// enroll adds or updates a student of the class roster.
func (cli *commandLine) enroll(classID string, st roster.Student) error {
	st.ID = core.CleanString(st.ID)
	st.Name = core.CleanString(st.Name)
	st.RollNo = core.CleanString(st.RollNo)
	st.Email = core.CleanString(st.Email, true /* lower */)
	if err := cli.roster.Enroll(context.Background(), core.CleanString(classID), st); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s (%s) enrolled in %s\n", st.Name, st.RollNo, classID)
	return nil
}

// withdraw removes a student from the class roster. Their results are kept.
func (cli *commandLine) withdraw(classID, studentID string) error {
	if err := cli.roster.Withdraw(context.Background(), core.CleanString(classID), core.CleanString(studentID)); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s withdrawn from %s\n", studentID, classID)
	return nil
}
