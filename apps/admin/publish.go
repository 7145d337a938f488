package main

import (
	"context"
	"fmt"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
)

func (cli *commandLine) publish(examID string, yes bool) error {
	ctx := context.Background()
	e, err := cli.examSvc.Get(ctx, examID)
	if err != nil {
		return err
	}
	if !yes {
		question := fmt.Sprintf("Publish the results of %q? They can no longer be modified afterwards.", e.Title)
		if err = cli.confirm(question); err != nil {
			return err
		}
	}

	rep, err := cli.reportSvc.Publish(ctx, examID)
	if err != nil {
		return err
	}
	passColor.Fprintf(cli.out, "%q published: %d/%d students passed\n",
		rep.Exam.Title, rep.Statistics.PassedCount, rep.Statistics.GradedCount)
	return nil
}

func (cli *commandLine) status(examID, to string) error {
	target := exam.Status(core.CleanString(to))
	if !target.IsValid() {
		return fmt.Errorf("unknown status %q", to)
	}

	var e exam.Exam
	if target == exam.StatusPublished {
		rep, err := cli.reportSvc.Publish(context.Background(), examID)
		if err != nil {
			return err
		}
		e = rep.Exam
	} else {
		var err error
		if e, err = cli.examSvc.Transition(context.Background(), examID, target); err != nil {
			return err
		}
	}
	fmt.Fprintf(cli.out, "%q is %s\n", e.Title, e.Status)
	return nil
}
