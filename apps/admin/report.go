package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/report"
	"github.com/trezcool/gradebook/core/result"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	passColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
)

func (cli *commandLine) report(examID string) error {
	rep, err := cli.reportSvc.LoadReport(context.Background(), examID)
	if err != nil {
		return err
	}
	cli.printReport(rep)
	return nil
}

func (cli *commandLine) printReport(rep report.Report) {
	e := rep.Exam
	titleColor.Fprintf(cli.out, "%s (%s) - %s\n", e.Title, e.Type, e.ExamDate.Format(exam.DateLayout))
	fmt.Fprintf(cli.out, "class: %s | subject: %s | max marks: %d | status: %s\n\n", e.ClassID, e.SubjectID, e.MaxMarks, e.Status)

	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Roll", "Student", "Marks", "%", "Grade", "Result", "Remarks"})
	for _, entry := range rep.Roster {
		name := entry.Name
		if !entry.Enrolled {
			name += " (withdrawn)"
		}
		table.Append([]string{
			entry.RollNo,
			name,
			formatMarks(entry.Record),
			formatFloat(entry.Percentage),
			string(entry.Grade),
			formatPassed(entry.Passed),
			entry.Remarks,
		})
	}
	table.Render()

	stats := rep.Statistics
	fmt.Fprintln(cli.out)
	titleColor.Fprintln(cli.out, "Statistics")
	stable := tablewriter.NewWriter(cli.out)
	stable.SetHeader([]string{"Students", "Present", "Absent", "Graded", "Highest", "Lowest", "Average", "Passed", "Failed", "Pass %"})
	stable.Append([]string{
		strconv.Itoa(stats.TotalStudents),
		strconv.Itoa(stats.PresentCount),
		strconv.Itoa(stats.AbsentCount),
		strconv.Itoa(stats.GradedCount),
		formatInt(stats.HighestMarks),
		formatInt(stats.LowestMarks),
		formatFloat(stats.AverageMarks),
		strconv.Itoa(stats.PassedCount),
		strconv.Itoa(stats.FailedCount),
		strconv.FormatFloat(stats.PassPercentage, 'f', 2, 64),
	})
	stable.Render()
}

func formatMarks(r result.Record) string {
	if r.IsAbsent {
		return "ABS"
	}
	return formatInt(r.Marks)
}

func formatInt(v null.Int) string {
	if !v.Valid {
		return "-"
	}
	return strconv.Itoa(v.Int)
}

func formatFloat(v null.Float64) string {
	if !v.Valid {
		return "-"
	}
	return strconv.FormatFloat(v.Float64, 'f', 2, 64)
}

func formatPassed(v null.Bool) string {
	switch {
	case !v.Valid:
		return "-"
	case v.Bool:
		return passColor.Sprint("PASS")
	default:
		return failColor.Sprint("FAIL")
	}
}
