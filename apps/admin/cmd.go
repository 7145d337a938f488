package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/report"
	"github.com/trezcool/gradebook/core/roster"
)

var (
	// mockable
	isTerminalFunc = term.IsTerminal
	readLineFunc   = func() (string, error) {
		return bufio.NewReader(os.Stdin).ReadString('\n')
	}

	errHelp           = errors.New("help provided")
	errNotInteractive = errors.New("not an interactive terminal: pass -yes to confirm")
	errAborted        = errors.New("aborted")
	errNoDatabase     = errors.New("migrations need the postgres storage")
)

// rosterManager is implemented by the roster repositories.
type rosterManager interface {
	roster.Provider
	Enroll(ctx context.Context, classID string, students ...roster.Student) error
	Withdraw(ctx context.Context, classID string, studentIDs ...string) error
}

type commandLine struct {
	db        *sql.DB // nil with the in-memory storage
	examSvc   *exam.Service
	reportSvc *report.Service
	roster    rosterManager
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...]                                 - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  report -exam ID                                           - print the report sheet and statistics of an exam")
	fmt.Fprintln(cli.out, "  publish -exam ID [-yes]                                   - publish the results of an exam")
	fmt.Fprintln(cli.out, "  status -exam ID -to STATUS                                - change the status of an exam")
	fmt.Fprintln(cli.out, "  enroll -class ID -student ID -name NAME -roll NO [-email] - enroll a student in a class")
	fmt.Fprintln(cli.out, "  withdraw -class ID -student ID                            - withdraw a student from a class")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportExam := reportCmd.String("exam", "", "The exam ID.")

	publishCmd := flag.NewFlagSet("publish", flag.ContinueOnError)
	publishExam := publishCmd.String("exam", "", "The exam ID.")
	publishYes := publishCmd.Bool("yes", false, "Do not ask for confirmation.")

	statusCmd := flag.NewFlagSet("status", flag.ContinueOnError)
	statusExam := statusCmd.String("exam", "", "The exam ID.")
	statusTo := statusCmd.String("to", "", "The target status: ONGOING, COMPLETED, CANCELLED or PUBLISHED.")

	enrollCmd := flag.NewFlagSet("enroll", flag.ContinueOnError)
	enrollClass := enrollCmd.String("class", "", "The class ID.")
	enrollStudent := enrollCmd.String("student", "", "The student ID.")
	enrollName := enrollCmd.String("name", "", "The student's full name.")
	enrollRoll := enrollCmd.String("roll", "", "The student's roll number.")
	enrollEmail := enrollCmd.String("email", "", "The student's email address, for notifications.")

	withdrawCmd := flag.NewFlagSet("withdraw", flag.ContinueOnError)
	withdrawClass := withdrawCmd.String("class", "", "The class ID.")
	withdrawStudent := withdrawCmd.String("student", "", "The student ID.")

	for _, fs := range []*flag.FlagSet{reportCmd, publishCmd, statusCmd, enrollCmd, withdrawCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *reportExam == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(*reportExam)
	case "publish":
		if err := publishCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *publishExam == "" {
			publishCmd.Usage()
			return errHelp
		}
		return cli.publish(*publishExam, *publishYes)
	case "status":
		if err := statusCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *statusExam == "" || *statusTo == "" {
			statusCmd.Usage()
			return errHelp
		}
		return cli.status(*statusExam, *statusTo)
	case "enroll":
		if err := enrollCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *enrollClass == "" || *enrollStudent == "" || *enrollName == "" || *enrollRoll == "" {
			enrollCmd.Usage()
			return errHelp
		}
		return cli.enroll(*enrollClass, roster.Student{
			ID:     *enrollStudent,
			Name:   *enrollName,
			RollNo: *enrollRoll,
			Email:  *enrollEmail,
		})
	case "withdraw":
		if err := withdrawCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *withdrawClass == "" || *withdrawStudent == "" {
			withdrawCmd.Usage()
			return errHelp
		}
		return cli.withdraw(*withdrawClass, *withdrawStudent)
	default:
		cli.printUsage()
		return errHelp
	}
}

// confirm asks a yes/no question on the terminal.
func (cli *commandLine) confirm(question string) error {
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return errNotInteractive
	}
	fmt.Fprintf(cli.out, "%s [y/N]: ", question)
	answer, err := readLineFunc()
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errAborted
	}
}
