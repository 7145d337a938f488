package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/report"
	"github.com/trezcool/gradebook/core/result"
	"github.com/trezcool/gradebook/core/roster"
	"github.com/trezcool/gradebook/services/email"
	"github.com/trezcool/gradebook/services/logger"
	"github.com/trezcool/gradebook/storage/database/inmem"
	"github.com/trezcool/gradebook/tests"
)

type fixture struct {
	cli      *commandLine
	out      *bytes.Buffer
	exams    exam.Repository
	results  result.Repository
	roster   rosterManager
	mailSvc  *emailsvc.ConsoleServiceMock
	students []roster.Student
}

func setup(t *testing.T) *fixture {
	t.Helper()

	conf := core.NewTestConfig()
	logger := logsvc.NewDiscardLogger()

	db := inmemdb.Open()
	exams := inmemdb.NewExamRepository(db)
	results := inmemdb.NewResultRepository(db)
	var rm rosterManager = inmemdb.NewRosterRepository(db)

	validate := validator.New()
	examSvc := exam.NewService(exams, validate)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	out := new(bytes.Buffer)
	cli := &commandLine{
		db:        new(sql.DB), // never used: goose is mocked
		examSvc:   examSvc,
		reportSvc: report.NewService(examSvc, result.NewStore(results, exams), rm, mailSvc, logger),
		roster:    rm,
		out:       out,
	}
	return &fixture{
		cli:      cli,
		out:      out,
		exams:    exams,
		results:  results,
		roster:   rm,
		mailSvc:  mailSvc,
		students: testutil.SeedRoster(t, rm, "class-a", 3),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	f := setup(t)
	runCLITests(t, f.cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "report: no exam", args: []string{"report"}, wantErr: errHelp},
		{name: "publish: no exam", args: []string{"publish", "-yes"}, wantErr: errHelp},
		{name: "status: no target", args: []string{"status", "-exam", "x"}, wantErr: errHelp},
		{name: "enroll: missing name", args: []string{"enroll", "-class", "c", "-student", "s9", "-roll", "09"}, wantErr: errHelp},
		{name: "withdraw: no student", args: []string{"withdraw", "-class", "c"}, wantErr: errHelp},
	})
}

func Test_commandLine_migrate(t *testing.T) {
	f := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, f.cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_terms", "sql"}},
	})

	f.cli.db = nil
	runCLITests(t, f.cli, []cliTest{
		{name: "in-memory storage", args: []string{"migrate", "up"}, wantErr: errNoDatabase},
	})
}

func Test_commandLine_report(t *testing.T) {
	f := setup(t)
	e := testutil.CreateExam(t, f.exams, testutil.WithTitle("Algebra"))
	testutil.SetResults(t, f.results, e.ID, f.students, testutil.Marks(90), testutil.Marks(20), testutil.Marks(-1))

	runCLITests(t, f.cli, []cliTest{
		{name: "unknown exam", args: []string{"report", "-exam", "lol"}, wantErr: exam.ErrNotFound},
		{name: "report", args: []string{"report", "-exam", e.ID}},
	})

	out := f.out.String()
	assert.Contains(t, out, "Algebra (MIDTERM) - 2021-03-01")
	assert.Contains(t, out, "Student 1")
	assert.Contains(t, out, "90.00")
	assert.Contains(t, out, "A+")
	assert.Contains(t, out, "ABS")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "55.00") // average
	assert.Contains(t, out, "50.00") // pass percentage
}

func Test_commandLine_publish(t *testing.T) {
	origIsTerminal, origReadLine := isTerminalFunc, readLineFunc
	defer func() {
		isTerminalFunc, readLineFunc = origIsTerminal, origReadLine
	}()

	f := setup(t)
	e := testutil.CreateExam(t, f.exams)
	testutil.SetResults(t, f.results, e.ID, f.students, testutil.Marks(70), testutil.Marks(10))

	answer := "n\n"
	isTerminalFunc = func(int) bool { return true }
	readLineFunc = func() (string, error) { return answer, nil }

	runCLITests(t, f.cli, []cliTest{
		{name: "unknown exam", args: []string{"publish", "-exam", "lol", "-yes"}, wantErr: exam.ErrNotFound},
		{name: "declined", args: []string{"publish", "-exam", e.ID}, wantErr: errAborted},
	})
	got, err := f.exams.GetExam(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, exam.StatusCompleted, got.Status)

	isTerminalFunc = func(int) bool { return false }
	runCLITests(t, f.cli, []cliTest{
		{name: "not interactive", args: []string{"publish", "-exam", e.ID}, wantErr: errNotInteractive},
	})

	isTerminalFunc = func(int) bool { return true }
	answer = "Yes\n"
	runCLITests(t, f.cli, []cliTest{
		{name: "confirmed", args: []string{"publish", "-exam", e.ID}},
		{name: "again", args: []string{"publish", "-exam", e.ID, "-yes"}},
	})

	got, err = f.exams.GetExam(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, exam.StatusPublished, got.Status)
	assert.Len(t, f.mailSvc.SentMessages(), 3) // notified once
	assert.Contains(t, f.out.String(), "1/2 students passed")
}

func Test_commandLine_status(t *testing.T) {
	f := setup(t)
	e := testutil.CreateExam(t, f.exams, testutil.WithStatus(exam.StatusScheduled))

	runCLITests(t, f.cli, []cliTest{
		{name: "unknown status", args: []string{"status", "-exam", e.ID, "-to", "DONE"}, wantErrStr: `unknown status "DONE"`},
		{name: "skipping a step", args: []string{"status", "-exam", e.ID, "-to", "COMPLETED"}, wantErr: exam.ErrInvalidTransition},
		{name: "ongoing", args: []string{"status", "-exam", e.ID, "-to", "ONGOING"}},
		{name: "cancelled", args: []string{"status", "-exam", e.ID, "-to", "CANCELLED"}},
		{name: "publishing a cancelled exam", args: []string{"status", "-exam", e.ID, "-to", "PUBLISHED"}, wantErr: exam.ErrCancelled},
	})
	assert.Contains(t, f.out.String(), `"Algebra" is CANCELLED`)
	assert.Empty(t, f.mailSvc.SentMessages())

	completed := testutil.CreateExam(t, f.exams, testutil.WithTitle("Geometry"))
	runCLITests(t, f.cli, []cliTest{
		{name: "published", args: []string{"status", "-exam", completed.ID, "-to", "PUBLISHED"}},
		{name: "published again", args: []string{"status", "-exam", completed.ID, "-to", "PUBLISHED"}},
	})
	assert.Contains(t, f.out.String(), `"Geometry" is PUBLISHED`)
	assert.Len(t, f.mailSvc.SentMessages(), 3) // notified once
}

func Test_commandLine_roster(t *testing.T) {
	f := setup(t)
	rm := f.roster

	runCLITests(t, f.cli, []cliTest{
		{
			name: "enroll",
			args: []string{"enroll", "-class", "class-a", "-student", "s9", "-name", " Grace ", "-roll", "09", "-email", "Grace@School.test"},
		},
		{name: "withdraw", args: []string{"withdraw", "-class", "class-a", "-student", "s2"}},
	})

	students, err := rm.GetEnrolledStudents(context.Background(), "class-a")
	require.NoError(t, err)
	ids := make([]string, len(students))
	for i, st := range students {
		ids[i] = st.ID
	}
	assert.Equal(t, []string{"s1", "s3", "s9"}, ids)
	assert.Equal(t, "Grace", students[2].Name)
	assert.Equal(t, "grace@school.test", students[2].Email)
}
