// Package dig_container wires the API dependencies with a dig container.
package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/gradebook/apps/api/echo"
	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/report"
	"github.com/trezcool/gradebook/core/result"
	"github.com/trezcool/gradebook/core/roster"
	emailsvc "github.com/trezcool/gradebook/services/email"
	logsvc "github.com/trezcool/gradebook/services/logger"
	"github.com/trezcool/gradebook/storage/database"
	inmemdb "github.com/trezcool/gradebook/storage/database/inmem"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// CloseDBFunc releases the storage backend.
	CloseDBFunc func() error

	// Storage holds the repositories of the configured storage backend.
	Storage struct {
		dig.Out
		Exams   exam.Repository
		Results result.Repository
		Roster  roster.Provider
		Close   CloseDBFunc
	}

	serverParams struct {
		dig.In
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		ExamSvc    *exam.Service
		ReportSvc  *report.Service
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) Storage {
	logger := loggerParam.Logger

	if conf.Storage == core.StorageInMemory {
		logger.Warn("using in-memory storage: data is lost on shutdown")
		db := inmemdb.Open()
		return Storage{
			Exams:   inmemdb.NewExamRepository(db),
			Results: inmemdb.NewResultRepository(db),
			Roster:  inmemdb.NewRosterRepository(db),
			Close:   func() error { return nil },
		}
	}

	ctx := context.Background()
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	if err = database.Migrate(db, "up"); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}
	return Storage{
		Exams:   sqlxrepos.NewExamRepository(db),
		Results: sqlxrepos.NewResultRepository(db),
		Roster:  sqlxrepos.NewRosterRepository(db),
		Close:   db.Close,
	}
}

func newValidate(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	exam.InitValidators(validate, translator)
	return validate
}

// newReportService does not hold API requests while the publish notifications are sent.
func newReportService(
	examSvc *exam.Service,
	store *result.Store,
	rp roster.Provider,
	mailSvc core.EmailService,
	logger core.Logger,
) *report.Service {
	return report.NewService(examSvc, store, rp, mailSvc, logger, report.WithAsyncNotifications())
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.Options{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Validate:   p.Validate,
		Translator: p.Translator,
		ExamSvc:    p.ExamSvc,
		ReportSvc:  p.ReportSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(emailsvc.NewEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidate))
	must(c.Provide(exam.NewService))
	must(c.Provide(result.NewStore))
	must(c.Provide(newReportService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
