package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/report"
	"github.com/trezcool/gradebook/core/result"
	emailsvc "github.com/trezcool/gradebook/services/email"
	logsvc "github.com/trezcool/gradebook/services/logger"
	"github.com/trezcool/gradebook/storage/database"
	inmemdb "github.com/trezcool/gradebook/storage/database/inmem"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	cli := commandLine{out: os.Stdout}
	var (
		exams   exam.Repository
		results result.Repository
	)

	// set up storage
	if conf.Storage == core.StorageInMemory {
		db := inmemdb.Open()
		exams = inmemdb.NewExamRepository(db)
		results = inmemdb.NewResultRepository(db)
		cli.roster = inmemdb.NewRosterRepository(db)
	} else {
		db, err := database.Open(context.Background(), conf)
		if err != nil {
			logger.Fatal("opening database", err)
		}
		defer db.Close()
		cli.db = db.DB
		exams = sqlxrepos.NewExamRepository(db)
		results = sqlxrepos.NewResultRepository(db)
		cli.roster = sqlxrepos.NewRosterRepository(db)
	}

	// set up services
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	exam.InitValidators(validate, translator)

	cli.examSvc = exam.NewService(exams, validate)
	cli.reportSvc = report.NewService(
		cli.examSvc,
		result.NewStore(results, exams),
		cli.roster,
		emailsvc.NewEmailService(conf, logger),
		logger,
	)

	// start CLI
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		if cli.db != nil {
			_ = cli.db.Close()
		}
		os.Exit(1)
	}
}
