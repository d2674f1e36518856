package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/checklist"
	"github.com/trezcool/edusurvey/core/consent"
	"github.com/trezcool/edusurvey/core/secret"
	"github.com/trezcool/edusurvey/core/survey"
	logsvc "github.com/trezcool/edusurvey/services/logger"
	"github.com/trezcool/edusurvey/storage/database"
	sqlxrepos "github.com/trezcool/edusurvey/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB; emptychecklists works without it
	db, err := database.Open(conf)
	if err != nil && !errors.Is(err, core.ErrNotConfigured) {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	var checklists *checklist.Store
	if conf.Checklists.Dir != "" {
		checklists = checklist.NewOsStore(conf.Checklists.Dir)
	}

	// start CLI
	cli := commandLine{
		db:         db,
		fs:         afero.NewOsFs(),
		secretSvc:  secret.NewService(sqlxrepos.NewSecretRepository(db), core.NewOperator(conf)),
		consentSvc: consent.NewService(sqlxrepos.NewConsentRepository(db)),
		surveySvc:  survey.NewService(sqlxrepos.NewSurveyRepository(db), sqlxrepos.NewProductRepository(db), sqlxrepos.NewReasonRepository(db)),
		checklists: checklists,
		in:         os.Stdin,
		out:        os.Stdout,
	}
	err = cli.run(os.Args)
	if db != nil {
		_ = db.Close()
	}
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		os.Exit(1)
	}
}
