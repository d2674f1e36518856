package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	echoapi "github.com/trezcool/edusurvey/apps/api/echo"
	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/checklist"
	"github.com/trezcool/edusurvey/core/consent"
	"github.com/trezcool/edusurvey/core/secret"
	"github.com/trezcool/edusurvey/core/survey"
	logsvc "github.com/trezcool/edusurvey/services/logger"
	neissvc "github.com/trezcool/edusurvey/services/neis"
	"github.com/trezcool/edusurvey/storage/database"
	sqlxrepos "github.com/trezcool/edusurvey/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB; the API still serves the directory lookups without it
	db, err := setUpDB(conf)
	switch {
	case errors.Is(err, core.ErrNotConfigured):
		dbLogger.Warn("database is not configured: school data endpoints will answer 500")
	case err != nil:
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	default:
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
	}

	// set up services
	secretSvc := secret.NewService(sqlxrepos.NewSecretRepository(db), core.NewOperator(conf))
	consentSvc := consent.NewService(sqlxrepos.NewConsentRepository(db))
	surveySvc := survey.NewService(
		sqlxrepos.NewSurveyRepository(db),
		sqlxrepos.NewProductRepository(db),
		sqlxrepos.NewReasonRepository(db),
	)

	var checklists *checklist.Store
	if conf.Checklists.Dir != "" {
		checklists = checklist.NewOsStore(conf.Checklists.Dir)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	if !core.NewOperator(conf).Configured() {
		logger.Warn("operator credentials are not configured: admin login and resets are disabled")
	}

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,
			Directory:  neissvc.NewClient(conf),
			SecretSvc:  secretSvc,
			ConsentSvc: consentSvc,
			SurveySvc:  surveySvc,
			Checklists: checklists,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpDB returns core.ErrNotConfigured when no datastore is configured.
func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
