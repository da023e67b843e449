package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	echoapi "github.com/scsit/ges/apps/api/echo"
	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/program"
	"github.com/scsit/ges/core/student"
	"github.com/scsit/ges/core/user"
	appfs "github.com/scsit/ges/fs"
	emailsvc "github.com/scsit/ges/services/email"
	logsvc "github.com/scsit/ges/services/logger"
	"github.com/scsit/ges/storage/database"
	inmemdb "github.com/scsit/ges/storage/database/inmem"
	sqlxrepos "github.com/scsit/ges/storage/database/sqlx"
	"github.com/scsit/ges/storage/media"
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

	// set up repositories: in-memory in TEST mode, PostgreSQL otherwise
	var (
		usrRepo  user.Repository
		progRepo program.Repository
	)
	if conf.TestMode {
		mem := inmemdb.Open()
		usrRepo, progRepo = inmemdb.NewUserRepository(mem), inmemdb.NewProgramRepository(mem)
	} else {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		usrRepo, progRepo = sqlxrepos.NewUserRepository(db), sqlxrepos.NewProgramRepository(db)
	}

	store, err := setUpMedia(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up media storage: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(usrRepo, store, mailSvc)
	progSvc := program.NewService(progRepo)
	studSvc := student.NewService(usrRepo, progRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : %s", conf))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	program.InitValidators(validate, translator)

	if err = core.ParseEmailTemplates(appfs.FS, "templates/email"); err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
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
			UserSvc:    usrSvc,
			ProgramSvc: progSvc,
			StudentSvc: studSvc,
			Validate:   validate,
			Translator: translator,
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

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Ping(db.DB); err != nil {
		return nil, err
	}
	if err = database.Migrate(db.DB, conf.Database.Engine); err != nil {
		return nil, err
	}
	return db, nil
}

func setUpMedia(conf *core.Config) (core.MediaStore, error) {
	switch conf.Media.Backend {
	case "minio":
		return media.NewMinIOStore(context.Background(), conf.Media)
	case "disk":
		return media.NewDiskStore(conf.Media.Dir, conf.Media.BaseURL, conf.Media.MaxUploadSize), nil
	default:
		return nil, errors.Errorf("unknown media backend %q", conf.Media.Backend)
	}
}
