package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/user"
	emailsvc "github.com/scsit/ges/services/email"
	logsvc "github.com/scsit/ges/services/logger"
	"github.com/scsit/ges/storage/database"
	sqlxrepos "github.com/scsit/ges/storage/database/sqlx"
	"github.com/scsit/ges/storage/media"
)

func main() {
	conf := core.NewConfig()
	logger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()
	if err = database.Ping(db.DB); err != nil {
		logger.Fatal(err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	store := media.NewDiskStore(conf.Media.Dir, conf.Media.BaseURL, conf.Media.MaxUploadSize)
	mailSvc := emailsvc.NewConsoleService(conf, logsvc.NewRollbarLogger(logger, conf))

	// start CLI
	cli := commandLine{
		db:       db.DB,
		engine:   conf.Database.Engine,
		usrSvc:   user.NewService(sqlxrepos.NewUserRepository(db), store, mailSvc),
		validate: validate,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		db.Close()
		os.Exit(1)
	}
}
