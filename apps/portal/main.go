package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/scsit/ges/portal"
	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/session"
)

func main() {
	logger := log.New(os.Stderr, "PORTAL : ", log.LstdFlags)

	conf, err := portal.NewConfig()
	if err != nil {
		logger.Fatal(err)
	}
	store := session.NewFileStore(conf.SessionFile, conf.SessionKey)
	client := apiclient.New(conf.APIURL, store, apiclient.OnUnauthorized(func() {
		logger.Println("session cleared, run: login")
	}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cli := commandLine{client: client, store: store, out: os.Stdout}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Printf("error: %s\n", err)
		}
		cancel()
		os.Exit(1)
	}
}
