package main

import (
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/storage/database"
	sqlxrepos "github.com/trezcool/schoolconnect/storage/database/sqlx"
)

var logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

// main runs one admin command against the Postgres database, creating it on first use.
func main() {
	if err := adminMain(core.NewConfig(), os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			logger.Printf("error: %s", err)
		}
		os.Exit(1)
	}
}

func adminMain(conf *core.Config, args []string) error {
	if err := database.CreateIfNotExist(conf); err != nil {
		return err
	}
	db, err := database.Open(conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	cli := commandLine{db: db.DB, usrRepo: sqlxrepos.NewUserRepository(db)}
	return cli.run(args)
}
