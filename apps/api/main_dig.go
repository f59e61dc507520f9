package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	dig_container "github.com/trezcool/schoolconnect/apps/api/di/dig"
	echoapi "github.com/trezcool/schoolconnect/apps/api/echo"
	"github.com/trezcool/schoolconnect/core"
)

func startWithDig() {
	if err := dig_container.New().Invoke(run); err != nil {
		log.Fatal(err)
	}
}

// run serves the API until it fails or a shutdown signal arrives.
func run(
	conf *core.Config,
	logger core.Logger,
	dbLogger dig_container.DBLoggerParam,
	sqlParam dig_container.SQLParam,
	server *echoapi.Server,
) {
	logger.Info(fmt.Sprintf("starting %s (build %q, env %s, storage %s)", conf.AppName, conf.Build, conf.Env, conf.Database.Engine))
	defer logger.Info("Application stopped")
	if sqlParam.DB != nil {
		defer closeDB(sqlParam.DB, dbLogger.Logger)
	}

	go server.Start()
	logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)
	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v received, shutting down", sig))
		stop(server, conf, logger)
	}
}

// stop drains in-flight requests until the shutdown timeout, then drops the remaining connections.
func stop(server *echoapi.Server, conf *core.Config, logger core.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err == nil {
		return
	}
	logger.Error(fmt.Sprintf("graceful shutdown failed: %v", err), err)
	if err = server.Close(); err != nil {
		logger.Fatal(fmt.Sprintf("forced shutdown failed: %v", err), err)
	}
}

func closeDB(db *sqlx.DB, logger core.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("closing database", err)
	}
}
