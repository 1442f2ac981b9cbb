package main

import (
	"github.com/pressly/goose"
	cli "gopkg.in/urfave/cli.v1"

	_ "github.com/digitalearthpacific/dep-fc/migrations"
	"github.com/digitalearthpacific/dep-fc/util"
)

func migrateDatabaseAction(*cli.Context) error {
	database, err := getDbConnectionFunc(&util.BasicLogContext{})
	if err != nil {
		return cli.NewExitError("Could not open database connection: "+err.Error(), 1)
	}
	defer database.Close()

	if err = goose.Run("up", database, "."); err != nil {
		return cli.NewExitError("Migration failed: "+err.Error(), 1)
	}
	return nil
}
