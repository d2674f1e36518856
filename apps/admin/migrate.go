package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "migrate COMMAND [ARGS...]",
		Short:              "Run a goose migration command (up, down, status, version...)",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.migrate(args)
		},
	}
}

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return core.ErrNotConfigured
	}
	return gooseRunFunc(context.Background(), cli.db, args[0], args[1:]...)
}
