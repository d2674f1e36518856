package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/trezcool/edusurvey/core"
)

func (cli *commandLine) emptyChecklistsCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "emptychecklists",
		Short: "Delete every checklist document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cli.checklists == nil {
				return core.ErrNotConfigured
			}
			if !yes {
				answer, err := cli.readLine("Delete every checklist document? [y/N] ")
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					cli.printf("Aborted\n")
					return nil
				}
			}
			return cli.emptyChecklists()
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")
	return cmd
}

func (cli *commandLine) emptyChecklists() error {
	if cli.checklists == nil {
		return core.ErrNotConfigured
	}
	n, err := cli.checklists.Empty()
	if err != nil {
		return err
	}
	cli.printf("Deleted %d checklist file(s)\n", n)
	return nil
}
