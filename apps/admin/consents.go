package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/consent"
)

func (cli *commandLine) consentsCmd() *cobra.Command {
	var schoolCode string
	cmd := &cobra.Command{
		Use:   "consents --school CODE",
		Short: "List the personal data consents recorded for a school, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := core.NormalizeSchoolCode(schoolCode); !ok {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.listConsents(schoolCode)
		},
	}
	cmd.Flags().StringVar(&schoolCode, "school", "", "The school code as typed by the staff (e.g. 7010911 or B107010911).")
	return cmd
}

func (cli *commandLine) listConsents(schoolCode string) error {
	records, err := cli.consentSvc.QueryBySchool(context.Background(), schoolCode)
	if err != nil {
		return err
	}
	cli.printConsentTable(records)
	return nil
}

// printConsentTable prints consents in a human-readable table format.
func (cli *commandLine) printConsentTable(records []consent.Record) {
	if len(records) == 0 {
		cli.printf("No consents found.\n")
		return
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tROLE\tIP\tUSER AGENT")
	fmt.Fprintln(w, "-------\t----\t--\t----------")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.CreatedAt.Local().Format(time.RFC3339),
			rec.Role,
			orDash(rec.ClientAddress.String),
			orDash(rec.UserAgent.String),
		)
	}
	_ = w.Flush()
	cli.printf("%d consent(s)\n", len(records))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
