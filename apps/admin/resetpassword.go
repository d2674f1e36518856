package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/secret"
)

func (cli *commandLine) resetPasswordCmd() *cobra.Command {
	var schoolCode string
	cmd := &cobra.Command{
		Use:   "resetpassword --school CODE",
		Short: "Reset a school password to " + secret.DefaultPIN + "; the operator credentials are prompted next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := core.NormalizeSchoolCode(schoolCode); !ok {
				_ = cmd.Usage()
				return errHelp
			}

			name, err := cli.readLine("Operator name: ")
			if err != nil {
				return err
			}
			code, err := cli.readSecret("Operator code: ")
			if err != nil {
				return err
			}
			if name == "" || code == "" {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.resetPassword(schoolCode, name, code)
		},
	}
	cmd.Flags().StringVar(&schoolCode, "school", "", "The school code (7 digits or 10 chars e.g. B107010911).")
	return cmd
}

func (cli *commandLine) resetPassword(schoolCode, operatorName, operatorCode string) error {
	if err := cli.secretSvc.ResetSecret(context.Background(), schoolCode, operatorName, operatorCode); err != nil {
		return err
	}
	cli.printf("Password of %s reset to %s\n", schoolCode, secret.DefaultPIN)
	return nil
}
