package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/edusurvey/core/checklist"
	"github.com/trezcool/edusurvey/core/consent"
	"github.com/trezcool/edusurvey/core/secret"
	"github.com/trezcool/edusurvey/core/survey"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sqlx.DB // nil when the datastore is not configured
	fs         afero.Fs
	secretSvc  *secret.Service
	consentSvc *consent.Service
	surveySvc  *survey.Service
	checklists *checklist.Store
	in         io.Reader
	out        io.Writer

	reader *bufio.Reader
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "EduSurvey operator tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(
		cli.migrateCmd(),
		cli.resetPasswordCmd(),
		cli.consentsCmd(),
		cli.emptyChecklistsCmd(),
		cli.importProductsCmd(),
	)
	return root
}

// run executes os.Args style `args` (the first one is the program name).
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, a...)
}

// readLine prompts then reads one trimmed line of cli.in.
func (cli *commandLine) readLine(prompt string) (string, error) {
	if cli.reader == nil {
		cli.reader = bufio.NewReader(cli.in)
	}
	cli.printf("%s", prompt)
	line, err := cli.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret prompts then reads a line without echoing it.
func (cli *commandLine) readSecret(prompt string) (string, error) {
	cli.printf("%s", prompt)
	b, err := readPasswordFunc(int(syscall.Stdin))
	cli.printf("\n")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
