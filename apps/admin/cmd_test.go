package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/checklist"
	"github.com/trezcool/edusurvey/core/consent"
	"github.com/trezcool/edusurvey/core/secret"
	"github.com/trezcool/edusurvey/core/survey"
	sqlxrepos "github.com/trezcool/edusurvey/storage/database/sqlx"
	testutil "github.com/trezcool/edusurvey/tests"
)

const checklistsDir = "/checklists"

var (
	secretRepo  secret.Repository
	consentRepo consent.Repository
	productRepo survey.ProductRepository
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	secretRepo = sqlxrepos.NewSecretRepository(db)
	consentRepo = sqlxrepos.NewConsentRepository(db)
	productRepo = sqlxrepos.NewProductRepository(db)

	conf := core.NewTestConfig()
	fs := afero.NewMemMapFs()
	out := new(bytes.Buffer)

	// start CLI
	return &commandLine{
		db:         db,
		fs:         fs,
		secretSvc:  secret.NewService(secretRepo, core.NewOperator(conf)),
		consentSvc: consent.NewService(consentRepo),
		surveySvc:  survey.NewService(sqlxrepos.NewSurveyRepository(db), productRepo, sqlxrepos.NewReasonRepository(db)),
		checklists: checklist.NewStore(fs, checklistsDir),
		in:         strings.NewReader(""),
		out:        out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	input      string   // stdin
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
			t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
		}
	case err != nil:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func (cli *commandLine) reset(input string) {
	cli.in = strings.NewReader(input)
	cli.reader = nil
}

func Test_commandLine_root(t *testing.T) {
	cli, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErrStr: `unknown command "lol"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	origRun := gooseRunFunc
	t.Cleanup(func() { gooseRunFunc = origRun })

	var ran []string
	gooseRunFunc = func(ctx context.Context, db *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, strings.TrimSpace(command+" "+strings.Join(args, " ")))
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "eduzip", "sql"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}
	assert.Equal(t, []string{"up", "up-to 2", "down-to 1", "status", "create eduzip sql"}, ran)

	t.Run("not configured", func(t *testing.T) {
		cli.db = nil
		err := cli.run([]string{"admin", "migrate", "up"})
		assert.ErrorIs(t, err, core.ErrNotConfigured)
	})
}

func Test_commandLine_migrate_embedded(t *testing.T) {
	cli, _ := setup(t)

	// embedded migrations, already applied by PrepareDB
	require.NoError(t, cli.run([]string{"admin", "migrate", "version"}))
	require.NoError(t, cli.run([]string{"admin", "migrate", "up"}))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, out := setup(t)
	testutil.CreateSecret(t, secretRepo, "B107010911", "1234")

	origRead := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = origRead })

	type extra struct {
		code string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "invalid school", args: []string{"resetpassword", "--school", "B1070109110000"}, wantErr: errHelp},
		{name: "unexpected arg", args: []string{"resetpassword", "B107010911"}, wantErrStr: "unknown command"},
		{name: "no operator name", args: []string{"resetpassword", "--school", "B107010911"}, extra: extra{code: "OP1234"}, wantErr: errHelp},
		{name: "no operator code", args: []string{"resetpassword", "--school", "B107010911"}, input: "운영자\n", wantErr: errHelp},
		{
			name:    "wrong operator",
			args:    []string{"resetpassword", "--school", "B107010911"},
			input:   "운영자\n",
			extra:   extra{code: "nope"},
			wantErr: secret.ErrUnauthorized,
		},
		{
			name:  "reset",
			args:  []string{"resetpassword", "--school", "b107010911"},
			input: " 운영자 \n",
			extra: extra{code: "op 1234"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli.reset(tt.input)
			readPasswordFunc = func(fd int) ([]byte, error) {
				if extra, ok := tt.extra.(extra); ok {
					return []byte(extra.code), nil
				}
				return nil, nil
			}

			err := cli.run(append([]string{"admin"}, tt.args...))
			tt.check(t, err)

			valid, vErr := cli.secretSvc.VerifySecret(context.Background(), "B107010911", secret.DefaultPIN)
			require.NoError(t, vErr)
			assert.Equal(t, err == nil, valid, "password reset iff the command succeeded")
		})
	}
	assert.Contains(t, out.String(), "Password of b107010911 reset to 0000")
}

func Test_commandLine_emptyChecklists(t *testing.T) {
	cli, out := setup(t)

	for _, name := range []string{"초등.hwpx", "중등.pdf", "old/2023.zip"} {
		require.NoError(t, afero.WriteFile(cli.fs, checklistsDir+"/"+name, []byte("doc"), 0o644))
	}
	countFiles := func() int {
		var n int
		_ = afero.Walk(cli.fs, checklistsDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				n++
			}
			return nil
		})
		return n
	}

	tests := []cliTest{
		{name: "unexpected arg", args: []string{"emptychecklists", "all"}, wantErrStr: "unknown command"},
		{name: "not confirmed", args: []string{"emptychecklists"}, input: "n\n", extra: 3},
		{name: "confirmed", args: []string{"emptychecklists"}, input: "Y\n", extra: 0},
		{name: "already empty", args: []string{"emptychecklists", "--yes"}, extra: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli.reset(tt.input)
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
			if want, ok := tt.extra.(int); ok {
				assert.Equal(t, want, countFiles())
			}
		})
	}
	assert.Contains(t, out.String(), "Aborted")
	assert.Contains(t, out.String(), "Deleted 2 checklist file(s)")
	assert.Contains(t, out.String(), "Deleted 0 checklist file(s)")

	t.Run("no checklist directory", func(t *testing.T) {
		cli.checklists = nil
		err := cli.run([]string{"admin", "emptychecklists", "--yes"})
		assert.ErrorIs(t, err, core.ErrNotConfigured)
	})
}

func Test_commandLine_importProducts(t *testing.T) {
	cli, out := setup(t)

	files := map[string]string{
		"/eduzip.csv": "\ufeffID,Name,Provider,criteria_1_1,criteria_1_2\n" +
			"1,Padlet,Wallwisher,충족,충족\n" +
			"2,\"Kahoot, Quiz\",Kahoot ASA,미충족,\n",
		"/bad_id.csv":    "id,name\nx1,Padlet\n",
		"/no_name.csv":   "id,provider\n1,Wallwisher\n",
		"/blank_row.csv": "id,name\n3,Canva\n4,\n",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(cli.fs, name, []byte(content), 0o644))
	}

	tests := []cliTest{
		{name: "no file", args: []string{"importproducts"}, wantErr: errHelp},
		{name: "missing file", args: []string{"importproducts", "/nope.csv"}, wantErrStr: "opening products file"},
		{name: "invalid id", args: []string{"importproducts", "/bad_id.csv"}, wantErrStr: `products line 2: invalid id "x1"`},
		{name: "missing name column", args: []string{"importproducts", "/no_name.csv"}, wantErrStr: `missing "name" column`},
		{name: "stops at the invalid row", args: []string{"importproducts", "/blank_row.csv"}, wantErrStr: "product #2"},
		{name: "import", args: []string{"importproducts", "/eduzip.csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	products, err := productRepo.QueryProducts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Canva", products[0].Name)
	assert.Equal(t, "Kahoot, Quiz", products[1].Name)
	assert.Equal(t, "미충족", products[1].Criteria1_1)
	assert.Equal(t, "Padlet", products[2].Name)
	assert.Equal(t, "Wallwisher", products[2].Provider)
	assert.Equal(t, "충족", products[2].Criteria1_2)

	assert.Contains(t, out.String(), "Imported 1/2 product(s)")
	assert.Contains(t, out.String(), "Imported 2/2 product(s)")
}

func Test_readProducts(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		want       []survey.Product
		wantErrStr string
	}{
		{name: "empty", csv: "", wantErrStr: "reading products header"},
		{name: "missing id", csv: "name\nPadlet\n", wantErrStr: `products header: missing "id" column`},
		{name: "header only", csv: "id,name\n", want: []survey.Product{}},
		{
			name: "any column order",
			csv:  "Type, Name ,ID,criteria_5_3\nboard,Padlet,7,충족\n",
			want: []survey.Product{{ID: 7, Name: "Padlet", Type: "board", Criteria5_3: "충족"}},
		},
		{
			name: "short rows",
			csv:  "id,name,provider\n1,Padlet\n2,Kahoot,Kahoot ASA\n",
			want: []survey.Product{
				{ID: 1, Name: "Padlet"},
				{ID: 2, Name: "Kahoot", Provider: "Kahoot ASA"},
			},
		},
		{name: "invalid id", csv: "id,name\n1,Padlet\n,Kahoot\n", wantErrStr: `products line 3: invalid id ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readProducts(strings.NewReader(tt.csv))
			if tt.wantErrStr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrStr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_commandLine_consents(t *testing.T) {
	cli, out := setup(t)

	ctx := context.Background()
	for _, nr := range []consent.NewRecord{
		{SchoolCode: "7010911", Role: "teacher", ClientAddress: "203.0.113.7", UserAgent: "Mozilla/5.0"},
		{SchoolCode: "7010911", Role: "manager"},
		{SchoolCode: "7150101", Role: "teacher", ClientAddress: "198.51.100.4"},
	} {
		_, err := cli.consentSvc.Record(ctx, nr)
		require.NoError(t, err)
	}

	tests := []cliTest{
		{name: "no school", args: []string{"consents"}, wantErr: errHelp},
		{name: "invalid school", args: []string{"consents", "--school", "B1070109110000"}, wantErr: errHelp},
		{name: "unexpected arg", args: []string{"consents", "7010911"}, wantErrStr: "unknown command"},
		{name: "no consent", args: []string{"consents", "--school", "B107010911"}, extra: "No consents found."},
		{name: "school consents", args: []string{"consents", "--school", " 7010911 "}, extra: "2 consent(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
			if want, ok := tt.extra.(string); ok {
				assert.Contains(t, out.String(), want)
			}
		})
	}

	// the last listing
	assert.Contains(t, out.String(), "203.0.113.7")
	assert.Contains(t, out.String(), "Mozilla/5.0")
	assert.Contains(t, out.String(), "manager")
	assert.NotContains(t, out.String(), "198.51.100.4")

	t.Run("not configured", func(t *testing.T) {
		cli.consentSvc = consent.NewService(sqlxrepos.NewConsentRepository(nil))
		err := cli.run([]string{"admin", "consents", "--school", "7010911"})
		assert.ErrorIs(t, err, core.ErrNotConfigured)
	})
}
