package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/edusurvey/apps/api/echo"
	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/access"
	"github.com/trezcool/edusurvey/core/checklist"
	"github.com/trezcool/edusurvey/core/consent"
	"github.com/trezcool/edusurvey/core/school"
	"github.com/trezcool/edusurvey/core/secret"
	"github.com/trezcool/edusurvey/core/survey"
	"github.com/trezcool/edusurvey/services/logger"
	"github.com/trezcool/edusurvey/storage/database/sqlx"
	testutil "github.com/trezcool/edusurvey/tests"
)

const checklistsDir = "/checklists"

var (
	conf        *core.Config
	dir         *fakeDirectory
	secretRepo  secret.Repository
	consentRepo consent.Repository
	surveyRepo  survey.Repository
	productRepo survey.ProductRepository
	reasonRepo  survey.ReasonRepository
	checklistFs afero.Fs

	seoulElementary = school.Record{
		Name:          "서울초등학교",
		Address:       "서울특별시 종로구 사직로 1",
		TypeLabel:     "초등학교",
		StandardCode:  "7010911",
		AuthorityCode: "B10",
	}
	seoulMiddle = school.Record{
		Name:          "서울중학교",
		Address:       "서울특별시 서초구 효령로 2",
		TypeLabel:     "중학교",
		StandardCode:  "7010912",
		AuthorityCode: "B10",
	}
	busanElementary = school.Record{
		Name:          "부산초등학교",
		Address:       "부산광역시 중구 중앙대로 3",
		TypeLabel:     "초등학교",
		StandardCode:  "7150101",
		AuthorityCode: "C10",
	}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

// fakeDirectory adds a canned dataset proxy to the in-memory school directory.
type fakeDirectory struct {
	*school.FakeDirectory
	proxyBody   json.RawMessage
	proxyErr    error
	proxyParams url.Values
}

func (d *fakeDirectory) Proxy(_ context.Context, params url.Values) (json.RawMessage, error) {
	d.proxyParams = params
	if d.proxyErr != nil {
		return nil, d.proxyErr
	}
	return d.proxyBody, nil
}

func newTranslator() ut.Translator {
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	return translator
}

// setup builds a Server backed by a fresh sqlite database.
// opts may alter the test config before the server reads it.
func setup(t *testing.T, opts ...func(*core.Config)) Server {
	return newServer(t, testutil.PrepareDB(t), opts...)
}

// newServer builds a Server on db; a nil db behaves as an unconfigured datastore.
func newServer(t *testing.T, db *sqlx.DB, opts ...func(*core.Config)) Server {
	conf = core.NewTestConfig()
	for _, opt := range opts {
		opt(conf)
	}

	// set up repos
	secretRepo = sqlxrepos.NewSecretRepository(db)
	consentRepo = sqlxrepos.NewConsentRepository(db)
	surveyRepo = sqlxrepos.NewSurveyRepository(db)
	productRepo = sqlxrepos.NewProductRepository(db)
	reasonRepo = sqlxrepos.NewReasonRepository(db)

	// set up services
	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	dir = &fakeDirectory{FakeDirectory: school.NewFakeDirectory(seoulElementary, seoulMiddle, busanElementary)}
	checklistFs = afero.NewMemMapFs()

	lgr := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	lgr.Enable(false)

	// set up server
	app := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         lgr,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		Directory:      dir,
		SecretSvc:      secret.NewService(secretRepo, core.NewOperator(conf)),
		ConsentSvc:     consent.NewService(consentRepo),
		SurveySvc:      survey.NewService(surveyRepo, productRepo, reasonRepo),
		Checklists:     checklist.NewStore(checklistFs, checklistsDir),
	})
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, schoolCode, schoolName string, role core.Role) string {
	claims := NewClaims(conf, access.Entry{SchoolCode: schoolCode, SchoolName: schoolName, Role: role})
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

// getAudienceToken signs a valid teacher token for another audience.
func getAudienceToken(t *testing.T, schoolCode, audience string) string {
	claims := NewClaims(conf, access.Entry{SchoolCode: schoolCode, SchoolName: "서울초등학교", Role: core.RoleTeacher})
	claims.Audience = audience
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getAudienceToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	if len(b1) == 0 && len(b2) == 0 {
		return true, nil
	}
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	if _, ok := j2.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
