package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/edusurvey/core"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to EduSurvey API!", rec.Body.String())
}

func Test_cors_preflight(t *testing.T) {
	app := setup(t)

	for _, path := range []string{"/admin-login", "/school-password", "/workspace/surveys"} {
		t.Run(path, func(t *testing.T) {
			req, rec := newRequest(http.MethodOptions, path)
			req.Header.Set("Origin", "https://school.example.kr")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			app.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
		})
	}
}

func Test_adminApi_login(t *testing.T) {
	app := setup(t)

	ok := func(b bool) []byte { return marchallObj(t, map[string]interface{}{"ok": b}) }

	tests := []httpTest{
		{
			name:     "wrong method",
			method:   http.MethodGet,
			path:     "/admin-login",
			wantCode: http.StatusMethodNotAllowed,
			wantData: marchallObj(t, httpErr{Error: "Method Not Allowed"}),
		},
		{
			name:     "invalid JSON",
			method:   http.MethodPost,
			path:     "/admin-login",
			body:     []byte(`{"school_name": `),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]interface{}{"ok": false, "error": "Invalid JSON"}),
		},
		{
			name:     "empty credentials",
			method:   http.MethodPost,
			path:     "/admin-login",
			body:     []byte(`{}`),
			wantCode: http.StatusOK,
			wantData: ok(false),
		},
		{
			name:     "wrong name",
			method:   http.MethodPost,
			path:     "/admin-login",
			body:     []byte(`{"school_name": "관리자", "school_code": "OP1234"}`),
			wantCode: http.StatusOK,
			wantData: ok(false),
		},
		{
			name:     "wrong code",
			method:   http.MethodPost,
			path:     "/admin-login",
			body:     []byte(`{"school_name": "운영자", "school_code": "OP12345"}`),
			wantCode: http.StatusOK,
			wantData: ok(false),
		},
		{
			name:     "code ignores case and spaces",
			method:   http.MethodPost,
			path:     "/admin-login",
			body:     []byte(`{"school_name": " 운영자 ", "school_code": "op 12 34"}`),
			wantCode: http.StatusOK,
			wantData: ok(true),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_adminApi_login_notConfigured(t *testing.T) {
	app := setup(t, func(c *core.Config) { c.Operator = core.OperatorConfig{} })

	req, rec := newRequest(http.MethodPost, "/admin-login", []byte(`{"school_name": "운영자", "school_code": "Op 1234"}`))
	app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{
		wantCode: http.StatusInternalServerError,
		wantData: marchallObj(t, map[string]interface{}{"ok": false, "error": "관리자 설정이 없습니다."}),
	}, rec)
}
