package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edusurvey/core"
)

func Test_consentApi_create(t *testing.T) {
	app := setup(t)

	fieldErr := func(field, msg string) []byte {
		return marchallObj(t, map[string]interface{}{"error": msg, "fields": map[string]string{field: msg}})
	}

	tests := []httpTest{
		{
			name:     "invalid JSON",
			method:   http.MethodPost,
			path:     "/consent",
			body:     []byte(`[`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Invalid JSON"}),
		},
		{
			name:     "missing school code",
			method:   http.MethodPost,
			path:     "/consent",
			body:     []byte(`{"school_code": "  ", "role": "teacher"}`),
			wantCode: http.StatusBadRequest,
			wantData: fieldErr("school_code", core.SchoolCodeText),
		},
		{
			name:     "school code too long",
			method:   http.MethodPost,
			path:     "/consent",
			body:     []byte(`{"school_code": "B1070109111", "role": "teacher"}`),
			wantCode: http.StatusBadRequest,
			wantData: fieldErr("school_code", core.SchoolCodeText),
		},
		{
			name:     "unknown role",
			method:   http.MethodPost,
			path:     "/consent",
			body:     []byte(`{"school_code": "B107010911", "role": "student"}`),
			wantCode: http.StatusBadRequest,
			wantData: fieldErr("role", core.RoleText),
		},
		{
			name:     "recorded",
			method:   http.MethodPost,
			path:     "/consent",
			body:     []byte(`{"school_code": " b107010911 ", "role": "manager"}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]bool{"success": true}),
		},
	}
	runHTTPTests(t, app, tests)

	records, err := consentRepo.QueryConsents(context.Background(), "B107010911")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, core.RoleManager, records[0].Role)
}

func Test_consentApi_create_clientAddress(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		wantIP  string
	}{
		{
			name:    "first forwarded address",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1", "X-Real-Ip": "10.0.0.2"},
			wantIP:  "203.0.113.7",
		},
		{
			name:    "proxy client IP",
			headers: map[string]string{"X-Real-Ip": "198.51.100.4"},
			wantIP:  "198.51.100.4",
		},
		{
			name:   "peer address",
			wantIP: "192.0.2.1", // httptest default RemoteAddr
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setup(t)

			req, rec := newRequest(http.MethodPost, "/consent", []byte(`{"school_code": "7010911", "role": "teacher"}`))
			req.Header.Set("User-Agent", "edusurvey-test/1.0")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			records, err := consentRepo.QueryConsents(context.Background(), "7010911")
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantIP, records[0].ClientAddress.String)
			assert.Equal(t, "edusurvey-test/1.0", records[0].UserAgent.String)
			assert.Equal(t, core.RoleTeacher, records[0].Role)
		})
	}
}
