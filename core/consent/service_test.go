package consent_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/consent"
	inmemdb "github.com/trezcool/edusurvey/storage/database/inmem"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate
}

func TestNewRecord_Validate(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name     string
		nr       consent.NewRecord
		wantErr  bool
		wantCode string
	}{
		{name: "missing school", nr: consent.NewRecord{Role: "teacher"}, wantErr: true},
		{name: "unknown role", nr: consent.NewRecord{SchoolCode: "B100000001", Role: "student"}, wantErr: true},
		{name: "normalized", nr: consent.NewRecord{SchoolCode: " b100000001 ", Role: " manager "}, wantCode: "B100000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nr.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, tt.nr.SchoolCode)
		})
	}
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()
	svc := consent.NewService(inmemdb.NewConsentRepository(inmemdb.Open()))

	first, err := svc.Record(ctx, consent.NewRecord{SchoolCode: "B100000001", Role: "teacher", ClientAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, core.RoleTeacher, first.Role)
	assert.Equal(t, "10.0.0.1", first.ClientAddress.String)
	assert.False(t, first.UserAgent.Valid)

	second, err := svc.Record(ctx, consent.NewRecord{SchoolCode: "B100000001", Role: "manager", UserAgent: "curl"})
	require.NoError(t, err)
	_, err = svc.Record(ctx, consent.NewRecord{SchoolCode: "B100000002", Role: "teacher"})
	require.NoError(t, err)

	records, err := svc.QueryBySchool(ctx, "b100000001")
	require.NoError(t, err)
	if assert.Len(t, records, 2) {
		assert.Equal(t, second.ID, records[0].ID)
		assert.Equal(t, first.ID, records[1].ID)
	}
}
