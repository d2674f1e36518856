package sqlxrepos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/consent"
	"github.com/trezcool/edusurvey/core/secret"
	"github.com/trezcool/edusurvey/core/survey"
	testutil "github.com/trezcool/edusurvey/tests"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%pad\%let\_%`, likePattern("Pad%let_"))
	assert.Equal(t, `%%`, likePattern(""))
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, " ORDER BY created_at DESC", orderBy(nil, "created_at DESC"))
	assert.Equal(t, " ORDER BY subject ASC, created_at DESC",
		orderBy([]core.DBOrdering{{Field: "subject", Ascending: true}, {Field: "created_at"}}, "id"))
}

func TestRepositories_notConfigured(t *testing.T) {
	ctx := context.Background()

	_, err := NewSecretRepository(nil).GetSecret(ctx, "B100000001")
	assert.ErrorIs(t, err, core.ErrNotConfigured)
	_, err = NewConsentRepository(nil).QueryConsents(ctx, "B100000001")
	assert.ErrorIs(t, err, core.ErrNotConfigured)
	_, err = NewSurveyRepository(nil).QuerySurveys(ctx, "B100000001")
	assert.ErrorIs(t, err, core.ErrNotConfigured)
	_, err = NewProductRepository(nil).QueryProducts(ctx, "")
	assert.ErrorIs(t, err, core.ErrNotConfigured)
	_, err = NewReasonRepository(nil).QueryReasons(ctx, "Padlet")
	assert.ErrorIs(t, err, core.ErrNotConfigured)
}

func TestSecretRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSecretRepository(testutil.PrepareDB(t))

	_, err := repo.GetSecret(ctx, "B100000001")
	assert.ErrorIs(t, err, secret.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateSecretHash(ctx, "B100000001", "x", time.Now()), secret.ErrNotFound)

	orig := testutil.CreateSecret(t, repo, "B100000001", "1234")

	created, err := repo.CreateSecret(ctx, secret.Secret{SchoolCode: "B100000001", PasswordHash: "other", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetSecret(ctx, "B100000001")
	require.NoError(t, err)
	assert.Equal(t, orig.PasswordHash, got.PasswordHash)

	require.NoError(t, repo.UpdateSecretHash(ctx, "B100000001", "updated", time.Now().UTC()))
	got, err = repo.GetSecret(ctx, "B100000001")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.PasswordHash)

	require.NoError(t, repo.UpsertSecret(ctx, secret.Secret{SchoolCode: "B100000001", PasswordHash: "reset", CreatedAt: time.Now(), UpdatedAt: time.Now()}))
	require.NoError(t, repo.UpsertSecret(ctx, secret.Secret{SchoolCode: "B100000002", PasswordHash: "new", CreatedAt: time.Now(), UpdatedAt: time.Now()}))
	got, err = repo.GetSecret(ctx, "B100000001")
	require.NoError(t, err)
	assert.Equal(t, "reset", got.PasswordHash)
	_, err = repo.GetSecret(ctx, "B100000002")
	assert.NoError(t, err)
}

func TestConsentRepository(t *testing.T) {
	ctx := context.Background()
	svc := consent.NewService(NewConsentRepository(testutil.PrepareDB(t)))

	first, err := svc.Record(ctx, consent.NewRecord{SchoolCode: "B100000001", Role: "teacher", ClientAddress: "10.0.0.1"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := svc.Record(ctx, consent.NewRecord{SchoolCode: "B100000001", Role: "manager"})
	require.NoError(t, err)

	records, err := svc.QueryBySchool(ctx, "B100000001")
	require.NoError(t, err)
	if assert.Len(t, records, 2) {
		assert.Equal(t, second.ID, records[0].ID)
		assert.Equal(t, first.ID, records[1].ID)
		assert.Equal(t, "10.0.0.1", records[1].ClientAddress.String)
		assert.False(t, records[0].ClientAddress.Valid)
		assert.Equal(t, core.RoleTeacher, records[1].Role)
	}
}

func TestSurveyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSurveyRepository(testutil.PrepareDB(t))

	now := time.Now().UTC()
	s1 := testutil.CreateSurvey(t, repo, "B100000001", "이교사", "수학", "Desmos", now.Add(-time.Hour))
	s2 := testutil.CreateSurvey(t, repo, "B100000001", "김교사", "국어", "Padlet", now)
	s3 := testutil.CreateSurvey(t, repo, "B100000002", "박교사", "과학", "Canva", now)

	surveys, err := repo.QuerySurveys(ctx, "B100000001")
	require.NoError(t, err)
	if assert.Len(t, surveys, 2) {
		assert.Equal(t, s2.ID, surveys[0].ID)
		assert.Equal(t, s1.ID, surveys[1].ID)
	}

	surveys, err = repo.QuerySurveys(ctx, "B100000001", core.DBOrdering{Field: "subject", Ascending: true})
	require.NoError(t, err)
	if assert.Len(t, surveys, 2) {
		assert.Equal(t, "국어", surveys[0].Subject)
	}

	_, err = repo.GetSurvey(ctx, "B100000001", s3.ID)
	assert.ErrorIs(t, err, survey.ErrNotFound)

	s1.Purpose = "그래프"
	s1.IsInCatalogue = true
	require.NoError(t, repo.UpdateSurvey(ctx, s1))
	got, err := repo.GetSurvey(ctx, "B100000001", s1.ID)
	require.NoError(t, err)
	assert.Equal(t, "그래프", got.Purpose)
	assert.True(t, got.IsInCatalogue)

	s3.SchoolCode = "B100000001"
	assert.ErrorIs(t, repo.UpdateSurvey(ctx, s3), survey.ErrNotFound)

	require.NoError(t, repo.DeleteSurveys(ctx, "B100000001", s1.ID, s3.ID))
	surveys, err = repo.QuerySurveys(ctx, "B100000001")
	require.NoError(t, err)
	assert.Len(t, surveys, 1)
	surveys, err = repo.QuerySurveys(ctx, "B100000002")
	require.NoError(t, err)
	assert.Len(t, surveys, 1)
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testutil.PrepareDB(t))

	testutil.CreateProduct(t, repo, 1, "Padlet", "Wallwisher", "충족")
	testutil.CreateProduct(t, repo, 2, "Canva", "Canva Pty")
	testutil.CreateProduct(t, repo, 3, "100% Math", "Edu_Co")

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "all", want: []string{"100% Math", "Canva", "Padlet"}},
		{name: "name", search: "PAD", want: []string{"Padlet"}},
		{name: "provider", search: "wall", want: []string{"Padlet"}},
		{name: "wildcard escaped", search: "0%", want: []string{"100% Math"}},
		{name: "underscore escaped", search: "u_c", want: []string{"100% Math"}},
		{name: "none", search: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.QueryProducts(ctx, tt.search)
			require.NoError(t, err)
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	p, err := repo.GetProductByName(ctx, "padlet")
	require.NoError(t, err)
	assert.Equal(t, "충족", p.Criteria1_1)
	_, err = repo.GetProductByName(ctx, "pad")
	assert.ErrorIs(t, err, survey.ErrProductNotFound)

	require.NoError(t, repo.SaveProduct(ctx, survey.Product{ID: 2, Name: "Canva", Provider: "Canva Korea"}))
	p, err = repo.GetProductByName(ctx, "Canva")
	require.NoError(t, err)
	assert.Equal(t, "Canva Korea", p.Provider)
}

func TestReasonRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewReasonRepository(testutil.PrepareDB(t))

	now := time.Now().UTC()
	r1 := survey.SelectionReason{ID: "r1", ProductName: "Padlet", Reason: "협업", SchoolCode: "B100000001", UseCount: 1, CreatedAt: now.Add(-time.Minute)}
	r2 := survey.SelectionReason{ID: "r2", ProductName: "Padlet", Reason: "피드백", SchoolCode: "B100000002", UseCount: 1, CreatedAt: now}
	r3 := survey.SelectionReason{ID: "r3", ProductName: "Canva", Reason: "디자인", SchoolCode: "B100000001", UseCount: 1, CreatedAt: now}
	for _, r := range []survey.SelectionReason{r1, r2, r3} {
		require.NoError(t, repo.CreateReason(ctx, r))
	}

	reasons, err := repo.QueryReasons(ctx, "Padlet")
	require.NoError(t, err)
	if assert.Len(t, reasons, 2) {
		assert.Equal(t, "r1", reasons[0].ID)
	}

	require.NoError(t, repo.IncrementReasonUse(ctx, "r2"))
	assert.ErrorIs(t, repo.IncrementReasonUse(ctx, "r9"), survey.ErrReasonNotFound)

	reasons, err = repo.QueryReasons(ctx, "Padlet")
	require.NoError(t, err)
	if assert.Len(t, reasons, 2) {
		assert.Equal(t, "r2", reasons[0].ID)
		assert.Equal(t, 2, reasons[0].UseCount)
	}
}
