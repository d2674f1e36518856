package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/secret"
	"github.com/trezcool/edusurvey/core/survey"
	"github.com/trezcool/edusurvey/storage/database"
)

// PrepareDB opens a migrated in-memory sqlite database, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(core.NewTestConfig())
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	return db
}

func CreateSecret(t *testing.T, repo secret.Repository, schoolCode, pin string) secret.Secret {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("createSecret() failed: %v", err)
	}
	now := time.Now().UTC()
	sec := secret.Secret{
		SchoolCode:   schoolCode,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err = repo.CreateSecret(context.Background(), sec); err != nil {
		t.Fatalf("createSecret() failed: %v", err)
	}
	return sec
}

func CreateSurvey(
	t *testing.T,
	repo survey.Repository,
	schoolCode, teacher, subject, product string,
	createdAt ...time.Time,
) survey.Survey {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	s := survey.Survey{
		ID:          uuid.NewString(),
		SchoolCode:  schoolCode,
		TeacherName: teacher,
		Subject:     subject,
		ProductName: product,
		CreatedAt:   tstamp,
	}
	if err := repo.CreateSurvey(context.Background(), s); err != nil {
		t.Fatalf("createSurvey() failed: %v", err)
	}
	return s
}

func CreateProduct(t *testing.T, repo survey.ProductRepository, id int64, name, provider string, criteria ...string) survey.Product {
	t.Helper()
	p := survey.Product{ID: id, Name: name, Provider: provider}
	fields := []*string{
		&p.Criteria1_1, &p.Criteria1_2, &p.Criteria1_3,
		&p.Criteria2_1, &p.Criteria3_1, &p.Criteria4_1,
		&p.Criteria5_1, &p.Criteria5_2, &p.Criteria5_3,
	}
	for i, c := range criteria {
		if i < len(fields) {
			*fields[i] = c
		}
	}
	if err := repo.SaveProduct(context.Background(), p); err != nil {
		t.Fatalf("createProduct() failed: %v", err)
	}
	return p
}
