package consent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/edusurvey/core"
)

type (
	Repository interface {
		CreateConsent(ctx context.Context, rec Record) error
		QueryConsents(ctx context.Context, schoolCode string) ([]Record, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends a consent row. `nr` must have been validated.
func (svc *Service) Record(ctx context.Context, nr NewRecord) (Record, error) {
	rec := Record{
		ID:            uuid.NewString(),
		SchoolCode:    nr.SchoolCode,
		Role:          core.Role(nr.Role),
		ClientAddress: null.NewString(nr.ClientAddress, nr.ClientAddress != ""),
		UserAgent:     null.NewString(nr.UserAgent, nr.UserAgent != ""),
		CreatedAt:     time.Now().UTC(),
	}
	if err := svc.repo.CreateConsent(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// QueryBySchool lists the consents of a school, newest first.
func (svc *Service) QueryBySchool(ctx context.Context, schoolCode string) ([]Record, error) {
	code, _ := core.NormalizeSchoolCode(schoolCode)
	return svc.repo.QueryConsents(ctx, code)
}
