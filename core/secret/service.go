package secret

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/edusurvey/core"
)

var (
	// errors
	ErrNotFound        = errors.New("school secret not found")
	ErrAlreadySet      = errors.New("school secret already set")
	ErrInvalidCode     = errors.New("invalid school code")
	ErrBadFormat       = errors.New("secret must be 4 digits")
	ErrManagerOnly     = errors.New("only the manager can set the school secret")
	ErrCurrentMismatch = errors.New("current secret does not match")
	ErrUnauthorized    = errors.New("operator authentication failed")
)

type (
	Repository interface {
		GetSecret(ctx context.Context, schoolCode string) (Secret, error)
		// CreateSecret inserts the secret unless one already exists for the school; it never overwrites.
		CreateSecret(ctx context.Context, sec Secret) (created bool, err error)
		UpdateSecretHash(ctx context.Context, schoolCode, hash string, updatedAt time.Time) error
		// UpsertSecret inserts or overwrites the secret of a school.
		UpsertSecret(ctx context.Context, sec Secret) error
	}

	Service struct {
		repo     Repository
		operator core.Operator
		hashCost int
	}
)

func NewService(repo Repository, operator core.Operator) *Service {
	return &Service{
		repo:     repo,
		operator: operator,
		hashCost: bcrypt.DefaultCost,
	}
}

func (svc *Service) HasSecret(ctx context.Context, schoolCode string) (bool, error) {
	code, ok := core.NormalizeSchoolCode(schoolCode)
	if !ok {
		return false, ErrInvalidCode
	}
	if _, err := svc.repo.GetSecret(ctx, code); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetSecret establishes the first secret of a school. It fails with ErrAlreadySet when one exists,
// including when a concurrent request won the race.
func (svc *Service) SetSecret(ctx context.Context, schoolCode, pin string, role core.Role) error {
	code, ok := core.NormalizeSchoolCode(schoolCode)
	if !ok {
		return ErrInvalidCode
	}
	if !role.IsManager() {
		return ErrManagerOnly
	}
	if !core.IsPin(pin) {
		return ErrBadFormat
	}

	hash, err := svc.hash(pin)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	created, err := svc.repo.CreateSecret(ctx, Secret{
		SchoolCode:   code,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadySet
	}
	return nil
}

// VerifySecret reports whether pin is the school secret. A school without secret never verifies.
func (svc *Service) VerifySecret(ctx context.Context, schoolCode, pin string) (bool, error) {
	code, ok := core.NormalizeSchoolCode(schoolCode)
	if !ok {
		return false, ErrInvalidCode
	}
	if !core.IsPin(pin) {
		return false, ErrBadFormat
	}

	sec, err := svc.repo.GetSecret(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return checkPin(sec.PasswordHash, pin), nil
}

func (svc *Service) ChangeSecret(ctx context.Context, schoolCode, current, next string) error {
	code, ok := core.NormalizeSchoolCode(schoolCode)
	if !ok {
		return ErrInvalidCode
	}
	if !core.IsPin(current) || !core.IsPin(next) {
		return ErrBadFormat
	}

	sec, err := svc.repo.GetSecret(ctx, code)
	if err != nil {
		return err
	}
	if !checkPin(sec.PasswordHash, current) {
		return ErrCurrentMismatch
	}

	hash, err := svc.hash(next)
	if err != nil {
		return err
	}
	return svc.repo.UpdateSecretHash(ctx, code, hash, time.Now().UTC())
}

// ResetSecret sets the school secret back to DefaultPIN on behalf of the operator.
// Nothing is written unless the operator credentials match.
func (svc *Service) ResetSecret(ctx context.Context, schoolCode, operatorName, operatorCode string) error {
	code, ok := core.NormalizeSchoolCode(schoolCode)
	if !ok {
		return ErrInvalidCode
	}
	authed, err := svc.operator.Authenticate(operatorName, operatorCode)
	if err != nil {
		return err
	}
	if !authed {
		return ErrUnauthorized
	}

	hash, err := svc.hash(DefaultPIN)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return svc.repo.UpsertSecret(ctx, Secret{
		SchoolCode:   code,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *Service) hash(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), svc.hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPin(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
