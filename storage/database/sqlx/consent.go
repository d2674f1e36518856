package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core/consent"
)

type consentRepository struct {
	repository
}

var _ consent.Repository = (*consentRepository)(nil)

func NewConsentRepository(db *sqlx.DB) consent.Repository {
	return &consentRepository{repository{db: db}}
}

func (repo *consentRepository) CreateConsent(ctx context.Context, rec consent.Record) error {
	db, err := repo.conn()
	if err != nil {
		return err
	}

	q := `INSERT INTO consent_log (id, school_code, role, ip, user_agent, created_at)
		VALUES (:id, :school_code, :role, :ip, :user_agent, :created_at)`
	if _, err = db.NamedExecContext(ctx, q, rec); err != nil {
		return errors.Wrap(err, "inserting consent")
	}
	return nil
}

func (repo *consentRepository) QueryConsents(ctx context.Context, schoolCode string) ([]consent.Record, error) {
	db, err := repo.conn()
	if err != nil {
		return nil, err
	}

	records := make([]consent.Record, 0)
	q := db.Rebind(`SELECT id, school_code, role, ip, user_agent, created_at FROM consent_log
		WHERE school_code = ? ORDER BY created_at DESC`)
	if err = db.SelectContext(ctx, &records, q, schoolCode); err != nil {
		return nil, errors.Wrap(err, "selecting consents")
	}
	return records, nil
}
