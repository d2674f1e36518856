package inmemdb

import (
	"context"

	"github.com/trezcool/edusurvey/core/consent"
)

type consentRepository struct {
	db *consentTable
}

var _ consent.Repository = (*consentRepository)(nil)

func NewConsentRepository(db *DB) consent.Repository {
	return &consentRepository{db: db.consent}
}

func (repo *consentRepository) CreateConsent(_ context.Context, rec consent.Record) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table = append(repo.db.table, rec)
	return nil
}

func (repo *consentRepository) QueryConsents(_ context.Context, schoolCode string) ([]consent.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]consent.Record, 0)
	for i := len(repo.db.table) - 1; i >= 0; i-- { // newest first
		if rec := repo.db.table[i]; rec.SchoolCode == schoolCode {
			records = append(records, rec)
		}
	}
	return records, nil
}
