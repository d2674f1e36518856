package inmemdb

import (
	"context"
	"time"

	"github.com/trezcool/edusurvey/core/secret"
)

type secretRepository struct {
	db *secretTable
}

var _ secret.Repository = (*secretRepository)(nil)

func NewSecretRepository(db *DB) secret.Repository {
	return &secretRepository{db: db.secret}
}

func (repo *secretRepository) GetSecret(_ context.Context, schoolCode string) (secret.Secret, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sec, ok := repo.db.table[schoolCode]; ok {
		return *sec, nil
	}
	return secret.Secret{}, secret.ErrNotFound
}

func (repo *secretRepository) CreateSecret(_ context.Context, sec secret.Secret) (bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[sec.SchoolCode]; ok {
		return false, nil
	}
	repo.db.table[sec.SchoolCode] = &sec
	return true, nil
}

func (repo *secretRepository) UpdateSecretHash(_ context.Context, schoolCode, hash string, updatedAt time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	sec, ok := repo.db.table[schoolCode]
	if !ok {
		return secret.ErrNotFound
	}
	sec.PasswordHash = hash
	sec.UpdatedAt = updatedAt
	return nil
}

func (repo *secretRepository) UpsertSecret(_ context.Context, sec secret.Secret) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if orig, ok := repo.db.table[sec.SchoolCode]; ok {
		orig.PasswordHash = sec.PasswordHash
		orig.UpdatedAt = sec.UpdatedAt
		return nil
	}
	repo.db.table[sec.SchoolCode] = &sec
	return nil
}
