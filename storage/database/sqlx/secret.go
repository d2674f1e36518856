package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core/secret"
)

type secretRepository struct {
	repository
}

var _ secret.Repository = (*secretRepository)(nil)

func NewSecretRepository(db *sqlx.DB) secret.Repository {
	return &secretRepository{repository{db: db}}
}

func (repo *secretRepository) GetSecret(ctx context.Context, schoolCode string) (secret.Secret, error) {
	db, err := repo.conn()
	if err != nil {
		return secret.Secret{}, err
	}

	var sec secret.Secret
	q := db.Rebind(`SELECT school_code, password_hash, created_at, updated_at FROM school_passwords WHERE school_code = ?`)
	if err = db.GetContext(ctx, &sec, q, schoolCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return secret.Secret{}, secret.ErrNotFound
		}
		return secret.Secret{}, errors.Wrap(err, "selecting school secret")
	}
	return sec, nil
}

func (repo *secretRepository) CreateSecret(ctx context.Context, sec secret.Secret) (bool, error) {
	db, err := repo.conn()
	if err != nil {
		return false, err
	}

	q := db.Rebind(`INSERT INTO school_passwords (school_code, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (school_code) DO NOTHING`)
	res, err := db.ExecContext(ctx, q, sec.SchoolCode, sec.PasswordHash, sec.CreatedAt, sec.UpdatedAt)
	if err != nil {
		return false, errors.Wrap(err, "inserting school secret")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "inserting school secret")
	}
	return n == 1, nil
}

func (repo *secretRepository) UpdateSecretHash(ctx context.Context, schoolCode, hash string, updatedAt time.Time) error {
	db, err := repo.conn()
	if err != nil {
		return err
	}

	q := db.Rebind(`UPDATE school_passwords SET password_hash = ?, updated_at = ? WHERE school_code = ?`)
	res, err := db.ExecContext(ctx, q, hash, updatedAt, schoolCode)
	if err != nil {
		return errors.Wrap(err, "updating school secret")
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "updating school secret")
	} else if n == 0 {
		return secret.ErrNotFound
	}
	return nil
}

func (repo *secretRepository) UpsertSecret(ctx context.Context, sec secret.Secret) error {
	db, err := repo.conn()
	if err != nil {
		return err
	}

	q := db.Rebind(`INSERT INTO school_passwords (school_code, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (school_code) DO UPDATE SET password_hash = excluded.password_hash, updated_at = excluded.updated_at`)
	if _, err = db.ExecContext(ctx, q, sec.SchoolCode, sec.PasswordHash, sec.CreatedAt, sec.UpdatedAt); err != nil {
		return errors.Wrap(err, "upserting school secret")
	}
	return nil
}
