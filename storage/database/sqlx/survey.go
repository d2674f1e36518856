package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/survey"
)

const surveyColumns = `id, school_code, teacher_name, subject, product_name, purpose, has_personal_info, is_in_eduzip, created_at`

type surveyRepository struct {
	repository
}

var _ survey.Repository = (*surveyRepository)(nil)

func NewSurveyRepository(db *sqlx.DB) survey.Repository {
	return &surveyRepository{repository{db: db}}
}

func (repo *surveyRepository) CreateSurvey(ctx context.Context, s survey.Survey) error {
	db, err := repo.conn()
	if err != nil {
		return err
	}

	q := `INSERT INTO surveys (` + surveyColumns + `)
		VALUES (:id, :school_code, :teacher_name, :subject, :product_name, :purpose, :has_personal_info, :is_in_eduzip, :created_at)`
	if _, err = db.NamedExecContext(ctx, q, s); err != nil {
		return errors.Wrap(err, "inserting survey")
	}
	return nil
}

func (repo *surveyRepository) QuerySurveys(ctx context.Context, schoolCode string, ordering ...core.DBOrdering) ([]survey.Survey, error) {
	db, err := repo.conn()
	if err != nil {
		return nil, err
	}

	surveys := make([]survey.Survey, 0)
	q := db.Rebind(`SELECT `+surveyColumns+` FROM surveys WHERE school_code = ?`) + orderBy(ordering, "created_at DESC")
	if err = db.SelectContext(ctx, &surveys, q, schoolCode); err != nil {
		return nil, errors.Wrap(err, "selecting surveys")
	}
	return surveys, nil
}

func (repo *surveyRepository) GetSurvey(ctx context.Context, schoolCode, id string) (survey.Survey, error) {
	db, err := repo.conn()
	if err != nil {
		return survey.Survey{}, err
	}

	var s survey.Survey
	q := db.Rebind(`SELECT ` + surveyColumns + ` FROM surveys WHERE school_code = ? AND id = ?`)
	if err = db.GetContext(ctx, &s, q, schoolCode, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return survey.Survey{}, survey.ErrNotFound
		}
		return survey.Survey{}, errors.Wrap(err, "selecting survey")
	}
	return s, nil
}

func (repo *surveyRepository) UpdateSurvey(ctx context.Context, s survey.Survey) error {
	db, err := repo.conn()
	if err != nil {
		return err
	}

	q := `UPDATE surveys SET teacher_name = :teacher_name, subject = :subject, product_name = :product_name,
		purpose = :purpose, has_personal_info = :has_personal_info, is_in_eduzip = :is_in_eduzip
		WHERE school_code = :school_code AND id = :id`
	res, err := db.NamedExecContext(ctx, q, s)
	if err != nil {
		return errors.Wrap(err, "updating survey")
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "updating survey")
	} else if n == 0 {
		return survey.ErrNotFound
	}
	return nil
}

func (repo *surveyRepository) DeleteSurveys(ctx context.Context, schoolCode string, ids ...string) error {
	db, err := repo.conn()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	q, args, err := sqlx.In(`DELETE FROM surveys WHERE school_code = ? AND id IN (?)`, schoolCode, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = db.ExecContext(ctx, db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting surveys")
	}
	return nil
}

const productColumns = `id, name, provider, type, criteria_1_1, criteria_1_2, criteria_1_3, criteria_2_1,
	criteria_3_1, criteria_4_1, criteria_5_1, criteria_5_2, criteria_5_3`

type productRepository struct {
	repository
}

var _ survey.ProductRepository = (*productRepository)(nil)

func NewProductRepository(db *sqlx.DB) survey.ProductRepository {
	return &productRepository{repository{db: db}}
}

func (repo *productRepository) QueryProducts(ctx context.Context, search string) ([]survey.Product, error) {
	db, err := repo.conn()
	if err != nil {
		return nil, err
	}

	products := make([]survey.Product, 0)
	q := `SELECT ` + productColumns + ` FROM eduzip_products`
	var args []interface{}
	if search != "" {
		q += ` WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(provider) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search), likePattern(search))
	}
	q += ` ORDER BY name ASC`
	if err = db.SelectContext(ctx, &products, db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting products")
	}
	return products, nil
}

func (repo *productRepository) GetProductByName(ctx context.Context, name string) (survey.Product, error) {
	db, err := repo.conn()
	if err != nil {
		return survey.Product{}, err
	}

	var products []survey.Product
	q := db.Rebind(`SELECT ` + productColumns + ` FROM eduzip_products WHERE LOWER(name) = LOWER(?) ORDER BY id LIMIT 1`)
	if err = db.SelectContext(ctx, &products, q, name); err != nil {
		return survey.Product{}, errors.Wrap(err, "selecting product")
	}
	if len(products) == 0 {
		return survey.Product{}, survey.ErrProductNotFound
	}
	return products[0], nil
}

func (repo *productRepository) SaveProduct(ctx context.Context, p survey.Product) error {
	db, err := repo.conn()
	if err != nil {
		return err
	}

	q := `INSERT INTO eduzip_products (` + productColumns + `)
		VALUES (:id, :name, :provider, :type, :criteria_1_1, :criteria_1_2, :criteria_1_3, :criteria_2_1,
		:criteria_3_1, :criteria_4_1, :criteria_5_1, :criteria_5_2, :criteria_5_3)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, provider = excluded.provider, type = excluded.type,
		criteria_1_1 = excluded.criteria_1_1, criteria_1_2 = excluded.criteria_1_2, criteria_1_3 = excluded.criteria_1_3,
		criteria_2_1 = excluded.criteria_2_1, criteria_3_1 = excluded.criteria_3_1, criteria_4_1 = excluded.criteria_4_1,
		criteria_5_1 = excluded.criteria_5_1, criteria_5_2 = excluded.criteria_5_2, criteria_5_3 = excluded.criteria_5_3`
	if _, err = db.NamedExecContext(ctx, q, p); err != nil {
		return errors.Wrap(err, "saving product")
	}
	return nil
}

const reasonColumns = `id, product_name, reason, school_code, use_count, created_at`

type reasonRepository struct {
	repository
}

var _ survey.ReasonRepository = (*reasonRepository)(nil)

func NewReasonRepository(db *sqlx.DB) survey.ReasonRepository {
	return &reasonRepository{repository{db: db}}
}

func (repo *reasonRepository) QueryReasons(ctx context.Context, productName string) ([]survey.SelectionReason, error) {
	db, err := repo.conn()
	if err != nil {
		return nil, err
	}

	reasons := make([]survey.SelectionReason, 0)
	q := db.Rebind(`SELECT ` + reasonColumns + ` FROM selection_reasons WHERE product_name = ?
		ORDER BY use_count DESC, created_at ASC`)
	if err = db.SelectContext(ctx, &reasons, q, productName); err != nil {
		return nil, errors.Wrap(err, "selecting selection reasons")
	}
	return reasons, nil
}

func (repo *reasonRepository) CreateReason(ctx context.Context, r survey.SelectionReason) error {
	db, err := repo.conn()
	if err != nil {
		return err
	}

	q := `INSERT INTO selection_reasons (` + reasonColumns + `)
		VALUES (:id, :product_name, :reason, :school_code, :use_count, :created_at)`
	if _, err = db.NamedExecContext(ctx, q, r); err != nil {
		return errors.Wrap(err, "inserting selection reason")
	}
	return nil
}

func (repo *reasonRepository) IncrementReasonUse(ctx context.Context, id string) error {
	db, err := repo.conn()
	if err != nil {
		return err
	}

	q := db.Rebind(`UPDATE selection_reasons SET use_count = use_count + 1 WHERE id = ?`)
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrap(err, "incrementing selection reason use")
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "incrementing selection reason use")
	} else if n == 0 {
		return survey.ErrReasonNotFound
	}
	return nil
}
