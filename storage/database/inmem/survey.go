package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/survey"
)

type surveyRepository struct {
	db *surveyTable
}

var _ survey.Repository = (*surveyRepository)(nil)

func NewSurveyRepository(db *DB) survey.Repository {
	return &surveyRepository{db: db.survey}
}

func (repo *surveyRepository) CreateSurvey(_ context.Context, s survey.Survey) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[s.ID] = &s
	return nil
}

// QuerySurveys only honours the first ordering.
func (repo *surveyRepository) QuerySurveys(_ context.Context, schoolCode string, ordering ...core.DBOrdering) ([]survey.Survey, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	surveys := make([]survey.Survey, 0)
	for _, s := range repo.db.table {
		if s.SchoolCode == schoolCode {
			surveys = append(surveys, *s)
		}
	}

	ord := core.DBOrdering{Field: "created_at"}
	if len(ordering) > 0 {
		ord = ordering[0]
	}
	sort.SliceStable(surveys, func(i, j int) bool {
		var less bool
		switch ord.Field {
		case "teacher_name":
			less = surveys[i].TeacherName < surveys[j].TeacherName
		case "subject":
			less = surveys[i].Subject < surveys[j].Subject
		case "product_name":
			less = surveys[i].ProductName < surveys[j].ProductName
		default:
			less = surveys[i].CreatedAt.Before(surveys[j].CreatedAt)
		}
		if !ord.Ascending {
			return !less
		}
		return less
	})
	return surveys, nil
}

func (repo *surveyRepository) GetSurvey(_ context.Context, schoolCode, id string) (survey.Survey, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok && s.SchoolCode == schoolCode {
		return *s, nil
	}
	return survey.Survey{}, survey.ErrNotFound
}

func (repo *surveyRepository) UpdateSurvey(_ context.Context, s survey.Survey) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[s.ID]
	if !ok || orig.SchoolCode != s.SchoolCode {
		return survey.ErrNotFound
	}
	s.CreatedAt = orig.CreatedAt
	repo.db.table[s.ID] = &s
	return nil
}

func (repo *surveyRepository) DeleteSurveys(_ context.Context, schoolCode string, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		if s, ok := repo.db.table[id]; ok && s.SchoolCode == schoolCode {
			delete(repo.db.table, id)
		}
	}
	return nil
}

type productRepository struct {
	db *productTable
}

var _ survey.ProductRepository = (*productRepository)(nil)

func NewProductRepository(db *DB) survey.ProductRepository {
	return &productRepository{db: db.product}
}

func (repo *productRepository) QueryProducts(_ context.Context, search string) ([]survey.Product, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	search = strings.ToLower(search)
	products := make([]survey.Product, 0)
	for _, p := range repo.db.table {
		if search == "" ||
			strings.Contains(strings.ToLower(p.Name), search) ||
			strings.Contains(strings.ToLower(p.Provider), search) {
			products = append(products, *p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (repo *productRepository) GetProductByName(_ context.Context, name string) (survey.Product, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var found *survey.Product
	for _, p := range repo.db.table {
		if strings.EqualFold(p.Name, name) && (found == nil || p.ID < found.ID) {
			found = p
		}
	}
	if found == nil {
		return survey.Product{}, survey.ErrProductNotFound
	}
	return *found, nil
}

func (repo *productRepository) SaveProduct(_ context.Context, p survey.Product) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[p.ID] = &p
	return nil
}

type reasonRepository struct {
	db *reasonTable
}

var _ survey.ReasonRepository = (*reasonRepository)(nil)

func NewReasonRepository(db *DB) survey.ReasonRepository {
	return &reasonRepository{db: db.reason}
}

func (repo *reasonRepository) QueryReasons(_ context.Context, productName string) ([]survey.SelectionReason, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reasons := make([]survey.SelectionReason, 0)
	for _, r := range repo.db.table {
		if r.ProductName == productName {
			reasons = append(reasons, *r)
		}
	}
	sort.Slice(reasons, func(i, j int) bool {
		if reasons[i].UseCount != reasons[j].UseCount {
			return reasons[i].UseCount > reasons[j].UseCount
		}
		return reasons[i].CreatedAt.Before(reasons[j].CreatedAt)
	})
	return reasons, nil
}

func (repo *reasonRepository) CreateReason(_ context.Context, r survey.SelectionReason) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[r.ID] = &r
	return nil
}

func (repo *reasonRepository) IncrementReasonUse(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	r, ok := repo.db.table[id]
	if !ok {
		return survey.ErrReasonNotFound
	}
	r.UseCount++
	return nil
}
