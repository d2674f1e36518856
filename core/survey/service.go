package survey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/edusurvey/core"
)

var (
	// errors
	ErrNotFound        = errors.New("survey not found")
	ErrProductNotFound = errors.New("product not found")
	ErrReasonNotFound  = errors.New("selection reason not found")
)

// orderable survey fields
var surveyOrderings = []string{"created_at", "teacher_name", "subject", "product_name"}

type (
	Repository interface {
		CreateSurvey(ctx context.Context, s Survey) error
		// QuerySurveys lists the surveys of a school; newest first when no ordering is given.
		QuerySurveys(ctx context.Context, schoolCode string, ordering ...core.DBOrdering) ([]Survey, error)
		GetSurvey(ctx context.Context, schoolCode, id string) (Survey, error)
		UpdateSurvey(ctx context.Context, s Survey) error
		DeleteSurveys(ctx context.Context, schoolCode string, ids ...string) error
	}

	ProductRepository interface {
		// QueryProducts does a case-insensitive match of `search` on the name or the provider, ordered by name.
		QueryProducts(ctx context.Context, search string) ([]Product, error)
		// GetProductByName does a case-insensitive exact match on the name.
		GetProductByName(ctx context.Context, name string) (Product, error)
		// SaveProduct inserts or overwrites the catalogue entry with the same ID.
		SaveProduct(ctx context.Context, p Product) error
	}

	ReasonRepository interface {
		// QueryReasons lists the reasons given for a product, most used first.
		QueryReasons(ctx context.Context, productName string) ([]SelectionReason, error)
		CreateReason(ctx context.Context, r SelectionReason) error
		// IncrementReasonUse atomically adds 1 to the use count.
		IncrementReasonUse(ctx context.Context, id string) error
	}

	Service struct {
		repo        Repository
		productRepo ProductRepository
		reasonRepo  ReasonRepository
	}
)

func NewService(repo Repository, productRepo ProductRepository, reasonRepo ReasonRepository) *Service {
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		reasonRepo:  reasonRepo,
	}
}

// Create stores a validated survey; whether the product is catalogued is looked up, never trusted from the client.
func (svc *Service) Create(ctx context.Context, schoolCode string, ns NewSurvey) (Survey, error) {
	catalogued, err := svc.IsCatalogued(ctx, ns.ProductName)
	if err != nil {
		return Survey{}, err
	}
	s := Survey{
		ID:              uuid.NewString(),
		SchoolCode:      schoolCode,
		TeacherName:     ns.TeacherName,
		Subject:         ns.Subject,
		ProductName:     ns.ProductName,
		Purpose:         ns.Purpose,
		HasPersonalInfo: ns.HasPersonalInfo,
		IsInCatalogue:   catalogued,
		CreatedAt:       time.Now().UTC(),
	}
	if err = svc.repo.CreateSurvey(ctx, s); err != nil {
		return Survey{}, err
	}
	return s, nil
}

func (svc *Service) QueryBySchool(ctx context.Context, schoolCode string, ordering []core.DBOrdering) ([]Survey, error) {
	return svc.repo.QuerySurveys(ctx, schoolCode, core.CleanOrderings(ordering, surveyOrderings...)...)
}

func (svc *Service) Get(ctx context.Context, schoolCode, id string) (Survey, error) {
	return svc.repo.GetSurvey(ctx, schoolCode, id)
}

func (svc *Service) Update(ctx context.Context, schoolCode, id string, us UpdateSurvey) (Survey, error) {
	s, err := svc.repo.GetSurvey(ctx, schoolCode, id)
	if err != nil {
		return Survey{}, err
	}
	s.TeacherName = us.TeacherName
	s.Subject = us.Subject
	s.ProductName = us.ProductName
	s.Purpose = us.Purpose
	s.HasPersonalInfo = us.HasPersonalInfo
	s.IsInCatalogue = us.IsInCatalogue
	if err = svc.repo.UpdateSurvey(ctx, s); err != nil {
		return Survey{}, err
	}
	return s, nil
}

// Delete removes surveys of the school only; unknown ids are ignored.
func (svc *Service) Delete(ctx context.Context, schoolCode string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return svc.repo.DeleteSurveys(ctx, schoolCode, ids...)
}

func (svc *Service) QueryProducts(ctx context.Context, search string) ([]Product, error) {
	return svc.productRepo.QueryProducts(ctx, core.CleanString(search))
}

// ImportProducts saves catalogue entries; it stops at the first failure.
func (svc *Service) ImportProducts(ctx context.Context, products ...Product) (int, error) {
	for i, p := range products {
		p.Name = core.CleanString(p.Name)
		if p.ID <= 0 || p.Name == "" {
			return i, core.NewValidationError(fmt.Errorf("product #%d: id and name are required", i+1))
		}
		if err := svc.productRepo.SaveProduct(ctx, p); err != nil {
			return i, err
		}
	}
	return len(products), nil
}

func (svc *Service) IsCatalogued(ctx context.Context, productName string) (bool, error) {
	name := core.CleanString(productName)
	if name == "" {
		return false, nil
	}
	if _, err := svc.productRepo.GetProductByName(ctx, name); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (svc *Service) QueryReasons(ctx context.Context, productName string) ([]SelectionReason, error) {
	return svc.reasonRepo.QueryReasons(ctx, core.CleanString(productName))
}

// SaveReason shares a new, validated reason; it starts with a use count of 1.
func (svc *Service) SaveReason(ctx context.Context, schoolCode string, nr NewSelectionReason) (SelectionReason, error) {
	r := SelectionReason{
		ID:          uuid.NewString(),
		ProductName: nr.ProductName,
		Reason:      nr.Reason,
		SchoolCode:  schoolCode,
		UseCount:    1,
		CreatedAt:   time.Now().UTC(),
	}
	if err := svc.reasonRepo.CreateReason(ctx, r); err != nil {
		return SelectionReason{}, err
	}
	return r, nil
}

func (svc *Service) UseReason(ctx context.Context, id string) error {
	return svc.reasonRepo.IncrementReasonUse(ctx, id)
}

// Form3 builds the recommended products report of a school.
func (svc *Service) Form3(ctx context.Context, schoolCode string, reasons map[string]string) ([]Form3Row, error) {
	surveys, err := svc.repo.QuerySurveys(ctx, schoolCode)
	if err != nil {
		return nil, err
	}
	products, err := svc.productRepo.QueryProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	return BuildForm3(surveys, products, reasons)
}
