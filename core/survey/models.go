package survey

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edusurvey/core"
)

// criterionUnmet marks a catalogue requirement the product does not satisfy.
const criterionUnmet = "미충족"

type (
	// Survey is a teacher's request to use a software product in class.
	Survey struct {
		ID              string    `db:"id" json:"id"`
		SchoolCode      string    `db:"school_code" json:"school_code"`
		TeacherName     string    `db:"teacher_name" json:"teacher_name"`
		Subject         string    `db:"subject" json:"subject"`
		ProductName     string    `db:"product_name" json:"product_name"`
		Purpose         string    `db:"purpose" json:"purpose"`
		HasPersonalInfo bool      `db:"has_personal_info" json:"has_personal_info"`
		IsInCatalogue   bool      `db:"is_in_eduzip" json:"is_in_eduzip"`
		CreatedAt       time.Time `db:"created_at" json:"created_at"`
	}

	NewSurvey struct {
		TeacherName     string `json:"teacher_name" validate:"notblank,max=50"`
		Subject         string `json:"subject" validate:"notblank,max=50"`
		ProductName     string `json:"product_name" validate:"notblank,max=200"`
		Purpose         string `json:"purpose" validate:"max=1000"`
		HasPersonalInfo bool   `json:"has_personal_info"`
	}

	UpdateSurvey struct {
		NewSurvey
		IsInCatalogue bool `json:"is_in_eduzip"`
	}

	// Product is a software product registered in the education catalogue (EduZip).
	Product struct {
		ID          int64  `db:"id" json:"id"`
		Name        string `db:"name" json:"name"`
		Provider    string `db:"provider" json:"provider"`
		Type        string `db:"type" json:"type"`
		Criteria1_1 string `db:"criteria_1_1" json:"-"`
		Criteria1_2 string `db:"criteria_1_2" json:"-"`
		Criteria1_3 string `db:"criteria_1_3" json:"-"`
		Criteria2_1 string `db:"criteria_2_1" json:"-"`
		Criteria3_1 string `db:"criteria_3_1" json:"-"`
		Criteria4_1 string `db:"criteria_4_1" json:"-"`
		Criteria5_1 string `db:"criteria_5_1" json:"-"`
		Criteria5_2 string `db:"criteria_5_2" json:"-"`
		Criteria5_3 string `db:"criteria_5_3" json:"-"`
	}

	// SelectionReason is a rationale shared across schools for choosing a product.
	SelectionReason struct {
		ID          string    `db:"id" json:"id"`
		ProductName string    `db:"product_name" json:"product_name"`
		Reason      string    `db:"reason" json:"reason"`
		SchoolCode  string    `db:"school_code" json:"school_code"`
		UseCount    int       `db:"use_count" json:"use_count"`
		CreatedAt   time.Time `db:"created_at" json:"created_at"`
	}

	NewSelectionReason struct {
		ProductName string `json:"product_name" validate:"notblank"`
		Reason      string `json:"reason" validate:"notblank,max=2000"`
	}
)

func (ns *NewSurvey) Validate(validate *validator.Validate) error {
	ns.clean()
	return validate.Struct(ns)
}

func (ns *NewSurvey) clean() {
	ns.TeacherName = core.CleanString(ns.TeacherName)
	ns.Subject = core.CleanString(ns.Subject)
	ns.ProductName = core.CleanString(ns.ProductName)
	ns.Purpose = core.CleanString(ns.Purpose)
}

func (us *UpdateSurvey) Validate(validate *validator.Validate) error {
	us.clean()
	return validate.Struct(us)
}

func (nr *NewSelectionReason) Validate(validate *validator.Validate) error {
	nr.ProductName = core.CleanString(nr.ProductName)
	nr.Reason = core.CleanString(nr.Reason)
	return validate.Struct(nr)
}

func (p Product) Criteria() []string {
	return []string{
		p.Criteria1_1, p.Criteria1_2, p.Criteria1_3,
		p.Criteria2_1, p.Criteria3_1, p.Criteria4_1,
		p.Criteria5_1, p.Criteria5_2, p.Criteria5_3,
	}
}

// CriteriaPassed is nil when the catalogue holds no evaluation for the product,
// false when any mandatory criterion is unmet.
func (p Product) CriteriaPassed() *bool {
	criteria := p.Criteria()
	evaluated := false
	for _, c := range criteria {
		if core.CleanString(c) != "" {
			evaluated = true
			break
		}
	}
	if !evaluated {
		return nil
	}
	passed := true
	for _, c := range criteria {
		if core.CleanString(c) == criterionUnmet {
			passed = false
			break
		}
	}
	return &passed
}

func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Criteria       []string `json:"criteria"`
		CriteriaPassed *bool    `json:"criteria_passed"`
	}{product(p), p.Criteria(), p.CriteriaPassed()})
}
