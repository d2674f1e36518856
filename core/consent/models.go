package consent

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/edusurvey/core"
)

// Record is an append-only trace of a staff member accepting the personal data terms.
type Record struct {
	ID            string      `db:"id" json:"id"`
	SchoolCode    string      `db:"school_code" json:"school_code"`
	Role          core.Role   `db:"role" json:"role"`
	ClientAddress null.String `db:"ip" json:"ip"`
	UserAgent     null.String `db:"user_agent" json:"user_agent"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
}

type NewRecord struct {
	SchoolCode    string `json:"school_code" validate:"schoolcode"`
	Role          string `json:"role" validate:"role"`
	ClientAddress string `json:"-"`
	UserAgent     string `json:"-"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.SchoolCode, _ = core.NormalizeSchoolCode(nr.SchoolCode)
	nr.Role = core.CleanString(nr.Role)
	return validate.Struct(nr)
}
