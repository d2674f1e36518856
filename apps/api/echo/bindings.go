package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/edusurvey/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

type (
	AdminLoginRequest struct {
		SchoolName string `json:"school_name"`
		SchoolCode string `json:"school_code"`
	}

	// SchoolPasswordRequest is the body of POST /school-password; fields depend on the action.
	SchoolPasswordRequest struct {
		Action     string `json:"action"`
		SchoolCode string `json:"school_code"`
		Password   string `json:"password"`
		Role       string `json:"role"`
		AdminName  string `json:"admin_name"`
		AdminCode  string `json:"admin_code"`
	}

	ChangePasswordRequest struct {
		SchoolCode      string `json:"school_code"`
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	AccessRequest struct {
		Role       string `json:"role"`
		SchoolName string `json:"school_name"`
		SchoolCode string `json:"school_code"`
		Password   string `json:"password"`
		Confirm    string `json:"confirm"`
	}

	AccessResponse struct {
		State      string `json:"state"`
		Step       string `json:"step,omitempty"`
		Reason     string `json:"reason,omitempty"`
		Message    string `json:"message,omitempty"`
		SchoolName string `json:"schoolName,omitempty"`
		Token      string `json:"token,omitempty"`
	}

	SchoolInfoResponse struct {
		Success    bool   `json:"success"`
		SchoolName string `json:"schoolName"`
		Address    string `json:"address"`
		SchoolType string `json:"schoolType"`
	}

	SchoolSearchResult struct {
		Name          string `json:"name"`
		StandardCode  string `json:"standardCode"`
		AuthorityCode string `json:"authorityCode"`
		FullCode      string `json:"fullCode"`
		Address       string `json:"address"`
		TypeLabel     string `json:"typeLabel"`
	}

	DeleteSurveysRequest struct {
		IDs []string `json:"ids"`
	}

	Form3Request struct {
		Reasons map[string]string `json:"reasons"`
	}

	SuccessResponse struct {
		Success bool `json:"success"`
	}
)
