package survey

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	// Form3Header is the header line of the recommended products report (form 3).
	Form3Header = []string{"학년", "관련 교과", "기업명", "제품명", "필수 기준 충족", "선택 기준 충족", "선정이유"}

	// SurveyHeader is the header line of the surveys export.
	SurveyHeader = []string{"번호", "신청교사", "사용 과목", "제품명", "에듀집 등록", "주요 용도", "학생 개인정보 여부", "신청일"}
)

// Form3Row is one recommended product of a school.
type Form3Row struct {
	Grade            string   `json:"grade"`
	Subjects         []string `json:"subjects"`
	Provider         string   `json:"provider"`
	ProductName      string   `json:"product_name"`
	RequiredCriteria string   `json:"required_criteria"`
	OptionalCriteria string   `json:"optional_criteria"`
	Reason           string   `json:"reason"`
}

func (r Form3Row) Values() []string {
	return []string{r.Grade, strings.Join(r.Subjects, ", "), r.Provider, r.ProductName, r.RequiredCriteria, r.OptionalCriteria, r.Reason}
}

// MissingReasonsError lists the products still lacking a selection reason.
type MissingReasonsError struct {
	Products []string
}

func (e *MissingReasonsError) Error() string {
	return fmt.Sprintf("선정이유를 모두 입력해주세요. (미입력: %s)", strings.Join(e.Products, ", "))
}

// BuildForm3 makes one row per distinct product of `surveys`, in first seen order.
// Every product needs a non blank entry in `reasons` (keyed by product name).
func BuildForm3(surveys []Survey, products []Product, reasons map[string]string) ([]Form3Row, error) {
	catalogue := make(map[string]Product, len(products))
	for _, p := range products {
		catalogue[p.Name] = p
	}

	rows := make([]Form3Row, 0)
	index := make(map[string]int)
	for _, s := range surveys {
		if i, ok := index[s.ProductName]; ok {
			if !contains(rows[i].Subjects, s.Subject) {
				rows[i].Subjects = append(rows[i].Subjects, s.Subject)
			}
			continue
		}

		row := Form3Row{
			Grade:            "전학년",
			Subjects:         []string{s.Subject},
			Provider:         "-",
			ProductName:      s.ProductName,
			RequiredCriteria: "-",
			OptionalCriteria: "-",
			Reason:           strings.TrimSpace(reasons[s.ProductName]),
		}
		if p, ok := catalogue[s.ProductName]; ok {
			if p.Provider != "" {
				row.Provider = p.Provider
			}
			if passed := p.CriteriaPassed(); passed != nil {
				row.RequiredCriteria = "X"
				if *passed {
					row.RequiredCriteria = "○"
				}
			}
		}
		index[s.ProductName] = len(rows)
		rows = append(rows, row)
	}

	var missing []string
	for _, row := range rows {
		if row.Reason == "" {
			missing = append(missing, row.ProductName)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingReasonsError{Products: missing}
	}
	return rows, nil
}

// SurveyRows renders surveys in the column order of SurveyHeader.
func SurveyRows(surveys []Survey) [][]string {
	rows := make([][]string, 0, len(surveys))
	for i, s := range surveys {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.TeacherName,
			s.Subject,
			s.ProductName,
			yesNo(s.IsInCatalogue, "등록", "미등록"),
			s.Purpose,
			yesNo(s.HasPersonalInfo, "예", "아니오"),
			s.CreatedAt.Format("2006-01-02"),
		})
	}
	return rows
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
