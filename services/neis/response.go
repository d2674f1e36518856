package neissvc

import (
	"bytes"
	"encoding/json"

	"github.com/trezcool/edusurvey/core/school"
)

const codeSuccess = "INFO-000"

// oneOrMany decodes a JSON value that may be absent, a single object or an array of objects.
type oneOrMany[T any] []T

func (m *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*m = nil
		return nil
	case data[0] == '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*m = items
		return nil
	default:
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*m = oneOrMany[T]{item}
		return nil
	}
}

type (
	result struct {
		Code    string `json:"CODE"`
		Message string `json:"MESSAGE"`
	}

	headEntry struct {
		ListTotalCount *int    `json:"list_total_count,omitempty"`
		Result         *result `json:"RESULT,omitempty"`
	}

	row struct {
		Name          string `json:"SCHUL_NM"`
		Address       string `json:"ORG_RDNMA"`
		TypeLabel     string `json:"SCHUL_KND_SC_NM"`
		StandardCode  string `json:"SD_SCHUL_CODE"`
		AuthorityCode string `json:"ATPT_OFCDC_SC_CODE"`
	}

	block struct {
		Head oneOrMany[headEntry] `json:"head"`
		Row  oneOrMany[row]       `json:"row"`
	}

	// envelope is the schoolInfo dataset response.
	// On failure the directory answers with a bare RESULT instead of the schoolInfo blocks.
	envelope struct {
		SchoolInfo oneOrMany[block] `json:"schoolInfo"`
		Result     *result          `json:"RESULT"`
	}
)

// result returns the result code of the response, whichever shape carried it.
func (e envelope) result() result {
	for _, b := range e.SchoolInfo {
		for _, h := range b.Head {
			if h.Result != nil {
				return *h.Result
			}
		}
	}
	if e.Result != nil {
		return *e.Result
	}
	return result{}
}

func (e envelope) records() []school.Record {
	records := make([]school.Record, 0)
	for _, b := range e.SchoolInfo {
		for _, r := range b.Row {
			records = append(records, school.Record{
				Name:          r.Name,
				Address:       r.Address,
				TypeLabel:     r.TypeLabel,
				StandardCode:  r.StandardCode,
				AuthorityCode: r.AuthorityCode,
			})
		}
	}
	return records
}
