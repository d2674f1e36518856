package inmemdb

import (
	"sync"

	"github.com/trezcool/edusurvey/core/consent"
	"github.com/trezcool/edusurvey/core/secret"
	"github.com/trezcool/edusurvey/core/survey"
)

type (
	DB struct {
		secret  *secretTable
		consent *consentTable
		survey  *surveyTable
		product *productTable
		reason  *reasonTable
	}

	secretTable struct {
		sync.RWMutex
		table map[string]*secret.Secret
	}

	consentTable struct {
		sync.RWMutex
		table []consent.Record
	}

	surveyTable struct {
		sync.RWMutex
		table map[string]*survey.Survey
	}

	productTable struct {
		sync.RWMutex
		table map[int64]*survey.Product
	}

	reasonTable struct {
		sync.RWMutex
		table map[string]*survey.SelectionReason
	}
)

func Open() *DB {
	return &DB{
		secret:  &secretTable{table: make(map[string]*secret.Secret)},
		consent: &consentTable{},
		survey:  &surveyTable{table: make(map[string]*survey.Survey)},
		product: &productTable{table: make(map[int64]*survey.Product)},
		reason:  &reasonTable{table: make(map[string]*survey.SelectionReason)},
	}
}
