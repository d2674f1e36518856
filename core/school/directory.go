package school

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("school not found")
	ErrLookupFailed = errors.New("school lookup failed")
)

// LookupError wraps transport and decoding failures of the directory.
// errors.Is(err, ErrLookupFailed) holds for every LookupError.
type LookupError struct {
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrLookupFailed, e.Op, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool { return target == ErrLookupFailed }

// Record is a school as described by the public directory.
type Record struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	TypeLabel     string `json:"typeLabel"`
	StandardCode  string `json:"standardCode"`
	AuthorityCode string `json:"authorityCode"`
}

// FullCode is the code a user can type back to identify the school.
func (r Record) FullCode() string {
	return r.AuthorityCode + r.StandardCode
}

// Directory looks schools up in the public school directory.
type Directory interface {
	// LookupByCode returns ErrNotFound when no school matches and a *LookupError when the directory cannot be queried.
	LookupByCode(ctx context.Context, id Identifier) (Record, error)
	LookupByName(ctx context.Context, name string) ([]Record, error)
}
