package school

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core"
)

type Reason string

const (
	ReasonBadFormat    Reason = "badFormat"
	ReasonNotFound     Reason = "notFound"
	ReasonNameMismatch Reason = "nameMismatch"
)

// Verification is the outcome of an identity claim.
// Record is set when accepted and on ReasonNameMismatch (to show the actual name).
type Verification struct {
	Accepted bool
	Reason   Reason
	Record   Record
}

type Verifier struct {
	dir Directory
}

func NewVerifier(dir Directory) *Verifier {
	return &Verifier{dir: dir}
}

// Verify checks that claimedCode designates a real school whose name matches claimedName.
// A rejection is not an error: err is only set when the directory lookup fails.
func (v *Verifier) Verify(ctx context.Context, claimedName, claimedCode string) (Verification, error) {
	id, ok := ParseCode(claimedCode)
	if !ok {
		return Verification{Reason: ReasonBadFormat}, nil
	}

	rec, err := v.dir.LookupByCode(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Verification{Reason: ReasonNotFound}, nil
		}
		return Verification{}, errors.Wrap(err, "looking up school by code")
	}

	if !NamesMatch(claimedName, rec.Name) {
		return Verification{Reason: ReasonNameMismatch, Record: rec}, nil
	}
	return Verification{Accepted: true, Record: rec}, nil
}

// NamesMatch ignores whitespace and case, then accepts when either name contains the other.
// "서울초" matches "서울 초등학교".
func NamesMatch(claimed, actual string) bool {
	a := core.StripSpaces(claimed, true /* lower */)
	b := core.StripSpaces(actual, true /* lower */)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
