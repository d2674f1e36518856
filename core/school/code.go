package school

import (
	"regexp"
	"strings"

	"github.com/trezcool/edusurvey/core"
)

var (
	standardCodeRegex = regexp.MustCompile(`^[0-9]{7}$`)
	fullCodeRegex     = regexp.MustCompile(`^[A-Z][0-9]{9}$`)
)

// Identifier is the directory lookup key of a school.
// AuthorityCode (the education office) is empty when only the 7 digits standard code was supplied.
type Identifier struct {
	StandardCode  string
	AuthorityCode string
}

func (id Identifier) String() string {
	return id.AuthorityCode + id.StandardCode
}

// ParseCode accepts either a 7 digits standard code ("7010911")
// or a full code made of 1 letter and 9 digits ("B107010911").
func ParseCode(raw string) (Identifier, bool) {
	s := strings.ToUpper(core.CleanString(raw))
	switch {
	case standardCodeRegex.MatchString(s):
		return Identifier{StandardCode: s}, true
	case fullCodeRegex.MatchString(s):
		return Identifier{AuthorityCode: s[:3], StandardCode: s[3:]}, true
	default:
		return Identifier{}, false
	}
}
