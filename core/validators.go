package core

import (
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const maxSchoolCodeLen = 10

var (
	// custom validation tags & texts
	pinTag   = "pin"
	PinText  = "비밀번호는 숫자 4자리여야 합니다."
	pinRegex = regexp.MustCompile(`^\d{4}$`)

	schoolCodeTag  = "schoolcode"
	SchoolCodeText = "school_code required"

	roleTag  = "role"
	RoleText = "role must be teacher or manager"

	notBlankTag  = "notblank"
	requiredTag  = "required"
	RequiredText = "필수 입력 항목입니다."
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(pinTag, pinValidation)
	RegisterCustomTranslation(validate, translator, pinTag, PinText)

	_ = validate.RegisterValidation(schoolCodeTag, schoolCodeValidation)
	RegisterCustomTranslation(validate, translator, schoolCodeTag, SchoolCodeText)

	_ = validate.RegisterValidation(roleTag, roleValidation)
	RegisterCustomTranslation(validate, translator, roleTag, RoleText)

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, RequiredText)

	RegisterCustomTranslation(validate, translator, requiredTag, RequiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// IsPin reports whether `s` is exactly 4 ASCII digits.
func IsPin(s string) bool {
	return pinRegex.MatchString(s)
}

// NormalizeSchoolCode trims and uppercases a school code used as a storage key.
// Empty codes and codes longer than 10 characters are rejected.
func NormalizeSchoolCode(raw string) (string, bool) {
	code := strings.ToUpper(CleanString(raw))
	if code == "" || utf8.RuneCountInString(code) > maxSchoolCodeLen {
		return "", false
	}
	return code, true
}

// Custom Global Validators

func pinValidation(fl validator.FieldLevel) bool {
	return IsPin(fl.Field().String())
}

func schoolCodeValidation(fl validator.FieldLevel) bool {
	_, ok := NormalizeSchoolCode(fl.Field().String())
	return ok
}

func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}

func notBlankValidation(fl validator.FieldLevel) bool {
	return CleanString(fl.Field().String()) != ""
}
