package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	notBlankTag     = "notblank"
	academicYearTag = "academic_year"
)

var academicYearPattern = regexp.MustCompile(`^(\d{4})/(\d{4})$`)

// Validator wraps the go-playground validator with the project's custom tags and English messages.
type Validator struct {
	*validator.Validate
	translator ut.Translator
}

// New builds a validator that reports JSON field names and understands the custom tags.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(academicYearTag, academicYear)

	registerMessage(validate, translator, notBlankTag, "{0} must not be blank")
	registerMessage(validate, translator, academicYearTag, "{0} must look like 2024/2025")

	return &Validator{Validate: validate, translator: translator}
}

// Details flattens validation errors into field → message pairs.
// It returns nil when err is not a validation error.
func (v *Validator) Details(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		key := strings.TrimPrefix(fieldErr.Namespace(), rootNamespace(fieldErr))
		if key == "" {
			key = fieldErr.Field()
		}
		details[key] = fieldErr.Translate(v.translator)
	}
	return details
}

func rootNamespace(fieldErr validator.FieldError) string {
	ns := fieldErr.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[:idx+1]
	}
	return ""
}

func registerMessage(validate *validator.Validate, translator ut.Translator, tag, message string) {
	_ = validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error {
			return t.Add(tag, message, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			translated, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return translated
		},
	)
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// academicYear accepts "YYYY/YYYY" where the second year follows the first.
func academicYear(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return IsAcademicYear(field.String())
}

// IsAcademicYear reports whether value is a "YYYY/YYYY" span of consecutive years.
func IsAcademicYear(value string) bool {
	match := academicYearPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return false
	}
	start, _ := strconv.Atoi(match[1])
	end, _ := strconv.Atoi(match[2])
	return end == start+1
}
