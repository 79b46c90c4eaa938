// Package validator checks request payloads before they are sent.
package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

// Validator wraps a go-playground validator with English messages keyed by json field name.
type Validator struct {
	v     *govalidator.Validate
	trans ut.Translator
}

// New builds a Validator with the domain rules registered.
func New() *Validator {
	v := govalidator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(v, trans) //nolint:errcheck // only fails on duplicate registration

	v.RegisterValidation("course_category", func(fl govalidator.FieldLevel) bool { //nolint:errcheck
		return domain.ValidCategory(domain.CourseCategory(fl.Field().String()))
	})
	v.RegisterTranslation("course_category", trans, //nolint:errcheck
		func(tr ut.Translator) error {
			return tr.Add("course_category", "{0} must be a known course category", true)
		},
		func(tr ut.Translator, fe govalidator.FieldError) string {
			msg, _ := tr.T("course_category", fe.Field())
			return msg
		},
	)

	return &Validator{v: v, trans: trans}
}

// Fields validates s and returns field name to message, or nil when s is valid.
func (val *Validator) Fields(s any) map[string]string {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	return val.TranslateErrors(err)
}

// TranslateErrors converts a validation error into a field map. Other errors
// land under "detail".
func (val *Validator) TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(val.trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Check validates s and returns a *client.Error in the invalid-input category
// on failure. The message is the first field message in field-name order.
func (val *Validator) Check(s any) error {
	fields := val.Fields(s)
	if fields == nil {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &client.Error{
		Category: client.CategoryInvalidInput,
		Message:  fields[keys[0]],
		Fields:   fields,
	}
}
