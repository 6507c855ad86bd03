package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// checker pairs a validator with its English translator. Field names are
// reported by their mapstructure key, matching config files and env vars.
type checker struct {
	validate   *validator.Validate
	translator ut.Translator
}

var loadChecker = sync.OnceValues(func() (*checker, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	tr, ok := ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		return nil, errors.New("english translator unavailable")
	}

	if err := en_translations.RegisterDefaultTranslations(v, tr); err != nil {
		return nil, fmt.Errorf("registering translations: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &checker{validate: v, translator: tr}, nil
})

// Validate checks cfg against its declared tags and returns FieldErrors
// naming each offending setting.
func Validate(cfg Config) error {
	chk, err := loadChecker()
	if err != nil {
		return fmt.Errorf("preparing validator: %w", err)
	}

	err = chk.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(FieldErrors, 0, len(verrs))
	for _, verr := range verrs {
		fields = append(fields, FieldError{
			Field: verr.Field(),
			Value: fmt.Sprint(verr.Value()),
			Err:   chk.message(verr),
		})
	}

	return fields
}

// message phrases cross-field rules in terms of setting names, which the
// stock translations render as Go field names.
func (c *checker) message(verr validator.FieldError) string {
	switch verr.Tag() {
	case "required_with":
		return fmt.Sprintf("%s must be set together with %s", verr.Field(), settingName(verr.Param()))
	default:
		return verr.Translate(c.translator)
	}
}

// settingName maps a Config field name onto its mapstructure key.
func settingName(field string) string {
	f, ok := reflect.TypeFor[Config]().FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
	return name
}

// FieldError reports one invalid setting and the value it held.
type FieldError struct {
	Field string
	Value string
	Err   string
}

// FieldErrors collects every invalid setting found by Validate.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	var b strings.Builder
	for i, f := range fe {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s=%q: %s", f.Field, f.Value, f.Err)
	}
	return b.String()
}
