package validators

import (
	"reflect"
	"regexp"

	"consultacnpj/cmd/internal/domain/cnpj"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

var (
	onlyDigits = regexp.MustCompile(`^\d+$`)
	hasSpaces  = regexp.MustCompile(`\s+`)
)

// New returns a validator with every custom tag of this package registered.
func New() *validator.Validate {
	validate := validator.New()
	Register(validate)
	return validate
}

func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("cnpj", CNPJ)
	_ = validate.RegisterValidation("digits", Digits)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
}

// CNPJ accepts formatted or bare values whose check digits are correct.
func CNPJ(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		log.Warnf("validator 'cnpj' applied to non-string type: %s", fl.Field().Kind().String())
		return false
	}
	return cnpj.IsValid(val)
}

func Digits(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return onlyDigits.MatchString(val)
}

// NoWhiteSpaces returns false if the string contains any whitespace (rejecting the user input).
func NoWhiteSpaces(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	str := field.String()
	return !hasSpaces.MatchString(str)
}
