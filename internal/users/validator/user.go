package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"laptoploan/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

func (v ValidationErrors) HasTag(tag string) bool {
	for _, e := range v {
		if e.Tag == tag {
			return true
		}
	}
	return false
}

type UserValidator struct {
	validate *validator.Validate
}

func NewUserValidator() *UserValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &UserValidator{validate: v}
}

func (v *UserValidator) ValidateRegister(req *model.RegisterRequest) error {
	return v.check(req)
}

func (v *UserValidator) ValidateLogin(req *model.LoginRequest) error {
	return v.check(req)
}

func (v *UserValidator) ValidateAdminLogin(req *model.AdminLoginRequest) error {
	return v.check(req)
}

// Validate checks a user before it is stored.
func (v *UserValidator) Validate(u *model.User) error {
	return v.check(u)
}

func (v *UserValidator) check(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "mongodb":
		return "must be a valid ObjectID"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
