package enquiries

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skydecor/catalog/internal/shared"
)

var phonePattern = regexp.MustCompile(`^[0-9+\s\-()]{10,15}$`)

// Input is a submitted enquiry form.
type Input struct {
	FullName string `json:"fullName" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Company  string `json:"company" validate:"max=100"`
	Product  string `json:"product" validate:"required"`
	Message  string `json:"message" validate:"required,min=10,max=1000"`
}

var enquiryValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Normalize trims the fields and lowercases the email.
func (in Input) Normalize() Input {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.Product = strings.TrimSpace(in.Product)
	in.Message = strings.TrimSpace(in.Message)
	return in
}

// Validate normalises in and reports field errors.
func Validate(in Input) (Input, error) {
	in = in.Normalize()
	err := enquiryValidator.Struct(in)
	if err == nil {
		return in, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return in, err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return in, shared.NewValidationError(fields)
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusContacted, StatusResolved:
		return true
	}
	return false
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "Please enter a valid email"
	case "phone":
		return "Please enter a valid phone number"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("cannot exceed %s characters", fe.Param())
	}
	return "is invalid"
}
