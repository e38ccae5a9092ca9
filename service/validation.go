package service

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"meal-delivery-api/models"

	"github.com/go-playground/validator/v10"
)

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}()

// ProfileInput is the profile form. Vendor columns are required only for vendors.
type ProfileInput struct {
	FullName     string          `json:"full_name" validate:"required"`
	Type         models.UserRole `json:"type" validate:"required,oneof=user vendor"`
	BusinessName string          `json:"business_name" validate:"required_if=Type vendor"`
	Phone        string          `json:"phone" validate:"required_if=Type vendor"`
	Address      string          `json:"address" validate:"required_if=Type vendor"`
}

// KYCInput is the verification form
type KYCInput struct {
	FullName string `json:"full_name" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

// MealInput is the meal form minus the image
type MealInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gt=0"`
}

// MealPatch carries the fields a vendor wants to change
type MealPatch struct {
	Name        *string  `json:"name" validate:"omitnil,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitnil,gt=0"`
}

// ContactInput is the buyer's delivery contact, copied onto the order
type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

func trimAll(ss ...*string) {
	for _, s := range ss {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

func check(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be a positive number"
	case "min":
		return "must not be empty"
	default:
		return "is invalid"
	}
}

func ValidateProfile(in *ProfileInput) error {
	trimAll(&in.FullName, &in.BusinessName, &in.Phone, &in.Address)
	return check(in)
}

func ValidateKYC(in *KYCInput) error {
	trimAll(&in.FullName, &in.Address, &in.Phone)
	return check(in)
}

func ValidateMeal(in *MealInput) error {
	trimAll(&in.Name, &in.Description)
	if math.IsInf(in.Price, 0) || math.IsNaN(in.Price) {
		return invalid("price", "must be a positive number")
	}
	return check(in)
}

func ValidateMealPatch(in *MealPatch) error {
	trimAll(in.Name, in.Description)
	if in.Price != nil && (math.IsInf(*in.Price, 0) || math.IsNaN(*in.Price)) {
		return invalid("price", "must be a positive number")
	}
	return check(in)
}

func ValidateContact(in *ContactInput) error {
	trimAll(&in.Name, &in.Email, &in.Phone, &in.Address)
	return check(in)
}
