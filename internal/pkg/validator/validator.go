package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// Package item type validation
	validate.RegisterValidation("item_type", func(fl validator.FieldLevel) bool {
		t := fl.Field().String()
		validTypes := []string{"flight", "hotel", "car", "guide", "transport", "note", "other"}
		for _, v := range validTypes {
			if t == v {
				return true
			}
		}
		return false
	})

	// Booking status validation
	validate.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		validStatuses := []string{"new", "quoted", "accepted", "rejected", "cancelled"}
		for _, v := range validStatuses {
			if s == v {
				return true
			}
		}
		return false
	})

	// Vendor category validation
	validate.RegisterValidation("vendor_category", func(fl validator.FieldLevel) bool {
		c := fl.Field().String()
		validCategories := []string{"airline", "hotel", "car_rental", "guide", "transport", "other"}
		for _, v := range validCategories {
			if c == v {
				return true
			}
		}
		return false
	})

	// Itinerary date validation (YYYY-MM-DD)
	validate.RegisterValidation("trip_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})

	// Itinerary time validation (HH:MM, 24h)
	validate.RegisterValidation("trip_time", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "uuid":
			errors[field] = "Invalid identifier format"
		case "item_type":
			errors[field] = "Invalid item type. Must be: flight, hotel, car, guide, transport, note, or other"
		case "booking_status":
			errors[field] = "Invalid status. Must be: new, quoted, accepted, rejected, or cancelled"
		case "vendor_category":
			errors[field] = "Invalid category. Must be: airline, hotel, car_rental, guide, transport, or other"
		case "trip_date":
			errors[field] = "Invalid date, expected YYYY-MM-DD"
		case "trip_time":
			errors[field] = "Invalid time, expected HH:MM"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
