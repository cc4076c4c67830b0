// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"spendwise/internal/models"
)

var (
	emailShapeRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	yearRegex       = regexp.MustCompile(`^[0-9]{4}$`)
)

// Register registers all custom validators with the Gin binding engine and
// makes validation errors report JSON field names.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("email_address", validateEmailAddress)
		_ = v.RegisterValidation("clock", validateClock)
		_ = v.RegisterValidation("money", validateMoney)
		_ = v.RegisterValidation("year", validateYear)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

// validateEmailAddress applies the local@domain.tld shape check.
func validateEmailAddress(fl validator.FieldLevel) bool {
	return emailShapeRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateClock accepts HH:MM and HH:MM:SS.
func validateClock(fl validator.FieldLevel) bool {
	_, err := models.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

// validateMoney accepts decimal strings that fit NUMERIC(10,2).
func validateMoney(fl validator.FieldLevel) bool {
	_, err := models.ParseAmount(fl.Field().String())
	return err == nil
}

func validateYear(fl validator.FieldLevel) bool {
	return yearRegex.MatchString(fl.Field().String())
}
