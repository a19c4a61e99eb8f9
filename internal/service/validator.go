package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateRequest checks req's struct tags and wraps any failure in sentinel
// so callers can map it to a protocol error
func validateRequest(req any, sentinel error) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}

	var details strings.Builder
	for _, fe := range verrs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch fe.Tag() {
		case "required":
			fmt.Fprintf(&details, "%s is required", fe.Field())
		case "min":
			if fe.Kind() == reflect.String {
				fmt.Fprintf(&details, "%s must be at least %s characters", fe.Field(), fe.Param())
			} else {
				fmt.Fprintf(&details, "%s must be at least %s", fe.Field(), fe.Param())
			}
		case "max":
			if fe.Kind() == reflect.String {
				fmt.Fprintf(&details, "%s must be at most %s characters", fe.Field(), fe.Param())
			} else {
				fmt.Fprintf(&details, "%s must be at most %s", fe.Field(), fe.Param())
			}
		case "alphanum":
			fmt.Fprintf(&details, "%s must be alphanumeric", fe.Field())
		default:
			fmt.Fprintf(&details, "%s failed %s validation", fe.Field(), fe.Tag())
		}
	}
	return fmt.Errorf("%w: %s", sentinel, details.String())
}
