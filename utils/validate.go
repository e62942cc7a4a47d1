package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags over a request DTO and returns a
// ValidationFailure error listing the offending fields.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return Validation("Validation failed: " + strings.Join(fields, ", "))
		}
		return Validation("Validation failed")
	}
	return nil
}
