package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"escaperoom/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

// Struct validates v and reports failures as apperr.ErrInvalidInput.
func Struct(v interface{}) error {
	fields := Validate(v)
	if fields == nil {
		return nil
	}

	parts := make([]string, 0, len(fields))
	for field, tag := range fields {
		parts = append(parts, fmt.Sprintf("%s failed %s", field, tag))
	}
	sort.Strings(parts)
	return apperr.Invalid("%s", strings.Join(parts, ", "))
}
