package history

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// observationValidate carries the slottime rule used by Observation.
var observationValidate *validator.Validate

func init() {
	observationValidate = validator.New()
	_ = observationValidate.RegisterValidation("slottime", validateSlotTime)
}

func validateSlotTime(fl validator.FieldLevel) bool {
	_, _, err := parseSlotTime(fl.Field().String())
	return err == nil
}

// Validate checks a single observation. The returned error wraps
// ErrInvalidObservation and names the failing fields.
func Validate(o Observation) error {
	err := observationValidate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidObservation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w (%s): %s", ErrInvalidObservation, o, strings.Join(fields, ", "))
}

// ValidateAll checks every observation and reports the first failure with its index.
func ValidateAll(obs []Observation) error {
	for i, o := range obs {
		if err := Validate(o); err != nil {
			return fmt.Errorf("observation %d: %w", i, err)
		}
	}
	return nil
}
