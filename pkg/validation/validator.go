package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UserInput is a candidate record as it arrives in a request body. Pointers
// distinguish absent fields from empty ones; Age is a json.Number so range
// violations surface as field errors instead of decode failures.
type UserInput struct {
	Name   *string      `json:"name"`
	Email  *string      `json:"email"`
	Phone  *string      `json:"phone"`
	City   *string      `json:"city"`
	Gender *string      `json:"gender"`
	Age    *json.Number `json:"age"`
}

// NormalizedUser is the result of a successful validation: strings trimmed,
// email and gender lower-cased, age coerced to an int.
type NormalizedUser struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,plainemail"`
	Phone  string `json:"phone" validate:"required"`
	City   string `json:"city" validate:"required"`
	Gender string `json:"gender" validate:"required,oneof=male female other"`
	Age    *int   `json:"age" validate:"required,gte=0,lte=150"`
}

// Deliberately simpler than full RFC syntax: no whitespace, exactly one @,
// at least one dot after it, and the domain may not end in a dot.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]*[^\s@.]$`)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report field names from json tags so messages match the wire format.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("plainemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
}

// ValidateUser checks a candidate record and returns either the normalized
// record or the full ordered list of field errors. All violations are
// collected; nothing is persisted or mutated on failure.
func ValidateUser(in UserInput) (*NormalizedUser, []string) {
	n := &NormalizedUser{}
	if in.Name != nil {
		n.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		n.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		n.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.City != nil {
		n.City = strings.TrimSpace(*in.City)
	}
	if in.Gender != nil {
		n.Gender = strings.ToLower(strings.TrimSpace(*in.Gender))
	}

	var ageErr string
	if in.Age != nil {
		v, err := in.Age.Int64()
		if err != nil {
			ageErr = "age must be a whole number"
		} else {
			age := int(v)
			n.Age = &age
		}
	}

	var msgs []string
	if err := validate.Struct(n); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				// A non-numeric age already has its own message; the
				// "required" error from the nil coercion target would
				// only duplicate it.
				if fe.Field() == "age" && ageErr != "" {
					continue
				}
				msgs = append(msgs, messageFor(fe))
			}
		} else {
			msgs = append(msgs, "invalid record")
		}
	}
	if ageErr != "" {
		msgs = append(msgs, ageErr)
	}

	if len(msgs) > 0 {
		return nil, msgs
	}
	return n, nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "plainemail":
		return "email must be a valid email address"
	case "oneof":
		return "gender must be one of: male, female, other"
	case "gte", "lte":
		return "age must be between 0 and 150"
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}

// BindingErrors converts a JSON binding failure into the same message-list
// shape the Validator produces, so malformed payloads and invalid fields
// look identical to clients.
func BindingErrors(err error) []string {
	if err == nil {
		return nil
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return []string{fmt.Sprintf("%s must be of type %s", ute.Field, expectedType(ute))}
	}
	return []string{"request body must be valid JSON"}
}

func expectedType(ute *json.UnmarshalTypeError) string {
	if ute.Field == "age" {
		return "number"
	}
	if ute.Type != nil && ute.Type.Kind() == reflect.Ptr {
		return ute.Type.Elem().Kind().String()
	}
	return ute.Type.Kind().String()
}
