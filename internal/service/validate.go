package service

import (
	"errors"
	"net/mail"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/mailpulse-backend/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	// addrlist accepts anything RFC 5322 calls an address list, including
	// display names and comma-separated recipients.
	v.RegisterValidation("addrlist", func(fl validator.FieldLevel) bool {
		_, err := mail.ParseAddressList(fl.Field().String())
		return err == nil
	})
	return v
}

// validateInput turns validator failures into a single ValidationError naming
// every offending field by its JSON name.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.NewValidation("invalid input: %v", err)
	}

	var missing, malformed []string
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Tag() == "required" {
			missing = append(missing, field)
		} else {
			malformed = append(malformed, field)
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, strings.Join(missing, ", ")+" required")
	}
	if len(malformed) > 0 {
		parts = append(parts, "invalid "+strings.Join(malformed, ", "))
	}
	return appErrors.NewValidation("%s", strings.Join(parts, "; "))
}
