package httpserver

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/transport"
)

type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

// bindAndValidate decodes the JSON body into req and validates it. When ok is
// false the returned error (or written response) is the handler's result.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}

		resp := transport.ValidationErrorResponse{Message: "validation failed"}
		for _, fe := range verrs {
			resp.Errors = append(resp.Errors, transport.FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return false, c.JSON(http.StatusUnprocessableEntity, resp)
	}

	return true, nil
}
