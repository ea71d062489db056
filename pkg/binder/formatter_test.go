package binder

import (
	"net/http"
	"reflect"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFieldError struct {
	tag   string
	field string
	param string
	kind  reflect.Kind
}

func (e *mockFieldError) Error() string           { return "Mock Field Error" }
func (e *mockFieldError) Tag() string             { return e.tag }
func (e *mockFieldError) ActualTag() string       { return e.tag }
func (e *mockFieldError) Namespace() string       { return "" }
func (e *mockFieldError) StructNamespace() string { return "" }
func (e *mockFieldError) Field() string           { return e.field }
func (e *mockFieldError) StructField() string     { return "" }
func (e *mockFieldError) Value() interface{}      { return "" }
func (e *mockFieldError) Param() string           { return e.param }
func (e *mockFieldError) Kind() reflect.Kind {
	if e.kind == 0 {
		return reflect.String
	}
	return e.kind
}
func (e *mockFieldError) Type() reflect.Type               { return reflect.TypeOf("") }
func (e *mockFieldError) Translate(_ ut.Translator) string { return "" }

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		field string
		tag   string
		param string
		kind  reflect.Kind
		msg   string
	}{
		{"email", email, "", 0, `"email" is not a valid email`},
		{"numEmployees", gt, "0", reflect.Int, `"numEmployees" must be greater than 0`},
		// String min/max
		{"companyHandle", mx, "25", reflect.String, `"companyHandle" length must be less than or equal to 25 characters`},
		{"handle", mx, "1", reflect.String, `"handle" length must be less than or equal to 1 character`},
		{"password", mn, "8", reflect.String, `"password" length must be greater than or equal to 8 characters`},
		{"title", mn, "1", reflect.String, `"title" length must be greater than or equal to 1 character`},
		// Numeric min/max
		{"salary", mn, "0", reflect.Int, `"salary" must be greater than or equal to 0`},
		{"maxEmployees", mx, "100", reflect.Int64, `"maxEmployees" must be less than or equal to 100`},
		{"limit", mx, "1", reflect.Uint, `"limit" must be less than or equal to 1`},
		{"equity", mn, "0", reflect.Float64, `"equity" must be greater than or equal to 0`},
		// Slice min/max
		{"roles", mx, "5", reflect.Slice, `"roles" length must be less than or equal to 5 elements`},
		{"roles", mn, "1", reflect.Slice, `"roles" length must be greater than or equal to 1 element`},
		// Other
		{"companyHandle", ne, "c1", 0, `"companyHandle" can't be "c1"`},
		{"role", oneof, "admin viewer", 0, `"role" must be one of the following: "admin", "viewer"`},
		{"title", required, "", 0, `"title" is required`},
		{"equity", equity, "", 0, `"equity" must be a decimal between 0 and 1`},
		{"logoUrl", httpURL, "", 0, `"logoUrl" must be an http or https URL`},
		{"handle", lowercase, "", 0, `"handle" must be lowercase`},
		{"title", "foo", "", 0, `"title" failed the "foo" check`},
	}

	for _, tt := range cases {
		err := mockFieldError{tag: tt.tag, field: tt.field, param: tt.param, kind: tt.kind}
		assert.Equal(t, tt.msg, formatValidationError(&err))
	}
}

func TestFormatValidationErrors(t *testing.T) {
	t.Parallel()

	t.Run("formats every violation in order", func(tt *testing.T) {
		errs := validator.ValidationErrors{
			&mockFieldError{tag: required, field: "title"},
			&mockFieldError{tag: mn, field: "salary", param: "0", kind: reflect.Int},
			&mockFieldError{tag: equity, field: "equity"},
			&mockFieldError{tag: required, field: "companyHandle"},
		}

		assert.Equal(tt, []string{
			`"title" is required`,
			`"salary" must be greater than or equal to 0`,
			`"equity" must be a decimal between 0 and 1`,
			`"companyHandle" is required`,
		}, formatValidationErrors(errs))
	})

	t.Run("becomes the details of a single error", func(tt *testing.T) {
		errs := validator.ValidationErrors{
			&mockFieldError{tag: mn, field: "minEmployees", param: "0", kind: reflect.Int},
			&mockFieldError{tag: httpURL, field: "logoUrl"},
		}

		err := errcodes.ValidationErrors(formatValidationErrors(errs))

		var e *errcodes.Error
		require.True(tt, errors.As(err, &e))
		assert.Equal(tt, http.StatusBadRequest, e.HTTPCode)
		assert.Equal(tt, "validation_error", e.Code)
		assert.Len(tt, e.Details, 2)
		assert.Equal(tt, `"minEmployees" must be greater than or equal to 0; "logoUrl" must be an http or https URL`, e.Message)
	})

	t.Run("is empty without violations", func(tt *testing.T) {
		assert.Empty(tt, formatValidationErrors(nil))
	})
}
