package errcodes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func handle(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	NewHandler().Handle(err, c)
	return rr
}

func TestHandle(t *testing.T) {
	t.Parallel()

	t.Run("renders custom errors", func(tt *testing.T) {
		rr := handle(tt, errors.WithStack(NotFound("Job 999999")))
		require.Equal(tt, http.StatusNotFound, rr.Code)

		body := rr.Body.String()
		assert.Equal(tt, "not_found", gjson.Get(body, "error.code").String())
		assert.Equal(tt, "Job 999999 not found.", gjson.Get(body, "error.message").String())
		assert.Equal(tt, int64(http.StatusNotFound), gjson.Get(body, "error.status_code").Int())
		assert.False(tt, gjson.Get(body, "error.details").Exists())
	})

	t.Run("includes every validation detail", func(tt *testing.T) {
		rr := handle(tt, ValidationErrors([]string{`"title" is required`, `"companyHandle" is required`}))
		require.Equal(tt, http.StatusBadRequest, rr.Code)

		details := gjson.Get(rr.Body.String(), "error.details").Array()
		require.Len(tt, details, 2)
		assert.Equal(tt, `"title" is required`, details[0].String())
		assert.Equal(tt, `"companyHandle" is required`, details[1].String())
	})

	t.Run("renders echo errors with a snake cased code", func(tt *testing.T) {
		rr := handle(tt, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))
		require.Equal(tt, http.StatusMethodNotAllowed, rr.Code)
		assert.Equal(tt, "method_not_allowed", gjson.Get(rr.Body.String(), "error.code").String())
	})

	t.Run("hides generic errors behind a 500", func(tt *testing.T) {
		rr := handle(tt, errors.New("pq: connection refused"))
		require.Equal(tt, http.StatusInternalServerError, rr.Code)

		body := rr.Body.String()
		assert.Equal(tt, "internal_server_error", gjson.Get(body, "error.code").String())
		assert.Equal(tt, "Internal Server Error", gjson.Get(body, "error.message").String())
	})
}

func TestErrorIs(t *testing.T) {
	t.Parallel()

	err := errors.WithStack(NotFound("Company"))
	assert.True(t, errors.Is(err, NotFound("Company")))
	assert.False(t, errors.Is(err, NotFound("Job")))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusNotFound, e.HTTPCode)
}
