package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/src/utils"
)

func TestHTTPErrorConstructors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{utils.BadRequest("bad"), http.StatusBadRequest},
		{utils.Unauthorized("nope"), http.StatusUnauthorized},
		{utils.Forbidden("denied"), http.StatusForbidden},
		{utils.NotFound("gone"), http.StatusNotFound},
	}
	for _, tc := range cases {
		httpErr, ok := tc.err.(*utils.HTTPError)
		require.True(t, ok)
		assert.Equal(t, tc.code, httpErr.Code)
		assert.Equal(t, httpErr.Message, tc.err.Error())
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	utils.WriteError(rec, utils.NotFound("portfolio not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error": "portfolio not found"}`, rec.Body.String())
}

func TestWriteErrorWrapsUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	utils.WriteError(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
