package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/palmithor/scorebrawl/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusByKind(t *testing.T) {
	testCases := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{apperror.NotFound("season not found"), http.StatusNotFound, "NOT_FOUND", "season not found"},
		{apperror.Forbidden("only the last match can be deleted"), http.StatusForbidden, "FORBIDDEN", "only the last match can be deleted"},
		{apperror.BadRequest("teams must have the same number of players"), http.StatusBadRequest, "BAD_REQUEST", "teams must have the same number of players"},
		{apperror.Conflict("league is archived"), http.StatusConflict, "CONFLICT", "league is archived"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL", "Internal Server Error"},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, "failed to create match", tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorBody
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Spring"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &v))
	assert.Equal(t, "Spring", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nope":1}`))
	err := DecodeJSON(httptest.NewRecorder(), req, &v)
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}
