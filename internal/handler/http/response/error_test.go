package response

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
	"github.com/staffhub/hrm-backend-go/internal/pkg/validator"
)

func TestHandleError_ValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{
		{Field: "email", Message: "a valid email is required"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "a valid email is required")
}

func TestHandleError_DomainSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, leave.ErrRequestNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleError_UnmappedErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pool exhausted"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pool exhausted")
	assert.Contains(t, buf.String(), "pool exhausted")
}
