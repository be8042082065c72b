package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom_ClassifiedError(t *testing.T) {
	assert.Equal(t, ErrLinkNotFound, From(ErrLinkNotFound))
	assert.Equal(t, ErrLinkNotFound, From(fmt.Errorf("resolving token: %w", ErrLinkNotFound)))
}

func TestFrom_UnclassifiedFallsBackToInternal(t *testing.T) {
	appErr := From(errors.New("connection reset"))

	assert.Equal(t, ErrInternal, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "Internal server error", appErr.Message, "internals must not leak into the response")
}

func TestWithMessage_KeepsCodeAndStatus(t *testing.T) {
	custom := ErrConflict.WithMessage("Email already exists")

	assert.Equal(t, ErrConflict.Code, custom.Code)
	assert.Equal(t, ErrConflict.Status, custom.Status)
	assert.Equal(t, "Email already exists", custom.Message)
	assert.ErrorIs(t, custom, ErrConflict)
}
