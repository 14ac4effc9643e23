package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation), http.StatusBadRequest},
		{"unbalanced wraps validation", apperrors.ErrUnbalanced, http.StatusBadRequest},
		{"missing rate", fmt.Errorf("%w: no USD rate", apperrors.ErrMissingRate), http.StatusBadRequest},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict},
		{"period closed", apperrors.ErrPeriodClosed, http.StatusUnprocessableEntity},
		{"referential block", apperrors.ErrReferentialBlock, http.StatusLocked},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"app error", apperrors.NewAppError(500, "db down", errors.New("eof")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}
