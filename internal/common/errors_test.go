package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("%w: question q1", ErrNotFound), http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("%w: not registered for this contest", ErrForbidden), http.StatusForbidden},
		{ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("%w: language is required", ErrBadRequest), http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), http.StatusConflict},
		{ErrTooManyRequests, http.StatusTooManyRequests},
		{ErrServiceUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatusFromError(tc.err), "%v", tc.err)
	}
}

func TestClientMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, ErrInternalServer.Error(), ClientMessage(errors.New("pq: connection refused")))
	err := fmt.Errorf("%w: not registered for this contest", ErrForbidden)
	assert.Equal(t, err.Error(), ClientMessage(err))
}

func TestRespondWithDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithDomainError(rec, ErrTooManyRequests)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"too many requests"}`, rec.Body.String())
}
