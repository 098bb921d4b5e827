package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (int, HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { Respond(c, err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondMapsKindsToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   Kind
	}{
		{ErrValidation("invalid_time", "bad"), http.StatusBadRequest, KindValidation},
		{ErrSlotConflict(), http.StatusConflict, KindSlotConflict},
		{ErrInvalidTemporalRange(), http.StatusUnprocessableEntity, KindInvalidTemporalRange},
		{ErrNotFound("doctor"), http.StatusNotFound, KindNotFound},
		{ErrDuplicateRating(), http.StatusConflict, KindDuplicateRating},
		{ErrInvalidTransition("completed", "cancelled"), http.StatusConflict, KindInvalidTransition},
		{ErrUnauthorized("invalid_token"), http.StatusUnauthorized, KindUnauthorized},
		{ErrForbidden("admin_only"), http.StatusForbidden, KindForbidden},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			status, body := respond(t, fmt.Errorf("wrapped: %w", tc.err))
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.kind, body.Kind)
		})
	}
}

func TestRespondHidesStoreDetails(t *testing.T) {
	status, body := respond(t, ErrStore("appointment.create", errors.New("connection refused")))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, KindStore, body.Kind)
	assert.Equal(t, "internal_error", body.Code)
	assert.NotContains(t, body.Message, "connection refused")
}

func TestErrStorePassesBusinessErrorsThrough(t *testing.T) {
	assert.Nil(t, ErrStore("op", nil))

	err := ErrStore("op", ErrSlotConflict())
	assert.True(t, IsKind(err, KindSlotConflict))

	inner := ErrStore("inner", errors.New("boom"))
	outer := ErrStore("outer", inner)
	var se *StoreError
	require.True(t, errors.As(outer, &se))
	assert.Equal(t, "inner", se.Op)
}

func TestPgClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	exclusion := &pgconn.PgError{Code: "23P01"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsExclusionConflict(unique))
	assert.True(t, IsExclusionConflict(exclusion))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

func TestIsBusiness(t *testing.T) {
	err := ErrBusiness("invalid_state")
	assert.True(t, IsBusiness(err, "invalid_state"))
	assert.False(t, IsBusiness(err, "other"))
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, KindStore, KindOf(errors.New("x")))
}
