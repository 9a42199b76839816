package handler

import (
	"net/http"
	"testing"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/foodorder/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// These cases are rejected before the import service is reached, so the
// handler runs without one.
func TestMenuImportHandler_RejectsBeforeImport(t *testing.T) {
	h := NewMenuImportHandler(nil, zap.NewNop())
	admin := testutil.AdminPrincipal(access.CountryIndia)
	restaurantID := uuid.NewString()

	t.Run("anonymous", func(t *testing.T) {
		tc := testutil.NewTestContext(t, http.MethodPost, "/import", nil)
		tc.SetParam("id", restaurantID)
		h.Import(tc.Context)
		testutil.AssertAPIError(t, tc.Recorder, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	})

	t.Run("malformed restaurant id", func(t *testing.T) {
		tc := testutil.NewTestContext(t, http.MethodPost, "/import", nil)
		tc.SetPrincipal(admin)
		tc.SetParam("id", "taj")
		h.Import(tc.Context)
		testutil.AssertAPIError(t, tc.Recorder, http.StatusBadRequest, dto.ErrCodeInvalidInput)
	})

	t.Run("unknown conflict mode", func(t *testing.T) {
		tc := testutil.NewTestContext(t, http.MethodPost, "/import?conflictMode=merge", nil)
		tc.SetPrincipal(admin)
		tc.SetParam("id", restaurantID)
		h.Import(tc.Context)
		assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
	})

	t.Run("no file part", func(t *testing.T) {
		tc := testutil.NewTestContext(t, http.MethodPost, "/import", nil)
		tc.SetPrincipal(admin)
		tc.SetParam("id", restaurantID)
		h.Import(tc.Context)
		info := testutil.AssertAPIError(t, tc.Recorder, http.StatusBadRequest, dto.ErrCodeBadRequest)
		assert.Equal(t, "file is required", info.Message)
	})

	t.Run("image instead of csv", func(t *testing.T) {
		tc := testutil.NewTestContext(t, http.MethodPost, "/import", nil)
		tc.Context.Request = testutil.FileUploadRequest(t, "/import", "", "menu.png", "image/png", []byte("\x89PNG"))
		tc.SetPrincipal(admin)
		tc.SetParam("id", restaurantID)
		h.Import(tc.Context)
		testutil.AssertAPIError(t, tc.Recorder, http.StatusUnsupportedMediaType, dto.ErrCodeValidation)
	})
}
