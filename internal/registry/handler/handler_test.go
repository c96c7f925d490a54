package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"uniregistry/internal/platform/logger"
	"uniregistry/internal/registry/handler/mocks"
	"uniregistry/internal/registry/models"
	dErrors "uniregistry/pkg/domain-errors"
	"uniregistry/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/registry-mocks.go -package=mocks Service

func newTestRouter(service Service) http.Handler {
	h := New(service, logger.New())
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterProtected(r)
	return r
}

func TestHandleRegister_HappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)
	mockService.EXPECT().
		Register(gomock.Any(), "UMA", "uni_id").
		Return(models.University{Name: "UMA", AccountID: "uni_id"}, nil).
		Times(1)

	body, err := json.Marshal(RegisterRequest{Name: "UMA", AccountID: "uni_id"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/registry/universities", bytes.NewReader(body))
	req = req.WithContext(requestcontext.WithCallerID(req.Context(), "admin"))

	w := httptest.NewRecorder()
	newTestRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got models.University
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, models.University{Name: "UMA", AccountID: "uni_id"}, got)
}

func TestHandleRegister_PermissionDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)
	mockService.EXPECT().
		Register(gomock.Any(), "UMA", "user1").
		Return(models.University{}, dErrors.New(dErrors.CodePermissionDenied, "caller is not the registry owner")).
		Times(1)

	body, _ := json.Marshal(RegisterRequest{Name: "UMA", AccountID: "user1"})
	req := httptest.NewRequest("POST", "/registry/universities", bytes.NewReader(body))

	w := httptest.NewRecorder()
	newTestRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var envelope map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	assert.Equal(t, "permission_denied", envelope["error"])
}

func TestHandleRegister_DuplicateAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)
	mockService.EXPECT().
		Register(gomock.Any(), "UMA", "uni_id").
		Return(models.University{}, dErrors.New(dErrors.CodeDuplicateAccount, "account already registered")).
		Times(1)

	body, _ := json.Marshal(RegisterRequest{Name: "UMA", AccountID: "uni_id"})
	req := httptest.NewRequest("POST", "/registry/universities", bytes.NewReader(body))

	w := httptest.NewRecorder()
	newTestRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var envelope map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	assert.Equal(t, "duplicate_account", envelope["error"])
}

func TestHandleRegister_InvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The service must not be reached for malformed input.
	mockService := mocks.NewMockService(ctrl)

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/registry/universities", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		newTestRouter(mockService).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		body, _ := json.Marshal(RegisterRequest{AccountID: "uni_id"})
		req := httptest.NewRequest("POST", "/registry/universities", bytes.NewReader(body))
		w := httptest.NewRecorder()
		newTestRouter(mockService).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing account id", func(t *testing.T) {
		body, _ := json.Marshal(RegisterRequest{Name: "UMA"})
		req := httptest.NewRequest("POST", "/registry/universities", bytes.NewReader(body))
		w := httptest.NewRecorder()
		newTestRouter(mockService).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGetByAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("found", func(t *testing.T) {
		mockService := mocks.NewMockService(ctrl)
		mockService.EXPECT().
			GetByAccount(gomock.Any(), "uni_id").
			Return(&models.University{Name: "UMA", AccountID: "uni_id"}, nil)

		req := httptest.NewRequest("GET", "/registry/universities/uni_id", nil)
		w := httptest.NewRecorder()
		newTestRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got models.University
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "UMA", got.Name)
	})

	t.Run("absent record returns 404", func(t *testing.T) {
		mockService := mocks.NewMockService(ctrl)
		mockService.EXPECT().
			GetByAccount(gomock.Any(), "missing").
			Return(nil, nil)

		req := httptest.NewRequest("GET", "/registry/universities/missing", nil)
		w := httptest.NewRecorder()
		newTestRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, string(dErrors.CodeNotFound), body["error"])
		assert.NotEmpty(t, body["error_description"])
	})
}

func TestHandleGetByName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("returns records in registration order", func(t *testing.T) {
		mockService := mocks.NewMockService(ctrl)
		mockService.EXPECT().
			GetByName(gomock.Any(), "UMA").
			Return([]models.University{
				{Name: "UMA", AccountID: "u2"},
				{Name: "UMA", AccountID: "u3"},
			}, nil)

		req := httptest.NewRequest("GET", "/registry/universities/by-name/UMA", nil)
		w := httptest.NewRecorder()
		newTestRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got []models.University
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got, 2)
		assert.Equal(t, "u2", got[0].AccountID)
		assert.Equal(t, "u3", got[1].AccountID)
	})

	t.Run("absent name returns empty list, not an error", func(t *testing.T) {
		mockService := mocks.NewMockService(ctrl)
		mockService.EXPECT().
			GetByName(gomock.Any(), "NOPE").
			Return([]models.University{}, nil)

		req := httptest.NewRequest("GET", "/registry/universities/by-name/NOPE", nil)
		w := httptest.NewRecorder()
		newTestRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestHandleGetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)
	mockService.EXPECT().
		GetAllUniversities(gomock.Any()).
		Return([]models.AccountEntry{
			{AccountID: "a1", University: models.University{Name: "UMA", AccountID: "a1"}},
		}, nil)

	req := httptest.NewRequest("GET", "/registry/universities", nil)
	w := httptest.NewRecorder()
	newTestRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.AccountEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].AccountID)
}

func TestHandleIntegrity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)
	mockService.EXPECT().
		VerifyIntegrity(gomock.Any()).
		Return(models.IntegrityReport{Consistent: true, Accounts: 2, NameEntries: 2}, nil)

	req := httptest.NewRequest("GET", "/registry/integrity", nil)
	w := httptest.NewRecorder()
	newTestRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got models.IntegrityReport
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.True(t, got.Consistent)
}
