package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
	"github.com/bankacem/ExtensionTo-CMS/internal/handler"
	"github.com/bankacem/ExtensionTo-CMS/internal/mocks"
	"github.com/bankacem/ExtensionTo-CMS/internal/validator"
)

func setupExtensionRouter(repo *mocks.ExtensionRepository) *gin.Engine {
	h := handler.NewExtensionHandler(repo, validator.NewValidator())

	r := gin.New()
	r.GET("/extensions", h.ListExtensions)
	r.POST("/admin/extensions", h.CreateExtension)
	r.PUT("/admin/extensions/:id", h.UpdateExtension)
	r.DELETE("/admin/extensions/:id", h.DeleteExtension)
	return r
}

func TestListExtensions(t *testing.T) {
	repo := new(mocks.ExtensionRepository)
	repo.On("List", mock.Anything).Return([]domain.Extension{
		{ID: "1", Name: "Dark Reader", Rating: 4.8, Downloads: 500000},
		{ID: "2", Name: "Tab Manager", Rating: 4.2, Downloads: 120000},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/extensions", nil)
	setupExtensionRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var exts []domain.Extension
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exts))
	require.Len(t, exts, 2)
	assert.Equal(t, "Dark Reader", exts[0].Name)
	repo.AssertExpectations(t)
}

func TestListExtensionsShardFailure(t *testing.T) {
	repo := new(mocks.ExtensionRepository)
	repo.On("List", mock.Anything).Return(nil, errors.New("shard 0: connection refused"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/extensions", nil)
	setupExtensionRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCreateExtension(t *testing.T) {
	repo := new(mocks.ExtensionRepository)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(e *domain.Extension) bool {
		return e.ID != "" && e.Name == "Dark Reader"
	})).Return(nil)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":      "Dark Reader",
		"category":  "accessibility",
		"rating":    4.8,
		"downloads": 500000,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/extensions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	setupExtensionRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var ext domain.Extension
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ext))
	assert.NotEmpty(t, ext.ID, "id generated when omitted")
	repo.AssertExpectations(t)
}

func TestCreateExtensionValidationFailure(t *testing.T) {
	repo := new(mocks.ExtensionRepository)

	// Rating above the 0-5 scale.
	payload, _ := json.Marshal(map[string]interface{}{
		"name":   "Overrated",
		"rating": 9.5,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/extensions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	setupExtensionRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "rating")
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUpdateExtensionPathIDWins(t *testing.T) {
	pathID := "7f1d2b3c-4e5f-4a6b-8c9d-0e1f2a3b4c5d"

	repo := new(mocks.ExtensionRepository)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(e *domain.Extension) bool {
		return e.ID == pathID
	})).Return(nil)

	payload, _ := json.Marshal(map[string]interface{}{
		"id":   "ignored",
		"name": "Tab Manager",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/extensions/"+pathID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	setupExtensionRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestUpdateExtensionInvalidID(t *testing.T) {
	repo := new(mocks.ExtensionRepository)

	payload, _ := json.Marshal(map[string]interface{}{"name": "X"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/extensions/nope", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	setupExtensionRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestDeleteExtension(t *testing.T) {
	id := "7f1d2b3c-4e5f-4a6b-8c9d-0e1f2a3b4c5d"

	repo := new(mocks.ExtensionRepository)
	repo.On("DeleteByID", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin/extensions/"+id, nil)
	setupExtensionRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestDeleteExtensionShardFailure(t *testing.T) {
	id := "7f1d2b3c-4e5f-4a6b-8c9d-0e1f2a3b4c5d"

	repo := new(mocks.ExtensionRepository)
	repo.On("DeleteByID", mock.Anything, id).Return(errors.New("shard 0: down"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin/extensions/"+id, nil)
	setupExtensionRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
