package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bankacem/ExtensionTo-CMS/internal/handler"
	"github.com/bankacem/ExtensionTo-CMS/internal/mocks"
)

func setupSEORouter(svc *mocks.PostService) *gin.Engine {
	h := handler.NewSEOHandler(svc)

	r := gin.New()
	r.GET("/sitemap.xml", h.Sitemap)
	r.GET("/robots.txt", h.Robots)
	return r
}

func TestSitemapEndpoint(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"><url><loc>https://blog.example.com/post/hello-world</loc></url></urlset>`

	svc := new(mocks.PostService)
	svc.On("Sitemap", mock.Anything).Return(body, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	setupSEORouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, body, w.Body.String())
	svc.AssertExpectations(t)
}

func TestSitemapEndpointShardFailure(t *testing.T) {
	svc := new(mocks.PostService)
	svc.On("Sitemap", mock.Anything).Return("", errors.New("shard 1: timeout"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	setupSEORouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRobotsEndpoint(t *testing.T) {
	svc := new(mocks.PostService)
	svc.On("RobotsTxt").Return("User-agent: *\nAllow: /\nSitemap: https://blog.example.com/sitemap.xml\n")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	setupSEORouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sitemap: https://blog.example.com/sitemap.xml")
}
