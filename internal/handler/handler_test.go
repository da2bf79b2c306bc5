package handler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/config"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/domain"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/service"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/skin"
	"github.com/Layer-norm/minecraft-skin-preprocessing/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			OutputDir:     "skins/processed",
			SkinPrefix:    "skins/",
			ProcessedKey:  "processed/",
			MaxUploadSize: 2 << 20,
		},
	}
}

func newRouter(svc service.SkinService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, testConfig(), zap.NewNop())

	router := gin.New()
	router.GET("/health", h.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/convert", h.ConvertSkin)
		api.POST("/swap", h.SwapSkinLayers)
		api.POST("/remove-layer/:layer", h.RemoveSkinLayer)
		api.POST("/model", h.ConvertSkinModel)
		api.POST("/upload", h.UploadSkin)
		api.POST("/process", h.ProcessSkins)
		api.POST("/move", h.MoveSkins)
		api.GET("/skins", h.ListSkins)
	}
	return router
}

func solidPNG(t *testing.T, size image.Point) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: 90, G: 60, B: 30, A: 255}), image.Point{}, draw.Src)
	data, err := utils.EncodePNG(img)
	require.NoError(t, err)
	return data
}

func skinRequest(t *testing.T, url, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("skin", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestConvertEndpointReturnsModernSkin(t *testing.T) {
	router := newRouter(service.NewSkinService(nil, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, skinRequest(t, "/api/convert", "steve.png", solidPNG(t, skin.LegacySize)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := utils.DecodeSkinBytes(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, skin.ModernSize, img.Bounds().Size())
}

func TestConvertEndpointRejectsModernInput(t *testing.T) {
	router := newRouter(service.NewSkinService(nil, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, skinRequest(t, "/api/convert", "steve.png", solidPNG(t, skin.ModernSize)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid skin dimensions")
}

func TestSwapEndpointHonorsTwiceQuery(t *testing.T) {
	router := newRouter(service.NewSkinService(nil, zap.NewNop()))

	for _, url := range []string{"/api/swap", "/api/swap?twice=true"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, skinRequest(t, url, "steve.png", solidPNG(t, skin.ModernSize)))
		assert.Equal(t, http.StatusOK, w.Code, url)
	}
}

func TestRemoveLayerEndpointValidatesIndex(t *testing.T) {
	router := newRouter(service.NewSkinService(nil, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, skinRequest(t, "/api/remove-layer/abc", "steve.png", solidPNG(t, skin.ModernSize)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, skinRequest(t, "/api/remove-layer/3", "steve.png", solidPNG(t, skin.ModernSize)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid layer index")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, skinRequest(t, "/api/remove-layer/2", "steve.png", solidPNG(t, skin.ModernSize)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestModelEndpointRejectsUnknownTarget(t *testing.T) {
	router := newRouter(service.NewSkinService(nil, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, skinRequest(t, "/api/model?target=wide", "steve.png", solidPNG(t, skin.ModernSize)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, skinRequest(t, "/api/model?target=slim", "steve.png", solidPNG(t, skin.ModernSize)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTransformRequiresSkinFile(t *testing.T) {
	router := newRouter(service.NewSkinService(nil, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/convert", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No skin file provided")
}

func TestTransformRejectsUnsupportedExtension(t *testing.T) {
	router := newRouter(service.NewSkinService(nil, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, skinRequest(t, "/api/convert", "steve.gif", solidPNG(t, skin.LegacySize)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid file format")
}

type stubService struct {
	service.SkinService
	uploaded *domain.Skin
	skins    []domain.Skin
	prefix   string

	bucketReq  service.Request
	bucketDest string
	moveDest   string
	moveLocal  string
}

func (s *stubService) UploadSkin(_ context.Context, _ []byte, filename, _ string) (*domain.Skin, error) {
	s.uploaded.OriginalName = filename
	return s.uploaded, nil
}

func (s *stubService) StoredSkins(_ context.Context, prefix string) ([]domain.Skin, error) {
	s.prefix = prefix
	return s.skins, nil
}

func (s *stubService) ProcessBucket(_ context.Context, req service.Request, prefix, destPrefix string) (*service.BatchSummary, error) {
	s.bucketReq = req
	s.prefix = prefix
	s.bucketDest = destPrefix
	return &service.BatchSummary{Total: 1, Converted: 1}, nil
}

func (s *stubService) MoveSkins(_ context.Context, prefix, destPrefix, localDir string) (*service.BatchSummary, error) {
	s.prefix = prefix
	s.moveDest = destPrefix
	s.moveLocal = localDir
	return &service.BatchSummary{Total: 2, Converted: 2}, nil
}

func TestUploadEndpointReturnsRecord(t *testing.T) {
	stub := &stubService{uploaded: &domain.Skin{ID: "abc123", Model: "regular"}}
	router := newRouter(stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, skinRequest(t, "/api/upload", "steve.png", solidPNG(t, skin.ModernSize)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "abc123")
	assert.Equal(t, "steve.png", stub.uploaded.OriginalName)
}

func TestListSkinsUsesConfiguredPrefix(t *testing.T) {
	stub := &stubService{skins: []domain.Skin{{ID: "steve.png", StoragePath: "skins/steve.png"}}}
	router := newRouter(stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/skins", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "skins/", stub.prefix)
	assert.Contains(t, w.Body.String(), "skins/steve.png")
}

func TestProcessEndpointUsesConfiguredPrefixes(t *testing.T) {
	stub := &stubService{}
	router := newRouter(stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/process?op=swap&twice=true", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.OpSwapLayersTwice, stub.bucketReq.Op)
	assert.Equal(t, "skins/", stub.prefix)
	assert.Equal(t, "processed/", stub.bucketDest)
	assert.Contains(t, w.Body.String(), "summary")
}

func TestProcessEndpointValidatesOperation(t *testing.T) {
	router := newRouter(&stubService{})

	for _, url := range []string{"/api/process", "/api/process?op=resize", "/api/process?op=remove&layer=9"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/process?op=remove&layer=2", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMoveEndpointArchivesUnderOutputDir(t *testing.T) {
	stub := &stubService{}
	router := newRouter(stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/move", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "skins/", stub.prefix)
	assert.Equal(t, "moved/", stub.moveDest)
	assert.Equal(t, filepath.Join("skins/processed", "moved"), stub.moveLocal)
}

func TestHealthCheck(t *testing.T) {
	router := newRouter(service.NewSkinService(nil, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "OK")
}
