package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/config"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/service"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/skin"
	"github.com/Layer-norm/minecraft-skin-preprocessing/pkg/utils"
)

type Handler struct {
	service service.SkinService
	cfg     *config.Config
	log     *zap.Logger
}

func NewHandler(service service.SkinService, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

// ConvertSkin upscales an uploaded legacy 64x32 skin to the 64x64 layout.
func (h *Handler) ConvertSkin(c *gin.Context) {
	h.transform(c, service.Request{Op: service.OpUpscale})
}

// SwapSkinLayers exchanges the base and overlay layers of an uploaded skin.
// ?twice=true applies the swap two times to drop invalid UV areas.
func (h *Handler) SwapSkinLayers(c *gin.Context) {
	req := service.Request{Op: service.OpSwapLayers}
	if c.Query("twice") == "true" {
		req.Op = service.OpSwapLayersTwice
	}
	h.transform(c, req)
}

// RemoveSkinLayer clears the selected layer of an uploaded skin.
func (h *Handler) RemoveSkinLayer(c *gin.Context) {
	layer, err := strconv.Atoi(c.Param("layer"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Layer must be 1 or 2"})
		return
	}
	h.transform(c, service.Request{Op: service.OpRemoveLayer, Layer: skin.Layer(layer)})
}

// ConvertSkinModel rewrites the arm geometry to the requested model.
// ?target=regular|slim; without a target the detected model is toggled.
func (h *Handler) ConvertSkinModel(c *gin.Context) {
	h.transform(c, service.Request{
		Op:     service.OpConvertModel,
		Target: skin.Model(c.Query("target")),
	})
}

func (h *Handler) transform(c *gin.Context, req service.Request) {
	data, ok := h.readSkinUpload(c)
	if !ok {
		return
	}

	out, err := h.service.Transform(req, data)
	if err != nil {
		h.respondTransformError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", out)
}

func (h *Handler) respondTransformError(c *gin.Context, err error) {
	var sizeErr *skin.SizeMismatchError
	var layerErr *skin.InvalidLayerError
	switch {
	case errors.As(err, &sizeErr), errors.As(err, &layerErr),
		errors.Is(err, skin.ErrInvalidSkinData), errors.Is(err, skin.ErrInvalidModel):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("Failed to transform skin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transform skin"})
	}
}

// ProcessSkins runs one transformation over every skin stored under the
// configured prefix, writing results under the processed prefix. The
// operation comes from ?op=convert|swap|remove|model plus its parameters.
func (h *Handler) ProcessSkins(c *gin.Context) {
	req, ok := h.batchRequest(c)
	if !ok {
		return
	}

	summary, err := h.service.ProcessBucket(c.Request.Context(), req, h.cfg.App.SkinPrefix, h.cfg.App.ProcessedKey)
	if err != nil {
		h.log.Error("Failed to process stored skins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process skins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Skins processed successfully",
		"summary": summary,
	})
}

// MoveSkins archives the stored originals: each skin is downloaded into
// the local output directory and copied under the moved/ bucket prefix.
func (h *Handler) MoveSkins(c *gin.Context) {
	localDir := filepath.Join(h.cfg.App.OutputDir, "moved")
	summary, err := h.service.MoveSkins(c.Request.Context(), h.cfg.App.SkinPrefix, "moved/", localDir)
	if err != nil {
		h.log.Error("Failed to move skins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move skins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Skins moved successfully",
		"summary": summary,
	})
}

func (h *Handler) batchRequest(c *gin.Context) (service.Request, bool) {
	switch c.Query("op") {
	case "convert":
		return service.Request{Op: service.OpUpscale}, true
	case "swap":
		if c.Query("twice") == "true" {
			return service.Request{Op: service.OpSwapLayersTwice}, true
		}
		return service.Request{Op: service.OpSwapLayers}, true
	case "remove":
		layer, err := strconv.Atoi(c.Query("layer"))
		if err != nil || (layer != 1 && layer != 2) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Layer must be 1 or 2"})
			return service.Request{}, false
		}
		return service.Request{Op: service.OpRemoveLayer, Layer: skin.Layer(layer)}, true
	case "model":
		return service.Request{Op: service.OpConvertModel, Target: skin.Model(c.Query("target"))}, true
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown operation. Use convert, swap, remove or model"})
	return service.Request{}, false
}

// UploadSkin stores the original skin for later batch processing.
func (h *Handler) UploadSkin(c *gin.Context) {
	file, err := c.FormFile("skin")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No skin file provided"})
		return
	}

	data, ok := h.readUpload(c, file.Filename, file.Size, func() (io.ReadCloser, error) { return file.Open() })
	if !ok {
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = utils.ContentTypeFor(file.Filename)
	}

	record, err := h.service.UploadSkin(c.Request.Context(), data, file.Filename, contentType)
	if err != nil {
		if errors.Is(err, skin.ErrInvalidSkinData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Failed to upload skin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload skin"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Skin uploaded successfully",
		"skin":    record,
	})
}

// ListSkins returns the stored skin records.
func (h *Handler) ListSkins(c *gin.Context) {
	skins, err := h.service.StoredSkins(c.Request.Context(), h.cfg.App.SkinPrefix)
	if err != nil {
		h.log.Error("Failed to list skins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list skins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"skins": skins})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *Handler) readSkinUpload(c *gin.Context) ([]byte, bool) {
	file, err := c.FormFile("skin")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No skin file provided"})
		return nil, false
	}
	return h.readUpload(c, file.Filename, file.Size, func() (io.ReadCloser, error) { return file.Open() })
}

func (h *Handler) readUpload(c *gin.Context, filename string, size int64, open func() (io.ReadCloser, error)) ([]byte, bool) {
	if size > h.cfg.App.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return nil, false
	}

	if !utils.IsSkinFile(filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file format. Only PNG, JPG, JPEG allowed"})
		return nil, false
	}

	reader, err := open()
	if err != nil {
		h.log.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return nil, false
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		h.log.Error("Failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return nil, false
	}

	return data, true
}
