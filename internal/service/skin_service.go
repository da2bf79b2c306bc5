package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/domain"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/repository"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/skin"
	"github.com/Layer-norm/minecraft-skin-preprocessing/pkg/utils"
)

// Operation selects one of the core transformations.
type Operation int

const (
	OpUpscale Operation = iota + 1
	OpSwapLayers
	OpSwapLayersTwice
	OpRemoveLayer
	OpConvertModel
)

// Request is one requested transformation with its parameters.
type Request struct {
	Op     Operation
	Layer  skin.Layer // OpRemoveLayer only
	Target skin.Model // OpConvertModel only; empty toggles the detected model
}

// Suffix is the marker appended to output file names for this request.
func (r Request) Suffix() string {
	switch r.Op {
	case OpUpscale:
		return "_64x64"
	case OpSwapLayers:
		return "_swap"
	case OpSwapLayersTwice:
		return "_swap_swap"
	case OpRemoveLayer:
		return fmt.Sprintf("_rm_layer%d", r.Layer)
	case OpConvertModel:
		if r.Target == "" {
			return "_model"
		}
		return "_" + string(r.Target)
	}
	return "_out"
}

// ErrOutputExists marks a file that was skipped because its output is
// already present and overwriting was not requested.
var ErrOutputExists = errors.New("output file already exists")

// BatchSummary counts the outcomes of a folder or bucket run.
type BatchSummary struct {
	Total     int
	Converted int
	Skipped   int
	Failed    int
}

type SkinService interface {
	Transform(req Request, data []byte) ([]byte, error)
	ProcessFile(ctx context.Context, req Request, inputPath, outputDir string, overwrite bool) (string, error)
	ProcessFolder(ctx context.Context, req Request, inputDir, outputDir string, overwrite bool) (*BatchSummary, error)
	ProcessBase64(ctx context.Context, req Request, payload, outputDir string) (string, error)
	ProcessBucket(ctx context.Context, req Request, prefix, destPrefix string) (*BatchSummary, error)
	MoveSkins(ctx context.Context, prefix, destPrefix, localDir string) (*BatchSummary, error)
	UploadSkin(ctx context.Context, data []byte, filename, contentType string) (*domain.Skin, error)
	StoredSkins(ctx context.Context, prefix string) ([]domain.Skin, error)
}

type skinService struct {
	store repository.SkinStore // nil in local-only mode
	tools *skin.Transformer
	log   *zap.Logger
}

func NewSkinService(store repository.SkinStore, log *zap.Logger) SkinService {
	return &skinService{
		store: store,
		tools: skin.NewTransformer(skin.ModelRegular),
		log:   log,
	}
}

// Transform decodes skin bytes, applies exactly one transformation and
// re-encodes the result as PNG. Decode failures are wrapped with
// skin.ErrInvalidSkinData so batch callers can classify them.
func (s *skinService) Transform(req Request, data []byte) ([]byte, error) {
	img, err := utils.DecodeSkinBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", skin.ErrInvalidSkinData, err)
	}

	out, err := s.apply(req, img)
	if err != nil {
		return nil, err
	}

	return utils.EncodePNG(out)
}

func (s *skinService) apply(req Request, img *image.NRGBA) (*image.NRGBA, error) {
	switch req.Op {
	case OpUpscale:
		return s.tools.Upscale(img)
	case OpSwapLayers:
		return s.tools.SwapLayers(img)
	case OpSwapLayersTwice:
		return s.tools.SwapLayersTwice(img)
	case OpRemoveLayer:
		return s.tools.RemoveLayer(img, req.Layer)
	case OpConvertModel:
		return s.tools.ConvertModel(img, req.Target)
	}
	return nil, fmt.Errorf("unknown operation: %d", req.Op)
}

func (s *skinService) ProcessFile(ctx context.Context, req Request, inputPath, outputDir string, overwrite bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", err
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return "", err
		}
	}

	outputPath := outputPathFor(inputPath, outputDir, req)
	if !overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			return "", fmt.Errorf("%w: %s", ErrOutputExists, outputPath)
		}
	}

	out, err := s.Transform(req, data)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return "", err
	}

	s.log.Info("Skin processed",
		zap.String("input", inputPath),
		zap.String("output", outputPath))

	return outputPath, nil
}

func (s *skinService) ProcessFolder(ctx context.Context, req Request, inputDir, outputDir string, overwrite bool) (*BatchSummary, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	if outputDir == "" {
		outputDir = inputDir
	} else if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	summary := &BatchSummary{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if entry.IsDir() || !utils.IsSkinFile(entry.Name()) {
			continue
		}
		summary.Total++

		_, err := s.ProcessFile(ctx, req, filepath.Join(inputDir, entry.Name()), outputDir, overwrite)
		switch {
		case errors.Is(err, ErrOutputExists):
			summary.Skipped++
			s.log.Info("Skipped skin, output already exists",
				zap.String("file", entry.Name()))
		case err != nil:
			// One bad file never stops the batch.
			summary.Failed++
			s.log.Error("Failed to process skin",
				zap.String("file", entry.Name()),
				zap.Error(err))
		default:
			summary.Converted++
		}
	}

	s.log.Info("Folder processed",
		zap.String("input_dir", inputDir),
		zap.String("output_dir", outputDir),
		zap.Int("total", summary.Total),
		zap.Int("converted", summary.Converted),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

func (s *skinService) ProcessBase64(ctx context.Context, req Request, payload, outputDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := utils.DecodeBase64Skin(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", skin.ErrInvalidSkinData, err)
	}

	out, err := s.Transform(req, data)
	if err != nil {
		return "", err
	}

	if outputDir == "" {
		outputDir = "."
	} else if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	name := "skin_" + uuid.New().String()[:8] + req.Suffix() + ".png"
	outputPath := filepath.Join(outputDir, name)
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return "", err
	}

	s.log.Info("Inline skin processed", zap.String("output", outputPath))

	return outputPath, nil
}

func (s *skinService) ProcessBucket(ctx context.Context, req Request, prefix, destPrefix string) (*BatchSummary, error) {
	if s.store == nil {
		return nil, errors.New("skin storage is not configured")
	}

	keys, err := s.store.ListSkins(ctx, prefix)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !utils.IsSkinFile(key) {
			continue
		}
		summary.Total++

		if err := s.processStoredSkin(ctx, req, key, destPrefix); err != nil {
			summary.Failed++
			s.log.Error("Failed to process stored skin",
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		summary.Converted++
	}

	s.log.Info("Bucket processed",
		zap.String("prefix", prefix),
		zap.Int("total", summary.Total),
		zap.Int("converted", summary.Converted),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

func (s *skinService) processStoredSkin(ctx context.Context, req Request, key, destPrefix string) error {
	reader, err := s.store.GetSkin(ctx, key)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return err
	}

	out, err := s.Transform(req, data)
	if err != nil {
		return err
	}

	base := filepath.Base(key)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + req.Suffix() + ".png"
	destKey := destPrefix + name

	return s.store.PutSkin(ctx, destKey, bytes.NewReader(out), int64(len(out)), "image/png")
}

// MoveSkins archives the skins stored under prefix: each one is downloaded
// into localDir and copied under destPrefix inside the bucket. The originals
// stay in place so a failed run can be repeated.
func (s *skinService) MoveSkins(ctx context.Context, prefix, destPrefix, localDir string) (*BatchSummary, error) {
	if s.store == nil {
		return nil, errors.New("skin storage is not configured")
	}

	keys, err := s.store.ListSkins(ctx, prefix)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(localDir, 0755); err != nil {
		return nil, err
	}

	summary := &BatchSummary{}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !utils.IsSkinFile(key) {
			continue
		}
		summary.Total++

		if err := s.moveStoredSkin(ctx, key, destPrefix, localDir); err != nil {
			summary.Failed++
			s.log.Error("Failed to move stored skin",
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		summary.Converted++
	}

	s.log.Info("Skins moved",
		zap.String("prefix", prefix),
		zap.String("dest_prefix", destPrefix),
		zap.String("local_dir", localDir),
		zap.Int("total", summary.Total),
		zap.Int("moved", summary.Converted),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

func (s *skinService) moveStoredSkin(ctx context.Context, key, destPrefix, localDir string) error {
	reader, err := s.store.GetSkin(ctx, key)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return err
	}

	name := filepath.Base(key)
	if err := os.WriteFile(filepath.Join(localDir, name), data, 0644); err != nil {
		return err
	}

	return s.store.CopySkin(ctx, key, destPrefix+name)
}

func (s *skinService) UploadSkin(ctx context.Context, data []byte, filename, contentType string) (*domain.Skin, error) {
	if s.store == nil {
		return nil, errors.New("skin storage is not configured")
	}

	img, err := utils.DecodeSkinBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", skin.ErrInvalidSkinData, err)
	}

	var model string
	if img.Bounds().Size() == skin.ModernSize {
		model = string(skin.DetectModel(img))
	}

	id := uuid.New().String()
	key := "skins/" + id + filepath.Ext(filename)

	if err := s.store.PutSkin(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}

	record := &domain.Skin{
		ID:           id,
		OriginalName: filename,
		StoragePath:  key,
		Size:         int64(len(data)),
		ContentType:  contentType,
		Model:        model,
		UploadedAt:   time.Now(),
		Processed:    false,
	}

	s.log.Info("Skin uploaded",
		zap.String("id", id),
		zap.String("filename", filename),
		zap.String("model", model),
		zap.Int64("size", record.Size))

	return record, nil
}

func (s *skinService) StoredSkins(ctx context.Context, prefix string) ([]domain.Skin, error) {
	if s.store == nil {
		return nil, errors.New("skin storage is not configured")
	}

	keys, err := s.store.ListSkins(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var skins []domain.Skin
	for _, key := range keys {
		skins = append(skins, domain.Skin{
			ID:           filepath.Base(key),
			OriginalName: filepath.Base(key),
			StoragePath:  key,
			ContentType:  utils.ContentTypeFor(key),
			Processed:    strings.HasPrefix(key, "processed/"),
		})
	}

	return skins, nil
}

// outputPathFor builds the output name: base name plus the operation
// suffix, always PNG, beside the input unless a folder is given.
func outputPathFor(inputPath, outputDir string, req Request) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + req.Suffix() + ".png"
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}
	return filepath.Join(outputDir, name)
}
