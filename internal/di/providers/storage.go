package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/glossyapp/glossy-server/internal/config"
	"github.com/glossyapp/glossy-server/internal/logger"
	"github.com/glossyapp/glossy-server/internal/media/images"
)

// ProvideImageStorage provides the image storage service. Covers and avatars
// share one directory; ids are prefixed per kind.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Media.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("image storage: %w", err)
	}

	log.Info("Image storage initialized", "path", cfg.Media.ImagePath)

	return storage, nil
}

// ProvideImageProcessor provides the image processor for covers and avatars.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(storage, log.Logger), nil
}

// ProvideMaterializer provides the remote image materializer used when the
// generation backend returns image URLs instead of bytes.
func ProvideMaterializer(i do.Injector) (*images.Materializer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewMaterializer(processor, cfg.Media.MaxUploadBytes, log.Logger), nil
}
