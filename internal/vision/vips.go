package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"vision-infra/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
)

// VipsLoggerName is the registry logger that receives libvips messages.
const VipsLoggerName = "vips"

// ErrVipsUnavailable is returned by LoadImageWithVips before InitVips.
var ErrVipsUnavailable = errors.New("libvips not available")

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// vipsLogSettings maps the registry's global level to a handler forwarding
// libvips messages to the vips logger and the libvips log threshold.
func vipsLogSettings(level logging.Level) (vips.LoggingHandlerFunction, vips.LogLevel) {
	logger := logging.GetLogger(VipsLoggerName)

	switch {
	case level <= logging.LevelDebug:
		handler := func(domain string, l vips.LogLevel, msg string) {
			switch l {
			case vips.LogLevelError, vips.LogLevelCritical:
				logger.Errorf("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logger.Warnf("[%s] %s", domain, msg)
			default:
				logger.Debugf("[%s] %s", domain, msg)
			}
		}
		return handler, vips.LogLevelInfo
	case level == logging.LevelInfo:
		handler := func(domain string, l vips.LogLevel, msg string) {
			switch l {
			case vips.LogLevelError, vips.LogLevelCritical:
				logger.Errorf("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logger.Warnf("[%s] %s", domain, msg)
			}
		}
		return handler, vips.LogLevelWarning
	case level == logging.LevelWarn:
		return vipsErrorHandler(logger), vips.LogLevelError
	default:
		return vipsErrorHandler(logger), vips.LogLevelCritical
	}
}

// vipsErrorHandler forwards only libvips errors. glib orders log levels by
// decreasing severity, so the levels are matched explicitly.
func vipsErrorHandler(logger *logging.Logger) vips.LoggingHandlerFunction {
	return func(domain string, l vips.LogLevel, msg string) {
		if l == vips.LogLevelError || l == vips.LogLevelCritical {
			logger.Errorf("[%s] %s", domain, msg)
		}
	}
}

// InitVips starts libvips. Configure logging before calling it: the libvips
// log threshold follows the registry's global level at this point.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	vips.LoggingSettings(vipsLogSettings(logging.GetLevel()))

	// One operation at a time keeps libvips memory outside the Go heap
	// predictable next to the preprocessing pool.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips releases libvips resources.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// LoadImageWithVips decodes path with libvips, shrinking it to fit within
// targetWidth x targetHeight during decode.
func LoadImageWithVips(path string, targetWidth, targetHeight int) (image.Image, error) {
	if !IsVipsAvailable() {
		return nil, ErrVipsUnavailable
	}

	ref, err := vips.LoadImageFromFile(path, vips.NewImportParams())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	logging.Debug("Vips loaded %s: %dx%d, shrinking to %dx%d",
		filepath.Base(path), ref.Width(), ref.Height(), targetWidth, targetHeight)

	if err := ref.Thumbnail(targetWidth, targetHeight, vips.InterestingNone); err != nil {
		return nil, fmt.Errorf("vips resize failed: %w", err)
	}

	// PNG keeps the pixels lossless on the way back into Go.
	buf, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to decode vips output: %w", err)
	}
	return img, nil
}

// LoadFrame loads a source frame no larger than maxDimension on either
// side (MaxImageDimension if maxDimension is not positive). libvips is used
// for oversized frames when available, imaging otherwise.
func LoadFrame(path string, maxDimension int) (image.Image, error) {
	if maxDimension <= 0 {
		maxDimension = MaxImageDimension
	}
	if !IsVipsAvailable() {
		return LoadImageConstrained(path, maxDimension, MaxImagePixels)
	}

	dims, err := ImageDimensions(path)
	if err != nil {
		return LoadImageConstrained(path, maxDimension, MaxImagePixels)
	}
	width, height, constrain := constrainedSize(dims.Width, dims.Height, maxDimension, MaxImagePixels)
	if !constrain {
		return LoadImage(path)
	}

	img, err := LoadImageWithVips(path, width, height)
	if err != nil {
		logging.Debug("vips load failed for %s: %v, falling back to imaging", path, err)
		return LoadImageConstrained(path, maxDimension, MaxImagePixels)
	}
	return img, nil
}
