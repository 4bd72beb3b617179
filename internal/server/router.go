package server

import (
	"errors"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/diskcache/internal/cache"
	"github.com/any-hub/diskcache/internal/logging"
)

// AppOptions controls how the admin Fiber application should behave.
type AppOptions struct {
	Logger   logrus.FieldLogger
	Registry *DiskRegistry
	// Gatherer backs /-/metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

const contextKeyRequestID = "_diskcache_request_id"

// NewApp builds the admin application: request ids, panic recovery, the disk
// listing and per-entry routes.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("disk registry is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		UnescapePath:  true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts.Logger))

	app.Get("/-/disks", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"disks": encodeDisks(opts.Registry.List(), opts.Logger)})
	})
	if opts.Gatherer != nil {
		app.Get("/-/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	h := &entryHandlers{registry: opts.Registry, logger: opts.Logger}
	app.Get("/disks/:disk/entries/:key", h.get)
	app.Put("/disks/:disk/entries/:key", h.put)
	app.Delete("/disks/:disk/entries/:key", h.remove)
	app.Delete("/disks/:disk", h.purge)

	return app, nil
}

// requestContextMiddleware 为每个请求生成 X-Request-ID，并在结束后记录访问日志。
func requestContextMiddleware(logger logrus.FieldLogger) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		err := c.Next()

		fields := logging.RequestFields(c.Method(), c.Path(), c.Params("disk"), reqID)
		fields["status"] = c.Response().StatusCode()
		entry := logger.WithFields(fields)
		if err != nil {
			entry.WithError(err).Warn("admin request failed")
		} else {
			entry.Debug("admin request")
		}
		return err
	}
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

type entryHandlers struct {
	registry *DiskRegistry
	logger   logrus.FieldLogger
}

func (h *entryHandlers) route(c fiber.Ctx) (*DiskRoute, error) {
	route, ok := h.registry.Lookup(c.Params("disk"))
	if !ok {
		return nil, renderError(c, fiber.StatusNotFound, "disk_not_found")
	}
	return route, nil
}

func (h *entryHandlers) get(c fiber.Ctx) error {
	route, err := h.route(c)
	if route == nil {
		return err
	}
	key := c.Params("key")
	value, ok, err := route.Strings.Get(key)
	if err != nil {
		return renderCacheError(c, err)
	}
	if !ok {
		return renderError(c, fiber.StatusNotFound, "entry_not_found")
	}
	return c.JSON(fiber.Map{"disk": route.Config.Name, "key": key, "value": value})
}

func (h *entryHandlers) put(c fiber.Ctx) error {
	route, err := h.route(c)
	if route == nil {
		return err
	}
	value := string(c.Body())
	if value == "" {
		return renderError(c, fiber.StatusBadRequest, "empty_value")
	}
	ok, err := route.Strings.Put(c.Params("key"), value)
	if err != nil {
		return renderCacheError(c, err)
	}
	if !ok {
		return renderError(c, fiber.StatusInternalServerError, "write_failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *entryHandlers) remove(c fiber.Ctx) error {
	route, err := h.route(c)
	if route == nil {
		return err
	}
	ok, err := route.Strings.Remove(c.Params("key"))
	if err != nil {
		return renderCacheError(c, err)
	}
	if !ok {
		return renderError(c, fiber.StatusInternalServerError, "remove_failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *entryHandlers) purge(c fiber.Ctx) error {
	route, err := h.route(c)
	if route == nil {
		return err
	}
	if err := route.Purge(); err != nil {
		h.logger.WithFields(logging.RequestFields(c.Method(), c.Path(), route.Config.Name, RequestID(c))).
			WithError(err).Error("disk purge failed")
		return renderError(c, fiber.StatusInternalServerError, "purge_failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func renderError(c fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{"error": code})
}

func renderCacheError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, cache.ErrInvalidArgument):
		return renderError(c, fiber.StatusBadRequest, "invalid_argument")
	case errors.Is(err, cache.ErrConfiguration):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "configuration",
			"detail": err.Error(),
		})
	default:
		return renderError(c, fiber.StatusInternalServerError, "internal")
	}
}

type diskPayload struct {
	Name          string `json:"name"`
	Directory     string `json:"directory"`
	Encrypt       bool   `json:"encrypt"`
	MemorySupport bool   `json:"memory_support"`
	Entries       int    `json:"entries"`
	SizeBytes     int64  `json:"size_bytes"`
	Size          string `json:"size"`
}

func encodeDisks(routes []*DiskRoute, logger logrus.FieldLogger) []diskPayload {
	result := make([]diskPayload, 0, len(routes))
	for _, route := range routes {
		fields := logrus.Fields{"action": "disk_stats", "disk": route.Config.Name, "directory": route.Directory}
		size, err := route.Disk.Size()
		if err != nil {
			logger.WithFields(fields).WithError(err).Warn("disk size unavailable")
		}
		keys, err := route.Disk.Keys()
		if err != nil {
			logger.WithFields(fields).WithError(err).Warn("disk keys unavailable")
		}
		result = append(result, diskPayload{
			Name:          route.Config.Name,
			Directory:     route.Directory,
			Encrypt:       route.Disk.IsEncrypt(),
			MemorySupport: route.Disk.IsMemorySupport(),
			Entries:       len(keys),
			SizeBytes:     size,
			Size:          humanizeSize(size),
		})
	}
	return result
}

func humanizeSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	return strings.TrimSpace(humanize.Bytes(uint64(size)))
}
