//go:build !tinygo

package hal

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// HTTPConfig controls the frame server.
type HTTPConfig struct {
	Addr string
	// Stats, when set, backs GET /stats.
	Stats func() any
}

// TouchRequest is the body of POST /touch. Coordinates are native panel pixels.
type TouchRequest struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Down bool `json:"down"`
}

type frameServer struct {
	h   *Host
	cfg HTTPConfig

	mu  sync.Mutex
	img *image.RGBA
}

// NewFrameServer builds the fiber app without listening, for embedding and tests.
func NewFrameServer(h *Host, cfg HTTPConfig) *fiber.App {
	s := &frameServer{h: h, cfg: cfg}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/frame", s.serveFrame)
	app.Post("/touch", s.touch)
	app.Get("/stats", s.stats)
	return app
}

// ServeFrames exposes the simulated panel over HTTP until ctx ends.
func ServeFrames(ctx context.Context, h *Host, cfg HTTPConfig) error {
	if cfg.Addr == "" {
		cfg.Addr = ":8081"
	}
	app := NewFrameServer(h, cfg)
	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()
	h.logger.WriteLineString("http: serving frames on " + cfg.Addr)
	return app.Listen(cfg.Addr)
}

func (s *frameServer) serveFrame(c *fiber.Ctx) error {
	var buf bytes.Buffer

	s.mu.Lock()
	s.img = s.h.panel.Snapshot(s.img)
	err := png.Encode(&buf, s.img)
	s.mu.Unlock()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
	}

	c.Set("Content-Type", "image/png")
	c.Set("Content-Length", strconv.Itoa(buf.Len()))
	return c.Send(buf.Bytes())
}

func (s *frameServer) touch(c *fiber.Ctx) error {
	var req TouchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid JSON")
	}
	if req.Down {
		s.h.touch.Press(req.X, req.Y)
	} else {
		s.h.touch.Release()
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *frameServer) stats(c *fiber.Ctx) error {
	if s.cfg.Stats == nil {
		return c.Status(fiber.StatusNotFound).SendString("No stats")
	}
	return c.JSON(s.cfg.Stats())
}
