package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tickettoride/internal/protocol"
	qr "tickettoride/internal/qrcode"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	Hub       *Hub
	PublicURL string
	logger    *zap.Logger
}

// HandleView returns the last published public view as JSON.
func (h *Handlers) HandleView(c *gin.Context) {
	view, ok := h.Hub.View()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, protocol.ErrorMsg{Message: "game not started"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleQR generates a QR code PNG pointing at the TV feed.
func (h *Handlers) HandleQR(c *gin.Context) {
	png, err := qr.Generate(h.viewURL(c.Request.Host))
	if err != nil {
		h.logger.Error("qr generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, protocol.ErrorMsg{Message: "QR generation failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handlers) viewURL(host string) string {
	if h.PublicURL != "" {
		return h.PublicURL
	}
	return fmt.Sprintf("http://%s/api/view", host)
}

// HandleWS upgrades a spectator connection.
func (h *Handlers) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Info("ws upgrade error", zap.Error(err))
		return
	}

	client := NewClient(h.Hub, conn)
	select {
	case h.Hub.register <- client:
	case <-h.Hub.quit:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// requestLogger logs each request at debug level.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
