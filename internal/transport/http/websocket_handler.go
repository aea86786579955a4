package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/config"
	apierrors "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/errors"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/infrastructure"
	custommw "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/middleware"
	ws "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/websocket"
)

// WebSocketHandler upgrades GET /ws and attaches the connection to the
// caller's session
type WebSocketHandler struct {
	hub            *ws.Hub
	cfg            config.WebSocketConfig
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewWebSocketHandler creates a websocket handler. Cross-origin upgrades are
// accepted only from allowedOrigins.
func NewWebSocketHandler(hub *ws.Hub, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:            hub,
		cfg:            cfg,
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
		logger:         logger.With(slog.String("handler", "websocket")),
		errorHandler:   errorHandler,
	}
	for _, o := range allowedOrigins {
		h.allowedOrigins[o] = true
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.logger.WarnContext(r.Context(), "WebSocket upgrade error",
				slog.Int("status", status),
				slog.String("reason", reason.Error()),
				slog.String("origin", r.Header.Get("Origin")))
			h.errorHandler.HandleError(w, r, apierrors.New(status, apierrors.CodeInvalidRequest, reason.Error()))
		},
	}
	return h
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := custommw.SessionFromContext(ctx)
	if !ok {
		h.errorHandler.HandleError(w, r, errNoSession)
		return
	}

	// the upgrade response is written by the upgrader, so the session
	// cookie has to be handed over explicitly
	respHeader := http.Header{}
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		respHeader["Set-Cookie"] = cookies
	}

	conn, err := h.upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		// the upgrader already answered
		return
	}

	traceID := infrastructure.GetTraceID(ctx)
	client := ws.Serve(h.hub, ws.WrapConn(conn), sess.ID, traceID, h.cfg, h.logger)

	h.logger.InfoContext(ctx, "WebSocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("session_id", sess.ID),
		slog.String("remote_addr", custommw.GetRealIP(r)))
}

// checkOrigin allows same-host pages, requests without an Origin header and
// the configured origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}
	if h.allowedOrigins[origin] {
		return true
	}

	h.logger.WarnContext(r.Context(), "WebSocket origin not allowed", slog.String("origin", origin))
	return false
}
