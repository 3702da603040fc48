package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/bookshelf-auth/pkg/wsHub"
	"github.com/gorilla/websocket"
)

const (
	wsAuthTimeout  = 5 * time.Second
	wsPingInterval = 30 * time.Second

	frameAuth   = "auth"
	frameAuthOK = "auth.ok"
	frameError  = "error"
)

type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (string, error)
}

// FavoritesFeed serves GET /ws/favorites. The first client frame must carry a bearer token.
type FavoritesFeed struct {
	sessions  SessionValidator
	favorites FavoritesService
	hub       *ws.ConnectionHub
	upgrader  websocket.Upgrader
	l         logger.Logger

	pingInterval time.Duration
}

func NewFavoritesFeed(
	sessions SessionValidator,
	favorites FavoritesService,
	hub *ws.ConnectionHub,
	allowedOrigins []string,
	l logger.Logger,
) *FavoritesFeed {
	return &FavoritesFeed{
		sessions:  sessions,
		favorites: favorites,
		hub:       hub,
		l:         l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},

		pingInterval: wsPingInterval,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}

// HandleWS godoc
// @Summary      Live favorites feed
// @Description  WebSocket. Send {"type":"auth","token":"<bearer>"} first, then receive {"type":"favorites.updated","favorites":[...]} after every change.
// @Tags         favorites
// @Router       /ws/favorites [get]
func (h *FavoritesFeed) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_favorites")

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already answered with an HTTP error
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	username, list, err := h.authenticate(ctx, raw)
	if err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "websocket authentication failed", "error", err.Error())
		rejectWS(raw, publicMessage(err, GetCode(err)))
		return
	}
	ctx = wrap.WithUsername(ctx, username)

	conn := ws.NewConn(ctx, username, raw)
	if err := conn.Send(dto.WSAuthOK{Type: frameAuthOK, Username: username, Favorites: list}); err != nil {
		h.l.Warn(ctx, "failed to send auth ack", "error", err.Error())
		_ = conn.Close()
		return
	}

	if err := h.hub.Add(conn); err != nil {
		h.l.Error(ctx, "failed to register websocket connection", err)
		_ = conn.Close()
		return
	}
	defer h.hub.Remove(conn)

	h.l.Debug(ctx, "websocket connected")

	// the feed is push only; reading keeps control frames flowing and detects disconnects
	conn.KeepAlive(h.pingInterval)
	err = conn.Listen(func(msg map[string]any) error {
		return nil
	})
	h.l.Debug(ctx, "websocket disconnected", "reason", err.Error())
}

func (h *FavoritesFeed) authenticate(ctx context.Context, raw *websocket.Conn) (string, []string, error) {
	_ = raw.SetReadDeadline(time.Now().Add(wsAuthTimeout))
	defer raw.SetReadDeadline(time.Time{})

	var req dto.WSAuthRequest
	if err := raw.ReadJSON(&req); err != nil || req.Type != frameAuth || req.Token == "" {
		return "", nil, errWSAuthFrame
	}

	username, err := h.sessions.ValidateSession(ctx, req.Token)
	if err != nil {
		return "", nil, err
	}

	list, err := h.favorites.List(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if list == nil {
		list = []string{}
	}
	return username, list, nil
}

func rejectWS(raw *websocket.Conn, reason string) {
	_ = raw.SetWriteDeadline(time.Now().Add(time.Second))
	_ = raw.WriteJSON(envelope{"type": frameError, "error": reason})
	_ = raw.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(time.Second),
	)
	_ = raw.Close()
}
