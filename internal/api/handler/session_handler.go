package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/portal"
)

const (
	streamPingInterval = 30 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// SessionHandler reports the session and pushes its changes to the browser.
type SessionHandler struct {
	roleWait time.Duration
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewSessionHandler waits at most roleWait for a role when reporting a session.
func NewSessionHandler(roleWait time.Duration, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		roleWait: roleWait,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		log:      log,
	}
}

// Get returns the current session and role.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot(c.Request().Context(), inst))
}

// Notices drains the pending notices and navigation.
//
// @Summary      Pending notices
// @Tags         session
// @Produce      json
// @Success      200  {object}  streamMessage
// @Router       /api/notices [get]
func (h *SessionHandler) Notices(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	msg := streamMessage{Notices: inst.Outbox.Drain()}
	if path, ok := inst.Outbox.TakeRedirect(); ok {
		msg.Redirect = path
	}
	return c.JSON(http.StatusOK, msg)
}

// Stream upgrades to a websocket and pushes a message whenever the session,
// the notices or the pending navigation change.
//
// @Summary      Session stream
// @Tags         session
// @Success      101
// @Router       /api/session/stream [get]
func (h *SessionHandler) Stream(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The browser sends nothing; reading detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	var lastVersion uint64
	first := true
	for {
		sessionChanged := inst.Session().Changes()
		outboxChanged := inst.Outbox.Changes()

		msg := streamMessage{Notices: inst.Outbox.Drain()}
		if path, ok := inst.Outbox.TakeRedirect(); ok {
			msg.Redirect = path
		}
		if st := inst.Session().Snapshot(); first || st.Version != lastVersion {
			snap := h.snapshot(ctx, inst)
			msg.Session = &snap
			lastVersion = st.Version
			first = false
		}
		if msg.Session != nil || len(msg.Notices) > 0 || msg.Redirect != "" {
			if err := h.write(conn, msg); err != nil {
				return nil
			}
		}
		inst.Touch(time.Now())

		select {
		case <-ctx.Done():
			return nil
		case <-sessionChanged:
		case <-outboxChanged:
		case <-ping.C:
			deadline := time.Now().Add(streamWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return nil
			}
		}
	}
}

func (h *SessionHandler) write(conn *websocket.Conn, msg streamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.log.Debug().Err(err).Msg("session stream write failed")
		return err
	}
	return nil
}

func (h *SessionHandler) snapshot(ctx context.Context, inst *portal.Instance) sessionResponse {
	st := inst.Session().Snapshot()
	out := sessionResponse{
		Resolving: st.Resolving,
		Identity:  toIdentityView(st.Identity),
		Version:   st.Version,
	}
	if !st.SignedIn() {
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, h.roleWait)
	defer cancel()
	rs := inst.Roles.Resolve(ctx, st.Email())
	if rs.Role.Resolved() {
		out.Role = rs.Role.String()
	}
	out.RoleLoading = rs.Loading
	if rs.Failed() {
		out.RoleError = "role could not be determined"
	}
	return out
}
