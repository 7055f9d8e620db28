package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/samims/stillup/internal/dashboard"
	"github.com/samims/stillup/internal/gate"
	"github.com/samims/stillup/internal/identity"
	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/internal/realtime"
	"github.com/samims/stillup/internal/service"
	"github.com/samims/stillup/internal/session"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxFrameSize = 4096
	outboxSize   = 16
)

type dashboardPage struct {
	Rows          []dashboard.Row
	Alert         string
	EmptyMessage  string
	ConfirmRemove string
}

// liveCommand is a client → server frame on the live channel.
type liveCommand struct {
	Op        string `json:"op"`
	URL       string `json:"url,omitempty"`
	ID        string `json:"id,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

type sitesMessage struct {
	Type  string          `json:"type"`
	Sites []dashboard.Row `json:"sites"`
}

// addedMessage confirms an add; the client keeps its input until then.
type addedMessage struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type alertMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type DashboardHandler struct {
	sites         service.SiteService
	auth          identity.Service
	feed          realtime.Subscriber
	event         model.EventType
	secureCookies bool
	upgrader      websocket.Upgrader
	now           func() time.Time
	logger        *slog.Logger
}

type DashboardOptions struct {
	// Event filters the change events that trigger a reload.
	Event          model.EventType
	SecureCookies  bool
	AllowedOrigins []string
}

func NewDashboardHandler(sites service.SiteService, auth identity.Service, feed realtime.Subscriber, opts DashboardOptions, logger *slog.Logger) *DashboardHandler {
	event := opts.Event
	if event == "" {
		event = model.EventAll
	}
	return &DashboardHandler{
		sites:         sites,
		auth:          auth,
		feed:          feed,
		event:         event,
		secureCookies: opts.SecureCookies,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(opts.AllowedOrigins),
		},
		now:    time.Now,
		logger: logger.With("layer", "handler", "component", "dashboardHandler"),
	}
}

// checkOrigin accepts same-host browsers, configured origins, localhost and
// non-browser clients.
func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowed[origin] {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if u.Host == r.Host {
			return true
		}
		host := u.Hostname()
		return host == "localhost" || host == "127.0.0.1" || host == "::1"
	}
}

// newView builds a view for the request's session. A missing access token
// clears the cookie and sends the browser back to login, which also breaks
// any redirect loop caused by a cookie the gate accepts but the view cannot
// use.
func (h *DashboardHandler) newView(w http.ResponseWriter, r *http.Request) (*dashboard.View, bool) {
	sess := session.Read(r)
	if sess == nil {
		session.Clear(w, r, h.secureCookies)
		http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
		return nil, false
	}
	return dashboard.NewView(h.sites, h.auth, h.feed, sess.AccessToken, h.logger), true
}

func (h *DashboardHandler) renderPage(w http.ResponseWriter, v *dashboard.View, alert string) {
	render(w, h.logger, dashboardTmpl, http.StatusOK, dashboardPage{
		Rows:          dashboard.Rows(v.Sites(), h.now()),
		Alert:         alert,
		EmptyMessage:  dashboard.EmptyMessage,
		ConfirmRemove: dashboard.ConfirmRemove,
	})
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	v, ok := h.newView(w, r)
	if !ok {
		return
	}
	v.Load(r.Context())
	h.renderPage(w, v, "")
}

// AddSite is the form fallback of the live "add" command.
func (h *DashboardHandler) AddSite(w http.ResponseWriter, r *http.Request) {
	v, ok := h.newView(w, r)
	if !ok {
		return
	}
	if err := v.Add(r.Context(), r.PostFormValue("url")); err != nil {
		v.Load(r.Context())
		h.renderPage(w, v, err.Error())
		return
	}
	http.Redirect(w, r, gate.DashboardPath, http.StatusSeeOther)
}

// DeleteSite is the form fallback of the live "remove" command.
func (h *DashboardHandler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	v, ok := h.newView(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	confirmed := r.PostFormValue("confirmed") == "true"
	if err := v.Remove(r.Context(), id, confirmed); err != nil {
		v.Load(r.Context())
		h.renderPage(w, v, dashboard.DeleteAlert(err))
		return
	}
	http.Redirect(w, r, gate.DashboardPath, http.StatusSeeOther)
}

func (h *DashboardHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := session.Read(r); sess != nil {
		dashboard.NewView(h.sites, h.auth, h.feed, sess.AccessToken, h.logger).Logout(r.Context())
	}
	session.Clear(w, r, h.secureCookies)
	http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
}

// Live upgrades to a websocket and keeps a mounted view in sync with the
// browser until the socket closes.
func (h *DashboardHandler) Live(w http.ResponseWriter, r *http.Request) {
	sess := session.Read(r)
	if sess == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	outbox := make(chan any, outboxSize)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writePump(ctx, cancel, conn, outbox)
	}()

	send := func(msg any) {
		select {
		case outbox <- msg:
		case <-ctx.Done():
		}
	}

	v := dashboard.NewView(h.sites, h.auth, h.feed, sess.AccessToken, h.logger)
	v.Mount(ctx, h.event, func(sites []model.Site) {
		send(sitesMessage{Type: "sites", Sites: dashboard.Rows(sites, h.now())})
	})
	defer v.Unmount()

	h.logger.Debug("live view mounted")
	h.readPump(ctx, conn, v, send)
	cancel()
	<-writerDone
	h.logger.Debug("live view closed")
}

func (h *DashboardHandler) readPump(ctx context.Context, conn *websocket.Conn, v *dashboard.View, send func(any)) {
	conn.SetReadLimit(maxFrameSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd liveCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("live read failed", slog.Any("error", err))
			}
			return
		}

		switch cmd.Op {
		case "add":
			if err := v.Add(ctx, cmd.URL); err != nil {
				send(alertMessage{Type: "alert", Message: err.Error()})
				continue
			}
			send(addedMessage{Type: "added", URL: cmd.URL})
		case "remove":
			if err := v.Remove(ctx, cmd.ID, cmd.Confirmed); err != nil {
				send(alertMessage{Type: "alert", Message: dashboard.DeleteAlert(err)})
			}
		case "refresh":
			v.Load(ctx)
		default:
			send(alertMessage{Type: "alert", Message: "unknown operation: " + cmd.Op})
		}
	}
}

func (h *DashboardHandler) writePump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, outbox <-chan any) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-outbox:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("live write failed", slog.Any("error", err))
				cancel()
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cancel()
				conn.Close()
				return
			}
		}
	}
}
