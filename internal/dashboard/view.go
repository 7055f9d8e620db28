// Package dashboard holds the per-connection dashboard view model: the
// in-memory site list, its mutations and its live subscription.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/samims/stillup/internal/identity"
	"github.com/samims/stillup/internal/metrics"
	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/internal/realtime"
	"github.com/samims/stillup/internal/service"
)

// SitesTable is the table the view subscribes to.
const SitesTable = "sites"

// Listener is told about every new list state.
type Listener func(sites []model.Site)

type View struct {
	sites       service.SiteService
	auth        identity.Service
	feed        realtime.Subscriber
	accessToken string
	logger      *slog.Logger

	mu        sync.Mutex
	list      []model.Site
	userID    string
	unmounted atomic.Bool
	listener  Listener
	cancel    context.CancelFunc
	release   func()
}

func NewView(sites service.SiteService, auth identity.Service, feed realtime.Subscriber, accessToken string, logger *slog.Logger) *View {
	return &View{
		sites:       sites,
		auth:        auth,
		feed:        feed,
		accessToken: accessToken,
		logger:      logger.With("layer", "dashboard", "component", "view"),
		list:        []model.Site{},
	}
}

// Sites returns a copy of the current list.
func (v *View) Sites() []model.Site {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.Site(nil), v.list...)
}

// Load replaces the list with the owner's sites, newest first. Failures are
// logged and leave the list untouched.
func (v *View) Load(ctx context.Context) {
	ctx, err := v.ownerContext(ctx, false)
	if err != nil {
		v.logger.Error("Error loading sites", slog.Any("error", err))
		return
	}

	sites, err := v.sites.ListForUser(ctx)
	if err != nil {
		v.logger.Error("Error loading sites", slog.Any("error", err))
		return
	}

	v.mu.Lock()
	if v.unmounted.Load() {
		v.mu.Unlock()
		v.logger.Debug("discarding load after unmount")
		return
	}
	v.list = sites
	snapshot := append([]model.Site(nil), sites...)
	listener := v.listener
	v.mu.Unlock()

	if listener != nil {
		listener(snapshot)
	}
}

// Add inserts rawURL as a pending site owned by the current user, then
// reloads. The returned error carries the message shown to the user.
func (v *View) Add(ctx context.Context, rawURL string) error {
	ctx, err := v.ownerContext(ctx, true)
	if err != nil {
		return err
	}

	site, err := v.sites.Add(ctx, rawURL)
	if err != nil {
		return err
	}
	v.logger.Info("site added", slog.String("id", site.ID))

	v.Load(ctx)
	return nil
}

// Remove deletes the site once the user confirmed. On success the row is
// dropped from the list without a reload.
func (v *View) Remove(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return nil
	}

	ctx, err := v.ownerContext(ctx, false)
	if err != nil {
		return err
	}
	if err := v.sites.Remove(ctx, id); err != nil {
		return err
	}

	v.mu.Lock()
	if v.unmounted.Load() {
		v.mu.Unlock()
		return nil
	}
	kept := v.list[:0:0]
	for _, s := range v.list {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	v.list = kept
	snapshot := append([]model.Site(nil), kept...)
	listener := v.listener
	v.mu.Unlock()

	v.logger.Info("Site removed from view", slog.String("id", id))
	if listener != nil {
		listener(snapshot)
	}
	return nil
}

// Logout ends the identity session. Errors are logged only.
func (v *View) Logout(ctx context.Context) {
	if err := v.auth.SignOut(ctx, v.accessToken); err != nil {
		v.logger.Warn("sign out failed", slog.Any("error", err))
	}
}

// Mount opens one change subscription with the given event filter and runs
// the initial load followed by a reload per change, until Unmount.
func (v *View) Mount(ctx context.Context, event model.EventType, listener Listener) {
	ctx, cancel := context.WithCancel(ctx)
	events, release := v.feed.Subscribe(ctx, realtime.Filter{Table: SitesTable, Event: event})

	v.mu.Lock()
	v.listener = listener
	v.cancel = cancel
	v.release = release
	v.mu.Unlock()
	metrics.LiveViews.Inc()

	go func() {
		v.Load(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				v.logger.Debug("Change detected, reloading", slog.String("type", string(evt.Type)))
				v.Load(ctx)
			}
		}
	}()
}

// Unmount releases the subscription. Loads still in flight are discarded.
func (v *View) Unmount() {
	v.mu.Lock()
	if v.unmounted.Swap(true) {
		v.mu.Unlock()
		return
	}
	cancel, release := v.cancel, v.release
	v.listener = nil
	v.mu.Unlock()

	if cancel != nil {
		cancel()
		metrics.LiveViews.Dec()
	}
	if release != nil {
		release()
	}
}

// ownerContext attaches the session owner's id to ctx. With fresh set the
// identity service is asked again even if the owner is already known.
func (v *View) ownerContext(ctx context.Context, fresh bool) (context.Context, error) {
	v.mu.Lock()
	userID := v.userID
	v.mu.Unlock()

	if userID == "" || fresh {
		user, err := v.auth.GetUser(ctx, v.accessToken)
		if err != nil {
			return ctx, err
		}
		userID = user.ID
		v.mu.Lock()
		v.userID = userID
		v.mu.Unlock()
	}
	return model.WithUserID(ctx, userID), nil
}
