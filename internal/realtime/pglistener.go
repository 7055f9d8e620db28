package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samims/stillup/internal/model"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// Publisher receives decoded change events.
type Publisher interface {
	Publish(evt model.ChangeEvent)
}

// PGListener turns NOTIFY payloads from the sites trigger into change events.
type PGListener struct {
	pool    *pgxpool.Pool
	channel string
	out     Publisher
	logger  *slog.Logger

	listenFn func(ctx context.Context, connected func()) error
	after    func(time.Duration) <-chan time.Time
}

func NewPGListener(pool *pgxpool.Pool, channel string, out Publisher, logger *slog.Logger) *PGListener {
	l := &PGListener{
		pool:    pool,
		channel: channel,
		out:     out,
		logger:  logger.With("layer", "realtime", "component", "pgListener", "channel", channel),
		after:   time.After,
	}
	l.listenFn = l.listen
	return l
}

// Start listens until ctx is cancelled, reconnecting with exponential backoff
// when the connection drops. The backoff starts over after every successful
// LISTEN.
func (l *PGListener) Start(ctx context.Context) error {
	backoff := minBackoff
	for {
		err := l.listenFn(ctx, func() { backoff = minBackoff })
		if ctx.Err() != nil {
			l.logger.Info("Context cancelled, stopping listener")
			return ctx.Err()
		}
		l.logger.Error("listen failed, reconnecting", slog.Any("error", err), slog.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.after(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// listen holds one LISTEN connection until it fails. connected is called once
// the LISTEN statement succeeded.
func (l *PGListener) listen(ctx context.Context, connected func()) error {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	// A LISTENing connection must not go back to the pool.
	conn := pooled.Hijack()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	connected()
	l.logger.Info("listening for changes")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		evt, err := decodeChange([]byte(n.Payload))
		if err != nil {
			l.logger.Warn("skipping undecodable notification", slog.Any("error", err))
			continue
		}
		l.logger.Debug("change received", slog.String("table", evt.Table), slog.String("type", string(evt.Type)))
		l.out.Publish(evt)
	}
}

var errIncompleteChange = errors.New("change payload missing table or type")

func decodeChange(payload []byte) (model.ChangeEvent, error) {
	var evt model.ChangeEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return model.ChangeEvent{}, err
	}
	if evt.Table == "" || evt.Type == "" {
		return model.ChangeEvent{}, errIncompleteChange
	}
	return evt, nil
}
