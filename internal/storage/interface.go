package storage

import (
	"context"
	"time"

	"github.com/samims/stillup/internal/model"
)

// SiteStorage is the row store for monitored sites.
type SiteStorage interface {
	Ping(ctx context.Context) error
	Save(ctx context.Context, site *model.Site) error
	FindAll(ctx context.Context) ([]model.Site, error)
	FindAllByUserID(ctx context.Context, userID string) ([]model.Site, error)
	FindByID(ctx context.Context, id string) (model.Site, error)
	Delete(ctx context.Context, id, userID string) error
	UpdateStatus(ctx context.Context, id string, status model.Status, checkedAt time.Time) error
}

// UserStorage persists identities and their refresh sessions.
type UserStorage interface {
	CreateUser(ctx context.Context, email, hashedPass string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CreateSession(ctx context.Context, sess *model.RefreshSession) error
	DeleteSessionsByUser(ctx context.Context, userID string) error
	Ping(ctx context.Context) error
}
