package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	appErr "github.com/samims/stillup/internal/errors"
	"github.com/samims/stillup/internal/model"
)

const uniqueViolation = "23505"

type PostgresSiteStorage struct {
	db *pgxpool.Pool
}

func NewSiteStorage(pool *pgxpool.Pool) SiteStorage {
	return &PostgresSiteStorage{db: pool}
}

func (ps *PostgresSiteStorage) Ping(ctx context.Context) error {
	return ps.db.Ping(ctx)
}

const siteColumns = `id, url, status, last_checked_at, user_id, created_at`

func scanSite(row pgx.Row) (model.Site, error) {
	var site model.Site
	err := row.Scan(&site.ID, &site.URL, &site.Status, &site.LastCheckedAt, &site.UserID, &site.CreatedAt)
	return site, err
}

func (ps *PostgresSiteStorage) FindByID(ctx context.Context, id string) (model.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE id = $1`

	site, err := scanSite(ps.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Site{}, fmt.Errorf("site %s: %w", id, appErr.ErrNotFound)
		}
		return model.Site{}, fmt.Errorf("find by id failed: %w", err)
	}
	return site, nil
}

func (ps *PostgresSiteStorage) FindAll(ctx context.Context) ([]model.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites ORDER BY created_at DESC`
	return ps.query(ctx, query)
}

func (ps *PostgresSiteStorage) FindAllByUserID(ctx context.Context, userID string) ([]model.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE user_id = $1 ORDER BY created_at DESC`
	return ps.query(ctx, query, userID)
}

func (ps *PostgresSiteStorage) query(ctx context.Context, query string, args ...any) ([]model.Site, error) {
	rows, err := ps.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	sites := []model.Site{}
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return sites, nil
}

// Save inserts the site and fills CreatedAt from the database.
func (ps *PostgresSiteStorage) Save(ctx context.Context, site *model.Site) error {
	query := `
		INSERT INTO sites (id, url, status, last_checked_at, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := ps.db.QueryRow(ctx, query, site.ID, site.URL, site.Status, site.LastCheckedAt, site.UserID).
		Scan(&site.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("site %s: %w", site.ID, appErr.ErrConflict)
		}
		return fmt.Errorf("failed to save site: %w", err)
	}
	return nil
}

// Delete removes a site owned by userID.
func (ps *PostgresSiteStorage) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM sites WHERE id = $1 AND user_id = $2`

	cmdTag, err := ps.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("site %s: %w", id, appErr.ErrNotFound)
	}
	return nil
}

func (ps *PostgresSiteStorage) UpdateStatus(ctx context.Context, id string, status model.Status, checkedAt time.Time) error {
	query := `
		UPDATE sites
		SET status = $1, last_checked_at = $2
		WHERE id = $3
	`

	cmdTag, err := ps.db.Exec(ctx, query, status, checkedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("no site to update with id %s: %w", id, appErr.ErrNotFound)
	}
	return nil
}
