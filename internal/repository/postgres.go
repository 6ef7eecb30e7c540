package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"letluckdecide/enricher/internal/domain"

	"github.com/jackc/pgx/v5"
)

// DBTX is the subset of pgxpool.Pool used by the Postgres store.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type postgresRepository struct {
	db       DBTX
	location string
	close    func()
}

// NewPostgresRepository stores one row per slug in enrich_entries. closeFn
// releases the pool and may be nil.
func NewPostgresRepository(db DBTX, location string, closeFn func()) EnrichRepository {
	return &postgresRepository{
		db:       db,
		location: location,
		close:    closeFn,
	}
}

const selectEntries = `
	SELECT slug, category, title, summary, images, links, extra
	FROM enrich_entries`

const deleteMissingEntries = `
	DELETE FROM enrich_entries
	WHERE slug <> ALL($1)`

// upsertEntry leaves rows whose content is unchanged untouched, including
// updated_at.
const upsertEntry = `
	INSERT INTO enrich_entries (slug, category, title, summary, images, links, extra, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	ON CONFLICT (slug)
	DO UPDATE SET category = EXCLUDED.category, title = EXCLUDED.title, summary = EXCLUDED.summary,
		images = EXCLUDED.images, links = EXCLUDED.links, extra = EXCLUDED.extra, updated_at = now()
	WHERE (enrich_entries.category, enrich_entries.title, enrich_entries.summary,
		enrich_entries.images, enrich_entries.links, enrich_entries.extra)
		IS DISTINCT FROM
		(EXCLUDED.category, EXCLUDED.title, EXCLUDED.summary,
		EXCLUDED.images, EXCLUDED.links, EXCLUDED.extra)`

func (r *postgresRepository) Load(ctx context.Context) (domain.Store, error) {
	rows, err := r.db.Query(ctx, selectEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	store := make(domain.Store)
	for rows.Next() {
		var slug, category, title, summary, images, links, extra string
		if err := rows.Scan(&slug, &category, &title, &summary, &images, &links, &extra); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		entry := &domain.Entry{
			Category: domain.Category(category),
			Title:    title,
			Summary:  summary,
		}
		if err := json.Unmarshal([]byte(images), &entry.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images of %s: %w", slug, err)
		}
		if err := json.Unmarshal([]byte(links), &entry.Links); err != nil {
			return nil, fmt.Errorf("failed to decode links of %s: %w", slug, err)
		}
		if err := json.Unmarshal([]byte(extra), &entry.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode extra fields of %s: %w", slug, err)
		}
		if entry.Images == nil {
			entry.Images = []domain.Attribution{}
		}
		if entry.Links == nil {
			entry.Links = []string{}
		}
		if len(entry.Extra) == 0 {
			entry.Extra = nil
		}
		store[slug] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return store, nil
}

// Save makes the table match store in one transaction: rows for slugs
// missing from store are deleted and every entry is upserted.
func (r *postgresRepository) Save(ctx context.Context, store domain.Store) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	slugs := make([]string, 0, len(store))
	for _, slug := range store.Slugs() {
		if store[slug] != nil {
			slugs = append(slugs, slug)
		}
	}
	if _, err := tx.Exec(ctx, deleteMissingEntries, slugs); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to delete stale entries: %w", err)
	}

	for _, slug := range slugs {
		args, err := upsertArgs(slug, store[slug])
		if err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		if _, err := tx.Exec(ctx, upsertEntry, args...); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to save entry %s: %w", slug, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit store: %w", err)
	}
	return nil
}

func upsertArgs(slug string, entry *domain.Entry) ([]any, error) {
	images := entry.Images
	if images == nil {
		images = []domain.Attribution{}
	}
	links := entry.Links
	if links == nil {
		links = []string{}
	}
	extra := entry.Extra
	if extra == nil {
		extra = map[string]json.RawMessage{}
	}

	encoded := make([]string, 0, 3)
	for _, v := range []any{images, links, extra} {
		s, err := encodeCompact(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode entry %s: %w", slug, err)
		}
		encoded = append(encoded, s)
	}

	return []any{slug, entry.Category.String(), entry.Title, entry.Summary, encoded[0], encoded[1], encoded[2]}, nil
}

func (r *postgresRepository) Location() string {
	return r.location
}

func (r *postgresRepository) Close() error {
	if r.close != nil {
		r.close()
	}
	return nil
}
