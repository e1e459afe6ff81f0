package queue

import (
	"context"
	"database/sql"
	"fmt"
)

// AddToCollection inserts a collection row. Called only by the file mover on
// a moving->complete transition (spec.md §3).
func (s *Store) AddToCollection(ctx context.Context, contentType ContentType, title string, year *int, catalogID *int64, finalPath string) (int64, error) {
	ctx = ensureContext(ctx)
	var yearArg, catalogArg any
	if year != nil {
		yearArg = *year
	}
	if catalogID != nil {
		catalogArg = *catalogID
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO collection (content_type, title, year, catalog_id, final_path, added_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		contentType, title, yearArg, catalogArg, finalPath, nowStamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("add to collection: %w", err)
	}
	return res.LastInsertId()
}

// GetCollection returns all collection entries, newest first.
func (s *Store) GetCollection(ctx context.Context) ([]*CollectionItem, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content_type, title, year, catalog_id, final_path, added_at
         FROM collection ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	defer rows.Close()

	var items []*CollectionItem
	for rows.Next() {
		var (
			item      CollectionItem
			year      sql.NullInt64
			catalogID sql.NullInt64
			addedAt   string
		)
		if err := rows.Scan(&item.ID, &item.ContentType, &item.Title, &year, &catalogID, &item.FinalPath, &addedAt); err != nil {
			return nil, fmt.Errorf("scan collection row: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			item.Year = &y
		}
		if catalogID.Valid {
			c := catalogID.Int64
			item.CatalogID = &c
		}
		item.AddedAt = parseStamp(addedAt)
		items = append(items, &item)
	}
	return items, rows.Err()
}

// RemoveFromCollection deletes a collection row, for UI-driven cleanup.
func (s *Store) RemoveFromCollection(ctx context.Context, id int64) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, `DELETE FROM collection WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove collection %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove collection %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddToWanted inserts a wanted-list entry.
func (s *Store) AddToWanted(ctx context.Context, title string, year *int, contentType ContentType, catalogID *int64, posterRef, notes string) (int64, error) {
	ctx = ensureContext(ctx)
	var yearArg, catalogArg any
	if year != nil {
		yearArg = *year
	}
	if catalogID != nil {
		catalogArg = *catalogID
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO wanted (title, year, content_type, catalog_id, poster_ref, notes, added_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		title, yearArg, contentType, catalogArg, posterRef, notes, nowStamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("add to wanted: %w", err)
	}
	return res.LastInsertId()
}

// GetWanted returns all wanted-list entries, newest first.
func (s *Store) GetWanted(ctx context.Context) ([]*WantedItem, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, year, content_type, catalog_id, poster_ref, notes, added_at
         FROM wanted ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("get wanted: %w", err)
	}
	defer rows.Close()

	var items []*WantedItem
	for rows.Next() {
		var (
			item      WantedItem
			year      sql.NullInt64
			catalogID sql.NullInt64
			addedAt   string
		)
		if err := rows.Scan(&item.ID, &item.Title, &year, &item.ContentType, &catalogID, &item.PosterRef, &item.Notes, &addedAt); err != nil {
			return nil, fmt.Errorf("scan wanted row: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			item.Year = &y
		}
		if catalogID.Valid {
			c := catalogID.Int64
			item.CatalogID = &c
		}
		item.AddedAt = parseStamp(addedAt)
		items = append(items, &item)
	}
	return items, rows.Err()
}

// RemoveFromWanted deletes a wanted-list entry.
func (s *Store) RemoveFromWanted(ctx context.Context, id int64) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, `DELETE FROM wanted WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove wanted %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove wanted %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSetting returns a setting value and whether it was present.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	ctx = ensureContext(ctx)
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting upserts a setting value. Generic key/value storage: the core
// only reads/writes "active_mode", but the table is not special-cased to it
// (spec.md §3).
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	ctx = ensureContext(ctx)
	_, err := s.execWithRetry(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
