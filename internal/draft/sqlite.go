package draft

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/eatlyst/eatlyst/internal/db"
	"github.com/eatlyst/eatlyst/internal/util/compression"
)

// SQLiteStore keeps one snapshot per key in the drafts table. Snapshots can
// carry the selected photo inline as a data URL, so the JSON payload is
// zstd-compressed before it hits the database.
type SQLiteStore struct { // implements Store
	db  db.DB
	key string

	compressor compression.Compressor
}

func NewSQLiteStore(db db.DB, key string) *SQLiteStore {
	return &SQLiteStore{
		db:  db,
		key: key,

		compressor: compression.ZstdCompressor{},
	}
}

func (s *SQLiteStore) Save(snapshot Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		draftLogger.Error().Err(err).Str("key", s.key).Msg("Error encoding draft snapshot")
		return
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		draftLogger.Error().Err(err).Str("key", s.key).Msg("Error compressing draft snapshot")
		return
	}

	_, err = s.db.Exec(
		`INSERT INTO drafts (key, content, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET content = excluded.content, saved_at = excluded.saved_at`,
		s.key, compressed, time.Now().UTC(),
	)
	if err != nil {
		draftLogger.Error().Err(err).Str("key", s.key).Msg("Error saving draft")
	}
}

func (s *SQLiteStore) Load() (*Snapshot, bool) {
	var compressed []byte
	row := s.db.Get().QueryRow(`SELECT content FROM drafts WHERE key = ?`, s.key)
	if err := row.Scan(&compressed); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			draftLogger.Error().Err(err).Str("key", s.key).Msg("Error reading draft")
		}
		return nil, false
	}

	data, err := s.compressor.Decompress(compressed)
	if err != nil {
		// Treat undecodable drafts as absent rather than failing the session.
		draftLogger.Warn().Err(err).Str("key", s.key).Msg("Discarding malformed draft")
		return nil, false
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		draftLogger.Warn().Err(err).Str("key", s.key).Msg("Discarding malformed draft")
		return nil, false
	}

	return &snapshot, true
}

func (s *SQLiteStore) Clear() {
	_, err := s.db.Exec(`DELETE FROM drafts WHERE key = ?`, s.key)
	if err != nil {
		draftLogger.Error().Err(err).Str("key", s.key).Msg("Error clearing draft")
	}
}
