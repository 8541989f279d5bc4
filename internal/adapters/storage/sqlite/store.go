package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hati-ai/hati-agent/internal/domain"
)

// Store is a durable backend on a local SQLite file. One store implements
// ProfileStore, ConversationStore and ResponseCache.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id          TEXT PRIMARY KEY,
	display_name     TEXT NOT NULL DEFAULT '',
	preferred_genres TEXT NOT NULL DEFAULT '[]',
	preferences      TEXT NOT NULL DEFAULT '{}',
	mood_history     TEXT NOT NULL DEFAULT '[]',
	created_at       TIMESTAMP NOT NULL,
	last_active      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS conversations (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL,
	user_id       TEXT NOT NULL,
	user_message  TEXT NOT NULL,
	bot_response  TEXT NOT NULL,
	mood_detected TEXT NOT NULL DEFAULT '',
	agent_used    TEXT NOT NULL DEFAULT '',
	agent_data    TEXT NOT NULL DEFAULT '{}',
	created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS api_cache (
	cache_key  TEXT PRIMARY KEY,
	response   TEXT NOT NULL,
	expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversations_session
	ON conversations(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_cache_expiry
	ON api_cache(expires_at);
`

// NewStore opens (creating if needed) the database at path and applies the
// schema.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ─────────────────────────────────────────
// ProfileStore implementation
// ─────────────────────────────────────────

func (s *Store) Get(ctx context.Context, userID domain.UserID) (*domain.SessionProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT display_name, preferred_genres, preferences, mood_history, created_at, last_active
		FROM profiles WHERE user_id = ?`, string(userID))

	var (
		displayName           string
		genresJSON, prefsJSON string
		historyJSON           string
		createdAt, lastActive time.Time
	)
	err := row.Scan(&displayName, &genresJSON, &prefsJSON, &historyJSON, &createdAt, &lastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite get profile: %w", err)
	}

	p := &domain.SessionProfile{
		UserID:      userID,
		DisplayName: displayName,
		CreatedAt:   createdAt,
		LastActive:  lastActive,
	}
	if err := json.Unmarshal([]byte(genresJSON), &p.PreferredGenres); err != nil {
		return nil, fmt.Errorf("sqlite decode preferred_genres: %w", err)
	}
	if err := json.Unmarshal([]byte(prefsJSON), &p.Preferences); err != nil {
		return nil, fmt.Errorf("sqlite decode preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(historyJSON), &p.MoodHistory); err != nil {
		return nil, fmt.Errorf("sqlite decode mood_history: %w", err)
	}
	return p, nil
}

func (s *Store) Update(ctx context.Context, profile *domain.SessionProfile) error {
	genresJSON, err := json.Marshal(profile.PreferredGenres)
	if err != nil {
		return fmt.Errorf("sqlite encode preferred_genres: %w", err)
	}
	prefsJSON, err := json.Marshal(profile.Preferences)
	if err != nil {
		return fmt.Errorf("sqlite encode preferences: %w", err)
	}
	historyJSON, err := json.Marshal(profile.MoodHistory)
	if err != nil {
		return fmt.Errorf("sqlite encode mood_history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, display_name, preferred_genres, preferences, mood_history, created_at, last_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			display_name     = excluded.display_name,
			preferred_genres = excluded.preferred_genres,
			preferences      = excluded.preferences,
			mood_history     = excluded.mood_history,
			last_active      = excluded.last_active`,
		string(profile.UserID), profile.DisplayName, string(genresJSON), string(prefsJSON),
		string(historyJSON), profile.CreatedAt, profile.LastActive)
	if err != nil {
		return fmt.Errorf("sqlite update profile: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// ConversationStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveTurn(ctx context.Context, turn *domain.ConversationTurn) error {
	agentData := turn.AgentData
	if len(agentData) == 0 {
		agentData = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (session_id, user_id, user_message, bot_response, mood_detected, agent_used, agent_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(turn.SessionID), string(turn.UserID), turn.UserMessage, turn.BotResponse,
		string(turn.MoodDetected), string(turn.AgentUsed), string(agentData), turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite save turn: %w", err)
	}
	return nil
}

func (s *Store) History(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.ConversationTurn, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, user_message, bot_response, mood_detected, agent_used, agent_data, created_at
		FROM conversations WHERE session_id = ?
		ORDER BY created_at DESC LIMIT ?`, string(sessionID), limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite history: %w", err)
	}
	defer rows.Close()

	var out []*domain.ConversationTurn
	for rows.Next() {
		t := &domain.ConversationTurn{SessionID: sessionID}
		var userID, mood, agent, agentData string
		if err := rows.Scan(&userID, &t.UserMessage, &t.BotResponse, &mood, &agent, &agentData, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite scan turn: %w", err)
		}
		t.UserID = domain.UserID(userID)
		t.MoodDetected = domain.Mood(mood)
		t.AgentUsed = domain.AgentKind(agent)
		t.AgentData = []byte(agentData)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite history rows: %w", err)
	}

	// Rows come newest-first; callers expect newest last.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ─────────────────────────────────────────
// ResponseCache implementation
// ─────────────────────────────────────────

// Cache adapts the store to domain.ResponseCache; the method set would
// otherwise collide with ProfileStore.Get.
type Cache struct {
	store *Store
}

func (s *Store) Cache() *Cache {
	return &Cache{store: s}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	return c.store.cacheGet(ctx, key)
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.store.cacheSet(ctx, key, value, ttl)
}

func (c *Cache) PurgeExpired(ctx context.Context) int {
	return c.store.purgeExpired(ctx)
}

func (s *Store) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	row := s.db.QueryRowContext(ctx, `
		SELECT response FROM api_cache WHERE cache_key = ? AND expires_at > ?`,
		key, s.now())

	var value string
	if err := row.Scan(&value); err != nil {
		return nil, false
	}
	return []byte(value), true
}

func (s *Store) cacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_, _ = s.db.ExecContext(ctx, `
		INSERT INTO api_cache (cache_key, response, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			response   = excluded.response,
			expires_at = excluded.expires_at`,
		key, string(value), s.now().Add(ttl))
}

func (s *Store) purgeExpired(ctx context.Context) int {
	res, err := s.db.ExecContext(ctx, `DELETE FROM api_cache WHERE expires_at <= ?`, s.now())
	if err != nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}
