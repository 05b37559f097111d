package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a PostgreSQL-backed Recorder plus the aggregate queries behind
// the analytics endpoints.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and ensures the analytics tables
// exist.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			session_id   TEXT PRIMARY KEY,
			archetype    TEXT NOT NULL,
			answer_count INT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS clicks (
			id         BIGSERIAL PRIMARY KEY,
			session_id TEXT,
			gift       TEXT NOT NULL,
			archetype  TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS feedback (
			id           BIGSERIAL PRIMARY KEY,
			session_id   TEXT,
			accuracy     TEXT NOT NULL,
			archetype    TEXT,
			gift_ratings JSONB,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`)
	if err != nil {
		return fmt.Errorf("failed to create analytics tables: %w", err)
	}
	return nil
}

// RecordSession stores the terminal fact for one interview run.
func (s *Store) RecordSession(ctx context.Context, fact SessionFact) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (session_id, archetype, answer_count, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id) DO NOTHING`,
		fact.SessionID, fact.Archetype, fact.AnswerCount, fact.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

// RecordClick stores one recommendation link click.
func (s *Store) RecordClick(ctx context.Context, click Click) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO clicks (session_id, gift, archetype, created_at)
		 VALUES ($1, $2, $3, $4)`,
		click.SessionID, click.Gift, click.Archetype, click.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return nil
}

// RecordFeedback stores one feedback submission.
func (s *Store) RecordFeedback(ctx context.Context, fb Feedback) error {
	ratings, err := json.Marshal(fb.GiftRatings)
	if err != nil {
		return fmt.Errorf("failed to marshal gift ratings: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO feedback (session_id, accuracy, archetype, gift_ratings, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		fb.SessionID, fb.Accuracy, fb.Archetype, ratings, fb.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// Summary is the top-level analytics rollup.
type Summary struct {
	TotalClicks        int            `json:"totalClicks"`
	TotalFeedback      int            `json:"totalFeedback"`
	TotalSessions      int            `json:"totalSessions"`
	GiftBreakdown      map[string]int `json:"giftBreakdown"`
	AccuracyBreakdown  map[string]int `json:"accuracyBreakdown"`
	ArchetypeBreakdown map[string]int `json:"archetypeBreakdown"`
}

// Summarize computes the analytics rollup.
func (s *Store) Summarize(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		GiftBreakdown:      make(map[string]int),
		AccuracyBreakdown:  make(map[string]int),
		ArchetypeBreakdown: make(map[string]int),
	}

	row := s.pool.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM clicks),
		(SELECT COUNT(*) FROM feedback),
		(SELECT COUNT(*) FROM sessions)`)
	if err := row.Scan(&summary.TotalClicks, &summary.TotalFeedback, &summary.TotalSessions); err != nil {
		return nil, fmt.Errorf("failed to count analytics rows: %w", err)
	}

	if err := s.countBy(ctx, `SELECT gift, COUNT(*) FROM clicks GROUP BY gift`, summary.GiftBreakdown); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, `SELECT accuracy, COUNT(*) FROM feedback GROUP BY accuracy`, summary.AccuracyBreakdown); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, `SELECT archetype, COUNT(*) FROM sessions GROUP BY archetype`, summary.ArchetypeBreakdown); err != nil {
		return nil, err
	}

	return summary, nil
}

// RankedCount is one label with its occurrence count.
type RankedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Insights is the learning view: what actually lands with givers.
type Insights struct {
	TopGifts        []RankedCount `json:"topGifts"`
	TopArchetypes   []RankedCount `json:"topArchetypes"`
	LovedGifts      []RankedCount `json:"lovedGifts"`
	AccuracyRate    string        `json:"accuracyRate"`
	TotalDataPoints int           `json:"totalDataPoints"`
}

// Learn computes the learning insights.
func (s *Store) Learn(ctx context.Context) (*Insights, error) {
	insights := &Insights{}

	var err error
	if insights.TopGifts, err = s.rank(ctx,
		`SELECT gift, COUNT(*) AS n FROM clicks GROUP BY gift ORDER BY n DESC LIMIT 10`); err != nil {
		return nil, err
	}
	if insights.TopArchetypes, err = s.rank(ctx,
		`SELECT archetype, COUNT(*) AS n FROM sessions GROUP BY archetype ORDER BY n DESC LIMIT 5`); err != nil {
		return nil, err
	}
	if insights.LovedGifts, err = s.rank(ctx,
		`SELECT r.key, COUNT(*) AS n
		 FROM feedback f, jsonb_each_text(f.gift_ratings) r
		 WHERE r.value = 'love'
		 GROUP BY r.key ORDER BY n DESC LIMIT 5`); err != nil {
		return nil, err
	}

	var total, spotOn int
	row := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE accuracy = 'spot-on') FROM feedback`)
	if err := row.Scan(&total, &spotOn); err != nil {
		return nil, fmt.Errorf("failed to compute accuracy rate: %w", err)
	}
	insights.TotalDataPoints = total
	if total > 0 {
		insights.AccuracyRate = fmt.Sprintf("%.1f%%", float64(spotOn)/float64(total)*100)
	} else {
		insights.AccuracyRate = "No data yet"
	}

	return insights, nil
}

func (s *Store) countBy(ctx context.Context, query string, into map[string]int) error {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		into[key] = count
	}
	return rows.Err()
}

func (s *Store) rank(ctx context.Context, query string) ([]RankedCount, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	var ranked []RankedCount
	for rows.Next() {
		var rc RankedCount
		if err := rows.Scan(&rc.Name, &rc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		ranked = append(ranked, rc)
	}
	return ranked, rows.Err()
}
