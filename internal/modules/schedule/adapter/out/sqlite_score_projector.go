package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"quizhook/internal/modules/schedule/domain"
	"quizhook/internal/platform/clock"
	"quizhook/internal/platform/timefmt"

	_ "modernc.org/sqlite"
)

// SQLiteScoreProjector mirrors topic scores into a SQLite table so they can
// be queried by other tools. The database is opened on first use.
type SQLiteScoreProjector struct {
	dbPath string
	clock  clock.Clock

	mu sync.Mutex
	db *sql.DB
}

func NewSQLiteScoreProjector(dbPath string, clk clock.Clock) *SQLiteScoreProjector {
	return &SQLiteScoreProjector{dbPath: dbPath, clock: clk}
}

func (s *SQLiteScoreProjector) open(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	const ddl = `
CREATE TABLE IF NOT EXISTS topic_scores (
  project TEXT NOT NULL,
  topic TEXT NOT NULL,
  correct INTEGER NOT NULL,
  total INTEGER NOT NULL,
  percent INTEGER NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (project, topic)
);
`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create topic_scores table: %w", err)
	}
	s.db = db
	return db, nil
}

func (s *SQLiteScoreProjector) ReplaceScores(ctx context.Context, project string, scores map[string]domain.TopicScore) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin projection: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM topic_scores WHERE project = ?`, project); err != nil {
		return fmt.Errorf("reset topic scores: %w", err)
	}
	const stmt = `
INSERT INTO topic_scores (project, topic, correct, total, percent, updated_at)
VALUES (?, ?, ?, ?, ?, ?);
`
	updatedAt := timefmt.Format(s.clock.Now())
	for topic, score := range scores {
		if _, err := tx.ExecContext(ctx, stmt, project, topic, score.Correct, score.Total, score.Percent(), updatedAt); err != nil {
			return fmt.Errorf("insert topic score %s: %w", topic, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit projection: %w", err)
	}
	return nil
}

// Weakest lists a project's topics from lowest to highest proficiency. A
// database that was never written yields no rows and is not created.
func (s *SQLiteScoreProjector) Weakest(ctx context.Context, project string, limit int) ([]domain.RankedTopic, error) {
	if !s.exists() {
		return []domain.RankedTopic{}, nil
	}
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
SELECT topic, correct, total, percent FROM topic_scores
WHERE project = ?
ORDER BY percent ASC, topic ASC
LIMIT ?`, project, limit)
	if err != nil {
		return nil, fmt.Errorf("query topic scores: %w", err)
	}
	defer rows.Close()
	out := []domain.RankedTopic{}
	for rows.Next() {
		row := domain.RankedTopic{}
		var percent int
		if err := rows.Scan(&row.Topic, &row.Score.Correct, &row.Score.Total, &percent); err != nil {
			return nil, fmt.Errorf("scan topic score: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *SQLiteScoreProjector) exists() bool {
	s.mu.Lock()
	open := s.db != nil
	s.mu.Unlock()
	if open {
		return true
	}
	_, err := os.Stat(s.dbPath)
	return err == nil
}

func (s *SQLiteScoreProjector) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
