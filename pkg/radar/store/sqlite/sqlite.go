package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/radar/pkg/radar"
	"github.com/cognicore/radar/pkg/radar/internalerr"
	"github.com/cognicore/radar/pkg/radar/store"
	"github.com/cognicore/radar/pkg/radar/trend"
)

// timeLayout is fixed-width UTC so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	documents INTEGER NOT NULL DEFAULT 0,
	topics INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS topics (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	mention_count INTEGER NOT NULL,
	growth_percentage REAL NOT NULL,
	total_score REAL NOT NULL,
	trend_data TEXT NOT NULL,
	pain_points TEXT NOT NULL,
	solution_requests TEXT NOT NULL,
	app_ideas TEXT NOT NULL,
	opportunity_scores TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_topics_category ON topics(category);
CREATE INDEX IF NOT EXISTS idx_topics_score ON topics(total_score DESC);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun records the run and replaces the current topic set in one transaction
func (s *sqliteStore) SaveRun(ctx context.Context, run store.Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidInput)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	created := run.CreatedAt.UTC().Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, documents, topics)
VALUES (?, ?, ?, ?);
`, run.ID, created, run.Documents, len(run.Topics)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM topics`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO topics (
	id, run_id, name, category, mention_count, growth_percentage, total_score,
	trend_data, pain_points, solution_requests, app_ideas, opportunity_scores, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range run.Topics {
		cols, err := encodeColumns(t)
		if err != nil {
			return fmt.Errorf("encode topic %q: %w", t.Name, err)
		}
		if _, err := stmt.ExecContext(ctx,
			store.NewID(), run.ID, t.Name, t.Category, t.MentionCount, t.GrowthPercentage,
			t.OpportunityScores.Total,
			cols[0], cols[1], cols[2], cols[3], cols[4], created,
		); err != nil {
			return fmt.Errorf("insert topic %q: %w", t.Name, err)
		}
	}

	return tx.Commit()
}

// encodeColumns marshals the JSON columns: trend, pain points, solution
// requests, app ideas and opportunity scores.
func encodeColumns(t radar.Topic) ([5]string, error) {
	var out [5]string
	for i, v := range []any{t.Trend, t.PainPoints, t.SolutionRequests, t.AppIdeas, t.OpportunityScores} {
		data, err := json.Marshal(v)
		if err != nil {
			return out, err
		}
		out[i] = string(data)
	}
	return out, nil
}

// likeEscaper makes LIKE wildcards in search text match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const topicColumns = `
id, run_id, name, category, mention_count, growth_percentage,
trend_data, pain_points, solution_requests, app_ideas, opportunity_scores, updated_at`

// Topics lists current topics matching the filter
func (s *sqliteStore) Topics(ctx context.Context, f store.Filter) ([]store.Topic, error) {
	var (
		conds []string
		args  []any
	)
	if f.Category != "" && f.Category != "all" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		conds = append(conds, `(lower(name) LIKE ? ESCAPE '\' OR lower(category) LIKE ? ESCAPE '\')`)
		like := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		args = append(args, like, like)
	}
	if f.MinScore > 0 {
		conds = append(conds, "total_score >= ?")
		args = append(args, f.MinScore)
	}
	if f.Trending {
		conds = append(conds, "growth_percentage > ?")
		args = append(args, store.TrendingGrowth)
	}

	query := "SELECT " + topicColumns + " FROM topics"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	switch f.Order {
	case store.OrderMentions:
		query += " ORDER BY mention_count DESC, total_score DESC, name ASC"
	case store.OrderGrowth:
		query += " ORDER BY growth_percentage DESC, total_score DESC, mention_count DESC, name ASC"
	default:
		query += " ORDER BY total_score DESC, mention_count DESC, name ASC"
	}

	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []store.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// Topic returns one topic by ID
func (s *sqliteStore) Topic(ctx context.Context, id string) (store.Topic, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+topicColumns+" FROM topics WHERE id = ?", id)
	t, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Topic{}, fmt.Errorf("%w: topic %s", internalerr.ErrNotFound, id)
	}
	return t, err
}

// Categories returns distinct categories of current topics
func (s *sqliteStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM topics ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Stats summarizes the current topic set and the latest run
func (s *sqliteStore) Stats(ctx context.Context) (store.Stats, error) {
	var (
		stats store.Stats
		avg   sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT
	COUNT(*),
	COUNT(CASE WHEN growth_percentage > ? THEN 1 END),
	COUNT(DISTINCT category),
	AVG(growth_percentage)
FROM topics;
`, store.TrendingGrowth).Scan(&stats.TotalTopics, &stats.TrendingTopics, &stats.TotalCategories, &avg)
	if err != nil {
		return store.Stats{}, err
	}
	if avg.Valid {
		stats.AverageGrowthRate = math.Round(avg.Float64*10) / 10
	}

	var created string
	err = s.db.QueryRowContext(ctx, `SELECT id, created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`).
		Scan(&stats.LastRunID, &created)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return stats, nil
	case err != nil:
		return store.Stats{}, err
	}
	if parsed, perr := time.Parse(timeLayout, created); perr == nil {
		stats.LastRunAt = parsed
	}
	return stats, nil
}

// MarketAnalysis aggregates the current topics in SQL, unpacking the JSON
// trend and pain point columns with json_each.
func (s *sqliteStore) MarketAnalysis(ctx context.Context) (store.MarketAnalysis, error) {
	var (
		ma  store.MarketAnalysis
		err error
	)

	ma.CategoryDistribution, err = s.categoryCounts(ctx, `
SELECT category, COUNT(*) AS n
FROM topics
GROUP BY category
ORDER BY n DESC, category ASC
LIMIT ?;
`)
	if err != nil {
		return store.MarketAnalysis{}, fmt.Errorf("category distribution: %w", err)
	}

	ma.PainPointsByCategory, err = s.categoryCounts(ctx, `
SELECT topics.category, COUNT(*) AS n
FROM topics, json_each(topics.pain_points)
GROUP BY topics.category
ORDER BY n DESC, topics.category ASC
LIMIT ?;
`)
	if err != nil {
		return store.MarketAnalysis{}, fmt.Errorf("pain points by category: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT json_extract(value, '$.period') AS period, SUM(json_extract(value, '$.mentions')) AS n
FROM topics, json_each(topics.trend_data)
GROUP BY period
ORDER BY period DESC
LIMIT ?;
`, store.AnalysisPeriods)
	if err != nil {
		return store.MarketAnalysis{}, fmt.Errorf("growth trends: %w", err)
	}
	defer rows.Close()

	ma.GrowthTrends = []trend.Point{}
	for rows.Next() {
		var p trend.Point
		if err := rows.Scan(&p.Period, &p.Mentions); err != nil {
			return store.MarketAnalysis{}, err
		}
		ma.GrowthTrends = append(ma.GrowthTrends, p)
	}
	if err := rows.Err(); err != nil {
		return store.MarketAnalysis{}, err
	}
	// newest first from SQL, oldest first in the result
	for i, j := 0, len(ma.GrowthTrends)-1; i < j; i, j = i+1, j-1 {
		ma.GrowthTrends[i], ma.GrowthTrends[j] = ma.GrowthTrends[j], ma.GrowthTrends[i]
	}
	return ma, nil
}

func (s *sqliteStore) categoryCounts(ctx context.Context, query string) ([]store.CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx, query, store.AnalysisCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.CategoryCount{}
	for rows.Next() {
		var c store.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTopic(sc scanner) (store.Topic, error) {
	var (
		t                                           store.Topic
		trendJSON, painJSON, solJSON, ideaJSON, sco string
		updated                                     string
	)
	if err := sc.Scan(&t.ID, &t.RunID, &t.Name, &t.Category, &t.MentionCount, &t.GrowthPercentage,
		&trendJSON, &painJSON, &solJSON, &ideaJSON, &sco, &updated); err != nil {
		return store.Topic{}, err
	}

	for _, col := range []struct {
		data string
		dst  any
	}{
		{trendJSON, &t.Trend},
		{painJSON, &t.PainPoints},
		{solJSON, &t.SolutionRequests},
		{ideaJSON, &t.AppIdeas},
		{sco, &t.OpportunityScores},
	} {
		if err := json.Unmarshal([]byte(col.data), col.dst); err != nil {
			return store.Topic{}, fmt.Errorf("decode topic %s: %w", t.ID, err)
		}
	}

	if parsed, err := time.Parse(timeLayout, updated); err == nil {
		t.UpdatedAt = parsed
	}
	return t, nil
}
