package sqlite

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/veracity"
	"github.com/google/uuid"
)

// DefaultHistoryLimit is how many analyses are kept.
const DefaultHistoryLimit = 10

// Compile-time interface verification.
var _ veracity.HistoryService = (*HistoryService)(nil)

// HistoryService implements veracity.HistoryService using SQLite. Only the
// most recent analyses are kept; older ones are pruned on every save.
type HistoryService struct {
	db    *DB
	limit int
	now   func() time.Time
}

// HistoryOption configures a HistoryService.
type HistoryOption func(*HistoryService)

// WithHistoryLimit sets how many analyses are retained. Zero or less keeps
// everything.
func WithHistoryLimit(n int) HistoryOption {
	return func(s *HistoryService) {
		s.limit = n
	}
}

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) HistoryOption {
	return func(s *HistoryService) {
		s.now = now
	}
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *DB, opts ...HistoryOption) *HistoryService {
	s := &HistoryService{
		db:    db,
		limit: DefaultHistoryLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// hashResult computes xxHash of the serialized result and returns hex string.
func hashResult(data []byte) string {
	h := xxhash.Sum64(data)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// SaveAnalysis stores a new analysis, assigning its ID and timestamp, and
// prunes entries beyond the retention limit. An analysis whose input and
// result match the newest entry replaces that entry instead of being added.
func (s *HistoryService) SaveAnalysis(ctx context.Context, a *veracity.Analysis) error {
	if err := a.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	a.ID = uuid.New().String()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	a.CreatedAt = a.CreatedAt.UTC()

	hash := hashResult(data)
	replaced, err := s.replaceNewest(ctx, a, data, hash)
	if err != nil {
		return err
	}
	if replaced {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, input_type, source_url, verdict, confidence, result, result_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, string(a.InputType), a.SourceURL, a.Result.Verdict, a.Result.Confidence,
		string(data), hash, formatTime(a.CreatedAt)); err != nil {
		return err
	}

	if s.limit > 0 {
		if _, err := s.db.ExecContext(ctx, `
			DELETE FROM analyses WHERE id NOT IN (
				SELECT id FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT ?
			)
		`, s.limit); err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
	}
	return nil
}

// replaceNewest overwrites the newest entry with a when both share the same
// input and result hash, and reports whether it did.
func (s *HistoryService) replaceNewest(ctx context.Context, a *veracity.Analysis, data []byte, hash string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE analyses SET id = ?, verdict = ?, confidence = ?, result = ?, created_at = ?
		WHERE rowid = (SELECT rowid FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT 1)
		AND result_hash = ? AND source_url = ? AND input_type = ?
	`, a.ID, a.Result.Verdict, a.Result.Confidence, string(data), formatTime(a.CreatedAt),
		hash, a.SourceURL, string(a.InputType))
	if err != nil {
		return false, fmt.Errorf("failed to replace duplicate analysis: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindAnalyses retrieves analyses matching the filter, newest first.
func (s *HistoryService) FindAnalyses(ctx context.Context, filter veracity.AnalysisFilter) ([]*veracity.Analysis, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, input_type, source_url, result, created_at FROM analyses WHERE 1=1")

	if filter.InputType != nil {
		query.WriteString(" AND input_type = ?")
		args = append(args, string(*filter.InputType))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*veracity.Analysis
	for rows.Next() {
		var a veracity.Analysis
		var inputType, result, createdAt string

		if err := rows.Scan(&a.ID, &inputType, &a.SourceURL, &result, &createdAt); err != nil {
			return nil, err
		}
		a.InputType = veracity.InputType(inputType)

		a.Result = &veracity.Result{}
		if err := json.Unmarshal([]byte(result), a.Result); err != nil {
			return nil, fmt.Errorf("failed to decode result: %w", err)
		}
		if a.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}

		analyses = append(analyses, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return analyses, nil
}

// DeleteAnalysis removes one analysis.
func (s *HistoryService) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return veracity.Errorf(veracity.ENOTFOUND, "Analysis not found.")
	}
	return nil
}

// DeleteAnalyses removes every stored analysis.
func (s *HistoryService) DeleteAnalyses(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM analyses")
	return err
}
