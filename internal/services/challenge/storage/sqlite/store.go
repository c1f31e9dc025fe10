// Package sqlite provides a SQLite-backed challenge storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/costar.quest/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
	"github.com/louisbranch/costar.quest/internal/services/challenge/storage"
	"github.com/louisbranch/costar.quest/internal/services/challenge/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
)

// sqliteConstraintUnique is the extended result code for UNIQUE violations.
const sqliteConstraintUnique = 2067

// Store persists challenge state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite challenge store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqliteConstraintUnique {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// PutChallenge inserts one challenge record. A collision with the active
// (day, tier) unique index is surfaced as storage.ErrDuplicate.
func (s *Store) PutChallenge(ctx context.Context, record domain.ChallengeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("challenge id is required")
	}
	if !domain.ValidDay(record.Day) {
		return fmt.Errorf("challenge day is invalid")
	}
	if !record.Tier.Valid() {
		return fmt.Errorf("challenge tier is invalid")
	}
	if !record.Status.Valid() {
		return fmt.Errorf("challenge status is invalid")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO challenges (
		   id, day, tier, status,
		   start_actor_id, start_actor_name, start_actor_image,
		   end_actor_id, end_actor_name, end_actor_image,
		   hints_used, start_hint, end_hint, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Day,
		string(record.Tier),
		string(record.Status),
		record.StartActor.ID,
		record.StartActor.Name,
		record.StartActor.ImagePath,
		record.EndActor.ID,
		record.EndActor.Name,
		record.EndActor.ImagePath,
		record.HintsUsed,
		record.StartHint,
		record.EndHint,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("put challenge: %w", err)
	}
	return nil
}

const challengeColumns = `id, day, tier, status,
	start_actor_id, start_actor_name, start_actor_image,
	end_actor_id, end_actor_name, end_actor_image,
	hints_used, start_hint, end_hint, created_at, updated_at`

func scanChallenge(scanner interface{ Scan(...any) error }) (domain.ChallengeRecord, error) {
	var (
		record    domain.ChallengeRecord
		tier      string
		status    string
		createdAt int64
		updatedAt int64
	)
	err := scanner.Scan(
		&record.ID,
		&record.Day,
		&tier,
		&status,
		&record.StartActor.ID,
		&record.StartActor.Name,
		&record.StartActor.ImagePath,
		&record.EndActor.ID,
		&record.EndActor.Name,
		&record.EndActor.ImagePath,
		&record.HintsUsed,
		&record.StartHint,
		&record.EndHint,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.ChallengeRecord{}, err
	}
	record.Tier = domain.Tier(tier)
	record.Status = domain.RecordStatus(status)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// GetChallenge returns one challenge record by id.
func (s *Store) GetChallenge(ctx context.Context, id string) (domain.ChallengeRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.ChallengeRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.ChallengeRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ChallengeRecord{}, fmt.Errorf("challenge id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE id = ?`,
		id,
	)
	record, err := scanChallenge(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ChallengeRecord{}, storage.ErrNotFound
		}
		return domain.ChallengeRecord{}, fmt.Errorf("get challenge: %w", err)
	}
	return record, nil
}

func (s *Store) listChallenges(ctx context.Context, query string, args ...any) ([]domain.ChallengeRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	var records []domain.ChallengeRecord
	for rows.Next() {
		record, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("list challenges: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return records, nil
}

// ListChallengesByDay returns all records for one day, ordered by tier rank.
func (s *Store) ListChallengesByDay(ctx context.Context, day string) ([]domain.ChallengeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if !domain.ValidDay(day) {
		return nil, fmt.Errorf("challenge day is invalid")
	}
	return s.listChallenges(
		ctx,
		`SELECT `+challengeColumns+` FROM challenges
		 WHERE day = ?
		 ORDER BY CASE tier WHEN 'easy' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END`,
		day,
	)
}

// ListChallengesByStatus returns all records in the given lifecycle status.
func (s *Store) ListChallengesByStatus(ctx context.Context, status domain.RecordStatus) ([]domain.ChallengeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if !status.Valid() {
		return nil, fmt.Errorf("challenge status is invalid")
	}
	return s.listChallenges(
		ctx,
		`SELECT `+challengeColumns+` FROM challenges
		 WHERE status = ?
		 ORDER BY day ASC, CASE tier WHEN 'easy' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END`,
		string(status),
	)
}

// UpdateChallengeStatusDay moves a record to a new day and status.
func (s *Store) UpdateChallengeStatusDay(ctx context.Context, id string, day string, status domain.RecordStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("challenge id is required")
	}
	if !domain.ValidDay(day) {
		return fmt.Errorf("challenge day is invalid")
	}
	if !status.Valid() {
		return fmt.Errorf("challenge status is invalid")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE challenges SET day = ?, status = ?, updated_at = ? WHERE id = ?`,
		day,
		string(status),
		toMillis(time.Now()),
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("update challenge status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update challenge status: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetChallengeHint stores hint content for one side only when none exists.
// Reports whether this call performed the write.
func (s *Store) SetChallengeHint(ctx context.Context, id string, side storage.HintSide, payload string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return false, fmt.Errorf("challenge id is required")
	}
	if !side.Valid() {
		return false, fmt.Errorf("hint side is invalid")
	}
	if payload == "" {
		return false, fmt.Errorf("hint payload is required")
	}

	column := "start_hint"
	if side == storage.HintEnd {
		column = "end_hint"
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE challenges SET `+column+` = ?, updated_at = ?
		 WHERE id = ? AND `+column+` = ''`,
		payload,
		toMillis(time.Now()),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("set challenge hint: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set challenge hint: %w", err)
	}
	return affected > 0, nil
}

// IncrementHintsUsed bumps the raw hint counter for a challenge.
func (s *Store) IncrementHintsUsed(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("challenge id is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE challenges SET hints_used = hints_used + 1, updated_at = ? WHERE id = ?`,
		toMillis(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("increment hints used: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment hints used: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteChallenge removes one challenge record by id.
func (s *Store) DeleteChallenge(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("challenge id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `DELETE FROM challenges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}

// DeleteChallengesByDay removes all records for one day.
func (s *Store) DeleteChallengesByDay(ctx context.Context, day string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if !domain.ValidDay(day) {
		return fmt.Errorf("challenge day is invalid")
	}

	_, err := s.sqlDB.ExecContext(ctx, `DELETE FROM challenges WHERE day = ?`, day)
	if err != nil {
		return fmt.Errorf("delete challenges by day: %w", err)
	}
	return nil
}

// DeleteStaleActive removes active records not dated keepDay.
func (s *Store) DeleteStaleActive(ctx context.Context, keepDay string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if !domain.ValidDay(keepDay) {
		return 0, fmt.Errorf("challenge day is invalid")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM challenges WHERE status = ? AND day != ?`,
		string(domain.StatusActive),
		keepDay,
	)
	if err != nil {
		return 0, fmt.Errorf("delete stale active challenges: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete stale active challenges: %w", err)
	}
	return affected, nil
}

// RecordAttempt inserts one submitted solution attempt.
func (s *Store) RecordAttempt(ctx context.Context, attempt domain.AttemptRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(attempt.ID) == "" {
		return fmt.Errorf("attempt id is required")
	}
	if strings.TrimSpace(attempt.ChallengeID) == "" {
		return fmt.Errorf("attempt challenge id is required")
	}

	connections, err := json.Marshal(attempt.Connections)
	if err != nil {
		return fmt.Errorf("encode attempt connections: %w", err)
	}
	completed := 0
	if attempt.Completed {
		completed = 1
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO attempts (id, challenge_id, move_count, completed, connections, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		attempt.ID,
		attempt.ChallengeID,
		attempt.MoveCount,
		completed,
		string(connections),
		toMillis(attempt.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// ListAttempts returns all attempts for one challenge, oldest first.
func (s *Store) ListAttempts(ctx context.Context, challengeID string) ([]domain.AttemptRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return nil, fmt.Errorf("attempt challenge id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, challenge_id, move_count, completed, connections, created_at
		 FROM attempts
		 WHERE challenge_id = ?
		 ORDER BY created_at ASC, id ASC`,
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.AttemptRecord
	for rows.Next() {
		var (
			attempt     domain.AttemptRecord
			completed   int
			connections string
			createdAt   int64
		)
		if err := rows.Scan(
			&attempt.ID,
			&attempt.ChallengeID,
			&attempt.MoveCount,
			&completed,
			&connections,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list attempts: %w", err)
		}
		if err := json.Unmarshal([]byte(connections), &attempt.Connections); err != nil {
			return nil, fmt.Errorf("decode attempt connections: %w", err)
		}
		attempt.Completed = completed != 0
		attempt.CreatedAt = fromMillis(createdAt)
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

var _ storage.ChallengeStore = (*Store)(nil)
var _ storage.AttemptStore = (*Store)(nil)
