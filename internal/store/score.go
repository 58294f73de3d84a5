package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var attemptSelectColumns = []string{
	"id", "user_id", "game_id", "category", "difficulty", "score",
	"total_questions", "correct_answers", "time_taken", "created_at",
}

// scoreRepo implements ScoreRepo on game_attempts and game_bests.
type scoreRepo struct {
	db *sql.DB
}

func (r *scoreRepo) Record(ctx context.Context, a Attempt) (RecordResult, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = a.CreatedAt.UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return RecordResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args := builder().Insert(AttemptsTable.Name).
		Columns(attemptSelectColumns...).
		Values(a.ID, a.UserID, a.GameID, a.Category, a.Difficulty, a.Score,
			a.TotalQuestions, a.CorrectAnswers, a.TimeTaken, a.CreatedAt.UnixMilli()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return RecordResult{}, fmt.Errorf("insert attempt: %w", err)
	}

	best, found, err := lookupBest(ctx, tx, a.UserID, a.GameID)
	if err != nil {
		return RecordResult{}, err
	}

	now := time.Now().UTC()
	res := RecordResult{Attempt: a}
	if !found {
		best = Best{
			UserID:     a.UserID,
			GameID:     a.GameID,
			BestScore:  a.Score,
			Attempts:   1,
			LastPlayed: a.CreatedAt,
			UpdatedAt:  now,
		}
		query, args = builder().Insert(BestsTable.Name).
			Columns("user_id", "game_id", "best_score", "attempts", "last_played", "updated_at").
			Values(best.UserID, best.GameID, best.BestScore, best.Attempts,
				best.LastPlayed.UnixMilli(), best.UpdatedAt.UnixMilli()).
			Query()
		res.IsNewBest = true
	} else {
		best.Attempts++
		best.LastPlayed = a.CreatedAt
		best.UpdatedAt = now
		if a.Score > best.BestScore {
			best.BestScore = a.Score
			res.IsNewBest = true
		}
		query, args = builder().Update(BestsTable.Name).
			Set("best_score", best.BestScore).
			Set("attempts", best.Attempts).
			Set("last_played", best.LastPlayed.UnixMilli()).
			Set("updated_at", best.UpdatedAt.UnixMilli()).
			Where(entsql.And(entsql.EQ("user_id", a.UserID), entsql.EQ("game_id", a.GameID))).
			Query()
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return RecordResult{}, fmt.Errorf("upsert best: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return RecordResult{}, fmt.Errorf("commit: %w", err)
	}
	res.Best = best
	return res, nil
}

func lookupBest(ctx context.Context, tx *sql.Tx, userID, gameID string) (Best, bool, error) {
	query, args := builder().Select("best_score", "attempts", "last_played", "updated_at").
		From(entsql.Table(BestsTable.Name)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("game_id", gameID))).
		Query()

	b := Best{UserID: userID, GameID: gameID}
	var last, updated int64
	err := tx.QueryRowContext(ctx, query, args...).Scan(&b.BestScore, &b.Attempts, &last, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Best{}, false, nil
	}
	if err != nil {
		return Best{}, false, fmt.Errorf("query best: %w", err)
	}
	b.LastPlayed = time.UnixMilli(last).UTC()
	b.UpdatedAt = time.UnixMilli(updated).UTC()
	return b, true, nil
}

func attemptPredicates(userID string, f AttemptFilter) *entsql.Predicate {
	preds := []*entsql.Predicate{entsql.EQ("user_id", userID)}
	if f.GameID != "" {
		preds = append(preds, entsql.EQ("game_id", f.GameID))
	}
	if f.Category != "" {
		preds = append(preds, entsql.EQ("category", f.Category))
	}
	if f.Difficulty != "" {
		preds = append(preds, entsql.EQ("difficulty", f.Difficulty))
	}
	if !f.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", f.From.UnixMilli()))
	}
	if !f.To.IsZero() {
		preds = append(preds, entsql.LTE("created_at", f.To.UnixMilli()))
	}
	return entsql.And(preds...)
}

func (r *scoreRepo) Attempts(ctx context.Context, userID string, f AttemptFilter) ([]Attempt, error) {
	sel := builder().Select(attemptSelectColumns...).
		From(entsql.Table(AttemptsTable.Name)).
		Where(attemptPredicates(userID, f)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	if f.Limit > 0 {
		sel.Limit(f.Limit)
		if f.Offset > 0 {
			sel.Offset(f.Offset)
		}
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a       Attempt
			created int64
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.GameID, &a.Category, &a.Difficulty, &a.Score,
			&a.TotalQuestions, &a.CorrectAnswers, &a.TimeTaken, &created); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *scoreRepo) CountAttempts(ctx context.Context, userID string, f AttemptFilter) (int, error) {
	query, args := builder().Select(entsql.Count("*")).
		From(entsql.Table(AttemptsTable.Name)).
		Where(attemptPredicates(userID, f)).
		Query()
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}

func (r *scoreRepo) Bests(ctx context.Context, userID string) ([]Best, error) {
	query, args := builder().Select("user_id", "game_id", "best_score", "attempts", "last_played", "updated_at").
		From(entsql.Table(BestsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("game_id").
		Query()
	return r.queryBests(ctx, query, args)
}

func (r *scoreRepo) TopBests(ctx context.Context, gameID string, limit int) ([]Best, error) {
	sel := builder().Select("user_id", "game_id", "best_score", "attempts", "last_played", "updated_at").
		From(entsql.Table(BestsTable.Name)).
		Where(entsql.EQ("game_id", gameID)).
		OrderBy(entsql.Desc("best_score"), "last_played")
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()
	return r.queryBests(ctx, query, args)
}

func (r *scoreRepo) queryBests(ctx context.Context, query string, args []any) ([]Best, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bests: %w", err)
	}
	defer rows.Close()

	var out []Best
	for rows.Next() {
		var (
			b             Best
			last, updated int64
		)
		if err := rows.Scan(&b.UserID, &b.GameID, &b.BestScore, &b.Attempts, &last, &updated); err != nil {
			return nil, fmt.Errorf("scan best: %w", err)
		}
		b.LastPlayed = time.UnixMilli(last).UTC()
		b.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}
