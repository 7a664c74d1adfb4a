package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/afterfrag/afterfrag-be/model"
	"github.com/upper/db/v4"
)

// likeDelta is the adjustment the denormalized counter needs when a user's
// reaction moves from prev (nil for none) to next.
func likeDelta(prev *model.LikeValue, next model.LikeValue) int {
	if prev == nil {
		return int(next)
	}
	return int(next) - int(*prev)
}

// applyLike upserts the user's reaction on likeTable and adjusts the counter
// on targetTable inside the caller's transaction. The existing row is read
// with FOR UPDATE so concurrent reactions serialize on the row lock.
func applyLike(ctx context.Context, tx db.Session, likeTable, targetColumn, targetTable string, targetId, userId int64, value model.LikeValue) error {
	row, err := tx.SQL().QueryRowContext(ctx,
		"SELECT value FROM "+likeTable+" WHERE "+targetColumn+" = ? AND user_id = ? FOR UPDATE",
		targetId, userId)
	if err != nil {
		return err
	}
	var existing int8
	err = row.Scan(&existing)

	var prev *model.LikeValue
	switch {
	case err == nil:
		v := model.LikeValue(existing)
		prev = &v
	case errors.Is(err, sql.ErrNoRows):
	default:
		return err
	}

	if prev != nil && *prev == value {
		return nil
	}

	if prev == nil {
		if _, err := tx.SQL().ExecContext(ctx,
			"INSERT INTO "+likeTable+" ("+targetColumn+", user_id, value) VALUES (?, ?, ?)",
			targetId, userId, int8(value)); err != nil {
			return err
		}
	} else {
		if _, err := tx.SQL().ExecContext(ctx,
			"UPDATE "+likeTable+" SET value = ? WHERE "+targetColumn+" = ? AND user_id = ?",
			int8(value), targetId, userId); err != nil {
			return err
		}
	}

	_, err = tx.SQL().ExecContext(ctx,
		"UPDATE "+targetTable+" SET like_count = like_count + ? WHERE id = ?",
		likeDelta(prev, value), targetId)
	return err
}

// removeLike deletes the user's reaction and backs its value out of the
// counter. No-op when no reaction exists.
func removeLike(ctx context.Context, tx db.Session, likeTable, targetColumn, targetTable string, targetId, userId int64) error {
	row, err := tx.SQL().QueryRowContext(ctx,
		"SELECT value FROM "+likeTable+" WHERE "+targetColumn+" = ? AND user_id = ? FOR UPDATE",
		targetId, userId)
	if err != nil {
		return err
	}
	var existing int8
	err = row.Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := tx.SQL().ExecContext(ctx,
		"DELETE FROM "+likeTable+" WHERE "+targetColumn+" = ? AND user_id = ?",
		targetId, userId); err != nil {
		return err
	}
	_, err = tx.SQL().ExecContext(ctx,
		"UPDATE "+targetTable+" SET like_count = like_count - ? WHERE id = ?",
		existing, targetId)
	return err
}

func (d *MySQLDB) getLike(ctx context.Context, likeTable, targetColumn string, targetId, userId int64) (*model.LikeValue, error) {
	row, err := d.sess.SQL().QueryRowContext(ctx,
		"SELECT value FROM "+likeTable+" WHERE "+targetColumn+" = ? AND user_id = ?",
		targetId, userId)
	if err != nil {
		return nil, err
	}
	var existing int8
	err = row.Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	value := model.LikeValue(existing)
	return &value, nil
}
