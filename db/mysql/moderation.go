package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/upper/db/v4"
)

const removedContentPlaceholder = "This content has been removed for violating community guidelines."

// ModerateContent blanks the body and media of a post or comment, records
// the action, and returns the content owner's id so the caller can follow up
// with account measures.
func (d *MySQLDB) ModerateContent(ctx context.Context, adminId int64, contentType string, contentId int64, reason, note string) (int64, error) {
	var table string
	switch contentType {
	case "post", "comment":
		table = contentType + "s"
	default:
		return 0, fmt.Errorf("unknown content type %q", contentType)
	}

	var ownerId int64
	err := d.sess.TxContext(ctx, func(tx db.Session) error {
		row, err := tx.SQL().QueryRowContext(ctx,
			"SELECT user_id FROM "+table+" WHERE id = ? FOR UPDATE", contentId)
		if err != nil {
			return err
		}
		err = row.Scan(&ownerId)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s %d does not exist", contentType, contentId)
		}
		if err != nil {
			return err
		}

		if _, err := tx.SQL().ExecContext(ctx,
			"UPDATE "+table+" SET content = ?, media = '[]' WHERE id = ?",
			removedContentPlaceholder, contentId); err != nil {
			return err
		}

		_, err = tx.SQL().
			InsertInto("moderation_actions").
			Columns("user_id", "admin_id", "content_type", "content_id", "action", "reason", "admin_note").
			Values(ownerId, adminId, contentType, contentId, "remove_content", reason, note).
			ExecContext(ctx)
		return err
	}, nil)
	if err != nil {
		return 0, err
	}
	return ownerId, nil
}

func (d *MySQLDB) RecordModerationAction(ctx context.Context, req *appDb.CreateModerationAction) error {
	_, err := d.sess.SQL().
		InsertInto("moderation_actions").
		Columns("user_id", "admin_id", "content_type", "content_id", "action", "reason", "admin_note").
		Values(req.UserId, req.AdminId, req.ContentType, req.ContentId, req.Action, req.Reason, req.AdminNote).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) GetModerationActions(ctx context.Context, userId int64) ([]*model.ModerationAction, error) {
	var actions []*model.ModerationAction
	err := d.sess.WithContext(ctx).SQL().
		SelectFrom("moderation_actions").
		Where("user_id = ?", userId).
		OrderBy("created_at DESC").
		All(&actions)
	if err != nil {
		return nil, err
	}
	return actions, nil
}
