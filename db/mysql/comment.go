package mysql

import (
	"context"
	"errors"
	"time"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/upper/db/v4"
)

type commentRow struct {
	Id        int64  `db:"id"`
	PostId    int64  `db:"post_id"`
	ParentId  *int64 `db:"parent_id"`
	Content   string `db:"content"`
	Media     string `db:"media"`
	LikeCount int    `db:"like_count"`

	AuthorId          int64  `db:"user_id"`
	AuthorUsername    string `db:"author_username"`
	AuthorDisplayName string `db:"author_display_name"`
	AuthorPicture     string `db:"author_picture_uuid"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func buildComment(row *commentRow) *model.Comment {
	comment := &model.Comment{
		Id:       row.Id,
		PostId:   row.PostId,
		ParentId: row.ParentId,
		Content:  row.Content,
		Author: &model.Author{
			Id:          row.AuthorId,
			Username:    row.AuthorUsername,
			DisplayName: row.AuthorDisplayName,
			PictureBlob: row.AuthorPicture,
		},
		Media:     []*model.Media{},
		LikeCount: row.LikeCount,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	unmarshalJSON(row.Media, &comment.Media)
	return comment
}

var commentColumns = []interface{}{
	"comments.id", "comments.post_id", "comments.parent_id",
	"comments.content", "comments.media", "comments.like_count",
	"comments.user_id", "comments.created_at", "comments.updated_at",
	db.Raw("users.username AS author_username"),
	db.Raw("profiles.display_name AS author_display_name"),
	db.Raw("profiles.profile_picture_uuid AS author_picture_uuid"),
}

func (d *MySQLDB) commentSelect(ctx context.Context) db.Selector {
	return d.sess.WithContext(ctx).SQL().
		Select(commentColumns...).
		From("comments").
		Join("users").On("users.id = comments.user_id").
		Join("profiles").On("profiles.user_id = comments.user_id")
}

func (d *MySQLDB) CreateComment(ctx context.Context, req *appDb.CreateComment) (int64, error) {
	media, err := marshalJSON(req.Media)
	if err != nil {
		return 0, err
	}
	res, err := d.sess.SQL().
		InsertInto("comments").
		Columns("post_id", "user_id", "parent_id", "content", "media").
		Values(req.PostId, req.AuthorId, req.ParentId, req.Content, media).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (d *MySQLDB) GetCommentById(ctx context.Context, id int64) (*model.Comment, error) {
	var row commentRow
	err := d.commentSelect(ctx).Where("comments.id = ?", id).One(&row)
	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return buildComment(&row), nil
}

func (d *MySQLDB) GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error) {
	var rows []*commentRow
	err := d.commentSelect(ctx).
		Where("comments.post_id = ?", postId).
		OrderBy("comments.created_at", "comments.id").
		All(&rows)
	if err != nil {
		return nil, err
	}
	comments := make([]*model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = buildComment(row)
	}
	return comments, nil
}

func (d *MySQLDB) GetCommentsByUser(ctx context.Context, userId int64) ([]*model.Comment, error) {
	var rows []*commentRow
	err := d.commentSelect(ctx).
		Where("comments.user_id = ?", userId).
		OrderBy("comments.created_at DESC").
		All(&rows)
	if err != nil {
		return nil, err
	}
	comments := make([]*model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = buildComment(row)
	}
	return comments, nil
}

func (d *MySQLDB) GetCommentCount(ctx context.Context, postId int64) (int, error) {
	row, err := d.sess.SQL().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM comments WHERE post_id = ?", postId)
	if err != nil {
		return 0, err
	}
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (d *MySQLDB) UpdateComment(ctx context.Context, id int64, req *appDb.UpdateComment) error {
	updates := map[string]interface{}{}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Media != nil {
		media, err := marshalJSON(req.Media)
		if err != nil {
			return err
		}
		updates["media"] = media
	}
	if len(updates) == 0 {
		return nil
	}
	_, err := d.sess.SQL().
		Update("comments").
		Set(updates).
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

// DeleteComment removes the comment; replies survive and reparent to the
// root of the thread at read time.
func (d *MySQLDB) DeleteComment(ctx context.Context, id int64) error {
	_, err := d.sess.SQL().
		DeleteFrom("comments").
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) LikeComment(ctx context.Context, commentId, userId int64, value model.LikeValue) error {
	return d.sess.TxContext(ctx, func(tx db.Session) error {
		return applyLike(ctx, tx, "comment_likes", "comment_id", "comments", commentId, userId, value)
	}, nil)
}

func (d *MySQLDB) UnlikeComment(ctx context.Context, commentId, userId int64) error {
	return d.sess.TxContext(ctx, func(tx db.Session) error {
		return removeLike(ctx, tx, "comment_likes", "comment_id", "comments", commentId, userId)
	}, nil)
}

func (d *MySQLDB) GetCommentLike(ctx context.Context, commentId, userId int64) (*model.LikeValue, error) {
	return d.getLike(ctx, "comment_likes", "comment_id", commentId, userId)
}
