package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/upper/db/v4"
)

type postRow struct {
	Id          int64  `db:"id"`
	CommunityId int64  `db:"community_id"`
	Title       string `db:"title"`
	Content     string `db:"content"`
	TopicTags   string `db:"topic_tags"`
	Media       string `db:"media"`
	LikeCount   int    `db:"like_count"`
	ViewCount   int    `db:"view_count"`

	AuthorId          int64  `db:"user_id"`
	AuthorUsername    string `db:"author_username"`
	AuthorDisplayName string `db:"author_display_name"`
	AuthorPicture     string `db:"author_picture_uuid"`

	CommunityName    string `db:"community_name"`
	CommunityPicture string `db:"community_picture_uuid"`

	CommentCount int `db:"comment_count"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func buildPost(row *postRow) *model.Post {
	post := &model.Post{
		Id:          row.Id,
		CommunityId: row.CommunityId,
		Title:       row.Title,
		Content:     row.Content,
		TopicTags:   unmarshalStrings(row.TopicTags),
		PostTags:    []*model.PostTag{},
		Author: &model.Author{
			Id:          row.AuthorId,
			Username:    row.AuthorUsername,
			DisplayName: row.AuthorDisplayName,
			PictureBlob: row.AuthorPicture,
		},
		Media:         []*model.Media{},
		LikeCount:     row.LikeCount,
		ViewCount:     row.ViewCount,
		CommentCount:  row.CommentCount,
		CommunityName: row.CommunityName,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	unmarshalJSON(row.Media, &post.Media)
	post.CommunityPictureBlob = row.CommunityPicture
	return post
}

var postColumns = []interface{}{
	"posts.id", "posts.community_id", "posts.title", "posts.content",
	"posts.topic_tags", "posts.media", "posts.like_count", "posts.view_count",
	"posts.user_id", "posts.created_at", "posts.updated_at",
	db.Raw("users.username AS author_username"),
	db.Raw("profiles.display_name AS author_display_name"),
	db.Raw("profiles.profile_picture_uuid AS author_picture_uuid"),
	db.Raw("communities.name AS community_name"),
	db.Raw("communities.group_picture_uuid AS community_picture_uuid"),
	db.Raw(`(SELECT COUNT(*) FROM comments c
		WHERE c.post_id = posts.id) AS comment_count`),
}

func (d *MySQLDB) postSelect(ctx context.Context) db.Selector {
	return d.sess.WithContext(ctx).SQL().
		Select(postColumns...).
		From("posts").
		Join("users").On("users.id = posts.user_id").
		Join("profiles").On("profiles.user_id = posts.user_id").
		Join("communities").On("communities.id = posts.community_id")
}

// attachPostTags loads the community tags of every listed post in one query
// and fans them out.
func (d *MySQLDB) attachPostTags(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	byId := make(map[int64]*model.Post, len(posts))
	ids := make([]int64, len(posts))
	for i, post := range posts {
		byId[post.Id] = post
		ids[i] = post.Id
	}

	var rows []*struct {
		PostId int64  `db:"post_id"`
		Id     int64  `db:"id"`
		CommId int64  `db:"community_id"`
		Name   string `db:"name"`
		Color  string `db:"color"`
	}
	err := d.sess.WithContext(ctx).SQL().
		Select("post_post_tags.post_id", "post_tags.id",
			"post_tags.community_id", "post_tags.name", "post_tags.color").
		From("post_post_tags").
		Join("post_tags").On("post_tags.id = post_post_tags.tag_id").
		Where("post_post_tags.post_id IN ?", ids).
		OrderBy("post_tags.id").
		All(&rows)
	if err != nil {
		return err
	}
	for _, row := range rows {
		post := byId[row.PostId]
		if post == nil {
			continue
		}
		post.PostTags = append(post.PostTags, &model.PostTag{
			Id:          row.Id,
			CommunityId: row.CommId,
			Name:        row.Name,
			Color:       row.Color,
		})
	}
	return nil
}

func (d *MySQLDB) buildPosts(ctx context.Context, rows []*postRow) ([]*model.Post, error) {
	posts := make([]*model.Post, len(rows))
	for i, row := range rows {
		posts[i] = buildPost(row)
	}
	if err := d.attachPostTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (d *MySQLDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (int64, error) {
	topicTags, err := marshalJSON(req.TopicTags)
	if err != nil {
		return 0, err
	}
	media, err := marshalJSON(req.Media)
	if err != nil {
		return 0, err
	}

	var postId int64
	err = d.sess.TxContext(ctx, func(tx db.Session) error {
		res, err := tx.SQL().
			InsertInto("posts").
			Columns("community_id", "user_id", "title", "content", "topic_tags", "media").
			Values(req.CommunityId, req.AuthorId, req.Title, req.Content, topicTags, media).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		postId, err = res.LastInsertId()
		if err != nil {
			return err
		}
		for _, tagId := range req.PostTagIds {
			if _, err := tx.SQL().
				InsertInto("post_post_tags").
				Columns("post_id", "tag_id").
				Values(postId, tagId).
				ExecContext(ctx); err != nil {
				return err
			}
		}
		return nil
	}, nil)
	if err != nil {
		return 0, err
	}
	return postId, nil
}

func (d *MySQLDB) GetPostById(ctx context.Context, id int64) (*model.Post, error) {
	var row postRow
	err := d.postSelect(ctx).Where("posts.id = ?", id).One(&row)
	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	post := buildPost(&row)
	if err := d.attachPostTags(ctx, []*model.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (d *MySQLDB) GetPostsByCommunity(ctx context.Context, query *appDb.CommunityPostsQuery) ([]*model.Post, error) {
	selector := d.postSelect(ctx).Where("posts.community_id = ?", query.CommunityId)
	if query.TagId != 0 {
		selector = selector.And(db.Raw(
			"EXISTS (SELECT 1 FROM post_post_tags pt WHERE pt.post_id = posts.id AND pt.tag_id = ?)",
			query.TagId))
	}
	switch query.Sort {
	case appDb.PostSortMostLiked:
		selector = selector.OrderBy("posts.like_count DESC", "posts.created_at DESC")
	case appDb.PostSortHottest:
		selector = selector.OrderBy("posts.view_count DESC", "posts.created_at DESC")
	default:
		selector = selector.OrderBy("posts.created_at DESC")
	}
	if query.Limit > 0 {
		selector = selector.Limit(query.Limit).Offset(query.Offset)
	}

	var rows []*postRow
	if err := selector.All(&rows); err != nil {
		return nil, err
	}
	return d.buildPosts(ctx, rows)
}

func (d *MySQLDB) GetPostsByUser(ctx context.Context, userId int64) ([]*model.Post, error) {
	var rows []*postRow
	err := d.postSelect(ctx).
		Where("posts.user_id = ?", userId).
		OrderBy("posts.created_at DESC").
		All(&rows)
	if err != nil {
		return nil, err
	}
	return d.buildPosts(ctx, rows)
}

func (d *MySQLDB) GetPostsExcludingUser(ctx context.Context, userId int64) ([]*model.Post, error) {
	var rows []*postRow
	err := d.postSelect(ctx).
		Where("posts.user_id <> ?", userId).
		All(&rows)
	if err != nil {
		return nil, err
	}
	return d.buildPosts(ctx, rows)
}

func (d *MySQLDB) GetTrendingPostsExcludingUser(ctx context.Context, userId int64, limit int) ([]*model.Post, error) {
	var rows []*postRow
	err := d.postSelect(ctx).
		Where("posts.user_id <> ?", userId).
		OrderBy("posts.like_count DESC", "posts.created_at DESC").
		Limit(limit).
		All(&rows)
	if err != nil {
		return nil, err
	}
	return d.buildPosts(ctx, rows)
}

func (d *MySQLDB) UpdatePost(ctx context.Context, id int64, req *appDb.UpdatePost) error {
	return d.sess.TxContext(ctx, func(tx db.Session) error {
		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
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
		if len(updates) > 0 {
			if _, err := tx.SQL().
				Update("posts").
				Set(updates).
				Where("id = ?", id).
				ExecContext(ctx); err != nil {
				return err
			}
		}
		if req.PostTagIds != nil {
			if _, err := tx.SQL().ExecContext(ctx,
				"DELETE FROM post_post_tags WHERE post_id = ?", id); err != nil {
				return err
			}
			for _, tagId := range req.PostTagIds {
				if _, err := tx.SQL().
					InsertInto("post_post_tags").
					Columns("post_id", "tag_id").
					Values(id, tagId).
					ExecContext(ctx); err != nil {
					return err
				}
			}
		}
		return nil
	}, nil)
}

func (d *MySQLDB) DeletePost(ctx context.Context, id int64) error {
	_, err := d.sess.SQL().
		DeleteFrom("posts").
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) LikePost(ctx context.Context, postId, userId int64, value model.LikeValue) error {
	return d.sess.TxContext(ctx, func(tx db.Session) error {
		return applyLike(ctx, tx, "post_likes", "post_id", "posts", postId, userId, value)
	}, nil)
}

func (d *MySQLDB) UnlikePost(ctx context.Context, postId, userId int64) error {
	return d.sess.TxContext(ctx, func(tx db.Session) error {
		return removeLike(ctx, tx, "post_likes", "post_id", "posts", postId, userId)
	}, nil)
}

func (d *MySQLDB) GetPostLike(ctx context.Context, postId, userId int64) (*model.LikeValue, error) {
	return d.getLike(ctx, "post_likes", "post_id", postId, userId)
}

// viewDedupWindow is how long a viewer must wait before the same post counts
// another view from them.
const viewDedupWindow = 10 * time.Minute

func (d *MySQLDB) RecordPostView(ctx context.Context, postId, userId int64, ip string) (bool, error) {
	viewerKey := ip
	if userId != 0 {
		viewerKey = viewerKeyForUser(userId)
	}

	counted := false
	err := d.sess.TxContext(ctx, func(tx db.Session) error {
		row, err := tx.SQL().QueryRowContext(ctx,
			`SELECT viewed_at FROM post_views
			 WHERE post_id = ? AND viewer_key = ?
			 ORDER BY viewed_at DESC LIMIT 1 FOR UPDATE`,
			postId, viewerKey)
		if err != nil {
			return err
		}
		var lastViewed time.Time
		err = row.Scan(&lastViewed)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil && time.Since(lastViewed) < viewDedupWindow {
			return nil
		}

		if _, err := tx.SQL().ExecContext(ctx,
			"INSERT INTO post_views (post_id, viewer_key, viewed_at) VALUES (?, ?, ?)",
			postId, viewerKey, time.Now()); err != nil {
			return err
		}
		if _, err := tx.SQL().ExecContext(ctx,
			"UPDATE posts SET view_count = view_count + 1 WHERE id = ?", postId); err != nil {
			return err
		}
		counted = true
		return nil
	}, nil)
	return counted, err
}

func viewerKeyForUser(userId int64) string {
	return "user:" + strconv.FormatInt(userId, 10)
}
