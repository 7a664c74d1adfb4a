package mysql

import (
	"context"
	"errors"
	"time"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/upper/db/v4"
)

type communityRow struct {
	Id          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Tags        string    `db:"tags"`
	OwnerId     int64     `db:"owner_id"`
	OwnerName   string    `db:"owner_username"`
	Rules       string    `db:"rules"`
	SocialLinks string    `db:"social_links"`
	BannerBlob  string    `db:"banner_uuid"`
	PictureBlob string    `db:"group_picture_uuid"`
	MemberCount int       `db:"member_count"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func buildCommunity(row *communityRow) *model.Community {
	community := &model.Community{
		Id:          row.Id,
		Name:        row.Name,
		Description: row.Description,
		Tags:        unmarshalStrings(row.Tags),
		OwnerId:     row.OwnerId,
		OwnerName:   row.OwnerName,
		Rules:       unmarshalStrings(row.Rules),
		SocialLinks: []*model.SocialLink{},
		BannerBlob:  row.BannerBlob,
		PictureBlob: row.PictureBlob,
		MemberCount: row.MemberCount,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	unmarshalJSON(row.SocialLinks, &community.SocialLinks)
	return community
}

func buildCommunities(rows []*communityRow) []*model.Community {
	communities := make([]*model.Community, len(rows))
	for i, row := range rows {
		communities[i] = buildCommunity(row)
	}
	return communities
}

var communityColumns = []interface{}{
	"communities.id", "communities.name", "communities.description",
	"communities.tags", "communities.owner_id", "communities.rules",
	"communities.social_links", "communities.banner_uuid",
	"communities.group_picture_uuid", "communities.created_at",
	"communities.updated_at",
	db.Raw("users.username AS owner_username"),
	db.Raw(`(SELECT COUNT(*) FROM community_members m
		WHERE m.community_id = communities.id) AS member_count`),
}

func (d *MySQLDB) communitySelect(ctx context.Context) db.Selector {
	return d.sess.WithContext(ctx).SQL().
		Select(communityColumns...).
		From("communities").
		Join("users").On("users.id = communities.owner_id")
}

func (d *MySQLDB) CreateCommunity(ctx context.Context, req *appDb.CreateCommunity) (int64, error) {
	tags, err := marshalJSON(req.Tags)
	if err != nil {
		return 0, err
	}
	rules, err := marshalJSON(req.Rules)
	if err != nil {
		return 0, err
	}
	links, err := marshalJSON(req.SocialLinks)
	if err != nil {
		return 0, err
	}

	var communityId int64
	err = d.sess.TxContext(ctx, func(tx db.Session) error {
		res, err := tx.SQL().
			InsertInto("communities").
			Columns("name", "description", "tags", "owner_id", "rules", "social_links").
			Values(req.Name, req.Description, tags, req.OwnerId, rules, links).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		communityId, err = res.LastInsertId()
		if err != nil {
			return err
		}
		_, err = tx.SQL().
			InsertInto("community_members").
			Columns("community_id", "user_id", "role").
			Values(communityId, req.OwnerId, model.RoleOwner).
			ExecContext(ctx)
		return err
	}, nil)
	if err != nil {
		return 0, err
	}
	return communityId, nil
}

func (d *MySQLDB) GetCommunityById(ctx context.Context, id int64) (*model.Community, error) {
	var row communityRow
	err := d.communitySelect(ctx).Where("communities.id = ?", id).One(&row)
	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return buildCommunity(&row), nil
}

func (d *MySQLDB) GetCommunityByName(ctx context.Context, name string) (*model.Community, error) {
	var row communityRow
	err := d.communitySelect(ctx).Where("LOWER(communities.name) = LOWER(?)", name).One(&row)
	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return buildCommunity(&row), nil
}

func (d *MySQLDB) GetAllCommunities(ctx context.Context) ([]*model.Community, error) {
	var rows []*communityRow
	if err := d.communitySelect(ctx).All(&rows); err != nil {
		return nil, err
	}
	return buildCommunities(rows), nil
}

func (d *MySQLDB) GetCommunities(ctx context.Context, query *appDb.CommunitiesListQuery) ([]*model.Community, error) {
	selector := d.communitySelect(ctx)
	if query.Search != "" {
		selector = selector.Where("communities.name LIKE ?", "%"+query.Search+"%")
	}
	if query.Tag != "" {
		selector = selector.And("JSON_CONTAINS(communities.tags, JSON_QUOTE(?))", query.Tag)
	}
	selector = selector.OrderBy("communities.created_at DESC")
	if query.Limit > 0 {
		selector = selector.Limit(query.Limit).Offset(query.Offset)
	}
	var rows []*communityRow
	if err := selector.All(&rows); err != nil {
		return nil, err
	}
	return buildCommunities(rows), nil
}

func (d *MySQLDB) GetTrendingCommunities(ctx context.Context, limit, offset int) ([]*model.Community, error) {
	var rows []*communityRow
	err := d.communitySelect(ctx).
		OrderBy("member_count DESC", "communities.updated_at DESC").
		Limit(limit).
		Offset(offset).
		All(&rows)
	if err != nil {
		return nil, err
	}
	return buildCommunities(rows), nil
}

func (d *MySQLDB) GetCommunitiesForUser(ctx context.Context, userId int64) ([]*model.Community, error) {
	var rows []*communityRow
	err := d.communitySelect(ctx).
		Join("community_members").On("community_members.community_id = communities.id").
		Where("community_members.user_id = ?", userId).
		OrderBy("community_members.created_at DESC").
		All(&rows)
	if err != nil {
		return nil, err
	}
	return buildCommunities(rows), nil
}

func (d *MySQLDB) UpdateCommunity(ctx context.Context, id int64, req *appDb.UpdateCommunity) error {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Tags != nil {
		tags, err := marshalJSON(req.Tags)
		if err != nil {
			return err
		}
		updates["tags"] = tags
	}
	if req.Rules != nil {
		rules, err := marshalJSON(req.Rules)
		if err != nil {
			return err
		}
		updates["rules"] = rules
	}
	if req.SocialLinks != nil {
		links, err := marshalJSON(req.SocialLinks)
		if err != nil {
			return err
		}
		updates["social_links"] = links
	}
	if len(updates) == 0 {
		return nil
	}
	_, err := d.sess.SQL().
		Update("communities").
		Set(updates).
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

// DeleteCommunity relies on ON DELETE CASCADE for memberships, posts, post
// tags and their dependents.
func (d *MySQLDB) DeleteCommunity(ctx context.Context, id int64) error {
	_, err := d.sess.SQL().
		DeleteFrom("communities").
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) SetCommunityBanner(ctx context.Context, id int64, blob string) error {
	_, err := d.sess.SQL().
		Update("communities").
		Set("banner_uuid", blob).
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) SetCommunityPicture(ctx context.Context, id int64, blob string) error {
	_, err := d.sess.SQL().
		Update("communities").
		Set("group_picture_uuid", blob).
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) GetMemberRole(ctx context.Context, communityId, userId int64) (model.Role, error) {
	var row struct {
		Role model.Role `db:"role"`
	}
	err := d.sess.WithContext(ctx).SQL().
		Select("role").
		From("community_members").
		Where("community_id = ? AND user_id = ?", communityId, userId).
		One(&row)
	if errors.Is(err, db.ErrNoMoreRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Role, nil
}

func (d *MySQLDB) AddMember(ctx context.Context, communityId, userId int64, role model.Role) error {
	_, err := d.sess.SQL().
		InsertInto("community_members").
		Columns("community_id", "user_id", "role").
		Values(communityId, userId, role).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) RemoveMember(ctx context.Context, communityId, userId int64) error {
	_, err := d.sess.SQL().
		DeleteFrom("community_members").
		Where("community_id = ? AND user_id = ?", communityId, userId).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) UpdateMemberRole(ctx context.Context, communityId, userId int64, role model.Role) error {
	_, err := d.sess.SQL().
		Update("community_members").
		Set("role", role).
		Where("community_id = ? AND user_id = ?", communityId, userId).
		ExecContext(ctx)
	return err
}

type memberRow struct {
	UserId      int64      `db:"user_id"`
	Username    string     `db:"username"`
	DisplayName string     `db:"display_name"`
	Role        model.Role `db:"role"`
	JoinedAt    time.Time  `db:"joined_at"`
	PictureBlob string     `db:"profile_picture_uuid"`
}

func (d *MySQLDB) GetStaffMembers(ctx context.Context, communityId int64) ([]*model.CommunityMember, error) {
	var rows []*memberRow
	err := d.sess.WithContext(ctx).SQL().
		Select(
			"community_members.user_id", "community_members.role",
			db.Raw("community_members.created_at AS joined_at"),
			"users.username",
			"profiles.display_name", "profiles.profile_picture_uuid",
		).
		From("community_members").
		Join("users").On("users.id = community_members.user_id").
		Join("profiles").On("profiles.user_id = community_members.user_id").
		Where("community_members.community_id = ? AND community_members.role IN ?",
			communityId, []model.Role{model.RoleOwner, model.RoleModerator}).
		OrderBy("community_members.created_at").
		All(&rows)
	if err != nil {
		return nil, err
	}
	members := make([]*model.CommunityMember, len(rows))
	for i, row := range rows {
		members[i] = &model.CommunityMember{
			UserId:      row.UserId,
			Username:    row.Username,
			DisplayName: row.DisplayName,
			Role:        row.Role,
			JoinedAt:    row.JoinedAt,
			PictureBlob: row.PictureBlob,
		}
	}
	return members, nil
}

func (d *MySQLDB) GetMemberCount(ctx context.Context, communityId int64) (int, error) {
	row, err := d.sess.SQL().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM community_members WHERE community_id = ?", communityId)
	if err != nil {
		return 0, err
	}
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (d *MySQLDB) GetMemberIds(ctx context.Context, communityId int64) ([]int64, error) {
	rows, err := d.sess.SQL().QueryContext(ctx,
		"SELECT user_id FROM community_members WHERE community_id = ?", communityId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (d *MySQLDB) CreatePostTag(ctx context.Context, communityId int64, name, color string) (int64, error) {
	res, err := d.sess.SQL().
		InsertInto("post_tags").
		Columns("community_id", "name", "color").
		Values(communityId, name, color).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (d *MySQLDB) GetPostTags(ctx context.Context, communityId int64) ([]*model.PostTag, error) {
	var tags []*model.PostTag
	err := d.sess.WithContext(ctx).SQL().
		SelectFrom("post_tags").
		Where("community_id = ?", communityId).
		OrderBy("id").
		All(&tags)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (d *MySQLDB) GetPostTagIds(ctx context.Context, communityId int64) ([]int64, error) {
	rows, err := d.sess.SQL().QueryContext(ctx,
		"SELECT id FROM post_tags WHERE community_id = ?", communityId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (d *MySQLDB) UpdatePostTag(ctx context.Context, communityId, tagId int64, name, color *string) (*model.PostTag, error) {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if color != nil {
		updates["color"] = *color
	}
	if len(updates) > 0 {
		_, err := d.sess.SQL().
			Update("post_tags").
			Set(updates).
			Where("id = ? AND community_id = ?", tagId, communityId).
			ExecContext(ctx)
		if err != nil {
			return nil, err
		}
	}
	var tag model.PostTag
	err := d.sess.WithContext(ctx).SQL().
		SelectFrom("post_tags").
		Where("id = ? AND community_id = ?", tagId, communityId).
		One(&tag)
	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (d *MySQLDB) DeletePostTag(ctx context.Context, communityId, tagId int64) error {
	return d.sess.TxContext(ctx, func(tx db.Session) error {
		if _, err := tx.SQL().ExecContext(ctx,
			"DELETE FROM post_post_tags WHERE tag_id = ?", tagId); err != nil {
			return err
		}
		_, err := tx.SQL().
			DeleteFrom("post_tags").
			Where("id = ? AND community_id = ?", tagId, communityId).
			ExecContext(ctx)
		return err
	}, nil)
}
