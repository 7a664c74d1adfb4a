package mysql

import (
	"context"
	"errors"
	"time"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/upper/db/v4"
)

func (d *MySQLDB) CreateUser(ctx context.Context, req *appDb.CreateUser) (int64, error) {
	res, err := d.sess.SQL().
		InsertInto("users").
		Columns("username", "password_hash").
		Values(req.Username, req.PasswordHash).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (d *MySQLDB) GetUserById(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := d.sess.WithContext(ctx).SQL().
		SelectFrom("users").
		Where("id = ?", id).
		One(&user)
	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *MySQLDB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := d.sess.WithContext(ctx).SQL().
		SelectFrom("users").
		Where("username = ?", username).
		One(&user)
	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *MySQLDB) SetBannedUntil(ctx context.Context, userId int64, until *time.Time) error {
	_, err := d.sess.SQL().
		Update("users").
		Set("banned_until", until).
		Where("id = ?", userId).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) SetTerminated(ctx context.Context, userId int64, terminated bool) error {
	_, err := d.sess.SQL().
		Update("users").
		Set("is_terminated", terminated).
		Where("id = ?", userId).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) SetAdmin(ctx context.Context, userId int64, admin bool) error {
	_, err := d.sess.SQL().
		Update("users").
		Set("is_admin", admin).
		Where("id = ?", userId).
		ExecContext(ctx)
	return err
}

type profileRow struct {
	Id          int64     `db:"id"`
	UserId      int64     `db:"user_id"`
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	Bio         string    `db:"bio"`
	PictureBlob string    `db:"profile_picture_uuid"`
	SocialLinks string    `db:"social_links"`
	IsAdmin     bool      `db:"is_admin"`
	LastOnline  time.Time `db:"last_online"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func buildProfile(row *profileRow) *model.Profile {
	profile := &model.Profile{
		Id:          row.Id,
		UserId:      row.UserId,
		Username:    row.Username,
		DisplayName: row.DisplayName,
		Bio:         row.Bio,
		PictureBlob: row.PictureBlob,
		IsAdmin:     row.IsAdmin,
		LastOnline:  row.LastOnline,
		SocialLinks: []*model.SocialLink{},
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	unmarshalJSON(row.SocialLinks, &profile.SocialLinks)
	return profile
}

func (d *MySQLDB) CreateProfile(ctx context.Context, req *appDb.CreateProfile) error {
	links, err := marshalJSON(req.SocialLinks)
	if err != nil {
		return err
	}
	_, err = d.sess.SQL().
		InsertInto("profiles").
		Columns("user_id", "display_name", "bio", "social_links").
		Values(req.UserId, req.DisplayName, req.Bio, links).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) GetProfile(ctx context.Context, userId int64) (*model.Profile, error) {
	var row profileRow
	err := d.sess.WithContext(ctx).SQL().
		Select(
			"profiles.id", "profiles.user_id", "profiles.display_name",
			"profiles.bio", "profiles.profile_picture_uuid",
			"profiles.social_links", "profiles.last_online",
			"profiles.created_at", "profiles.updated_at",
			"users.username", "users.is_admin",
		).
		From("profiles").
		Join("users").On("users.id = profiles.user_id").
		Where("profiles.user_id = ?", userId).
		One(&row)
	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return buildProfile(&row), nil
}

func (d *MySQLDB) UpdateProfile(ctx context.Context, userId int64, req *appDb.UpdateProfile) error {
	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
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
		Update("profiles").
		Set(updates).
		Where("user_id = ?", userId).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) SetProfilePicture(ctx context.Context, userId int64, blob string) error {
	_, err := d.sess.SQL().
		Update("profiles").
		Set("profile_picture_uuid", blob).
		Where("user_id = ?", userId).
		ExecContext(ctx)
	return err
}

func (d *MySQLDB) GetSocialLinks(ctx context.Context, userId int64) ([]*model.SocialLink, error) {
	profile, err := d.GetProfile(ctx, userId)
	if err != nil || profile == nil {
		return nil, err
	}
	return profile.SocialLinks, nil
}

// SetOnlineStatus persists the activity timestamp so "last seen" survives
// presence-key expiry.
func (d *MySQLDB) SetOnlineStatus(ctx context.Context, userId int64, online bool) error {
	_, err := d.sess.SQL().
		Update("profiles").
		Set(map[string]interface{}{
			"is_online":   online,
			"last_online": time.Now(),
		}).
		Where("user_id = ?", userId).
		ExecContext(ctx)
	return err
}
