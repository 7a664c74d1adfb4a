package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/afterfrag/afterfrag-be/model"
)

type Database interface {
	UserDatabase
	TopicDatabase
	CommunityDatabase
	PostDatabase
	CommentDatabase
	ModerationDatabase
	GetSQLDB() *sql.DB
	Close() error
}

type CreateUser struct {
	Username     string
	PasswordHash string
}

type CreateProfile struct {
	UserId      int64
	DisplayName string
	Bio         string
	SocialLinks []*model.SocialLink
}

type UpdateProfile struct {
	DisplayName *string
	Bio         *string
	SocialLinks []*model.SocialLink // nil means leave untouched
}

type UserDatabase interface {
	CreateUser(ctx context.Context, req *CreateUser) (userId int64, err error)
	GetUserById(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	SetBannedUntil(ctx context.Context, userId int64, until *time.Time) error
	SetTerminated(ctx context.Context, userId int64, terminated bool) error
	SetAdmin(ctx context.Context, userId int64, admin bool) error

	CreateProfile(ctx context.Context, req *CreateProfile) error
	GetProfile(ctx context.Context, userId int64) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userId int64, req *UpdateProfile) error
	SetProfilePicture(ctx context.Context, userId int64, blob string) error
	GetSocialLinks(ctx context.Context, userId int64) ([]*model.SocialLink, error)
	SetOnlineStatus(ctx context.Context, userId int64, online bool) error
}

type TopicDatabase interface {
	GetTopicsForUser(ctx context.Context, userId int64) ([]string, error)
	// AddTopicsForUser inserts missing topics only; duplicates are ignored.
	AddTopicsForUser(ctx context.Context, userId int64, topics []string) error
	RemoveTopicsForUser(ctx context.Context, userId int64, topics []string) error
	// ReplaceTopicsForUser clears the preference set and inserts the given
	// topics in a single transaction.
	ReplaceTopicsForUser(ctx context.Context, userId int64, topics []string) error
	// GetMembershipTagUnion returns the union of tag sets across every
	// community the user currently belongs to.
	GetMembershipTagUnion(ctx context.Context, userId int64) ([]string, error)
}

type CreateCommunity struct {
	Name        string
	Description string
	Tags        []string
	OwnerId     int64
	Rules       []string
	SocialLinks []*model.SocialLink
}

type UpdateCommunity struct {
	Name        *string
	Description *string
	Tags        []string
	Rules       []string
	SocialLinks []*model.SocialLink
}

type CommunitiesListQuery struct {
	Tag    string
	Search string
	Limit  int
	Offset int
}

type CommunityDatabase interface {
	// CreateCommunity inserts the community and its owner membership in one
	// transaction.
	CreateCommunity(ctx context.Context, req *CreateCommunity) (communityId int64, err error)
	GetCommunityById(ctx context.Context, id int64) (*model.Community, error)
	GetCommunityByName(ctx context.Context, name string) (*model.Community, error)
	// GetAllCommunities returns every community with member counts attached,
	// for in-memory relevance ranking.
	GetAllCommunities(ctx context.Context) ([]*model.Community, error)
	GetCommunities(ctx context.Context, query *CommunitiesListQuery) ([]*model.Community, error)
	// GetTrendingCommunities orders by member count then update recency,
	// paginated at the storage layer.
	GetTrendingCommunities(ctx context.Context, limit, offset int) ([]*model.Community, error)
	GetCommunitiesForUser(ctx context.Context, userId int64) ([]*model.Community, error)
	UpdateCommunity(ctx context.Context, id int64, req *UpdateCommunity) error
	DeleteCommunity(ctx context.Context, id int64) error
	SetCommunityBanner(ctx context.Context, id int64, blob string) error
	SetCommunityPicture(ctx context.Context, id int64, blob string) error

	GetMemberRole(ctx context.Context, communityId, userId int64) (model.Role, error)
	AddMember(ctx context.Context, communityId, userId int64, role model.Role) error
	RemoveMember(ctx context.Context, communityId, userId int64) error
	UpdateMemberRole(ctx context.Context, communityId, userId int64, role model.Role) error
	GetStaffMembers(ctx context.Context, communityId int64) ([]*model.CommunityMember, error)
	GetMemberCount(ctx context.Context, communityId int64) (int, error)
	GetMemberIds(ctx context.Context, communityId int64) ([]int64, error)

	CreatePostTag(ctx context.Context, communityId int64, name, color string) (tagId int64, err error)
	GetPostTags(ctx context.Context, communityId int64) ([]*model.PostTag, error)
	GetPostTagIds(ctx context.Context, communityId int64) ([]int64, error)
	UpdatePostTag(ctx context.Context, communityId, tagId int64, name, color *string) (*model.PostTag, error)
	DeletePostTag(ctx context.Context, communityId, tagId int64) error
}

type CreatePost struct {
	CommunityId int64
	AuthorId    int64
	Title       string
	Content     string
	TopicTags   []string
	PostTagIds  []int64
	Media       []*model.Media
}

type UpdatePost struct {
	Title      *string
	Content    *string
	PostTagIds []int64       // nil means leave untouched
	Media      []*model.Media // nil means leave untouched
}

type PostSort string

const (
	PostSortNewest    PostSort = "newest"
	PostSortMostLiked PostSort = "most_liked"
	PostSortHottest   PostSort = "hottest"
)

type CommunityPostsQuery struct {
	CommunityId int64
	Sort        PostSort
	TagId       int64 // 0 means no tag filter
	Limit       int
	Offset      int
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (postId int64, err error)
	GetPostById(ctx context.Context, id int64) (*model.Post, error)
	GetPostsByCommunity(ctx context.Context, query *CommunityPostsQuery) ([]*model.Post, error)
	GetPostsByUser(ctx context.Context, userId int64) ([]*model.Post, error)
	// GetPostsExcludingUser returns every post not authored by the user,
	// with topic tags attached, for in-memory recommendation filtering.
	GetPostsExcludingUser(ctx context.Context, userId int64) ([]*model.Post, error)
	// GetTrendingPostsExcludingUser is the recommendation fallback: ordered
	// by like count then creation recency.
	GetTrendingPostsExcludingUser(ctx context.Context, userId int64, limit int) ([]*model.Post, error)
	UpdatePost(ctx context.Context, id int64, req *UpdatePost) error
	DeletePost(ctx context.Context, id int64) error

	// LikePost upserts the user's like and applies the counter delta in one
	// transaction.
	LikePost(ctx context.Context, postId, userId int64, value model.LikeValue) error
	UnlikePost(ctx context.Context, postId, userId int64) error
	GetPostLike(ctx context.Context, postId, userId int64) (*model.LikeValue, error)

	// RecordPostView counts at most one view per user/IP per ten minutes;
	// reports whether the view was counted.
	RecordPostView(ctx context.Context, postId, userId int64, ip string) (counted bool, err error)
}

type CreateComment struct {
	PostId   int64
	AuthorId int64
	ParentId *int64
	Content  string
	Media    []*model.Media
}

type UpdateComment struct {
	Content *string
	Media   []*model.Media // nil means leave untouched
}

type CommentDatabase interface {
	CreateComment(ctx context.Context, req *CreateComment) (commentId int64, err error)
	GetCommentById(ctx context.Context, id int64) (*model.Comment, error)
	// GetCommentsForPost returns the post's comments ordered by creation
	// time ascending, ready for tree assembly.
	GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error)
	GetCommentsByUser(ctx context.Context, userId int64) ([]*model.Comment, error)
	GetCommentCount(ctx context.Context, postId int64) (int, error)
	UpdateComment(ctx context.Context, id int64, req *UpdateComment) error
	DeleteComment(ctx context.Context, id int64) error

	LikeComment(ctx context.Context, commentId, userId int64, value model.LikeValue) error
	UnlikeComment(ctx context.Context, commentId, userId int64) error
	GetCommentLike(ctx context.Context, commentId, userId int64) (*model.LikeValue, error)
}

type CreateModerationAction struct {
	UserId      int64
	AdminId     int64
	ContentType string
	ContentId   int64
	Action      string
	Reason      string
	AdminNote   string
}

type ModerationDatabase interface {
	// ModerateContent blanks the content body, strips its media, and records
	// the action atomically. Returns the owning user's id.
	ModerateContent(ctx context.Context, adminId int64, contentType string, contentId int64, reason, note string) (userId int64, err error)
	RecordModerationAction(ctx context.Context, req *CreateModerationAction) error
	GetModerationActions(ctx context.Context, userId int64) ([]*model.ModerationAction, error)
}
