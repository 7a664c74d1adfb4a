package model

import "time"

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Media struct {
	Blob string    `db:"file_uuid" json:"fileUuid"`
	Type MediaType `db:"file_type" json:"fileType"`
	Size int64     `db:"file_size" json:"fileSize"`
	Url  *string   `db:"-" json:"url"`
}

type Post struct {
	Id          int64  `json:"id"`
	CommunityId int64  `json:"communityId"`
	Title       string `json:"title"`
	Content     string `json:"content"`

	// TopicTags mirror the owning community's topic vocabulary tags at
	// creation time; the post recommendation engine matches against them.
	TopicTags []string   `json:"topicTags"`
	PostTags  []*PostTag `json:"postTags"`

	Author *Author  `json:"author"`
	Media  []*Media `json:"media"`

	LikeCount    int `json:"likeCount"`
	ViewCount    int `json:"viewCount"`
	CommentCount int `json:"commentCount"`

	CommunityName        string  `json:"communityName,omitempty"`
	CommunityPictureBlob string  `json:"-"`
	CommunityPictureUrl  *string `json:"communityPictureUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Comment struct {
	Id       int64  `json:"id"`
	PostId   int64  `json:"postId"`
	ParentId *int64 `json:"parentId"`
	Content  string `json:"content"`

	Author *Author  `json:"author"`
	Media  []*Media `json:"media"`

	LikeCount int `json:"likeCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CommentTree struct {
	*Comment
	Children []*CommentTree `json:"children"`
}

// LikeValue is +1 for a like, -1 for a dislike.
type LikeValue int8

const (
	Like    LikeValue = 1
	Dislike LikeValue = -1
)

func (v LikeValue) Valid() bool {
	return v == Like || v == Dislike
}
