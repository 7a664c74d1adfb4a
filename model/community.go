package model

import "time"

type Role string

const (
	RoleOwner     Role = "owner"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

// IsStaff reports whether the role carries moderation powers.
func (r Role) IsStaff() bool {
	return r == RoleOwner || r == RoleModerator
}

type Community struct {
	Id          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	OwnerId     int64    `json:"ownerId"`
	OwnerName   string   `json:"ownerUsername"`

	Rules       []string      `json:"rules,omitempty"`
	SocialLinks []*SocialLink `json:"socialLinks,omitempty"`

	BannerBlob  string  `json:"-"`
	PictureBlob string  `json:"-"`
	BannerUrl   *string `json:"bannerPictureUrl"`
	PictureUrl  *string `json:"groupPictureUrl"`

	// Computed at response-assembly time, never cached.
	MemberCount       int `json:"memberCount"`
	OnlineMemberCount int `json:"onlineMemberCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommunityDetail adds the staff roster to the public community shape.
type CommunityDetail struct {
	*Community
	StaffMembers []*CommunityMember `json:"staffMembers"`
}

type CommunityMember struct {
	UserId      int64     `json:"userId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
	PictureBlob string    `json:"-"`
	PictureUrl  *string   `json:"profilePictureUrl"`
}

// PostTag is a community-scoped label posts can carry. Distinct from the
// topic vocabulary that tags the community itself.
type PostTag struct {
	Id          int64  `db:"id" json:"id"`
	CommunityId int64  `db:"community_id" json:"communityId"`
	Name        string `db:"name" json:"name"`
	Color       string `db:"color" json:"color"`
}
