package routes

import (
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/afterfrag/afterfrag-be/services"
)

// Blob references become public CDN URLs at the response boundary so stored
// rows never carry absolute URLs.

func decorateAuthor(media *services.MediaStore, author *model.Author) {
	if author != nil {
		author.PictureUrl = media.URLFor(author.PictureBlob)
	}
}

func decorateMedia(media *services.MediaStore, items []*model.Media) {
	for _, item := range items {
		item.Url = media.URLFor(item.Blob)
	}
}

func decorateCommunity(media *services.MediaStore, community *model.Community) {
	community.BannerUrl = media.URLFor(community.BannerBlob)
	community.PictureUrl = media.URLFor(community.PictureBlob)
}

func decorateCommunities(media *services.MediaStore, communities []*model.Community) {
	for _, community := range communities {
		decorateCommunity(media, community)
	}
}

func decoratePost(media *services.MediaStore, post *model.Post) {
	decorateAuthor(media, post.Author)
	decorateMedia(media, post.Media)
	post.CommunityPictureUrl = media.URLFor(post.CommunityPictureBlob)
}

func decoratePosts(media *services.MediaStore, posts []*model.Post) {
	for _, post := range posts {
		decoratePost(media, post)
	}
}

func decorateComment(media *services.MediaStore, comment *model.Comment) {
	decorateAuthor(media, comment.Author)
	decorateMedia(media, comment.Media)
}

func decorateComments(media *services.MediaStore, comments []*model.Comment) {
	for _, comment := range comments {
		decorateComment(media, comment)
	}
}

func decorateProfile(media *services.MediaStore, profile *model.Profile) {
	profile.PictureUrl = media.URLFor(profile.PictureBlob)
}

func decorateMembers(media *services.MediaStore, members []*model.CommunityMember) {
	for _, member := range members {
		member.PictureUrl = media.URLFor(member.PictureBlob)
	}
}
