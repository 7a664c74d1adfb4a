package routes

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/gin-gonic/gin"
)

type fakeCommunityDb struct {
	appDb.Database
	community *model.Community
	roles     map[int64]model.Role
	removed   []int64
	updated   bool
}

func (f *fakeCommunityDb) GetCommunityById(ctx context.Context, id int64) (*model.Community, error) {
	if f.community != nil && f.community.Id == id {
		return f.community, nil
	}
	return nil, nil
}

func (f *fakeCommunityDb) GetMemberRole(ctx context.Context, communityId, userId int64) (model.Role, error) {
	return f.roles[userId], nil
}

func (f *fakeCommunityDb) RemoveMember(ctx context.Context, communityId, userId int64) error {
	f.removed = append(f.removed, userId)
	return nil
}

func (f *fakeCommunityDb) UpdateCommunity(ctx context.Context, id int64, req *appDb.UpdateCommunity) error {
	f.updated = true
	return nil
}

func (f *fakeCommunityDb) GetMembershipTagUnion(ctx context.Context, userId int64) ([]string, error) {
	return nil, nil
}

func (f *fakeCommunityDb) RemoveTopicsForUser(ctx context.Context, userId int64, topics []string) error {
	return nil
}

const (
	testOwnerId     = int64(1)
	testModeratorId = int64(2)
	testMemberId    = int64(3)
)

func newCommunityFake() *fakeCommunityDb {
	return &fakeCommunityDb{
		community: &model.Community{Id: 7, Name: "speedruns", Tags: []string{"Gaming"}},
		roles: map[int64]model.Role{
			testOwnerId:     model.RoleOwner,
			testModeratorId: model.RoleModerator,
			testMemberId:    model.RoleMember,
		},
	}
}

func TestUpdateCommunityOwnerOnly(t *testing.T) {
	database := newCommunityFake()
	handler := genUpdateCommunity(database)

	c := newJSONContext(t, http.MethodPut, "/communities/7", `{"description":"new"}`)
	c.Params = []gin.Param{{Key: "id", Value: "7"}}
	c.Set("user", &model.User{Id: testModeratorId, Username: "mod"})

	if _, httpErr := handler(c); httpErr == nil || httpErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 for moderator, got %v", httpErr)
	}
	if database.updated {
		t.Error("community was updated despite the rejection")
	}

	c = newJSONContext(t, http.MethodPut, "/communities/7", `{"description":"new"}`)
	c.Params = []gin.Param{{Key: "id", Value: "7"}}
	c.Set("user", &model.User{Id: testOwnerId, Username: "owner"})

	if _, httpErr := handler(c); httpErr != nil {
		t.Fatalf("owner update failed: %v", httpErr)
	}
	if !database.updated {
		t.Error("owner update did not reach storage")
	}
}

func TestRemoveMemberStaffRules(t *testing.T) {
	tests := []struct {
		name       string
		callerId   int64
		targetId   int64
		wantStatus int
	}{
		{"moderator removes member", testModeratorId, testMemberId, 0},
		{"owner removes moderator", testOwnerId, testModeratorId, 0},
		{"moderator removes moderator", testModeratorId, testModeratorId, http.StatusForbidden},
		{"moderator removes owner", testModeratorId, testOwnerId, http.StatusForbidden},
		{"owner removes owner", testOwnerId, testOwnerId, http.StatusForbidden},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			database := newCommunityFake()
			handler := genRemoveMember(database)

			c := newJSONContext(t, http.MethodDelete, "/communities/7/members", "")
			c.Params = []gin.Param{
				{Key: "id", Value: "7"},
				{Key: "userId", Value: strconv.FormatInt(test.targetId, 10)},
			}
			c.Set("user", &model.User{Id: test.callerId})

			_, httpErr := handler(c)
			if test.wantStatus == 0 {
				if httpErr != nil {
					t.Fatalf("removal failed: %v", httpErr)
				}
				if len(database.removed) != 1 || database.removed[0] != test.targetId {
					t.Errorf("removed = %v, want [%d]", database.removed, test.targetId)
				}
				return
			}
			if httpErr == nil || httpErr.Status != test.wantStatus {
				t.Fatalf("expected status %d, got %v", test.wantStatus, httpErr)
			}
			if len(database.removed) != 0 {
				t.Errorf("member %v was removed despite the rejection", database.removed)
			}
		})
	}
}
