package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/afterfrag/afterfrag-be/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type fakeAuthDb struct {
	appDb.Database
	user *model.User
}

func (f *fakeAuthDb) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.user != nil && f.user.Username == username {
		return f.user, nil
	}
	return nil, nil
}

func newJSONContext(t *testing.T, method, target, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func testPasswordHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return string(hash)
}

func TestLoginRejectsBannedUser(t *testing.T) {
	until := time.Now().Add(24 * time.Hour)
	database := &fakeAuthDb{user: &model.User{
		Id:           1,
		Username:     "frag",
		PasswordHash: testPasswordHash(t, "correct horse battery"),
		BannedUntil:  &until,
	}}
	handler := genLogin(database, services.NewTokenService("test-secret"))

	c := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"frag","password":"correct horse battery"}`)
	res, httpErr := handler(c)
	if httpErr == nil {
		t.Fatalf("expected login to be rejected, got %+v", res)
	}
	if httpErr.Status != http.StatusForbidden {
		t.Errorf("status = %d, want %d", httpErr.Status, http.StatusForbidden)
	}
	if !strings.Contains(httpErr.Message, "banned") {
		t.Errorf("message %q does not mention the ban", httpErr.Message)
	}
}

func TestLoginAllowsExpiredBan(t *testing.T) {
	until := time.Now().Add(-time.Hour)
	database := &fakeAuthDb{user: &model.User{
		Id:           1,
		Username:     "frag",
		PasswordHash: testPasswordHash(t, "correct horse battery"),
		BannedUntil:  &until,
	}}
	handler := genLogin(database, services.NewTokenService("test-secret"))

	c := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"frag","password":"correct horse battery"}`)
	res, httpErr := handler(c)
	if httpErr != nil {
		t.Fatalf("login failed: %v", httpErr)
	}
	session, ok := res.(*sessionRes)
	if !ok {
		t.Fatalf("unexpected response type %T", res)
	}
	if session.Token == "" {
		t.Error("expected a session token")
	}
}

func TestLoginRejectsTerminatedUser(t *testing.T) {
	database := &fakeAuthDb{user: &model.User{
		Id:           1,
		Username:     "frag",
		PasswordHash: testPasswordHash(t, "correct horse battery"),
		IsTerminated: true,
	}}
	handler := genLogin(database, services.NewTokenService("test-secret"))

	c := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"frag","password":"correct horse battery"}`)
	if _, httpErr := handler(c); httpErr == nil || httpErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 for terminated account, got %v", httpErr)
	}
}
