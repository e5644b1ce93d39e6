package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeService struct {
	Service
	actorID uint
	target  uint
	role    string
	ip      string
}

func (f *fakeService) UpdateRole(ctx context.Context, actorID, targetID uint, roleName, ip string) error {
	f.actorID = actorID
	f.target = targetID
	f.role = roleName
	f.ip = ip
	return nil
}

// The handler reads the actor's identity and client IP straight from the
// gin context keys set upstream, without depending on the middleware package.
func TestUpdateRoleReadsActorFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{}
	h := NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/admin/users/42/role",
		strings.NewReader(`{"role":"organizer"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Set("user_id", uint(7))
	c.Set("client_ip", "203.0.113.9")

	h.UpdateRole(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if svc.actorID != 7 || svc.target != 42 || svc.role != "organizer" || svc.ip != "203.0.113.9" {
		t.Errorf("service called with actor=%d target=%d role=%q ip=%q",
			svc.actorID, svc.target, svc.role, svc.ip)
	}
}

func TestUpdateRoleRejectsMissingActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/admin/users/42/role",
		strings.NewReader(`{"role":"member"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	h.UpdateRole(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
