package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	return svc
}

func TestBuiltinRolesContentAccess(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	for _, role := range []string{"viewer", "editor", "admin"} {
		allow, err := svc.EnforceRole(role, "/api/posts/:id", "PUT")
		if err != nil {
			t.Fatalf("enforce %s failed: %v", role, err)
		}
		if !allow {
			t.Fatalf("role %s should edit posts", role)
		}
	}
}

func TestBuiltinRolesAdminOnlyRoutes(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	cases := []struct {
		role  string
		obj   string
		act   string
		allow bool
	}{
		{role: "admin", obj: "/api/settings", act: "put", allow: true},
		{role: "editor", obj: "/api/settings", act: "PUT", allow: false},
		{role: "viewer", obj: "/api/menu", act: "POST", allow: false},
		{role: "admin", obj: "/api/menu/:id", act: "DELETE", allow: true},
		{role: "admin", obj: "/api/menu/7", act: "PUT", allow: true},
		{role: "", obj: "/api/posts", act: "POST", allow: false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceRole(tc.role, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce %+v failed: %v", tc, err)
		}
		if allow != tc.allow {
			t.Fatalf("enforce %+v want %v got %v", tc, tc.allow, allow)
		}
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := []string{"role:admin", "role:editor", "role:viewer"}
	if strings.Join(roles, ",") != strings.Join(want, ",") {
		t.Fatalf("roles want %v got %v", want, roles)
	}
	policies, err := svc.GetRolePolicies("admin")
	if err != nil {
		t.Fatalf("get admin policies failed: %v", err)
	}
	if len(policies) != 3 {
		t.Fatalf("admin direct policies want 3 got %d", len(policies))
	}
}

func TestGrantAndRevokeRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("editor", "/api/settings", "PUT"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	allow, _ := svc.EnforceRole("editor", "/api/settings", "PUT")
	if !allow {
		t.Fatalf("expected editor allowed after grant")
	}
	if err := svc.RevokeRolePolicy("editor", "/api/settings", "PUT"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	allow, _ = svc.EnforceRole("editor", "/api/settings", "PUT")
	if allow {
		t.Fatalf("expected editor denied after revoke")
	}
}

func TestNormalizeHelpers(t *testing.T) {
	role, err := NormalizeRole(" Chief Editor ")
	if err != nil || role != "role:chief_editor" {
		t.Fatalf("normalize role unexpected: %s %v", role, err)
	}
	if _, err := NormalizeRole("role:"); err == nil {
		t.Fatalf("empty role should fail")
	}
	if NormalizeObject("api/posts") != "/api/posts" {
		t.Fatalf("normalize object should add leading slash")
	}
	if NormalizeAction(" delete ") != "DELETE" {
		t.Fatalf("normalize action should uppercase")
	}
}

func TestGrantRejectsUnknownAction(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("editor", "/api/settings", "PATCH"); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("want ErrInvalidAction got %v", err)
	}
	if err := svc.GrantRolePolicy(" ", "/api/settings", "PUT"); !errors.Is(err, ErrRoleRequired) {
		t.Fatalf("want ErrRoleRequired got %v", err)
	}
}

func TestGrantCreatesNewRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("columnist", "/api/posts", "post"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	if strings.Join(roles, ",") != "role:admin,role:columnist,role:editor,role:viewer" {
		t.Fatalf("unexpected roles %v", roles)
	}
	allow, err := svc.EnforceRole("columnist", "/api/posts", "POST")
	if err != nil || !allow {
		t.Fatalf("columnist should create posts: %v %v", allow, err)
	}
	allow, _ = svc.EnforceRole("columnist", "/api/settings", "PUT")
	if allow {
		t.Fatalf("columnist must not inherit admin routes")
	}
}

func TestNilServiceUnavailable(t *testing.T) {
	var svc *Service
	if _, err := svc.EnforceRole("admin", "/api/settings", "PUT"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable got %v", err)
	}
}
