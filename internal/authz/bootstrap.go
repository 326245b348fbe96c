package authz

import (
	"fmt"

	"github.com/newsroom-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// contentPolicies 内容写入类路由，所有登录角色共享
var contentPolicies = []Policy{
	{Object: "/api/posts", Action: "POST"},
	{Object: "/api/posts/:id", Action: "*"},
	{Object: "/api/pages", Action: "POST"},
	{Object: "/api/pages/:id", Action: "*"},
	{Object: "/api/trending", Action: "POST"},
	{Object: "/api/import", Action: "POST"},
	{Object: "/api/import/:batch_id", Action: "GET"},
	{Object: "/api/auto-publish", Action: "POST"},
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role:     constants.RoleViewer,
			Policies: contentPolicies,
		},
		{
			Role:     constants.RoleEditor,
			Inherits: []string{constants.RoleViewer},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleEditor},
			Policies: []Policy{
				{Object: "/api/settings", Action: "PUT"},
				{Object: "/api/menu", Action: "POST"},
				{Object: "/api/menu/:id", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色、继承关系与默认策略
// 只补缺失项，运维通过 newsctl 调整过的策略保持不变
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		links := []string{roleMarker}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			links = append(links, parentRole)
		}
		for _, parent := range links {
			added, err := s.addGrouping(role, parent)
			if err != nil {
				return err
			}
			changed = changed || added
		}
		for _, policy := range seed.Policies {
			p, err := s.policyFor(role, policy.Object, policy.Action)
			if err != nil {
				return fmt.Errorf("authz: builtin policy %s %s: %w", policy.Action, policy.Object, err)
			}
			added, err := s.enforcer.AddPolicy(p.Subject, p.Object, p.Action)
			if err != nil {
				return fmt.Errorf("authz: add builtin policy: %w", err)
			}
			changed = changed || added
		}
	}
	if changed {
		return s.ReloadPolicy()
	}
	return nil
}
