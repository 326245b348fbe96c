package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	casbinTableName = "casbin_rule"
	rolePrefix      = "role:"
	// roleMarker 每个已创建角色都挂到该标记下，便于列出没有策略的角色
	roleMarker = "role:__known__"
)

// 请求主体是 role:<name>，资源是 gin 路由模板，动作是 HTTP 方法
const newsroomModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

var (
	// ErrUnavailable 授权服务未初始化
	ErrUnavailable = errors.New("authz service unavailable")
	// ErrRoleRequired 角色名为空
	ErrRoleRequired = errors.New("role is required")
	// ErrInvalidAction 动作不是受支持的 HTTP 方法
	ErrInvalidAction = errors.New("action must be GET, POST, PUT, DELETE or *")
)

var allowedActions = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {}, "*": {},
}

// Policy 角色对某个路由模板的授权
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 基于 casbin 的角色授权
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 使用 casbin_rule 表持久化策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz: db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("authz: create adapter: %w", err)
	}
	m, err := model.NewModelFromString(newsroomModel)
	if err != nil {
		return nil, fmt.Errorf("authz: parse model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz: init enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: load policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// EnforceRole 判断用户角色能否访问路由
// 空角色直接拒绝，不视为错误
func (s *Service) EnforceRole(role, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return false, nil
	}
	return s.enforcer.Enforce(subject, NormalizeObject(obj), NormalizeAction(act))
}

// ReloadPolicy 从数据库重新加载策略
func (s *Service) ReloadPolicy() error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.enforcer.LoadPolicy()
}

// ListRoles 列出所有已知角色，按名称排序
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 1, roleMarker)
	if err != nil {
		return nil, fmt.Errorf("authz: list roles: %w", err)
	}
	roles := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) > 0 && strings.HasPrefix(rule[0], rolePrefix) {
			roles = append(roles, rule[0])
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// GrantRolePolicy 授予策略，角色不存在时一并创建
func (s *Service) GrantRolePolicy(role, object, action string) error {
	p, err := s.policyFor(role, object, action)
	if err != nil {
		return err
	}
	if err := s.ensureRole(p.Subject); err != nil {
		return err
	}
	if _, err := s.enforcer.AddPolicy(p.Subject, p.Object, p.Action); err != nil {
		return fmt.Errorf("authz: grant %s %s to %s: %w", p.Action, p.Object, p.Subject, err)
	}
	return nil
}

// RevokeRolePolicy 撤销策略，策略不存在时不报错
func (s *Service) RevokeRolePolicy(role, object, action string) error {
	p, err := s.policyFor(role, object, action)
	if err != nil {
		return err
	}
	if _, err := s.enforcer.RemovePolicy(p.Subject, p.Object, p.Action); err != nil {
		return fmt.Errorf("authz: revoke %s %s from %s: %w", p.Action, p.Object, p.Subject, err)
	}
	return nil
}

// GetRolePolicies 角色直接持有的策略，不含继承
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, fmt.Errorf("authz: policies of %s: %w", subject, err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{Subject: rule[0], Object: NormalizeObject(rule[1]), Action: NormalizeAction(rule[2])})
	}
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Object != policies[j].Object {
			return policies[i].Object < policies[j].Object
		}
		return policies[i].Action < policies[j].Action
	})
	return policies, nil
}

func (s *Service) policyFor(role, object, action string) (Policy, error) {
	if err := s.ready(); err != nil {
		return Policy{}, err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return Policy{}, err
	}
	act := NormalizeAction(action)
	if _, ok := allowedActions[act]; !ok {
		return Policy{}, ErrInvalidAction
	}
	return Policy{Subject: subject, Object: NormalizeObject(object), Action: act}, nil
}

// ensureRole 登记角色
func (s *Service) ensureRole(subject string) error {
	_, err := s.addGrouping(subject, roleMarker)
	return err
}

func (s *Service) addGrouping(child, parent string) (bool, error) {
	added, err := s.enforcer.AddNamedGroupingPolicy("g", child, parent)
	if err != nil {
		return false, fmt.Errorf("authz: link %s to %s: %w", child, parent, err)
	}
	return added, nil
}

// NormalizeRole 统一为 role:<name>，空格转下划线
func NormalizeRole(role string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(role))
	name = strings.TrimPrefix(name, rolePrefix)
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return "", ErrRoleRequired
	}
	return rolePrefix + name, nil
}

// NormalizeObject 资源路径统一以 / 开头
func NormalizeObject(object string) string {
	path := strings.TrimSpace(object)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// NormalizeAction HTTP 方法转大写
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
