// Package permission 统一权限检查
// 角色来自认证服务签发的会话，作者身份来自实体的 author_id
package permission

import (
	"seichi/cms/packages/response"
	"seichi/cms/packages/session"
)

// 角色等级常量
// 数值越大权限越高
const (
	RoleLevelAdmin   = 80 // 全局管理员，拥有审核能力
	RoleLevelAuthor  = 50 // 实体作者
	RoleLevelUser    = 10 // 登录用户
	RoleLevelUnknown = 0  // 未登录
)

// PermissionSource 权限来源类型
type PermissionSource string

const (
	PermissionSourceGlobal PermissionSource = "global" // 全局管理员
	PermissionSourceOwner  PermissionSource = "owner"  // 作者本人
	PermissionSourceNone   PermissionSource = "none"
)

// PermissionResult 权限检查结果
type PermissionResult struct {
	EffectiveRole    string           `json:"effective_role"` // admin/author/user/guest
	Level            int              `json:"level"`
	PermissionSource PermissionSource `json:"permission_source"`
}

// Resolve 计算会话对某实体的有效角色
// 作者优先于管理员：管理员审核自己的投稿时仍按作者身份计算
func Resolve(s *session.Session, authorID uint) PermissionResult {
	switch {
	case s == nil:
		return PermissionResult{EffectiveRole: "guest", Level: RoleLevelUnknown, PermissionSource: PermissionSourceNone}
	case s.UserID == authorID:
		return PermissionResult{EffectiveRole: "author", Level: RoleLevelAuthor, PermissionSource: PermissionSourceOwner}
	case s.IsAdmin():
		return PermissionResult{EffectiveRole: "admin", Level: RoleLevelAdmin, PermissionSource: PermissionSourceGlobal}
	default:
		return PermissionResult{EffectiveRole: "user", Level: RoleLevelUser, PermissionSource: PermissionSourceNone}
	}
}

// RequireSession 未登录返回 Unauthorized
func RequireSession(s *session.Session) error {
	if s == nil || s.UserID == 0 {
		return response.New(response.Unauthorized, "请先登录")
	}
	return nil
}

// RequireAuthor 只有作者本人可以操作
func RequireAuthor(s *session.Session, authorID uint) error {
	if err := RequireSession(s); err != nil {
		return err
	}
	if s.UserID != authorID {
		return response.New(response.Forbidden, "只有作者本人可以执行此操作")
	}
	return nil
}

// RequireAdmin 需要审核能力
func RequireAdmin(s *session.Session) error {
	if err := RequireSession(s); err != nil {
		return err
	}
	if !s.IsAdmin() {
		return response.New(response.Forbidden, "需要管理员权限")
	}
	return nil
}

// RequireAuthorOrAdmin 作者或管理员
func RequireAuthorOrAdmin(s *session.Session, authorID uint) error {
	if err := RequireSession(s); err != nil {
		return err
	}
	if s.UserID != authorID && !s.IsAdmin() {
		return response.New(response.Forbidden, "无权访问")
	}
	return nil
}
