package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/newsroom-next/internal/models"
)

// UserAuthState 会话校验所需的用户快照
// 令牌中的版本号与此处不一致即视为已注销
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	CachedAt     int64  `json:"cached_at"`
}

var authStates = NewEntry[UserAuthState](10 * time.Minute)

func authStateKey(userID uint) string {
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}

// BuildUserAuthState 从用户记录生成快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		CachedAt:     time.Now().Unix(),
	}
}

func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	return authStates.Get(ctx, authStateKey(userID))
}

func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return authStates.Set(ctx, authStateKey(state.UserID), state)
}

// DelUserAuthState 注销、改角色后调用
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return authStates.Del(ctx, authStateKey(userID))
}
