// Package state 客户端登录态与购物车状态
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserInfo 从访问令牌中解出的用户信息
type UserInfo struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Avatar   string   `json:"avatar,omitempty"`
	Roles    []string `json:"roles"`
	// Exp 过期时间（Unix 秒），0 表示未声明
	Exp int64 `json:"exp"`
}

// Snapshot 持久化的登录态
type Snapshot struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	UserInfo     *UserInfo `json:"userInfo,omitempty"`
}

// Persister 登录态存储
type Persister interface {
	Load() (*Snapshot, error)
	Save(s *Snapshot) error
}

// tokenClaims 令牌载荷，仅解码不校验签名
type tokenClaims struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Avatar   string   `json:"avatar"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Session 登录态，实现 client.TokenSource
type Session struct {
	mu           sync.RWMutex
	token        string
	refreshToken string
	user         *UserInfo
	persister    Persister
	now          func() time.Time
}

// NewSession 创建登录态，p 非空时从中恢复
func NewSession(p Persister) (*Session, error) {
	s := &Session{persister: p, now: time.Now}
	if p == nil {
		return s, nil
	}
	snap, err := p.Load()
	if err != nil {
		return nil, err
	}
	if snap != nil && snap.Token != "" {
		// 无法解析的令牌按未登录处理
		_ = s.SetTokens(snap.Token, snap.RefreshToken)
	}
	return s, nil
}

// decodeToken 解出用户信息
func decodeToken(token string) (*UserInfo, error) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("解析令牌失败: %w", err)
	}
	info := &UserInfo{
		ID:       claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Avatar:   claims.Avatar,
		Roles:    claims.Roles,
	}
	if info.Roles == nil {
		info.Roles = []string{}
	}
	if claims.ExpiresAt != nil {
		info.Exp = claims.ExpiresAt.Unix()
	}
	return info, nil
}

// SetTokens 保存令牌，令牌无法解析时登出并返回错误
func (s *Session) SetTokens(token, refreshToken string) error {
	info, err := decodeToken(token)
	if err != nil {
		s.Logout()
		return err
	}

	s.mu.Lock()
	s.token = token
	s.refreshToken = refreshToken
	s.user = info
	s.mu.Unlock()

	s.persist()
	return nil
}

// UpdateUserInfo 合并资料中的非空字段
func (s *Session) UpdateUserInfo(u UserInfo) {
	s.mu.Lock()
	if s.user == nil {
		s.user = &UserInfo{}
	}
	if u.Username != "" {
		s.user.Username = u.Username
	}
	if u.Email != "" {
		s.user.Email = u.Email
	}
	if u.Avatar != "" {
		s.user.Avatar = u.Avatar
	}
	if u.Roles != nil {
		s.user.Roles = u.Roles
	}
	s.mu.Unlock()

	s.persist()
}

// Token 当前访问令牌
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// RefreshToken 当前刷新令牌
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User 当前用户，未登录返回 nil
func (s *Session) User() *UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserID 当前用户 ID
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// IsLoggedIn 是否持有令牌
func (s *Session) IsLoggedIn() bool {
	return s.Token() != ""
}

// CheckTokenExpiration 令牌有效返回 true，已过期时登出
func (s *Session) CheckTokenExpiration() bool {
	s.mu.RLock()
	token, user := s.token, s.user
	s.mu.RUnlock()

	if token == "" || user == nil || user.Exp == 0 {
		return false
	}
	if user.Exp < s.now().Unix() {
		s.Logout()
		return false
	}
	return true
}

// Logout 清除登录态
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.refreshToken = ""
	s.user = nil
	s.mu.Unlock()

	s.persist()
}

// Clear 收到 401 时由客户端调用
func (s *Session) Clear() {
	s.Logout()
}

func (s *Session) persist() {
	if s.persister == nil {
		return
	}
	s.mu.RLock()
	snap := &Snapshot{Token: s.token, RefreshToken: s.refreshToken, UserInfo: s.user}
	s.mu.RUnlock()
	_ = s.persister.Save(snap)
}

// FilePersister 以 JSON 文件保存登录态
type FilePersister struct {
	Path string
}

// Load 读取登录态，文件不存在时返回 nil
func (p *FilePersister) Load() (*Snapshot, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("解析登录态失败: %w", err)
	}
	return &snap, nil
}

// Save 写入登录态，令牌为空时删除文件
func (p *FilePersister) Save(snap *Snapshot) error {
	if snap == nil || snap.Token == "" {
		err := os.Remove(p.Path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return err
	}
	tmp := p.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p.Path)
}
