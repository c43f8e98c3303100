// Package crypto 提供密码哈希工具
package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher bcrypt 密码哈希器
type Hasher struct {
	cost int
}

// NewHasher 创建哈希器，cost 超出 bcrypt 允许范围时使用默认值
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash 对密码进行哈希
func (h *Hasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify 验证密码
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Cost 返回当前 cost
func (h *Hasher) Cost() int {
	return h.cost
}

// MaskPhone 手机号脱敏
func MaskPhone(phone string) string {
	if len(phone) != 11 {
		return phone
	}
	return phone[:3] + "****" + phone[7:]
}
