// Package utils 提供通用工具函数
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	phonePattern    = regexp.MustCompile(`^1[3-9]\d{9}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
)

// GenerateNo 生成业务编号
// 格式: 前缀 + 毫秒时间戳 + 指定位数的大写 36 进制随机串
func GenerateNo(prefix string, randomLen int) string {
	return fmt.Sprintf("%s%d%s", prefix, time.Now().UnixMilli(), RandomBase36(randomLen))
}

// GenerateOrderNumber 生成订单号，例如 ORD1700000000000K3ZQ
func GenerateOrderNumber() string {
	return GenerateNo("ORD", 4)
}

// GenerateTransactionID 生成支付流水号
func GenerateTransactionID() string {
	return GenerateNo("TXN", 6)
}

// GenerateAfterSaleNumber 生成售后单号
func GenerateAfterSaleNumber() string {
	return GenerateNo("AS", 4)
}

// GenerateRefundNumber 生成退款单号
func GenerateRefundNumber() string {
	return GenerateNo("RF", 6)
}

// RandomBase36 生成指定长度的大写 36 进制随机串
func RandomBase36(length int) string {
	var sb strings.Builder
	max := big.NewInt(int64(len(base36Upper)))
	for i := 0; i < length; i++ {
		n, _ := rand.Int(rand.Reader, max)
		sb.WriteByte(base36Upper[n.Int64()])
	}
	return sb.String()
}

// RandomInt 返回 [min, max] 区间内的随机整数
func RandomInt(min, max int) int {
	if max <= min {
		return min
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	return min + int(n.Int64())
}

// ValidatePhone 验证手机号
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateEmail 验证邮箱
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateUsername 用户名只能包含字母、数字和下划线，长度 3-20
func ValidateUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// ValidatePassword 密码至少 6 位，且包含大小写字母和数字
func ValidatePassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return lower && upper && digit
}

// ValidateURL 验证 http(s) 地址
func ValidateURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ContainsFold 不区分大小写的子串匹配
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Contains 判断切片是否包含元素
func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// Unique 切片去重
func Unique[T comparable](slice []T) []T {
	seen := make(map[T]struct{})
	result := make([]T, 0, len(slice))
	for _, v := range slice {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

// TimePtr 返回时间指针
func TimePtr(t time.Time) *time.Time {
	return &t
}

// StringPtr 返回字符串指针
func StringPtr(s string) *string {
	return &s
}

// Pagination 分页参数
type Pagination struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// Normalize 规范化分页参数
func (p *Pagination) Normalize(defaultLimit, maxLimit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
}

// GetOffset 获取偏移量
func (p *Pagination) GetOffset() int {
	return (p.Page - 1) * p.Limit
}
