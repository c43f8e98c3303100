package store

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter 记录谓词，返回 true 表示匹配
type Filter[T any] func(*T) bool

// And 所有谓词都匹配
func And[T any](filters ...Filter[T]) Filter[T] {
	return func(rec *T) bool {
		for _, f := range filters {
			if f != nil && !f(rec) {
				return false
			}
		}
		return true
	}
}

// Or 任一谓词匹配
func Or[T any](filters ...Filter[T]) Filter[T] {
	return func(rec *T) bool {
		for _, f := range filters {
			if f != nil && f(rec) {
				return true
			}
		}
		return false
	}
}

// Not 取反
func Not[T any](f Filter[T]) Filter[T] {
	return func(rec *T) bool { return !f(rec) }
}

// Pattern 正则匹配条件，Options 为空时默认 "i"（忽略大小写）
type Pattern struct {
	Expr    string
	Options string
}

// Literal 按字面量匹配的忽略大小写模式
func Literal(s string) Pattern {
	return Pattern{Expr: regexp.QuoteMeta(s)}
}

// Compile 编译为正则，支持的选项为 i、m、s
func (p Pattern) Compile() (*regexp.Regexp, error) {
	opts := p.Options
	if opts == "" {
		opts = "i"
	}
	var flags strings.Builder
	for _, o := range opts {
		switch o {
		case 'i', 'm', 's':
			flags.WriteRune(o)
		default:
			return nil, fmt.Errorf("store: unsupported pattern option %q", o)
		}
	}
	return regexp.Compile("(?" + flags.String() + ")" + p.Expr)
}

// Match 字段文本匹配模式的过滤器
func Match[T any](p Pattern, field func(*T) string) (Filter[T], error) {
	re, err := p.Compile()
	if err != nil {
		return nil, err
	}
	return func(rec *T) bool { return re.MatchString(field(rec)) }, nil
}

// MatchAny 任一字段文本匹配模式的过滤器
func MatchAny[T any](p Pattern, fields func(*T) []string) (Filter[T], error) {
	re, err := p.Compile()
	if err != nil {
		return nil, err
	}
	return func(rec *T) bool {
		for _, s := range fields(rec) {
			if re.MatchString(s) {
				return true
			}
		}
		return false
	}, nil
}
