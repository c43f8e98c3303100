// Package client 商城后端 API 客户端
//
// 所有接口统一解包 {success, data, error, errors} 信封，
// 失败时返回 *APIError；遇到 429 时按线性退避自动重试。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// 默认配置
const (
	DefaultBaseURL    = "http://localhost:3000/api"
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// TokenSource 提供访问令牌，收到 401 时由客户端调用 Clear
type TokenSource interface {
	Token() string
	Clear()
}

// FieldError 字段校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError 非成功响应
type APIError struct {
	Status  int
	Message string
	Errors  []FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// IsStatus 判断 err 是否为指定状态码的 APIError
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  []FieldError    `json:"errors"`
}

// Client API 客户端
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	// MaxRetries 包含首次请求在内的最多尝试次数
	MaxRetries int
	// RetryDelay 第 n 次重试前等待 RetryDelay × n
	RetryDelay time.Duration

	Auth       *AuthAPI
	User       *UserAPI
	Products   *ProductsAPI
	Categories *CategoriesAPI
	Cart       *CartAPI
	Orders     *OrdersAPI
	AfterSale  *AfterSaleAPI
	Coupons    *CouponsAPI
	Points     *PointsAPI
	Search     *SearchAPI
	Banners    *BannersAPI
	Chat       *ChatAPI
}

// Option 客户端选项
type Option func(*Client)

// WithBaseURL 设置接口根地址
func WithBaseURL(u string) Option {
	return func(c *Client) { c.BaseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient 设置底层 HTTP 客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTokenSource 设置令牌来源
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.Tokens = ts }
}

// WithRetry 设置 429 重试参数
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Client) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// New 创建客户端
func New(opts ...Option) *Client {
	c := &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthAPI{c: c}
	c.User = &UserAPI{c: c}
	c.Products = &ProductsAPI{c: c}
	c.Categories = &CategoriesAPI{c: c}
	c.Cart = &CartAPI{c: c}
	c.Orders = &OrdersAPI{c: c}
	c.AfterSale = &AfterSaleAPI{c: c}
	c.Coupons = &CouponsAPI{c: c}
	c.Points = &PointsAPI{c: c}
	c.Search = &SearchAPI{c: c}
	c.Banners = &BannersAPI{c: c}
	c.Chat = &ChatAPI{c: c}
	return c
}

// linearBackOff 第 n 次返回 delay × n
type linearBackOff struct {
	delay   time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.delay * time.Duration(b.attempt)
}

func (b *linearBackOff) Reset() { b.attempt = 0 }

// Do 发送请求，data 字段解码到 out（可为 nil）
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.DoWithHeader(ctx, method, path, nil, body, out)
}

// DoWithHeader 同 Do，附加请求头
func (c *Client) DoWithHeader(ctx context.Context, method, path string, header http.Header, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	attempts := c.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	var b backoff.BackOff = &linearBackOff{delay: c.RetryDelay}
	b = backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)

	return backoff.Retry(func() error {
		err := c.do(ctx, method, path, header, payload, out)
		if err == nil || IsStatus(err, http.StatusTooManyRequests) {
			return err
		}
		return backoff.Permanent(err)
	}, b)
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Tokens != nil {
		if token := c.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized && c.Tokens != nil {
		c.Tokens.Clear()
	}
	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg, Errors: env.Errors}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// withQuery 拼接查询参数，空值跳过
func withQuery(path string, q url.Values) string {
	for k, vs := range q {
		if len(vs) == 0 || vs[0] == "" {
			q.Del(k)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
