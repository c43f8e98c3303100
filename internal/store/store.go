// Package store 提供按集合组织的 JSON 记录存储
//
// 每个集合是一组带 id 的 JSON 文档，底层驱动可以是 JSON 文件或 SQL 数据库。
// 同一集合的写操作在进程内串行执行，Update 的读改写是原子的。
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("store: record not found")

// Base 所有记录共有的字段
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Meta 返回记录元数据
func (b *Base) Meta() *Base { return b }

// Entity 可存储的记录，嵌入 Base 即可满足
type Entity interface {
	Meta() *Base
}

// Document 驱动层的原始文档
type Document struct {
	ID        string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Driver 存储驱动
// List 按插入顺序返回文档；Put 对已存在的 id 原位覆盖，新 id 追加到末尾
type Driver interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Put(ctx context.Context, collection string, doc Document) error
	Delete(ctx context.Context, collection, id string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// Observer 操作观察回调，用于指标采集
type Observer func(operation, collection string, duration time.Duration)

// DB 记录存储，持有驱动与每个集合的写锁
type DB struct {
	driver   Driver
	observer Observer
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option DB 选项
type Option func(*DB)

// WithObserver 设置操作观察回调
func WithObserver(o Observer) Option {
	return func(db *DB) { db.observer = o }
}

// WithClock 设置时钟
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

// New 基于驱动创建存储
func New(driver Driver, opts ...Option) *DB {
	db := &DB{
		driver: driver,
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Driver 返回底层驱动
func (db *DB) Driver() Driver {
	return db.driver
}

// Ping 检查驱动是否可用
func (db *DB) Ping(ctx context.Context) error {
	return db.driver.Ping(ctx)
}

// Close 关闭驱动
func (db *DB) Close() error {
	return db.driver.Close()
}

// writeLock 返回集合的写锁，同名集合共享同一把锁
func (db *DB) writeLock(collection string) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	l, ok := db.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		db.locks[collection] = l
	}
	return l
}

func (db *DB) observe(op, collection string, start time.Time) {
	if db.observer != nil {
		db.observer(op, collection, time.Since(start))
	}
}
