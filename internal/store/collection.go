package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Collection 类型化的集合
type Collection[T any, PT interface {
	*T
	Entity
}] struct {
	db   *DB
	name string
	lock *sync.Mutex
}

// NewCollection 创建集合句柄
func NewCollection[T any, PT interface {
	*T
	Entity
}](db *DB, name string) *Collection[T, PT] {
	return &Collection[T, PT]{db: db, name: name, lock: db.writeLock(name)}
}

// Name 集合名
func (c *Collection[T, PT]) Name() string {
	return c.name
}

func (c *Collection[T, PT]) decode(doc Document) (*T, error) {
	rec := new(T)
	if err := json.Unmarshal(doc.Data, rec); err != nil {
		return nil, fmt.Errorf("store: decode %s/%s: %w", c.name, doc.ID, err)
	}
	return rec, nil
}

func (c *Collection[T, PT]) encode(rec *T) (Document, error) {
	meta := PT(rec).Meta()
	data, err := json.Marshal(rec)
	if err != nil {
		return Document{}, fmt.Errorf("store: encode %s/%s: %w", c.name, meta.ID, err)
	}
	return Document{ID: meta.ID, Data: data, CreatedAt: meta.CreatedAt, UpdatedAt: meta.UpdatedAt}, nil
}

// FindAll 返回全部记录，按插入顺序
func (c *Collection[T, PT]) FindAll(ctx context.Context) ([]*T, error) {
	defer c.db.observe("list", c.name, time.Now())
	docs, err := c.db.driver.List(ctx, c.name)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		rec, err := c.decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Find 返回满足条件的记录，filter 为 nil 时返回全部
func (c *Collection[T, PT]) Find(ctx context.Context, filter Filter[T]) ([]*T, error) {
	all, err := c.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return all, nil
	}
	out := all[:0]
	for _, rec := range all {
		if filter(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindOne 返回第一条满足条件的记录，不存在返回 ErrNotFound
func (c *Collection[T, PT]) FindOne(ctx context.Context, filter Filter[T]) (*T, error) {
	all, err := c.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range all {
		if filter == nil || filter(rec) {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// FindByID 按 id 查找，不存在返回 ErrNotFound
func (c *Collection[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	defer c.db.observe("get", c.name, time.Now())
	doc, err := c.db.driver.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	return c.decode(*doc)
}

// Count 统计满足条件的记录数
func (c *Collection[T, PT]) Count(ctx context.Context, filter Filter[T]) (int, error) {
	recs, err := c.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

// Create 写入新记录，未预设 id 时生成 uuid，createdAt 与 updatedAt 取当前时间
func (c *Collection[T, PT]) Create(ctx context.Context, rec *T) (*T, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.create(ctx, rec)
}

func (c *Collection[T, PT]) create(ctx context.Context, rec *T) (*T, error) {
	defer c.db.observe("create", c.name, time.Now())
	meta := PT(rec).Meta()
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	now := c.db.now()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	doc, err := c.encode(rec)
	if err != nil {
		return nil, err
	}
	if err := c.db.driver.Put(ctx, c.name, doc); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update 在写锁内读取记录并调用 mutate 修改，保留 id 与 createdAt，刷新 updatedAt
// mutate 返回错误时不写入；记录不存在返回 ErrNotFound
func (c *Collection[T, PT]) Update(ctx context.Context, id string, mutate func(*T) error) (*T, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	rec, err := c.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.apply(ctx, rec, mutate)
}

func (c *Collection[T, PT]) apply(ctx context.Context, rec *T, mutate func(*T) error) (*T, error) {
	defer c.db.observe("update", c.name, time.Now())
	orig := *PT(rec).Meta()
	if err := mutate(rec); err != nil {
		return nil, err
	}
	meta := PT(rec).Meta()
	meta.ID = orig.ID
	meta.CreatedAt = orig.CreatedAt
	meta.UpdatedAt = c.db.now()

	doc, err := c.encode(rec)
	if err != nil {
		return nil, err
	}
	if err := c.db.driver.Put(ctx, c.name, doc); err != nil {
		return nil, err
	}
	return rec, nil
}

// Upsert 在写锁内查找第一条匹配记录并调用 mutate，不存在时以零值新建
// mutate 的 exists 参数表示记录是否已存在
func (c *Collection[T, PT]) Upsert(ctx context.Context, filter Filter[T], mutate func(rec *T, exists bool) error) (*T, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	rec, err := c.FindOne(ctx, filter)
	switch {
	case err == nil:
		return c.apply(ctx, rec, func(r *T) error { return mutate(r, true) })
	case errors.Is(err, ErrNotFound):
		rec = new(T)
		if err := mutate(rec, false); err != nil {
			return nil, err
		}
		return c.create(ctx, rec)
	default:
		return nil, err
	}
}

// Delete 按 id 删除，返回记录是否存在
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	defer c.db.observe("delete", c.name, time.Now())
	return c.db.driver.Delete(ctx, c.name, id)
}

// DeleteWhere 删除所有满足条件的记录，返回删除数量
func (c *Collection[T, PT]) DeleteWhere(ctx context.Context, filter Filter[T]) (int, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	recs, err := c.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rec := range recs {
		ok, err := c.db.driver.Delete(ctx, c.name, PT(rec).Meta().ID)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// Query 构建查询
func (c *Collection[T, PT]) Query() *Query[T, PT] {
	return &Query[T, PT]{c: c}
}
