package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/common/database"
)

type item struct {
	Base
	Name string   `json:"name"`
	Qty  int      `json:"qty"`
	Tags []string `json:"tags,omitempty"`
}

type items = Collection[item, *item]

func newFileDB(t *testing.T) (*DB, string) {
	dir := t.TempDir()
	d, err := NewFileDriver(dir)
	require.NoError(t, err)
	return New(d), dir
}

func newSQLiteDB(t *testing.T) *DB {
	gdb, err := database.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	d, err := NewGormDriver(gdb)
	require.NoError(t, err)
	db := New(d)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// forEachDriver 对两种驱动执行同一组用例
func forEachDriver(t *testing.T, fn func(t *testing.T, db *DB)) {
	t.Run("file", func(t *testing.T) {
		db, _ := newFileDB(t)
		fn(t, db)
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newSQLiteDB(t))
	})
}

// ==================== Collection 测试 ====================

func TestCollection_CreateAndFind(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		c := NewCollection[item](db, "items")

		a, err := c.Create(ctx, &item{Name: "a", Qty: 1})
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
		assert.False(t, a.CreatedAt.IsZero())
		assert.Equal(t, a.CreatedAt, a.UpdatedAt)

		_, err = c.Create(ctx, &item{Base: Base{ID: "fixed"}, Name: "b", Qty: 2})
		require.NoError(t, err)

		got, err := c.FindByID(ctx, "fixed")
		require.NoError(t, err)
		assert.Equal(t, "b", got.Name)

		all, err := c.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "a", all[0].Name, "保持插入顺序")
		assert.Equal(t, "b", all[1].Name)

		big, err := c.Find(ctx, func(i *item) bool { return i.Qty > 1 })
		require.NoError(t, err)
		require.Len(t, big, 1)

		one, err := c.FindOne(ctx, func(i *item) bool { return i.Name == "a" })
		require.NoError(t, err)
		assert.Equal(t, a.ID, one.ID)

		_, err = c.FindOne(ctx, func(i *item) bool { return i.Name == "z" })
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = c.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		n, err := c.Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestCollection_Update(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		db.now = func() time.Time { return now }
		c := NewCollection[item](db, "items")

		created, err := c.Create(ctx, &item{Name: "a", Qty: 1})
		require.NoError(t, err)

		now = now.Add(time.Hour)
		updated, err := c.Update(ctx, created.ID, func(i *item) error {
			i.Qty = 5
			i.ID = "hijack"
			i.CreatedAt = time.Time{}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID, "id 不可修改")
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "createdAt 不可修改")
		assert.True(t, updated.UpdatedAt.Equal(now))
		assert.Equal(t, 5, updated.Qty)

		stored, err := c.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, stored.Qty)
		assert.Equal(t, "a", stored.Name, "未修改的字段保留")

		_, err = c.Update(ctx, "missing", func(*item) error { return nil })
		assert.ErrorIs(t, err, ErrNotFound)

		boom := errors.New("boom")
		_, err = c.Update(ctx, created.ID, func(i *item) error {
			i.Qty = 100
			return boom
		})
		assert.ErrorIs(t, err, boom)
		stored, _ = c.FindByID(ctx, created.ID)
		assert.Equal(t, 5, stored.Qty, "mutate 失败时不写入")

		n, _ := c.Count(ctx, nil)
		assert.Equal(t, 1, n)
	})
}

func TestCollection_Delete(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		c := NewCollection[item](db, "items")
		a, _ := c.Create(ctx, &item{Name: "a"})
		_, _ = c.Create(ctx, &item{Name: "b"})
		_, _ = c.Create(ctx, &item{Name: "c"})

		ok, err := c.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.False(t, ok, "重复删除返回未找到")

		n, err := c.DeleteWhere(ctx, func(i *item) bool { return i.Name == "c" })
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		all, _ := c.FindAll(ctx)
		require.Len(t, all, 1)
		assert.Equal(t, "b", all[0].Name)
	})
}

func TestCollection_Upsert(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		c := NewCollection[item](db, "items")
		byName := func(i *item) bool { return i.Name == "hot" }
		inc := func(i *item, exists bool) error {
			if !exists {
				i.Name = "hot"
			}
			i.Qty++
			return nil
		}

		first, err := c.Upsert(ctx, byName, inc)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Qty)

		second, err := c.Upsert(ctx, byName, inc)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 2, second.Qty)

		n, _ := c.Count(ctx, nil)
		assert.Equal(t, 1, n)
	})
}

func TestCollection_ConcurrentUpdatesAreSerialized(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		c := NewCollection[item](db, "counters")
		// 另一个句柄共享同一把写锁
		other := NewCollection[item](db, "counters")
		rec, err := c.Create(ctx, &item{Name: "n"})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			target := c
			if i%2 == 0 {
				target = other
			}
			go func(col *items) {
				defer wg.Done()
				_, err := col.Update(ctx, rec.ID, func(it *item) error {
					it.Qty++
					return nil
				})
				assert.NoError(t, err)
			}(target)
		}
		wg.Wait()

		got, err := c.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, got.Qty)
	})
}

func TestCollection_Observer(t *testing.T) {
	var ops []string
	d, err := NewFileDriver(t.TempDir())
	require.NoError(t, err)
	db := New(d, WithObserver(func(op, collection string, _ time.Duration) {
		ops = append(ops, op+":"+collection)
	}))
	c := NewCollection[item](db, "items")
	rec, _ := c.Create(context.Background(), &item{Name: "a"})
	_, _ = c.FindByID(context.Background(), rec.ID)

	assert.Equal(t, []string{"create:items", "get:items"}, ops)
}

// ==================== FileDriver 测试 ====================

func TestFileDriver_PersistsJSONArray(t *testing.T) {
	db, dir := newFileDB(t)
	ctx := context.Background()
	c := NewCollection[item](db, "products")
	_, err := c.Create(ctx, &item{Base: Base{ID: "p1"}, Name: "手机", Tags: []string{"数码"}})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "products.json"))
	require.NoError(t, err)
	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "p1", docs[0]["id"])
	assert.Equal(t, "手机", docs[0]["name"])
	assert.Contains(t, docs[0], "createdAt")

	// 新驱动实例从文件载入
	d2, err := NewFileDriver(dir)
	require.NoError(t, err)
	got, err := NewCollection[item](New(d2), "products").FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"数码"}, got.Tags)

	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	assert.Empty(t, matches, "不残留临时文件")
}

func TestFileDriver_MissingFileIsEmpty(t *testing.T) {
	db, _ := newFileDB(t)
	all, err := NewCollection[item](db, "nothing").FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestFileDriver_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))
	d, err := NewFileDriver(dir)
	require.NoError(t, err)

	_, err = NewCollection[item](New(d), "bad").FindAll(context.Background())
	assert.Error(t, err)
}

// ==================== GormDriver 测试 ====================

func TestGormDriver_UpsertKeepsOrder(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	c := NewCollection[item](db, "items")
	a, _ := c.Create(ctx, &item{Name: "a"})
	_, _ = c.Create(ctx, &item{Name: "b"})

	_, err := c.Update(ctx, a.ID, func(i *item) error { i.Name = "a2"; return nil })
	require.NoError(t, err)

	all, err := c.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a2", all[0].Name, "更新不改变顺序")

	// 不同集合互不干扰
	others, err := NewCollection[item](db, "others").FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, others)
	assert.NoError(t, db.Ping(ctx))
}
