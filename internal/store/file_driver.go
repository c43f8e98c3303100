package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileDriver 每个集合一个 JSON 数组文件 <dir>/<collection>.json
// 集合首次访问时整体载入内存，每次写入后整体原子写回
type FileDriver struct {
	dir string

	mu          sync.RWMutex
	collections map[string]*fileCollection
}

type fileCollection struct {
	docs  []Document
	index map[string]int
}

// docMeta 从文档中读取元数据
type docMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewFileDriver 创建文件驱动，目录不存在时创建
func NewFileDriver(dir string) (*FileDriver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	return &FileDriver{dir: dir, collections: make(map[string]*fileCollection)}, nil
}

func (d *FileDriver) path(collection string) string {
	return filepath.Join(d.dir, collection+".json")
}

// load 调用方需持有写锁
func (d *FileDriver) load(collection string) (*fileCollection, error) {
	if fc, ok := d.collections[collection]; ok {
		return fc, nil
	}
	fc := &fileCollection{index: make(map[string]int)}

	raw, err := os.ReadFile(d.path(collection))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("store: read %s: %w", collection, err)
	case len(raw) > 0:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("store: parse %s: %w", collection, err)
		}
		for _, item := range items {
			var meta docMeta
			if err := json.Unmarshal(item, &meta); err != nil {
				return nil, fmt.Errorf("store: parse %s: %w", collection, err)
			}
			fc.index[meta.ID] = len(fc.docs)
			fc.docs = append(fc.docs, Document{ID: meta.ID, Data: item, CreatedAt: meta.CreatedAt, UpdatedAt: meta.UpdatedAt})
		}
	}
	d.collections[collection] = fc
	return fc, nil
}

func (d *FileDriver) cached(collection string) (*fileCollection, error) {
	d.mu.RLock()
	fc, ok := d.collections[collection]
	d.mu.RUnlock()
	if ok {
		return fc, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load(collection)
}

// flush 先写临时文件再重命名；调用方需持有写锁
func (d *FileDriver) flush(collection string, fc *fileCollection) error {
	items := make([]json.RawMessage, len(fc.docs))
	for i, doc := range fc.docs {
		items[i] = doc.Data
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", collection, err)
	}

	tmp, err := os.CreateTemp(d.dir, collection+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: write %s: %w", collection, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", collection, err)
	}
	if err := os.Rename(tmp.Name(), d.path(collection)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", collection, err)
	}
	return nil
}

// List 返回集合全部文档
func (d *FileDriver) List(_ context.Context, collection string) ([]Document, error) {
	fc, err := d.cached(collection)
	if err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Document, len(fc.docs))
	copy(out, fc.docs)
	return out, nil
}

// Get 按 id 获取文档
func (d *FileDriver) Get(_ context.Context, collection, id string) (*Document, error) {
	fc, err := d.cached(collection)
	if err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	i, ok := fc.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	doc := fc.docs[i]
	return &doc, nil
}

// Put 写入文档
func (d *FileDriver) Put(_ context.Context, collection string, doc Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	fc, err := d.load(collection)
	if err != nil {
		return err
	}

	if i, ok := fc.index[doc.ID]; ok {
		fc.docs[i] = doc
	} else {
		fc.index[doc.ID] = len(fc.docs)
		fc.docs = append(fc.docs, doc)
	}
	if err := d.flush(collection, fc); err != nil {
		// 内存与文件不一致，下次访问重新载入
		delete(d.collections, collection)
		return err
	}
	return nil
}

// Delete 删除文档
func (d *FileDriver) Delete(_ context.Context, collection, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fc, err := d.load(collection)
	if err != nil {
		return false, err
	}

	i, ok := fc.index[id]
	if !ok {
		return false, nil
	}
	fc.docs = append(fc.docs[:i], fc.docs[i+1:]...)
	delete(fc.index, id)
	for j := i; j < len(fc.docs); j++ {
		fc.index[fc.docs[j].ID] = j
	}
	if err := d.flush(collection, fc); err != nil {
		delete(d.collections, collection)
		return false, err
	}
	return true, nil
}

// Ping 检查数据目录可写
func (d *FileDriver) Ping(_ context.Context) error {
	info, err := os.Stat(d.dir)
	if err != nil {
		return fmt.Errorf("store: data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store: %s is not a directory", d.dir)
	}
	return nil
}

// Close 文件驱动无需释放资源
func (d *FileDriver) Close() error {
	return nil
}
