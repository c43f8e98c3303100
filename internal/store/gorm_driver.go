package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dumeirei/shopping-app-backend/internal/common/database"
)

// Record records 表的一行
type Record struct {
	Collection string    `gorm:"primaryKey;type:varchar(64)"`
	ID         string    `gorm:"primaryKey;type:varchar(64)"`
	Data       string    `gorm:"type:text;not null"`
	Seq        int64     `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName 表名
func (Record) TableName() string {
	return "records"
}

// GormDriver 所有集合共用一张 records 表，seq 记录插入顺序
type GormDriver struct {
	db *gorm.DB
}

// NewGormDriver 创建 SQL 驱动并迁移 records 表
func NewGormDriver(db *gorm.DB) (*GormDriver, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("store: migrate records: %w", err)
	}
	return &GormDriver{db: db}, nil
}

func toDocument(r *Record) Document {
	return Document{ID: r.ID, Data: []byte(r.Data), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// List 按 seq 返回集合全部文档
func (d *GormDriver) List(ctx context.Context, collection string) ([]Document, error) {
	var rows []Record
	if err := d.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("seq ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: list %s: %w", collection, err)
	}
	out := make([]Document, len(rows))
	for i := range rows {
		out[i] = toDocument(&rows[i])
	}
	return out, nil
}

// Get 按 id 获取文档
func (d *GormDriver) Get(ctx context.Context, collection, id string) (*Document, error) {
	var row Record
	err := d.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s/%s: %w", collection, id, err)
	}
	doc := toDocument(&row)
	return &doc, nil
}

// Put 插入或更新文档，更新时保留原 seq
func (d *GormDriver) Put(ctx context.Context, collection string, doc Document) error {
	row := Record{
		Collection: collection,
		ID:         doc.ID,
		Data:       string(doc.Data),
		Seq:        time.Now().UnixNano(),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("store: put %s/%s: %w", collection, doc.ID, err)
	}
	return nil
}

// Delete 删除文档
func (d *GormDriver) Delete(ctx context.Context, collection, id string) (bool, error) {
	res := d.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&Record{})
	if res.Error != nil {
		return false, fmt.Errorf("store: delete %s/%s: %w", collection, id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Ping 检查数据库连接
func (d *GormDriver) Ping(ctx context.Context) error {
	return database.Ping(ctx, d.db)
}

// Close 关闭数据库连接
func (d *GormDriver) Close() error {
	return database.Close(d.db)
}
