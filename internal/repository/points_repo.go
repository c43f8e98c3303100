package repository

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// PointsRepository 积分流水仓储
type PointsRepository struct {
	*store.Collection[models.PointsRecord, *models.PointsRecord]
}

// NewPointsRepository 创建积分流水仓储
func NewPointsRepository(db *store.DB) *PointsRepository {
	return &PointsRepository{store.NewCollection[models.PointsRecord](db, models.CollectionPointsRecords)}
}

// ListByUser 分页查询积分流水，typ 为空时不过滤，按时间倒序
func (r *PointsRepository) ListByUser(ctx context.Context, userID, typ string, page, limit int) ([]*models.PointsRecord, store.Pagination, error) {
	return r.Query().
		Where(func(p *models.PointsRecord) bool {
			return p.UserID == userID && (typ == "" || p.Type == typ)
		}).
		SortBy(func(a, b *models.PointsRecord) bool { return a.CreatedAt.After(b.CreatedAt) }).
		Page(ctx, page, limit)
}
