package mall

import (
	"context"
	"fmt"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// 评价排序方式
const (
	ReviewSortLatest  = "latest"
	ReviewSortHighest = "highest"
	ReviewSortLowest  = "lowest"
)

// anonymousName 匿名评价展示的用户名
const anonymousName = "匿名用户"

// ReviewService 评价查询服务
type ReviewService struct {
	reviewRepo *repository.ReviewRepository
	userRepo   *repository.UserRepository
}

// NewReviewService 创建评价查询服务
func NewReviewService(reviewRepo *repository.ReviewRepository, userRepo *repository.UserRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, userRepo: userRepo}
}

// ReviewItem 评价及评价人
type ReviewItem struct {
	*models.Review
	UserName   string `json:"userName"`
	UserAvatar string `json:"userAvatar,omitempty"`
}

// ReviewStatistics 评分统计
type ReviewStatistics struct {
	AverageRating      string         `json:"averageRating"`
	TotalReviews       int            `json:"totalReviews"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
}

// ReviewList 评价分页结果
type ReviewList struct {
	List       []*ReviewItem    `json:"list"`
	Pagination store.Pagination `json:"pagination"`
	Statistics ReviewStatistics `json:"statistics"`
}

func reviewLess(sort string) func(a, b *models.Review) bool {
	switch sort {
	case ReviewSortHighest:
		return func(a, b *models.Review) bool { return a.Rating > b.Rating }
	case ReviewSortLowest:
		return func(a, b *models.Review) bool { return a.Rating < b.Rating }
	default:
		return func(a, b *models.Review) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
}

// List 查询评价，productID 为空时查询全部；统计基于过滤后的全部评价
func (s *ReviewService) List(ctx context.Context, productID, sort string, page, limit int) (*ReviewList, error) {
	reviews, err := s.reviewRepo.Query().
		Where(func(r *models.Review) bool { return productID == "" || r.ProductID == productID }).
		SortBy(reviewLess(sort)).
		All(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	dist := map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
	for _, r := range reviews {
		dist[fmt.Sprint(r.Rating)]++
	}

	pageItems := store.Slice(reviews, page, limit)
	items := make([]*ReviewItem, 0, len(pageItems))
	for _, r := range pageItems {
		items = append(items, s.withAuthor(ctx, r))
	}

	return &ReviewList{
		List:       items,
		Pagination: store.NewPagination(page, limit, len(reviews)),
		Statistics: ReviewStatistics{
			AverageRating:      fmt.Sprintf("%.1f", averageRating(reviews)),
			TotalReviews:       len(reviews),
			RatingDistribution: dist,
		},
	}, nil
}

func (s *ReviewService) withAuthor(ctx context.Context, r *models.Review) *ReviewItem {
	item := &ReviewItem{Review: r, UserName: anonymousName}
	if r.IsAnonymous {
		return item
	}
	if u, err := s.userRepo.FindByID(ctx, r.UserID); err == nil {
		item.UserName = u.Username
		if u.Profile.Nickname != "" {
			item.UserName = u.Profile.Nickname
		}
		item.UserAvatar = u.Avatar
	}
	return item
}
