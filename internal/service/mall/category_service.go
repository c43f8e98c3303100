package mall

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
)

// 分类详情中热销商品数量
const categoryHotProducts = 8

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	productRepo  *repository.ProductRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo *repository.CategoryRepository, productRepo *repository.ProductRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, productRepo: productRepo}
}

// CategoryInfo 带商品数的分类
type CategoryInfo struct {
	*models.Category
	ProductCount int `json:"productCount"`
}

// CategoryBrief 子分类摘要
type CategoryBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// ProductBrief 商品摘要
type ProductBrief struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Image         string          `json:"image"`
	Sales         int             `json:"sales"`
	Rating        float64         `json:"rating"`
}

// CategoryDetail 分类详情
type CategoryDetail struct {
	*models.Category
	ProductCount  int             `json:"productCount"`
	SubCategories []CategoryBrief `json:"subCategories"`
	HotProducts   []ProductBrief  `json:"hotProducts"`
}

// CategoryNode 分类树节点
type CategoryNode struct {
	*models.Category
	ProductCount int             `json:"productCount"`
	Children     []*CategoryNode `json:"children,omitempty"`
}

func (s *CategoryService) withCounts(ctx context.Context) ([]*CategoryInfo, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	counts, err := s.productRepo.CountActiveByCategory(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	out := make([]*CategoryInfo, 0, len(categories))
	for _, c := range categories {
		out = append(out, &CategoryInfo{Category: c, ProductCount: counts[c.ID]})
	}
	return out, nil
}

// List 启用的分类及其上架商品数
func (s *CategoryService) List(ctx context.Context) ([]*CategoryInfo, error) {
	return s.withCounts(ctx)
}

// Get 分类详情，含子分类和销量最高的商品
func (s *CategoryService) Get(ctx context.Context, id string) (*CategoryDetail, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	inCategory := func(p *models.Product) bool { return p.CategoryID == id }
	count, err := s.productRepo.Count(ctx, func(p *models.Product) bool { return p.IsActive && inCategory(p) })
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	hot, err := s.productRepo.TopBySales(ctx, inCategory, categoryHotProducts)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	children, err := s.categoryRepo.Children(ctx, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	detail := &CategoryDetail{
		Category:      c,
		ProductCount:  count,
		SubCategories: make([]CategoryBrief, 0, len(children)),
		HotProducts:   make([]ProductBrief, 0, len(hot)),
	}
	for _, child := range children {
		detail.SubCategories = append(detail.SubCategories, CategoryBrief{ID: child.ID, Name: child.Name, Icon: child.Icon})
	}
	for _, p := range hot {
		detail.HotProducts = append(detail.HotProducts, ProductBrief{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			Image:         p.MainImage(),
			Sales:         p.Sales,
			Rating:        p.Rating,
		})
	}
	return detail, nil
}

// Tree 从根分类开始的分类树，无子分类时不输出 children
func (s *CategoryService) Tree(ctx context.Context) ([]*CategoryNode, error) {
	infos, err := s.withCounts(ctx)
	if err != nil {
		return nil, err
	}

	byParent := make(map[string][]*CategoryInfo)
	for _, info := range infos {
		parent := ""
		if info.ParentID != nil {
			parent = *info.ParentID
		}
		byParent[parent] = append(byParent[parent], info)
	}

	var build func(parent string, seen map[string]bool) []*CategoryNode
	build = func(parent string, seen map[string]bool) []*CategoryNode {
		nodes := make([]*CategoryNode, 0, len(byParent[parent]))
		for _, info := range byParent[parent] {
			if seen[info.ID] {
				continue
			}
			seen[info.ID] = true
			node := &CategoryNode{Category: info.Category, ProductCount: info.ProductCount}
			if children := build(info.ID, seen); len(children) > 0 {
				node.Children = children
			}
			nodes = append(nodes, node)
		}
		return nodes
	}
	return build("", make(map[string]bool)), nil
}

// Hot 商品数最多的分类
func (s *CategoryService) Hot(ctx context.Context, limit int) ([]*CategoryInfo, error) {
	infos, err := s.withCounts(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].ProductCount > infos[j].ProductCount })
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}
