package mall

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
)

// CartService 购物车服务
type CartService struct {
	cartRepo    *repository.CartRepository
	productRepo *repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo *repository.CartRepository, productRepo *repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// CartLine 购物车展示条目
type CartLine struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Spec      string          `json:"spec"`
	Quantity  int             `json:"quantity"`
	Selected  bool            `json:"selected"`
	Stock     int             `json:"stock"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartSummary 购物车汇总
type CartSummary struct {
	// TotalCount 全部商品件数
	TotalCount int `json:"totalCount"`
	// SelectedCount 选中商品件数
	SelectedCount int `json:"selectedCount"`
	// TotalAmount 选中商品金额
	TotalAmount decimal.Decimal `json:"totalAmount"`
	// ItemCount 条目数
	ItemCount int `json:"itemCount"`
}

// Cart 购物车
type Cart struct {
	Items   []*CartLine `json:"items"`
	Summary CartSummary `json:"summary"`
}

// AddCartRequest 加入购物车请求
type AddCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=999"`
	Spec      string `json:"spec" binding:"max=100"`
}

// UpdateCartRequest 修改购物车条目请求
type UpdateCartRequest struct {
	Quantity *int  `json:"quantity" binding:"omitempty,min=1,max=999"`
	Selected *bool `json:"selected"`
}

// Get 获取购物车，商品已删除的条目会被清理
func (s *CartService) Get(ctx context.Context, userID string) (*Cart, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	cart := &Cart{Items: make([]*CartLine, 0, len(items)), Summary: CartSummary{TotalAmount: decimal.Zero}}
	for _, it := range items {
		p, err := s.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			if !repository.IsNotFound(err) {
				return nil, errors.ErrDatabaseError.WithError(err)
			}
			if _, err := s.cartRepo.Delete(ctx, it.ID); err != nil {
				logger.Warn("清理失效购物车条目失败", logger.UserID(userID), logger.Module("cart"))
			}
			continue
		}

		subtotal := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		cart.Items = append(cart.Items, &CartLine{
			ID:        it.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.MainImage(),
			Spec:      it.Spec,
			Quantity:  it.Quantity,
			Selected:  it.Selected,
			Stock:     p.Stock,
			Subtotal:  subtotal,
		})
		cart.Summary.TotalCount += it.Quantity
		if it.Selected {
			cart.Summary.SelectedCount += it.Quantity
			cart.Summary.TotalAmount = cart.Summary.TotalAmount.Add(subtotal)
		}
	}
	cart.Summary.ItemCount = len(cart.Items)
	return cart, nil
}

func (s *CartService) product(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrProductNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return p, nil
}

// Add 加入购物车，同商品同规格合并数量；created 表示是否新建条目
func (s *CartService) Add(ctx context.Context, userID string, req *AddCartRequest) (item *models.CartItem, created bool, err error) {
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}
	spec := req.Spec
	if spec == "" {
		spec = models.DefaultSpec
	}

	p, err := s.product(ctx, req.ProductID)
	if err != nil {
		return nil, false, err
	}
	if !p.IsActive {
		return nil, false, errors.ErrProductNotFound.WithMessage("商品已下架")
	}

	item, err = s.cartRepo.Upsert(ctx, repository.LineFilter(userID, p.ID, spec), func(i *models.CartItem, exists bool) error {
		if !exists {
			i.UserID = userID
			i.ProductID = p.ID
			i.Spec = spec
			i.Selected = true
		}
		if i.Quantity+qty > p.Stock {
			return errors.ErrStockInsufficient
		}
		i.Quantity += qty
		created = !exists
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, false, err
		}
		return nil, false, errors.ErrDatabaseError.WithError(err)
	}
	return item, created, nil
}

// Update 修改条目数量或选中状态
func (s *CartService) Update(ctx context.Context, userID, id string, req *UpdateCartRequest) (*models.CartItem, error) {
	item, err := s.cartRepo.GetByUser(ctx, id, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrCartItemNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	stock := -1
	if req.Quantity != nil {
		p, err := s.product(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		stock = p.Stock
	}

	updated, err := s.cartRepo.Update(ctx, item.ID, func(i *models.CartItem) error {
		if req.Quantity != nil {
			if *req.Quantity > stock {
				return errors.ErrStockInsufficient
			}
			i.Quantity = *req.Quantity
		}
		if req.Selected != nil {
			i.Selected = *req.Selected
		}
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		if repository.IsNotFound(err) {
			return nil, errors.ErrCartItemNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return updated, nil
}

// Remove 删除条目
func (s *CartService) Remove(ctx context.Context, userID, id string) error {
	if _, err := s.cartRepo.GetByUser(ctx, id, userID); err != nil {
		if repository.IsNotFound(err) {
			return errors.ErrCartItemNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if _, err := s.cartRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// SelectAll 全选或取消全选，返回条目数
func (s *CartService) SelectAll(ctx context.Context, userID string, selected bool) (int, error) {
	n, err := s.cartRepo.SetSelectedAll(ctx, userID, selected)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	return n, nil
}

// RemoveSelected 删除选中条目，没有选中时返回错误
func (s *CartService) RemoveSelected(ctx context.Context, userID string) (int, error) {
	n, err := s.cartRepo.DeleteSelected(ctx, userID)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	if n == 0 {
		return 0, errors.ErrCartNoneSelected
	}
	return n, nil
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID string) (int, error) {
	n, err := s.cartRepo.Clear(ctx, userID)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	return n, nil
}
