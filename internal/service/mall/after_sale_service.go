package mall

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/common/utils"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// afterSaleOrderStatuses 可申请售后的订单状态
var afterSaleOrderStatuses = []string{
	models.OrderStatusPaid,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

// AfterSaleService 售后服务
type AfterSaleService struct {
	afterSaleRepo *repository.AfterSaleRepository
	orderRepo     *repository.OrderRepository
	now           func() time.Time
}

// NewAfterSaleService 创建售后服务
func NewAfterSaleService(afterSaleRepo *repository.AfterSaleRepository, orderRepo *repository.OrderRepository) *AfterSaleService {
	return &AfterSaleService{afterSaleRepo: afterSaleRepo, orderRepo: orderRepo, now: time.Now}
}

// ContactRequest 联系人
type ContactRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Phone string `json:"phone" binding:"required,mobile"`
}

// ApplyAfterSaleRequest 售后申请
type ApplyAfterSaleRequest struct {
	OrderID     string           `json:"orderId" binding:"required"`
	Type        string           `json:"type" binding:"required,oneof=refund return exchange"`
	Reason      string           `json:"reason" binding:"required,max=100"`
	Description string           `json:"description" binding:"max=500"`
	Amount      *decimal.Decimal `json:"amount"`
	Contact     ContactRequest   `json:"contact"`
	Images      []string         `json:"images" binding:"omitempty,max=9"`
}

// ProcessAfterSaleRequest 管理员处理售后
type ProcessAfterSaleRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected completed"`
	Remark string `json:"remark" binding:"max=200"`
}

// AfterSaleList 售后分页结果
type AfterSaleList struct {
	List       []*models.AfterSale `json:"list"`
	Pagination store.Pagination    `json:"pagination"`
}

// AfterSaleDetail 售后详情
type AfterSaleDetail struct {
	*models.AfterSale
	Order *models.Order `json:"order,omitempty"`
}

// List 分页查询售后申请
func (s *AfterSaleService) List(ctx context.Context, userID, status string, page, pageSize int) (*AfterSaleList, error) {
	list, pg, err := s.afterSaleRepo.ListByUser(ctx, userID, status, page, pageSize)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return &AfterSaleList{List: list, Pagination: pg}, nil
}

// Apply 提交售后申请，金额默认为订单实付金额
func (s *AfterSaleService) Apply(ctx context.Context, userID string, req *ApplyAfterSaleRequest) (*models.AfterSale, error) {
	order, err := s.orderRepo.GetByUser(ctx, req.OrderID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !utils.Contains(afterSaleOrderStatuses, order.Status) {
		return nil, errors.ErrAfterSaleNotAllowed
	}
	if order.PaymentStatus == models.PaymentStatusRefunded && refundable(req.Type) {
		return nil, errors.ErrAfterSaleNotAllowed.WithMessage("订单已退款")
	}

	amount := order.FinalAmount
	if req.Amount != nil {
		if req.Amount.IsNegative() || req.Amount.GreaterThan(order.FinalAmount) {
			return nil, errors.ErrInvalidParams.WithFields(errors.FieldError{Field: "amount", Message: "退款金额需在0到订单实付金额之间"})
		}
		amount = *req.Amount
	}

	open, err := s.afterSaleRepo.HasOpen(ctx, order.ID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if open {
		return nil, errors.ErrAfterSaleNotAllowed.WithMessage("该订单已有处理中的售后申请")
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}
	as, err := s.afterSaleRepo.Create(ctx, &models.AfterSale{
		AfterSaleNumber: utils.GenerateAfterSaleNumber(),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          userID,
		Type:            req.Type,
		Reason:          req.Reason,
		Description:     req.Description,
		Amount:          amount,
		Images:          images,
		Contact:         models.Contact{Name: req.Contact.Name, Phone: req.Contact.Phone},
		Status:          models.AfterSaleStatusPending,
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	logger.Info("售后申请已提交", logger.UserID(userID), logger.OrderNumber(order.OrderNumber), logger.Module("after_sale"))
	return as, nil
}

// Get 售后详情及关联订单
func (s *AfterSaleService) Get(ctx context.Context, userID, id string) (*AfterSaleDetail, error) {
	as, err := s.afterSaleRepo.GetByUser(ctx, id, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrAfterSaleNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	detail := &AfterSaleDetail{AfterSale: as}
	if o, err := s.orderRepo.FindByID(ctx, as.OrderID); err == nil {
		detail.Order = o
	}
	return detail, nil
}

func (s *AfterSaleService) update(ctx context.Context, id string, mutate func(a *models.AfterSale) error) (*models.AfterSale, error) {
	as, err := s.afterSaleRepo.Update(ctx, id, mutate)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		if repository.IsNotFound(err) {
			return nil, errors.ErrAfterSaleNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return as, nil
}

// Cancel 撤销待处理的售后申请
func (s *AfterSaleService) Cancel(ctx context.Context, userID, id string) (*models.AfterSale, error) {
	if _, err := s.afterSaleRepo.GetByUser(ctx, id, userID); err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrAfterSaleNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	now := s.now()
	return s.update(ctx, id, func(a *models.AfterSale) error {
		if a.Status != models.AfterSaleStatusPending {
			return errors.ErrAfterSaleStatusError.WithMessage("只能取消待处理的售后申请")
		}
		a.Status = models.AfterSaleStatusCancelled
		a.CancelTime = &now
		return nil
	})
}

// Process 管理员处理售后：待处理的申请可改为任一处理结果，已同意的申请只能完成
// 退款和退货申请完成时同时退款
func (s *AfterSaleService) Process(ctx context.Context, id string, req *ProcessAfterSaleRequest) (*models.AfterSale, error) {
	now := s.now()
	as, err := s.update(ctx, id, func(a *models.AfterSale) error {
		allowed := a.Status == models.AfterSaleStatusPending ||
			(a.Status == models.AfterSaleStatusApproved && req.Status == models.AfterSaleStatusCompleted)
		if !allowed {
			return errors.ErrAfterSaleStatusError
		}
		a.Status = req.Status
		a.AdminRemark = req.Remark
		a.ProcessTime = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if as.Status == models.AfterSaleStatusCompleted && refundable(as.Type) {
		return s.refund(ctx, as), nil
	}
	return as, nil
}
