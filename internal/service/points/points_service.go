// Package points 提供积分余额、流水与抵扣服务
package points

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/service/pricing"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// 默认流水原因
const (
	ReasonSpend = "订单抵扣"
	ReasonEarn  = "获得积分"
)

// PointsService 积分服务
type PointsService struct {
	userRepo   *repository.UserRepository
	pointsRepo *repository.PointsRepository
	rules      pricing.Rules
}

// NewPointsService 创建积分服务
func NewPointsService(userRepo *repository.UserRepository, pointsRepo *repository.PointsRepository, rules pricing.Rules) *PointsService {
	return &PointsService{userRepo: userRepo, pointsRepo: pointsRepo, rules: rules}
}

// Balance 积分余额
type Balance struct {
	UserID string `json:"userId"`
	Points int    `json:"points"`
}

// RecordList 积分流水分页
type RecordList struct {
	Records    []*models.PointsRecord `json:"records"`
	Pagination store.Pagination       `json:"pagination"`
}

// PointsUsage 是否使用积分抵扣
// JSON 中 true 表示尽量抵扣，false 或缺省不抵扣，非负整数表示最多使用的积分
type PointsUsage struct {
	Use bool
	Max *int
}

// UnmarshalJSON 接受布尔值或非负整数
func (u *PointsUsage) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch raw {
	case "null", "false":
		*u = PointsUsage{}
		return nil
	case "true":
		*u = PointsUsage{Use: true}
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fmt.Errorf("usePoints 必须为布尔值或非负整数: %s", raw)
	}
	*u = PointsUsage{Use: true, Max: &n}
	return nil
}

// MarshalJSON 指定上限时输出数字，否则输出布尔值
func (u PointsUsage) MarshalJSON() ([]byte, error) {
	if u.Max != nil {
		return []byte(strconv.Itoa(*u.Max)), nil
	}
	return []byte(strconv.FormatBool(u.Use)), nil
}

// CalculateRequest 抵扣预览请求
type CalculateRequest struct {
	OrderAmount decimal.Decimal `json:"orderAmount"`
	UsePoints   PointsUsage     `json:"usePoints" swaggertype:"boolean"`
}

// CalculateResult 抵扣预览
type CalculateResult struct {
	pricing.PointsResult
	// RequestedPoints 请求使用的积分，未指定上限时与 UsablePoints 相同
	RequestedPoints int `json:"requestedPoints"`
}

// ChangeRequest 积分变动请求
type ChangeRequest struct {
	Points  int    `json:"points" binding:"required,min=1"`
	OrderID string `json:"orderId"`
	Reason  string `json:"reason" binding:"max=100"`
}

// ChangeResult 积分变动结果
type ChangeResult struct {
	Balance int                  `json:"balance"`
	Record  *models.PointsRecord `json:"record"`
}

func userError(err error) error {
	if repository.IsNotFound(err) {
		return errors.ErrUserNotFound
	}
	if errors.IsAppError(err) {
		return err
	}
	return errors.ErrDatabaseError.WithError(err)
}

// Balance 查询余额
func (s *PointsService) Balance(ctx context.Context, userID string) (*Balance, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, userError(err)
	}
	return &Balance{UserID: u.ID, Points: u.Points}, nil
}

// Records 积分流水
func (s *PointsService) Records(ctx context.Context, userID, typ string, page, limit int) (*RecordList, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, userError(err)
	}
	records, pg, err := s.pointsRepo.ListByUser(ctx, userID, typ, page, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return &RecordList{Records: records, Pagination: pg}, nil
}

// Calculate 积分抵扣预览
func (s *PointsService) Calculate(ctx context.Context, userID string, req *CalculateRequest) (*CalculateResult, error) {
	if !req.OrderAmount.IsPositive() {
		return nil, errors.ErrInvalidParams.WithFields(errors.FieldError{Field: "orderAmount", Message: "订单金额必须大于0"})
	}
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, userError(err)
	}

	balance := 0
	if req.UsePoints.Use {
		balance = u.Points
		if m := req.UsePoints.Max; m != nil && *m < balance {
			balance = *m
		}
	}
	res := s.rules.PointsDeduction(balance, req.OrderAmount)
	res.AvailablePoints = u.Points
	requested := res.UsablePoints
	if req.UsePoints.Max != nil {
		requested = *req.UsePoints.Max
	}
	return &CalculateResult{PointsResult: res, RequestedPoints: requested}, nil
}

// Spend 消费积分，余额不足时拒绝
func (s *PointsService) Spend(ctx context.Context, userID string, req *ChangeRequest) (*ChangeResult, error) {
	reason := req.Reason
	if reason == "" {
		reason = ReasonSpend
	}
	return s.change(ctx, userID, models.PointsTypeSpend, -req.Points, reason, req.OrderID)
}

// Earn 增加积分
func (s *PointsService) Earn(ctx context.Context, userID string, req *ChangeRequest) (*ChangeResult, error) {
	reason := req.Reason
	if reason == "" {
		reason = ReasonEarn
	}
	return s.change(ctx, userID, models.PointsTypeEarn, req.Points, reason, req.OrderID)
}

// change 余额变动与流水写入都在用户集合的写锁内完成
func (s *PointsService) change(ctx context.Context, userID, typ string, amount int, reason, orderID string) (*ChangeResult, error) {
	if amount == 0 {
		return nil, errors.ErrInvalidParams.WithMessage("积分数量必须大于0")
	}

	var record *models.PointsRecord
	u, err := s.userRepo.Update(ctx, userID, func(u *models.User) error {
		next := u.Points + amount
		if next < 0 {
			return errors.ErrPointsNotEnough
		}
		rec, err := s.pointsRepo.Create(ctx, &models.PointsRecord{
			UserID:  userID,
			Type:    typ,
			Amount:  amount,
			Reason:  reason,
			OrderID: orderID,
			Balance: next,
		})
		if err != nil {
			return err
		}
		record = rec
		u.Points = next
		return nil
	})
	if err != nil {
		if record != nil {
			_, _ = s.pointsRepo.Delete(ctx, record.ID)
		}
		return nil, userError(err)
	}

	logger.Info("积分变动",
		logger.UserID(userID),
		logger.Module("points"),
		logger.Action(typ),
	)
	return &ChangeResult{Balance: u.Points, Record: record}, nil
}
