package mall

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/common/utils"
	"github.com/dumeirei/shopping-app-backend/internal/models"
)

// refundable 完成后需要退款的售后类型
func refundable(typ string) bool {
	return typ == models.AfterSaleTypeRefund || typ == models.AfterSaleTypeReturn
}

// refund 售后完成后在订单上记录模拟退款，订单仅能退款一次
// 售后状态已提交，订单写入失败时只记录日志
func (s *AfterSaleService) refund(ctx context.Context, as *models.AfterSale) *models.AfterSale {
	now := s.now()
	no := utils.GenerateRefundNumber()
	_, err := s.orderRepo.Update(ctx, as.OrderID, func(o *models.Order) error {
		if o.PaymentStatus != models.PaymentStatusPaid {
			return errors.ErrAfterSaleNotAllowed.WithMessage("订单未支付或已退款")
		}
		o.PaymentStatus = models.PaymentStatusRefunded
		o.Refund = &models.OrderRefund{
			RefundNumber: no,
			AfterSaleID:  as.ID,
			Amount:       as.Amount,
			RefundTime:   now,
		}
		return nil
	})
	if err != nil {
		logger.Error("售后退款失败",
			logger.OrderNumber(as.OrderNumber),
			logger.Module("after_sale"),
			logger.Err(err),
		)
		return as
	}

	updated, err := s.afterSaleRepo.Update(ctx, as.ID, func(a *models.AfterSale) error {
		a.RefundNumber = no
		return nil
	})
	if err != nil {
		logger.Error("记录退款单号失败", logger.OrderNumber(as.OrderNumber), logger.Module("after_sale"), logger.Err(err))
		as.RefundNumber = no
		return as
	}
	logger.Info("售后退款完成",
		logger.OrderNumber(as.OrderNumber),
		logger.String("refund_number", no),
		logger.Action("refund"),
	)
	return updated
}
