package user

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/shopping-app-backend/internal/common/handler"
	userService "github.com/dumeirei/shopping-app-backend/internal/service/user"
)

// ListAddresses 收货地址列表
// @Summary 收货地址列表
// @Tags 收货地址
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.Address}
// @Router /user/addresses [get]
func (h *Handler) ListAddresses(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	list, err := h.addressService.List(c.Request.Context(), userID)
	handler.MustSucceed(c, err, list)
}

// CreateAddress 新增收货地址
// @Summary 新增收货地址
// @Tags 收货地址
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body userService.CreateAddressRequest true "请求参数"
// @Success 201 {object} response.Response{data=models.Address}
// @Router /user/addresses [post]
func (h *Handler) CreateAddress(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req userService.CreateAddressRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	addr, err := h.addressService.Create(c.Request.Context(), userID, &req)
	handler.MustCreate(c, err, "地址添加成功", addr)
}

// UpdateAddress 修改收货地址
// @Summary 修改收货地址
// @Tags 收货地址
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "地址ID"
// @Param request body userService.UpdateAddressRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Address}
// @Router /user/addresses/{id} [put]
func (h *Handler) UpdateAddress(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "地址")
	if !ok {
		return
	}

	var req userService.UpdateAddressRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	addr, err := h.addressService.Update(c.Request.Context(), userID, id, &req)
	handler.MustSucceedWithMessage(c, err, "地址更新成功", addr)
}

// DeleteAddress 删除收货地址
// @Summary 删除收货地址
// @Tags 收货地址
// @Produce json
// @Security Bearer
// @Param id path string true "地址ID"
// @Success 200 {object} response.Response
// @Router /user/addresses/{id} [delete]
func (h *Handler) DeleteAddress(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "地址")
	if !ok {
		return
	}

	err := h.addressService.Delete(c.Request.Context(), userID, id)
	handler.MustSucceedWithMessage(c, err, "地址删除成功", nil)
}

// SetDefaultAddress 设为默认地址
// @Summary 设为默认地址
// @Tags 收货地址
// @Produce json
// @Security Bearer
// @Param id path string true "地址ID"
// @Success 200 {object} response.Response{data=models.Address}
// @Router /user/addresses/{id}/default [put]
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	userID, id, ok := handler.RequireUserAndParseID(c, "地址")
	if !ok {
		return
	}

	addr, err := h.addressService.SetDefault(c.Request.Context(), userID, id)
	handler.MustSucceedWithMessage(c, err, "已设为默认地址", addr)
}
