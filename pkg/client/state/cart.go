package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/pkg/client"
)

// DefaultSpec 未选择规格时的规格名
const DefaultSpec = "默认规格"

// ErrInvalidQuantity 数量必须为正数
var ErrInvalidQuantity = errors.New("数量必须大于 0")

// localIDPrefix 未登录时本地条目的临时 id 前缀
const localIDPrefix = "local_"

// CartAPI 服务端购物车接口，*client.CartAPI 实现了该接口
type CartAPI interface {
	Get(ctx context.Context) (*client.Cart, error)
	Add(ctx context.Context, req *client.AddCartRequest) (*client.CartLine, error)
	Update(ctx context.Context, id string, req *client.UpdateCartRequest) (*client.CartLine, error)
	Remove(ctx context.Context, id string) error
	SelectAll(ctx context.Context, selected bool) (int, error)
	RemoveSelected(ctx context.Context) (int, error)
	Clear(ctx context.Context) (int, error)
}

// LoginChecker 判断是否处于有效登录态
type LoginChecker interface {
	CheckTokenExpiration() bool
}

// Product 加入购物车的商品
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Image string
}

// Cart 购物车状态：登录时镜像服务端，未登录时维护本地列表
type Cart struct {
	mu         sync.Mutex
	api        CartAPI
	session    LoginChecker
	items      []*client.CartLine
	nextID     int
	lastSynced time.Time
}

// NewCart 创建购物车状态
func NewCart(api CartAPI, session LoginChecker) *Cart {
	return &Cart{api: api, session: session}
}

func (c *Cart) online() bool {
	return c.session != nil && c.api != nil && c.session.CheckTokenExpiration()
}

// Load 从服务端加载购物车，未登录时不做任何事
func (c *Cart) Load(ctx context.Context) error {
	if !c.online() {
		return nil
	}
	return c.reload(ctx)
}

func (c *Cart) reload(ctx context.Context) error {
	cart, err := c.api.Get(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items = cart.Items
	c.lastSynced = time.Now()
	c.mu.Unlock()
	return nil
}

// LastSynced 最近一次从服务端同步的时间
func (c *Cart) LastSynced() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSynced
}

// Add 加入购物车，同商品同规格合并数量
func (c *Cart) Add(ctx context.Context, p Product, quantity int, spec string) error {
	if quantity <= 0 {
		quantity = 1
	}
	if spec == "" {
		spec = DefaultSpec
	}

	if c.online() {
		if _, err := c.api.Add(ctx, &client.AddCartRequest{ProductID: p.ID, Quantity: quantity, Spec: spec}); err != nil {
			return err
		}
		return c.reload(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.ProductID == p.ID && it.Spec == spec {
			it.Quantity += quantity
			it.Subtotal = it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			return nil
		}
	}
	c.nextID++
	c.items = append(c.items, &client.CartLine{
		ID:        localIDPrefix + strconv.Itoa(c.nextID),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Spec:      spec,
		Quantity:  quantity,
		Selected:  true,
		Subtotal:  p.Price.Mul(decimal.NewFromInt(int64(quantity))),
	})
	return nil
}

// find 调用方需持有锁
func (c *Cart) find(id string) (int, *client.CartLine) {
	for i, it := range c.items {
		if it.ID == id {
			return i, it
		}
	}
	return -1, nil
}

// Remove 删除条目
func (c *Cart) Remove(ctx context.Context, id string) error {
	if c.online() {
		if err := c.api.Remove(ctx, id); err != nil {
			return err
		}
		return c.reload(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i, _ := c.find(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	return nil
}

// UpdateQuantity 修改数量
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if c.online() {
		if _, err := c.api.Update(ctx, id, &client.UpdateCartRequest{Quantity: &quantity}); err != nil {
			return err
		}
		return c.reload(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, it := c.find(id); it != nil {
		it.Quantity = quantity
		it.Subtotal = it.Price.Mul(decimal.NewFromInt(int64(quantity)))
	}
	return nil
}

// SetSelected 修改单条选中状态
func (c *Cart) SetSelected(ctx context.Context, id string, selected bool) error {
	if c.online() {
		if _, err := c.api.Update(ctx, id, &client.UpdateCartRequest{Selected: &selected}); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, it := c.find(id); it != nil {
		it.Selected = selected
	}
	return nil
}

// SelectAll 全选或取消全选
func (c *Cart) SelectAll(ctx context.Context, selected bool) error {
	if c.online() {
		if _, err := c.api.SelectAll(ctx, selected); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		it.Selected = selected
	}
	return nil
}

// RemoveSelected 删除选中条目
func (c *Cart) RemoveSelected(ctx context.Context) error {
	if c.online() {
		if _, err := c.api.RemoveSelected(ctx); err != nil {
			return err
		}
		return c.reload(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, it := range c.items {
		if !it.Selected {
			kept = append(kept, it)
		}
	}
	c.items = kept
	return nil
}

// Clear 清空购物车
func (c *Cart) Clear(ctx context.Context) error {
	if c.online() {
		if _, err := c.api.Clear(ctx); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	return nil
}

// SyncLocalToServer 登录后将本地条目逐条推送到服务端，成功后以服务端为准
func (c *Cart) SyncLocalToServer(ctx context.Context) error {
	if !c.online() {
		return nil
	}

	c.mu.Lock()
	local := make([]*client.CartLine, 0, len(c.items))
	for _, it := range c.items {
		if isLocalID(it.ID) {
			local = append(local, it)
		}
	}
	c.mu.Unlock()

	for _, it := range local {
		spec := it.Spec
		if spec == "" {
			spec = DefaultSpec
		}
		if _, err := c.api.Add(ctx, &client.AddCartRequest{ProductID: it.ProductID, Quantity: it.Quantity, Spec: spec}); err != nil {
			return fmt.Errorf("同步购物车失败: %w", err)
		}
	}
	return c.reload(ctx)
}

func isLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}

// Items 条目副本
func (c *Cart) Items() []client.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]client.CartLine, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, *it)
	}
	return out
}

// Count 条目数
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// TotalCount 商品总件数
func (c *Cart) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// TotalAmount 全部条目金额
func (c *Cart) TotalAmount() decimal.Decimal {
	return c.sum(func(*client.CartLine) bool { return true })
}

// SelectedAmount 选中条目金额
func (c *Cart) SelectedAmount() decimal.Decimal {
	return c.sum(func(it *client.CartLine) bool { return it.Selected })
}

// SelectedCount 选中条目数
func (c *Cart) SelectedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		if it.Selected {
			n++
		}
	}
	return n
}

func (c *Cart) sum(include func(*client.CartLine) bool) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, it := range c.items {
		if include(it) {
			total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return total
}
