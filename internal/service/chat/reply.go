package chat

import "strings"

type replyRule struct {
	keywords []string
	text     string
}

// 按顺序匹配，先命中者优先
var replyRules = []replyRule{
	{[]string{"订单", "order"}, `关于订单问题，您可以在"我的订单"中查看订单状态。如需取消订单，请在订单详情页面操作。有其他订单相关问题请详细描述，我会为您解答。`},
	{[]string{"退款", "退货"}, `退款退货流程：1. 进入"我的订单"找到相应订单；2. 点击"申请退款"；3. 填写退款原因；4. 等待审核。一般3-7个工作日处理完成。`},
	{[]string{"物流", "快递"}, `您可以在"我的订单"中点击"查看物流"来跟踪包裹状态。如果物流信息长时间未更新，请提供订单号，我来帮您查询。`},
	{[]string{"优惠券", "coupon"}, `优惠券使用说明：1. 在结算页面选择可用优惠券；2. 注意使用条件和有效期；3. 部分商品可能不支持优惠券。更多优惠券可在"优惠券中心"领取。`},
	{[]string{"账户", "密码"}, `账户相关问题：忘记密码可通过"找回密码"功能重置；账户安全问题请及时联系客服；个人信息可在"个人资料"中修改。`},
	{[]string{"支付", "付款"}, "支付相关问题：我们支持微信支付、支付宝等多种支付方式。如遇支付失败，请检查网络连接或更换支付方式。如有扣款但订单未生成，请联系客服处理。"},
	{[]string{"商品", "产品"}, "商品相关咨询：您可以在商品详情页查看详细信息、用户评价等。如需了解库存、规格等具体问题，请提供商品名称或链接，我来为您查询。"},
	{[]string{"你好", "hello", "hi"}, "您好！很高兴为您服务。请问有什么可以帮助您的吗？您可以咨询订单、退款、物流、商品等相关问题。"},
}

// defaultReply 未命中关键词时的回复
const defaultReply = "感谢您的咨询！我已收到您的问题，正在为您查询相关信息。如果问题比较复杂，建议您拨打客服热线400-123-4567，我们的人工客服会为您详细解答。"

// AutoReply 按关键词生成客服回复
func AutoReply(message string) string {
	m := strings.ToLower(message)
	for _, r := range replyRules {
		for _, kw := range r.keywords {
			if strings.Contains(m, kw) {
				return r.text
			}
		}
	}
	return defaultReply
}
