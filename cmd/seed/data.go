package main

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/shopping-app-backend/internal/common/jwt"
	"github.com/dumeirei/shopping-app-backend/internal/models"
)

// demoPassword 演示账号的统一密码
const demoPassword = "123456"

func demoUsers() []*models.User {
	return []*models.User{
		{
			Username: "admin",
			Email:    "admin@example.com",
			Phone:    "13800138000",
			Avatar:   "/static/images/avatar/admin.png",
			Roles:    []string{jwt.RoleAdmin},
			IsActive: true,
			Points:   1000,
			Profile:  models.Profile{Nickname: "管理员", Gender: "male", Birthday: "1990-01-01", Address: "北京市朝阳区"},
		},
		{
			Username: "user1",
			Email:    "user1@example.com",
			Phone:    "13800138001",
			Avatar:   "/static/images/avatar/user1.png",
			Roles:    []string{jwt.RoleUser},
			IsActive: true,
			Points:   500,
			Profile:  models.Profile{Nickname: "普通用户", Gender: "female", Birthday: "1995-05-15", Address: "上海市浦东新区"},
		},
	}
}

func demoCategories() []*models.Category {
	names := []struct{ name, key string }{
		{"手机数码", "phone"},
		{"服装鞋包", "clothing"},
		{"食品生鲜", "food"},
		{"家居家装", "home"},
		{"美妆个护", "beauty"},
	}
	out := make([]*models.Category, 0, len(names))
	for i, n := range names {
		out = append(out, &models.Category{
			Name:     n.name,
			Icon:     "/static/images/category/" + n.key + ".png",
			Banner:   "/static/images/category/banner_" + n.key + ".jpg",
			Sort:     i + 1,
			IsActive: true,
		})
	}
	return out
}

// productSeed 商品种子，category 为 demoCategories 中的下标
type productSeed struct {
	name, subtitle, description string
	price, originalPrice        string
	image                       string
	category                    int
	stock, sales                int
	rating                      float64
	reviewCount, goodRate       int
	promotion                   string
	tags                        []string
	specs                       []models.Specification
	featured                    bool
}

func demoProducts() []productSeed {
	return []productSeed{
		{
			name: "2023新款智能手机 全网通5G", subtitle: "6.7英寸全面屏 8GB+256GB 超长续航",
			description: "这是一款性能强劲的智能手机，采用最新的处理器，运行速度快，功耗低",
			price:       "1999.00", originalPrice: "2599.00", image: "phone", category: 0,
			stock: 500, sales: 1000, rating: 4.8, reviewCount: 856, goodRate: 98,
			promotion: "满2000减200, 购买赠送保护壳+钢化膜",
			tags:      []string{"智能手机", "5G", "全面屏", "长续航"},
			specs: []models.Specification{
				{Name: "颜色", Options: []string{"黑色", "白色", "蓝色"}},
				{Name: "版本", Options: []string{"8GB+128GB", "8GB+256GB", "12GB+256GB"}},
			},
			featured: true,
		},
		{
			name: "超薄笔记本电脑", subtitle: "轻薄便携 高性能办公",
			description: "14英寸超薄笔记本，搭载最新处理器，轻薄便携，适合商务办公",
			price:       "4999.00", originalPrice: "5999.00", image: "laptop", category: 0,
			stock: 80, sales: 890, rating: 4.6, reviewCount: 432, goodRate: 95,
			promotion: "购买送鼠标+电脑包",
			tags:      []string{"笔记本", "轻薄", "办公", "高性能"},
			specs: []models.Specification{
				{Name: "颜色", Options: []string{"银色", "深空灰"}},
				{Name: "配置", Options: []string{"i5+8G+512G", "i7+16G+1T"}},
			},
			featured: true,
		},
		{
			name: "智能手表", subtitle: "健康监测 运动追踪",
			description: "全天候心率监测，支持多种运动模式",
			price:       "899.00", originalPrice: "1099.00", image: "watch", category: 0,
			stock: 200, sales: 2100, rating: 4.7, reviewCount: 620, goodRate: 96,
			tags: []string{"智能手表", "运动", "健康"},
			specs: []models.Specification{
				{Name: "颜色", Options: []string{"黑色", "白色", "粉色", "蓝色"}},
				{Name: "尺寸", Options: []string{"40mm", "44mm"}},
			},
		},
		{
			name: "无线蓝牙耳机", subtitle: "降噪通话 音质清晰",
			description: "主动降噪，蓝牙5.3，续航长达30小时",
			price:       "299.00", originalPrice: "399.00", image: "headphone", category: 0,
			stock: 150, sales: 680, rating: 4.5, reviewCount: 310, goodRate: 94,
			tags: []string{"耳机", "蓝牙", "降噪"},
			specs: []models.Specification{
				{Name: "颜色", Options: []string{"白色", "黑色", "粉色"}},
				{Name: "版本", Options: []string{"标准版", "降噪版"}},
			},
		},
		{
			name: "高清平板电脑", subtitle: "大屏娱乐 学习办公",
			description: "11英寸高清大屏，影音娱乐与学习办公两不误",
			price:       "2599.00", originalPrice: "2999.00", image: "tablet", category: 0,
			stock: 120, sales: 1500, rating: 4.7, reviewCount: 540, goodRate: 97,
			tags: []string{"平板", "大屏", "学习"},
			specs: []models.Specification{
				{Name: "颜色", Options: []string{"银色", "深空灰", "玫瑰金"}},
				{Name: "容量", Options: []string{"64GB", "256GB", "512GB"}},
			},
			featured: true,
		},
		{
			name: "时尚休闲T恤", subtitle: "纯棉舒适 多色可选",
			description: "100%纯棉面料，透气舒适",
			price:       "89.00", originalPrice: "129.00", image: "tshirt", category: 1,
			stock: 300, sales: 2100, rating: 4.6, reviewCount: 980, goodRate: 95,
			tags: []string{"T恤", "纯棉", "休闲"},
			specs: []models.Specification{
				{Name: "颜色", Options: []string{"白色", "黑色", "灰色", "蓝色", "红色"}},
				{Name: "尺码", Options: []string{"S", "M", "L", "XL", "XXL"}},
			},
		},
		{
			name: "运动休闲鞋", subtitle: "轻便透气 运动时尚",
			description: "飞织鞋面，缓震中底，日常运动皆宜",
			price:       "299.00", originalPrice: "459.00", image: "shoes", category: 1,
			stock: 200, sales: 850, rating: 4.5, reviewCount: 400, goodRate: 93,
			tags: []string{"运动鞋", "透气", "休闲"},
			specs: []models.Specification{
				{Name: "颜色", Options: []string{"白色", "黑色", "蓝色", "灰色"}},
				{Name: "尺码", Options: []string{"38", "39", "40", "41", "42", "43", "44"}},
			},
		},
		{
			name: "有机蔬菜礼盒", subtitle: "新鲜有机 绿色健康",
			description: "基地直采有机蔬菜，冷链配送",
			price:       "128.00", originalPrice: "168.00", image: "vegetables", category: 2,
			stock: 80, sales: 450, rating: 4.8, reviewCount: 210, goodRate: 98,
			tags: []string{"有机", "蔬菜", "礼盒"},
			specs: []models.Specification{
				{Name: "规格", Options: []string{"5kg装", "10kg装"}},
			},
		},
		{
			name: "进口牛奶礼盒装", subtitle: "营养丰富 礼盒包装",
			description: "原装进口全脂牛奶，营养丰富",
			price:       "168.00", originalPrice: "198.00", image: "milk", category: 2,
			stock: 300, sales: 850, rating: 4.7, reviewCount: 360, goodRate: 96,
			tags: []string{"牛奶", "进口", "礼盒"},
			specs: []models.Specification{
				{Name: "规格", Options: []string{"250ml*12盒", "250ml*24盒"}},
			},
		},
		{
			name: "智能扫地机器人", subtitle: "智能清扫 自动充电",
			description: "激光导航，自动回充，扫拖一体",
			price:       "1299.00", originalPrice: "1699.00", image: "robot", category: 3,
			stock: 50, sales: 680, rating: 4.6, reviewCount: 290, goodRate: 95,
			tags: []string{"扫地机器人", "智能家居"},
			specs: []models.Specification{
				{Name: "颜色", Options: []string{"白色", "黑色"}},
				{Name: "容量", Options: []string{"600ml尘盒"}},
			},
			featured: true,
		},
		{
			name: "兰蔻小黑瓶精华", subtitle: "修护精华 提亮肤色",
			description: "修护肌底，改善暗沉",
			price:       "680.00", originalPrice: "760.00", image: "lancome", category: 4,
			stock: 120, sales: 1500, rating: 4.9, reviewCount: 1200, goodRate: 99,
			tags: []string{"精华", "护肤", "兰蔻"},
			specs: []models.Specification{
				{Name: "规格", Options: []string{"30ml", "50ml", "100ml"}},
			},
		},
	}
}

func (p productSeed) model(categoryID string) *models.Product {
	return &models.Product{
		Name:          p.name,
		Subtitle:      p.subtitle,
		Description:   p.description,
		Price:         decimal.RequireFromString(p.price),
		OriginalPrice: decimal.RequireFromString(p.originalPrice),
		CategoryID:    categoryID,
		Images: []string{
			"/static/images/products/" + p.image + "1.jpg",
			"/static/images/products/" + p.image + "2.jpg",
		},
		Stock:          p.stock,
		Sales:          p.sales,
		Rating:         p.rating,
		ReviewCount:    p.reviewCount,
		GoodRate:       p.goodRate,
		Promotion:      p.promotion,
		Service:        "正品保证 · 7天无理由退货 · 24小时发货",
		Tags:           p.tags,
		Specifications: p.specs,
		Details: &models.ProductDetails{
			Images:      []string{"/static/images/detail/" + p.image + "_detail1.jpg"},
			Description: "<p>" + p.description + "</p>",
		},
		IsActive:   true,
		IsFeatured: p.featured,
	}
}

func demoBanners() []*models.Banner {
	items := []struct{ title, category string }{
		{"新品上市", "new"},
		{"限时特惠", "sale"},
		{"品牌专区", "brand"},
		{"春季新品", "spring"},
	}
	out := make([]*models.Banner, 0, len(items))
	for i, it := range items {
		out = append(out, &models.Banner{
			Title:    it.title,
			Image:    "/static/images/banner/banner" + string(rune('1'+i)) + ".jpg",
			Link:     "/pages/product/list?category=" + it.category,
			Type:     "home",
			Sort:     i + 1,
			IsActive: true,
		})
	}
	return out
}

func demoHotSearches(now time.Time) []*models.HotSearch {
	items := []struct {
		keyword string
		count   int
	}{
		{"iPhone", 1500},
		{"小米", 1200},
		{"T恤", 800},
		{"扫地机器人", 600},
		{"兰蔻", 900},
		{"牛奶", 400},
		{"手机", 2000},
		{"护肤", 700},
	}
	out := make([]*models.HotSearch, 0, len(items))
	for _, it := range items {
		out = append(out, &models.HotSearch{Keyword: it.keyword, Count: it.count, LastSearchTime: now})
	}
	return out
}

func demoCoupons(now time.Time) []*models.Coupon {
	start := now.Add(-24 * time.Hour)
	end := now.AddDate(0, 3, 0)
	return []*models.Coupon{
		{
			Name:          "新人专享券",
			Description:   "满100减20",
			Type:          models.CouponTypeDiscount,
			DiscountType:  models.DiscountTypeAmount,
			DiscountValue: decimal.NewFromInt(20),
			MinAmount:     decimal.NewFromInt(100),
			TotalCount:    1000,
			StartTime:     start,
			EndTime:       end,
			IsActive:      true,
		},
		{
			Name:          "全场九折券",
			Description:   "满200享九折，最高抵扣50元",
			Type:          models.CouponTypeDiscount,
			DiscountType:  models.DiscountTypePercentage,
			DiscountValue: decimal.NewFromInt(90),
			MinAmount:     decimal.NewFromInt(200),
			MaxDiscount:   decimal.NewFromInt(50),
			TotalCount:    500,
			StartTime:     start,
			EndTime:       end,
			IsActive:      true,
		},
		{
			Name:          "免运费券",
			Description:   "无门槛抵扣运费",
			Type:          models.CouponTypeShipping,
			DiscountType:  models.DiscountTypeAmount,
			DiscountValue: decimal.NewFromInt(10),
			MaxDiscount:   decimal.NewFromInt(10),
			TotalCount:    2000,
			StartTime:     start,
			EndTime:       end,
			IsActive:      true,
		},
	}
}
