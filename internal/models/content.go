package models

import (
	"time"

	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// Banner 轮播图
type Banner struct {
	store.Base
	Title    string `json:"title"`
	Image    string `json:"image"`
	Link     string `json:"link"`
	Type     string `json:"type"`
	Sort     int    `json:"sort"`
	IsActive bool   `json:"isActive"`
	Clicks   int    `json:"clicks"`
}

// HotSearch 热门搜索词
type HotSearch struct {
	store.Base
	Keyword        string    `json:"keyword"`
	Count          int       `json:"count"`
	LastSearchTime time.Time `json:"lastSearchTime"`
}

// SearchHistory 用户搜索历史
type SearchHistory struct {
	store.Base
	UserID     string    `json:"userId"`
	Keyword    string    `json:"keyword"`
	SearchTime time.Time `json:"searchTime"`
}
