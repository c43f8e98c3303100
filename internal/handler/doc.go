// Package handler 按业务域分包的 HTTP 处理器
//
// 本文件使 `swag init --dir ./internal/handler` 能将该目录识别为 Go 包
package handler
