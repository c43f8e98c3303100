package main

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

// apiDoc 由已注册路由生成 Swagger 2.0 文档，供 /swagger 使用
type apiDoc struct {
	title   string
	version string
	routes  func() gin.RoutesInfo

	once sync.Once
	doc  string
}

func newAPIDoc(title, version string, routes func() gin.RoutesInfo) *apiDoc {
	return &apiDoc{title: title, version: version, routes: routes}
}

// registerAPIDoc 注册到 swag，进程内只能调用一次
func registerAPIDoc(doc *apiDoc) {
	swag.Register(swag.Name, doc)
}

// ReadDoc 实现 swag.Swagger
func (d *apiDoc) ReadDoc() string {
	d.once.Do(func() { d.doc = d.build() })
	return d.doc
}

type docParam struct {
	Name     string `json:"name"`
	In       string `json:"in"`
	Required bool   `json:"required"`
	Type     string `json:"type"`
}

type docOperation struct {
	Tags       []string                     `json:"tags,omitempty"`
	Summary    string                       `json:"summary"`
	Parameters []docParam                   `json:"parameters,omitempty"`
	Responses  map[string]map[string]string `json:"responses"`
}

func (d *apiDoc) build() string {
	paths := make(map[string]map[string]docOperation)
	for _, rt := range d.routes() {
		if !strings.HasPrefix(rt.Path, "/api/") || strings.Contains(rt.Path, "*") {
			continue
		}
		path, params := swaggerPath(rt.Path)
		if paths[path] == nil {
			paths[path] = make(map[string]docOperation)
		}
		paths[path][strings.ToLower(rt.Method)] = docOperation{
			Tags:       []string{strings.SplitN(strings.TrimPrefix(rt.Path, "/api/"), "/", 2)[0]},
			Summary:    rt.Method + " " + rt.Path,
			Parameters: params,
			Responses:  map[string]map[string]string{"200": {"description": "OK"}},
		}
	}

	doc := map[string]any{
		"swagger":  "2.0",
		"info":     map[string]string{"title": d.title, "version": d.version},
		"basePath": "/",
		"paths":    paths,
		"securityDefinitions": map[string]any{
			"BearerAuth": map[string]string{"type": "apiKey", "name": "Authorization", "in": "header"},
		},
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// swaggerPath 把 gin 的 :param 转成 {param}
func swaggerPath(path string) (string, []docParam) {
	segs := strings.Split(path, "/")
	var params []docParam
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			name := s[1:]
			segs[i] = "{" + name + "}"
			params = append(params, docParam{Name: name, In: "path", Required: true, Type: "string"})
		}
	}
	return strings.Join(segs, "/"), params
}
