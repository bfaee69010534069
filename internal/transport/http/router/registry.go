package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIModule 挂载普通接口（带超时）
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// StreamModule 挂载长连接接口（不带超时）
type StreamModule interface{ MountStream(*gin.RouterGroup) }

// AdminModule 挂载管理端接口
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Modules 模块注册表；一个模块可同时实现多个接口
type Modules struct {
	mu   sync.RWMutex
	mods []any
}

func NewModules(mods ...any) *Modules {
	m := &Modules{}
	for _, mod := range mods {
		m.Register(mod)
	}
	return m
}

func (m *Modules) Register(mod any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mods = append(m.mods, mod)
}

func (m *Modules) sorted() []any {
	m.mu.RLock()
	mods := append([]any(nil), m.mods...)
	m.mu.RUnlock()
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	return mods
}

func (m *Modules) MountAllAPI(g *gin.RouterGroup) {
	for _, mod := range m.sorted() {
		if a, ok := mod.(APIModule); ok {
			a.MountAPI(g)
		}
	}
}

func (m *Modules) MountAllStream(g *gin.RouterGroup) {
	for _, mod := range m.sorted() {
		if s, ok := mod.(StreamModule); ok {
			s.MountStream(g)
		}
	}
}

func (m *Modules) MountAllAdmin(g *gin.RouterGroup) {
	for _, mod := range m.sorted() {
		if a, ok := mod.(AdminModule); ok {
			a.MountAdmin(g)
		}
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
