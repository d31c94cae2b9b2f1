package router

import "github.com/gin-gonic/gin"

// Registry collects feature modules and mounts them under /api once all
// shared middleware (tenant resolution included) has been attached.
// Modules that also implement RootModule get mounted at the site root
// with the same middleware chain.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	Root        *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api"), Root: engine.Group("/")}
}

// Use queues middleware to run before every module route. Middleware
// added after RegisterAll has no effect.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll applies the queued middleware and mounts every module.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
		r.Root.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
		if rm, ok := m.(RootModule); ok {
			rm.RegisterRoot(r.Root)
		}
	}
}
