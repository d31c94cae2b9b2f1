package router

import "github.com/gin-gonic/gin"

// Module is one feature area (auth, portfolio, theme, admin, public
// site) that mounts its own routes on the shared API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// RootModule is a Module that also serves routes at the site root,
// outside the /api prefix. The public site implements it so a tenant
// host answers on / directly.
type RootModule interface {
	Module
	RegisterRoot(rg *gin.RouterGroup)
}
