package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portfoliopro/portfoliopro/internal/container"
	handlers "github.com/portfoliopro/portfoliopro/internal/interface/http"
	"github.com/portfoliopro/portfoliopro/internal/interface/middleware"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
)

// PortfolioModule wires the section editor under /api/portfolio/*.
// Everything here requires an authenticated tenant.
type PortfolioModule struct {
	Handler *handlers.PortfolioHandler
	JWT     *helpers.JWTManager
}

func NewPortfolioModule(h *handlers.PortfolioHandler, jwt *helpers.JWTManager) *PortfolioModule {
	return &PortfolioModule{Handler: h, JWT: jwt}
}

func (m *PortfolioModule) Register(rg *gin.RouterGroup) {
	p := rg.Group("/portfolio")
	p.Use(middleware.Auth(container.GetRedis(), m.JWT))
	p.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))

	p.GET("/profile", m.Handler.GetProfile)
	p.PUT("/profile", m.Handler.SaveProfile)
	p.GET("/contact", m.Handler.GetContact)
	p.PUT("/contact", m.Handler.SaveContact)

	p.GET("/social-links", m.Handler.ListSocialLinks)
	p.POST("/social-links", m.Handler.CreateSocialLink)
	p.PUT("/social-links/:id", m.Handler.UpdateSocialLink)
	p.DELETE("/social-links/:id", m.Handler.DeleteSocialLink)

	p.GET("/expertise", m.Handler.ListExpertise)
	p.POST("/expertise", m.Handler.CreateExpertise)
	p.PUT("/expertise/:id", m.Handler.UpdateExpertise)
	p.DELETE("/expertise/:id", m.Handler.DeleteExpertise)

	p.GET("/experiences", m.Handler.ListExperiences)
	p.POST("/experiences", m.Handler.CreateExperience)
	p.PUT("/experiences/:id", m.Handler.UpdateExperience)
	p.DELETE("/experiences/:id", m.Handler.DeleteExperience)

	p.GET("/education", m.Handler.ListEducation)
	p.POST("/education", m.Handler.CreateEducation)
	p.PUT("/education/:id", m.Handler.UpdateEducation)
	p.DELETE("/education/:id", m.Handler.DeleteEducation)

	p.GET("/skills", m.Handler.ListSkills)
	p.POST("/skills", m.Handler.CreateSkill)
	p.PUT("/skills/:id", m.Handler.UpdateSkill)
	p.DELETE("/skills/:id", m.Handler.DeleteSkill)

	p.GET("/projects", m.Handler.ListProjects)
	p.POST("/projects", m.Handler.CreateProject)
	p.PUT("/projects/:id", m.Handler.UpdateProject)
	p.DELETE("/projects/:id", m.Handler.DeleteProject)

	p.GET("/sections", m.Handler.ListCustomSections)
	p.POST("/sections", m.Handler.CreateCustomSection)
	p.GET("/sections/:id", m.Handler.GetCustomSection)
	p.PUT("/sections/:id", m.Handler.UpdateCustomSection)
	p.DELETE("/sections/:id", m.Handler.DeleteCustomSection)
	p.POST("/sections/:id/items", m.Handler.CreateCustomItem)
	p.PUT("/sections/:id/items/:itemID", m.Handler.UpdateCustomItem)
	p.DELETE("/sections/:id/items/:itemID", m.Handler.DeleteCustomItem)
	p.PUT("/section-order", m.Handler.ReorderSections)

	uploadLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)
	p.POST("/uploads", uploadLimiter, m.Handler.UploadImage)
}
