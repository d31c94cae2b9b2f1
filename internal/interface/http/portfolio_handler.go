package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/portfoliopro/portfoliopro/internal/application"
	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/pkg/response"
	"github.com/portfoliopro/portfoliopro/pkg/validation"
)

// PortfolioHandler is the section editor surface. Every route runs
// behind Auth and operates on the authenticated user's own content.
type PortfolioHandler struct {
	Svc    *app.PortfolioService
	Logger *logrus.Logger
}

func NewPortfolioHandler(svc *app.PortfolioService, logger *logrus.Logger) *PortfolioHandler {
	return &PortfolioHandler{Svc: svc, Logger: logger}
}

func sectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrSectionNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, app.ErrSlugTaken):
		response.Error[any](c, http.StatusConflict, "slug taken", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "operation failed", nil)
	}
}

// ---- Profile ----

type profileRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Greeting   string `json:"greeting" binding:"max=200"`
	HeroBio    string `json:"hero_bio" binding:"max=500"`
	AboutText  string `json:"about_text" binding:"max=5000"`
	AboutPhoto string `json:"about_photo" binding:"omitempty,url"`
	CVLink     string `json:"cv_link" binding:"omitempty,url"`
}

func (h *PortfolioHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

func (h *PortfolioHandler) SaveProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p := &entity.Profile{
		UserID:     c.GetString("userID"),
		Name:       req.Name,
		Greeting:   req.Greeting,
		HeroBio:    req.HeroBio,
		AboutText:  req.AboutText,
		AboutPhoto: req.AboutPhoto,
		CVLink:     req.CVLink,
	}
	if err := h.Svc.SaveProfile(c.Request.Context(), p); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile saved", nil)
}

// ---- Contact ----

type contactRequest struct {
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"max=30"`
	Heading string `json:"heading" binding:"max=200"`
}

func (h *PortfolioHandler) GetContact(c *gin.Context) {
	ci, err := h.Svc.GetContact(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ci, "contact", nil)
}

func (h *PortfolioHandler) SaveContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ci := &entity.ContactInfo{
		UserID:  c.GetString("userID"),
		Email:   req.Email,
		Phone:   req.Phone,
		Heading: req.Heading,
	}
	if err := h.Svc.SaveContact(c.Request.Context(), ci); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ci, "contact saved", nil)
}

// ---- Social links ----

type socialLinkRequest struct {
	Platform    string `json:"platform" binding:"required,socialplatform"`
	DisplayName string `json:"display_name" binding:"max=100"`
	URL         string `json:"url" binding:"required,url"`
	Position    int    `json:"position" binding:"gte=0"`
}

func (h *PortfolioHandler) ListSocialLinks(c *gin.Context) {
	links, err := h.Svc.ListSocialLinks(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, links, "social links", nil)
}

func (h *PortfolioHandler) CreateSocialLink(c *gin.Context) {
	var req socialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	l := &entity.SocialLink{
		UserID:      c.GetString("userID"),
		Platform:    req.Platform,
		DisplayName: req.DisplayName,
		URL:         req.URL,
		Position:    req.Position,
	}
	if err := h.Svc.CreateSocialLink(c.Request.Context(), l); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l, "social link created", nil)
}

func (h *PortfolioHandler) UpdateSocialLink(c *gin.Context) {
	var req socialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	l := &entity.SocialLink{
		ID:          c.Param("id"),
		UserID:      c.GetString("userID"),
		Platform:    req.Platform,
		DisplayName: req.DisplayName,
		URL:         req.URL,
		Position:    req.Position,
	}
	if err := h.Svc.UpdateSocialLink(c.Request.Context(), l); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "social link updated", nil)
}

func (h *PortfolioHandler) DeleteSocialLink(c *gin.Context) {
	if err := h.Svc.DeleteSocialLink(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		sectionError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "social link deleted", nil)
}

// ---- Expertise ----

type expertiseRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Position int    `json:"position" binding:"gte=0"`
}

func (h *PortfolioHandler) ListExpertise(c *gin.Context) {
	items, err := h.Svc.ListExpertise(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "expertise", nil)
}

func (h *PortfolioHandler) CreateExpertise(c *gin.Context) {
	var req expertiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e := &entity.Expertise{UserID: c.GetString("userID"), Name: req.Name, Position: req.Position}
	if err := h.Svc.CreateExpertise(c.Request.Context(), e); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, e, "expertise created", nil)
}

func (h *PortfolioHandler) UpdateExpertise(c *gin.Context) {
	var req expertiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e := &entity.Expertise{ID: c.Param("id"), UserID: c.GetString("userID"), Name: req.Name, Position: req.Position}
	if err := h.Svc.UpdateExpertise(c.Request.Context(), e); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e, "expertise updated", nil)
}

func (h *PortfolioHandler) DeleteExpertise(c *gin.Context) {
	if err := h.Svc.DeleteExpertise(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		sectionError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "expertise deleted", nil)
}

// ---- Experience ----

type experienceRequest struct {
	Company     string `json:"company" binding:"required,max=150"`
	PositionAt  string `json:"position_title" binding:"required,max=150"`
	Timeframe   string `json:"timeframe" binding:"max=100"`
	Description string `json:"description" binding:"max=2000"`
	Position    int    `json:"position" binding:"gte=0"`
}

func (h *PortfolioHandler) ListExperiences(c *gin.Context) {
	items, err := h.Svc.ListExperiences(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "experiences", nil)
}

func (h *PortfolioHandler) CreateExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e := &entity.Experience{
		UserID:      c.GetString("userID"),
		Company:     req.Company,
		PositionAt:  req.PositionAt,
		Timeframe:   req.Timeframe,
		Description: req.Description,
		Position:    req.Position,
	}
	if err := h.Svc.CreateExperience(c.Request.Context(), e); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, e, "experience created", nil)
}

func (h *PortfolioHandler) UpdateExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e := &entity.Experience{
		ID:          c.Param("id"),
		UserID:      c.GetString("userID"),
		Company:     req.Company,
		PositionAt:  req.PositionAt,
		Timeframe:   req.Timeframe,
		Description: req.Description,
		Position:    req.Position,
	}
	if err := h.Svc.UpdateExperience(c.Request.Context(), e); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e, "experience updated", nil)
}

func (h *PortfolioHandler) DeleteExperience(c *gin.Context) {
	if err := h.Svc.DeleteExperience(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		sectionError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "experience deleted", nil)
}

// ---- Education ----

type educationRequest struct {
	Institution string `json:"institution" binding:"required,max=150"`
	Degree      string `json:"degree" binding:"max=150"`
	Timeframe   string `json:"timeframe" binding:"max=100"`
	Description string `json:"description" binding:"max=2000"`
	Position    int    `json:"position" binding:"gte=0"`
}

func (h *PortfolioHandler) ListEducation(c *gin.Context) {
	items, err := h.Svc.ListEducation(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "education", nil)
}

func (h *PortfolioHandler) CreateEducation(c *gin.Context) {
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e := &entity.Education{
		UserID:      c.GetString("userID"),
		Institution: req.Institution,
		Degree:      req.Degree,
		Timeframe:   req.Timeframe,
		Description: req.Description,
		Position:    req.Position,
	}
	if err := h.Svc.CreateEducation(c.Request.Context(), e); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, e, "education created", nil)
}

func (h *PortfolioHandler) UpdateEducation(c *gin.Context) {
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e := &entity.Education{
		ID:          c.Param("id"),
		UserID:      c.GetString("userID"),
		Institution: req.Institution,
		Degree:      req.Degree,
		Timeframe:   req.Timeframe,
		Description: req.Description,
		Position:    req.Position,
	}
	if err := h.Svc.UpdateEducation(c.Request.Context(), e); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e, "education updated", nil)
}

func (h *PortfolioHandler) DeleteEducation(c *gin.Context) {
	if err := h.Svc.DeleteEducation(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		sectionError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "education deleted", nil)
}

// ---- Skills ----

type skillRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Category    string `json:"category" binding:"max=100"`
	IconURL     string `json:"icon_url" binding:"omitempty,url"`
	Description string `json:"description" binding:"max=1000"`
	Position    int    `json:"position" binding:"gte=0"`
}

func (h *PortfolioHandler) ListSkills(c *gin.Context) {
	items, err := h.Svc.ListSkills(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "skills", nil)
}

func (h *PortfolioHandler) CreateSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	s := &entity.Skill{
		UserID:      c.GetString("userID"),
		Name:        req.Name,
		Category:    req.Category,
		IconURL:     req.IconURL,
		Description: req.Description,
		Position:    req.Position,
	}
	if err := h.Svc.CreateSkill(c.Request.Context(), s); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, s, "skill created", nil)
}

func (h *PortfolioHandler) UpdateSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	s := &entity.Skill{
		ID:          c.Param("id"),
		UserID:      c.GetString("userID"),
		Name:        req.Name,
		Category:    req.Category,
		IconURL:     req.IconURL,
		Description: req.Description,
		Position:    req.Position,
	}
	if err := h.Svc.UpdateSkill(c.Request.Context(), s); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s, "skill updated", nil)
}

func (h *PortfolioHandler) DeleteSkill(c *gin.Context) {
	if err := h.Svc.DeleteSkill(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		sectionError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "skill deleted", nil)
}

// ---- Projects ----

type projectRequest struct {
	Title       string `json:"title" binding:"required,max=150"`
	Category    string `json:"category" binding:"max=100"`
	URL         string `json:"url" binding:"omitempty,url"`
	Description string `json:"description" binding:"max=2000"`
	IconURL     string `json:"icon_url" binding:"omitempty,url"`
	Position    int    `json:"position" binding:"gte=0"`
}

func (h *PortfolioHandler) ListProjects(c *gin.Context) {
	items, err := h.Svc.ListProjects(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "projects", nil)
}

func (h *PortfolioHandler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p := &entity.Project{
		UserID:      c.GetString("userID"),
		Title:       req.Title,
		Category:    req.Category,
		URL:         req.URL,
		Description: req.Description,
		IconURL:     req.IconURL,
		Position:    req.Position,
	}
	if err := h.Svc.CreateProject(c.Request.Context(), p); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "project created", nil)
}

func (h *PortfolioHandler) UpdateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p := &entity.Project{
		ID:          c.Param("id"),
		UserID:      c.GetString("userID"),
		Title:       req.Title,
		Category:    req.Category,
		URL:         req.URL,
		Description: req.Description,
		IconURL:     req.IconURL,
		Position:    req.Position,
	}
	if err := h.Svc.UpdateProject(c.Request.Context(), p); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "project updated", nil)
}

func (h *PortfolioHandler) DeleteProject(c *gin.Context) {
	if err := h.Svc.DeleteProject(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		sectionError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "project deleted", nil)
}

// ---- Custom sections ----

type customSectionRequest struct {
	Title          string `json:"title" binding:"required,max=150"`
	Slug           string `json:"slug" binding:"omitempty,subdomain"`
	Icon           string `json:"icon" binding:"max=100"`
	Position       int    `json:"position" binding:"gte=0"`
	IsVisible      *bool  `json:"is_visible"`
	ShowImage      bool   `json:"show_image"`
	ShowLinkButton bool   `json:"show_link_button"`
	ButtonText     string `json:"button_text" binding:"max=50"`
	CardLayout     string `json:"card_layout" binding:"omitempty,oneof=grid list timeline"`
}

func (req *customSectionRequest) toEntity(userID, id string) *entity.CustomSection {
	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}
	layout := req.CardLayout
	if layout == "" {
		layout = "grid"
	}
	return &entity.CustomSection{
		ID:             id,
		UserID:         userID,
		Title:          req.Title,
		Slug:           req.Slug,
		Icon:           req.Icon,
		Position:       req.Position,
		IsVisible:      visible,
		ShowImage:      req.ShowImage,
		ShowLinkButton: req.ShowLinkButton,
		ButtonText:     req.ButtonText,
		CardLayout:     layout,
	}
}

func (h *PortfolioHandler) ListCustomSections(c *gin.Context) {
	items, err := h.Svc.ListCustomSections(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "custom sections", nil)
}

func (h *PortfolioHandler) GetCustomSection(c *gin.Context) {
	sec, err := h.Svc.GetCustomSection(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sec, "custom section", nil)
}

func (h *PortfolioHandler) CreateCustomSection(c *gin.Context) {
	var req customSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sec := req.toEntity(c.GetString("userID"), "")
	if err := h.Svc.CreateCustomSection(c.Request.Context(), sec); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sec, "custom section created", nil)
}

func (h *PortfolioHandler) UpdateCustomSection(c *gin.Context) {
	var req customSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sec := req.toEntity(c.GetString("userID"), c.Param("id"))
	if err := h.Svc.UpdateCustomSection(c.Request.Context(), sec); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sec, "custom section updated", nil)
}

func (h *PortfolioHandler) DeleteCustomSection(c *gin.Context) {
	if err := h.Svc.DeleteCustomSection(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		sectionError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "custom section deleted", nil)
}

type customItemRequest struct {
	Title       string `json:"title" binding:"required,max=150"`
	Subtitle    string `json:"subtitle" binding:"max=150"`
	Description string `json:"description" binding:"max=2000"`
	Link        string `json:"link" binding:"omitempty,url"`
	IconURL     string `json:"icon_url" binding:"omitempty,url"`
	Position    int    `json:"position" binding:"gte=0"`
}

func (h *PortfolioHandler) CreateCustomItem(c *gin.Context) {
	var req customItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	it := &entity.CustomItem{
		SectionID:   c.Param("id"),
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Link:        req.Link,
		IconURL:     req.IconURL,
		Position:    req.Position,
	}
	if err := h.Svc.CreateCustomItem(c.Request.Context(), c.GetString("userID"), it); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, it, "item created", nil)
}

func (h *PortfolioHandler) UpdateCustomItem(c *gin.Context) {
	var req customItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	it := &entity.CustomItem{
		ID:          c.Param("itemID"),
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Link:        req.Link,
		IconURL:     req.IconURL,
		Position:    req.Position,
	}
	if err := h.Svc.UpdateCustomItem(c.Request.Context(), c.GetString("userID"), it); err != nil {
		sectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, it, "item updated", nil)
}

func (h *PortfolioHandler) DeleteCustomItem(c *gin.Context) {
	if err := h.Svc.DeleteCustomItem(c.Request.Context(), c.GetString("userID"), c.Param("itemID")); err != nil {
		sectionError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "item deleted", nil)
}

type reorderRequest struct {
	OrderedIDs []string `json:"ordered_ids" binding:"required,min=1,dive,uuid"`
}

func (h *PortfolioHandler) ReorderSections(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ReorderSections(c.Request.Context(), c.GetString("userID"), req.OrderedIDs); err != nil {
		sectionError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reordered": true}, "sections reordered", nil)
}

// ---- Uploads ----

// UploadImage accepts a multipart file and stores it in object storage.
// kind is bounded to a known folder so clients cannot write arbitrary paths.
func (h *PortfolioHandler) UploadImage(c *gin.Context) {
	kind := c.DefaultPostForm("kind", "icons")
	switch kind {
	case "icons", "photos", "previews":
	default:
		response.Error[any](c, http.StatusBadRequest, "unknown upload kind", nil)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file", nil)
		return
	}
	const maxUpload = 5 << 20
	if file.Size > maxUpload {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Svc.UploadImage(c.Request.Context(), c.GetString("userID"), kind, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, app.ErrUploadDisabled) {
			response.Error[any](c, http.StatusServiceUnavailable, "uploads not configured", nil)
			return
		}
		h.Logger.WithError(err).Warn("upload failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success[any](c, http.StatusCreated, gin.H{"url": url}, "uploaded", nil)
}
