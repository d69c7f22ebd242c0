package widget

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadchat/leadchat/internal/domain"
	"github.com/leadchat/leadchat/internal/service"
)

// Handler handles widget API requests
type Handler struct {
	widgetService *service.WidgetService
}

// NewHandler creates a new widget handler
func NewHandler(widgetService *service.WidgetService) *Handler {
	return &Handler{widgetService: widgetService}
}

// RegisterRoutes registers widget routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/config", h.GetConfig)
	r.POST("/session", h.InitializeSession)
	r.GET("/session/:id", h.GetState)
	r.POST("/session/:id/end", h.EndSession)
	r.POST("/session/:id/open", h.OpenChat)
	r.POST("/session/:id/close", h.CloseChat)
	r.POST("/chat", h.Chat)
	r.POST("/lead", h.SubmitLead)
	r.POST("/lead/dismiss", h.DismissLeadForm)
	r.POST("/escalate", h.Escalate)
}

// GetConfig returns the widget configuration
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.widgetService.GetConfig(c.Request.Context()))
}

type initSessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}

// InitializeSession creates or resumes a session
func (h *Handler) InitializeSession(c *gin.Context) {
	var req initSessionRequest
	// Body is optional; an empty body starts a fresh session.
	_ = c.ShouldBindJSON(&req)

	state, err := h.widgetService.InitializeSession(c.Request.Context(), req.SessionID, domain.SessionMeta{
		UserAgent: c.Request.UserAgent(),
		Referrer:  req.Referrer,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

// Chat handles a chat message
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.widgetService.Chat(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrInvalidRequest):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrSessionEnded):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetState returns the observable session state
func (h *Handler) GetState(c *gin.Context) {
	state, err := h.widgetService.GetState(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, state)
}

// EndSession finalizes a session
func (h *Handler) EndSession(c *gin.Context) {
	session, err := h.widgetService.EndSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "status": session.Status})
}

// OpenChat marks the widget opened
func (h *Handler) OpenChat(c *gin.Context) {
	h.setChatOpen(c, true)
}

// CloseChat marks the widget closed, cancelling any pending lead prompt
func (h *Handler) CloseChat(c *gin.Context) {
	h.setChatOpen(c, false)
}

func (h *Handler) setChatOpen(c *gin.Context, open bool) {
	if err := h.widgetService.SetChatOpen(c.Request.Context(), c.Param("id"), open); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"open": open})
}

// SubmitLead handles a lead form submission
func (h *Handler) SubmitLead(c *gin.Context) {
	var form domain.LeadForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, fieldErrs, err := h.widgetService.SubmitLead(c.Request.Context(), &form)
	if err != nil {
		if errors.Is(err, domain.ErrFeatureDisabled) {
			c.JSON(http.StatusForbidden, gin.H{"error": "lead capture is disabled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if fieldErrs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs})
		return
	}

	c.JSON(http.StatusCreated, lead)
}

type dismissLeadRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// DismissLeadForm closes the lead form without capturing
func (h *Handler) DismissLeadForm(c *gin.Context) {
	var req dismissLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.widgetService.DismissLeadForm(c.Request.Context(), req.SessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dismissed": true})
}

// Escalate records a human-escalation request
func (h *Handler) Escalate(c *gin.Context) {
	var req domain.EscalationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	esc, err := h.widgetService.RequestEscalation(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFeatureDisabled):
			c.JSON(http.StatusForbidden, gin.H{"error": "human escalation is disabled"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"escalation_id": esc.ID, "status": esc.Status})
}
