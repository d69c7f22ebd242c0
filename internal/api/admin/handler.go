package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadchat/leadchat/internal/domain"
	"github.com/leadchat/leadchat/internal/repository"
	"github.com/leadchat/leadchat/internal/service"
)

// Handler handles admin API requests
type Handler struct {
	adminService *service.AdminService
}

// NewHandler creates a new admin handler
func NewHandler(adminService *service.AdminService) *Handler {
	return &Handler{adminService: adminService}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/conversations", h.ListConversations)
	r.GET("/conversations/:id", h.GetConversation)
	r.GET("/leads", h.ListLeads)
	r.PATCH("/leads/:id/status", h.UpdateLeadStatus)
	r.GET("/escalations", h.ListEscalations)
	r.POST("/escalations/:id/resolve", h.ResolveEscalation)
	r.GET("/stats", h.GetStats)
}

// ListConversations lists persisted sessions
func (h *Handler) ListConversations(c *gin.Context) {
	filter := repository.ConversationFilter{
		Status: domain.SessionStatus(c.Query("status")),
		Limit:  queryInt(c, "limit", 50),
	}
	if t, ok := queryTime(c, "start_date"); ok {
		filter.StartDate = &t
	}
	if t, ok := queryTime(c, "end_date"); ok {
		filter.EndDate = &t
	}

	sessions, err := h.adminService.ListConversations(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": sessions, "total": len(sessions)})
}

// GetConversation returns one session with its messages
func (h *Handler) GetConversation(c *gin.Context) {
	session, err := h.adminService.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListLeads lists captured leads
func (h *Handler) ListLeads(c *gin.Context) {
	filter := repository.LeadFilter{
		Status: domain.LeadStatus(c.Query("status")),
		Limit:  queryInt(c, "limit", 50),
	}
	if t, ok := queryTime(c, "start_date"); ok {
		filter.StartDate = &t
	}
	if t, ok := queryTime(c, "end_date"); ok {
		filter.EndDate = &t
	}

	leads, err := h.adminService.ListLeads(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads, "total": len(leads)})
}

type updateLeadStatusRequest struct {
	Status domain.LeadStatus `json:"status" binding:"required"`
}

// UpdateLeadStatus moves a lead through the follow-up pipeline
func (h *Handler) UpdateLeadStatus(c *gin.Context) {
	var req updateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.UpdateLeadStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if err == domain.ErrInvalidRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead status"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

// ListEscalations lists escalation requests
func (h *Handler) ListEscalations(c *gin.Context) {
	filter := repository.EscalationFilter{
		Status: domain.EscalationStatus(c.Query("status")),
		Limit:  queryInt(c, "limit", 50),
	}

	escalations, err := h.adminService.ListEscalations(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"escalations": escalations, "total": len(escalations)})
}

type resolveEscalationRequest struct {
	ResolvedBy string `json:"resolved_by"`
}

// ResolveEscalation marks an escalation handled
func (h *Handler) ResolveEscalation(c *gin.Context) {
	var req resolveEscalationRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.adminService.ResolveEscalation(c.Request.Context(), c.Param("id"), req.ResolvedBy); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": domain.EscalationResolved})
}

// GetStats returns dashboard statistics
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func queryTime(c *gin.Context, key string) (time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true
	}
	return time.Time{}, false
}
