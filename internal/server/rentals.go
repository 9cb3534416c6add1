package server

import (
	"net/http"
	"strings"
	"time"

	rentaldomain "github.com/Huve14/Go-Moto-sub000/internal/rental/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) SubmitApplication(c *gin.Context) {
	if s.rentalSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req rentaldomain.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rentalSvc.SubmitApplication(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListApplications(c *gin.Context) {
	if s.rentalSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	resp, err := s.rentalSvc.ListApplications(c.Request.Context(), c.Query("status"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type reviewApplicationRequest struct {
	Status   string `json:"status"`
	StartsOn string `json:"starts_on"`
}

func (s *Server) ReviewApplication(c *gin.Context) {
	if s.rentalSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req reviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		AbortWithError(c, newValidationError("status", "required", "status is required"))
		return
	}

	var startsOn time.Time
	if raw := strings.TrimSpace(req.StartsOn); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, newValidationError("starts_on", "invalid_date", "must be RFC 3339"))
			return
		}
		startsOn = parsed
	}

	resp, err := s.rentalSvc.ReviewApplication(c.Request.Context(), c.Param("id"), req.Status, startsOn)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBookings(c *gin.Context) {
	if s.rentalSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	resp, err := s.rentalSvc.ListBookings(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CaptureLead(c *gin.Context) {
	if s.rentalSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req rentaldomain.CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rentalSvc.CaptureLead(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListLeads(c *gin.Context) {
	if s.rentalSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	resp, err := s.rentalSvc.ListLeads(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
