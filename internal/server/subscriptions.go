package server

import (
	"net/http"
	"strconv"
	"strings"

	subscriptiondomain "github.com/Huve14/Go-Moto-sub000/internal/subscription/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListSubscriptions(c *gin.Context) {
	if s.subscriptionSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := s.subscriptionSvc.List(c.Request.Context(), subscriptiondomain.ListRequest{
		SellerID: c.Query("seller_id"),
		Status:   c.Query("status"),
		Limit:    limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSubscriptionByID(c *gin.Context) {
	if s.subscriptionSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.subscriptionSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
