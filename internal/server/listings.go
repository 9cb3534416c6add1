package server

import (
	"net/http"
	"strconv"
	"strings"

	listingdomain "github.com/Huve14/Go-Moto-sub000/internal/listing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) BrowseListings(c *gin.Context) {
	if s.listingSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := s.listingSvc.Browse(c.Request.Context(), listingdomain.BrowseRequest{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetListingByID(c *gin.Context) {
	if s.listingSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.listingSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateListing(c *gin.Context) {
	if s.listingSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req listingdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.listingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
