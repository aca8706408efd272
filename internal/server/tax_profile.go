package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	taxprofiledomain "github.com/smallbiznis/taxdesk/internal/taxprofile/domain"
)

type CreateTaxProfileRequest struct {
	AccountID   string `json:"accountId"`
	Name        string `json:"name"`
	TaxIDNumber string `json:"taxIdNumber"`
	Address     string `json:"address"`
}

type UpdateTaxProfileRequest struct {
	AccountID   *string `json:"accountId"`
	Name        *string `json:"name"`
	TaxIDNumber *string `json:"taxIdNumber"`
	Address     *string `json:"address"`
}

func (s *Server) ListTaxProfiles(c *gin.Context) {
	resp, err := s.taxProfileSvc.List(c.Request.Context(), taxprofiledomain.ListTaxProfileRequest{
		Page:        pageFromQuery(c),
		Name:        strings.TrimSpace(c.Query("name")),
		AccountID:   strings.TrimSpace(c.Query("userId")),
		TaxIDNumber: strings.TrimSpace(c.Query("tax_id_number")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, resp)
}

func (s *Server) CreateTaxProfile(c *gin.Context) {
	var req CreateTaxProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	profile, err := s.taxProfileSvc.Create(c.Request.Context(), taxprofiledomain.CreateTaxProfileRequest{
		AccountID:   strings.TrimSpace(req.AccountID),
		Name:        strings.TrimSpace(req.Name),
		TaxIDNumber: strings.TrimSpace(req.TaxIDNumber),
		Address:     strings.TrimSpace(req.Address),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, profile)
}

func (s *Server) GetTaxProfileByID(c *gin.Context) {
	profile, err := s.taxProfileSvc.GetByID(c.Request.Context(), taxprofiledomain.GetTaxProfileRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, profile)
}

func (s *Server) UpdateTaxProfile(c *gin.Context) {
	var req UpdateTaxProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	profile, err := s.taxProfileSvc.Update(c.Request.Context(), taxprofiledomain.UpdateTaxProfileRequest{
		ID:          c.Param("id"),
		AccountID:   req.AccountID,
		Name:        req.Name,
		TaxIDNumber: req.TaxIDNumber,
		Address:     req.Address,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, profile)
}

func (s *Server) DeleteTaxProfile(c *gin.Context) {
	err := s.taxProfileSvc.Delete(c.Request.Context(), taxprofiledomain.DeleteTaxProfileRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
