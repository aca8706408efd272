package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/taxdesk/internal/invoice/domain"
)

type CreateInvoiceRequest struct {
	TaxProfileID string     `json:"taxProfileId"`
	Amount       string     `json:"amount"`
	Status       string     `json:"status"`
	IssuedAt     *time.Time `json:"issuedAt"`
}

type UpdateInvoiceRequest struct {
	TaxProfileID *string    `json:"taxProfileId"`
	Amount       *string    `json:"amount"`
	Status       *string    `json:"status"`
	IssuedAt     *time.Time `json:"issuedAt"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		Page:      pageFromQuery(c),
		Status:    strings.TrimSpace(c.Query("status")),
		Email:     strings.TrimSpace(c.Query("email")),
		MinAmount: strings.TrimSpace(c.Query("minAmount")),
		MaxAmount: strings.TrimSpace(c.Query("maxAmount")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, resp)
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invoice, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		TaxProfileID: strings.TrimSpace(req.TaxProfileID),
		Amount:       strings.TrimSpace(req.Amount),
		Status:       strings.TrimSpace(req.Status),
		IssuedAt:     req.IssuedAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, invoice)
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), invoicedomain.GetInvoiceRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, invoice)
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invoice, err := s.invoiceSvc.Update(c.Request.Context(), invoicedomain.UpdateInvoiceRequest{
		ID:           c.Param("id"),
		TaxProfileID: req.TaxProfileID,
		Amount:       req.Amount,
		Status:       req.Status,
		IssuedAt:     req.IssuedAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, invoice)
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	err := s.invoiceSvc.Delete(c.Request.Context(), invoicedomain.DeleteInvoiceRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
