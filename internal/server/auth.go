package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/smallbiznis/taxdesk/internal/account/domain"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string                `json:"token"`
	Account accountdomain.Account `json:"account"`
}

func (s *Server) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	account, err := s.accountSvc.Create(c.Request.Context(), accountdomain.CreateAccountRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	raw, err := s.tokenSvc.Issue(account.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, raw, s.tokenSvc.TTL())
	respond(c, http.StatusCreated, authResponse{Token: raw, Account: account})
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	account, err := s.accountSvc.Authenticate(c.Request.Context(), accountdomain.AuthenticateRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	raw, err := s.tokenSvc.Issue(account.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, raw, s.tokenSvc.TTL())
	respond(c, http.StatusOK, authResponse{Token: raw, Account: account})
}

// Logout clears the auth cookie. Tokens are stateless, so a copy held by the
// caller stays valid until expiry; there is no server-side revocation.
func (s *Server) Logout(c *gin.Context) {
	s.sessions.Clear(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) Me(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrInvalidToken)
		return
	}

	account, err := s.accountSvc.GetByID(c.Request.Context(), accountdomain.GetAccountRequest{
		ID: accountID.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, account)
}
