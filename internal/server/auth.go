// internal/server/auth.go

package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"opera-backend/internal/common/auth"
	"opera-backend/internal/common/errors"
	"opera-backend/internal/models"
)

const sessionCookie = "token"

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "login and password are required", err))
		return
	}

	user, err := s.stores.Users.FindByLogin(c.Request.Context(), req.Login)
	if err != nil {
		// Do not leak whether the account exists.
		respondError(c, errors.New(errors.ErrCodeUnauthorized, "invalid credentials"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, errors.New(errors.ErrCodeUnauthorized, "invalid credentials"))
		return
	}

	token, expires, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(sessionCookie, token, int(time.Until(expires).Seconds()), "/", "", false, true)
	respondData(c, 200, gin.H{"token": token, "user": user})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "username, email and password are required", err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInternal, "hashing password failed", err))
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         "staff",
	}
	if err := s.stores.Users.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	s.logger.Info("user registered", map[string]interface{}{"user_id": user.ID, "username": user.Username})
	respondData(c, 201, gin.H{"user": user})
}

func (s *Server) handleProfile(c *gin.Context) {
	claims := sessionFrom(c)
	user, err := s.stores.Users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"user": user})
}

func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	respondData(c, 200, gin.H{"message": "Sesión cerrada correctamente"})
}

func (s *Server) handleVerify(c *gin.Context) {
	claims := sessionFrom(c)
	respondData(c, 200, gin.H{
		"valid": true,
		"user": gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}

// authRequired accepts the session cookie or a bearer token.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			respondError(c, errors.New(errors.ErrCodeUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		claims, err := s.tokens.Verify(raw)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set("session", claims)
		c.Next()
	}
}

func (s *Server) adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := sessionFrom(c); claims == nil || claims.Role != "admin" {
			respondError(c, errors.New(errors.ErrCodeForbidden, "admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func sessionFrom(c *gin.Context) *auth.SessionClaims {
	v, ok := c.Get("session")
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.SessionClaims)
	return claims
}
