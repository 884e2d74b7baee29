package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/insightxl/supabase"
)

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	User    authUser    `json:"user"`
	Session authSession `json:"session"`
	Message string      `json:"message"`
}

func (s *Server) handleSignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request: " + err.Error()})
		return
	}
	if !s.auth.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Auth provider is not configured"})
		return
	}

	user, session, err := s.auth.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, supabase.ErrAuthFailed) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		s.log.Error("signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Registration failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, authResponse{
		User:    authUser{ID: user.ID, Email: user.Email, Name: req.Name},
		Session: sessionOf(session),
		Message: "User registered successfully. Please check your email for verification.",
	})
}

func (s *Server) handleSignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request: " + err.Error()})
		return
	}
	if !s.auth.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Auth provider is not configured"})
		return
	}

	user, session, err := s.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, supabase.ErrAuthFailed) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
			return
		}
		s.log.Error("signin failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Sign in failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, authResponse{
		User:    authUser{ID: user.ID, Email: user.Email, Name: user.Name()},
		Session: sessionOf(session),
		Message: "Signed in successfully",
	})
}

func (s *Server) handleSignOut(c *gin.Context) {
	token := bearerToken(c)
	if s.auth.Configured() && token != "" {
		if err := s.auth.SignOut(c.Request.Context(), token); err != nil && !errors.Is(err, supabase.ErrAuthFailed) {
			s.log.Error("signout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Sign out failed: " + err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}

func (s *Server) handleUser(c *gin.Context) {
	token := c.Query("access_token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Missing access token"})
		return
	}
	if !s.auth.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Auth provider is not configured"})
		return
	}

	user, err := s.auth.User(c.Request.Context(), token)
	if err != nil {
		// All lookup failures present as an invalid/expired token.
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Failed to get user: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": authUser{ID: user.ID, Email: user.Email, Name: user.Name()},
	})
}

func sessionOf(session *supabase.Session) authSession {
	if session == nil {
		return authSession{}
	}
	return authSession{AccessToken: session.AccessToken, RefreshToken: session.RefreshToken}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.ShouldBindJSON(&body); err == nil {
		return body.AccessToken
	}
	return ""
}
