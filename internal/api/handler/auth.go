package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	jwt "github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "villago-service"

// generateJWT issues a signed token carrying the user identity.
func (h *Handler) generateJWT(userID, nickname string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"nickname": nickname,
		"exp":      time.Now().Add(time.Hour * 72).Unix(),
		"iss":      tokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// validateToken parses a bearer token and returns the identity it carries.
func (h *Handler) validateToken(tokenString string) (userID, nickname string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}
	userID, _ = claims["user_id"].(string)
	nickname, _ = claims["nickname"].(string)
	if userID == "" {
		return "", "", errors.New("token missing user_id")
	}
	return userID, nickname, nil
}

// bearerIdentity extracts and validates the Authorization header.
func (h *Handler) bearerIdentity(c *gin.Context) (userID, nickname string, ok bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return "", "", false
	}
	userID, nickname, err := h.validateToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return "", "", false
	}
	return userID, nickname, true
}

type guestRequest struct {
	Nickname string `json:"nickname" binding:"required"`
	Region   string `json:"region"`
}

// GuestLogin creates (or finds) a guest user and returns a JWT for it.
func (h *Handler) GuestLogin(c *gin.Context) {
	var req guestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nickname is required"})
		return
	}

	user, err := h.Storage.FindOrCreateGuest(req.Nickname, req.Region)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := h.generateJWT(user.ID, user.Nickname)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "userId": user.ID, "nickname": user.Nickname})
}
