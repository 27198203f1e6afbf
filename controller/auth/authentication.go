package auth

import (
	"net/http"
	"time"

	"projectflow/controller"
	"projectflow/dto"
	"projectflow/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const issuer = "projectflow"

func AuthController(router *gin.Engine, s *controller.Services, log *zap.Logger) {
	routes := router.Group("/auth")
	{
		routes.POST("/signin", func(c *gin.Context) {
			Signin(c, s, log)
		})
		routes.POST("/signup", func(c *gin.Context) {
			Signup(c, s)
		})
	}
}

func CreateAccessToken(secret []byte, userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &model.AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func Signin(c *gin.Context, s *controller.Services, log *zap.Logger) {
	var request dto.SigninRequest
	if !controller.BindJSON(c, &request) {
		return
	}
	user, err := s.Users.Signin(c.Request.Context(), request)
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	accessToken, err := CreateAccessToken(s.Secret, user.ID, s.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	// The push inbox is optional; a failed login record does not block sign-in.
	if s.Inbox != nil {
		if err := s.Inbox.RecordLogin(c.Request.Context(), user.Email, request.DeviceToken); err != nil {
			log.Warn("failed to record login", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successfully",
		"token": gin.H{
			"accessToken": accessToken,
			"expiresIn":   int64(s.TokenTTL.Seconds()),
		},
		"user": user,
	})
}

func Signup(c *gin.Context, s *controller.Services) {
	var request dto.SignupRequest
	if !controller.BindJSON(c, &request) {
		return
	}
	user, err := s.Users.Signup(c.Request.Context(), request)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}
