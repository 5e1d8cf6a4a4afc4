package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/AlexeyDemidow/restaurant-api-service/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const RoleStaff = "staff"

var errInvalidCredentials = errors.New("invalid credentials")

// AuthController issues staff tokens for table management. There is a single
// staff account configured through the environment.
type AuthController struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
}

func NewAuthController(username, passwordHash string, secret []byte, ttl time.Duration) *AuthController {
	return &AuthController{
		username:     username,
		passwordHash: []byte(passwordHash),
		secret:       secret,
		ttl:          ttl,
	}
}

// Login -> return JWT
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	// compare the hash even on a wrong username so timing does not leak it
	hashErr := bcrypt.CompareHashAndPassword(ac.passwordHash, []byte(input.Password))
	if input.Username != ac.username || hashErr != nil {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(ac.secret, input.Username, RoleStaff, ac.ttl)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.WithField("username", input.Username).Info("staff logged in")
	utils.RespondJSON(c, http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
