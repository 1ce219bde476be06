package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"missingpersons-be/middlewares"
	"missingpersons-be/models"
	"missingpersons-be/services"
	"missingpersons-be/utils"
)

type AuthController struct {
	Auth   *services.AuthService
	Env    string
	Domain string
	Log    *zap.Logger
}

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role":      u.Role,
		"createdAt": u.CreatedAt,
	}
}

// RegisterUser handles user registration. An admin caller may create
// another admin.
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"omitempty,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.Auth.Register(c.Request.Context(), input.Name, input.Email, input.Password,
		models.Role(input.Role), middlewares.IsAdmin(c))
	if err != nil {
		respondError(c, ac.Log, err, "Something went wrong")
		return
	}
	c.JSON(http.StatusCreated, userResponse(user))
}

// LoginUser handles user login and sets the auth cookie.
func (ac *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := ac.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, ac.Log, err, "Something went wrong")
		return
	}

	production := ac.Env == "production"
	domain := ac.Domain
	// For production, don't set domain to allow cross-origin cookies
	if production {
		domain = ""
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    token,
		MaxAge:   int(utils.TokenTTL.Seconds()),
		Path:     "/",
		Domain:   domain,
		Secure:   production,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	resp := userResponse(user)
	resp["token"] = token
	c.JSON(http.StatusOK, resp)
}

// GetMe retrieves the authenticated user's information.
func (ac *AuthController) GetMe(c *gin.Context) {
	user, err := ac.Auth.Me(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		respondError(c, ac.Log, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// LogoutUser clears the auth cookie.
func (ac *AuthController) LogoutUser(c *gin.Context) {
	c.SetCookie(middlewares.AuthCookie, "", -1, "/", ac.Domain, ac.Env == "production", true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
