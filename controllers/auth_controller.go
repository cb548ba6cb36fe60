package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aivora/aivora-backend/middleware"
	"github.com/aivora/aivora-backend/models"
	"github.com/aivora/aivora-backend/utils"
)

type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

const invalidCredentials = "Invalid email or password"

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}
	if !utils.ValidEmail(email) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid email format"})
		return
	}
	if problem := utils.PasswordProblem(password); problem != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": problem})
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.TrimSpace(input.DisplayName)
	}
	if name == "" {
		name = "User"
	}

	db := getDB(c)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		respondError(c, err, "")
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err, "")
		return
	}

	user := models.User{Name: name, Email: email, Password: string(hashed)}
	if err := db.Create(&user).Error; err != nil {
		// lost a race with a concurrent registration
		respondError(c, err, "Email already registered")
		return
	}

	tokens, err := issueSession(c, db, user)
	if err != nil {
		respondError(c, err, "")
		return
	}
	resp := gin.H{"success": true, "message": "Registration successful", "user": user.Profile()}
	for k, v := range tokens {
		resp[k] = v
	}
	c.JSON(http.StatusCreated, resp)
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	db := getDB(c)
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
			return
		}
		respondError(c, err, "")
		return
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
		return
	}

	tokens, err := issueSession(c, db, user)
	if err != nil {
		respondError(c, err, "")
		return
	}
	resp := gin.H{"success": true, "message": "Login successful", "user": user.Profile()}
	for k, v := range tokens {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

// Logout never fails: the cookie is cleared and the named refresh session,
// if any, is revoked.
func Logout(c *gin.Context) {
	var input RefreshInput
	_ = c.ShouldBindJSON(&input)

	if raw := strings.TrimSpace(input.RefreshToken); raw != "" {
		err := getDB(c).Where("token_hash = ?", utils.HashRefreshToken(raw)).Delete(&models.Session{}).Error
		if err != nil {
			getLog(c).Warn("revoke session on logout failed", "error", err)
		}
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// Me reports the identity carried by the token; storage is not consulted.
func Me(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    id,
		"user_id": id.UserID.String(),
		"email":   id.Email,
		"name":    id.Name,
	})
}

// Refresh rotates a refresh session: the presented token stops working.
func Refresh(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.RefreshToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token required"})
		return
	}
	hash := utils.HashRefreshToken(strings.TrimSpace(input.RefreshToken))

	var (
		user   models.User
		tokens gin.H
	)
	err := getDB(c).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.Where("token_hash = ? AND expires_at > ?", hash, time.Now()).First(&session).Error; err != nil {
			return err
		}
		if err := tx.Delete(&session).Error; err != nil {
			return err
		}
		if err := tx.First(&user, "id = ?", session.UserID).Error; err != nil {
			return err
		}
		var err error
		tokens, err = issueSession(c, tx, user)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}
	if err != nil {
		respondError(c, err, "")
		return
	}

	resp := gin.H{"success": true, "user": user.Profile()}
	for k, v := range tokens {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

func GoogleLogin(c *gin.Context) {
	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.IDToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token required"})
		return
	}
	svc := getServices(c)
	if svc.Google == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google login is not configured"})
		return
	}

	profile, err := svc.Google.Verify(c.Request.Context(), input.IDToken)
	if err != nil {
		getLog(c).Warn("google token rejected", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token"})
		return
	}

	db := getDB(c)
	var user models.User
	err = db.Where("email = ?", profile.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			name = "User"
		}
		// no local password: this account signs in through Google only
		user = models.User{Name: name, Email: profile.Email}
		err = db.Create(&user).Error
	}
	if err != nil {
		respondError(c, err, "Email already registered")
		return
	}

	tokens, err := issueSession(c, db, user)
	if err != nil {
		respondError(c, err, "")
		return
	}
	resp := gin.H{"success": true, "message": "Login successful", "user": user.Profile()}
	for k, v := range tokens {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

// ChangePassword also revokes every refresh session of the user.
func ChangePassword(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil || input.OldPassword == "" || strings.TrimSpace(input.NewPassword) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "old_password and new_password required"})
		return
	}

	db := getDB(c)
	var user models.User
	if err := db.First(&user, "id = ?", id.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		respondError(c, err, "")
		return
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}
	newPassword := strings.TrimSpace(input.NewPassword)
	if problem := utils.PasswordProblem(newPassword); problem != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": problem})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err, "")
		return
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password", string(hashed)).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error
	})
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}

// issueSession signs an access token, stores a new refresh session and sets
// the session cookie.
func issueSession(c *gin.Context, db *gorm.DB, user models.User) (gin.H, error) {
	access, _, err := utils.GenerateToken(utils.Identity{UserID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		return nil, err
	}
	raw, hash, err := utils.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	session := models.Session{UserID: user.ID, TokenHash: hash, ExpiresAt: time.Now().Add(utils.RefreshTTL())}
	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}

	setSessionCookie(c, access)
	return gin.H{
		"access_token":  access,
		"refresh_token": raw,
		"token_type":    "Bearer",
		"expires_in":    int(utils.AccessTTL().Seconds()),
	}, nil
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(utils.AccessTTL().Seconds()), "/", "", getServices(c).CookieSecure, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", getServices(c).CookieSecure, true)
}
