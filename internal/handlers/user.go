package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/cliptube/cliptube/internal/middleware"
	"github.com/cliptube/cliptube/internal/services"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// formFile opens the named multipart file. A missing file yields (nil, nil,
// nil) so callers can decide whether the field is mandatory.
func formFile(c *gin.Context, field string) (*services.FileUpload, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("invalid %s file: %w", field, apperrors.ErrInvalidArgument)
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s file: %w", field, apperrors.ErrInvalidArgument)
	}
	return &services.FileUpload{Filename: header.Filename, Reader: file}, file, nil
}

func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	avatar, avatarFile, err := formFile(c, "avatar")
	if err != nil {
		respondError(c, err)
		return
	}
	if avatarFile != nil {
		defer avatarFile.Close()
	}

	cover, coverFile, err := formFile(c, "coverImage")
	if err != nil {
		respondError(c, err)
		return
	}
	if coverFile != nil {
		defer coverFile.Close()
	}

	user, err := h.users.Register(c.Request.Context(), &req, avatar, cover)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, user, "user registered successfully")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	result, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	setAuthCookies(c, result.AccessToken, result.RefreshToken)
	respond(c, http.StatusOK, result, "logged in successfully")
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	clearAuthCookies(c)
	respond(c, http.StatusOK, nil, "logged out successfully")
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	token := refreshTokenFrom(c)
	result, err := h.users.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	setAuthCookies(c, result.AccessToken, result.RefreshToken)
	respond(c, http.StatusOK, gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	}, "tokens refreshed successfully")
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "current user fetched successfully")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "password changed successfully")
}

func (h *UserHandler) UpdateAccountDetails(c *gin.Context) {
	var req services.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	user, err := h.users.UpdateAccountDetails(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	upload, file, err := formFile(c, "avatar")
	if err != nil {
		respondError(c, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	user, err := h.users.UpdateAvatar(c.Request.Context(), middleware.GetUserID(c), upload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	upload, file, err := formFile(c, "coverImage")
	if err != nil {
		respondError(c, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	user, err := h.users.UpdateCoverImage(c.Request.Context(), middleware.GetUserID(c), upload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "cover image updated successfully")
}

func (h *UserHandler) ChannelProfile(c *gin.Context) {
	profile, err := h.users.GetChannelProfile(c.Request.Context(), c.Param("username"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile, "channel profile fetched successfully")
}

func (h *UserHandler) WatchHistory(c *gin.Context) {
	videos, err := h.users.GetWatchHistory(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "watch history fetched successfully")
}

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, accessToken, 0, "/", "", false, true)
	c.SetCookie(refreshTokenCookie, refreshToken, 0, "/", "", false, true)
}

func clearAuthCookies(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", false, true)
}

// refreshTokenFrom prefers the cookie set at login and falls back to an
// explicit JSON body for non-browser clients.
func refreshTokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}
