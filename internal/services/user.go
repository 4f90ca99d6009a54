package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/internal/repository"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/cliptube/cliptube/pkg/queue"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo  UserStore
	subRepo   SubscriptionStore
	watchRepo WatchHistoryStore
	tokens    *TokenManager
	media     MediaStore
	producer  EventPublisher
	logger    *logger.Logger
}

func NewUserService(
	userRepo UserStore,
	subRepo SubscriptionStore,
	watchRepo WatchHistoryStore,
	tokens *TokenManager,
	media MediaStore,
	producer EventPublisher,
	logger *logger.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		subRepo:   subRepo,
		watchRepo: watchRepo,
		tokens:    tokens,
		media:     media,
		producer:  producer,
		logger:    logger,
	}
}

type RegisterRequest struct {
	Username string `form:"username" binding:"required,min=3,max=30"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6,max=72"`
	FullName string `form:"full_name" binding:"required,max=80"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type UpdateAccountRequest struct {
	FullName string `json:"full_name" binding:"required,max=80"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

type AuthResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Register creates the account, uploading the mandatory avatar and the
// optional cover image first, and returns the canonical stored record.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest, avatar *FileUpload, cover *FileUpload) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)

	if username == "" || email == "" || fullName == "" || strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("all fields are required: %w", apperrors.ErrInvalidArgument)
	}
	if avatar == nil {
		return nil, fmt.Errorf("avatar is required: %w", apperrors.ErrInvalidArgument)
	}

	existing, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username or email already taken: %w", apperrors.ErrDuplicateEntry)
	}

	avatarURL, err := s.media.Put(ctx, "avatars", avatar.Filename, avatar.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", apperrors.ErrOperationFailed)
	}

	coverURL := ""
	if cover != nil {
		coverURL, err = s.media.Put(ctx, "covers", cover.Filename, cover.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to upload cover image: %w", apperrors.ErrOperationFailed)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:   username,
		Email:      email,
		Password:   string(hashedPassword),
		FullName:   fullName,
		Avatar:     avatarURL,
		CoverImage: coverURL,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("username or email already taken: %w", apperrors.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Re-fetch so the caller sees the stored form, not the locally built one.
	created, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created user: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("created user missing: %w", apperrors.ErrOperationFailed)
	}

	if event, err := queue.NewEvent(queue.EventUserRegistered, created.ID.String(), map[string]string{
		"user_id":  created.ID.String(),
		"username": created.Username,
	}); err == nil {
		if err := s.producer.Publish(ctx, created.ID.String(), event); err != nil {
			s.logger.WithError(err).Error("Failed to publish user registered event")
		}
	}

	s.logger.WithField("user_id", created.ID).Info("User registered")
	return created, nil
}

// Login verifies credentials by username or email and issues a fresh token
// pair, persisting the refresh token as the single live session.
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, fmt.Errorf("username or email is required: %w", apperrors.ErrInvalidArgument)
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")
	return result, nil
}

// Logout clears the stored refresh token so any previously issued refresh
// token is revoked.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateRefreshToken(ctx, id, ""); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	s.logger.WithField("user_id", id).Info("User logged out")
	return nil
}

// Refresh validates the presented refresh token cryptographically AND
// against the exact value stored on the user. A superseded or revoked
// token fails even when its signature is still valid.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("refresh token is required: %w", apperrors.ErrUnauthenticated)
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token subject: %w", apperrors.ErrUnauthenticated)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, fmt.Errorf("refresh token expired or revoked: %w", apperrors.ErrUnauthenticated)
	}

	return s.issueTokens(ctx, user)
}

func (s *UserService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}
	user.RefreshToken = refreshToken

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return fmt.Errorf("invalid old password: %w", apperrors.ErrUnauthenticated)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hashed)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("Password changed")
	return nil
}

func (s *UserService) UpdateAccountDetails(ctx context.Context, userID string, req *UpdateAccountRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(req.FullName)
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || username == "" || email == "" {
		return nil, fmt.Errorf("all fields are required: %w", apperrors.ErrInvalidArgument)
	}

	user.FullName = fullName
	user.Username = username
	user.Email = email

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("username or email already taken: %w", apperrors.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return user, nil
}

// UpdateAvatar uploads the replacement first and deletes the old blob only
// after the new URL is persisted, so a failed update never loses the
// current avatar.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, upload *FileUpload) (*models.User, error) {
	return s.updateImage(ctx, userID, upload, "avatars", func(u *models.User) *string { return &u.Avatar })
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, upload *FileUpload) (*models.User, error) {
	return s.updateImage(ctx, userID, upload, "covers", func(u *models.User) *string { return &u.CoverImage })
}

func (s *UserService) updateImage(ctx context.Context, userID string, upload *FileUpload, kind string, field func(*models.User) *string) (*models.User, error) {
	if upload == nil {
		return nil, fmt.Errorf("image file is required: %w", apperrors.ErrInvalidArgument)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	newURL, err := s.media.Put(ctx, kind, upload.Filename, upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", apperrors.ErrOperationFailed)
	}

	oldURL := *field(user)
	*field(user) = newURL

	if err := s.userRepo.Update(ctx, user); err != nil {
		// Compensate: the update failed, so remove the orphaned upload.
		if delErr := s.media.Delete(ctx, newURL); delErr != nil {
			s.logger.WithError(delErr).Error("Failed to delete orphaned image")
		}
		return nil, fmt.Errorf("failed to update user image: %w", err)
	}

	if oldURL != "" {
		if err := s.media.Delete(ctx, oldURL); err != nil {
			s.logger.WithError(err).Error("Failed to delete old image")
		}
	}
	return user, nil
}

// GetChannelProfile assembles the public channel view: profile fields plus
// subscriber/subscribed-to counts and the viewer's subscription flag.
func (s *UserService) GetChannelProfile(ctx context.Context, username, viewerID string) (*ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", apperrors.ErrInvalidArgument)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("channel: %w", apperrors.ErrNotFound)
	}

	subscriberCount, err := s.subRepo.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	subscribedToCount, err := s.subRepo.CountSubscribedTo(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	subscribed := false
	if viewer, err := uuid.Parse(viewerID); err == nil {
		subscribed, err = s.subRepo.IsSubscribed(ctx, viewer, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ChannelProfile{
		PublicProfile:     user.Public(),
		CoverImage:        user.CoverImage,
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
		Subscribed:        subscribed,
	}, nil
}

// GetWatchHistory resolves the user's history into full video views in
// stored order.
func (s *UserService) GetWatchHistory(ctx context.Context, userID string) ([]VideoView, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	videos, err := s.watchRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	views := make([]VideoView, 0, len(videos))
	for _, video := range videos {
		views = append(views, NewVideoView(video))
	}
	return views, nil
}

// parseID converts a path/token identifier into a UUID, mapping malformed
// values to the invalid-argument taxonomy entry.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid identifier %q: %w", raw, apperrors.ErrInvalidArgument)
	}
	return id, nil
}
