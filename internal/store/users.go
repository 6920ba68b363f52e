package store

import (
	"context"
	"strings"
	"time"

	"pizza-builder-backend/internal/models"

	"github.com/google/uuid"
)

// CreateUser inserts a new account; a taken email yields ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	return translate(s.db(ctx).Create(u).Error)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db(ctx).First(&u, "email = ?", strings.ToLower(email)).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.db(ctx).Order("created_at").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// SaveUser writes every column of u.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	return translate(s.db(ctx).Save(u).Error)
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.RemoveTokens(ctx, id); err != nil {
		return err
	}
	res := s.db(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddToken appends an issued token to the user's token collection.
func (s *Store) AddToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	return translate(s.db(ctx).Create(&models.UserToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}).Error)
}

// RemoveToken revokes one token.
func (s *Store) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	res := s.db(ctx).Where("user_id = ? AND token = ?", userID, token).Delete(&models.UserToken{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveTokens revokes every token issued to the user.
func (s *Store) RemoveTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.db(ctx).Where("user_id = ?", userID).Delete(&models.UserToken{})
	return res.RowsAffected, translate(res.Error)
}

// HasToken reports whether token is still listed and unexpired for the user.
func (s *Store) HasToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	var n int64
	err := s.db(ctx).Model(&models.UserToken{}).
		Where("user_id = ? AND token = ? AND expires_at > ?", userID, token, time.Now()).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}
