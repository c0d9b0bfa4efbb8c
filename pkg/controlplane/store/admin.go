package store

import (
	"context"
	"crypto/sha256"
	"fmt"

	"gorm.io/gorm"
)

// CreateAdminUser inserts a new admin account. It returns ErrUsernameTaken
// if the username is already in use.
func (s *GORMStore) CreateAdminUser(ctx context.Context, user *AdminUser) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

// GetAdminUserByUsername looks up an admin by username.
func (s *GORMStore) GetAdminUserByUsername(ctx context.Context, username string) (*AdminUser, error) {
	return getByField[AdminUser](s.db, ctx, "username", username, ErrUserNotFound)
}

// GetAdminUserByID looks up an admin by id.
func (s *GORMStore) GetAdminUserByID(ctx context.Context, id int64) (*AdminUser, error) {
	return getByField[AdminUser](s.db, ctx, "id", id, ErrUserNotFound)
}

// ListAdminUsers returns every admin account.
func (s *GORMStore) ListAdminUsers(ctx context.Context) ([]*AdminUser, error) {
	return listAll[AdminUser](s.db, ctx)
}

// CountActiveAdmins returns the number of non-disabled admin accounts.
func (s *GORMStore) CountActiveAdmins(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&AdminUser{}).Where("disabled = ?", false).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count active admins: %w", err)
	}
	return n, nil
}

// UpdateAdminUser persists changes to user and, if revokeTokens is true,
// deletes every outstanding token for that user in the same transaction —
// required on password change or disable.
func (s *GORMStore) UpdateAdminUser(ctx context.Context, user *AdminUser, revokeTokens bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("update admin user: %w", err)
		}
		if revokeTokens {
			if err := tx.Where("user_id = ?", user.ID).Delete(&AdminToken{}).Error; err != nil {
				return fmt.Errorf("revoke tokens: %w", err)
			}
		}
		return nil
	})
}

// DeleteAdminUser removes an admin account and its outstanding tokens.
func (s *GORMStore) DeleteAdminUser(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&AdminUser{})
		if result.Error != nil {
			return fmt.Errorf("delete admin user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		if err := tx.Where("user_id = ?", id).Delete(&AdminToken{}).Error; err != nil {
			return fmt.Errorf("revoke tokens on delete: %w", err)
		}
		return nil
	})
}

// CreateAdminToken inserts a new bearer token record.
func (s *GORMStore) CreateAdminToken(ctx context.Context, token *AdminToken) error {
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("create admin token: %w", err)
	}
	return nil
}

// AdminTokenLookup is the result of validating a bearer token: the token
// record together with its owning user.
type AdminTokenLookup struct {
	Token AdminToken
	User  AdminUser
}

// LookupAdminToken resolves a plaintext token to its owning user, returning
// ErrTokenNotFound if no unexpired token with this hash exists. It does not
// itself check user.Disabled; callers must do so (see the token
// validity rule: hash match, not expired, user not disabled).
func (s *GORMStore) LookupAdminToken(ctx context.Context, plaintext string, nowUnix int64) (*AdminTokenLookup, error) {
	hash := sha256.Sum256([]byte(plaintext))

	var token AdminToken
	err := s.db.WithContext(ctx).
		Where("token_hash = ? AND expires_unix > ?", hash[:], nowUnix).
		First(&token).Error
	if err != nil {
		return nil, convertNotFoundError(err, ErrTokenNotFound)
	}

	user, err := s.GetAdminUserByID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}

	return &AdminTokenLookup{Token: token, User: *user}, nil
}

// DeleteExpiredTokens removes every token whose expiry has passed. Called
// opportunistically during login and bootstrap; the Retention Sweeper
// does not call it.
func (s *GORMStore) DeleteExpiredTokens(ctx context.Context, nowUnix int64) error {
	if err := s.db.WithContext(ctx).Where("expires_unix <= ?", nowUnix).Delete(&AdminToken{}).Error; err != nil {
		return fmt.Errorf("delete expired tokens: %w", err)
	}
	return nil
}
