package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/futbolprime-next/internal/domain"
	"github.com/futbolprime-next/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Store 本地会话存储，单行持久化并在内存中保留副本
type Store struct {
	db  *gorm.DB
	now func() time.Time

	mu      sync.RWMutex
	current *models.Session
}

// NewStore 创建会话存储并读取已保存的会话
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("session database is nil")
	}
	s := &Store{db: db, now: time.Now}
	var row models.Session
	err := db.Where("id = ?", models.SessionRowID).Take(&row).Error
	switch {
	case err == nil:
		if row.UserID > 0 {
			s.current = &row
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}
	return s, nil
}

// Save 保存登录结果
func (s *Store) Save(ctx context.Context, result domain.LoginResult) error {
	if result.User.ID <= 0 {
		return errors.New("login result has no user id")
	}
	row := models.Session{
		ID:        models.SessionRowID,
		UserID:    result.User.ID,
		Name:      strings.TrimSpace(result.User.Name),
		Email:     strings.TrimSpace(result.User.Email),
		Role:      strings.TrimSpace(result.User.Role),
		Token:     strings.TrimSpace(result.Token),
		ExpiresAt: tokenExpiry(result.Token),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return err
	}
	s.current = &row
	return nil
}

// Clear 清除会话
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.WithContext(ctx).Where("id = ?", models.SessionRowID).Delete(&models.Session{}).Error; err != nil {
		return err
	}
	s.current = nil
	return nil
}

// Current 当前登录用户，未登录或已过期返回 false
func (s *Store) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return domain.User{}, false
	}
	return domain.User{
		ID:    s.current.UserID,
		Name:  s.current.Name,
		Email: s.current.Email,
		Role:  s.current.Role,
	}, true
}

// CurrentUserID 当前用户ID，未登录为 0
func (s *Store) CurrentUserID() int64 {
	user, ok := s.Current()
	if !ok {
		return 0
	}
	return user.ID
}

// IsAuthenticated 是否已登录
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked()
}

// Token 当前访问令牌，未登录为空
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return ""
	}
	return s.current.Token
}

// ExpiresAt 令牌过期时间
func (s *Store) ExpiresAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.ExpiresAt == nil {
		return time.Time{}, false
	}
	return *s.current.ExpiresAt, true
}

func (s *Store) validLocked() bool {
	if s.current == nil || s.current.UserID <= 0 {
		return false
	}
	if s.current.ExpiresAt != nil && !s.now().Before(*s.current.ExpiresAt) {
		return false
	}
	return true
}

// tokenExpiry 读取 JWT 的 exp；签名由后端校验，这里不验证
func tokenExpiry(token string) *time.Time {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}
