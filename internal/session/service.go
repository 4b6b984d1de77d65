package session

import (
	"context"
	"strings"

	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/domain"
	"github.com/futbolprime-next/internal/logger"
	"github.com/futbolprime-next/internal/service"

	"go.uber.org/zap"
)

// LoginBackend 远端登录接口
type LoginBackend interface {
	Login(ctx context.Context, email, password string) (domain.LoginResult, error)
}

// Service 登录与登出
type Service struct {
	store   *Store
	backend LoginBackend
	log     *zap.SugaredLogger
}

// NewService 创建会话服务
func NewService(store *Store, backend LoginBackend, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = logger.Named("session")
	}
	return &Service{store: store, backend: backend, log: log}
}

// Store 会话存储
func (s *Service) Store() *Store {
	return s.store
}

// Login 校验输入、调用后端登录并保存会话
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, error) {
	const op = "session.login"
	email = strings.TrimSpace(email)
	if fields := validateLogin(email, password); len(fields) > 0 {
		return domain.User{}, &service.Error{
			Kind:    service.KindValidationFailed,
			Op:      op,
			Message: firstMessage(fields),
			Err:     service.ErrValidationFailed,
		}
	}
	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.log.Warnw("session_login_failed", "email", email, "error", err)
		return domain.User{}, service.Classify(op, err)
	}
	if err := s.store.Save(ctx, result); err != nil {
		s.log.Errorw("session_save_failed", "user_id", result.User.ID, "error", err)
		return domain.User{}, &service.Error{Kind: service.KindInvalidState, Op: op, Message: "could not persist session", Err: err}
	}
	s.log.Infow("session_login", "user_id", result.User.ID)
	return result.User, nil
}

// Logout 清除本地会话
func (s *Service) Logout(ctx context.Context) error {
	userID := s.store.CurrentUserID()
	if err := s.store.Clear(ctx); err != nil {
		s.log.Errorw("session_clear_failed", "user_id", userID, "error", err)
		return err
	}
	s.log.Infow("session_logout", "user_id", userID)
	return nil
}

func validateLogin(email, password string) map[string]string {
	fields := make(map[string]string)
	if email == "" {
		fields["email"] = "email is required"
	}
	if len(password) < constants.PasswordMinLength {
		fields["password"] = "password must have at least 6 characters"
	}
	return fields
}

func firstMessage(fields map[string]string) string {
	for _, key := range []string{"email", "password"} {
		if msg, ok := fields[key]; ok {
			return msg
		}
	}
	return "invalid credentials"
}
