package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"

	"solar-agent/domain"
	"solar-agent/logger"
	"solar-agent/metrics"
	"solar-agent/repository"
)

const (
	otpKeyPrefix     = "otp:"
	sessionKeyPrefix = "session:"
)

var otpCodePattern = regexp.MustCompile(`^\d{6}$`)

type AuthConfig struct {
	CodeTTL    time.Duration
	SessionTTL time.Duration
	DemoCode   string
}

// AuthService issues simulated one-time codes and session tokens. Codes are
// logged instead of delivered.
type AuthService struct {
	cache    repository.CacheRepository
	cfg      AuthConfig
	log      logger.Logger
	now      func() time.Time
	generate func() (string, error)
}

func NewAuthService(cache repository.CacheRepository, cfg AuthConfig, log logger.Logger) *AuthService {
	return &AuthService{
		cache:    cache,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		generate: generateCode,
	}
}

// RequestCode issues a code for the number and stores it until it expires.
func (s *AuthService) RequestCode(ctx context.Context, req domain.OTPRequest) (domain.OTPChallenge, error) {
	phone := domain.NormalizePhone(req.PhoneNumber)
	if err := domain.ValidatePhone("phoneNumber", phone); err != nil {
		metrics.OTPRequests.WithLabelValues("request", "invalid").Inc()
		return domain.OTPChallenge{}, err
	}

	code, err := s.generate()
	if err != nil {
		return domain.OTPChallenge{}, fmt.Errorf("generate code: %w", err)
	}
	if err := s.cache.Set(ctx, otpKeyPrefix+phone, code, s.cfg.CodeTTL); err != nil {
		return domain.OTPChallenge{}, fmt.Errorf("store code: %w", err)
	}

	metrics.OTPRequests.WithLabelValues("request", "issued").Inc()
	s.log.Info("verification code issued", map[string]interface{}{
		"phoneNumber": phone,
		"code":        code,
	})

	return domain.OTPChallenge{
		PhoneNumber: phone,
		ExpiresAt:   s.now().Add(s.cfg.CodeTTL),
	}, nil
}

// Verify checks the code against the pending challenge and issues a session
// token. The configured demo code is accepted for any pending challenge.
func (s *AuthService) Verify(ctx context.Context, input domain.OTPVerifyInput) (domain.AuthSession, error) {
	phone := domain.NormalizePhone(input.PhoneNumber)
	if err := domain.ValidatePhone("phoneNumber", phone); err != nil {
		return domain.AuthSession{}, err
	}
	if !otpCodePattern.MatchString(input.Code) {
		metrics.OTPRequests.WithLabelValues("verify", "invalid").Inc()
		return domain.AuthSession{}, domain.NewValidationError(domain.ErrCodeInvalidCode, "code",
			"enter the 6-digit verification code")
	}

	pending, ok := s.cache.Get(ctx, otpKeyPrefix+phone)
	if !ok {
		metrics.OTPRequests.WithLabelValues("verify", "missing").Inc()
		return domain.AuthSession{}, domain.NewValidationError(domain.ErrCodeInvalidCode, "code",
			"no pending verification for this number")
	}
	if input.Code != pending && (s.cfg.DemoCode == "" || input.Code != s.cfg.DemoCode) {
		metrics.OTPRequests.WithLabelValues("verify", "rejected").Inc()
		return domain.AuthSession{}, domain.NewValidationError(domain.ErrCodeInvalidCode, "code",
			"invalid verification code")
	}

	if err := s.cache.Delete(ctx, otpKeyPrefix+phone); err != nil {
		s.log.WithError(err).Warn("failed to delete verification code", map[string]interface{}{
			"phoneNumber": phone,
		})
	}

	token := uuid.NewString()
	if err := s.cache.Set(ctx, sessionKeyPrefix+token, phone, s.cfg.SessionTTL); err != nil {
		return domain.AuthSession{}, fmt.Errorf("store session: %w", err)
	}

	metrics.OTPRequests.WithLabelValues("verify", "accepted").Inc()
	s.log.Info("phone verified", map[string]interface{}{"phoneNumber": phone})

	return domain.AuthSession{
		Token:       token,
		PhoneNumber: phone,
		ExpiresAt:   s.now().Add(s.cfg.SessionTTL),
	}, nil
}

// Authenticate resolves a session token to the verified phone number.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	return s.cache.Get(ctx, sessionKeyPrefix+token)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
