package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-agent/domain"
	"solar-agent/logger"
	"solar-agent/repository"
)

func newTestAuthService(t *testing.T) (*AuthService, *repository.MemoryCache) {
	t.Helper()
	cache := repository.NewMemoryCache()
	svc := NewAuthService(cache, AuthConfig{
		CodeTTL:    5 * time.Minute,
		SessionTTL: 24 * time.Hour,
		DemoCode:   "123456",
	}, logger.NewTestLogger(t))
	svc.generate = func() (string, error) { return "482913", nil }
	return svc, cache
}

func TestAuthService_RequestAndVerify(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	challenge, err := svc.RequestCode(ctx, domain.OTPRequest{PhoneNumber: "1 555 123 4567"})
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", challenge.PhoneNumber)
	assert.False(t, challenge.ExpiresAt.IsZero())

	session, err := svc.Verify(ctx, domain.OTPVerifyInput{PhoneNumber: "+15551234567", Code: "482913"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "+15551234567", session.PhoneNumber)

	phone, ok := svc.Authenticate(ctx, session.Token)
	assert.True(t, ok)
	assert.Equal(t, "+15551234567", phone)

	// The challenge is consumed.
	_, err = svc.Verify(ctx, domain.OTPVerifyInput{PhoneNumber: "+15551234567", Code: "482913"})
	assert.True(t, domain.IsValidation(err))
}

func TestAuthService_AcceptsDemoCode(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, domain.OTPRequest{PhoneNumber: "+15551234567"})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, domain.OTPVerifyInput{PhoneNumber: "+15551234567", Code: "123456"})
	assert.NoError(t, err)
}

func TestAuthService_VerifyFailures(t *testing.T) {
	tests := []struct {
		name    string
		request bool
		code    string
		message string
	}{
		{"not six digits", true, "12345", "enter the 6-digit verification code"},
		{"letters", true, "12a456", "enter the 6-digit verification code"},
		{"no pending challenge", false, "482913", "no pending verification for this number"},
		{"wrong code", true, "000000", "invalid verification code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuthService(t)
			ctx := context.Background()
			if tt.request {
				_, err := svc.RequestCode(ctx, domain.OTPRequest{PhoneNumber: "+15551234567"})
				require.NoError(t, err)
			}

			_, err := svc.Verify(ctx, domain.OTPVerifyInput{PhoneNumber: "+15551234567", Code: tt.code})

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, domain.ErrCodeInvalidCode, vErr.Code)
			assert.Equal(t, tt.message, vErr.Message)
		})
	}
}

func TestAuthService_RequestCodeInvalidPhone(t *testing.T) {
	svc, cache := newTestAuthService(t)

	_, err := svc.RequestCode(context.Background(), domain.OTPRequest{PhoneNumber: "12"})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.ErrCodeInvalidPhone, vErr.Code)
	_, ok := cache.Get(context.Background(), "otp:+12")
	assert.False(t, ok)
}

func TestAuthService_AuthenticateUnknownToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, ok := svc.Authenticate(context.Background(), "")
	assert.False(t, ok)
	_, ok = svc.Authenticate(context.Background(), "missing")
	assert.False(t, ok)
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
