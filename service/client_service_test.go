package service

import (
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-agent/domain"
	"solar-agent/logger"
	"solar-agent/repository"
)

type mockClientRepository struct {
	saveFn func(client domain.Client) error
	listFn func() ([]domain.Client, error)
}

func (m *mockClientRepository) Save(client domain.Client) error {
	if m.saveFn != nil {
		return m.saveFn(client)
	}
	return nil
}

func (m *mockClientRepository) List() ([]domain.Client, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return nil, nil
}

func TestClientService_Register(t *testing.T) {
	repo := repository.NewClientRepositoryMemory()
	svc := NewClientService(repo, logger.NewTestLogger(t))
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	client, err := svc.Register(domain.ClientInput{
		Name:  "  Ana Lopez ",
		Phone: "+1 (555) 123-4567",
		Email: "ana@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "Ana Lopez", client.Name)
	assert.Equal(t, "+15551234567", client.Phone)
	assert.Equal(t, "ana@example.com", client.Email)
	assert.Equal(t, fixed, client.RegisteredAt)

	clients, err := svc.List()
	require.NoError(t, err)
	assert.Equal(t, []domain.Client{client}, clients)
}

func TestClientService_RegisterKeepsOrder(t *testing.T) {
	svc := NewClientService(repository.NewClientRepositoryMemory(), logger.NewTestLogger(t))

	for _, name := range []string{"Ana", "Ben", "Cara"} {
		_, err := svc.Register(domain.ClientInput{Name: name, Phone: "+15551234567", Email: "x@example.com"})
		require.NoError(t, err)
	}

	clients, err := svc.List()
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, "Ana", clients[0].Name)
	assert.Equal(t, "Cara", clients[2].Name)
}

func TestClientService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		input domain.ClientInput
		code  domain.ErrorCode
		field string
	}{
		{"missing name", domain.ClientInput{Name: "  ", Phone: "+15551234567", Email: "a@b.com"}, domain.ErrCodeInvalidInput, "name"},
		{"bad phone", domain.ClientInput{Name: "Ana", Phone: "+0123", Email: "a@b.com"}, domain.ErrCodeInvalidPhone, "phone"},
		{"missing phone", domain.ClientInput{Name: "Ana", Phone: "", Email: "a@b.com"}, domain.ErrCodeInvalidPhone, "phone"},
		{"phone too long", domain.ClientInput{Name: "Ana", Phone: "+1234567890123456", Email: "a@b.com"}, domain.ErrCodeInvalidPhone, "phone"},
		{"bad email", domain.ClientInput{Name: "Ana", Phone: "+15551234567", Email: "not-an-email"}, domain.ErrCodeInvalidInput, "email"},
		{"missing email", domain.ClientInput{Name: "Ana", Phone: "+15551234567"}, domain.ErrCodeInvalidInput, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockClientRepository{
				saveFn: func(domain.Client) error {
					t.Fatal("invalid client must not be saved")
					return nil
				},
			}
			svc := NewClientService(repo, logger.NewTestLogger(t))

			_, err := svc.Register(tt.input)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.code, vErr.Code)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestClientService_RegisterRepositoryError(t *testing.T) {
	repo := &mockClientRepository{
		saveFn: func(domain.Client) error { return errors.New("disk full") },
	}
	svc := NewClientService(repo, logger.NewTestLogger(t))

	_, err := svc.Register(domain.ClientInput{Name: "Ana", Phone: "+15551234567", Email: "ana@example.com"})

	assert.EqualError(t, err, "disk full")
}

func TestE164RuleMatchesDomain(t *testing.T) {
	for _, phone := range []string{"+15551234567", "+1234567", "+123456", "+0123456789", "15551234567", "+1555123456789012", ""} {
		err := validation.Validate(phone, e164Rule)
		if phone == "" {
			assert.NoError(t, err, "empty values are left to Required")
			continue
		}
		assert.Equal(t, domain.IsValidPhone(phone), err == nil, phone)
	}
}
