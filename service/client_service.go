package service

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"solar-agent/domain"
	"solar-agent/logger"
	"solar-agent/metrics"
	"solar-agent/repository"
)

// ClientService manages the roster of prospects used by roster sweeps.
type ClientService struct {
	repo repository.ClientRepository
	log  logger.Logger
	now  func() time.Time
}

func NewClientService(repo repository.ClientRepository, log logger.Logger) *ClientService {
	return &ClientService{repo: repo, log: log, now: time.Now}
}

// Register validates and stores a new client. The phone is normalized to
// E.164 before validation.
func (s *ClientService) Register(input domain.ClientInput) (domain.Client, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = domain.NormalizePhone(input.Phone)
	input.Email = strings.TrimSpace(input.Email)

	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name, validation.Required, validation.RuneLength(1, MaxClientNameLength)),
		validation.Field(&input.Phone, validation.Required, e164Rule),
		validation.Field(&input.Email, validation.Required, is.EmailFormat),
	)
	if err != nil {
		return domain.Client{}, toValidationError(err)
	}

	client := domain.Client{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Phone:        input.Phone,
		Email:        input.Email,
		RegisteredAt: s.now(),
	}
	if err := s.repo.Save(client); err != nil {
		return domain.Client{}, err
	}

	metrics.ClientsRegistered.Inc()
	s.log.Info("client registered", map[string]interface{}{
		"clientId": client.ID,
		"phone":    client.Phone,
	})
	return client, nil
}

// List returns clients in registration order.
func (s *ClientService) List() ([]domain.Client, error) {
	return s.repo.List()
}
