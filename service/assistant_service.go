package service

import (
	"context"

	"solar-agent/logger"
	"solar-agent/metrics"
	"solar-agent/voice"
)

// AssistantCreator is the provider operation used to provision assistants.
type AssistantCreator interface {
	CreateAssistant(ctx context.Context, credential, companyName string, overrides map[string]interface{}) (*voice.Assistant, error)
}

// AssistantService provisions voice assistants branded with the company
// profile.
type AssistantService struct {
	voice               AssistantCreator
	company             CompanyProfile
	minCredentialLength int
	log                 logger.Logger
}

func NewAssistantService(creator AssistantCreator, company CompanyProfile, minCredentialLength int, log logger.Logger) *AssistantService {
	if minCredentialLength <= 0 {
		minCredentialLength = MinCredentialLength
	}
	return &AssistantService{
		voice:               creator,
		company:             company,
		minCredentialLength: minCredentialLength,
		log:                 log,
	}
}

// Create sends the default solar assistant merged with overrides. Provider
// failures come back as CallDispatchError.
func (s *AssistantService) Create(ctx context.Context, credential string, overrides map[string]interface{}) (*voice.Assistant, error) {
	if err := checkCredential(credential, s.minCredentialLength); err != nil {
		return nil, err
	}

	assistant, err := s.voice.CreateAssistant(ctx, credential, s.company.Name, overrides)
	if err != nil {
		metrics.AssistantsCreated.WithLabelValues("error").Inc()
		dispatchErr := toDispatchError(err)
		if dispatchErr.Message == genericDispatchFailed {
			dispatchErr.Message = genericAssistantFailed
		}
		s.log.WithError(err).Error("failed to create assistant", map[string]interface{}{
			"statusCode": dispatchErr.StatusCode,
		})
		return nil, dispatchErr
	}

	metrics.AssistantsCreated.WithLabelValues("success").Inc()
	s.log.Info("assistant created", map[string]interface{}{
		"assistantId": assistant.ID,
		"name":        assistant.Name,
	})
	return assistant, nil
}
