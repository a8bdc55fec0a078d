package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solar-agent/config"
	"solar-agent/domain"
	httpLayer "solar-agent/http"
	"solar-agent/logger"
	"solar-agent/repository"
	"solar-agent/service"
	"solar-agent/voice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format).With(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})
	defer appLog.Sync()

	cache, closeCache := newCache(cfg, appLog)
	defer closeCache()

	voiceClient := voice.NewClient(
		config.GetDuration(cfg.Voice.Timeout),
		voice.WithBaseURL(cfg.Voice.BaseURL),
	)

	company := service.CompanyProfile{
		Name:    cfg.Company.Name,
		Phone:   cfg.Company.Phone,
		Website: cfg.Company.Website,
	}

	callLog := repository.NewCallLogRepositoryMemory(cfg.Session.SeedEntries(time.Now())...)

	callController := service.NewCallController(voiceClient, callLog, service.CallControllerConfig{
		AssistantID:         cfg.Voice.AssistantID,
		PhoneNumberID:       cfg.Voice.PhoneNumberID,
		Company:             company,
		MinCredentialLength: cfg.Calls.MinCredentialLength,
		GreetingAfter:       config.GetDuration(cfg.Calls.GreetingAfter),
		ListeningAfter:      config.GetDuration(cfg.Calls.ListeningAfter),
		AutoEndAfter:        config.GetDuration(cfg.Calls.AutoEndAfter),
		RosterDelay:         config.GetDuration(cfg.Calls.RosterDelay),
		InitialCallsToday:   cfg.Session.InitialCallsToday,
		InitialConversions:  cfg.Session.InitialConversions,
	}, appLog.With(map[string]interface{}{"component": "calls"}))

	economicsService := service.NewEconomicsService(domain.EconomicsParameters{
		AverageDealSize:       cfg.Economics.AverageDealSize,
		CommissionRatePercent: cfg.Economics.CommissionRatePercent,
		MonthlyCallVolume:     cfg.Economics.MonthlyCallVolume,
		AgentMonthlyCost:      cfg.Economics.AgentMonthlyCost,
	}, callController, appLog.With(map[string]interface{}{"component": "economics"}))

	clientService := service.NewClientService(repository.NewClientRepositoryMemory(), appLog)

	authService := service.NewAuthService(cache, service.AuthConfig{
		CodeTTL:    config.GetDuration(cfg.Auth.CodeTTL),
		SessionTTL: config.GetDuration(cfg.Auth.SessionTTL),
		DemoCode:   cfg.Auth.DemoCode,
	}, appLog.With(map[string]interface{}{"component": "auth"}))

	assistantService := service.NewAssistantService(voiceClient, company, cfg.Calls.MinCredentialLength,
		appLog.With(map[string]interface{}{"component": "assistants"}))

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, config.GetDuration(cfg.RateLimit.Refill))
	defer rateLimiter.Stop()

	if cfg.Voice.APIKey == "" {
		appLog.Warn("no voice API key configured, callers must send one per request", nil)
	}

	router := httpLayer.NewRouter(httpLayer.RouterConfig{
		Economics:   economicsService,
		Calls:       callController,
		Clients:     clientService,
		Auth:        authService,
		Assistants:  assistantService,
		RateLimiter: rateLimiter,
		Logger:      appLog.With(map[string]interface{}{"component": "http"}),
		VoiceAPIKey: cfg.Voice.APIKey,
		RequireAuth: cfg.Auth.Enabled,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.GetDuration(cfg.Server.IdleTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		appLog.Info("server listening", map[string]interface{}{"addr": cfg.Server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		appLog.WithError(err).Error("server failed to start", nil)
		callController.Close()
		return
	case <-quit:
		appLog.Info("shutting down server", nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.WithError(err).Error("error during server shutdown", nil)
	}

	callController.EndCall(ctx)
	callController.Close()

	appLog.Info("server exited", nil)
}

// newCache returns Redis when enabled and reachable, otherwise the
// in-memory cache.
func newCache(cfg *config.Config, appLog logger.Logger) (repository.CacheRepository, func()) {
	if !cfg.Redis.Enabled {
		return repository.NewMemoryCache(), func() {}
	}

	redisCache := repository.NewRedisCache(repository.RedisOptions{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		appLog.WithError(err).Warn("redis unavailable, falling back to in-memory cache", map[string]interface{}{
			"address": cfg.Redis.Address,
		})
		redisCache.Close()
		return repository.NewMemoryCache(), func() {}
	}

	appLog.Info("using redis cache", map[string]interface{}{"address": cfg.Redis.Address})
	return redisCache, func() { redisCache.Close() }
}
