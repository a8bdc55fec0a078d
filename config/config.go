package config

import (
	"strconv"
	"time"

	"solar-agent/domain"
)

// Config is the application configuration. Durations are milliseconds.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Voice     VoiceConfig     `mapstructure:"voice"`
	Calls     CallsConfig     `mapstructure:"calls"`
	Economics EconomicsConfig `mapstructure:"economics"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Company   CompanyConfig   `mapstructure:"company"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	IdleTimeout     int    `mapstructure:"idle_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// VoiceConfig describes the voice-call provider and the fixed routing
// identifiers sent with every call.
type VoiceConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	APIKey        string `mapstructure:"api_key"`
	AssistantID   string `mapstructure:"assistant_id"`
	PhoneNumberID string `mapstructure:"phone_number_id"`
	Timeout       int    `mapstructure:"timeout"`
}

type CallsConfig struct {
	GreetingAfter       int `mapstructure:"greeting_after"`
	ListeningAfter      int `mapstructure:"listening_after"`
	AutoEndAfter        int `mapstructure:"auto_end_after"`
	RosterDelay         int `mapstructure:"roster_delay"`
	MinCredentialLength int `mapstructure:"min_credential_length"`
}

type EconomicsConfig struct {
	AverageDealSize       float64 `mapstructure:"average_deal_size"`
	CommissionRatePercent float64 `mapstructure:"commission_rate_percent"`
	MonthlyCallVolume     int     `mapstructure:"monthly_call_volume"`
	AgentMonthlyCost      float64 `mapstructure:"agent_monthly_cost"`
}

type SessionConfig struct {
	InitialCallsToday  int           `mapstructure:"initial_calls_today"`
	InitialConversions int           `mapstructure:"initial_conversions"`
	CallLog            []CallLogSeed `mapstructure:"call_log"`
}

// CallLogSeed is a call log entry present at startup. Age is how long
// before startup the call happened, in milliseconds.
type CallLogSeed struct {
	ClientName      string `mapstructure:"client_name"`
	PhoneNumber     string `mapstructure:"phone_number"`
	DurationSeconds int    `mapstructure:"duration_seconds"`
	Status          string `mapstructure:"status"`
	Age             int    `mapstructure:"age"`
	Notes           string `mapstructure:"notes"`
}

// SeedEntries converts the configured call log, most recent first as
// listed, into log entries relative to now.
func (s SessionConfig) SeedEntries(now time.Time) []domain.CallLogEntry {
	entries := make([]domain.CallLogEntry, 0, len(s.CallLog))
	for i, seed := range s.CallLog {
		entries = append(entries, domain.CallLogEntry{
			ID:              strconv.Itoa(i + 1),
			ClientName:      seed.ClientName,
			PhoneNumber:     seed.PhoneNumber,
			DurationSeconds: seed.DurationSeconds,
			Status:          domain.CallStatus(seed.Status),
			Timestamp:       now.Add(-GetDuration(seed.Age)),
			Notes:           seed.Notes,
		})
	}
	return entries
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	CodeTTL    int    `mapstructure:"code_ttl"`
	SessionTTL int    `mapstructure:"session_ttl"`
	DemoCode   string `mapstructure:"demo_code"`
}

type RateLimitConfig struct {
	Capacity int `mapstructure:"capacity"`
	Refill   int `mapstructure:"refill"`
}

type CompanyConfig struct {
	Name    string `mapstructure:"name"`
	Phone   string `mapstructure:"phone"`
	Website string `mapstructure:"website"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
