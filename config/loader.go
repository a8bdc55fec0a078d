package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"solar-agent/domain"
)

const envPrefix = "SOLAR"

// Load reads configs/config.yaml (optional), configs/config.<env>.yaml
// (optional) and SOLAR_* environment variables, in increasing precedence.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	_ = v.MergeInConfig()

	return build(v)
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	bindEnvKeys(v)
	return v
}

// setDefaults registers numeric defaults with viper so an explicit 0 in a
// file or the environment is kept. The values mirror the demo product: a
// 30 second simulated call and the profit calculator's starting values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 15000)
	v.SetDefault("server.idle_timeout", 60000)
	v.SetDefault("server.shutdown_timeout", 10000)

	v.SetDefault("voice.timeout", 30000)

	v.SetDefault("calls.greeting_after", 3000)
	v.SetDefault("calls.listening_after", 8000)
	v.SetDefault("calls.auto_end_after", 30000)
	v.SetDefault("calls.roster_delay", 2000)
	v.SetDefault("calls.min_credential_length", 8)

	v.SetDefault("economics.average_deal_size", 25000)
	v.SetDefault("economics.commission_rate_percent", 8)
	v.SetDefault("economics.monthly_call_volume", 1500)
	v.SetDefault("economics.agent_monthly_cost", 299)

	v.SetDefault("session.initial_calls_today", 0)
	v.SetDefault("session.initial_conversions", 0)

	v.SetDefault("auth.code_ttl", 5*60*1000)
	v.SetDefault("auth.session_ttl", 24*60*60*1000)

	v.SetDefault("rate_limit.capacity", 30)
	v.SetDefault("rate_limit.refill", 60000)
}

// bindEnvKeys makes keys that are absent from every file visible to
// AutomaticEnv during Unmarshal.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"logging.level", "logging.format",
		"server.addr",
		"voice.base_url", "voice.api_key", "voice.assistant_id", "voice.phone_number_id",
		"redis.enabled", "redis.address", "redis.password", "redis.db",
		"auth.enabled", "auth.demo_code",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// expandEnvVars resolves ${VAR} placeholders in string values. Unset
// variables expand to "".
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "${") {
			continue
		}
		v.Set(key, os.ExpandEnv(strVal))
	}
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// applyDefaults fills string settings left empty, including ones that
// expanded from an unset ${VAR}.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "solar-agent"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Voice.BaseURL == "" {
		cfg.Voice.BaseURL = "https://api.vapi.ai"
	}
	if cfg.Voice.AssistantID == "" {
		cfg.Voice.AssistantID = "448258e3-a332-4c2b-8346-d51f06e0ec77"
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}

	if cfg.Auth.DemoCode == "" {
		cfg.Auth.DemoCode = "123456"
	}

	if cfg.Company.Name == "" {
		cfg.Company.Name = "SolarPro AI"
	}
	if cfg.Company.Phone == "" {
		cfg.Company.Phone = "(555) 123-SOLAR"
	}
	if cfg.Company.Website == "" {
		cfg.Company.Website = "www.solarpro-ai.com"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Economics.AverageDealSize <= 0 {
		return fmt.Errorf("economics.average_deal_size must be positive")
	}
	if cfg.Economics.CommissionRatePercent < 0 || cfg.Economics.CommissionRatePercent > 100 {
		return fmt.Errorf("economics.commission_rate_percent must be between 0 and 100")
	}
	if cfg.Economics.MonthlyCallVolume < 0 {
		return fmt.Errorf("economics.monthly_call_volume must not be negative")
	}
	if cfg.Economics.AgentMonthlyCost < 0 {
		return fmt.Errorf("economics.agent_monthly_cost must not be negative")
	}
	if cfg.Session.InitialCallsToday < 0 || cfg.Session.InitialConversions < 0 {
		return fmt.Errorf("session counters must not be negative")
	}
	for i, entry := range cfg.Session.CallLog {
		switch domain.CallStatus(entry.Status) {
		case domain.CallStatusCompleted, domain.CallStatusMissed, domain.CallStatusConverted:
		default:
			return fmt.Errorf("session.call_log[%d].status %q is not completed, missed or converted", i, entry.Status)
		}
		if entry.PhoneNumber == "" {
			return fmt.Errorf("session.call_log[%d].phone_number is required", i)
		}
	}
	if cfg.RateLimit.Capacity <= 0 || cfg.RateLimit.Refill <= 0 {
		return fmt.Errorf("rate_limit.capacity and rate_limit.refill must be positive")
	}
	if len(cfg.Auth.DemoCode) != 6 {
		return fmt.Errorf("auth.demo_code must have 6 digits")
	}
	if cfg.Redis.Enabled && cfg.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when redis is enabled")
	}
	return nil
}
