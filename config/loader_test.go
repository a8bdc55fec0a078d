package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-agent/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: test-agent
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-agent", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://api.vapi.ai", cfg.Voice.BaseURL)
	assert.Equal(t, 25000.0, cfg.Economics.AverageDealSize)
	assert.Equal(t, 8.0, cfg.Economics.CommissionRatePercent)
	assert.Equal(t, 1500, cfg.Economics.MonthlyCallVolume)
	assert.Equal(t, 299.0, cfg.Economics.AgentMonthlyCost)
	assert.Equal(t, 30*time.Second, GetDuration(cfg.Calls.AutoEndAfter))
	assert.Equal(t, "123456", cfg.Auth.DemoCode)
}

func TestLoadFromFile_ReadsSections(t *testing.T) {
	path := writeConfig(t, `
voice:
  assistant_id: assistant-1
  phone_number_id: phone-1
calls:
  roster_delay: 500
economics:
  average_deal_size: 30000
  commission_rate_percent: 10
session:
  initial_calls_today: 23
  initial_conversions: 7
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "assistant-1", cfg.Voice.AssistantID)
	assert.Equal(t, "phone-1", cfg.Voice.PhoneNumberID)
	assert.Equal(t, 500*time.Millisecond, GetDuration(cfg.Calls.RosterDelay))
	assert.Equal(t, 30000.0, cfg.Economics.AverageDealSize)
	assert.Equal(t, 10.0, cfg.Economics.CommissionRatePercent)
	assert.Equal(t, 23, cfg.Session.InitialCallsToday)
	assert.Equal(t, 7, cfg.Session.InitialConversions)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("SOLAR_VOICE_API_KEY", "env-secret-key")
	path := writeConfig(t, `
voice:
  api_key: file-key
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret-key", cfg.Voice.APIKey)
}

func TestLoadFromFile_InvalidCommission(t *testing.T) {
	path := writeConfig(t, `
economics:
  commission_rate_percent: 150
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commission_rate_percent")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_COMPANY_SITE", "solar.example.com")
	path := writeConfig(t, `
company:
  website: ${TEST_COMPANY_SITE}
  phone: ${TEST_UNSET_VARIABLE_FOR_CONFIG}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "solar.example.com", cfg.Company.Website)
	// empty after expansion, so the default applies
	assert.Equal(t, "(555) 123-SOLAR", cfg.Company.Phone)
}

func TestLoadFromFile_KeepsExplicitZeros(t *testing.T) {
	path := writeConfig(t, `
calls:
  auto_end_after: 0
  roster_delay: 0
economics:
  commission_rate_percent: 0
  monthly_call_volume: 0
  agent_monthly_cost: 0
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Economics.CommissionRatePercent)
	assert.Equal(t, 0, cfg.Economics.MonthlyCallVolume)
	assert.Equal(t, 0.0, cfg.Economics.AgentMonthlyCost)
	assert.Equal(t, 25000.0, cfg.Economics.AverageDealSize)
	assert.Equal(t, 0, cfg.Calls.AutoEndAfter)
	assert.Equal(t, 0, cfg.Calls.RosterDelay)
	assert.Equal(t, 3000, cfg.Calls.GreetingAfter)
}

func TestLoadFromFile_ZeroFromEnvironment(t *testing.T) {
	t.Setenv("SOLAR_ECONOMICS_AGENT_MONTHLY_COST", "0")
	path := writeConfig(t, `
economics:
  agent_monthly_cost: 499
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Economics.AgentMonthlyCost)
}

func TestLoadFromFile_RejectsZeroDealSize(t *testing.T) {
	path := writeConfig(t, `
economics:
  average_deal_size: 0
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "average_deal_size")
}

func TestLoadFromFile_CallLogSeed(t *testing.T) {
	path := writeConfig(t, `
session:
  call_log:
    - client_name: John Smith
      phone_number: "+1 (555) 123-4567"
      duration_seconds: 272
      status: completed
      age: 7200000
      notes: Interested in solar installation
    - client_name: Mike Wilson
      phone_number: "+1 (555) 456-7890"
      status: missed
      age: 86400000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Session.CallLog, 2)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := cfg.Session.SeedEntries(now)
	require.Len(t, entries, 2)

	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, "John Smith", entries[0].ClientName)
	assert.Equal(t, "+1 (555) 123-4567", entries[0].PhoneNumber)
	assert.Equal(t, 272, entries[0].DurationSeconds)
	assert.Equal(t, domain.CallStatusCompleted, entries[0].Status)
	assert.Equal(t, now.Add(-2*time.Hour), entries[0].Timestamp)
	assert.Equal(t, "Interested in solar installation", entries[0].Notes)

	assert.Equal(t, domain.CallStatusMissed, entries[1].Status)
	assert.Equal(t, now.Add(-24*time.Hour), entries[1].Timestamp)
}

func TestLoadFromFile_RejectsUnknownSeedStatus(t *testing.T) {
	path := writeConfig(t, `
session:
  call_log:
    - client_name: John Smith
      phone_number: "+15551234567"
      status: pending
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.call_log[0].status")
}

func TestLoadFromFile_DemoConfigSeedsThreeEntries(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("..", "configs", "config.yaml"))
	require.NoError(t, err)

	entries := cfg.Session.SeedEntries(time.Now())
	require.Len(t, entries, 3)
	assert.Equal(t, domain.CallStatusConverted, entries[1].Status)
}
