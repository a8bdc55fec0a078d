package domain

import "time"

type CallState string

const (
	CallStateIdle       CallState = "idle"
	CallStateDialing    CallState = "dialing"
	CallStateInProgress CallState = "in_progress"
	CallStateCompleted  CallState = "completed"
	CallStateFailed     CallState = "failed"
)

// CallSession is the single outbound call the controller is handling.
type CallSession struct {
	ID          string     `json:"id"`
	PhoneNumber string     `json:"phoneNumber"`
	ClientName  string     `json:"clientName,omitempty"`
	State       CallState  `json:"state"`
	StartedAt   time.Time  `json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
}

type CallStatus string

// CallStatusCompleted is written when a call is placed; it does not describe
// the outcome of the conversation.
const (
	CallStatusCompleted CallStatus = "completed"
	CallStatusMissed    CallStatus = "missed"
	CallStatusConverted CallStatus = "converted"
)

type CallLogEntry struct {
	ID              string     `json:"id"`
	ClientName      string     `json:"clientName"`
	PhoneNumber     string     `json:"phoneNumber"`
	DurationSeconds int        `json:"durationSeconds"`
	Status          CallStatus `json:"status"`
	Timestamp       time.Time  `json:"timestamp"`
	Notes           string     `json:"notes,omitempty"`
}

// SessionView is what the control panel reads to render the call controls.
type SessionView struct {
	State          CallState    `json:"state"`
	Session        *CallSession `json:"session,omitempty"`
	Speaking       bool         `json:"speaking"`
	CurrentMessage string       `json:"currentMessage,omitempty"`
	CallsToday     int          `json:"callsToday"`
	Conversions    int          `json:"conversions"`
	SweepRunning   bool         `json:"sweepRunning"`
}

type StartCallInput struct {
	PhoneNumber string `json:"phoneNumber"`
	ClientName  string `json:"clientName,omitempty"`
	APIKey      string `json:"apiKey,omitempty"`
}

type FollowUpInput struct {
	PhoneNumber string `json:"phoneNumber"`
}

type FollowUpResult struct {
	PhoneNumber string `json:"phoneNumber"`
	Conversions int    `json:"conversions"`
	LogUpdated  bool   `json:"logUpdated"`
	Message     string `json:"message"`
}

// RosterOutcome is the result of one dispatch in a roster sweep.
type RosterOutcome struct {
	ClientName  string `json:"clientName"`
	PhoneNumber string `json:"phoneNumber"`
	CallID      string `json:"callId,omitempty"`
	Error       string `json:"error,omitempty"`
}

type RosterResult struct {
	Total      int             `json:"total"`
	Placed     int             `json:"placed"`
	Failed     int             `json:"failed"`
	Outcomes   []RosterOutcome `json:"outcomes"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt *time.Time      `json:"finishedAt,omitempty"`
}

// ProviderCall is the provider's view of a call.
type ProviderCall struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	PhoneNumber string  `json:"phoneNumber"`
	Duration    float64 `json:"duration,omitempty"`
}
