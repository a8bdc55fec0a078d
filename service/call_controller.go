package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"solar-agent/domain"
	"solar-agent/logger"
	"solar-agent/metrics"
	"solar-agent/repository"
	"solar-agent/voice"
)

// VoiceCaller is the subset of the voice provider API the controller uses.
type VoiceCaller interface {
	PlaceCall(ctx context.Context, credential, destination string, routing voice.RoutingConfig) (*voice.Call, error)
	StopCall(ctx context.Context, credential, callID string) error
	GetCall(ctx context.Context, credential, callID string) (*voice.Call, error)
}

type CallControllerConfig struct {
	AssistantID         string
	PhoneNumberID       string
	Company             CompanyProfile
	MinCredentialLength int
	GreetingAfter       time.Duration
	ListeningAfter      time.Duration
	AutoEndAfter        time.Duration
	RosterDelay         time.Duration
	StopTimeout         time.Duration
	InitialCallsToday   int
	InitialConversions  int
}

// sessionState is everything the controller owns. It is only touched with
// CallController.mu held.
type sessionState struct {
	state       domain.CallState
	active      *domain.CallSession
	credential  string
	speaking    bool
	message     string
	callsToday  int
	conversions int
	sweeping    bool
	lastSweep   *domain.RosterResult
}

// CallController drives the single interactive call, follow-ups and roster
// sweeps, and owns the session counters.
type CallController struct {
	mu        sync.Mutex
	st        sessionState
	voice     VoiceCaller
	callLog   repository.CallLogRepository
	scheduler *TaskScheduler
	cfg       CallControllerConfig
	log       logger.Logger
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewCallController(
	caller VoiceCaller,
	callLog repository.CallLogRepository,
	cfg CallControllerConfig,
	log logger.Logger,
) *CallController {
	if cfg.MinCredentialLength <= 0 {
		cfg.MinCredentialLength = MinCredentialLength
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &CallController{
		st: sessionState{
			state:       domain.CallStateIdle,
			callsToday:  cfg.InitialCallsToday,
			conversions: cfg.InitialConversions,
		},
		voice:     caller,
		callLog:   callLog,
		scheduler: NewTaskScheduler(),
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		sleep:     sleepContext,
		baseCtx:   ctx,
		cancel:    cancel,
	}
}

// StartCall places the interactive call. Only one may be active at a time.
func (c *CallController) StartCall(ctx context.Context, input domain.StartCallInput) (*domain.CallSession, error) {
	if err := c.validateCredential(input.APIKey); err != nil {
		return nil, err
	}
	if err := domain.ValidatePhone("phoneNumber", input.PhoneNumber); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if err := c.busyLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.transition(domain.CallStateDialing)
	c.mu.Unlock()

	startedAt := c.now()
	call, err := c.placeCall(ctx, "interactive", input.APIKey, input.PhoneNumber, input.ClientName)
	if err != nil {
		c.mu.Lock()
		c.transition(domain.CallStateFailed)
		c.transition(domain.CallStateIdle)
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	session := &domain.CallSession{
		ID:          callID(call),
		PhoneNumber: input.PhoneNumber,
		ClientName:  strings.TrimSpace(input.ClientName),
		State:       domain.CallStateInProgress,
		StartedAt:   startedAt,
	}
	c.st.active = session
	c.st.credential = input.APIKey
	c.st.speaking = true
	c.st.message = ""
	c.transition(domain.CallStateInProgress)
	c.recordPlacedCall(session.ID, session.PhoneNumber, session.ClientName)
	c.scheduleProgress(session.ID)
	metrics.ActiveCalls.Set(1)

	c.log.Info("call started", map[string]interface{}{
		"callId":      session.ID,
		"phoneNumber": session.PhoneNumber,
		"callsToday":  c.st.callsToday,
	})

	out := *session
	return &out, nil
}

// EndCall hangs up the active call. It returns the ended session, or nil
// when there was nothing to end.
func (c *CallController) EndCall(ctx context.Context) *domain.CallSession {
	return c.end(ctx, "")
}

// end finishes the active session. A non-empty onlyID restricts it to that
// session so stale scheduled tasks cannot end a newer call.
func (c *CallController) end(ctx context.Context, onlyID string) *domain.CallSession {
	c.mu.Lock()
	session := c.st.active
	if session == nil || (onlyID != "" && session.ID != onlyID) {
		c.mu.Unlock()
		return nil
	}
	credential := c.st.credential

	c.scheduler.Cancel(session.ID)
	endedAt := c.now()
	ended := *session
	ended.State = domain.CallStateCompleted
	ended.EndedAt = &endedAt

	c.st.active = nil
	c.st.credential = ""
	c.st.speaking = false
	c.st.message = ""
	c.transition(domain.CallStateCompleted)
	c.transition(domain.CallStateIdle)
	metrics.ActiveCalls.Set(0)
	c.mu.Unlock()

	stopCtx, cancel := context.WithTimeout(ctx, c.cfg.StopTimeout)
	defer cancel()
	if err := c.voice.StopCall(stopCtx, credential, session.ID); err != nil {
		teardownErr := &domain.CallTeardownError{CallID: session.ID, Err: err}
		metrics.CallTeardownFailures.Inc()
		c.log.WithError(teardownErr).Warn("failed to stop call at provider", map[string]interface{}{
			"callId": session.ID,
			"code":   string(domain.ErrCodeCallTeardownFailed),
		})
	}

	c.log.Info("call ended", map[string]interface{}{
		"callId":          session.ID,
		"durationSeconds": int(endedAt.Sub(session.StartedAt).Seconds()),
	})
	return &ended
}

// SendFollowUp records a conversion for the number and returns the company
// details message. Nothing is delivered.
func (c *CallController) SendFollowUp(input domain.FollowUpInput) (domain.FollowUpResult, error) {
	if err := domain.ValidatePhone("phoneNumber", input.PhoneNumber); err != nil {
		return domain.FollowUpResult{}, err
	}

	c.mu.Lock()
	c.st.conversions++
	conversions := c.st.conversions
	updated, err := c.callLog.MarkConverted(input.PhoneNumber)
	c.mu.Unlock()

	if err != nil {
		c.log.WithError(err).Warn("failed to mark call log entry converted", map[string]interface{}{
			"phoneNumber": input.PhoneNumber,
		})
	}
	metrics.FollowUps.WithLabelValues(boolLabel(updated)).Inc()

	c.log.Info("follow-up sent", map[string]interface{}{
		"phoneNumber": input.PhoneNumber,
		"conversions": conversions,
		"logUpdated":  updated,
	})

	return domain.FollowUpResult{
		PhoneNumber: input.PhoneNumber,
		Conversions: conversions,
		LogUpdated:  updated,
		Message:     RenderFollowUpMessage(c.cfg.Company),
	}, nil
}

// CallRoster dispatches one call per client, in order, waiting the roster
// delay between them. Failed dispatches are recorded and skipped.
func (c *CallController) CallRoster(ctx context.Context, clients []domain.Client, credential string) (domain.RosterResult, error) {
	if err := c.beginSweep(credential); err != nil {
		return domain.RosterResult{}, err
	}
	return c.runSweep(ctx, clients, credential), nil
}

// StartRosterSweep runs CallRoster in the background. The result is read
// with LastSweep.
func (c *CallController) StartRosterSweep(clients []domain.Client, credential string) error {
	if err := c.beginSweep(credential); err != nil {
		return err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.runSweep(c.baseCtx, clients, credential)
	}()
	return nil
}

func (c *CallController) beginSweep(credential string) error {
	if err := c.validateCredential(credential); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.sweeping {
		return domain.NewValidationError(domain.ErrCodeSweepRunning, "", "a roster sweep is already running")
	}
	if c.st.state != domain.CallStateIdle {
		return domain.NewValidationError(domain.ErrCodeAlreadyInCall, "",
			"cannot start a roster sweep during a call (state "+string(c.st.state)+")")
	}
	c.st.sweeping = true
	c.st.lastSweep = &domain.RosterResult{StartedAt: c.now(), Outcomes: []domain.RosterOutcome{}}
	return nil
}

func (c *CallController) runSweep(ctx context.Context, clients []domain.Client, credential string) (result domain.RosterResult) {
	result = domain.RosterResult{
		Total:     len(clients),
		Outcomes:  make([]domain.RosterOutcome, 0, len(clients)),
		StartedAt: c.now(),
	}

	defer func() {
		finishedAt := c.now()
		result.FinishedAt = &finishedAt

		c.mu.Lock()
		c.st.sweeping = false
		last := result
		c.st.lastSweep = &last
		c.mu.Unlock()

		metrics.RosterSweeps.Inc()
		c.log.Info("roster sweep finished", map[string]interface{}{
			"total":  result.Total,
			"placed": result.Placed,
			"failed": result.Failed,
		})
	}()

	for i, client := range clients {
		if i > 0 {
			if err := c.sleep(ctx, c.cfg.RosterDelay); err != nil {
				c.log.WithError(err).Warn("roster sweep interrupted", map[string]interface{}{
					"remaining": len(clients) - i,
				})
				return result
			}
		}

		outcome := domain.RosterOutcome{ClientName: client.Name, PhoneNumber: client.Phone}
		id, err := c.dispatchRosterCall(ctx, client, credential)
		if err != nil {
			outcome.Error = err.Error()
			result.Failed++
			c.log.WithError(err).Warn("roster call failed, skipping client", map[string]interface{}{
				"clientName":  client.Name,
				"phoneNumber": client.Phone,
			})
		} else {
			outcome.CallID = id
			result.Placed++
		}
		result.Outcomes = append(result.Outcomes, outcome)

		c.mu.Lock()
		snapshot := result
		snapshot.Outcomes = append([]domain.RosterOutcome(nil), result.Outcomes...)
		c.st.lastSweep = &snapshot
		c.mu.Unlock()
	}

	return result
}

func (c *CallController) dispatchRosterCall(ctx context.Context, client domain.Client, credential string) (string, error) {
	if err := domain.ValidatePhone("phone", client.Phone); err != nil {
		return "", err
	}

	call, err := c.placeCall(ctx, "roster", credential, client.Phone, client.Name)
	if err != nil {
		return "", err
	}

	id := callID(call)
	c.mu.Lock()
	c.recordPlacedCall(id, client.Phone, client.Name)
	c.mu.Unlock()
	return id, nil
}

// busyLocked reports why an interactive call cannot start. A running sweep
// owns the dispatch slot. Caller holds c.mu.
func (c *CallController) busyLocked() error {
	if c.st.state != domain.CallStateIdle {
		return domain.NewValidationError(domain.ErrCodeAlreadyInCall, "",
			"already in a call (state "+string(c.st.state)+")")
	}
	if c.st.sweeping {
		return domain.NewValidationError(domain.ErrCodeAlreadyInCall, "",
			"a roster sweep is placing calls")
	}
	return nil
}

// placeCall sends one place-call request and maps failures to
// CallDispatchError.
func (c *CallController) placeCall(ctx context.Context, source, credential, phone, clientName string) (*voice.Call, error) {
	start := time.Now()
	call, err := c.voice.PlaceCall(ctx, credential, phone, voice.RoutingConfig{
		AssistantID:   c.cfg.AssistantID,
		PhoneNumberID: c.cfg.PhoneNumberID,
		CustomerName:  strings.TrimSpace(clientName),
		CompanyName:   c.cfg.Company.Name,
	})
	if err != nil {
		metrics.CallDispatchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		metrics.CallDispatchFailures.WithLabelValues(source).Inc()

		dispatchErr := toDispatchError(err)
		c.log.WithError(err).Error("failed to place call", map[string]interface{}{
			"phoneNumber": phone,
			"source":      source,
			"statusCode":  dispatchErr.StatusCode,
		})
		return nil, dispatchErr
	}

	metrics.CallDispatchDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	metrics.CallsPlaced.WithLabelValues(source).Inc()
	return call, nil
}

// recordPlacedCall prepends the log entry and bumps callsToday. Caller
// holds c.mu.
func (c *CallController) recordPlacedCall(id, phone, clientName string) {
	if clientName == "" {
		clientName = defaultProspectName
	}
	c.st.callsToday++

	entry := domain.CallLogEntry{
		ID:          id,
		ClientName:  clientName,
		PhoneNumber: phone,
		Status:      domain.CallStatusCompleted,
		Timestamp:   c.now(),
		Notes:       defaultCallNotes,
	}
	if err := c.callLog.Prepend(entry); err != nil {
		c.log.WithError(err).Warn("failed to save call log entry", map[string]interface{}{
			"callId": id,
		})
	}
}

func (c *CallController) scheduleProgress(sessionID string) {
	greeting := "Hello! I'm calling from " + c.cfg.Company.Name + " about solar energy solutions for your home..."

	c.scheduler.Schedule(sessionID, c.cfg.GreetingAfter, func() {
		c.updateProgress(sessionID, true, greeting)
	})
	c.scheduler.Schedule(sessionID, c.cfg.ListeningAfter, func() {
		c.updateProgress(sessionID, false, "Call in progress - discussing solar benefits and savings...")
	})
	if c.cfg.AutoEndAfter > 0 {
		c.scheduler.Schedule(sessionID, c.cfg.AutoEndAfter, func() {
			if ended := c.end(c.baseCtx, sessionID); ended != nil {
				c.log.Info("call ended automatically", map[string]interface{}{"callId": sessionID})
			}
		})
	}
}

func (c *CallController) updateProgress(sessionID string, speaking bool, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.active == nil || c.st.active.ID != sessionID {
		return
	}
	c.st.speaking = speaking
	c.st.message = message
}

// CallStatus asks the provider for the current state of a call.
func (c *CallController) CallStatus(ctx context.Context, id, credential string) (domain.ProviderCall, error) {
	if strings.TrimSpace(id) == "" {
		return domain.ProviderCall{}, domain.NewValidationError(domain.ErrCodeInvalidInput, "id", "call id is required")
	}
	if err := c.validateCredential(credential); err != nil {
		return domain.ProviderCall{}, err
	}

	call, err := c.voice.GetCall(ctx, credential, id)
	if err != nil {
		return domain.ProviderCall{}, toDispatchError(err)
	}
	return domain.ProviderCall{
		ID:          call.ID,
		Status:      call.Status,
		PhoneNumber: call.Customer.Number,
		Duration:    call.Duration,
	}, nil
}

// Counters implements CounterSource.
func (c *CallController) Counters() (callsToday, conversions int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.callsToday, c.st.conversions
}

func (c *CallController) View() domain.SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := domain.SessionView{
		State:          c.st.state,
		Speaking:       c.st.speaking,
		CurrentMessage: c.st.message,
		CallsToday:     c.st.callsToday,
		Conversions:    c.st.conversions,
		SweepRunning:   c.st.sweeping,
	}
	if c.st.active != nil {
		session := *c.st.active
		view.Session = &session
	}
	return view
}

func (c *CallController) CallLog() ([]domain.CallLogEntry, error) {
	return c.callLog.List()
}

// LastSweep returns the running or most recent roster sweep, or nil.
func (c *CallController) LastSweep() *domain.RosterResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.lastSweep == nil {
		return nil
	}
	out := *c.st.lastSweep
	out.Outcomes = append([]domain.RosterOutcome(nil), c.st.lastSweep.Outcomes...)
	return &out
}

// Close cancels background sweeps and pending progress tasks and waits for
// sweeps to return.
func (c *CallController) Close() {
	c.cancel()
	c.scheduler.CancelAll()
	c.wg.Wait()
}

func (c *CallController) validateCredential(credential string) error {
	return checkCredential(credential, c.cfg.MinCredentialLength)
}

func checkCredential(credential string, minLength int) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return domain.NewValidationError(domain.ErrCodeInvalidCredential, "apiKey", "voice API key is required")
	}
	if len(credential) < minLength {
		return domain.NewValidationError(domain.ErrCodeInvalidCredential, "apiKey", "voice API key is too short")
	}
	return nil
}

// transition changes state. Caller holds c.mu.
func (c *CallController) transition(to domain.CallState) {
	from := c.st.state
	c.st.state = to
	c.log.Debug("call state changed", map[string]interface{}{
		"from": string(from),
		"to":   string(to),
	})
}

func toDispatchError(err error) *domain.CallDispatchError {
	dispatchErr := &domain.CallDispatchError{
		Code:    domain.ErrCodeCallDispatchFailed,
		Message: genericDispatchFailed,
		Err:     err,
	}
	var providerErr *voice.ProviderError
	if errors.As(err, &providerErr) {
		dispatchErr.StatusCode = providerErr.StatusCode
		if providerErr.Message != "" {
			dispatchErr.Message = providerErr.Message
		}
	}
	return dispatchErr
}

// callID falls back to a generated id when the provider omits one.
func callID(call *voice.Call) string {
	if call != nil && call.ID != "" {
		return call.ID
	}
	return uuid.NewString()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
