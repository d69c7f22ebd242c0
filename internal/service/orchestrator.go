package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadchat/leadchat/internal/domain"
	"github.com/leadchat/leadchat/internal/intent"
	"github.com/leadchat/leadchat/internal/policy"
)

// ResponseGenerator produces an assistant reply and a confidence score.
// Implementations absorb backend failures into a low-confidence fallback
// reply; Generate never fails.
type ResponseGenerator interface {
	Generate(ctx context.Context, userText string, history []domain.Message, intent domain.Intent) (string, float64)
}

// SessionStore is the persistence surface the orchestrator writes to.
// All writes are best-effort: a failing store never blocks a turn.
type SessionStore interface {
	Create(session *domain.Session) error
	Save(session *domain.Session) error
	CreateMessage(message *domain.Message) error
	Get(id string) (*domain.Session, error)
	GetMessages(sessionID string) ([]domain.Message, error)
}

// EventType identifies an observable state change on a conversation.
type EventType string

const (
	EventMessageAppended   EventType = "message_appended"
	EventTypingChanged     EventType = "typing_changed"
	EventEscalationOffered EventType = "escalation_offered"
	EventLeadFormShown     EventType = "lead_form_shown"
	EventSessionEnded      EventType = "session_ended"
)

// Event is a conversation state change delivered to subscribers.
type Event struct {
	Type      EventType       `json:"type"`
	SessionID string          `json:"session_id"`
	Message   *domain.Message `json:"message,omitempty"`
	Typing    bool            `json:"typing,omitempty"`
}

// conversation is the live per-session state machine. All mutation goes
// through its mutex, which serializes SendMessage and End per session.
type conversation struct {
	mu sync.Mutex

	session           *domain.Session
	isTyping          bool
	chatOpen          bool
	escalationOffered bool
	leadFormShown     bool
	leadFormPending   bool
	ended             bool

	leadPromptTimer *time.Timer

	subMu       sync.Mutex
	subscribers map[int]chan Event
	nextSubID   int
}

// Orchestrator sequences classification, generation, and policy
// evaluation for every conversation turn, and owns the per-session
// message logs. Sessions are independent; turns within one session are
// mutually exclusive.
type Orchestrator struct {
	generator ResponseGenerator
	store     SessionStore
	logger    *zap.Logger

	leadCaptureEnabled bool
	leadPromptDelay    time.Duration
	maxMessageLength   int

	mu            sync.RWMutex
	conversations map[string]*conversation

	effectMu   sync.Mutex
	effectErrs []error
}

// OrchestratorOptions tunes orchestrator behavior.
type OrchestratorOptions struct {
	LeadCaptureEnabled bool
	LeadPromptDelay    time.Duration
	MaxMessageLength   int
}

// NewOrchestrator creates the conversation engine.
func NewOrchestrator(generator ResponseGenerator, store SessionStore, opts OrchestratorOptions, logger *zap.Logger) *Orchestrator {
	if opts.LeadPromptDelay == 0 {
		opts.LeadPromptDelay = 2 * time.Second
	}
	if opts.MaxMessageLength == 0 {
		opts.MaxMessageLength = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		generator:          generator,
		store:              store,
		logger:             logger,
		leadCaptureEnabled: opts.LeadCaptureEnabled,
		leadPromptDelay:    opts.LeadPromptDelay,
		maxMessageLength:   opts.MaxMessageLength,
		conversations:      make(map[string]*conversation),
	}
}

// InitializeSession creates a new session, or resumes an existing one by
// ID. Unknown IDs are rehydrated from the store when possible so a
// widget reload keeps its history; otherwise a fresh session is started
// under the requested ID.
func (o *Orchestrator) InitializeSession(sessionID string, meta domain.SessionMeta) (*domain.SessionState, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	o.mu.Lock()
	conv, ok := o.conversations[sessionID]
	if !ok {
		conv = o.rehydrate(sessionID)
		if conv == nil {
			session := &domain.Session{
				ID:        sessionID,
				StartTime: time.Now(),
				Status:    domain.SessionActive,
				Metadata:  meta,
			}
			conv = newConversation(session)
			o.persist("create session", func() error { return o.store.Create(session) })
		}
		o.conversations[sessionID] = conv
	}
	o.mu.Unlock()

	return conv.snapshot(), nil
}

// rehydrate loads a previously persisted session back into memory.
// Returns nil when the store has no record (or errors, which is treated
// the same way: persistence is best-effort in both directions).
func (o *Orchestrator) rehydrate(sessionID string) *conversation {
	session, err := o.store.Get(sessionID)
	if err != nil || session == nil {
		if err != nil {
			o.recordEffectErr(fmt.Errorf("load session %s: %w", sessionID, err))
		}
		return nil
	}
	messages, err := o.store.GetMessages(sessionID)
	if err != nil {
		o.recordEffectErr(fmt.Errorf("load messages %s: %w", sessionID, err))
	}
	session.Messages = messages

	conv := newConversation(session)
	// A resumed session becomes active again regardless of how it ended.
	session.Status = domain.SessionActive
	session.EndTime = nil
	conv.escalationOffered = session.Escalated
	return conv
}

func newConversation(session *domain.Session) *conversation {
	return &conversation{
		session:     session,
		chatOpen:    true,
		subscribers: make(map[int]chan Event),
	}
}

// SendMessage runs one conversation turn: append the user message,
// classify, generate a reply, append it, and evaluate the escalation and
// lead policies. Turns for the same session never interleave; a second
// call queues behind the in-flight one.
func (o *Orchestrator) SendMessage(ctx context.Context, sessionID, text string) (*domain.ChatResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidRequest)
	}
	if len(text) > o.maxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", domain.ErrInvalidRequest, o.maxMessageLength)
	}

	conv, err := o.get(sessionID)
	if err != nil {
		return nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	if conv.ended {
		return nil, domain.ErrSessionEnded
	}

	// History for the generator is the log before this turn's message.
	history := append([]domain.Message(nil), conv.session.Messages...)

	userMsg := domain.Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Content:   text,
		Sender:    domain.SenderUser,
		Timestamp: time.Now(),
	}
	conv.session.Messages = append(conv.session.Messages, userMsg)
	conv.publish(Event{Type: EventMessageAppended, SessionID: sessionID, Message: &userMsg})
	o.persist("save user message", func() error { return o.store.CreateMessage(&userMsg) })

	conv.isTyping = true
	conv.publish(Event{Type: EventTypingChanged, SessionID: sessionID, Typing: true})

	detected, _ := intent.Classify(text)

	reply, confidence := o.generator.Generate(ctx, text, history, detected)

	botMsg := domain.Message{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Content:    reply,
		Sender:     domain.SenderBot,
		Timestamp:  time.Now(),
		Intent:     detected,
		Confidence: confidence,
	}
	conv.session.Messages = append(conv.session.Messages, botMsg)
	conv.publish(Event{Type: EventMessageAppended, SessionID: sessionID, Message: &botMsg})
	o.persist("save bot message", func() error { return o.store.CreateMessage(&botMsg) })

	conv.isTyping = false
	conv.publish(Event{Type: EventTypingChanged, SessionID: sessionID, Typing: false})

	if policy.ShouldEscalate(confidence, detected) && !conv.escalationOffered {
		// Sticky for the remainder of the session.
		conv.escalationOffered = true
		conv.publish(Event{Type: EventEscalationOffered, SessionID: sessionID})
	}

	leadPending := false
	if o.leadCaptureEnabled &&
		policy.ShouldPromptLead(detected, confidence, conv.session.LeadCaptured) &&
		!conv.leadFormShown && !conv.leadFormPending {
		conv.leadFormPending = true
		leadPending = true
		o.scheduleLeadPrompt(conv, sessionID)
	}

	o.logger.Info("turn completed",
		zap.String("session_id", sessionID),
		zap.String("intent", string(detected)),
		zap.Float64("confidence", confidence),
		zap.Bool("escalation_offered", conv.escalationOffered),
		zap.Bool("lead_form_pending", conv.leadFormPending))

	return &domain.ChatResponse{
		SessionID:         sessionID,
		Reply:             botMsg,
		Intent:            detected,
		Confidence:        confidence,
		EscalationOffered: conv.escalationOffered,
		LeadFormPending:   leadPending || conv.leadFormPending,
	}, nil
}

// scheduleLeadPrompt opens the lead form after a short delay so the
// prompt does not preempt the just-rendered reply. The timer is canceled
// if the chat closes or the session ends first. Caller holds conv.mu.
func (o *Orchestrator) scheduleLeadPrompt(conv *conversation, sessionID string) {
	conv.leadPromptTimer = time.AfterFunc(o.leadPromptDelay, func() {
		conv.mu.Lock()
		defer conv.mu.Unlock()
		if conv.ended || !conv.leadFormPending {
			return
		}
		conv.leadFormPending = false
		conv.leadFormShown = true
		conv.publish(Event{Type: EventLeadFormShown, SessionID: sessionID})
	})
}

// cancelLeadPrompt stops a pending lead prompt. Caller holds conv.mu.
func (conv *conversation) cancelLeadPrompt() {
	if conv.leadPromptTimer != nil {
		conv.leadPromptTimer.Stop()
		conv.leadPromptTimer = nil
	}
	conv.leadFormPending = false
}

// EndSession finalizes a session: stamps the end time, resolves the
// terminal status, and persists the snapshot when the log is non-empty.
// Idempotent; an in-flight turn completes first because it holds the
// same per-session lock.
func (o *Orchestrator) EndSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	conv, err := o.get(sessionID)
	if err != nil {
		return nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	if conv.ended {
		return conv.session, nil
	}
	conv.ended = true
	conv.cancelLeadPrompt()

	now := time.Now()
	conv.session.EndTime = &now
	if conv.session.Escalated {
		conv.session.Status = domain.SessionEscalated
	} else {
		conv.session.Status = domain.SessionCompleted
	}

	if len(conv.session.Messages) > 0 {
		o.persist("save session snapshot", func() error { return o.store.Save(conv.session) })
	}
	conv.publish(Event{Type: EventSessionEnded, SessionID: sessionID})

	o.logger.Info("session ended",
		zap.String("session_id", sessionID),
		zap.String("status", string(conv.session.Status)),
		zap.Int("messages", len(conv.session.Messages)))

	return conv.session, nil
}

// SetChatOpen tracks the widget's open/closed state. Closing the chat
// cancels a pending lead prompt so it cannot fire into a hidden widget.
func (o *Orchestrator) SetChatOpen(sessionID string, open bool) error {
	conv, err := o.get(sessionID)
	if err != nil {
		return err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	conv.chatOpen = open
	if !open {
		conv.cancelLeadPrompt()
	}
	return nil
}

// MarkLeadCaptured flips the session's lead flag. The lead policy is
// never re-evaluated once this is set.
func (o *Orchestrator) MarkLeadCaptured(sessionID string) error {
	conv, err := o.get(sessionID)
	if err != nil {
		return err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	conv.session.LeadCaptured = true
	conv.leadFormShown = false
	conv.cancelLeadPrompt()
	return nil
}

// DismissLeadForm closes the lead form without capturing a lead.
func (o *Orchestrator) DismissLeadForm(sessionID string) error {
	conv, err := o.get(sessionID)
	if err != nil {
		return err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	conv.leadFormShown = false
	conv.cancelLeadPrompt()
	return nil
}

// MarkEscalated records that the visitor requested a human. The flag is
// monotonic for the life of the session and fixes the terminal status.
func (o *Orchestrator) MarkEscalated(sessionID string) error {
	conv, err := o.get(sessionID)
	if err != nil {
		return err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	conv.session.Escalated = true
	conv.escalationOffered = true
	return nil
}

// Transcript returns a copy of the session's message log.
func (o *Orchestrator) Transcript(sessionID string) ([]domain.Message, error) {
	conv, err := o.get(sessionID)
	if err != nil {
		return nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	return append([]domain.Message(nil), conv.session.Messages...), nil
}

// State returns the observable widget state for a session.
func (o *Orchestrator) State(sessionID string) (*domain.SessionState, error) {
	conv, err := o.get(sessionID)
	if err != nil {
		return nil, err
	}
	return conv.snapshot(), nil
}

// Subscribe registers for conversation events. The returned cancel
// function must be called to release the subscription. Events are
// dropped, not blocked on, when the subscriber falls behind.
func (o *Orchestrator) Subscribe(sessionID string) (<-chan Event, func(), error) {
	conv, err := o.get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan Event, 16)
	conv.subMu.Lock()
	id := conv.nextSubID
	conv.nextSubID++
	conv.subscribers[id] = ch
	conv.subMu.Unlock()

	cancel := func() {
		conv.subMu.Lock()
		if _, ok := conv.subscribers[id]; ok {
			delete(conv.subscribers, id)
			close(ch)
		}
		conv.subMu.Unlock()
	}
	return ch, cancel, nil
}

// SideEffectErrors drains the journal of best-effort persistence
// failures. The conversation flow never blocks on these; the journal
// makes them observable to tests and health reporting.
func (o *Orchestrator) SideEffectErrors() []error {
	o.effectMu.Lock()
	defer o.effectMu.Unlock()
	errs := o.effectErrs
	o.effectErrs = nil
	return errs
}

func (o *Orchestrator) get(sessionID string) (*conversation, error) {
	o.mu.RLock()
	conv, ok := o.conversations[sessionID]
	o.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, sessionID)
	}
	return conv, nil
}

// persist runs a storage write best-effort: failures are logged and
// journaled, never propagated to the turn.
func (o *Orchestrator) persist(op string, fn func() error) {
	if err := fn(); err != nil {
		o.logger.Warn("persistence failed", zap.String("op", op), zap.Error(err))
		o.recordEffectErr(fmt.Errorf("%s: %w", op, err))
	}
}

func (o *Orchestrator) recordEffectErr(err error) {
	o.effectMu.Lock()
	o.effectErrs = append(o.effectErrs, err)
	o.effectMu.Unlock()
}

func (conv *conversation) publish(ev Event) {
	conv.subMu.Lock()
	defer conv.subMu.Unlock()
	for _, ch := range conv.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// snapshot copies the observable state. Takes conv.mu itself.
func (conv *conversation) snapshot() *domain.SessionState {
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return &domain.SessionState{
		SessionID:         conv.session.ID,
		Messages:          append([]domain.Message(nil), conv.session.Messages...),
		IsTyping:          conv.isTyping,
		EscalationOffered: conv.escalationOffered,
		LeadFormShown:     conv.leadFormShown,
		LeadCaptured:      conv.session.LeadCaptured,
		Escalated:         conv.session.Escalated,
		Status:            conv.session.Status,
	}
}
