// Package chatbot implements the core of an academic conversational
// assistant: a visualization pipeline that augments free-form answers
// with chart or table specs, and a multi-tenant paginated conversation
// log keyed by anonymous or authenticated identities.
package chatbot

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// Chatbot is the assembled core: visualization pipeline, identity
// resolution, conversation log and the HTTP surface over them.
type Chatbot struct {
	config      Config
	resolver    *IdentityResolver
	pipeline    *VisualizationPipeline
	processTurn ProcessTurnFn
	store       ConversationStore
	admin       *AdminService
	sessions    *sessionRegistry
}

// New creates a chatbot instance with the given configuration.
func New(cfg Config) (*Chatbot, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	resolver := NewIdentityResolver()
	pipeline := NewVisualizationPipeline(NewClassifier(cfg.Keywords))
	processTurn := NewChatService(resolver, cfg.Generator, pipeline, cfg.Store, cfg.Logger)

	return &Chatbot{
		config:      cfg,
		resolver:    resolver,
		pipeline:    pipeline,
		processTurn: processTurn,
		store:       cfg.Store,
		admin:       NewAdminService(cfg.Store),
		sessions:    newSessionRegistry(),
	}, nil
}

// ProcessTurn returns the turn processing function for direct use
// (without HTTP).
func (b *Chatbot) ProcessTurn() ProcessTurnFn {
	return b.processTurn
}

// Pipeline returns the visualization pipeline for direct use.
func (b *Chatbot) Pipeline() *VisualizationPipeline {
	return b.pipeline
}

// Store returns the conversation store.
func (b *Chatbot) Store() ConversationStore {
	return b.store
}

// Admin returns the operator tooling service.
func (b *Chatbot) Admin() *AdminService {
	return b.admin
}

// HTTPHandler returns the HTTP handler for the chatbot.
func (b *Chatbot) HTTPHandler() http.Handler {
	return b.newHTTPRouter()
}

// sessionRegistry tracks live sessions so repeated requests with the
// same session id resolve to the same identity key. Entries live for
// the process lifetime; there is no eviction, so the registry grows
// with the number of distinct session ids it has been asked to create.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*Session)}
}

// getOrCreate returns the session for id, creating it when absent.
// An empty id starts a fresh session with a generated id. The account
// reference (when present) comes from the external identity layer and
// is trusted as-is; enforcing it is out of scope here.
func (r *sessionRegistry) getOrCreate(id, accountID, email string) (string, *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	}

	s, ok := r.sessions[id]
	if !ok {
		s = &Session{}
		r.sessions[id] = s
	}
	if accountID != "" {
		// The session may already be resolving on another goroutine;
		// the write has to go through the session's own lock.
		s.Authenticate(accountID, email)
	}
	return id, s
}

// lookup returns the session for id without creating one.
func (r *sessionRegistry) lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}
