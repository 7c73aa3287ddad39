package chatbot

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ConversationStore is the append-only, per-owner, timestamp-ordered
// conversation log. Turns reach exactly one state, persisted, atomically
// on Append; they are never updated or deleted by the core.
type ConversationStore interface {
	// Append writes a turn durably, assigning its id and wall-clock
	// timestamp, and returns the created record. Two concurrent
	// appends for the same owner both succeed with distinct ids.
	// Fails with a storage-coded error when the backend is unreachable.
	Append(ctx context.Context, ownerKey, userInput, assistantResponse string) (*ConversationTurn, error)

	// Page returns the owner's turns ordered by createdAt descending,
	// ties broken by id ascending, with offset (pageNumber-1)*pageSize
	// and limit pageSize. A pageNumber past the last page yields empty
	// items with correctly computed totals. TotalItems is recomputed
	// on every call.
	Page(ctx context.Context, ownerKey string, pageNumber, pageSize int) (*Page, error)

	// ScanAll returns every turn across all owners for operator
	// tooling. Ordering across owners is not guaranteed; the consumer
	// re-sorts if needed. O(total turns).
	ScanAll(ctx context.Context) ([]ConversationTurn, error)
}

// validatePageArgs rejects page requests outside the contract.
func validatePageArgs(pageNumber, pageSize int) error {
	if pageNumber < 1 || pageSize < 1 {
		return NewChatError(ErrCodeValidation, "page number and page size must be positive", ErrInvalidPage)
	}
	return nil
}

// memoryStore is an in-memory conversation store, used in tests and
// when no database is configured.
type memoryStore struct {
	mu     sync.RWMutex
	nextID int64
	turns  map[string][]ConversationTurn
}

// NewMemoryStore creates a new in-memory conversation store.
func NewMemoryStore() ConversationStore {
	return &memoryStore{
		nextID: 1,
		turns:  make(map[string][]ConversationTurn),
	}
}

// Append stores a turn under the owner key.
func (s *memoryStore) Append(ctx context.Context, ownerKey, userInput, assistantResponse string) (*ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := ConversationTurn{
		ID:                s.nextID,
		OwnerKey:          ownerKey,
		UserInput:         userInput,
		AssistantResponse: assistantResponse,
		CreatedAt:         time.Now().UTC(),
		IsAnonymousOwner:  IsAnonymousKey(ownerKey),
	}
	s.nextID++
	s.turns[ownerKey] = append(s.turns[ownerKey], turn)

	return &turn, nil
}

// Page returns one page of the owner's history, newest first.
func (s *memoryStore) Page(ctx context.Context, ownerKey string, pageNumber, pageSize int) (*Page, error) {
	if err := validatePageArgs(pageNumber, pageSize); err != nil {
		return nil, err
	}

	s.mu.RLock()
	owned := s.turns[ownerKey]
	ordered := make([]ConversationTurn, len(owned))
	copy(ordered, owned)
	s.mu.RUnlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	total := len(ordered)
	offset := (pageNumber - 1) * pageSize
	items := []ConversationTurn{}
	if offset < total {
		end := offset + pageSize
		if end > total {
			end = total
		}
		items = ordered[offset:end]
	}

	return &Page{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: TotalPages(total, pageSize),
	}, nil
}

// ScanAll returns every stored turn across all owners.
func (s *memoryStore) ScanAll(ctx context.Context) ([]ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []ConversationTurn
	for _, owned := range s.turns {
		all = append(all, owned...)
	}
	return all, nil
}
