package chatbot

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"
)

// AdminStats summarizes the full corpus for the operator view.
type AdminStats struct {
	TotalMessages int `json:"totalMessages"`
	UniqueUsers   int `json:"uniqueUsers"`
	TodayMessages int `json:"todayMessages"`
}

// AdminService exposes operator tooling over the full-corpus scan.
// Every call is O(total turns); this surface is administrative, not
// end-user, and deployments should rate-limit it.
type AdminService struct {
	store ConversationStore
	now   func() time.Time
}

// NewAdminService creates the operator service.
func NewAdminService(store ConversationStore) *AdminService {
	return &AdminService{store: store, now: time.Now}
}

// Overview scans the corpus and computes summary stats.
func (a *AdminService) Overview(ctx context.Context) (*AdminStats, error) {
	turns, err := a.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]struct{})
	today := 0
	y, m, d := a.now().UTC().Date()
	for _, t := range turns {
		owners[t.OwnerKey] = struct{}{}
		ty, tm, td := t.CreatedAt.UTC().Date()
		if ty == y && tm == m && td == d {
			today++
		}
	}

	return &AdminStats{
		TotalMessages: len(turns),
		UniqueUsers:   len(owners),
		TodayMessages: today,
	}, nil
}

// Conversations returns one page of the corpus, newest first across
// all owners. The scan interface guarantees no ordering, so the page
// is re-sorted here.
func (a *AdminService) Conversations(ctx context.Context, pageNumber, pageSize int) (*Page, error) {
	if err := validatePageArgs(pageNumber, pageSize); err != nil {
		return nil, err
	}

	turns, err := a.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(turns, func(i, j int) bool {
		if !turns[i].CreatedAt.Equal(turns[j].CreatedAt) {
			return turns[i].CreatedAt.After(turns[j].CreatedAt)
		}
		return turns[i].ID < turns[j].ID
	})

	total := len(turns)
	offset := (pageNumber - 1) * pageSize
	items := []ConversationTurn{}
	if offset < total {
		end := offset + pageSize
		if end > total {
			end = total
		}
		items = turns[offset:end]
	}

	return &Page{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: TotalPages(total, pageSize),
	}, nil
}

// ExportCSV writes the full corpus as CSV with columns
// user_id, message_id, input, response, timestamp.
func (a *AdminService) ExportCSV(ctx context.Context, w io.Writer) error {
	turns, err := a.store.ScanAll(ctx)
	if err != nil {
		return err
	}

	sort.SliceStable(turns, func(i, j int) bool {
		if !turns[i].CreatedAt.Equal(turns[j].CreatedAt) {
			return turns[i].CreatedAt.After(turns[j].CreatedAt)
		}
		return turns[i].ID < turns[j].ID
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"user_id", "message_id", "input", "response", "timestamp"}); err != nil {
		return err
	}
	for _, t := range turns {
		record := []string{
			t.OwnerKey,
			fmt.Sprintf("%d", t.ID),
			t.UserInput,
			t.AssistantResponse,
			t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename returns a timestamped filename for a CSV download.
func (a *AdminService) ExportFilename() string {
	return "conversations_export_" + a.now().UTC().Format("20060102_150405") + ".csv"
}
