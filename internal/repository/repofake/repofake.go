// Package repofake provides in-memory implementations of the service store
// interfaces for tests. Behavior mirrors the postgres repositories, including
// conflict detection and the compare-and-swap rotation guarantee.
package repofake

import (
	"context"
	"sort"
	"strings"
	"sync"

	"facility-security-api/internal/model"
)

// Ledger is an in-memory refresh-token ledger.
type Ledger struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
}

func NewLedger() *Ledger {
	return &Ledger{tokens: map[string]model.RefreshToken{}}
}

func (l *Ledger) Insert(_ context.Context, t model.RefreshToken) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens[t.Token] = t
	return nil
}

func (l *Ledger) Find(_ context.Context, token string) (model.RefreshToken, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.tokens[token]
	if !ok {
		return model.RefreshToken{}, model.ErrTokenNotFound
	}
	return t, nil
}

func (l *Ledger) Revoke(_ context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.tokens[token]
	if !ok {
		return model.ErrTokenNotFound
	}
	t.Revoked = true
	l.tokens[token] = t
	return nil
}

// Rotate performs the revoke-old/insert-next pair atomically under one lock,
// matching the postgres transaction: a second caller with the same old token
// observes it as already revoked.
func (l *Ledger) Rotate(_ context.Context, old string, next model.RefreshToken) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.tokens[old]
	if !ok || t.Revoked {
		return model.ErrTokenRevoked
	}
	t.Revoked = true
	l.tokens[old] = t
	l.tokens[next.Token] = next
	return nil
}

func (l *Ledger) RevokeAllForUser(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for token, t := range l.tokens {
		if t.UserID == userID {
			t.Revoked = true
			l.tokens[token] = t
		}
	}
	return nil
}

func (l *Ledger) deleteForUser(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for token, t := range l.tokens {
		if t.UserID == userID {
			delete(l.tokens, token)
		}
	}
}

// Count returns the number of ledger rows, revoked rows included.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tokens)
}

// Users is an in-memory user store. Deleting a user removes that user's
// ledger rows, like the repository transaction does.
type Users struct {
	mu     sync.Mutex
	byID   map[string]model.User
	ledger *Ledger
}

func NewUsers(ledger *Ledger) *Users {
	return &Users{byID: map[string]model.User{}, ledger: ledger}
}

func (s *Users) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if strings.EqualFold(u.Username, strings.TrimSpace(username)) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *Users) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *Users) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if strings.EqualFold(existing.Username, u.Username) {
			return model.ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return model.ErrEmailTaken
		}
	}
	s.byID[u.ID] = u
	return nil
}

func (s *Users) Update(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	for id, existing := range s.byID {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(existing.Username, u.Username) {
			return model.ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return model.ErrEmailTaken
		}
	}
	s.byID[u.ID] = u
	return nil
}

func (s *Users) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return model.ErrUserNotFound
	}
	delete(s.byID, id)
	s.mu.Unlock()

	if s.ledger != nil {
		s.ledger.deleteForUser(id)
	}
	return nil
}

func (s *Users) List(_ context.Context, offset int, limit int) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]model.User, 0, len(s.byID))
	for _, u := range s.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return page(users, offset, limit), nil
}

func (s *Users) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID), nil
}

type Resources struct {
	mu   sync.Mutex
	byID map[string]model.Resource
}

func NewResources() *Resources {
	return &Resources{byID: map[string]model.Resource{}}
}

func (s *Resources) FindByID(_ context.Context, id string) (model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.byID[id]
	if !ok {
		return model.Resource{}, model.ErrResourceNotFound
	}
	return res, nil
}

func (s *Resources) Create(_ context.Context, res model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[res.ID] = res
	return nil
}

func (s *Resources) Update(_ context.Context, res model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[res.ID]; !ok {
		return model.ErrResourceNotFound
	}
	s.byID[res.ID] = res
	return nil
}

func (s *Resources) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return model.ErrResourceNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *Resources) List(_ context.Context, offset int, limit int) ([]model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resources := make([]model.Resource, 0, len(s.byID))
	for _, res := range s.byID {
		resources = append(resources, res)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].Name < resources[j].Name })
	return page(resources, offset, limit), nil
}

type Areas struct {
	mu     sync.Mutex
	byID   map[string]model.RestrictedArea
	access map[string]map[string]struct{} // userID -> set of areaIDs
}

func NewAreas() *Areas {
	return &Areas{
		byID:   map[string]model.RestrictedArea{},
		access: map[string]map[string]struct{}{},
	}
}

func (s *Areas) FindByID(_ context.Context, id string) (model.RestrictedArea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return model.RestrictedArea{}, model.ErrAreaNotFound
	}
	return a, nil
}

func (s *Areas) Create(_ context.Context, a model.RestrictedArea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[a.ID] = a
	return nil
}

func (s *Areas) Update(_ context.Context, a model.RestrictedArea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[a.ID]; !ok {
		return model.ErrAreaNotFound
	}
	s.byID[a.ID] = a
	return nil
}

func (s *Areas) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return model.ErrAreaNotFound
	}
	delete(s.byID, id)
	for _, areas := range s.access {
		delete(areas, id)
	}
	return nil
}

func (s *Areas) List(_ context.Context, offset int, limit int) ([]model.RestrictedArea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	areas := make([]model.RestrictedArea, 0, len(s.byID))
	for _, a := range s.byID {
		areas = append(areas, a)
	}
	sort.Slice(areas, func(i, j int) bool { return areas[i].Name < areas[j].Name })
	return page(areas, offset, limit), nil
}

func (s *Areas) GrantAccess(_ context.Context, userID string, areaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.access[userID] == nil {
		s.access[userID] = map[string]struct{}{}
	}
	s.access[userID][areaID] = struct{}{}
	return nil
}

func (s *Areas) RevokeAccess(_ context.Context, userID string, areaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.access[userID], areaID)
	return nil
}

func (s *Areas) AreaIDsForUser(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.access[userID]))
	for id := range s.access[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type AccessLogs struct {
	mu      sync.Mutex
	entries []model.AccessLog
}

func NewAccessLogs() *AccessLogs {
	return &AccessLogs{}
}

func (s *AccessLogs) Create(_ context.Context, entry model.AccessLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *AccessLogs) FindByID(_ context.Context, id string) (model.AccessLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return model.AccessLog{}, model.ErrAccessLogNotFound
}

func (s *AccessLogs) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.entries {
		if entry.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return model.ErrAccessLogNotFound
}

func (s *AccessLogs) List(_ context.Context, offset int, limit int) ([]model.AccessLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return page(s.sortedLocked(), offset, limit), nil
}

func (s *AccessLogs) ListForUser(_ context.Context, userID string, offset int, limit int) ([]model.AccessLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := make([]model.AccessLog, 0)
	for _, entry := range s.sortedLocked() {
		if entry.UserID == userID {
			filtered = append(filtered, entry)
		}
	}
	return page(filtered, offset, limit), nil
}

func (s *AccessLogs) sortedLocked() []model.AccessLog {
	out := make([]model.AccessLog, len(s.entries))
	copy(out, s.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].AccessTime.After(out[j].AccessTime) })
	return out
}

// Stats derives dashboard counts from the other fakes.
type Stats struct {
	UsersStore     *Users
	ResourcesStore *Resources
	AreasStore     *Areas
	LogsStore      *AccessLogs
}

func (s *Stats) Stats(ctx context.Context) (model.DashboardStats, error) {
	stats := model.DashboardStats{}

	users, _ := s.UsersStore.List(ctx, 0, 1<<30)
	stats.TotalUsers = len(users)
	for _, u := range users {
		if u.IsActive {
			stats.ActiveUsers++
		}
	}

	resources, _ := s.ResourcesStore.List(ctx, 0, 1<<30)
	stats.TotalResources = len(resources)

	areas, _ := s.AreasStore.List(ctx, 0, 1<<30)
	stats.TotalAreas = len(areas)

	logs, _ := s.LogsStore.List(ctx, 0, 1<<30)
	stats.TotalAccessLogs = len(logs)
	for _, entry := range logs {
		switch entry.Status {
		case model.AccessStatusGranted:
			stats.AccessGranted++
		case model.AccessStatusDenied:
			stats.AccessDenied++
		}
	}

	return stats, nil
}

func page[T any](items []T, offset int, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
