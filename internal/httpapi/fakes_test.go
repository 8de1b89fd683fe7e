package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/domain"
	"SpeedReaderwebserver/internal/service"
)

// memStore backs accounts, drill records and stats in memory for router tests.
type memStore struct {
	mu       sync.Mutex
	seq      int
	accounts []*domain.AccountWithPassword
	drills   []domain.DrillRecord
	passages []domain.Passage
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) byID(id string) *domain.AccountWithPassword {
	for _, a := range m.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (m *memStore) addAccount(t *testing.T, name, email, password string, role domain.Role, status domain.AccountStatus) domain.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &domain.AccountWithPassword{
		Account: domain.Account{
			ID:     m.nextID("acct"),
			Email:  email,
			Name:   name,
			Role:   role,
			Status: status,
		},
		PasswordHash: hash,
	}
	m.accounts = append(m.accounts, a)
	return a.Account
}

func (m *memStore) CreateAccount(_ context.Context, email, name, passwordHash string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			return domain.Account{}, domain.ErrEmailTaken
		}
	}
	a := &domain.AccountWithPassword{
		Account: domain.Account{
			ID:     m.nextID("acct"),
			Email:  email,
			Name:   name,
			Role:   domain.RoleUser,
			Status: domain.StatusPending,
		},
		PasswordHash: passwordHash,
	}
	m.accounts = append(m.accounts, a)
	return a.Account, nil
}

func (m *memStore) CreateFederatedAccount(context.Context, string, string, string, string, string) (domain.Account, error) {
	return domain.Account{}, domain.ErrUnauthorized
}

func (m *memStore) LinkExternalAccount(context.Context, string, string, string, string) error {
	return domain.ErrUnauthorized
}

func (m *memStore) GetAccountByID(_ context.Context, id string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.byID(id); a != nil {
		return a.Account, nil
	}
	return domain.Account{}, domain.ErrNotFound
}

func (m *memStore) GetAccountByEmail(_ context.Context, email string) (domain.AccountWithPassword, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			return *a, nil
		}
	}
	return domain.AccountWithPassword{}, domain.ErrNotFound
}

func (m *memStore) GetAccountByExternal(context.Context, string, string) (domain.Account, error) {
	return domain.Account{}, domain.ErrNotFound
}

func (m *memStore) SetLastLogin(_ context.Context, id string, when time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.byID(id); a != nil {
		a.LastLoginAt = &when
	}
	return nil
}

func (m *memStore) ListAccounts(_ context.Context, limit, offset int) ([]domain.Account, error) {
	return m.SearchAccounts(context.Background(), "", limit, offset)
}

func (m *memStore) SearchAccounts(_ context.Context, query string, _, _ int) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Account{}
	for _, a := range m.accounts {
		if query == "" || strings.Contains(a.Email, query) || strings.Contains(a.Name, query) {
			out = append(out, a.Account)
		}
	}
	return out, nil
}

func (m *memStore) SetStatus(_ context.Context, id string, status domain.AccountStatus) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.byID(id); a != nil {
		a.Status = status
		return a.Account, nil
	}
	return domain.Account{}, domain.ErrNotFound
}

func (m *memStore) SetRole(_ context.Context, id string, role domain.Role) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.byID(id); a != nil {
		a.Role = role
		return a.Account, nil
	}
	return domain.Account{}, domain.ErrNotFound
}

func (m *memStore) AppendDrill(_ context.Context, rec domain.DrillRecord) (domain.DrillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byID(rec.AccountID) == nil {
		return domain.DrillRecord{}, domain.ErrNotFound
	}
	rec.ID = m.nextID("drill")
	m.drills = append(m.drills, rec)
	return rec, nil
}

func (m *memStore) ListDrillsByAccount(_ context.Context, accountID string, limit int) ([]domain.DrillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.DrillRecord{}
	for i := len(m.drills) - 1; i >= 0; i-- {
		if m.drills[i].AccountID == accountID {
			out = append(out, m.drills[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) DrillTotals(_ context.Context, accountID string) (domain.DrillTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var t domain.DrillTotals
	byKind := map[domain.DrillKind]*domain.DrillKindTotals{}
	for _, d := range m.drills {
		if d.AccountID != accountID {
			continue
		}
		t.Count++
		t.SumWPM += int64(d.WPM)
		t.BestWPM = max(t.BestWPM, d.WPM)
		if d.ComprehensionScore != nil {
			t.ScoredCount++
			t.SumScore += int64(*d.ComprehensionScore)
		}
		if d.WordsRead != nil {
			t.WordsRead += int64(*d.WordsRead)
		}
		k := byKind[d.DrillType]
		if k == nil {
			k = &domain.DrillKindTotals{DrillType: d.DrillType}
			byKind[d.DrillType] = k
		}
		k.Count++
		k.SumWPM += int64(d.WPM)
		k.BestWPM = max(k.BestWPM, d.WPM)
	}
	for _, k := range byKind {
		t.ByKind = append(t.ByKind, *k)
	}
	sort.Slice(t.ByKind, func(i, j int) bool {
		if t.ByKind[i].Count != t.ByKind[j].Count {
			return t.ByKind[i].Count > t.ByKind[j].Count
		}
		return t.ByKind[i].DrillType < t.ByKind[j].DrillType
	})
	return t, nil
}

func (m *memStore) ReadingTotals(context.Context, string) (domain.ReadingTotals, error) {
	return domain.ReadingTotals{}, nil
}

func (m *memStore) Leaderboard(_ context.Context, kind domain.DrillKind, limit int) ([]domain.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit == 0 {
		limit = 10
	}
	recs := []domain.DrillRecord{}
	for _, d := range m.drills {
		if kind == "" || d.DrillType == kind {
			recs = append(recs, d)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].WPM != recs[j].WPM {
			return recs[i].WPM > recs[j].WPM
		}
		return recs[i].CompletedAt.Before(recs[j].CompletedAt)
	})
	out := []domain.LeaderboardEntry{}
	for i, d := range recs {
		if i == limit {
			break
		}
		out = append(out, domain.LeaderboardEntry{Rank: i + 1, RecordID: d.ID, AccountID: d.AccountID, DrillType: d.DrillType, WPM: d.WPM, CompletedAt: d.CompletedAt})
	}
	return out, nil
}

func (m *memStore) InsertPassages(_ context.Context, ps []domain.Passage) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range ps {
		p.ID = m.nextID("passage")
		m.passages = append(m.passages, p)
	}
	return len(ps), nil
}

func (m *memStore) ListPassages(_ context.Context, difficulty domain.Difficulty, category string) ([]domain.Passage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Passage{}
	for _, p := range m.passages {
		if (difficulty == "" || p.Difficulty == difficulty) && (category == "" || p.Category == category) {
			p.Content = ""
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetPassage(_ context.Context, id string) (domain.Passage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.passages {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Passage{}, domain.ErrNotFound
}

type testServer struct {
	t      *testing.T
	store  *memStore
	router http.Handler
	tokens auth.TokenCodec
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := &memStore{}
	tokens := auth.NewTokenCodec([]byte("test-secret-test-secret-test-secret"), time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(RouterOpts{
		Logger:   logger,
		Auth:     &service.AuthService{Accounts: store, Statuses: store},
		Records:  &service.RecordService{Drills: store},
		Stats:    &service.StatsService{Stats: store},
		Passages: &service.PassageService{Passages: store},
		Admin:    &service.AdminService{Accounts: store},
		Tokens:   tokens,
	})
	return &testServer{t: t, store: store, router: router, tokens: tokens}
}
