package service

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/domain"
	"SpeedReaderwebserver/internal/email"
)

type memResetAccounts struct {
	acct      domain.AccountWithPassword
	tokenHash string
	expiresAt time.Time
}

func (m *memResetAccounts) GetAccountByID(_ context.Context, id string) (domain.Account, error) {
	if id != m.acct.ID {
		return domain.Account{}, domain.ErrNotFound
	}
	return m.acct.Account, nil
}

func (m *memResetAccounts) GetAccountByEmail(_ context.Context, e string) (domain.AccountWithPassword, error) {
	if e != m.acct.Email {
		return domain.AccountWithPassword{}, domain.ErrNotFound
	}
	return m.acct, nil
}

func (m *memResetAccounts) SetResetToken(_ context.Context, _ string, tokenHash string, expiresAt time.Time) error {
	m.tokenHash = tokenHash
	m.expiresAt = expiresAt
	return nil
}

func (m *memResetAccounts) GetResetByTokenHash(_ context.Context, tokenHash string) (domain.PasswordReset, error) {
	if m.tokenHash == "" || tokenHash != m.tokenHash {
		return domain.PasswordReset{}, domain.ErrNotFound
	}
	return domain.PasswordReset{AccountID: m.acct.ID, TokenHash: m.tokenHash, ExpiresAt: m.expiresAt}, nil
}

func (m *memResetAccounts) SetPasswordHash(_ context.Context, _ string, hash string) error {
	m.acct.PasswordHash = hash
	m.tokenHash = ""
	return nil
}

type recordingMailer struct {
	sent []email.Message
}

func (m *recordingMailer) Configured() bool { return true }

func (m *recordingMailer) Send(_ context.Context, msg email.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func newResetFixture(t *testing.T) (*PasswordResetService, *memResetAccounts, *recordingMailer) {
	t.Helper()
	hash, err := auth.HashPassword("old-secret")
	require.NoError(t, err)
	store := &memResetAccounts{acct: domain.AccountWithPassword{
		Account:      domain.Account{ID: "acct-1", Email: "ann@example.com", Name: "Ann", Status: domain.StatusActive},
		PasswordHash: hash,
	}}
	mailer := &recordingMailer{}
	svc := &PasswordResetService{
		Accounts: store,
		Mailer:   mailer,
		ResetURL: func(token string) string { return "https://read.example.com/reset-password?token=" + url.QueryEscape(token) },
	}
	return svc, store, mailer
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(strings.TrimSpace(link))
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func TestPasswordResetRoundTrip(t *testing.T) {
	svc, store, mailer := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestReset(ctx, "ANN@example.com"))
	require.Len(t, mailer.sent, 1)
	require.Equal(t, "ann@example.com", mailer.sent[0].ToEmail)

	var link string
	for _, line := range strings.Split(mailer.sent[0].TextBody, "\n") {
		if strings.HasPrefix(line, "https://") {
			link = line
		}
	}
	token := tokenFromLink(t, link)
	require.NotEqual(t, token, store.tokenHash)

	require.NoError(t, svc.ResetPassword(ctx, token, "new-secret"))
	ok, err := auth.VerifyPassword(store.acct.PasswordHash, "new-secret")
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, svc.ResetPassword(ctx, token, "another-secret"), domain.ErrResetTokenInvalid)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, _, mailer := newResetFixture(t)
	require.NoError(t, svc.RequestReset(context.Background(), "nobody@example.com"))
	require.Empty(t, mailer.sent)
}

func TestPasswordResetExpired(t *testing.T) {
	svc, _, _ := newResetFixture(t)
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	link, err := svc.CreateResetLink(context.Background(), "acct-1")
	require.NoError(t, err)
	token := tokenFromLink(t, link)

	now = now.Add(3 * time.Hour)
	require.ErrorIs(t, svc.ResetPassword(context.Background(), token, "new-secret"), domain.ErrResetTokenExpired)
}

func TestPasswordResetShortPassword(t *testing.T) {
	svc, _, _ := newResetFixture(t)
	link, err := svc.CreateResetLink(context.Background(), "acct-1")
	require.NoError(t, err)
	err = svc.ResetPassword(context.Background(), tokenFromLink(t, link), "123")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestPasswordResetWithoutMailer(t *testing.T) {
	svc := &PasswordResetService{Accounts: &memResetAccounts{}}
	require.ErrorIs(t, svc.RequestReset(context.Background(), "ann@example.com"), email.ErrNotConfigured)
}

func TestPasswordResetRefusedAfterDisable(t *testing.T) {
	svc, store, _ := newResetFixture(t)
	link, err := svc.CreateResetLink(context.Background(), "acct-1")
	require.NoError(t, err)
	oldHash := store.acct.PasswordHash

	store.acct.Status = domain.StatusDisabled
	err = svc.ResetPassword(context.Background(), tokenFromLink(t, link), "new-secret")
	require.ErrorIs(t, err, domain.ErrResetTokenInvalid)
	require.Equal(t, oldHash, store.acct.PasswordHash)
}

func TestCreateResetLinkRefusals(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc, store, _ := newResetFixture(t)
		store.acct.Status = domain.StatusDisabled
		_, err := svc.CreateResetLink(context.Background(), "acct-1")
		require.ErrorIs(t, err, domain.ErrAccountDisabled)
		require.Empty(t, store.tokenHash)
	})
	t.Run("federated", func(t *testing.T) {
		svc, store, _ := newResetFixture(t)
		store.acct.PasswordHash = ""
		_, err := svc.CreateResetLink(context.Background(), "acct-1")
		require.ErrorIs(t, err, domain.ErrValidation)
		require.Empty(t, store.tokenHash)
	})
	t.Run("missing", func(t *testing.T) {
		svc, _, _ := newResetFixture(t)
		_, err := svc.CreateResetLink(context.Background(), "acct-2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPasswordResetFederatedTokenIsRefused(t *testing.T) {
	svc, store, _ := newResetFixture(t)
	link, err := svc.CreateResetLink(context.Background(), "acct-1")
	require.NoError(t, err)

	store.acct.PasswordHash = ""
	err = svc.ResetPassword(context.Background(), tokenFromLink(t, link), "new-secret")
	require.ErrorIs(t, err, domain.ErrResetTokenInvalid)
	require.Empty(t, store.acct.PasswordHash)
}

// Services are shared by every request; calls must not write to them.
func TestServicesAreSafeForConcurrentUse(t *testing.T) {
	resetSvc := &PasswordResetService{Accounts: &memResetAccounts{}, Mailer: &recordingMailer{}}
	authSvc := &AuthService{Accounts: &stubAccountsStore{t: t}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := authSvc.Authenticate(context.Background(), "", "")
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.ErrorIs(t, resetSvc.RequestReset(context.Background(), "not-an-email"), domain.ErrValidation)
			assert.ErrorIs(t, resetSvc.ResetPassword(context.Background(), "", "new-secret"), domain.ErrResetTokenInvalid)
		}()
	}
	wg.Wait()

	require.Nil(t, authSvc.Now)
	require.Nil(t, resetSvc.Now)
	require.Zero(t, resetSvc.TokenTTL)
}
