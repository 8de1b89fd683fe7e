// Command seeddemo fills a development database with active demo accounts and
// a spread of drill and reading records so the leaderboard and stats pages
// have something to show.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/config"
	"SpeedReaderwebserver/internal/domain"
	"SpeedReaderwebserver/internal/service"
	"SpeedReaderwebserver/internal/store/postgres"

	"github.com/brianvoe/gofakeit/v6"
)

func main() {
	var (
		accounts = flag.Int("accounts", 12, "number of demo accounts to create")
		drills   = flag.Int("drills", 20, "drill records per account")
		readings = flag.Int("readings", 5, "reading sessions per account")
		password = flag.String("password", "speedreader-demo", "password for every demo account")
		seed     = flag.Int64("seed", 0, "random seed (0 picks one)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config failed", "err", err)
		os.Exit(1)
	}
	if cfg.IsProd() {
		logger.Error("refusing to seed demo data in prod")
		os.Exit(1)
	}
	if cfg.DBDSN == "" {
		logger.Error("APP_DB_DSN is required")
		os.Exit(1)
	}

	gofakeit.Seed(*seed)

	ctx := context.Background()
	pool, err := postgres.Open(ctx, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		logger.Error("db open failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		logger.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	s := seeder{
		logger:   logger,
		accounts: postgres.NewAccountsStore(pool),
		admin:    postgres.NewAdminAccountsStore(pool),
		drills:   postgres.NewDrillsStore(pool),
		readings: postgres.NewReadingSessionsStore(pool),
		now:      time.Now().UTC(),
	}

	passageSvc := &service.PassageService{Passages: postgres.NewPassagesStore(pool), Logger: logger}
	if err := passageSvc.Seed(ctx); err != nil {
		logger.Error("seed passages failed", "err", err)
		os.Exit(1)
	}
	s.passages, err = passageSvc.List(ctx, "", "")
	if err != nil {
		logger.Error("list passages failed", "err", err)
		os.Exit(1)
	}
	if len(s.passages) == 0 {
		logger.Error("no passages available")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		logger.Error("hash password failed", "err", err)
		os.Exit(1)
	}

	created := 0
	for i := 0; i < *accounts; i++ {
		acct, err := s.createAccount(ctx, hash)
		if err != nil {
			if errors.Is(err, domain.ErrEmailTaken) {
				continue
			}
			logger.Error("create account failed", "err", err)
			os.Exit(1)
		}
		if err := s.fillRecords(ctx, acct.ID, *drills, *readings); err != nil {
			logger.Error("create records failed", "account_id", acct.ID, "err", err)
			os.Exit(1)
		}
		created++
		logger.Info("demo account ready", "email", acct.Email, "name", acct.Name)
	}

	logger.Info("demo data complete", "accounts", created, "password", *password)
}

type seeder struct {
	logger   *slog.Logger
	accounts *postgres.AccountsStore
	admin    *postgres.AdminAccountsStore
	drills   *postgres.DrillsStore
	readings *postgres.ReadingSessionsStore
	passages []domain.Passage
	now      time.Time
}

func (s seeder) createAccount(ctx context.Context, hash string) (domain.Account, error) {
	name := gofakeit.Name()
	email := service.NormalizeEmail(gofakeit.Username() + "@demo.speedreader.test")

	acct, err := s.accounts.CreateAccount(ctx, email, name, hash)
	if err != nil {
		return domain.Account{}, err
	}
	// Demo accounts skip the approval queue.
	return s.admin.SetStatus(ctx, acct.ID, domain.StatusActive)
}

func (s seeder) fillRecords(ctx context.Context, accountID string, drills, readings int) error {
	// Each reader gets a baseline so the leaderboard has a believable spread.
	base := gofakeit.Number(180, 420)
	since := s.now.AddDate(0, 0, -60)

	for i := 0; i < drills; i++ {
		kind := domain.DrillKinds[gofakeit.Number(0, len(domain.DrillKinds)-1)]
		rec := domain.DrillRecord{
			AccountID:       accountID,
			DrillType:       kind,
			WPM:             max(60, base+gofakeit.Number(-80, 160)),
			DurationSeconds: gofakeit.Number(30, 600),
			CompletedAt:     gofakeit.DateRange(since, s.now).UTC(),
		}
		if gofakeit.Bool() {
			score := gofakeit.Number(40, 100)
			rec.ComprehensionScore = &score
		}
		if kind == domain.DrillRSVP || kind == domain.DrillSpeedSprint {
			p := s.passages[gofakeit.Number(0, len(s.passages)-1)]
			words := p.WordCount
			rec.PassageID = p.ID
			rec.PassageTitle = p.Title
			rec.WordsRead = &words
		}
		if _, err := s.drills.AppendDrill(ctx, rec); err != nil {
			return fmt.Errorf("append drill: %w", err)
		}
	}

	for i := 0; i < readings; i++ {
		p := s.passages[gofakeit.Number(0, len(s.passages)-1)]
		start := max(60, base+gofakeit.Number(-40, 40))
		ramping := gofakeit.Bool()
		end := start
		if ramping {
			end = start + gofakeit.Number(20, 150)
		}
		rec := domain.ReadingSessionRecord{
			AccountID:       accountID,
			PassageID:       p.ID,
			PassageTitle:    p.Title,
			StartWPM:        start,
			EndWPM:          end,
			WasRamping:      ramping,
			DurationSeconds: p.WordCount * 60 / max(1, (start+end)/2),
			WordsRead:       p.WordCount,
			CompletedAt:     gofakeit.DateRange(since, s.now).UTC(),
		}
		if _, err := s.readings.AppendReadingSession(ctx, rec); err != nil {
			return fmt.Errorf("append reading session: %w", err)
		}
	}
	return nil
}
