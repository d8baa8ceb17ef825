package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/smallbiznis/royalty/internal/charge/repository"
	"github.com/smallbiznis/royalty/internal/clock"
	"github.com/smallbiznis/royalty/internal/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type testEnv struct {
	db    *gorm.DB
	svc   *Service
	repo  chargedomain.Repository
	node  *snowflake.Node
	clock *clock.FakeClock
}

type envOption func(*Service)

func withPayoutMethods(r chargedomain.PayoutMethodResolver) envOption {
	return func(s *Service) { s.payoutMethods = r }
}

func withCatalog(c chargedomain.CatalogLookup) envOption {
	return func(s *Service) { s.catalog = c }
}

func withRepo(wrap func(chargedomain.Repository) chargedomain.Repository) envOption {
	return func(s *Service) { s.repo = wrap(s.repo) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database shared across goroutines.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&chargedomain.Charge{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	repo := repository.NewRepository(db)
	svc := NewService(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		Repo:  repo,
		GenID: node,
		Clock: fakeClock,
		Rates: config.NewStaticRoyaltyConfigHolder(config.DefaultRoyaltyRates()),
	}).(*Service)
	for _, opt := range opts {
		opt(svc)
	}

	return &testEnv{db: db, svc: svc, repo: repo, node: node, clock: fakeClock}
}

// seed inserts a charge directly, bypassing the generators.
func (e *testEnv) seed(t *testing.T, owner snowflake.ID, amount string, status chargedomain.ChargeStatus, createdAt time.Time) chargedomain.Charge {
	t.Helper()
	c := chargedomain.Charge{
		ID:          e.node.Generate(),
		OwnerID:     owner,
		ChargeType:  chargedomain.ChargeTypePurchase,
		Amount:      decimal.RequireFromString(amount),
		Status:      status,
		Description: "seeded",
		CreatedAt:   createdAt.UTC(),
	}
	c.SetContent(chargedomain.ContentTypeAlbum, e.node.Generate())
	require.NoError(t, e.repo.Create(context.Background(), &c))
	return c
}

func (e *testEnv) countCharges(t *testing.T, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&chargedomain.Charge{}).Where(where, args...).Count(&n).Error)
	return n
}

type payoutMethodMock struct {
	mock.Mock
}

func (m *payoutMethodMock) ResolvePayoutMethod(ctx context.Context, ownerID snowflake.ID) (string, error) {
	args := m.Called(ctx, ownerID)
	return args.String(0), args.Error(1)
}

func (m *payoutMethodMock) ResolvePayoutMethodName(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type catalogMock struct {
	mock.Mock
}

func (m *catalogMock) ContentTitle(ctx context.Context, contentType chargedomain.ContentType, id snowflake.ID) (string, error) {
	args := m.Called(ctx, contentType, id)
	return args.String(0), args.Error(1)
}

// failingCreateRepo fails every insert.
type failingCreateRepo struct {
	chargedomain.Repository
}

func (r failingCreateRepo) WithTx(tx *gorm.DB) chargedomain.Repository {
	return failingCreateRepo{r.Repository.WithTx(tx)}
}

func (r failingCreateRepo) CreateIfAbsent(ctx context.Context, c *chargedomain.Charge) (bool, error) {
	return false, errors.New("disk full")
}

func (r failingCreateRepo) Create(ctx context.Context, c *chargedomain.Charge) error {
	return errors.New("disk full")
}

// racingRepo reports one row fewer than it updated, as if a concurrent
// settlement had already paid one of the selected charges.
type racingRepo struct {
	chargedomain.Repository
}

func (r racingRepo) WithTx(tx *gorm.DB) chargedomain.Repository {
	return racingRepo{r.Repository.WithTx(tx)}
}

func (r racingRepo) MarkPaid(ctx context.Context, ids []snowflake.ID, p chargedomain.MarkPaidParams) (int64, error) {
	n, err := r.Repository.MarkPaid(ctx, ids, p)
	return n - 1, err
}
