package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/smallbiznis/royalty/internal/clock"
	"github.com/smallbiznis/royalty/internal/config"
	obslogger "github.com/smallbiznis/royalty/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/royalty/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Repo          chargedomain.Repository
	GenID         *snowflake.Node
	Clock         clock.Clock
	Rates         *config.RoyaltyConfigHolder
	PayoutMethods chargedomain.PayoutMethodResolver `optional:"true"`
	Catalog       chargedomain.CatalogLookup        `optional:"true"`
	Locker        chargedomain.ContentLocker        `optional:"true"`
	ObsMetrics    *obsmetrics.Metrics               `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	repo          chargedomain.Repository
	genID         *snowflake.Node
	clock         clock.Clock
	rates         *config.RoyaltyConfigHolder
	payoutMethods chargedomain.PayoutMethodResolver
	catalog       chargedomain.CatalogLookup
	locker        chargedomain.ContentLocker
	obsMetrics    *obsmetrics.Metrics
}

func NewService(p Params) chargedomain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("charge.service"),
		repo:          p.Repo,
		genID:         p.GenID,
		clock:         p.Clock,
		rates:         p.Rates,
		payoutMethods: p.PayoutMethods,
		catalog:       p.Catalog,
		locker:        p.Locker,
		obsMetrics:    p.ObsMetrics,
	}
}

// now is truncated to microseconds so values survive a database round trip unchanged.
func (s *Service) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

// resolvePayoutMethod never fails: collaborator errors degrade to nil.
func (s *Service) resolvePayoutMethod(ctx context.Context, ownerID snowflake.ID) *string {
	if s.payoutMethods == nil {
		return nil
	}
	id, err := s.payoutMethods.ResolvePayoutMethod(ctx, ownerID)
	if err != nil {
		obslogger.WithOwner(s.log, ownerID.String()).Warn("payout method lookup failed", zap.Error(err))
		return nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}

func (s *Service) defaultPayoutMethod() string {
	return s.rates.Get().DefaultPayoutMethodID
}
