package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/smallbiznis/royalty/pkg/db/pagination"
	"go.uber.org/zap"
)

func (s *Service) ListCharges(ctx context.Context, req chargedomain.ListRequest) (chargedomain.ListResponse, error) {
	filter := req.Filter.Resolve()
	if err := filter.Validate(); err != nil {
		return chargedomain.ListResponse{}, err
	}

	page := pagination.Pagination{Page: req.Page, PageSize: req.PageSize}.Normalize()
	sort := chargedomain.SortOptions{
		SortBy:  strings.ToLower(strings.TrimSpace(req.SortBy)),
		OrderBy: strings.ToLower(strings.TrimSpace(req.OrderBy)),
	}

	items, total, err := s.repo.List(ctx, filter, sort, page)
	if err != nil {
		return chargedomain.ListResponse{}, err
	}
	totals, err := s.repo.Totals(ctx, filter)
	if err != nil {
		return chargedomain.ListResponse{}, err
	}

	return chargedomain.ListResponse{
		Charges:       s.newEnricher().enrich(ctx, items),
		PageInfo:      pagination.BuildPageInfo(page, total),
		TotalAmount:   totals.Total,
		PendingAmount: totals.Pending,
		PaidAmount:    totals.Paid,
	}, nil
}

func (s *Service) GetCharge(ctx context.Context, id snowflake.ID) (*chargedomain.ChargeView, error) {
	if id == 0 {
		return nil, chargedomain.ErrNotFound
	}
	charge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, chargedomain.ErrNotFound
	}
	views := s.newEnricher().enrich(ctx, []chargedomain.Charge{*charge})
	return &views[0], nil
}

type contentKey struct {
	contentType chargedomain.ContentType
	id          snowflake.ID
}

// enricher caches collaborator lookups for the lifetime of one request.
type enricher struct {
	s      *Service
	titles map[contentKey]string
	names  map[string]string
}

func (s *Service) newEnricher() *enricher {
	return &enricher{
		s:      s,
		titles: make(map[contentKey]string),
		names:  make(map[string]string),
	}
}

func (e *enricher) enrich(ctx context.Context, charges []chargedomain.Charge) []chargedomain.ChargeView {
	views := make([]chargedomain.ChargeView, 0, len(charges))
	for _, c := range charges {
		views = append(views, chargedomain.ChargeView{
			Charge:           c,
			ContentTitle:     e.title(ctx, &c),
			PayoutMethodName: e.payoutMethodName(ctx, c.PayoutMethodID),
		})
	}
	return views
}

func (e *enricher) title(ctx context.Context, c *chargedomain.Charge) string {
	contentType, id, ok := c.Content()
	if !ok || e.s.catalog == nil {
		return chargedomain.ContentNotFoundTitle
	}
	key := contentKey{contentType: contentType, id: id}
	if title, ok := e.titles[key]; ok {
		return title
	}

	title, err := e.s.catalog.ContentTitle(ctx, contentType, id)
	if err != nil {
		e.s.log.Warn("catalog lookup failed",
			zap.String("content_type", string(contentType)),
			zap.String("content_id", id.String()),
			zap.Error(err),
		)
	}
	title = strings.TrimSpace(title)
	if err != nil || title == "" {
		title = chargedomain.ContentNotFoundTitle
	}
	e.titles[key] = title
	return title
}

func (e *enricher) payoutMethodName(ctx context.Context, payoutMethodID *string) string {
	if payoutMethodID == nil || e.s.payoutMethods == nil {
		return ""
	}
	id := strings.TrimSpace(*payoutMethodID)
	if id == "" {
		return ""
	}
	if name, ok := e.names[id]; ok {
		return name
	}

	name, err := e.s.payoutMethods.ResolvePayoutMethodName(ctx, id)
	if err != nil {
		e.s.log.Warn("payout method name lookup failed",
			zap.String("payout_method_id", id),
			zap.Error(err),
		)
		name = ""
	}
	e.names[id] = name
	return name
}
