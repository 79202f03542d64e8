package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/infrastructure/metrics"
)

// DiscountView is one frame of the live discount board.
type DiscountView struct {
	Now       time.Time
	Active    []domain.Discount
	Expired   []domain.Discount
	Err       string
	Malformed bool
}

func NewDiscountView(st ScreenState[domain.Discount], now time.Time) DiscountView {
	active, expired := domain.SplitDiscounts(st.Items, now)
	return DiscountView{
		Now:       now,
		Active:    active,
		Expired:   expired,
		Err:       st.Err,
		Malformed: st.Malformed,
	}
}

// DiscountBoard keeps the discount list current: every active discount with
// an expiry gets a countdown, and the first one to reach zero triggers a
// refetch.
type DiscountBoard struct {
	screen *Screen[domain.Discount]
	admin  ports.AdminService
	now    func() time.Time
	tick   time.Duration
	log    zerolog.Logger
}

func NewDiscountBoard(screen *Screen[domain.Discount], admin ports.AdminService, log zerolog.Logger) *DiscountBoard {
	return &DiscountBoard{screen: screen, admin: admin, now: time.Now, tick: time.Second, log: log}
}

func (b *DiscountBoard) Screen() *Screen[domain.Discount] { return b.screen }

// Create submits a draft, stamping its expiry relative to now.
func (b *DiscountBoard) Create(ctx context.Context, draft domain.DiscountDraft) (ScreenState[domain.Discount], error) {
	if err := b.screen.validate.Validate(draft); err != nil {
		return b.screen.fail(err, "")
	}
	return b.screen.Create(ctx, draft.Discount(b.now()))
}

// Renew extends an expired discount and refetches.
func (b *DiscountBoard) Renew(ctx context.Context, id string) (ScreenState[domain.Discount], error) {
	return b.screen.Mutate(ctx, "Failed to renew", func(ctx context.Context) error {
		return b.admin.RenewDiscount(ctx, id)
	})
}

// Watch refreshes the board, renders it every tick and refetches whenever a
// countdown expires. It returns when ctx is cancelled; all countdowns are
// stopped first.
func (b *DiscountBoard) Watch(ctx context.Context, render func(DiscountView)) {
	for {
		st := b.screen.Refresh(ctx)
		view := NewDiscountView(st, b.now())
		render(view)

		expired := make(chan struct{}, 1)
		countdowns := make([]*Countdown, 0, len(view.Active))
		for _, d := range view.Active {
			if d.ExpiresAt == nil {
				continue
			}
			countdowns = append(countdowns, StartCountdown(*d.ExpiresAt, b.now, b.tick, func() {
				select {
				case expired <- struct{}{}:
				default:
				}
			}))
		}

		again := b.wait(ctx, st, expired, render)
		for _, c := range countdowns {
			c.Stop()
		}
		if !again {
			return
		}
		metrics.DiscountExpiriesTotal.Inc()
		b.log.Debug().Msg("discount expired, refetching")
	}
}

func (b *DiscountBoard) wait(ctx context.Context, st ScreenState[domain.Discount], expired <-chan struct{}, render func(DiscountView)) bool {
	ticker := time.NewTicker(b.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-expired:
			return true
		case <-ticker.C:
			render(NewDiscountView(st, b.now()))
		}
	}
}
