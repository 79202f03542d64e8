package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/infrastructure/metrics"
)

const defaultHeartbeatInterval = 30 * time.Second

// HeartbeatService reports a linked till as online at a fixed interval.
type HeartbeatService struct {
	client   ports.LinkClient
	interval time.Duration
	log      zerolog.Logger
}

func NewHeartbeatService(client ports.LinkClient, interval time.Duration, log zerolog.Logger) *HeartbeatService {
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}
	return &HeartbeatService{client: client, interval: interval, log: log}
}

// Run sends one heartbeat immediately and then one per interval until ctx is
// cancelled. Failed beats are logged and the loop carries on.
func (h *HeartbeatService) Run(ctx context.Context, hb domain.Heartbeat) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.beat(ctx, hb)
	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Str("till_id", hb.TillID).Msg("heartbeat stopped")
			return
		case <-ticker.C:
			h.beat(ctx, hb)
		}
	}
}

func (h *HeartbeatService) beat(ctx context.Context, hb domain.Heartbeat) {
	if err := h.client.Heartbeat(ctx, hb); err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.HeartbeatsTotal.WithLabelValues("error").Inc()
		h.log.Warn().Err(err).Str("till_id", hb.TillID).Msg("heartbeat failed")
		return
	}
	metrics.HeartbeatsTotal.WithLabelValues("ok").Inc()
}
