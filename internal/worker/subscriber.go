package worker

import (
	"context"

	"finboard/internal/amqp"
	"finboard/internal/invalidation"
	"finboard/internal/log"
)

// CacheSubscriber applies invalidations published by other instances to the
// local view cache. Messages from its own origin were applied when emitted.
type CacheSubscriber struct {
	origin string
	local  invalidation.Emitter
	logger *log.Logger
}

func NewCacheSubscriber(origin string, local invalidation.Emitter, logger *log.Logger) *CacheSubscriber {
	if logger == nil {
		logger = log.Discard()
	}
	return &CacheSubscriber{origin: origin, local: local, logger: logger.WithComponent(log.ComponentInvalidation)}
}

func (s *CacheSubscriber) HandleMessage(ctx context.Context, msg *amqp.InvalidationMessage) error {
	if msg.Origin == s.origin {
		return nil
	}
	s.logger.DebugContext(ctx, "Applying remote invalidation",
		log.FieldEntity, msg.Entity,
		log.FieldUserID, msg.UserID,
		"origin", msg.Origin)
	return s.local.Emit(ctx, msg.Event())
}
