package command

import (
	"context"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
)

// maxIdempotencyKeyLength bounds the X-Idempotency-Key header.
const maxIdempotencyKeyLength = 255

// LookupIdempotent returns the stored response for a replayed request, or nil
// on first sight. The Redis cache is consulted first; the relational row is
// authoritative and backfills the cache on a miss.
func (uc *UseCase) LookupIdempotent(ctx context.Context, tenantID, method, path, bodyHash, key string) (*mmodel.IdempotencyRecord, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.lookup_idempotent")
	defer span.End()

	if len(key) > maxIdempotencyKeyLength {
		return nil, pkg.ValidateBusinessError(constant.ErrIdempotencyKeyTooLong, "HttpIdempotency")
	}

	if uc.IdempotencyCache != nil {
		cached, err := uc.IdempotencyCache.Get(ctx, tenantID, method, path, bodyHash, key)
		if err != nil {
			logger.Warnf("Idempotency cache lookup failed, falling back to database: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	record, err := uc.IdempotencyRepo.Lookup(ctx, tenantID, method, path, bodyHash, key)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to lookup idempotency record", err)

		return nil, err
	}

	if record != nil && uc.IdempotencyCache != nil {
		if err := uc.IdempotencyCache.Set(ctx, record, time.Until(record.ExpiresAt)); err != nil {
			logger.Warnf("Idempotency cache backfill failed: %v", err)
		}
	}

	return record, nil
}

// ReapIdempotency deletes relational rows past their TTL. The Redis side
// expires on its own.
func (uc *UseCase) ReapIdempotency(ctx context.Context) (int64, error) {
	return uc.IdempotencyRepo.DeleteExpired(ctx)
}

// RecordIdempotent stores a finished response for replay within ttl.
func (uc *UseCase) RecordIdempotent(ctx context.Context, record *mmodel.IdempotencyRecord, ttl time.Duration) error {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.record_idempotent")
	defer span.End()

	if len(record.IdempotencyKey) > maxIdempotencyKeyLength {
		return pkg.ValidateBusinessError(constant.ErrIdempotencyKeyTooLong, "HttpIdempotency")
	}

	if err := uc.IdempotencyRepo.Record(ctx, record, ttl); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to record idempotency", err)

		return err
	}

	if uc.IdempotencyCache != nil {
		if err := uc.IdempotencyCache.Set(ctx, record, ttl); err != nil {
			logger.Warnf("Idempotency cache write failed: %v", err)
		}
	}

	return nil
}
