package command

import (
	"context"
	"testing"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/idempotency"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/redis"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func storedRecord() *mmodel.IdempotencyRecord {
	return &mmodel.IdempotencyRecord{
		TenantID:       "t-1",
		Method:         "POST",
		Path:           "/v1/transfers",
		BodyHash:       "abc123",
		IdempotencyKey: "K-9",
		StatusCode:     201,
		ResponseBody:   []byte(`{"id":"tr-1"}`),
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
}

func Test_LookupIdempotent_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := idempotency.NewMockRepository(ctrl)
	cache := redis.NewMockCacheRepository(ctrl)

	uc := UseCase{IdempotencyRepo: repo, IdempotencyCache: cache}

	record := storedRecord()

	cache.EXPECT().
		Get(gomock.Any(), "t-1", "POST", "/v1/transfers", "abc123", "K-9").
		Return(record, nil).
		Times(1)

	// Database must not be hit on a cache hit.
	repo.EXPECT().Lookup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	got, err := uc.LookupIdempotent(context.TODO(), "t-1", "POST", "/v1/transfers", "abc123", "K-9")
	assert.NoError(t, err)
	assert.Equal(t, record, got)
}

func Test_LookupIdempotent_CacheMissBackfills(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := idempotency.NewMockRepository(ctrl)
	cache := redis.NewMockCacheRepository(ctrl)

	uc := UseCase{IdempotencyRepo: repo, IdempotencyCache: cache}

	record := storedRecord()

	cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(1)

	repo.EXPECT().
		Lookup(gomock.Any(), "t-1", "POST", "/v1/transfers", "abc123", "K-9").
		Return(record, nil).
		Times(1)

	cache.EXPECT().
		Set(gomock.Any(), record, gomock.Any()).
		Return(nil).
		Times(1)

	got, err := uc.LookupIdempotent(context.TODO(), "t-1", "POST", "/v1/transfers", "abc123", "K-9")
	assert.NoError(t, err)
	assert.Equal(t, record, got)
}

func Test_LookupIdempotent_FirstSightReturnsNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := idempotency.NewMockRepository(ctrl)

	uc := UseCase{IdempotencyRepo: repo}

	repo.EXPECT().
		Lookup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(1)

	got, err := uc.LookupIdempotent(context.TODO(), "t-1", "POST", "/v1/transfers", "abc123", "K-new")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func Test_LookupIdempotent_KeyTooLong(t *testing.T) {
	uc := UseCase{}

	longKey := make([]byte, 256)
	for i := range longKey {
		longKey[i] = 'k'
	}

	_, err := uc.LookupIdempotent(context.TODO(), "t-1", "POST", "/v1/transfers", "abc123", string(longKey))
	assert.Error(t, err)

	var validationErr pkg.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ErrIdempotencyKeyTooLong.Error(), validationErr.Code)
}

func Test_RecordIdempotent_WritesStoreAndCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := idempotency.NewMockRepository(ctrl)
	cache := redis.NewMockCacheRepository(ctrl)

	uc := UseCase{IdempotencyRepo: repo, IdempotencyCache: cache}

	record := storedRecord()
	ttl := 24 * time.Hour

	repo.EXPECT().Record(gomock.Any(), record, ttl).Return(nil).Times(1)
	cache.EXPECT().Set(gomock.Any(), record, ttl).Return(nil).Times(1)

	err := uc.RecordIdempotent(context.TODO(), record, ttl)
	assert.NoError(t, err)
}
