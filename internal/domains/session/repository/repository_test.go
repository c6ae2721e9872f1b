package repository_test

import (
	"context"
	"errors"
	"fmt"
	dialogue "kiosk/internal/domains/dialogue/model"
	"kiosk/internal/domains/session/model"
	"kiosk/internal/domains/session/repository"
	cacheMocks "kiosk/shared/cache/mocks"
	"kiosk/shared/failure"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func testOptions() repository.Options {
	return repository.Options{
		TTL:      time.Minute,
		LockTTL:  time.Second,
		LockWait: 100 * time.Millisecond,
	}
}

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	store := repository.NewMemory(testOptions())
	defer store.Close()

	ctx := context.Background()
	key := model.Key("grand-hotel", "kiosk-1")

	_, found, err := store.Get(ctx, key)
	assert.NoError(t, err)
	assert.False(t, found)

	session := model.New("kiosk-1", "tenant-1")
	session.Slots[dialogue.SlotRoomType] = "deluxe"
	session.Append(dialogue.RoleUser, "book the deluxe room")

	assert.NoError(t, store.Save(ctx, key, session))

	loaded, found, err := store.Get(ctx, key)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "deluxe", loaded.Slots[dialogue.SlotRoomType])
	assert.Len(t, loaded.History, 1)

	loaded.Slots[dialogue.SlotAdults] = 2

	again, _, _ := store.Get(ctx, key)
	assert.False(t, again.Slots.Filled(dialogue.SlotAdults))

	assert.NoError(t, store.Delete(ctx, key))

	_, found, err = store.Get(ctx, key)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	opts := testOptions()
	opts.TTL = 10 * time.Millisecond

	store := repository.NewMemory(opts)
	defer store.Close()

	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, "k", model.New("s", "t")))

	time.Sleep(20 * time.Millisecond)

	_, found, err := store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Lock(t *testing.T) {
	store := repository.NewMemory(testOptions())
	defer store.Close()

	ctx := context.Background()

	release, err := store.Lock(ctx, "k")
	assert.NoError(t, err)

	_, err = store.Lock(ctx, "k")
	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.Equal(t, failure.CodeSessionBusy, failure.GetErrorCode(err))

	other, err := store.Lock(ctx, "other")
	assert.NoError(t, err)
	other()

	release()

	again, err := store.Lock(ctx, "k")
	assert.NoError(t, err)
	again()
}

func TestMemoryStore_LockWaitsForRelease(t *testing.T) {
	opts := testOptions()
	opts.LockWait = time.Second

	store := repository.NewMemory(opts)
	defer store.Close()

	ctx := context.Background()

	release, err := store.Lock(ctx, "k")
	assert.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		release()
	}()

	second, err := store.Lock(ctx, "k")
	assert.NoError(t, err)
	second()
}

func TestRedisStore_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	store := repository.NewRedis(mockCache, testOptions())

	tests := []struct {
		name      string
		setupMock func()
		wantFound bool
		wantErr   bool
	}{
		{
			name: "hit",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), "k", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						session, _ := value.(*model.Session)
						session.ID = "kiosk-1"

						return nil
					})
			},
			wantFound: true,
		},
		{
			name: "miss",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), "k", gomock.Any()).
					Return(fmt.Errorf("failed to get cache value: %w", redis.Nil))
			},
			wantFound: false,
		},
		{
			name: "redis down",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), "k", gomock.Any()).
					Return(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			_, found, err := store.Get(context.Background(), "k")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func TestRedisStore_SaveUsesTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	store := repository.NewRedis(mockCache, testOptions())

	mockCache.EXPECT().Save(gomock.Any(), "k", gomock.Any(), 60).Return(nil)

	assert.NoError(t, store.Save(context.Background(), "k", model.New("s", "t")))
}

func TestRedisStore_Lock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	store := repository.NewRedis(mockCache, testOptions())
	lockKey := model.LockKey("k")

	var token string

	gomock.InOrder(
		mockCache.EXPECT().SetNX(gomock.Any(), lockKey, gomock.Any(), time.Second).Return(false, nil),
		mockCache.EXPECT().SetNX(gomock.Any(), lockKey, gomock.Any(), time.Second).
			DoAndReturn(func(_ context.Context, _, value string, _ time.Duration) (bool, error) {
				token = value

				return true, nil
			}),
	)

	release, err := store.Lock(context.Background(), "k")
	assert.NoError(t, err)

	mockCache.EXPECT().DeleteIfEqual(gomock.Any(), lockKey, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, value string) (bool, error) {
			assert.Equal(t, token, value)

			return true, nil
		})

	release()
}

func TestRedisStore_LockBusy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	store := repository.NewRedis(mockCache, testOptions())

	mockCache.EXPECT().SetNX(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	_, err := store.Lock(context.Background(), "k")
	assert.ErrorIs(t, err, repository.ErrSessionBusy)
}

func TestSession_Recent(t *testing.T) {
	session := model.New("s", "t")
	for i := range 5 {
		session.Append(dialogue.RoleUser, fmt.Sprint(i))
	}

	recent := session.Recent(2)
	assert.Len(t, recent, 2)
	assert.Equal(t, "4", recent[1].Text)
	assert.Len(t, session.Recent(0), 5)
}
