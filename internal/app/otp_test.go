package app

import (
	"context"
	"testing"
	"time"

	"helpyhands-market-service/internal/config"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOtpServiceForTest(t *testing.T) (*OtpService, *miniredis.Miniredis, *mocks.MockNotifier) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	notifier := mocks.NewMockNotifier()

	svc := NewOtpService(OtpServiceParams{
		RedisClient: client,
		Notifier:    notifier,
		Config: config.OTPConfig{
			Length:       6,
			TTL:          5 * time.Minute,
			MaxAttempts:  3,
			ResendWindow: 60 * time.Second,
		},
		Logger: zerolog.Nop(),
	})

	return svc, mr, notifier
}

func TestOtpGenerate(t *testing.T) {
	const phone = "+919876543210"

	t.Run("stores code and dispatches SMS", func(t *testing.T) {
		svc, mr, notifier := newOtpServiceForTest(t)

		require.NoError(t, svc.Generate(context.Background(), phone))

		code, err := mr.Get("otp:" + phone)
		require.NoError(t, err)
		assert.Len(t, code, 6)

		require.Len(t, notifier.SentSMS, 1)
		assert.Equal(t, phone, notifier.SentSMS[0].To)
		assert.Contains(t, notifier.SentSMS[0].Message, code)
	})

	t.Run("resend inside the window is throttled", func(t *testing.T) {
		svc, _, _ := newOtpServiceForTest(t)

		require.NoError(t, svc.Generate(context.Background(), phone))
		err := svc.Generate(context.Background(), phone)
		assert.ErrorIs(t, err, shared.ErrOtpResendThrottled)
	})

	t.Run("resend allowed after the window", func(t *testing.T) {
		svc, mr, notifier := newOtpServiceForTest(t)

		require.NoError(t, svc.Generate(context.Background(), phone))
		mr.FastForward(61 * time.Second)

		require.NoError(t, svc.Generate(context.Background(), phone))
		assert.Len(t, notifier.SentSMS, 2)
	})

	t.Run("failed dispatch leaves no throttle behind", func(t *testing.T) {
		svc, mr, notifier := newOtpServiceForTest(t)
		notifier.SendSMSFunc = func(to, message string) error {
			return assert.AnError
		}

		err := svc.Generate(context.Background(), phone)
		require.Error(t, err)
		assert.False(t, mr.Exists("otp:"+phone))
		assert.False(t, mr.Exists("otp:res:"+phone))

		// A retry right away succeeds
		notifier.SendSMSFunc = nil
		require.NoError(t, svc.Generate(context.Background(), phone))
	})
}

func TestOtpVerify(t *testing.T) {
	const phone = "+919876543210"

	storedCode := func(t *testing.T, mr *miniredis.Miniredis) string {
		t.Helper()
		code, err := mr.Get("otp:" + phone)
		require.NoError(t, err)
		return code
	}

	t.Run("correct code consumes the challenge", func(t *testing.T) {
		svc, mr, _ := newOtpServiceForTest(t)
		require.NoError(t, svc.Generate(context.Background(), phone))

		code := storedCode(t, mr)
		require.NoError(t, svc.Verify(context.Background(), phone, code))
		assert.False(t, mr.Exists("otp:"+phone), "a verified code is single use")

		err := svc.Verify(context.Background(), phone, code)
		assert.Error(t, err)
	})

	t.Run("mismatch keeps the challenge open", func(t *testing.T) {
		svc, mr, _ := newOtpServiceForTest(t)
		require.NoError(t, svc.Generate(context.Background(), phone))

		err := svc.Verify(context.Background(), phone, "000000")
		assert.ErrorIs(t, err, shared.ErrOtpMismatch)

		require.NoError(t, svc.Verify(context.Background(), phone, storedCode(t, mr)))
	})

	t.Run("attempt budget runs out", func(t *testing.T) {
		svc, mr, _ := newOtpServiceForTest(t)
		require.NoError(t, svc.Generate(context.Background(), phone))
		code := storedCode(t, mr)

		for i := 0; i < 3; i++ {
			err := svc.Verify(context.Background(), phone, "000000")
			assert.ErrorIs(t, err, shared.ErrOtpMismatch)
		}

		err := svc.Verify(context.Background(), phone, code)
		assert.ErrorIs(t, err, shared.ErrOtpMaxAttempts)
		assert.False(t, mr.Exists("otp:"+phone), "exhausted challenge is destroyed")
	})

	t.Run("expired code", func(t *testing.T) {
		svc, mr, _ := newOtpServiceForTest(t)
		require.NoError(t, svc.Generate(context.Background(), phone))
		code := storedCode(t, mr)

		mr.FastForward(6 * time.Minute)

		err := svc.Verify(context.Background(), phone, code)
		assert.ErrorIs(t, err, shared.ErrOtpExpired)
	})

	t.Run("never generated", func(t *testing.T) {
		svc, _, _ := newOtpServiceForTest(t)

		err := svc.Verify(context.Background(), phone, "123456")
		assert.ErrorIs(t, err, shared.ErrOtpExpired)
	})
}
