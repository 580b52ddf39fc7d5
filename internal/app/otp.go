package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"helpyhands-market-service/internal/config"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// OtpService implements the phone one-time-code challenge on Redis. The
// challenge is a two-step state machine: Generate moves a phone from Idle to
// CodeRequested, Verify moves it to Verified. A failed verification leaves
// the phone in CodeRequested; regenerating restarts the challenge.
type OtpService struct {
	redisClient *redis.Client
	notifier    outbound.Notifier
	config      config.OTPConfig
	logger      zerolog.Logger
}

type OtpServiceParams struct {
	RedisClient *redis.Client
	Notifier    outbound.Notifier
	Config      config.OTPConfig
	Logger      zerolog.Logger
}

// NewOtpService creates a new Redis-backed OTP service
func NewOtpService(params OtpServiceParams) *OtpService {
	return &OtpService{
		redisClient: params.RedisClient,
		notifier:    params.Notifier,
		config:      params.Config,
		logger:      params.Logger.With().Str("component", "otp_service").Logger(),
	}
}

func otpKey(phone string) string      { return fmt.Sprintf("otp:%s", phone) }
func attemptsKey(phone string) string { return fmt.Sprintf("otp:att:%s", phone) }
func resendKey(phone string) string   { return fmt.Sprintf("otp:res:%s", phone) }

// Generate creates a code for the phone, stores it with a TTL, and
// dispatches it over SMS. Requests inside the resend window are throttled.
func (s *OtpService) Generate(ctx context.Context, phone string) error {
	// Check resend throttle
	exists, err := s.redisClient.Exists(ctx, resendKey(phone)).Result()
	if err != nil {
		return fmt.Errorf("failed to check resend throttle: %w", err)
	}
	if exists > 0 {
		s.logger.Warn().Str("phone", phone).Msg("OTP resend throttled")
		return shared.ErrOtpResendThrottled
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}

	// Store OTP in Redis with TTL; a regenerated code restarts the challenge
	if err := s.redisClient.Set(ctx, otpKey(phone), code, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	// Reset attempts counter
	if err := s.redisClient.Set(ctx, attemptsKey(phone), 0, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to initialize attempts counter: %w", err)
	}

	// Set resend throttle
	if err := s.redisClient.Set(ctx, resendKey(phone), 1, s.config.ResendWindow).Err(); err != nil {
		return fmt.Errorf("failed to set resend throttle: %w", err)
	}

	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.notifier.SendSMS(phone, message); err != nil {
		// Clean up so the next request is not throttled by a failed dispatch
		s.redisClient.Del(ctx, otpKey(phone), attemptsKey(phone), resendKey(phone))
		return fmt.Errorf("failed to send OTP SMS: %w", err)
	}

	s.logger.Info().Str("phone", phone).Msg("OTP dispatched")
	return nil
}

// Verify checks a submitted code against the stored one. A mismatch keeps
// the challenge open until the attempt budget runs out.
func (s *OtpService) Verify(ctx context.Context, phone, code string) error {
	attempts, err := s.redisClient.Incr(ctx, attemptsKey(phone)).Result()
	if err != nil {
		return fmt.Errorf("failed to increment attempts: %w", err)
	}

	if attempts > int64(s.config.MaxAttempts) {
		s.redisClient.Del(ctx, otpKey(phone), attemptsKey(phone))
		return shared.ErrOtpMaxAttempts
	}

	storedCode, err := s.redisClient.Get(ctx, otpKey(phone)).Result()
	if err == redis.Nil {
		return shared.ErrOtpExpired
	}
	if err != nil {
		return fmt.Errorf("failed to get OTP: %w", err)
	}

	if storedCode != code {
		s.logger.Warn().Str("phone", phone).Int64("attempts", attempts).Msg("OTP mismatch")
		return shared.ErrOtpMismatch
	}

	// Verified; the challenge is consumed
	s.redisClient.Del(ctx, otpKey(phone), attemptsKey(phone))
	return nil
}

// generateSecureCode produces a numeric code of the configured length
func (s *OtpService) generateSecureCode() (string, error) {
	code := ""
	for i := 0; i < s.config.Length; i++ {
		digit, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code += digit.String()
	}
	return code, nil
}
