package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpyhands-market-service/internal/domain/principal"
	"helpyhands-market-service/internal/domain/session"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/inbound"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IdentityService implements the identity and session use cases
type IdentityService struct {
	principalRepo outbound.PrincipalRepository
	sessionRepo   outbound.SessionRepository
	passwordSvc   outbound.PasswordService
	tokenSvc      outbound.TokenService
	otp           *OtpService
	notifier      outbound.Notifier
	broadcaster   outbound.Broadcaster
	sessionTTL    time.Duration
	accessTTL     time.Duration
	logger        zerolog.Logger
}

type IdentityServiceParams struct {
	PrincipalRepo outbound.PrincipalRepository
	SessionRepo   outbound.SessionRepository
	PasswordSvc   outbound.PasswordService
	TokenSvc      outbound.TokenService
	Otp           *OtpService
	Notifier      outbound.Notifier
	Broadcaster   outbound.Broadcaster
	SessionTTL    time.Duration
	AccessTTL     time.Duration
	Logger        zerolog.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(params IdentityServiceParams) *IdentityService {
	return &IdentityService{
		principalRepo: params.PrincipalRepo,
		sessionRepo:   params.SessionRepo,
		passwordSvc:   params.PasswordSvc,
		tokenSvc:      params.TokenSvc,
		otp:           params.Otp,
		notifier:      params.Notifier,
		broadcaster:   params.Broadcaster,
		sessionTTL:    params.SessionTTL,
		accessTTL:     params.AccessTTL,
		logger:        params.Logger.With().Str("component", "identity_service").Logger(),
	}
}

// SignUp registers a new email/password principal pending confirmation
func (service *IdentityService) SignUp(ctx context.Context, req inbound.SignUpRequest) (*principal.Principal, error) {
	service.logger.Info().Str("email", req.Email).Str("username", req.Username).Msg("Attempting sign-up")

	// Validate locally before any remote call
	if err := principal.ValidateSignUp(req.Email, req.Password, req.Username); err != nil {
		service.logger.Warn().Err(err).Str("email", req.Email).Msg("Sign-up validation failed")
		return nil, err
	}

	// Duplicate check is a structured lookup, not error-message sniffing
	existing, err := service.principalRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, shared.ErrPrincipalNotFound) {
		service.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to check for existing principal")
		return nil, shared.ErrStoreUnavailable
	}
	if existing != nil {
		service.logger.Warn().Str("email", req.Email).Msg("Email already registered")
		return nil, shared.ErrDuplicateIdentity
	}

	passwordHash, err := service.passwordSvc.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	p := &principal.Principal{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.Username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.principalRepo.Create(ctx, p); err != nil {
		service.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to create principal")
		return nil, shared.ErrStoreUnavailable
	}

	// Confirmation-email dispatch failure does not undo the registration
	body := fmt.Sprintf("Welcome %s, please confirm your email to complete your registration.", p.Username)
	if err := service.notifier.SendEmail(p.Email, "Verify your account", body); err != nil {
		service.logger.Error().Err(err).Str("email", p.Email).Msg("Failed to dispatch confirmation email")
	}

	service.logger.Info().Str("principal_id", p.ID.String()).Msg("Principal created, pending email confirmation")
	return p, nil
}

// ConfirmEmail marks a pending principal's email as verified
func (service *IdentityService) ConfirmEmail(ctx context.Context, principalID uuid.UUID) error {
	p, err := service.principalRepo.GetByID(ctx, principalID)
	if err != nil {
		return err
	}

	if p.EmailConfirmed {
		return nil
	}

	p.ConfirmEmail()
	if err := service.principalRepo.Update(ctx, p); err != nil {
		return err
	}

	service.logger.Info().Str("principal_id", principalID.String()).Msg("Email confirmed")
	return nil
}

// SignIn authenticates by email+password, or starts an OTP challenge when
// the identifier looks like a phone number
func (service *IdentityService) SignIn(ctx context.Context, req inbound.SignInRequest) (*inbound.SignInResult, error) {
	if principal.IsPhoneIdentifier(req.Identifier) {
		if err := principal.ValidatePhone(req.Identifier); err != nil {
			return nil, err
		}
		if err := service.RequestOtp(ctx, req.Identifier); err != nil {
			return nil, err
		}
		service.logger.Info().Str("phone", req.Identifier).Msg("OTP challenge started")
		return &inbound.SignInResult{OtpRequired: true, Phone: req.Identifier}, nil
	}

	p, err := service.principalRepo.GetByEmail(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, shared.ErrPrincipalNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		service.logger.Error().Err(err).Msg("Failed to look up principal")
		return nil, shared.ErrStoreUnavailable
	}

	if !service.passwordSvc.Verify(p.PasswordHash, req.Password) {
		service.logger.Warn().Str("principal_id", p.ID.String()).Msg("Password mismatch")
		return nil, shared.ErrInvalidCredentials
	}

	auth, err := service.startSession(ctx, p)
	if err != nil {
		return nil, err
	}

	return &inbound.SignInResult{Auth: auth}, nil
}

// RequestOtp dispatches (or re-dispatches) a one-time code to a phone
func (service *IdentityService) RequestOtp(ctx context.Context, phone string) error {
	if err := principal.ValidatePhone(phone); err != nil {
		return err
	}
	return service.otp.Generate(ctx, phone)
}

// VerifyOtp completes a phone challenge and issues a session. An unknown
// phone number is provisioned as a new principal on first verification.
func (service *IdentityService) VerifyOtp(ctx context.Context, req inbound.VerifyOtpRequest) (*inbound.AuthResult, error) {
	if err := service.otp.Verify(ctx, req.Phone, req.Code); err != nil {
		return nil, err
	}

	p, err := service.principalRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		if !errors.Is(err, shared.ErrPrincipalNotFound) {
			service.logger.Error().Err(err).Msg("Failed to look up principal by phone")
			return nil, shared.ErrStoreUnavailable
		}
		p, err = service.provisionPhonePrincipal(ctx, req.Phone, req.Username)
		if err != nil {
			return nil, err
		}
	} else if !p.PhoneVerified {
		p.VerifyPhone()
		if err := service.principalRepo.Update(ctx, p); err != nil {
			service.logger.Error().Err(err).Str("principal_id", p.ID.String()).Msg("Failed to persist phone verification")
			return nil, shared.ErrStoreUnavailable
		}
	}

	return service.startSession(ctx, p)
}

// Refresh rotates the access token for a live session
func (service *IdentityService) Refresh(ctx context.Context, refreshToken string) (*inbound.AuthResult, error) {
	claims, err := service.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	sess, err := service.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	p, err := service.principalRepo.GetByID(ctx, sess.PrincipalID)
	if err != nil {
		return nil, err
	}

	accessToken, err := service.tokenSvc.GenerateAccessToken(p.ID.String(), sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	service.publishSessionEvent(ctx, outbound.EventTypeSessionRefreshed, sess)
	service.logger.Info().Str("session_id", sess.ID).Msg("Access token refreshed")

	return &inbound.AuthResult{
		Principal:    p,
		Session:      sess,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(service.accessTTL.Seconds()),
	}, nil
}

// SignOut invalidates a session; idempotent
func (service *IdentityService) SignOut(ctx context.Context, sessionID string) error {
	sess, err := service.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) || errors.Is(err, shared.ErrSessionExpired) {
			// Already signed out
			return nil
		}
		return err
	}

	if err := service.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}

	service.publishSessionEvent(ctx, outbound.EventTypeSessionEnded, sess)
	service.logger.Info().Str("session_id", sessionID).Msg("Signed out")
	return nil
}

// Resolve loads the live session for a session ID
func (service *IdentityService) Resolve(ctx context.Context, sessionID string) (*session.Session, error) {
	return service.sessionRepo.GetByID(ctx, sessionID)
}

func (service *IdentityService) provisionPhonePrincipal(ctx context.Context, phone, username string) (*principal.Principal, error) {
	now := time.Now()
	p := &principal.Principal{
		ID:            uuid.New(),
		Phone:         phone,
		Username:      username,
		PhoneVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.Username == "" {
		p.Username = "user_" + p.ID.String()[:8]
	}
	p.DisplayName = p.Username

	if err := service.principalRepo.Create(ctx, p); err != nil {
		service.logger.Error().Err(err).Str("phone", phone).Msg("Failed to provision phone principal")
		return nil, shared.ErrStoreUnavailable
	}

	service.logger.Info().Str("principal_id", p.ID.String()).Msg("Provisioned principal from phone verification")
	return p, nil
}

func (service *IdentityService) startSession(ctx context.Context, p *principal.Principal) (*inbound.AuthResult, error) {
	now := time.Now()
	sess := &session.Session{
		ID:          fmt.Sprintf("sess_%s_%d", p.ID.String(), now.UnixNano()),
		PrincipalID: p.ID,
		ExpiresAt:   now.Add(service.sessionTTL),
		CreatedAt:   now,
	}

	if err := service.sessionRepo.Create(ctx, sess); err != nil {
		service.logger.Error().Err(err).Str("principal_id", p.ID.String()).Msg("Failed to create session")
		return nil, shared.ErrStoreUnavailable
	}

	accessToken, err := service.tokenSvc.GenerateAccessToken(p.ID.String(), sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := service.tokenSvc.GenerateRefreshToken(p.ID.String(), sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	service.publishSessionEvent(ctx, outbound.EventTypeSessionStarted, sess)
	service.logger.Info().Str("principal_id", p.ID.String()).Str("session_id", sess.ID).Msg("Session started")

	return &inbound.AuthResult{
		Principal:    p,
		Session:      sess,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(service.accessTTL.Seconds()),
	}, nil
}

// publishSessionEvent pushes a session transition to the principal's channel
// so dependents observe it without polling
func (service *IdentityService) publishSessionEvent(ctx context.Context, eventType outbound.EventType, sess *session.Session) {
	if service.broadcaster == nil {
		return
	}

	event := outbound.Event{
		Type:        eventType,
		PrincipalID: sess.PrincipalID,
		Data: map[string]interface{}{
			"session_id": sess.ID,
			"expires_at": sess.ExpiresAt.Unix(),
		},
		Timestamp: time.Now().Unix(),
	}

	if err := service.broadcaster.Publish(ctx, sess.PrincipalID, event); err != nil {
		// Notification failure never fails the identity operation
		service.logger.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to broadcast session event")
	}
}
