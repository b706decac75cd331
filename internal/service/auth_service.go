package service

import (
	"context"
	"time"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	"github.com/xiaoxiao0301/artist-atlas/internal/mail"
	"github.com/xiaoxiao0301/artist-atlas/internal/repository"
	"github.com/xiaoxiao0301/artist-atlas/internal/validation"
	"github.com/xiaoxiao0301/artist-atlas/pkg/crypto"
	apperrors "github.com/xiaoxiao0301/artist-atlas/pkg/errors"
	"github.com/xiaoxiao0301/artist-atlas/pkg/jwt"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
	"github.com/xiaoxiao0301/artist-atlas/pkg/redis"
)

// TokenPair is the result of a completed login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// OTPRateLimiter limits how often a login code may be issued per account.
type OTPRateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

// AuthService implements registration and the two-step OTP login.
type AuthService interface {
	Register(ctx context.Context, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) error
	VerifyLogin(ctx context.Context, email, otp string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	SweepExpiredOTPs(ctx context.Context) (int64, error)
}

// AuthConfig tunes the OTP flow.
type AuthConfig struct {
	OTPExpiry      time.Duration
	OTPResendEvery time.Duration
}

type authService struct {
	users   repository.UserRepository
	hasher  *crypto.PasswordHasher
	tokens  *jwt.Manager
	limiter OTPRateLimiter
	mailer  mail.Sender
	cfg     AuthConfig
	logger  logger.Logger
	now     func() time.Time
}

// NewAuthService creates the auth service.
func NewAuthService(
	users repository.UserRepository,
	hasher *crypto.PasswordHasher,
	tokens *jwt.Manager,
	otpLimiter OTPRateLimiter,
	mailer mail.Sender,
	cfg AuthConfig,
	log logger.Logger,
) AuthService {
	if cfg.OTPExpiry <= 0 {
		cfg.OTPExpiry = domain.OTPExpiration
	}
	if cfg.OTPResendEvery <= 0 {
		cfg.OTPResendEvery = domain.OTPResendInterval
	}
	return &authService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: otpLimiter,
		mailer:  mailer,
		cfg:     cfg,
		logger:  log,
		now:     time.Now,
	}
}

// Register creates an account. Role is optional and defaults to "user";
// only known roles are accepted.
func (s *authService) Register(ctx context.Context, email, password, role string) (*domain.User, error) {
	errs := validation.ValidateCredentials(email, password)
	if role != "" && !domain.ValidRole(role) {
		errs = append(errs, validation.FieldError{Field: "role", Message: "Role must be user or admin"})
	}
	if len(errs) > 0 {
		return nil, apperrors.ErrValidationFailed.WithDetails(errs)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.ErrInternal.WithError(err)
	}

	user := domain.NewUser(email, hash, domain.Role(role))
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Info("user registered",
		logger.String("user_id", user.ID),
		logger.String("email", user.Email),
	)
	return user, nil
}

// Login is step one of the two-step login: after the password checks out,
// a one-time code is stored on the account and mailed to the user. No
// token is issued here.
func (s *authService) Login(ctx context.Context, email, password string) error {
	if errs := validation.ValidateCredentials(email, password); len(errs) > 0 {
		return apperrors.ErrValidationFailed.WithDetails(errs)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsError(err, apperrors.ErrUserNotFound) {
			// Same answer as a wrong password, accounts are not enumerable.
			return apperrors.ErrInvalidCredentials
		}
		return err
	}

	if err := s.hasher.VerifyOrError(password, user.PasswordHash); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	allowed, err := s.limiter.Allow(ctx, redis.OTPRateKey(user.Email), 1, s.cfg.OTPResendEvery)
	if err != nil {
		// A broken limiter must not lock everyone out.
		s.logger.WithContext(ctx).Warn("otp rate limiter unavailable", logger.Err(err))
	} else if !allowed {
		return apperrors.ErrOTPTooFrequent
	}

	code, err := domain.GenerateOTP()
	if err != nil {
		return apperrors.ErrInternal.WithError(err)
	}

	expiresAt := s.now().Add(s.cfg.OTPExpiry)
	if err := s.users.UpdateOTP(ctx, user.ID, &code, &expiresAt); err != nil {
		return err
	}

	minutes := int(s.cfg.OTPExpiry.Minutes())
	if err := s.mailer.Send(ctx, user.Email, mail.OTPSubject, mail.OTPBody(code, minutes)); err != nil {
		return apperrors.ErrMailError.WithError(err)
	}

	s.logger.WithContext(ctx).Info("otp issued", logger.String("user_id", user.ID))
	return nil
}

// VerifyLogin is step two: the mailed code is checked and, on success,
// consumed and exchanged for a token pair.
func (s *authService) VerifyLogin(ctx context.Context, email, otp string) (*TokenPair, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsError(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrOTPNotFound
		}
		return nil, nil, err
	}

	switch user.OTPStatus(s.now()) {
	case domain.OTPAbsent:
		return nil, nil, apperrors.ErrOTPNotFound
	case domain.OTPExpired:
		if err := s.users.UpdateOTP(ctx, user.ID, nil, nil); err != nil {
			return nil, nil, err
		}
		return nil, nil, apperrors.ErrOTPExpired
	}

	if !user.MatchesOTP(otp) {
		return nil, nil, apperrors.ErrOTPInvalid
	}

	// The code is single-use: consume it before handing out tokens.
	if err := s.users.UpdateOTP(ctx, user.ID, nil, nil); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithContext(ctx).Info("login verified", logger.String("user_id", user.ID))
	return pair, user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// Re-read the account so a deleted user or a changed role cannot
	// keep minting tokens from an old refresh token.
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsError(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// SweepExpiredOTPs clears every expired login code. Run on a schedule.
func (s *authService) SweepExpiredOTPs(ctx context.Context) (int64, error) {
	n, err := s.users.ClearExpiredOTPs(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired otps swept", logger.Int64("count", n))
	}
	return n, nil
}

func (s *authService) issueTokens(user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.ErrInternal.WithError(err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.ErrInternal.WithError(err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.GetExpiryTime().Seconds()),
	}, nil
}
