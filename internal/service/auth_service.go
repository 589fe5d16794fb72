package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-society-manager/internal/event"
	"go-society-manager/internal/model"
	"go-society-manager/internal/pagination"
	"go-society-manager/pkg/apierror"
)

const (
	bcryptCost       = 12
	maxLoginFailures = 5
	lockoutDuration  = 15 * time.Minute
	minPasswordLen   = 8
)

type AuthService struct {
	users      UserStore
	tokens     TokenStore
	residents  ResidentStore
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	bus        event.Bus
	now        func() time.Time
	cost       int
}

func NewAuthService(users UserStore, tokens TokenStore, residents ResidentStore, jwtSecret string, accessTTL time.Duration, refreshTTL time.Duration, bus event.Bus) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		residents:  residents,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		bus:        bus,
		now:        func() time.Time { return time.Now().UTC() },
		cost:       bcryptCost,
	}
}

func unauthorized(message string) error {
	return apierror.New("UNAUTHORIZED", message, "", http.StatusUnauthorized)
}

// EnsureDefaultAdmin creates the bootstrap admin account when it is missing.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username string, password string) error {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	now := s.now()
	if err := s.users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return err
	}

	slog.Warn("default admin account created; change its password", "username", username)
	return nil
}

func (s *AuthService) Login(ctx context.Context, username string, password string, ip string) (model.TokenPair, error) {
	actor := model.AuditActor{Username: strings.TrimSpace(username), IP: ip}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if apierror.StatusOf(err) == http.StatusNotFound {
			s.publishFailure(actor, "unknown user")
			return model.TokenPair{}, unauthorized("invalid credentials")
		}
		return model.TokenPair{}, err
	}
	actor.UserID = user.ID
	actor.Role = user.Role

	if user.LockedUntil != nil && user.LockedUntil.After(s.now()) {
		s.publishFailure(actor, "account locked")
		return model.TokenPair{}, apierror.New("ACCOUNT_LOCKED", "account temporarily locked", user.LockedUntil.Format(time.RFC3339), http.StatusTooManyRequests)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if incErr := s.users.IncrementFailedAttempts(ctx, user.ID); incErr != nil {
			return model.TokenPair{}, incErr
		}
		if user.FailedLoginAttempts+1 >= maxLoginFailures {
			if lockErr := s.users.LockAccount(ctx, user.ID, s.now().Add(lockoutDuration)); lockErr != nil {
				return model.TokenPair{}, lockErr
			}
		}
		s.publishFailure(actor, "bad password")
		return model.TokenPair{}, unauthorized("invalid credentials")
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.users.ResetFailedAttempts(ctx, user.ID); err != nil {
			return model.TokenPair{}, err
		}
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return model.TokenPair{}, err
	}

	publish(s.bus, event.TypeUserLoggedIn, actor, resourceKey("user", user.ID), nil, nil)
	return pair, nil
}

// Register creates a login. A resident role account may be linked to the
// resident record whose bills it should see.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, actor model.AuditActor) (model.AuthUser, error) {
	username, err := requireText(req.Username, "username")
	if err != nil {
		return model.AuthUser{}, err
	}
	if len(req.Password) < minPasswordLen {
		return model.AuthUser{}, apierror.BadRequest(fmt.Sprintf("password must be at least %d characters", minPasswordLen), "password")
	}
	role, err := oneOf(req.Role, model.RoleResident, "role", model.RoleAdmin, model.RoleResident)
	if err != nil {
		return model.AuthUser{}, err
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return model.AuthUser{}, err
	}
	if exists {
		return model.AuthUser{}, apierror.New("ALREADY_EXISTS", "username already exists", username, http.StatusConflict)
	}

	residentID := trim(req.ResidentID)
	if residentID != "" {
		if _, err := s.residents.FindByID(ctx, residentID); err != nil {
			return model.AuthUser{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return model.AuthUser{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthUser{}, err
	}
	if residentID != "" {
		if err := s.residents.LinkUser(ctx, residentID, user.ID); err != nil {
			return model.AuthUser{}, err
		}
	}

	authUser := toAuthUser(user)
	publish(s.bus, event.TypeUserRegistered, actor, resourceKey("user", user.ID), nil, authUser)
	return authUser, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return model.TokenPair{}, err
	}

	ownerID, err := s.tokens.Validate(ctx, refreshToken)
	if errors.Is(err, model.ErrTokenNotFound) || (err == nil && ownerID != claims.UserID) {
		return model.TokenPair{}, unauthorized("refresh token is invalid")
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if apierror.StatusOf(err) == http.StatusNotFound {
			return model.TokenPair{}, unauthorized("user not found")
		}
		return model.TokenPair{}, err
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, unauthorized("invalid token signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, unauthorized("invalid token")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, unauthorized("invalid token claims")
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, unauthorized("invalid token type")
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Username, _ = claimsMap["username"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, unauthorized("invalid token subject")
	}

	return claims, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AuthUser{}, err
	}
	return toAuthUser(user), nil
}

func (s *AuthService) ListUsers(ctx context.Context, req pagination.Request, filters pagination.Filters) (pagination.Page[model.AuthUser], error) {
	page, err := s.users.List(ctx, req.Normalize(), filters)
	if err != nil {
		return pagination.Page[model.AuthUser]{}, err
	}

	users := make([]model.AuthUser, 0, len(page.Data))
	for _, user := range page.Data {
		users = append(users, toAuthUser(user))
	}
	return pagination.Page[model.AuthUser]{Data: users, Pagination: page.Pagination}, nil
}

func (s *AuthService) CleanExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.CleanExpired(ctx)
}

func (s *AuthService) issueTokenPair(ctx context.Context, user model.User) (model.TokenPair, error) {
	now := s.now()

	accessToken, err := s.signToken(jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"typ":      "access",
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.accessTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshExpiry := now.Add(s.refreshTTL)
	refreshToken, err := s.signToken(jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"typ":      "refresh",
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      refreshExpiry.Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.tokens.Store(ctx, refreshToken, user.ID, refreshExpiry); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         toAuthUser(user),
	}, nil
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) publishFailure(actor model.AuditActor, reason string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		Type:     event.TypeUserLoginFailed,
		Resource: resourceKey("user", actor.Username),
		Failed:   reason,
		Actor: event.Actor{
			UserID:   actor.UserID,
			Username: actor.Username,
			Role:     actor.Role,
			IP:       actor.IP,
		},
	})
}

func toAuthUser(user model.User) model.AuthUser {
	return model.AuthUser{ID: user.ID, Username: user.Username, Role: user.Role}
}
