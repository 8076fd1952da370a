// Package service contains the account business logic: registration,
// authentication, role management, the password-reset lifecycle and the
// follow graph.  Handlers stay thin and delegate here; persistence goes
// through the repository interfaces so the backend can be swapped by
// configuration.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/soundhaven/account-service/internal/config"
	"github.com/soundhaven/account-service/internal/model"
	"github.com/soundhaven/account-service/internal/repository"
	"github.com/soundhaven/account-service/internal/utils"
)

// ErrInvalidCredentials is returned on login when either the email is
// unknown or the password does not match.  The two cases are deliberately
// indistinguishable so the endpoint cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidRole is returned when a role outside the accepted set is
// requested.
var ErrInvalidRole = errors.New("invalid role")

// ErrResetTokenInvalid is returned when a password-reset secret does not
// match any pending reset or has expired.  Expired and wrong secrets
// yield the same error.
var ErrResetTokenInvalid = errors.New("reset token is invalid or has expired")

// ErrSelfFollow is returned when a user attempts to follow themselves.
var ErrSelfFollow = errors.New("cannot follow yourself")

// TokenPair bundles a short-lived access token and a long-lived refresh
// token, signed with independent secrets.
type TokenPair struct {
	Access  utils.SignedToken
	Refresh utils.SignedToken
}

// ResetNotifier delivers a password-reset secret to a user's address.
// The AMQP implementation hands the message to the mail worker; tests
// substitute an in-memory fake.
type ResetNotifier interface {
	SendResetEmail(ctx context.Context, email, token, name string) error
}

// AccountService orchestrates the credential hasher, the token issuer and
// the repositories.
type AccountService struct {
	Users    repository.UserStore
	Follows  repository.FollowStore
	Notifier ResetNotifier
	Cfg      config.Config
}

// NewAccountService wires the service with its collaborators.
func NewAccountService(users repository.UserStore, follows repository.FollowStore, notifier ResetNotifier, cfg config.Config) *AccountService {
	return &AccountService{Users: users, Follows: follows, Notifier: notifier, Cfg: cfg}
}

// Register creates a new account and returns it together with a fresh
// token pair.  The role defaults to "user" when empty; an unknown role is
// rejected.  The email is trimmed and lowercased first, so registrations
// differing only in case collapse to one account and the second one
// yields repository.ErrEmailExists.
func (s *AccountService) Register(ctx context.Context, email, fullName, password, avatarURL, role string) (model.User, TokenPair, error) {
	email = normalizeEmail(email)
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return model.User{}, TokenPair{}, ErrInvalidRole
	}

	hash, err := utils.HashPassword(password, s.Cfg.BcryptCost)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	avatar := sql.NullString{String: avatarURL, Valid: avatarURL != ""}
	id, err := s.Users.Create(ctx, email, fullName, avatar, hash, role)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}

	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	pair, err := s.issueTokens(u.ID, u.Role)
	return u, pair, err
}

// Authenticate verifies a credential pair and issues new tokens.  Unknown
// email and wrong password both return ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (model.User, TokenPair, error) {
	u, err := s.Users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return model.User{}, TokenPair{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issueTokens(u.ID, u.Role)
	return u, pair, err
}

// RefreshAccess exchanges a valid refresh token for a new access token.
func (s *AccountService) RefreshAccess(refreshToken string) (utils.SignedToken, error) {
	return utils.RefreshAccess(refreshToken, s.Cfg.JWTRefreshSecret, s.Cfg.JWTSecret, s.Cfg.AccessTTL)
}

// Profile returns the account record for the given id.
func (s *AccountService) Profile(ctx context.Context, userID uint64) (model.User, error) {
	return s.Users.FindByID(ctx, userID)
}

// ListUsers returns every account.  Password hashes stay inside the
// returned structs; handlers must project to response types.
func (s *AccountService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.Users.FindAll(ctx)
}

// UpdateRole assigns a new role to the user with the given email,
// preserving the other mutable fields.
func (s *AccountService) UpdateRole(ctx context.Context, email, role string) (model.User, error) {
	if !model.ValidRole(role) {
		return model.User{}, ErrInvalidRole
	}
	u, err := s.Users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return model.User{}, err
	}
	if err := s.Users.Update(ctx, u.ID, u.FullName, u.AvatarURL, role); err != nil {
		return model.User{}, err
	}
	u.Role = role
	return u, nil
}

// RequestPasswordReset starts the reset flow for the given email.  When
// the email is unknown the call succeeds without creating a token so the
// HTTP layer can answer identically in both cases.  The plaintext secret
// is handed to the notifier and never persisted.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// No account: nothing to do, and nothing to reveal.
			return nil
		}
		return err
	}

	secret, err := utils.NewResetSecret()
	if err != nil {
		return err
	}
	expires := time.Now().UTC().Add(s.Cfg.ResetTTL)
	if err := s.Users.SetResetToken(ctx, u.ID, utils.HashResetSecret(secret), expires); err != nil {
		return err
	}

	if err := s.Notifier.SendResetEmail(ctx, u.Email, secret, u.FullName); err != nil {
		// Delivery problems must not leak account existence to the caller.
		log.Printf("account: reset notification for user %d failed: %v", u.ID, err)
	}
	return nil
}

// ConfirmPasswordReset consumes a reset secret and installs the new
// password.  The secret is matched by hash against unexpired pending
// resets only; a used, expired or unknown secret yields
// ErrResetTokenInvalid.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, secret, newPassword string) error {
	u, err := s.Users.FindByResetToken(ctx, utils.HashResetSecret(secret), time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hash, err := utils.HashPassword(newPassword, s.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	// One statement writes the new hash and clears the reset columns, so
	// the secret cannot be replayed.
	return s.Users.ResetPassword(ctx, u.ID, hash)
}

// Follow adds followerID to targetID's followers.  Both users must
// exist, self-follows are rejected, and re-following is a no-op.
func (s *AccountService) Follow(ctx context.Context, targetID, followerID uint64) error {
	if targetID == followerID {
		return ErrSelfFollow
	}
	if err := s.requireUsers(ctx, targetID, followerID); err != nil {
		return err
	}
	return s.Follows.Follow(ctx, followerID, targetID)
}

// Unfollow removes the edge between follower and target from both
// directions.  Removing an absent edge is a no-op.
func (s *AccountService) Unfollow(ctx context.Context, targetID, followerID uint64) error {
	if err := s.requireUsers(ctx, targetID, followerID); err != nil {
		return err
	}
	return s.Follows.Unfollow(ctx, followerID, targetID)
}

// ListFollowers returns the public projection of the users following
// userID.
func (s *AccountService) ListFollowers(ctx context.Context, userID uint64) ([]model.PublicUser, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	followers, err := s.Follows.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicUser, 0, len(followers))
	for _, f := range followers {
		out = append(out, f.Public())
	}
	return out, nil
}

// ListFollowing returns the public projection of the users that userID
// follows.
func (s *AccountService) ListFollowing(ctx context.Context, userID uint64) ([]model.PublicUser, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	following, err := s.Follows.Following(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicUser, 0, len(following))
	for _, f := range following {
		out = append(out, f.Public())
	}
	return out, nil
}

// FollowersCount returns how many users follow userID.
func (s *AccountService) FollowersCount(ctx context.Context, userID uint64) (int, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return 0, err
	}
	return s.Follows.CountFollowers(ctx, userID)
}

func (s *AccountService) issueTokens(userID uint64, role string) (TokenPair, error) {
	claims := utils.Claims{UserID: userID, Role: role}
	access, err := utils.NewAccessToken(s.Cfg.JWTSecret, claims, s.Cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(s.Cfg.JWTRefreshSecret, claims, s.Cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// normalizeEmail applies the canonical address form used everywhere an
// email is stored or looked up: trimmed and lowercased.  Addresses that
// differ only in case therefore name the same account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) requireUsers(ctx context.Context, ids ...uint64) error {
	for _, id := range ids {
		if _, err := s.Users.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
