package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/anonto42/nano-social/backend/pkg/sanitize"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	usernameAttempts  = 10
)

// IdentityVerifier verifies third-party ID tokens (Firebase)
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebase.IdentityToken, error)
}

// AuthService registers accounts and issues tokens
type AuthService struct {
	users    repositories.UserRepository
	tokens   *TokenManager
	identity IdentityVerifier
}

// NewAuthService creates an AuthService. identity may be nil when federated
// login is not configured.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenManager, identity IdentityVerifier) *AuthService {
	return &AuthService{users: userRepo, tokens: tokens, identity: identity}
}

// Register creates an email/password account and signs the user in
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, models.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, models.TokenPair{}, fmt.Errorf("email already registered: %w", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, models.TokenPair{}, err
	}

	var username string
	if req.Username != "" {
		username = strings.ToLower(req.Username)
		taken, err := s.users.UsernameExists(ctx, username)
		if err != nil {
			return nil, models.TokenPair{}, err
		}
		if taken {
			return nil, models.TokenPair{}, fmt.Errorf("username already taken: %w", models.ErrConflict)
		}
	} else {
		var err error
		username, err = s.generateUsername(ctx, req.FirstName+" "+req.LastName, email)
		if err != nil {
			return nil, models.TokenPair{}, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		FirstName: sanitize.Text(req.FirstName),
		LastName:  sanitize.Text(req.LastName),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, models.TokenPair{}, err
	}
	return s.signIn(ctx, user)
}

// Login verifies email and password
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, models.TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.TokenPair{}, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}
	if err != nil {
		return nil, models.TokenPair{}, err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, models.TokenPair{}, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}
	return s.signIn(ctx, user)
}

// Refresh rotates the token pair. Only the most recently issued refresh token
// is accepted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, models.TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, models.TokenPair{}, err
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.TokenPair{}, fmt.Errorf("unknown user: %w", models.ErrUnauthorized)
	}
	if err != nil {
		return nil, models.TokenPair{}, err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, models.TokenPair{}, fmt.Errorf("refresh token revoked: %w", models.ErrUnauthorized)
	}
	return s.signIn(ctx, user)
}

// Logout revokes the stored refresh token
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.users.SetRefreshToken(ctx, userID, "")
}

// FirebaseLogin signs in with a Firebase ID token, linking by email or
// creating the account on first use.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*models.User, models.TokenPair, error) {
	if s.identity == nil {
		return nil, models.TokenPair{}, fmt.Errorf("firebase login not configured: %w", models.ErrUnavailable)
	}
	identity, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, models.TokenPair{}, fmt.Errorf("verify id token: %w: %v", models.ErrUnauthorized, err)
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, identity.UID)
	if err == nil {
		return s.signIn(ctx, user)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, models.TokenPair{}, err
	}

	uid := identity.UID
	email := strings.ToLower(identity.Email)
	if email != "" {
		existing, err := s.users.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			existing.FirebaseUID = &uid
			if err := s.users.UpdateUser(ctx, existing); err != nil {
				return nil, models.TokenPair{}, err
			}
			return s.signIn(ctx, existing)
		case !errors.Is(err, models.ErrNotFound):
			return nil, models.TokenPair{}, err
		}
	} else {
		email = uid + "@firebase.local"
	}

	first, last, _ := strings.Cut(strings.TrimSpace(identity.Name), " ")
	username, err := s.generateUsername(ctx, identity.Name, email)
	if err != nil {
		return nil, models.TokenPair{}, err
	}
	user = &models.User{
		Username:    username,
		Email:       email,
		FirstName:   sanitize.Text(first),
		LastName:    sanitize.Text(last),
		Avatar:      identity.Picture,
		FirebaseUID: &uid,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, models.TokenPair{}, err
	}
	return s.signIn(ctx, user)
}

func (s *AuthService) signIn(ctx context.Context, user *models.User) (*models.User, models.TokenPair, error) {
	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, models.TokenPair{}, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, models.TokenPair{}, err
	}
	user.RefreshToken = pair.RefreshToken
	return user, pair, nil
}

// generateUsername slugs name (or the email's local part) into a handle and
// appends a random suffix until it is free.
func (s *AuthService) generateUsername(ctx context.Context, name, email string) (string, error) {
	base := usernameBase(name)
	if len(base) < minUsernameLength {
		local, _, _ := strings.Cut(email, "@")
		base = usernameBase(local)
	}
	if len(base) < minUsernameLength {
		base = "user"
	}

	candidate := base
	for i := 0; i < usernameAttempts; i++ {
		taken, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		suffix := fmt.Sprintf("_%d", rand.IntN(10000))
		if len(base)+len(suffix) > maxUsernameLength {
			base = base[:maxUsernameLength-len(suffix)]
		}
		candidate = base + suffix
	}
	return "", fmt.Errorf("could not generate a free username: %w", models.ErrConflict)
}

func usernameBase(name string) string {
	base := strings.ReplaceAll(slug.Make(name), "-", "_")
	if len(base) > maxUsernameLength {
		base = base[:maxUsernameLength]
	}
	return base
}
