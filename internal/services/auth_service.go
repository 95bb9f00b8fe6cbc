package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"bookrental/internal/models"
	"bookrental/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Session is the identity resolved from a bearer token.
type Session struct {
	UserID uint
	Token  string
}

// Registration is the result of a successful sign-up.
type Registration struct {
	UserID uint
	Token  string
}

// AuthService handles registration, login, logout and token verification.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // 0 issues tokens without expiry
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the bcrypt cost. Values outside bcrypt's range
// are clamped.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	s.bcryptCost = cost
	return s
}

// Register creates a user and its first session token in one transaction:
// either both rows exist afterwards or neither does.
func (s *AuthService) Register(cmd RegisterCommand) (*Registration, error) {
	var result Registration

	err := s.userRepo.WithTx(func(repo repositories.UserRepository) error {
		hashed, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.bcryptCost)
		if err != nil {
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				return invalid("passwd", "password must be at most 72 bytes")
			}
			return persistenceError("failed to hash password", err)
		}

		user := &models.User{
			Email:        cmd.Email,
			PasswordHash: string(hashed),
			Age:          cmd.Age,
		}
		if err := repo.Create(user); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return newError(ErrDuplicateEmail, "email already exists", err)
			}
			return persistenceError("failed to save user", err)
		}

		token, err := s.issueToken(user.ID)
		if err != nil {
			return err
		}
		if err := repo.CreateToken(&models.UserToken{UserID: user.ID, Token: token}); err != nil {
			return persistenceError("failed to save token", err)
		}

		result = Registration{UserID: user.ID, Token: token}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("User joined - user_id: %d, email: %s", result.UserID, cmd.Email)
	return &result, nil
}

// Login verifies the credentials and issues an additional session token.
// Tokens issued earlier remain valid.
func (s *AuthService) Login(cmd LoginCommand) (string, error) {
	user, err := s.userRepo.GetByEmail(cmd.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return "", newError(ErrNotFound, "email is not registered", err)
		}
		return "", persistenceError("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return "", newError(ErrAuthentication, "password does not match", nil)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.CreateToken(&models.UserToken{UserID: user.ID, Token: token}); err != nil {
		return "", persistenceError("failed to save token", err)
	}

	log.Printf("User login - user_id: %d, email: %s", user.ID, user.Email)
	return token, nil
}

// Logout deletes exactly one session.
func (s *AuthService) Logout(session Session) error {
	if session.UserID == 0 {
		return newError(ErrUnauthorized, "user identity is required", nil)
	}
	if err := s.userRepo.DeleteToken(session.UserID, session.Token); err != nil {
		return persistenceError("logout failed", err)
	}
	log.Printf("User logout - user_id: %d", session.UserID)
	return nil
}

// Authenticate resolves a bearer token into a session. The token must be
// correctly signed and still stored server-side.
func (s *AuthService) Authenticate(tokenString string) (*Session, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, newError(ErrAuthentication, "invalid or expired token", err)
	}

	userID, err := userIDFromClaims(claims)
	if err != nil {
		return nil, newError(ErrAuthentication, "invalid token claims", err)
	}

	ok, err := s.userRepo.TokenExists(userID, tokenString)
	if err != nil {
		return nil, persistenceError("failed to verify session", err)
	}
	if !ok {
		return nil, newError(ErrAuthentication, "session has ended", nil)
	}
	return &Session{UserID: userID, Token: tokenString}, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// issueToken signs a token bound to userID. The jti keeps tokens issued to
// the same user within one second distinct.
func (s *AuthService) issueToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
	}
	if s.tokenDurat > 0 {
		claims["exp"] = now.Add(s.tokenDurat).Unix()
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

func userIDFromClaims(claims jwt.MapClaims) (uint, error) {
	raw, ok := claims["user_id"]
	if !ok {
		return 0, errors.New("user_id claim missing")
	}
	// Numeric claims decode as float64.
	id, ok := raw.(float64)
	if !ok || id < 1 || id != float64(uint(id)) {
		return 0, fmt.Errorf("user_id claim %v is not a valid id", raw)
	}
	return uint(id), nil
}
