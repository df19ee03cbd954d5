package services

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"translinka-backend/internal/domain"
	"translinka-backend/internal/utils"
)

// UserStore persists and loads user accounts.
type UserStore interface {
	Insert(u domain.User, passwordHash string) error
	GetByEmail(email string) (domain.User, string, error)
}

// AuthService is the identity provider: it issues and validates the
// JWTs the booking API trusts for currentUserId.
type AuthService struct {
	store  UserStore
	secret []byte
	ttl    time.Duration
}

func NewAuthService(store UserStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{store: store, secret: []byte(secret), ttl: ttl}
}

// Register creates an account and returns the user with a fresh token.
func (s *AuthService) Register(name, email, phone, password string) (domain.User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, "", domain.ValidationError{Field: "name", Msg: "required"}
	}
	if !utils.ValidEmail(email) {
		return domain.User{}, "", domain.ValidationError{Field: "email", Msg: "invalid email address"}
	}
	if phone != "" && !utils.ValidPhone(phone) {
		return domain.User{}, "", domain.ValidationError{Field: "phone", Msg: "invalid phone number"}
	}
	if len(password) < 8 {
		return domain.User{}, "", domain.ValidationError{Field: "password", Msg: "minimum 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", domain.InternalError{Msg: "hash password", Err: err}
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Phone:     strings.TrimSpace(phone),
		Role:      domain.RoleUser,
		CreatedAt: time.Now(),
	}
	if err := s.store.Insert(user, string(hash)); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.sign(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(email, password string) (domain.User, string, error) {
	user, hash, err := s.store.GetByEmail(email)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.User{}, "", domain.ValidationError{Field: "credentials", Msg: "email or password incorrect"}
		}
		return domain.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return domain.User{}, "", domain.ValidationError{Field: "credentials", Msg: "email or password incorrect"}
	}

	token, err := s.sign(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// ParseToken validates a JWT and returns the user id and role.
func (s *AuthService) ParseToken(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", domain.ValidationError{Field: "token", Msg: "invalid or expired token", Err: err}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", domain.ValidationError{Field: "token", Msg: "invalid claims"}
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return "", "", domain.ValidationError{Field: "token", Msg: "missing subject"}
	}
	return userID, role, nil
}

func (s *AuthService) sign(user domain.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", domain.InternalError{Msg: "sign token", Err: err}
	}
	return signed, nil
}

// MemoryUserStore keeps accounts in memory. Used when the service runs
// without MySQL, and as the test double.
type MemoryUserStore struct {
	mu     sync.Mutex
	byMail map[string]memoryUser
}

type memoryUser struct {
	user domain.User
	hash string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byMail: make(map[string]memoryUser)}
}

func (m *MemoryUserStore) Insert(u domain.User, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(u.Email))
	if _, exists := m.byMail[key]; exists {
		return domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}
	m.byMail[key] = memoryUser{user: u, hash: passwordHash}
	return nil
}

func (m *MemoryUserStore) GetByEmail(email string) (domain.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byMail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domain.User{}, "", domain.NotFoundError{Resource: "user"}
	}
	return rec.user, rec.hash, nil
}
