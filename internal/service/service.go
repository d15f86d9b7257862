package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/bmukendi/coopec-service/internal/config"
	"github.com/bmukendi/coopec-service/internal/models"
	"github.com/bmukendi/coopec-service/internal/repository"
	"github.com/bmukendi/coopec-service/internal/utils"
)

// Service handles the cooperative's ledger business logic
type Service struct {
	repo   *repository.Repository
	log    *logrus.Logger
	config *config.Config
	events chan models.LedgerEvent
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		log:    log,
		config: cfg,
		events: make(chan models.LedgerEvent, 64),
	}
}

// Events exposes lifecycle events for an external notifier. The ledger
// never sends email itself; it only announces committed state changes.
func (s *Service) Events() <-chan models.LedgerEvent {
	return s.events
}

// Close releases the event stream.
func (s *Service) Close() {
	close(s.events)
}

// emit publishes an event without ever blocking a ledger transaction's
// caller; if the notifier lags behind the event is dropped and logged.
func (s *Service) emit(ev models.LedgerEvent) {
	ev.Receipt = uuid.NewString()
	// The short reference is what goes out to borrowers; the receipt
	// stays internal.
	ref, err := utils.GenerateReference("OP", 12)
	if err != nil {
		ref = ev.Receipt
	}
	ev.Reference = ref
	ev.OccurredAt = time.Now()
	select {
	case s.events <- ev:
	default:
		s.log.Warnf("Event queue full, dropped %s for credit %d", ev.Type, ev.Credit.ID)
	}
}

// borrowerContact resolves the notification target of a credit's borrower.
func (s *Service) borrowerContact(c *models.Credit) *repository.BorrowerContact {
	var contact *repository.BorrowerContact
	var err error
	switch {
	case c.MemberID != nil:
		contact, err = s.repo.FindMemberContact(*c.MemberID)
	case c.ClientID != nil:
		contact, err = s.repo.FindClientContact(*c.ClientID)
	default:
		return &repository.BorrowerContact{}
	}
	if err != nil {
		s.log.Warnf("Failed to resolve borrower contact for credit %d: %v", c.ID, err)
		return &repository.BorrowerContact{}
	}
	return contact
}

// Register creates a new operator account with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Role:         "AGENT",
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates an operator and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}
