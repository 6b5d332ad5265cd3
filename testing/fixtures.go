// Package testing provides test utilities and database setup for testing the URL shortener
package testing

import (
	"fmt"
	"math/rand"

	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// TestPassword is the plaintext password used by CreateTestUser
const TestPassword = "TestPass123!"

// CreateTestUser creates an active user with a random email and a known password
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	user := &models.User{
		UUID:         uuid.New(),
		Email:        fmt.Sprintf("user.%s@example.com", randomDigits),
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}

	err = tf.DB.DB.Create(user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestShortLink creates a short link row. Pass a nil ownerID for an
// ownerless link.
func (tf *TestFixtures) CreateTestShortLink(ownerID *uint, originalURL string) (*models.ShortLink, error) {
	code, err := randomCode()
	if err != nil {
		return nil, err
	}

	link := &models.ShortLink{
		ShortCode:   code,
		OriginalURL: originalURL,
		OwnerUserID: ownerID,
	}

	err = tf.DB.DB.Create(link).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test short link: %w", err)
	}

	return link, nil
}

func randomCode() (string, error) {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, utils.ShortCodeLength)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b), nil
}
