package tests

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/app/services"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestTokenService(t *testing.T) services.TokenService {
	t.Helper()
	tokenService, err := services.NewTokenService(
		utils.AccessTokenTTL,
		utils.RefreshTokenTTL,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)
	return tokenService
}

func testMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("127.0.0.1", "test-agent")
}

func TestSignupFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		userRepo := repository.NewUserRepository(testDB.DB)
		signupFlow := businessflow.NewSignupFlow(userRepo, bcrypt.MinCost, testDB.DB)

		t.Run("SuccessfulSignup", func(t *testing.T) {
			req := &dto.SignupRequest{
				Email:    "alice@example.com",
				Password: "SecurePass123!",
			}

			result, err := signupFlow.Signup(context.Background(), req, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, "alice@example.com", result.User.Email)
			assert.NotZero(t, result.User.ID)
			assert.NotEmpty(t, result.User.UUID)
			assert.True(t, utils.IsTrue(result.User.IsActive))

			// Verify stored user was hashed, not stored in plaintext
			user, err := userRepo.ByEmailWithHash(context.Background(), "alice@example.com")
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.NotEqual(t, "SecurePass123!", user.PasswordHash)
			assert.NotEmpty(t, user.PasswordHash)
		})

		t.Run("EmailNormalizedToLowercase", func(t *testing.T) {
			req := &dto.SignupRequest{
				Email:    "  Bob@Example.COM ",
				Password: "SecurePass123!",
			}

			result, err := signupFlow.Signup(context.Background(), req, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "bob@example.com", result.User.Email)
		})

		t.Run("DuplicateEmailConflict", func(t *testing.T) {
			req := &dto.SignupRequest{
				Email:    "carol@example.com",
				Password: "SecurePass123!",
			}

			_, err := signupFlow.Signup(context.Background(), req, testMetadata())
			require.NoError(t, err)

			// Same email again, even with a different password
			req.Password = "OtherPass456!"
			result, err := signupFlow.Signup(context.Background(), req, testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		return nil
	})
	require.NoError(t, err)
}

// Signup followed by login with the exact same credentials must always
// succeed, regardless of how the caller cased the email.
func TestSignupThenLoginRoundTrip(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		userRepo := repository.NewUserRepository(testDB.DB)
		signupFlow := businessflow.NewSignupFlow(userRepo, bcrypt.MinCost, testDB.DB)
		loginFlow := businessflow.NewLoginFlow(userRepo, newTestTokenService(t), testDB.DB)

		const email = "Dave@Example.COM"
		const password = "SecurePass123!"

		_, err := signupFlow.Signup(context.Background(), &dto.SignupRequest{
			Email:    email,
			Password: password,
		}, testMetadata())
		require.NoError(t, err)

		// Login with the identical mixed-case email the user signed up with
		result, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
			Email:    email,
			Password: password,
		}, testMetadata())
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "dave@example.com", result.User.Email)
		assert.NotEmpty(t, result.AccessToken)

		return nil
	})
	require.NoError(t, err)
}

func TestLoginFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		userRepo := repository.NewUserRepository(testDB.DB)
		tokenService := newTestTokenService(t)
		loginFlow := businessflow.NewLoginFlow(userRepo, tokenService, testDB.DB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("SuccessfulLogin", func(t *testing.T) {
			req := &dto.LoginRequest{
				Email:    user.Email,
				Password: testingutil.TestPassword,
			}

			result, err := loginFlow.Login(context.Background(), req, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
			assert.Equal(t, "Bearer", result.TokenType)
			assert.Equal(t, int(utils.AccessTokenTTL.Seconds()), result.ExpiresIn)
			assert.Equal(t, user.Email, result.User.Email)

			// Token claims carry the user identity
			claims, err := tokenService.ValidateToken(result.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, user.Email, claims.Email)
			assert.Equal(t, "access", claims.TokenType)
			assert.WithinDuration(t, time.Now().Add(utils.AccessTokenTTL), claims.ExpiresAt, 5*time.Second)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			req := &dto.LoginRequest{
				Email:    user.Email,
				Password: "WrongPass123!",
			}

			result, err := loginFlow.Login(context.Background(), req, testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidCredentials(err))
		})

		t.Run("UnknownEmail", func(t *testing.T) {
			req := &dto.LoginRequest{
				Email:    "nobody@example.com",
				Password: testingutil.TestPassword,
			}

			result, err := loginFlow.Login(context.Background(), req, testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)

			// Unknown email and wrong password are the same error
			assert.True(t, businessflow.IsInvalidCredentials(err))
		})

		t.Run("InactiveAccount", func(t *testing.T) {
			inactive, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(inactive).Update("is_active", false).Error)

			req := &dto.LoginRequest{
				Email:    inactive.Email,
				Password: testingutil.TestPassword,
			}

			result, err := loginFlow.Login(context.Background(), req, testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}
