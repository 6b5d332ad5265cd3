package tests

import (
	"context"
	"testing"

	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		userRepo := repository.NewUserRepository(testDB.DB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("ByEmailOmitsPasswordHash", func(t *testing.T) {
			found, err := userRepo.ByEmail(context.Background(), user.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)
			assert.Equal(t, user.Email, found.Email)
			assert.Empty(t, found.PasswordHash)
		})

		t.Run("ByEmailWithHashLoadsFullRow", func(t *testing.T) {
			found, err := userRepo.ByEmailWithHash(context.Background(), user.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.NotEmpty(t, found.PasswordHash)
		})

		t.Run("ByEmailUnknownReturnsNil", func(t *testing.T) {
			found, err := userRepo.ByEmail(context.Background(), "ghost@example.com")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByUUID", func(t *testing.T) {
			found, err := userRepo.ByUUID(context.Background(), user.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)
		})

		t.Run("DuplicateEmailIsUniqueViolation", func(t *testing.T) {
			dup := &models.User{
				UUID:         user.UUID,
				Email:        user.Email,
				PasswordHash: "irrelevant",
			}
			err := userRepo.Save(context.Background(), dup)
			require.Error(t, err)
			assert.True(t, repository.IsUniqueViolation(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestShortLinkRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkRepo := repository.NewShortLinkRepository(testDB.DB)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("IncrementClicks", func(t *testing.T) {
			link, err := fixtures.CreateTestShortLink(nil, "https://example.com/counted")
			require.NoError(t, err)

			affected, err := shortLinkRepo.IncrementClicks(context.Background(), link.ShortCode)
			require.NoError(t, err)
			assert.Equal(t, int64(1), affected)

			row, err := shortLinkRepo.ByCode(context.Background(), link.ShortCode)
			require.NoError(t, err)
			assert.Equal(t, uint64(1), row.ClickCount)
		})

		t.Run("IncrementClicksOnDeletedRowAffectsNothing", func(t *testing.T) {
			link, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/dead")
			require.NoError(t, err)

			ok, err := shortLinkRepo.SoftDeleteByCodeAndOwner(context.Background(), link.ShortCode, owner.ID)
			require.NoError(t, err)
			require.True(t, ok)

			affected, err := shortLinkRepo.IncrementClicks(context.Background(), link.ShortCode)
			require.NoError(t, err)
			assert.Zero(t, affected)
		})

		t.Run("SoftDeleteKeepsRowAndCode", func(t *testing.T) {
			link, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/tombstone")
			require.NoError(t, err)

			ok, err := shortLinkRepo.SoftDeleteByCodeAndOwner(context.Background(), link.ShortCode, owner.ID)
			require.NoError(t, err)
			require.True(t, ok)

			// Active-scoped lookups miss it
			row, err := shortLinkRepo.ByCode(context.Background(), link.ShortCode)
			require.NoError(t, err)
			assert.Nil(t, row)

			// But the row still exists and keeps its code reserved
			var count int64
			err = testDB.DB.Model(&models.ShortLink{}).
				Where("short_code = ?", link.ShortCode).
				Count(&count).Error
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			// Inserting the same code again trips the unique index
			dup := &models.ShortLink{
				ShortCode:   link.ShortCode,
				OriginalURL: "https://example.com/reuse",
			}
			err = shortLinkRepo.Save(context.Background(), dup)
			require.Error(t, err)
			assert.True(t, repository.IsUniqueViolation(err))
		})

		t.Run("UpdateOriginalURLScopedToOwner", func(t *testing.T) {
			link, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/before")
			require.NoError(t, err)

			row, err := shortLinkRepo.UpdateOriginalURL(context.Background(), link.ShortCode, owner.ID+1, "https://example.com/hijack")
			require.NoError(t, err)
			assert.Nil(t, row)

			row, err = shortLinkRepo.UpdateOriginalURL(context.Background(), link.ShortCode, owner.ID, "https://example.com/after")
			require.NoError(t, err)
			require.NotNil(t, row)
			assert.Equal(t, "https://example.com/after", row.OriginalURL)
		})

		return nil
	})
	require.NoError(t, err)
}
