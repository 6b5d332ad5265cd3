package tests

import (
	"context"
	"testing"

	"github.com/amirphl/Kusanagi/app/dto"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortenFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkRepo := repository.NewShortLinkRepository(testDB.DB)
		linkFlow := businessflow.NewShortLinkFlow(shortLinkRepo, testDB.DB)

		t.Run("AnonymousShorten", func(t *testing.T) {
			req := &dto.ShortenRequest{OriginalURL: "https://example.com/a/very/long/path"}

			result, err := linkFlow.Shorten(context.Background(), req, nil, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Len(t, result.Item.ShortCode, utils.ShortCodeLength)
			assert.Equal(t, "https://example.com/a/very/long/path", result.Item.OriginalURL)
			assert.Zero(t, result.Item.ClickCount)
			assert.Nil(t, result.Item.OwnerUserID)
		})

		t.Run("OwnedShorten", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			caller := &businessflow.Caller{UserID: user.ID, Email: user.Email}

			req := &dto.ShortenRequest{OriginalURL: "https://example.com/owned"}

			result, err := linkFlow.Shorten(context.Background(), req, caller, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, result.Item.OwnerUserID)
			assert.Equal(t, user.ID, *result.Item.OwnerUserID)
		})

		t.Run("DistinctCodes", func(t *testing.T) {
			seen := make(map[string]bool)
			for i := 0; i < 10; i++ {
				req := &dto.ShortenRequest{OriginalURL: "https://example.com/same"}
				result, err := linkFlow.Shorten(context.Background(), req, nil, testMetadata())
				require.NoError(t, err)
				assert.False(t, seen[result.Item.ShortCode], "short code reused")
				seen[result.Item.ShortCode] = true
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListShortLinks(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkRepo := repository.NewShortLinkRepository(testDB.DB)
		linkFlow := businessflow.NewShortLinkFlow(shortLinkRepo, testDB.DB)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		other, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		first, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/1")
		require.NoError(t, err)
		second, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/2")
		require.NoError(t, err)

		// Links that must not show up in the owner's listing
		_, err = fixtures.CreateTestShortLink(&other.ID, "https://example.com/other")
		require.NoError(t, err)
		_, err = fixtures.CreateTestShortLink(nil, "https://example.com/anon")
		require.NoError(t, err)

		caller := &businessflow.Caller{UserID: owner.ID, Email: owner.Email}

		result, err := linkFlow.List(context.Background(), caller, testMetadata())
		require.NoError(t, err)
		require.Equal(t, 2, result.Total)

		// Creation order is preserved
		assert.Equal(t, first.ShortCode, result.Items[0].ShortCode)
		assert.Equal(t, second.ShortCode, result.Items[1].ShortCode)

		return nil
	})
	require.NoError(t, err)
}

func TestUpdateShortLink(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkRepo := repository.NewShortLinkRepository(testDB.DB)
		linkFlow := businessflow.NewShortLinkFlow(shortLinkRepo, testDB.DB)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		link, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/old")
		require.NoError(t, err)

		ownerCaller := &businessflow.Caller{UserID: owner.ID, Email: owner.Email}
		strangerCaller := &businessflow.Caller{UserID: stranger.ID, Email: stranger.Email}

		t.Run("OwnerCanUpdate", func(t *testing.T) {
			req := &dto.UpdateShortLinkRequest{NewOriginalURL: "https://example.com/new"}

			result, err := linkFlow.Update(context.Background(), link.ShortCode, req, ownerCaller, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "https://example.com/new", result.OriginalURL)
			assert.Equal(t, link.ShortCode, result.ShortCode)

			row, err := shortLinkRepo.ByCode(context.Background(), link.ShortCode)
			require.NoError(t, err)
			require.NotNil(t, row)
			assert.Equal(t, "https://example.com/new", row.OriginalURL)
		})

		t.Run("NonOwnerGetsNotFound", func(t *testing.T) {
			req := &dto.UpdateShortLinkRequest{NewOriginalURL: "https://evil.example.com"}

			result, err := linkFlow.Update(context.Background(), link.ShortCode, req, strangerCaller, testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)

			// Ownership mismatch is indistinguishable from a missing code
			assert.True(t, businessflow.IsShortLinkNotFound(err))
		})

		t.Run("UnknownCodeGetsNotFound", func(t *testing.T) {
			req := &dto.UpdateShortLinkRequest{NewOriginalURL: "https://example.com/whatever"}

			result, err := linkFlow.Update(context.Background(), "zzzzzz", req, ownerCaller, testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestDeleteShortLink(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkRepo := repository.NewShortLinkRepository(testDB.DB)
		linkFlow := businessflow.NewShortLinkFlow(shortLinkRepo, testDB.DB)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		ownerCaller := &businessflow.Caller{UserID: owner.ID, Email: owner.Email}
		strangerCaller := &businessflow.Caller{UserID: stranger.ID, Email: stranger.Email}

		t.Run("NonOwnerGetsNotFound", func(t *testing.T) {
			link, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/keep")
			require.NoError(t, err)

			err = linkFlow.Delete(context.Background(), link.ShortCode, strangerCaller, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkNotFound(err))

			// Link is still resolvable
			row, err := shortLinkRepo.ByCode(context.Background(), link.ShortCode)
			require.NoError(t, err)
			assert.NotNil(t, row)
		})

		t.Run("DeleteIsTerminal", func(t *testing.T) {
			link, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/gone")
			require.NoError(t, err)

			err = linkFlow.Delete(context.Background(), link.ShortCode, ownerCaller, testMetadata())
			require.NoError(t, err)

			// Deleted link no longer resolves
			row, err := shortLinkRepo.ByCode(context.Background(), link.ShortCode)
			require.NoError(t, err)
			assert.Nil(t, row)

			// Deleting again reports not found
			err = linkFlow.Delete(context.Background(), link.ShortCode, ownerCaller, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkNotFound(err))

			// Updating a deleted link reports not found too
			req := &dto.UpdateShortLinkRequest{NewOriginalURL: "https://example.com/resurrect"}
			result, err := linkFlow.Update(context.Background(), link.ShortCode, req, ownerCaller, testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkNotFound(err))

			// Listing excludes it
			list, err := linkFlow.List(context.Background(), ownerCaller, testMetadata())
			require.NoError(t, err)
			for _, item := range list.Items {
				assert.NotEqual(t, link.ShortCode, item.ShortCode)
			}
		})

		return nil
	})
	require.NoError(t, err)
}
