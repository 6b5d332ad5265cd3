package tests

import (
	"context"
	"sync"
	"testing"

	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkRepo := repository.NewShortLinkRepository(testDB.DB)

		// No redis in these tests; caching is off
		visitFlow := businessflow.NewShortLinkVisitFlow(shortLinkRepo, nil, nil)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		ownerCaller := &businessflow.Caller{UserID: owner.ID, Email: owner.Email}
		strangerCaller := &businessflow.Caller{UserID: stranger.ID, Email: stranger.Email}

		t.Run("AnonymousLinkResolvesForEveryone", func(t *testing.T) {
			link, err := fixtures.CreateTestShortLink(nil, "https://example.com/public")
			require.NoError(t, err)

			url, err := visitFlow.Visit(context.Background(), link.ShortCode, nil, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "https://example.com/public", url)

			url, err = visitFlow.Visit(context.Background(), link.ShortCode, strangerCaller, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "https://example.com/public", url)

			row, err := shortLinkRepo.ByCode(context.Background(), link.ShortCode)
			require.NoError(t, err)
			assert.Equal(t, uint64(2), row.ClickCount)
		})

		t.Run("OwnedLinkResolvesOnlyForOwner", func(t *testing.T) {
			link, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/private")
			require.NoError(t, err)

			url, err := visitFlow.Visit(context.Background(), link.ShortCode, ownerCaller, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "https://example.com/private", url)

			// Anonymous caller
			url, err = visitFlow.Visit(context.Background(), link.ShortCode, nil, testMetadata())
			assert.Empty(t, url)
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkUnauthorized(err))

			// Authenticated caller that is not the owner
			url, err = visitFlow.Visit(context.Background(), link.ShortCode, strangerCaller, testMetadata())
			assert.Empty(t, url)
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkUnauthorized(err))

			// Rejected visits do not count clicks
			row, err := shortLinkRepo.ByCode(context.Background(), link.ShortCode)
			require.NoError(t, err)
			assert.Equal(t, uint64(1), row.ClickCount)
		})

		t.Run("UnknownCode", func(t *testing.T) {
			url, err := visitFlow.Visit(context.Background(), "nosuch", nil, testMetadata())
			assert.Empty(t, url)
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkNotFound(err))
		})

		t.Run("DeletedLinkDoesNotResolve", func(t *testing.T) {
			link, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/deleted")
			require.NoError(t, err)

			deleted, err := shortLinkRepo.SoftDeleteByCodeAndOwner(context.Background(), link.ShortCode, owner.ID)
			require.NoError(t, err)
			require.True(t, deleted)

			url, err := visitFlow.Visit(context.Background(), link.ShortCode, ownerCaller, testMetadata())
			assert.Empty(t, url)
			require.Error(t, err)
			assert.True(t, businessflow.IsShortLinkNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVisitFlowConcurrentClicks(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkRepo := repository.NewShortLinkRepository(testDB.DB)
		visitFlow := businessflow.NewShortLinkVisitFlow(shortLinkRepo, nil, nil)

		link, err := fixtures.CreateTestShortLink(nil, "https://example.com/hot")
		require.NoError(t, err)

		const n = 25
		var wg sync.WaitGroup
		errs := make(chan error, n)

		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := visitFlow.Visit(context.Background(), link.ShortCode, nil, testMetadata())
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		// Every concurrent resolution is counted exactly once
		row, err := shortLinkRepo.ByCode(context.Background(), link.ShortCode)
		require.NoError(t, err)
		assert.Equal(t, uint64(n), row.ClickCount)

		return nil
	})
	require.NoError(t, err)
}
