package tests

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		shortLinkRepo := repository.NewShortLinkRepository(testDB.DB)
		exportFlow := businessflow.NewShortLinkExportFlow(shortLinkRepo)

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		caller := &businessflow.Caller{UserID: owner.ID, Email: owner.Email}

		first, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/1")
		require.NoError(t, err)
		second, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/2")
		require.NoError(t, err)

		// A deleted link must not appear in exports
		deleted, err := fixtures.CreateTestShortLink(&owner.ID, "https://example.com/gone")
		require.NoError(t, err)
		ok, err := shortLinkRepo.SoftDeleteByCodeAndOwner(context.Background(), deleted.ShortCode, owner.ID)
		require.NoError(t, err)
		require.True(t, ok)

		t.Run("CSV", func(t *testing.T) {
			filename, data, err := exportFlow.ExportCSV(context.Background(), caller)
			require.NoError(t, err)
			assert.Contains(t, filename, ".csv")

			records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 3) // header + 2 active links

			assert.Equal(t, "short_code", records[0][0])
			assert.Equal(t, first.ShortCode, records[1][0])
			assert.Equal(t, second.ShortCode, records[2][0])
			assert.Equal(t, "https://example.com/1", records[1][1])
		})

		t.Run("Excel", func(t *testing.T) {
			filename, data, err := exportFlow.ExportExcel(context.Background(), caller)
			require.NoError(t, err)
			assert.Contains(t, filename, ".xlsx")

			xl, err := excelize.OpenReader(bytes.NewReader(data))
			require.NoError(t, err)
			defer xl.Close()

			rows, err := xl.GetRows(xl.GetSheetName(0))
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, first.ShortCode, rows[1][0])
			assert.Equal(t, second.ShortCode, rows[2][0])
		})

		return nil
	})
	require.NoError(t, err)
}
