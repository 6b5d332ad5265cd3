package businessflow

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/amirphl/Kusanagi/repository"
	"github.com/xuri/excelize/v2"
)

// ShortLinkExportFlow produces downloadable reports of the caller's own
// active short links.
type ShortLinkExportFlow interface {
	ExportCSV(ctx context.Context, caller *Caller) (string, []byte, error)
	ExportExcel(ctx context.Context, caller *Caller) (string, []byte, error)
}

type ShortLinkExportFlowImpl struct {
	shortLinkRepo repository.ShortLinkRepository
}

func NewShortLinkExportFlow(shortLinkRepo repository.ShortLinkRepository) ShortLinkExportFlow {
	return &ShortLinkExportFlowImpl{shortLinkRepo: shortLinkRepo}
}

var exportHeader = []string{
	"short_code",
	"original_url",
	"click_count",
	"created_at",
	"updated_at",
}

// ExportCSV returns the caller's active links as a CSV document.
func (f *ShortLinkExportFlowImpl) ExportCSV(ctx context.Context, caller *Caller) (string, []byte, error) {
	rows, err := f.shortLinkRepo.ListActiveByOwner(ctx, caller.UserID)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_SHORT_LINKS_FAILED", "Failed to fetch short links", err)
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(exportHeader); err != nil {
		return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV header", err)
	}

	for _, r := range rows {
		record := []string{
			r.ShortCode,
			r.OriginalURL,
			strconv.FormatUint(r.ClickCount, 10),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to flush CSV", err)
	}

	filename := fmt.Sprintf("short_links_user_%d.csv", caller.UserID)
	return filename, buf.Bytes(), nil
}

// ExportExcel returns the caller's active links as an xlsx workbook.
func (f *ShortLinkExportFlowImpl) ExportExcel(ctx context.Context, caller *Caller) (string, []byte, error) {
	rows, err := f.shortLinkRepo.ListActiveByOwner(ctx, caller.UserID)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_SHORT_LINKS_FAILED", "Failed to fetch short links", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := xl.GetSheetName(0)
	_ = xl.SetSheetRow(sheet, "A1", &exportHeader)

	for ri, r := range rows {
		record := []string{
			r.ShortCode,
			r.OriginalURL,
			strconv.FormatUint(r.ClickCount, 10),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("short_links_user_%d.xlsx", caller.UserID)
	return filename, buf.Bytes(), nil
}
