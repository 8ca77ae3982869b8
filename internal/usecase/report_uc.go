package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/casaelena/colibrisync/internal/domain"
)

// ReportUC builds the stale-draft report: every catalog entry still in draft
// without a principal image, exported as a spreadsheet and mailed to support.
type ReportUC struct {
	Products domain.ProductRepo
	Notify   domain.Notifier

	// ReportsDir is where generated spreadsheets land; created on demand.
	ReportsDir string
}

// CollectDrafts lists draft entries lacking an image as report rows.
func (uc *ReportUC) CollectDrafts(ctx context.Context) ([]domain.DraftReportRow, error) {
	products, err := uc.Products.ListDraftNoImage(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.DraftReportRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, domain.DraftReportRow{
			SKU:    p.SKU,
			Title:  p.Title,
			Status: p.Status,
			Reason: "sin imagen principal",
		})
	}
	return rows, nil
}

// Run collects the stale drafts, writes the spreadsheet and mails it. When
// there are no stale drafts nothing is written or sent.
func (uc *ReportUC) Run(ctx context.Context) (string, int, error) {
	rows, err := uc.CollectDrafts(ctx)
	if err != nil {
		return "", 0, err
	}
	if len(rows) == 0 {
		log.Info().Msg("no stale drafts, skipping report")
		return "", 0, nil
	}

	path, err := uc.writeSpreadsheet(rows)
	if err != nil {
		return "", 0, err
	}
	if err := uc.Notify.SendDraftReport(ctx, rows, path); err != nil {
		log.Error().Err(err).Str("file", path).Msg("draft report mail failed")
		return path, len(rows), err
	}
	log.Info().Int("rows", len(rows)).Str("file", path).Msg("draft report sent")
	return path, len(rows), nil
}

func (uc *ReportUC) writeSpreadsheet(rows []domain.DraftReportRow) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Borradores"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"SKU", "Titulo", "Estado", "Motivo"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, r := range rows {
		values := []any{r.SKU, r.Title, string(r.Status), r.Reason}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	dir := uc.ReportsDir
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("borradores_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
