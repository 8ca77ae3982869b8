package usecase

import (
	"context"
	"os"
	"testing"

	"github.com/casaelena/colibrisync/internal/domain"
)

func TestReportRunWritesSpreadsheetAndMails(t *testing.T) {
	products := newFakeProductRepo()
	ctx := context.Background()
	_ = products.Save(ctx, &domain.Product{SKU: "D-01", Title: "Camisa", Status: domain.StatusDraft})
	_ = products.Save(ctx, &domain.Product{SKU: "P-01", Title: "Gorra", Status: domain.StatusPublished})

	notify := &fakeNotifier{}
	uc := &ReportUC{Products: products, Notify: notify, ReportsDir: t.TempDir()}

	path, rows, err := uc.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want the single imageless draft", rows)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("spreadsheet not written: %v", err)
	}
	if len(notify.reports) != 1 || len(notify.reports[0]) != 1 {
		t.Fatalf("reports = %+v, want one with one row", notify.reports)
	}
	if notify.reports[0][0].SKU != "D-01" {
		t.Errorf("report row SKU = %q, want D-01", notify.reports[0][0].SKU)
	}
	if len(notify.attachments) != 1 || notify.attachments[0] != path {
		t.Errorf("attachment = %v, want the written spreadsheet %q", notify.attachments, path)
	}
}

func TestReportRunSkipsWhenNothingStale(t *testing.T) {
	products := newFakeProductRepo()
	notify := &fakeNotifier{}
	uc := &ReportUC{Products: products, Notify: notify, ReportsDir: t.TempDir()}

	path, rows, err := uc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if path != "" || rows != 0 {
		t.Errorf("path=%q rows=%d, want no file for an empty report", path, rows)
	}
	if len(notify.reports) != 0 {
		t.Error("empty report must not be mailed")
	}
}
