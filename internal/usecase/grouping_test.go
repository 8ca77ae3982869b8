package usecase

import (
	"testing"

	"github.com/casaelena/colibrisync/internal/domain"
)

func rec(sku, code string) domain.RawRecord {
	return domain.RawRecord{
		domain.FieldSKU:        sku,
		domain.FieldUniqueCode: code,
	}
}

func TestGroupBySKUKeepsFirstAppearanceOrder(t *testing.T) {
	records := []domain.RawRecord{
		rec("CAMISA-01", "C01-S"),
		rec("PANTALON-02", "P02"),
		rec("CAMISA-01", "C01-M"),
		rec("CAMISA-01", "C01-L"),
		rec("ZAPATO-03", "Z03"),
	}

	groups, skipped := GroupBySKU(records)
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	wantOrder := []string{"CAMISA-01", "PANTALON-02", "ZAPATO-03"}
	for i, want := range wantOrder {
		if groups[i].SKU != want {
			t.Errorf("groups[%d].SKU = %q, want %q", i, groups[i].SKU, want)
		}
	}
	if len(groups[0].Records) != 3 {
		t.Fatalf("CAMISA-01 records = %d, want 3", len(groups[0].Records))
	}
	codes := []string{"C01-S", "C01-M", "C01-L"}
	for i, want := range codes {
		if got := groups[0].Records[i].UniqueCode(); got != want {
			t.Errorf("records[%d] code = %q, want %q", i, got, want)
		}
	}
}

func TestGroupBySKUSkipsRecordsWithoutSKU(t *testing.T) {
	records := []domain.RawRecord{
		rec("", "X1"),
		rec("OK-01", "OK1"),
		{domain.FieldUniqueCode: "X2"},
		rec("  ", "X3"),
	}
	groups, skipped := GroupBySKU(records)
	if len(groups) != 1 || groups[0].SKU != "OK-01" {
		t.Fatalf("groups = %+v, want single OK-01", groups)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
}

func TestGroupKindDerivation(t *testing.T) {
	variable := domain.SkuGroup{SKU: "A", Records: []domain.RawRecord{{
		domain.FieldSKU: "A", domain.FieldProductType: "Variable",
	}}}
	if variable.Kind() != domain.KindVariable {
		t.Error("uppercase Variable tag should map to variable kind")
	}

	simple := domain.SkuGroup{SKU: "B", Records: []domain.RawRecord{{
		domain.FieldSKU: "B", domain.FieldProductType: "simple",
	}}}
	if simple.Kind() != domain.KindSimple {
		t.Error("simple tag should map to simple kind")
	}

	missing := domain.SkuGroup{SKU: "C", Records: []domain.RawRecord{{domain.FieldSKU: "C"}}}
	if missing.Kind() != domain.KindSimple {
		t.Error("missing type tag should default to simple")
	}
}
