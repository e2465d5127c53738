package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/FreelyGiven/BibleVersionCodes/core/code"
	"github.com/FreelyGiven/BibleVersionCodes/core/dataset"
	"github.com/FreelyGiven/BibleVersionCodes/core/registry"
)

func sampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return &dataset.Dataset{
		Header: dataset.Header{
			Title:   "Bible version codes",
			Version: "0.10",
			Date:    "2022-05-18",
		},
		Records: []*dataset.Record{
			{
				Code:          code.MustParse("KJV"),
				VersionName:   "King James Version",
				LanguageCode:  "eng",
				PublisherName: "Church of England",
				Licence:       "Public Domain",
				WebLink:       "https://www.kingjamesbibleonline.org/",
				Kind:          registry.KindBible,
			},
			{
				Code:         code.MustParse("SRV"),
				VersionName:  "Seminary Revised Version",
				LanguageCode: "eng",
			},
			{
				Code:         code.MustParse("DRA-1899"),
				VersionName:  "Douay-Rheims American Edition",
				LanguageCode: "eng",
			},
		},
	}
}

// TestExportImportRoundTrip tests that a dataset survives a trip
// through the database unchanged and in order.
func TestExportImportRoundTrip(t *testing.T) {
	db := MustOpen(filepath.Join(t.TempDir(), "codes.db"))
	defer db.Close()

	ds := sampleDataset(t)
	if err := Export(db, ds); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	back, err := Import(db)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if back.Header != ds.Header {
		t.Errorf("header changed: %+v != %+v", back.Header, ds.Header)
	}
	if back.Len() != ds.Len() {
		t.Fatalf("record count = %d, want %d", back.Len(), ds.Len())
	}
	for i := range ds.Records {
		want, got := ds.Records[i], back.Records[i]
		if got.Code.String() != want.Code.String() ||
			got.VersionName != want.VersionName ||
			got.LanguageCode != want.LanguageCode ||
			got.PublisherName != want.PublisherName ||
			got.Licence != want.Licence ||
			got.WebLink != want.WebLink ||
			got.Kind != want.Kind {
			t.Errorf("record %d changed:\n got %+v\nwant %+v", i, got, want)
		}
	}

	// Composite codes keep their year suffix through storage.
	if back.Records[2].Code.Year != "1899" {
		t.Errorf("year lost in round-trip: %+v", back.Records[2].Code)
	}
}

// TestExportReplacesPrevious tests that re-exporting overwrites the
// previous contents instead of appending.
func TestExportReplacesPrevious(t *testing.T) {
	db := MustOpen(filepath.Join(t.TempDir(), "codes.db"))
	defer db.Close()

	ds := sampleDataset(t)
	if err := Export(db, ds); err != nil {
		t.Fatalf("first Export failed: %v", err)
	}

	ds.Records = ds.Records[:1]
	if err := Export(db, ds); err != nil {
		t.Fatalf("second Export failed: %v", err)
	}

	back, err := Import(db)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if back.Len() != 1 {
		t.Errorf("record count = %d after re-export, want 1", back.Len())
	}
}

// TestImportRejectsInvalidKind tests that a hand-edited database
// cannot round-trip an unknown kind label.
func TestImportRejectsInvalidKind(t *testing.T) {
	db := MustOpen(filepath.Join(t.TempDir(), "codes.db"))
	defer db.Close()

	if err := Export(db, sampleDataset(t)); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if _, err := db.Exec(`UPDATE version_codes SET kind = 'magazine' WHERE canonical_key = 'KJV'`); err != nil {
		t.Fatalf("failed to corrupt kind column: %v", err)
	}

	if _, err := Import(db); err == nil {
		t.Fatal("Import should reject an unknown kind")
	}
}

// TestExportCanonicalKeyUnique tests the schema-level uniqueness guard
// on the canonical key column.
func TestExportCanonicalKeyUnique(t *testing.T) {
	db := MustOpen(filepath.Join(t.TempDir(), "codes.db"))
	defer db.Close()

	ds := sampleDataset(t)
	ds.Records = append(ds.Records, &dataset.Record{
		Code:         code.MustParse("kjv"),
		VersionName:  "Duplicate",
		LanguageCode: "eng",
	})

	if err := Export(db, ds); err == nil {
		t.Fatal("Export should fail on case-colliding abbreviations")
	}
}
