package media_test

import (
	"errors"
	"testing"

	"reelsync/internal/media"
)

func TestNewRecordValidation(t *testing.T) {
	if _, err := media.NewRecord("  ", 1999, media.KindMovie); !errors.Is(err, media.ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}
	if _, err := media.NewRecord("The Matrix", 1999, media.Kind("episode")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	rec, err := media.NewRecord(" The Matrix ", 1999, media.KindMovie)
	if err != nil {
		t.Fatalf("NewRecord returned error: %v", err)
	}
	if rec.Title != "The Matrix" {
		t.Fatalf("expected trimmed title, got %q", rec.Title)
	}
}

func TestDedupeIgnoresSlug(t *testing.T) {
	records := []media.Record{
		{Title: "Dune", Year: 2021, Kind: media.KindMovie, Slug: "dune-2021"},
		{Title: "Dune", Year: 2021, Kind: media.KindMovie},
		{Title: "Dune", Year: 1984, Kind: media.KindMovie},
	}
	got := media.Dedupe(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 records after dedupe, got %d", len(got))
	}
	if got[0].Slug != "dune-2021" {
		t.Fatalf("expected first occurrence to win, got %+v", got[0])
	}
}

func TestSortIsDeterministic(t *testing.T) {
	records := []media.Record{
		{Title: "zodiac", Year: 2007, Kind: media.KindMovie},
		{Title: "Arrival", Year: 2016, Kind: media.KindMovie},
		{Title: "arrival", Year: 1996, Kind: media.KindMovie},
	}
	media.Sort(records)
	if records[0].Year != 1996 {
		t.Fatalf("expected 1996 Arrival first, got %+v", records[0])
	}
	if records[2].Title != "zodiac" {
		t.Fatalf("expected zodiac last, got %+v", records[2])
	}
}

func TestInventoryRecords(t *testing.T) {
	inv := media.Inventory{
		Movies: []media.Record{{Title: "Heat", Year: 1995, Kind: media.KindMovie}},
		TV:     []media.Record{{Title: "Severance", Year: 2022, Kind: media.KindTV}},
	}
	if got := inv.Records(media.KindMovie); len(got) != 1 || got[0].Title != "Heat" {
		t.Fatalf("unexpected movie records: %+v", got)
	}
	if got := inv.Records(media.KindTV); len(got) != 1 || got[0].Title != "Severance" {
		t.Fatalf("unexpected tv records: %+v", got)
	}
	if inv.Size() != 2 {
		t.Fatalf("expected size 2, got %d", inv.Size())
	}
	if got := inv.All(); len(got) != 2 || got[0].Kind != media.KindMovie {
		t.Fatalf("unexpected All() order: %+v", got)
	}
}
