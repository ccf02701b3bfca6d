package datafile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleHeader = ",date,time,comp,round,day,venue,result,gf,ga,opponent,xg,xga,poss,sh,sot,dist,fk,pk,season,team,formation,opp formation"

func writeSampleFile(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()

	content := strings.Join(append([]string{sampleHeader}, rows...), "\n") + "\n"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestCSVResultReader_ReadSeasonFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeSampleFile(t, dir, "2020-2021.csv",
		"0,2021-01-09,17:30,Premier League,Matchweek 18,Sat,Home,W,2,0,Chelsea,1.5,0.4,55,14,5,16.8,1,0,2021,Arsenal,4-2-3-1,3-4-3",
		"1,2021-01-09,17:30,Premier League,Matchweek 18,Sat,Away,L,0,2,Arsenal,0.4,1.5,45,8,2,,0,0,2021,Chelsea,3-4-3,4-2-3-1",
	)

	reader := NewCSVResultReader(nil)
	rows, err := reader.ReadSeasonFile(context.Background(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Team != "Arsenal" || first.Opponent != "Chelsea" || first.Venue != "Home" {
		t.Fatalf("unexpected identity fields: %+v", first)
	}
	if first.Date != "2021-01-09" || first.Kickoff != "17:30" || first.Round != "Matchweek 18" {
		t.Fatalf("unexpected schedule fields: %+v", first)
	}
	if first.GoalsFor != 2 || first.GoalsAgainst != 0 || first.XG != 1.5 || first.XGAgainst != 0.4 {
		t.Fatalf("unexpected stats: %+v", first)
	}
	if first.Possession != 55 || first.Shots != 14 || first.ShotsOnTarget != 5 || first.Distance != 16.8 {
		t.Fatalf("unexpected stats: %+v", first)
	}
	if first.Season != "2021" || first.Result != "W" || first.Formation != "4-2-3-1" {
		t.Fatalf("unexpected metadata: %+v", first)
	}

	if rows[1].Distance != 0 {
		t.Fatalf("blank distance must read as zero, got %v", rows[1].Distance)
	}
}

func TestCSVResultReader_MissingRequiredColumn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "2021.csv")
	content := "date,team,opponent,venue,result,gf,ga,poss,xg,sh,sot,season\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	reader := NewCSVResultReader(nil)
	_, err := reader.ReadSeasonFile(context.Background(), path)
	if err == nil || !strings.Contains(err.Error(), `"xga"`) {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestCSVResultReader_MalformedCells(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reader := NewCSVResultReader(nil)

	t.Run("non numeric stat", func(t *testing.T) {
		path := writeSampleFile(t, dir, "bad_stat.csv",
			"0,2021-01-09,17:30,Premier League,Matchweek 18,Sat,Home,W,two,0,Chelsea,1.5,0.4,55,14,5,16.8,1,0,2021,Arsenal,4-2-3-1,3-4-3",
		)
		_, err := reader.ReadSeasonFile(context.Background(), path)
		if err == nil || !strings.Contains(err.Error(), "row 2") || !strings.Contains(err.Error(), `"gf"`) {
			t.Fatalf("expected row error for gf, got %v", err)
		}
	})

	t.Run("missing identity cell", func(t *testing.T) {
		path := writeSampleFile(t, dir, "bad_identity.csv",
			"0,2021-01-09,17:30,Premier League,Matchweek 18,Sat,,W,2,0,Chelsea,1.5,0.4,55,14,5,16.8,1,0,2021,Arsenal,4-2-3-1,3-4-3",
		)
		_, err := reader.ReadSeasonFile(context.Background(), path)
		if err == nil || !strings.Contains(err.Error(), "validation failed") {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown venue", func(t *testing.T) {
		path := writeSampleFile(t, dir, "bad_venue.csv",
			"0,2021-01-09,17:30,Premier League,Matchweek 18,Sat,Neutral,W,2,0,Chelsea,1.5,0.4,55,14,5,16.8,1,0,2021,Arsenal,4-2-3-1,3-4-3",
		)
		_, err := reader.ReadSeasonFile(context.Background(), path)
		if err == nil || !strings.Contains(err.Error(), "validation failed") {
			t.Fatalf("expected validation error for venue, got %v", err)
		}
	})
}

func TestCSVResultReader_ListSeasonFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"2021-2022.csv", "2020-2021.csv", "2020-2021_engineered.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.csv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	reader := NewCSVResultReader(nil)
	files, err := reader.ListSeasonFiles(context.Background(), dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 raw files, got %v", files)
	}
	if filepath.Base(files[0]) != "2020-2021.csv" || filepath.Base(files[1]) != "2021-2022.csv" {
		t.Fatalf("unexpected listing: %v", files)
	}
}

func TestCSVResultReader_ListSeasonFiles_MissingDir(t *testing.T) {
	t.Parallel()

	reader := NewCSVResultReader(nil)
	if _, err := reader.ListSeasonFiles(context.Background(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
