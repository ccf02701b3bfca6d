package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("*").
		From("match_features").
		Where(Eq("season", "2020-2021"), IsNull("deleted_at")).
		OrderBy("match_date", "home_team").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM match_features WHERE season = $1 AND deleted_at IS NULL ORDER BY match_date, home_team"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "2020-2021" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	model := struct {
		Season   string `db:"season"`
		HomeTeam string `db:"home_team"`
		Result   int16  `db:"result"`
		Ignored  string `db:"-"`
		NoTag    string
	}{
		Season:   "2020-2021",
		HomeTeam: "Arsenal",
		Result:   1,
		Ignored:  "x",
		NoTag:    "y",
	}

	query, args, err := InsertModel("match_features", model, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO match_features (season, home_team, result) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "2020-2021" || args[1] != "Arsenal" || args[2] != int16(1) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("match_features").
		Columns("season", "home_team").
		Values("2020-2021").
		ToSQL()
	if err == nil {
		t.Fatal("expected row width error")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("match_features").
		SetExpr("deleted_at", "NOW()").
		Where(Eq("season", "2020-2021"), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE match_features SET deleted_at = NOW() WHERE season = $1 AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "2020-2021" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_SetExprArgs(t *testing.T) {
	query, args, err := Update("match_features").
		Set("round", "Matchweek 9").
		SetExpr("home_goals", "home_goals + ?", 1).
		Where(Eq("id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE match_features SET round = $1, home_goals = home_goals + $2 WHERE id = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "Matchweek 9" || args[1] != 1 || args[2] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}
