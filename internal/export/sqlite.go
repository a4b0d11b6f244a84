package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mmcdole/kinostat/internal/domain"
	"github.com/mmcdole/kinostat/internal/report"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE export_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE titles (
	id             INTEGER PRIMARY KEY,
	show_id        TEXT,
	title          TEXT NOT NULL,
	type           TEXT NOT NULL,
	director       TEXT,
	cast_list      TEXT,
	country        TEXT NOT NULL,
	date_added     TEXT NOT NULL,
	year_added     INTEGER NOT NULL,
	month_added    INTEGER NOT NULL,
	day_added      INTEGER NOT NULL,
	release_year   INTEGER NOT NULL,
	rating         TEXT NOT NULL,
	duration       TEXT,
	duration_value INTEGER,
	duration_unit  TEXT,
	description    TEXT
);
CREATE TABLE title_genres (
	title_id INTEGER NOT NULL REFERENCES titles(id),
	genre    TEXT NOT NULL
);
CREATE TABLE title_cast (
	title_id INTEGER NOT NULL REFERENCES titles(id),
	member   TEXT NOT NULL
);
CREATE TABLE panel_counts (
	panel TEXT NOT NULL,
	rank  INTEGER NOT NULL,
	label TEXT NOT NULL,
	count INTEGER NOT NULL
);
CREATE INDEX idx_title_genres_genre ON title_genres(genre);
CREATE INDEX idx_panel_counts_panel ON panel_counts(panel);
`

func writeSQLite(ctx context.Context, path string, d *report.Dashboard) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("sqlite: replace %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("sqlite: open: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	if err := fill(ctx, tx, d); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func fill(ctx context.Context, tx *sql.Tx, d *report.Dashboard) error {
	meta := [][]any{
		{"generated_at", d.GeneratedAt.UTC().Format(time.RFC3339)},
		{"records", fmt.Sprint(len(d.Records))},
		{"genre", d.Genre},
	}
	if err := insertRows(ctx, tx, "INSERT INTO export_meta (key, value) VALUES (?, ?)", meta); err != nil {
		return err
	}

	var titles, genres, cast [][]any
	for i, t := range d.Records {
		id := i + 1
		var value, unit any
		if dur, err := t.ParsedDuration(); err == nil {
			value, unit = dur.Value, dur.Unit.String()
		}
		titles = append(titles, []any{
			id, t.ShowID, t.Title, t.Type.String(), t.Director, t.Cast, t.Country,
			t.DateAdded.Format(time.DateOnly), t.YearAdded, t.MonthAdded, t.DayAdded,
			t.ReleaseYear, t.Rating, t.Duration, value, unit, t.Description,
		})
		for _, g := range t.Genres {
			genres = append(genres, []any{id, g})
		}
		for _, m := range t.CastMembers() {
			cast = append(cast, []any{id, m})
		}
	}

	if err := insertRows(ctx, tx, `INSERT INTO titles (
		id, show_id, title, type, director, cast_list, country,
		date_added, year_added, month_added, day_added,
		release_year, rating, duration, duration_value, duration_unit, description
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, titles); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, "INSERT INTO title_genres (title_id, genre) VALUES (?, ?)", genres); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, "INSERT INTO title_cast (title_id, member) VALUES (?, ?)", cast); err != nil {
		return err
	}
	return insertRows(ctx, tx,
		"INSERT INTO panel_counts (panel, rank, label, count) VALUES (?, ?, ?, ?)",
		panelRows(d))
}

// panelRows flattens every ranked and year-ordered panel into
// (panel, rank, label, count) rows.
func panelRows(d *report.Dashboard) [][]any {
	var rows [][]any
	ranked := func(panel string, counts []domain.LabelCount) {
		for i, lc := range counts {
			rows = append(rows, []any{panel, i + 1, lc.Label, lc.Count})
		}
	}
	yearly := func(panel string, counts []domain.YearCount) {
		for i, yc := range counts {
			rows = append(rows, []any{panel, i + 1, fmt.Sprint(yc.Year), yc.Count})
		}
	}

	yearly("by_release_year", d.ByReleaseYear)
	yearly("by_year_added", d.ByYearAdded)
	ranked("top_countries", d.TopCountries)
	ranked("top_genres", d.TopGenres)
	ranked("genre_directors", d.GenreDirectors)
	ranked("top_ratings", d.TopRatings)
	ranked("top_directors", d.TopDirectors)
	ranked("top_actors", d.TopActors)
	return rows
}

func insertRows(ctx context.Context, tx *sql.Tx, query string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("sqlite: insert: %w", err)
		}
	}
	return nil
}
