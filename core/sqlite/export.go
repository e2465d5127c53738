package sqlite

import (
	"database/sql"

	"github.com/FreelyGiven/BibleVersionCodes/core/code"
	"github.com/FreelyGiven/BibleVersionCodes/core/dataset"
	"github.com/FreelyGiven/BibleVersionCodes/core/errors"
	"github.com/FreelyGiven/BibleVersionCodes/core/registry"
)

// schemaSQL creates the export tables. The version_codes rowid
// preserves document order so round-trips keep first-registered
// precedence intact.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS header (
	title   TEXT NOT NULL,
	version TEXT NOT NULL,
	date    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS version_codes (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	main_abbreviation TEXT NOT NULL,
	canonical_key     TEXT NOT NULL UNIQUE,
	version_name      TEXT NOT NULL,
	language_code     TEXT NOT NULL,
	publisher_name    TEXT,
	licence           TEXT,
	web_link          TEXT,
	kind              TEXT
);
CREATE INDEX IF NOT EXISTS idx_version_codes_language
	ON version_codes(language_code);
`

// Export writes a dataset into db, replacing any previous export.
func Export(db *sql.DB, ds *dataset.Dataset) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning export transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schemaSQL); err != nil {
		return errors.Wrap(err, "creating export schema")
	}
	if _, err := tx.Exec(`DELETE FROM header`); err != nil {
		return errors.Wrap(err, "clearing header table")
	}
	if _, err := tx.Exec(`DELETE FROM version_codes`); err != nil {
		return errors.Wrap(err, "clearing version_codes table")
	}

	if _, err := tx.Exec(
		`INSERT INTO header (title, version, date) VALUES (?, ?, ?)`,
		ds.Header.Title, ds.Header.Version, ds.Header.Date,
	); err != nil {
		return errors.Wrap(err, "inserting header row")
	}

	stmt, err := tx.Prepare(`INSERT INTO version_codes
		(main_abbreviation, canonical_key, version_name, language_code,
		 publisher_name, licence, web_link, kind)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing record insert")
	}
	defer stmt.Close()

	for _, rec := range ds.Records {
		if _, err := stmt.Exec(
			rec.Code.String(), rec.Code.CanonicalKey(),
			rec.VersionName, rec.LanguageCode,
			rec.PublisherName, rec.Licence, rec.WebLink, string(rec.Kind),
		); err != nil {
			return errors.Wrapf(err, "inserting record %s", rec.Code)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing export")
	}
	return nil
}

// Import reads a previously exported dataset back out of db, in the
// original document order.
func Import(db *sql.DB) (*dataset.Dataset, error) {
	ds := &dataset.Dataset{}

	err := db.QueryRow(`SELECT title, version, date FROM header`).
		Scan(&ds.Header.Title, &ds.Header.Version, &ds.Header.Date)
	if err != nil {
		return nil, errors.Wrap(err, "reading header row")
	}

	rows, err := db.Query(`SELECT main_abbreviation, version_name,
		language_code, publisher_name, licence, web_link, kind
		FROM version_codes ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying version_codes")
	}
	defer rows.Close()

	for rows.Next() {
		var abbrev, kind string
		var publisher, licence, link sql.NullString
		rec := &dataset.Record{}
		if err := rows.Scan(&abbrev, &rec.VersionName, &rec.LanguageCode,
			&publisher, &licence, &link, &kind); err != nil {
			return nil, errors.Wrap(err, "scanning version_codes row")
		}

		c, err := code.Parse(abbrev)
		if err != nil {
			return nil, errors.Wrapf(err, "stored abbreviation %q", abbrev)
		}
		rec.Code = c
		rec.PublisherName = publisher.String
		rec.Licence = licence.String
		rec.WebLink = link.String
		if kind != "" {
			k, err := registry.ParseKind(kind)
			if err != nil {
				return nil, errors.Wrapf(err, "stored abbreviation %q", abbrev)
			}
			rec.Kind = k
		}

		ds.Records = append(ds.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating version_codes rows")
	}

	return ds, nil
}
