package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/FreelyGiven/BibleVersionCodes/core/errors"
)

// xmlEscaper escapes the characters XML element text cannot carry raw.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// WriteXML writes the canonical XML serialization in document order.
// Parse(WriteXML(ds)) reproduces ds exactly.
func WriteXML(w io.Writer, ds *Dataset) error {
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString("<" + rootTag + ">\n")

	sb.WriteString("  <" + headerTag + ">\n")
	sb.WriteString("    <work>\n")
	writeElement(&sb, "      ", "title", ds.Header.Title)
	writeElement(&sb, "      ", "version", ds.Header.Version)
	writeElement(&sb, "      ", "date", ds.Header.Date)
	sb.WriteString("    </work>\n")
	sb.WriteString("  </" + headerTag + ">\n")

	for _, rec := range ds.Records {
		sb.WriteString("  <" + recordTag + ">\n")
		writeElement(&sb, "    ", "mainAbbreviation", rec.Code.String())
		writeElement(&sb, "    ", "versionName", rec.VersionName)
		writeElement(&sb, "    ", "languageCode", rec.LanguageCode)
		writeElement(&sb, "    ", "publisherName", rec.PublisherName)
		writeElement(&sb, "    ", "licence", rec.Licence)
		writeElement(&sb, "    ", "webLink", rec.WebLink)
		writeElement(&sb, "    ", "kind", string(rec.Kind))
		sb.WriteString("  </" + recordTag + ">\n")
	}

	sb.WriteString("</" + rootTag + ">\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}

// writeElement writes one element line, skipping empty values so that
// optional elements stay optional on round-trip.
func writeElement(sb *strings.Builder, indent, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString(indent)
	sb.WriteString("<" + name + ">")
	sb.WriteString(xmlEscaper.Replace(value))
	sb.WriteString("</" + name + ">\n")
}

// IndexEntry is one record pivoted into a derived index. Fields are
// omitted when they are the index key or absent, matching the derived
// tables the dataset has always exported.
type IndexEntry struct {
	MainAbbreviation string `json:"mainAbbreviation,omitempty"`
	VersionName      string `json:"versionName,omitempty"`
	LanguageCode     string `json:"languageCode,omitempty"`
	PublisherName    string `json:"publisherName,omitempty"`
	Licence          string `json:"licence,omitempty"`
	WebLink          string `json:"webLink,omitempty"`
}

// DataSets holds the pivoted derived indexes.
type DataSets struct {
	AbbreviationsList []string                 `json:"AbbreviationsList"`
	AbbreviationsDict map[string]*IndexEntry   `json:"AbbreviationsDict"`
	NamesDict         map[string][]*IndexEntry `json:"NamesDict"`
	LanguageDict      map[string][]*IndexEntry `json:"LanguageDict"`
	PublisherDict     map[string][]*IndexEntry `json:"PublisherDict"`
	LicenceDict       map[string][]*IndexEntry `json:"LicenceDict"`
	WebLinkDict       map[string][]*IndexEntry `json:"WebLinkDict"`
}

// Indexes pivots the records into the derived index sets:
// a sorted abbreviation list plus dictionaries keyed by abbreviation,
// name, language, publisher, licence, and web link.
func (d *Dataset) Indexes() *DataSets {
	sets := &DataSets{
		AbbreviationsDict: make(map[string]*IndexEntry, len(d.Records)),
		NamesDict:         make(map[string][]*IndexEntry),
		LanguageDict:      make(map[string][]*IndexEntry),
		PublisherDict:     make(map[string][]*IndexEntry),
		LicenceDict:       make(map[string][]*IndexEntry),
		WebLinkDict:       make(map[string][]*IndexEntry),
	}

	for _, rec := range d.Records {
		abbrev := rec.Code.String()
		sets.AbbreviationsList = append(sets.AbbreviationsList, abbrev)

		sets.AbbreviationsDict[abbrev] = &IndexEntry{
			VersionName:   rec.VersionName,
			LanguageCode:  rec.LanguageCode,
			PublisherName: rec.PublisherName,
			Licence:       rec.Licence,
			WebLink:       rec.WebLink,
		}

		sets.NamesDict[rec.VersionName] = append(sets.NamesDict[rec.VersionName], &IndexEntry{
			MainAbbreviation: abbrev,
			LanguageCode:     rec.LanguageCode,
			PublisherName:    rec.PublisherName,
			Licence:          rec.Licence,
			WebLink:          rec.WebLink,
		})

		sets.LanguageDict[rec.LanguageCode] = append(sets.LanguageDict[rec.LanguageCode], &IndexEntry{
			MainAbbreviation: abbrev,
			VersionName:      rec.VersionName,
			PublisherName:    rec.PublisherName,
			Licence:          rec.Licence,
			WebLink:          rec.WebLink,
		})

		if rec.PublisherName != "" {
			sets.PublisherDict[rec.PublisherName] = append(sets.PublisherDict[rec.PublisherName], &IndexEntry{
				MainAbbreviation: abbrev,
				VersionName:      rec.VersionName,
				LanguageCode:     rec.LanguageCode,
				Licence:          rec.Licence,
				WebLink:          rec.WebLink,
			})
		}

		if rec.Licence != "" {
			sets.LicenceDict[rec.Licence] = append(sets.LicenceDict[rec.Licence], &IndexEntry{
				MainAbbreviation: abbrev,
				VersionName:      rec.VersionName,
				LanguageCode:     rec.LanguageCode,
				PublisherName:    rec.PublisherName,
				WebLink:          rec.WebLink,
			})
		}

		if rec.WebLink != "" {
			sets.WebLinkDict[rec.WebLink] = append(sets.WebLinkDict[rec.WebLink], &IndexEntry{
				MainAbbreviation: abbrev,
				VersionName:      rec.VersionName,
				LanguageCode:     rec.LanguageCode,
				PublisherName:    rec.PublisherName,
				Licence:          rec.Licence,
			})
		}
	}

	sort.Strings(sets.AbbreviationsList)
	return sets
}

// WriteJSON writes the derived indexes as indented JSON.
func WriteJSON(w io.Writer, ds *Dataset) error {
	data, err := json.MarshalIndent(ds.Indexes(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding JSON export")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}

// tsvColumns is the flat export column order.
var tsvColumns = []string{
	"mainAbbreviation", "versionName", "languageCode",
	"publisherName", "licence", "webLink", "kind",
}

// WriteTSV writes a flat tab-separated table in document order, one
// record per row with a leading header row.
func WriteTSV(w io.Writer, ds *Dataset) error {
	var sb strings.Builder
	sb.WriteString(strings.Join(tsvColumns, "\t"))
	sb.WriteString("\n")

	for _, rec := range ds.Records {
		fields := []string{
			rec.Code.String(),
			rec.VersionName,
			rec.LanguageCode,
			rec.PublisherName,
			rec.Licence,
			rec.WebLink,
			string(rec.Kind),
		}
		for i, f := range fields {
			if strings.ContainsAny(f, "\t\n") {
				return errors.NewParse("TSV", "",
					fmt.Sprintf("field %s in record %s contains a tab or newline", tsvColumns[i], rec.Code))
			}
		}
		sb.WriteString(strings.Join(fields, "\t"))
		sb.WriteString("\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}
