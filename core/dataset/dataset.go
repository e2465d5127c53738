// Package dataset loads, validates, and exports the
// BibleVersionCodes.xml dataset.
//
// The XML file is the canonical serialization: a header naming the
// work, then one record per registered version code. Each record
// carries the compulsory mainAbbreviation, versionName, and
// languageCode elements plus the optional publisherName, licence,
// webLink, and kind elements. mainAbbreviation is unique
// case-insensitively; webLink is unique exactly.
//
// JSON, TSV, and SQLite files are derived exports; all of them
// round-trip the record fields and preserve document order, which is
// also the first-registered order used for collision tie-breaking.
package dataset

import (
	"github.com/FreelyGiven/BibleVersionCodes/core/code"
	"github.com/FreelyGiven/BibleVersionCodes/core/registry"
)

// Header describes the dataset work, from the XML header element.
type Header struct {
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Record is one registered version code with its metadata.
type Record struct {
	// Code is the parsed mainAbbreviation.
	Code *code.Code `json:"code"`

	// VersionName is the version's name in its original language.
	VersionName string `json:"versionName"`

	// LanguageCode identifies the version's language (e.g. "eng", "hbo").
	LanguageCode string `json:"languageCode"`

	// PublisherName is the publishing body, if known.
	PublisherName string `json:"publisherName,omitempty"`

	// Licence is the licence identifier, if known.
	Licence string `json:"licence,omitempty"`

	// WebLink is a reference link for the version, if known.
	WebLink string `json:"webLink,omitempty"`

	// Kind classifies the work for the assignment policy, if known.
	Kind registry.Kind `json:"kind,omitempty"`
}

// Dataset is a parsed BibleVersionCodes dataset in document order.
type Dataset struct {
	Header  Header    `json:"header"`
	Records []*Record `json:"records"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Registry builds an immutable registry snapshot from the dataset,
// preserving document order. Uniqueness was already enforced at parse
// time, so this only fails on datasets constructed by hand.
func (d *Dataset) Registry() (*registry.Registry, error) {
	entries := make([]*registry.Entry, 0, len(d.Records))
	for _, rec := range d.Records {
		entries = append(entries, &registry.Entry{
			Code:      rec.Code,
			FullName:  rec.VersionName,
			Language:  rec.LanguageCode,
			Publisher: rec.PublisherName,
			Licence:   rec.Licence,
			Link:      rec.WebLink,
			Kind:      rec.Kind,
		})
	}
	return registry.Load(entries)
}
