package dataset

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/ulikunitz/xz"

	"github.com/FreelyGiven/BibleVersionCodes/core/code"
	"github.com/FreelyGiven/BibleVersionCodes/core/errors"
	"github.com/FreelyGiven/BibleVersionCodes/core/registry"
)

// Element names in BibleVersionCodes.xml.
const (
	rootTag   = "BibleVersionCodes"
	headerTag = "header"
	recordTag = "BibleVersionCodes"
)

// Selectors are compiled once; the record selector relies on the root
// and record elements sharing a tag name, as in the source XML.
var (
	workSelector   = xpath.MustCompile("/BibleVersionCodes/header/work")
	recordSelector = xpath.MustCompile("/BibleVersionCodes/BibleVersionCodes")
)

// xzMagic is the XZ container signature.
var xzMagic = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}

// Load reads and parses a dataset file. Files carrying the XZ
// signature (conventionally *.xml.xz) are decompressed transparently.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}

	ds, err := Parse(data)
	if err != nil {
		if perr, ok := err.(*errors.ParseError); ok && perr.Path == "" {
			perr.Path = path
		}
		return nil, err
	}
	return ds, nil
}

// Parse parses dataset XML. XZ-compressed input is decompressed first.
func Parse(data []byte) (*Dataset, error) {
	if bytes.HasPrefix(data, xzMagic) {
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &errors.ParseError{Format: "XZ", Message: "invalid container", Err: err}
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(r); err != nil {
			return nil, &errors.ParseError{Format: "XZ", Message: "decompression failed", Err: err}
		}
		data = buf.Bytes()
	}

	doc, err := parseXML(data)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	if work := xmlquery.QuerySelector(doc, workSelector); work != nil {
		ds.Header = Header{
			Title:   childText(work, "title"),
			Version: childText(work, "version"),
			Date:    childText(work, "date"),
		}
	}

	records := xmlquery.QuerySelectorAll(doc, recordSelector)
	seenKeys := make(map[string]string, len(records))
	seenLinks := make(map[string]bool, len(records))

	for i, el := range records {
		rec, err := parseRecord(el, i)
		if err != nil {
			return nil, err
		}

		key := rec.Code.CanonicalKey()
		if existing, ok := seenKeys[key]; ok {
			return nil, errors.NewDuplicate(rec.Code.Base, key, existing)
		}
		seenKeys[key] = rec.Code.Base

		if rec.WebLink != "" {
			if seenLinks[rec.WebLink] {
				return nil, errors.NewParse("XML", "",
					fmt.Sprintf("webLink %q repeated in record %d", rec.WebLink, i))
			}
			seenLinks[rec.WebLink] = true
		}

		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

// parseXML parses XML with entity expansion disabled, then verifies
// the root element tag.
func parseXML(data []byte) (*xmlquery.Node, error) {
	doc, err := xmlquery.ParseWithOptions(bytes.NewReader(data), xmlquery.ParserOptions{
		Decoder: &xmlquery.DecoderOptions{
			Strict: true,
			Entity: map[string]string{},
		},
	})
	if err != nil {
		return nil, &errors.ParseError{Format: "XML", Message: "not well-formed", Err: err}
	}

	root := doc.SelectElement(rootTag)
	if root == nil {
		return nil, errors.NewParse("XML", "", fmt.Sprintf("expected root element %q", rootTag))
	}
	return doc, nil
}

// parseRecord validates one record element and its abbreviation.
func parseRecord(el *xmlquery.Node, index int) (*Record, error) {
	abbrev := childText(el, "mainAbbreviation")
	versionName := childText(el, "versionName")
	languageCode := childText(el, "languageCode")

	compulsory := []struct{ name, value string }{
		{"mainAbbreviation", abbrev},
		{"versionName", versionName},
		{"languageCode", languageCode},
	}
	for _, c := range compulsory {
		if c.value == "" {
			return nil, errors.NewParse("XML", "",
				fmt.Sprintf("compulsory %s element missing or blank in record %d", c.name, index))
		}
	}

	c, err := code.Parse(abbrev)
	if err != nil {
		return nil, errors.Wrapf(err, "record %d", index)
	}

	rec := &Record{
		Code:          c,
		VersionName:   versionName,
		LanguageCode:  languageCode,
		PublisherName: childText(el, "publisherName"),
		Licence:       childText(el, "licence"),
		WebLink:       childText(el, "webLink"),
	}

	if kind := childText(el, "kind"); kind != "" {
		k, err := registry.ParseKind(kind)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", index)
		}
		rec.Kind = k
	}

	return rec, nil
}

// childText returns the trimmed text of a direct child element, or "".
func childText(n *xmlquery.Node, name string) string {
	child := n.SelectElement(name)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.InnerText())
}
