package registry

import (
	"testing"

	"github.com/FreelyGiven/BibleVersionCodes/core/code"
	"github.com/FreelyGiven/BibleVersionCodes/core/errors"
)

func entry(t *testing.T, codeStr, fullName string, kind Kind) *Entry {
	t.Helper()
	c, err := code.Parse(codeStr)
	if err != nil {
		t.Fatalf("failed to parse code %q: %v", codeStr, err)
	}
	return &Entry{Code: c, FullName: fullName, Kind: kind}
}

// TestLoad tests building a registry from entries.
func TestLoad(t *testing.T) {
	r, err := Load([]*Entry{
		entry(t, "KJV", "King James Version", KindBible),
		entry(t, "ASV", "American Standard Version", KindBible),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

// TestLoadDuplicate tests the case-insensitive collision rule:
// MyRV and MYRV cannot coexist.
func TestLoadDuplicate(t *testing.T) {
	_, err := Load([]*Entry{
		entry(t, "MyRV", "My Revised Version", KindBible),
		entry(t, "MYRV", "Another Revision", KindBible),
	})
	if err == nil {
		t.Fatal("Load should fail on case-insensitive duplicate")
	}
	var dup *errors.DuplicateCodeError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %T, want *DuplicateCodeError", err)
	}
	if dup.CanonicalKey != "MYRV" {
		t.Errorf("CanonicalKey = %q, want %q", dup.CanonicalKey, "MYRV")
	}
	if dup.Existing != "MyRV" {
		t.Errorf("Existing = %q, want first-registered %q", dup.Existing, "MyRV")
	}
}

// TestLookupCaseInsensitive tests that lookup normalizes to uppercase.
func TestLookupCaseInsensitive(t *testing.T) {
	r, err := Load([]*Entry{entry(t, "KJV", "King James Version", KindBible)})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	lower, err := r.Lookup("kjv")
	if err != nil {
		t.Fatalf("Lookup(kjv) failed: %v", err)
	}
	upper, err := r.Lookup("KJV")
	if err != nil {
		t.Fatalf("Lookup(KJV) failed: %v", err)
	}
	if lower != upper {
		t.Error("lookup(kjv) and lookup(KJV) should return the same entry")
	}
	if lower.FullName != "King James Version" {
		t.Errorf("FullName = %q, want %q", lower.FullName, "King James Version")
	}
}

// TestLookupComposite tests that composite codes resolve by base.
func TestLookupComposite(t *testing.T) {
	r, err := Load([]*Entry{entry(t, "KJV", "King James Version", KindBible)})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	e, err := r.Lookup("KJV-1611")
	if err != nil {
		t.Fatalf("Lookup(KJV-1611) failed: %v", err)
	}
	if e.FullName != "King James Version" {
		t.Errorf("composite lookup returned wrong entry: %q", e.FullName)
	}
}

// TestLookupNotFound tests the miss path.
func TestLookupNotFound(t *testing.T) {
	r, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	_, err = r.Lookup("ZZQ")
	if err == nil {
		t.Fatal("Lookup should fail for unregistered code")
	}
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error should unwrap to ErrNotFound, got %v", err)
	}
}

// TestLookupMalformed tests that malformed candidates surface their
// validation error rather than NotFound.
func TestLookupMalformed(t *testing.T) {
	r, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	_, err = r.Lookup("K JV")
	if !errors.Is(err, errors.ErrInvalidCode) {
		t.Errorf("error should unwrap to ErrInvalidCode, got %v", err)
	}
}

// TestEntriesOrder tests first-registered ordering.
func TestEntriesOrder(t *testing.T) {
	r, err := Load([]*Entry{
		entry(t, "KJV", "King James Version", KindBible),
		entry(t, "ASV", "American Standard Version", KindBible),
		entry(t, "OET", "Open English Translation", KindBible),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := r.Entries()
	want := []string{"KJV", "ASV", "OET"}
	for i, e := range got {
		if e.Code.Base != want[i] {
			t.Errorf("Entries()[%d] = %q, want %q", i, e.Code.Base, want[i])
		}
	}
}

// TestWithEntry tests copy-on-write addition.
func TestWithEntry(t *testing.T) {
	r, err := Load([]*Entry{entry(t, "KJV", "King James Version", KindBible)})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	next, err := r.WithEntry(entry(t, "ASV", "American Standard Version", KindBible))
	if err != nil {
		t.Fatalf("WithEntry failed: %v", err)
	}

	if r.Len() != 1 {
		t.Errorf("original snapshot mutated: Len = %d, want 1", r.Len())
	}
	if next.Len() != 2 {
		t.Errorf("new snapshot Len = %d, want 2", next.Len())
	}
	if _, err := next.Lookup("asv"); err != nil {
		t.Errorf("new snapshot should contain ASV: %v", err)
	}
	if _, err := r.Lookup("asv"); err == nil {
		t.Error("original snapshot should not contain ASV")
	}
}

// TestWithEntryDuplicate tests that additions re-check uniqueness.
func TestWithEntryDuplicate(t *testing.T) {
	r, err := Load([]*Entry{entry(t, "KJV", "King James Version", KindBible)})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	_, err = r.WithEntry(entry(t, "kjv", "Lowercase Impostor", KindBible))
	if !errors.Is(err, errors.ErrDuplicate) {
		t.Errorf("error should unwrap to ErrDuplicate, got %v", err)
	}
}

// TestProposeAccepted tests accepting a fresh well-formed code.
func TestProposeAccepted(t *testing.T) {
	r, err := Load([]*Entry{entry(t, "KJV", "King James Version", KindBible)})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	d := r.Propose("BSB-2020")
	if !d.Accepted {
		t.Fatalf("proposal should be accepted, reason: %s", d.Reason)
	}
	if d.ID == "" {
		t.Error("decision should carry a proposal ID")
	}
	if d.Code == nil || d.Code.Base != "BSB" || d.Code.Year != "2020" {
		t.Errorf("decision code = %+v, want base BSB year 2020", d.Code)
	}
}

// TestProposeFirstInFirstServed tests that a registered code is kept by
// its first holder regardless of the later proposal's merit.
func TestProposeFirstInFirstServed(t *testing.T) {
	r, err := Load([]*Entry{entry(t, "SRV", "Seminary Revised Version", KindBible)})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	d := r.Propose("SRV")
	if d.Accepted {
		t.Fatal("second SRV proposal should be rejected")
	}
	if !errors.Is(d.Err, errors.ErrDuplicate) {
		t.Errorf("decision error should unwrap to ErrDuplicate, got %v", d.Err)
	}
	if d.Reason == "" {
		t.Error("rejection should carry a reason")
	}
}

// TestProposeMalformed tests rejection of ill-formed candidates.
func TestProposeMalformed(t *testing.T) {
	r, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	d := r.Propose("K JV")
	if d.Accepted {
		t.Fatal("malformed proposal should be rejected")
	}
	if !errors.Is(d.Err, errors.ErrInvalidCode) {
		t.Errorf("decision error should unwrap to ErrInvalidCode, got %v", d.Err)
	}
}

// TestParseKind tests kind label validation.
func TestParseKind(t *testing.T) {
	valid := map[string]Kind{
		"bible":        KindBible,
		"Bible":        KindBible,
		"newtestament": KindNewTestament,
		"COMMENTARY":   KindCommentary,
	}
	for label, want := range valid {
		k, err := ParseKind(label)
		if err != nil {
			t.Errorf("ParseKind(%q) failed: %v", label, err)
			continue
		}
		if k != want {
			t.Errorf("ParseKind(%q) = %q, want %q", label, k, want)
		}
	}

	for _, label := range []string{"magazine", "bibles", ""} {
		if _, err := ParseKind(label); err == nil {
			t.Errorf("ParseKind(%q) should fail", label)
		}
	}
}

// TestVerifyPolicy tests the Bible-over-commentary priority report.
func TestVerifyPolicy(t *testing.T) {
	r, err := Load([]*Entry{
		entry(t, "MHC", "Matthew Henry's Commentary", KindCommentary),
		entry(t, "KJV", "King James Version", KindBible),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	contenders := []*Entry{
		entry(t, "MHC", "Modern Hebrew Covenant", KindBible),
		entry(t, "KJV", "Another King James", KindBible), // holder is a Bible, no violation
		entry(t, "MHC", "More Commentary", KindCommentary),
	}

	violations := r.VerifyPolicy(contenders)
	if len(violations) != 1 {
		t.Fatalf("violations = %d, want 1", len(violations))
	}
	v := violations[0]
	if v.CanonicalKey != "MHC" {
		t.Errorf("CanonicalKey = %q, want MHC", v.CanonicalKey)
	}
	if v.Holder.Kind != KindCommentary {
		t.Errorf("holder kind = %q, want commentary", v.Holder.Kind)
	}
}
