package validation

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	valid := []string{"BibleVersionCodes.xml", "codes.json", "export_2022.tsv"}
	for _, name := range valid {
		if err := ValidateFilename(name); err != nil {
			t.Errorf("ValidateFilename(%q) failed: %v", name, err)
		}
	}

	invalid := []string{
		"",
		".",
		"..",
		"a/b.xml",
		"a\\b.xml",
		"codes\x00.xml",
		"-codes.xml",
		strings.Repeat("a", MaxFilenameLength+1),
	}
	for _, name := range invalid {
		if err := ValidateFilename(name); err == nil {
			t.Errorf("ValidateFilename(%q) should fail", name)
		}
	}
}

func TestValidatePath(t *testing.T) {
	if err := ValidatePath("data/codes.xml"); err != nil {
		t.Errorf("valid path rejected: %v", err)
	}
	if err := ValidatePath("/abs/path/codes.xml"); err != nil {
		t.Errorf("absolute paths are allowed here: %v", err)
	}
	if err := ValidatePath(""); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("empty path error = %v", err)
	}
	if err := ValidatePath("bad\x00path"); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("null byte error = %v", err)
	}
	if err := ValidatePath(strings.Repeat("a", MaxPathLength+1)); !errors.Is(err, ErrPathTooLong) {
		t.Errorf("overlong path error = %v", err)
	}
}

func TestValidateFileType(t *testing.T) {
	xzHeader := []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00, 0x04}
	sqliteHeader := append([]byte("SQLite format 3"), 0x00)
	xmlContent := []byte(`<?xml version="1.0"?><BibleVersionCodes/>`)

	tests := []struct {
		name     string
		content  []byte
		filename string
		want     FileType
		wantErr  bool
	}{
		{"xml dataset", xmlContent, "BibleVersionCodes.xml", FileTypeXML, false},
		{"compressed dataset", xzHeader, "BibleVersionCodes.xml.xz", FileTypeXMLXZ, false},
		{"bare xz", xzHeader, "data.xz", FileTypeXZ, false},
		{"sqlite export", sqliteHeader, "codes.db", FileTypeSQLite, false},
		{"json export", []byte(`{"AbbreviationsList": []}`), "codes.json", FileTypeJSON, false},
		{"tsv export", []byte("mainAbbreviation\tversionName\n"), "codes.tsv", FileTypeText, false},
		{"mislabeled sqlite", sqliteHeader, "codes.xml", FileTypeUnknown, true},
		{"mislabeled xz", xzHeader, "codes.json", FileTypeUnknown, true},
		{"unknown extension", xmlContent, "codes.dat", FileTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFileType(bytes.NewReader(tt.content), tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got type %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateFileType failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("type = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsLikelyText(t *testing.T) {
	if !isLikelyText([]byte("plain ascii content\n")) {
		t.Error("ascii should be text")
	}
	if isLikelyText([]byte{0x00, 0x01, 0x02}) {
		t.Error("null bytes should not be text")
	}
	if isLikelyText(nil) {
		t.Error("empty buffer should not be text")
	}
}
