// Package validation provides input validation for user-supplied paths
// and dataset files, to prevent path traversal and to reject files whose
// content does not match their claimed format.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
)

// Resource limits.
const (
	// MaxFileSize is the maximum allowed dataset file size (64 MB).
	MaxFileSize = 64 << 20
	// MaxFilenameLength is the maximum allowed filename length.
	MaxFilenameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrPathTooLong      = errors.New("path too long")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
)

// ValidateFilename checks if a filename is safe. It rejects filenames
// with path separators, control characters, and reserved names.
func ValidateFilename(filename string) error {
	if filename == "" {
		return ErrInvalidFilename
	}

	if len(filename) > MaxFilenameLength {
		return ErrFilenameTooLong
	}

	if filename == "." || filename == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	}

	if strings.ContainsAny(filename, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	}

	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidFilename)
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
		}
	}

	// Leading hyphens can be confused with command flags
	if strings.HasPrefix(filename, "-") {
		return fmt.Errorf("%w: filename cannot start with hyphen", ErrInvalidFilename)
	}

	return nil
}

// ValidatePath performs path validation without requiring a base
// directory. It checks length limits and invalid characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// FileType represents a validated file type.
type FileType string

const (
	// Compressed dataset
	FileTypeXMLXZ FileType = "xml.xz"
	FileTypeXZ    FileType = "xz"

	// Export formats
	FileTypeSQLite FileType = "sqlite"
	FileTypeXML    FileType = "xml"
	FileTypeJSON   FileType = "json"
	FileTypeText   FileType = "text"

	// Unknown
	FileTypeUnknown FileType = "unknown"
)

// magicBytes defines magic byte signatures for file type detection.
var magicBytes = []struct {
	fileType FileType
	magic    []byte
	offset   int
}{
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, 0},
	{FileTypeSQLite, []byte("SQLite format 3"), 0},
}

// ValidateFileType validates that a file's content matches its claimed
// type based on filename extension, reading magic bytes to verify.
// Returns the detected file type or an error on mismatch.
func ValidateFileType(reader io.Reader, filename string) (FileType, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(reader, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	detectedType := detectFileTypeFromMagic(buf)
	expectedType := detectFileTypeFromExtension(filename)

	// XZ is a compression wrapper; the XML inside cannot be checked
	// until decompressed.
	if expectedType == FileTypeXMLXZ && detectedType == FileTypeXZ {
		return FileTypeXMLXZ, nil
	}
	if expectedType == FileTypeXZ && detectedType == FileTypeXZ {
		return FileTypeXZ, nil
	}

	if detectedType == expectedType {
		return detectedType, nil
	}

	// XML/JSON/text files carry no magic bytes; accept them when the
	// content at least looks like text.
	if detectedType == FileTypeUnknown && (expectedType == FileTypeXML || expectedType == FileTypeJSON || expectedType == FileTypeText) {
		if isLikelyText(buf) {
			return expectedType, nil
		}
	}

	if detectedType != FileTypeUnknown && expectedType != FileTypeUnknown {
		return FileTypeUnknown, fmt.Errorf("file type mismatch: extension suggests %s but content is %s", expectedType, detectedType)
	}

	if detectedType == FileTypeUnknown {
		return expectedType, nil
	}

	return detectedType, nil
}

// detectFileTypeFromMagic detects file type from magic bytes.
func detectFileTypeFromMagic(buf []byte) FileType {
	for _, sig := range magicBytes {
		if sig.offset+len(sig.magic) <= len(buf) {
			if bytes.Equal(buf[sig.offset:sig.offset+len(sig.magic)], sig.magic) {
				return sig.fileType
			}
		}
	}
	return FileTypeUnknown
}

// detectFileTypeFromExtension determines expected file type from
// filename extension.
func detectFileTypeFromExtension(filename string) FileType {
	lower := strings.ToLower(filename)

	// Multi-extension formats first
	if strings.HasSuffix(lower, ".xml.xz") {
		return FileTypeXMLXZ
	}

	ext := filepath.Ext(lower)
	switch ext {
	case ".xz":
		return FileTypeXZ
	case ".sqlite", ".db", ".sqlite3":
		return FileTypeSQLite
	case ".xml":
		return FileTypeXML
	case ".json":
		return FileTypeJSON
	case ".txt", ".tsv", ".md":
		return FileTypeText
	default:
		return FileTypeUnknown
	}
}

// isLikelyText checks if the buffer contains likely text content.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	// Null bytes are a strong indicator of binary content
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			control++
		}
		// UTF-8 continuation and start bytes are neutral
	}

	if printable > 0 && float64(printable)/float64(printable+control) > 0.95 {
		return true
	}

	return false
}
