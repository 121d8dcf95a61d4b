// ABOUTME: Text extraction for indexable files (plain text, code, HTML, PDF)
// ABOUTME: Produces the UTF-8 text the indexer chunks, truncated to a fixed size
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// MaxChars is the extracted text limit, in characters
const MaxChars = 100000

// ErrUnsupported is wrapped by Error for files that cannot be read as text
var ErrUnsupported = errors.New("unsupported file type")

// Error is returned when a file cannot be extracted
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	textExtensions = map[string]bool{
		".txt": true, ".md": true, ".markdown": true, ".rst": true,
		".json": true, ".yaml": true, ".yml": true, ".toml": true, ".csv": true,
	}

	codeExtensions = map[string]bool{
		".py": true, ".js": true, ".ts": true, ".rs": true, ".java": true,
		".cpp": true, ".c": true, ".h": true, ".go": true, ".rb": true,
	}
)

// Supported reports whether path has an extension File handles natively
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return textExtensions[ext] || codeExtensions[ext] || ext == ".html" || ext == ".htm" || ext == ".pdf"
}

// File reads path and returns its text content
func File(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		content string
		err     error
	)

	switch {
	case ext == ".pdf":
		content, err = readPDF(path)
	case ext == ".html" || ext == ".htm":
		var raw string
		raw, err = readText(path)
		content = StripHTML(raw)
	case codeExtensions[ext]:
		var raw string
		raw, err = readText(path)
		content = fmt.Sprintf("File: %s\nLanguage: %s\n\n%s", filepath.Base(path), strings.TrimPrefix(ext, "."), raw)
	case textExtensions[ext]:
		content, err = readText(path)
	default:
		content, err = readUnknown(path)
	}
	if err != nil {
		return "", &Error{Path: path, Err: err}
	}

	return Truncate(content, MaxChars), nil
}

// DocumentID derives a stable document id from the file's absolute path,
// so re-indexing the same file replaces its chunks
func DocumentID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "doc_" + uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs))).String()
}

// Truncate cuts text to maxChars characters and appends a truncation note
func Truncate(text string, maxChars int) string {
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	count := 0
	for i := range text {
		if count == maxChars {
			return fmt.Sprintf("%s...\n\n[Content truncated - showing first %d characters]", text[:i], maxChars)
		}
		count++
	}
	return text
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

// readUnknown accepts files with unknown extensions only when they look like text
func readUnknown(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	return string(data), nil
}

func readPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String()), nil
}

var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|br|hr)[^>]*>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
)

// StripHTML removes scripts, styles and tags and returns readable text, one block per line
func StripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = blockElements.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
