package cli

import (
	"encoding/json"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ppiankov/contractlens/internal/document"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// sanitizeFilename turns a file path or URL into a safe report base name.
// Files keep their base name without extension; URLs keep host and path.
func sanitizeFilename(ref string) string {
	s := ref
	if document.IsURL(ref) {
		if u, err := url.Parse(ref); err == nil {
			s = u.Host + u.Path
		}
	} else {
		s = filepath.Base(s)
		s = strings.TrimSuffix(s, filepath.Ext(s))
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), "._-")
	if len(out) > 100 {
		out = out[:100]
	}
	if out == "" {
		out = "contract"
	}
	return out
}
