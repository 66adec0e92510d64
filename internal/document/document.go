// Package document turns contract files and URLs into plain text for the
// analysis pipeline. Parsing of PDF and DOCX containers is delegated to
// pdftotext and the OOXML zip layout respectively.
package document

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/cache"
	"github.com/ppiankov/contractlens/internal/model"
)

// MIME types understood by the provider
const (
	MIMEText = "text/plain"
	MIMEHTML = "text/html"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPDF  = "application/pdf"
)

var (
	// ErrNoText is the "no text" signal: the document yielded only whitespace
	ErrNoText = eris.New("document: no text")
	// ErrUnsupportedType is returned for MIME types without an extractor
	ErrUnsupportedType = eris.New("document: unsupported type")
	// ErrDisallowed is returned when robots.txt forbids fetching a URL
	ErrDisallowed = eris.New("document: disallowed by robots.txt")
	// ErrTooLarge is returned when a document exceeds the configured byte limit
	ErrTooLarge = eris.New("document: too large")
)

// Source identifies one document. Exactly one of Data, Path or URL is used,
// in that order of preference.
type Source struct {
	Name     string // Display name; defaults to Path or URL
	MIMEType string // Declared type; sniffed when empty
	Data     []byte
	Path     string
	URL      string
}

// Text is the extracted plain text of a document
type Text struct {
	Content  string
	MIMEType string
	Source   string
	Cached   bool
}

// Extractor converts raw document bytes into text
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc adapts a function to Extractor
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

// Extract calls f
func (f ExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// Provider dispatches documents to extractors by MIME type
type Provider struct {
	extractors map[string]Extractor
	fetcher    *Fetcher
	cache      cache.Cache
	cacheTTL   time.Duration
	maxBytes   int64
}

// NewProvider creates a provider from configuration. c may be nil.
func NewProvider(cfg model.DocumentConfig, c cache.Cache, cacheTTL time.Duration) *Provider {
	return &Provider{
		extractors: map[string]Extractor{
			MIMEText: ExtractorFunc(extractPlain),
			MIMEHTML: ExtractorFunc(extractHTML),
			MIMEDOCX: ExtractorFunc(extractDOCX),
			MIMEPDF:  NewPdfToText(cfg.PdfToTextPath),
		},
		fetcher:  NewFetcher(cfg),
		cache:    c,
		cacheTTL: cacheTTL,
		maxBytes: cfg.MaxBytes,
	}
}

// Register installs or replaces the extractor for a MIME type
func (p *Provider) Register(mimeType string, e Extractor) {
	p.extractors[mimeType] = e
}

// Open builds a Source from a file path or http(s) URL
func Open(ref string) Source {
	if IsURL(ref) {
		return Source{Name: ref, URL: ref}
	}
	return Source{Name: ref, Path: ref}
}

// IsURL reports whether ref is an http(s) URL
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Extract returns the text of src. Fetched URLs are cached by address so a
// repeat analysis skips the download.
func (p *Provider) Extract(ctx context.Context, src Source) (*Text, error) {
	urlKey := ""
	if src.URL != "" && src.Data == nil && p.cache != nil {
		urlKey = cache.URLKey(src.URL)
		if cached, found := p.cache.Get(urlKey); found {
			if mimeType, content, ok := strings.Cut(string(cached), "\n"); ok {
				return &Text{Content: content, MIMEType: mimeType, Source: nameOr(src.Name, src.URL), Cached: true}, nil
			}
		}
	}

	data, declared, name, err := p.read(ctx, src)
	if err != nil {
		return nil, err
	}

	mimeType := DetectMIME(name, declared, data)
	extractor, ok := p.extractors[mimeType]
	if !ok {
		return nil, eris.Wrapf(ErrUnsupportedType, "%s (%s)", name, mimeType)
	}

	key := cache.Key(mimeType, data)
	if p.cache != nil {
		if cached, found := p.cache.Get(key); found {
			return &Text{Content: string(cached), MIMEType: mimeType, Source: name, Cached: true}, nil
		}
	}

	content, err := extractor.Extract(ctx, data)
	if err != nil {
		return nil, eris.Wrapf(err, "document: extract %s", name)
	}
	if strings.TrimSpace(content) == "" {
		return nil, eris.Wrap(ErrNoText, name)
	}

	p.remember(key, content, name)
	if urlKey != "" {
		p.remember(urlKey, mimeType+"\n"+content, name)
	}

	return &Text{Content: content, MIMEType: mimeType, Source: name}, nil
}

func (p *Provider) remember(key, value, name string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(key, []byte(value), p.cacheTTL); err != nil {
		zap.L().Warn("document cache write failed", zap.String("source", name), zap.Error(err))
	}
}

// read loads the raw bytes and any declared type of src
func (p *Provider) read(ctx context.Context, src Source) ([]byte, string, string, error) {
	switch {
	case src.Data != nil:
		if p.maxBytes > 0 && int64(len(src.Data)) > p.maxBytes {
			return nil, "", "", eris.Wrapf(ErrTooLarge, "%d bytes", len(src.Data))
		}
		return src.Data, src.MIMEType, src.Name, nil

	case src.Path != "":
		info, err := os.Stat(src.Path)
		if err != nil {
			return nil, "", "", eris.Wrap(err, "document: stat file")
		}
		if p.maxBytes > 0 && info.Size() > p.maxBytes {
			return nil, "", "", eris.Wrapf(ErrTooLarge, "%s is %d bytes", src.Path, info.Size())
		}
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, "", "", eris.Wrap(err, "document: read file")
		}
		return data, src.MIMEType, nameOr(src.Name, src.Path), nil

	case src.URL != "":
		res, err := p.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			return nil, "", "", err
		}
		declared := src.MIMEType
		if declared == "" {
			declared = res.ContentType
		}
		return res.Body, declared, nameOr(src.Name, res.FinalURL), nil

	default:
		return nil, "", "", eris.New("document: empty source")
	}
}

// DetectMIME resolves a document's type from its declared type, its name's
// extension, and finally a content sniff.
func DetectMIME(name, declared string, data []byte) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			switch mt {
			case "application/octet-stream", "binary/octet-stream":
				// fall through to the extension
			case "application/xhtml+xml":
				return MIMEHTML
			default:
				return mt
			}
		}
	}

	switch strings.ToLower(filepath.Ext(strings.SplitN(name, "?", 2)[0])) {
	case ".txt", ".text", ".md":
		return MIMEText
	case ".html", ".htm", ".xhtml":
		return MIMEHTML
	case ".docx":
		return MIMEDOCX
	case ".pdf":
		return MIMEPDF
	}

	if len(data) > 0 {
		mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
		return mt
	}
	return MIMEText
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
