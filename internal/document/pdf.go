package document

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from PDFs using the pdftotext CLI tool
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// Extract spools data to a temporary file and runs pdftotext -layout on it
func (p *PdfToText) Extract(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "contractlens-*.pdf")
	if err != nil {
		return "", eris.Wrap(err, "create temp pdf")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", eris.Wrap(err, "write temp pdf")
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrap(err, "close temp pdf")
	}

	return p.ExtractFile(ctx, tmp.Name())
}

// ExtractFile runs pdftotext -layout on the given PDF and returns stdout
func (p *PdfToText) ExtractFile(ctx context.Context, pdfPath string) (string, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	return stdout.String(), nil
}
