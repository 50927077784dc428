// Package extract turns uploaded résumé files into plain text for prompts.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MaxResumeChars bounds the text passed on to prompts.
const MaxResumeChars = 12000

var (
	ErrEmpty       = errors.New("empty resume file")
	ErrUnsupported = errors.New("unsupported resume format")
)

type format int

const (
	formatUnknown format = iota
	formatPDF
	formatDOCX
	formatText
)

const docxBody = "word/document.xml"

// ResumeText extracts a PDF, DOCX or plain-text résumé, drops blank lines, collapses
// whitespace runs and truncates to MaxResumeChars.
func ResumeText(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}

	var (
		raw string
		err error
	)
	switch detect(mimeType, fileName, data) {
	case formatPDF:
		raw, err = pdfText(data)
	case formatDOCX:
		raw, err = docxText(data)
	case formatText:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text is not UTF-8", ErrUnsupported)
		}
		raw = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, describe(mimeType, fileName))
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", describe(mimeType, fileName), err)
	}

	text := compact(raw)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// detect trusts the declared type first, then the extension, then the bytes.
func detect(mimeType, fileName string, data []byte) format {
	declared, _, _ := mime.ParseMediaType(mimeType)
	switch declared {
	case "application/pdf":
		return formatPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return formatDOCX
	case "text/plain", "text/markdown":
		return formatText
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return formatPDF
	case ".docx":
		return formatDOCX
	case ".txt", ".md":
		return formatText
	}

	sniffed := http.DetectContentType(data)
	switch {
	case sniffed == "application/pdf":
		return formatPDF
	case sniffed == "application/zip" && hasZipEntry(data, docxBody):
		return formatDOCX
	case strings.HasPrefix(sniffed, "text/plain"):
		return formatText
	}
	return formatUnknown
}

func describe(mimeType, fileName string) string {
	if ext := filepath.Ext(fileName); ext != "" {
		return strings.ToLower(ext)
	}
	if mimeType != "" {
		return mimeType
	}
	return "unknown"
}

// pdfText converts parser panics on malformed files into errors.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func openZipEntry(data []byte, name string) (io.ReadCloser, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("%s not found", name)
}

func hasZipEntry(data []byte, name string) bool {
	rc, err := openZipEntry(data, name)
	if err != nil {
		return false
	}
	rc.Close()
	return true
}

// docxText walks the WordprocessingML body, ending a line at each paragraph or break.
func docxText(data []byte) (string, error) {
	rc, err := openZipEntry(data, docxBody)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var b strings.Builder
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				b.WriteByte(' ')
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				b.WriteByte('\n')
			}
		}
	}
	return b.String(), nil
}

func compact(raw string) string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	text := strings.Join(out, "\n")
	if utf8.RuneCountInString(text) > MaxResumeChars {
		text = string([]rune(text)[:MaxResumeChars])
	}
	return text
}
