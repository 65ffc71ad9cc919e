package encode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"

	cvlensErrors "cvlens/internal/errors"
)

// buildTestPDF produces a small real PDF so validation exercises the actual parser.
func buildTestPDF(t *testing.T, lines ...string) []byte {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for _, line := range lines {
		doc.Cell(0, 8, line)
		doc.Ln(8)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("failed to build test PDF: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeUploadValidPDF(t *testing.T) {
	data := buildTestPDF(t, "Jane Doe", "Senior Engineer")

	encoded, err := EncodeUpload("cv.pdf", "application/pdf", data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoded.MIMEType != MIMEPDF {
		t.Errorf("MIMEType = %q, want %q", encoded.MIMEType, MIMEPDF)
	}
	if encoded.FileName != "cv.pdf" {
		t.Errorf("FileName = %q, want cv.pdf", encoded.FileName)
	}
	if encoded.Data == "" {
		t.Error("expected base64 payload")
	}
}

func TestEncodeUploadAcceptsExtensionWhenMIMEMissing(t *testing.T) {
	data := buildTestPDF(t, "content")

	if _, err := EncodeUpload("cv.pdf", "", data, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEncodeUploadRejectsNonPDF(t *testing.T) {
	cases := []struct {
		name         string
		fileName     string
		declaredMIME string
		data         []byte
	}{
		{"wrong mime", "cv.docx", "application/msword", []byte("not a pdf")},
		{"wrong extension no mime", "cv.txt", "", []byte("plain text")},
		{"renamed text file", "cv.pdf", "application/pdf", []byte("plain text pretending")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EncodeUpload(tc.fileName, tc.declaredMIME, tc.data, 0)
			if err == nil {
				t.Fatal("expected rejection")
			}

			var appErr *cvlensErrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != cvlensErrors.ErrCodeUnsupportedFile {
				t.Errorf("code = %q, want %q", appErr.Code, cvlensErrors.ErrCodeUnsupportedFile)
			}
		})
	}
}

func TestEncodeUploadRejectsCorruptPDF(t *testing.T) {
	// Valid magic bytes but garbage body
	data := []byte("%PDF-1.4 this is not actually a pdf structure")

	_, err := EncodeUpload("cv.pdf", "application/pdf", data, 0)
	var appErr *cvlensErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != cvlensErrors.ErrCodeFileNotReadable {
		t.Errorf("code = %q, want %q", appErr.Code, cvlensErrors.ErrCodeFileNotReadable)
	}
}

func TestEncodeUploadRejectsEmptyFile(t *testing.T) {
	_, err := EncodeUpload("cv.pdf", "application/pdf", nil, 0)
	if err == nil {
		t.Fatal("expected rejection of empty file")
	}
}

func TestEncodeUploadEnforcesSizeLimit(t *testing.T) {
	data := buildTestPDF(t, "content")

	_, err := EncodeUpload("cv.pdf", "application/pdf", data, 16)
	var appErr *cvlensErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != cvlensErrors.ErrCodeInvalidFormat {
		t.Errorf("code = %q, want %q", appErr.Code, cvlensErrors.ErrCodeInvalidFormat)
	}
}

func TestExtractText(t *testing.T) {
	data := buildTestPDF(t, "Jane Doe", "Go developer since 2015")

	text, err := ExtractText(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") {
		t.Errorf("extracted text missing expected content: %q", text)
	}
}
