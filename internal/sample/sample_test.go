package sample

import (
	"strings"
	"testing"

	"cvlens/internal/encode"
)

func TestCVProducesValidEncodedPDF(t *testing.T) {
	file, err := CV()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.MIMEType != encode.MIMEPDF {
		t.Errorf("MIMEType = %q, want %q", file.MIMEType, encode.MIMEPDF)
	}
	if file.FileName != "sample-cv.pdf" {
		t.Errorf("FileName = %q", file.FileName)
	}
	if file.Data == "" {
		t.Error("expected base64 payload")
	}
}

func TestCVPDFContainsCandidateText(t *testing.T) {
	data, err := CVPDF()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := encode.ExtractText(data)
	if err != nil {
		t.Fatalf("failed to extract text from sample PDF: %v", err)
	}
	if !strings.Contains(text, "Alex Morgan") {
		t.Errorf("sample PDF text missing candidate name: %q", text)
	}
}

func TestSampleJobDescriptionIsUsable(t *testing.T) {
	if strings.TrimSpace(SampleJobDescription) == "" {
		t.Fatal("sample job description must not be empty")
	}
	if !strings.Contains(SampleJobDescription, "Go") {
		t.Error("sample job description should describe a Go role")
	}
}
