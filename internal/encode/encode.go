package encode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"cvlens/internal/errors"
	"cvlens/internal/types"
)

const (
	// MIMEPDF is the only document type accepted for analysis.
	MIMEPDF = "application/pdf"

	pdfMagic = "%PDF-"
)

// EncodeUpload validates an uploaded document and converts it into the
// base64 payload sent to the AI service. Only PDF input is accepted; the
// type check combines the declared MIME type, the file extension, and the
// leading magic bytes so a renamed file cannot slip through. A document
// that claims to be a PDF but cannot be parsed is rejected as unreadable.
func EncodeUpload(fileName, declaredMIME string, data []byte, maxSize int64) (*types.EncodedFile, error) {
	if len(data) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeFileNotReadable,
			"The selected file is empty", nil).WithContext("file_name", fileName)
	}

	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("The file exceeds the maximum allowed size of %d bytes", maxSize),
			nil).WithContext("file_name", fileName).WithContext("file_size", len(data))
	}

	if !looksLikePDF(fileName, declaredMIME, data) {
		return nil, errors.NewValidationError(errors.ErrCodeUnsupportedFile,
			"Only PDF files are supported. Please select a PDF document.",
			nil).WithContext("file_name", fileName).WithContext("declared_mime", declaredMIME)
	}

	if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeFileNotReadable,
			"The PDF file could not be read. It may be corrupted or password-protected.",
			err).WithContext("file_name", fileName)
	}

	return &types.EncodedFile{
		FileName: fileName,
		MIMEType: MIMEPDF,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

// looksLikePDF applies the three cheap PDF checks before the full parse.
func looksLikePDF(fileName, declaredMIME string, data []byte) bool {
	mime := strings.ToLower(strings.TrimSpace(strings.Split(declaredMIME, ";")[0]))
	if mime != "" && mime != MIMEPDF {
		return false
	}

	if mime == "" && strings.ToLower(filepath.Ext(fileName)) != ".pdf" {
		return false
	}

	return bytes.HasPrefix(data, []byte(pdfMagic))
}

// DecodeData recovers the raw document bytes from an encoded file.
func DecodeData(file *types.EncodedFile) ([]byte, error) {
	if file == nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"No document is held", nil)
	}

	data, err := base64.StdEncoding.DecodeString(file.Data)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeFileNotReadable,
			"The document payload is not valid base64", err).WithContext("file_name", file.FileName)
	}
	return data, nil
}

// ExtractText pulls the plain text out of a PDF payload. The analysis
// request itself sends the document bytes inline; this is for verifying
// that generated and uploaded documents actually carry readable text.
func ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
