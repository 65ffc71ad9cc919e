package export

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"cvlens/internal/errors"
)

// DefaultFileName is the download name for an exported refined CV.
const DefaultFileName = "Refined_CV.pdf"

// RefinedCVPDF renders the refined CV text into a downloadable PDF with a
// fixed margin and wrapped lines. The input is plain text; any formatting
// beyond line breaks comes from the AI output itself.
func RefinedCVPDF(refinedText string) ([]byte, error) {
	if strings.TrimSpace(refinedText) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"There is no refined CV to download yet", nil)
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Refined CV", false)
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 11)

	for _, line := range strings.Split(refinedText, "\n") {
		if strings.TrimSpace(line) == "" {
			doc.Ln(5)
			continue
		}
		doc.MultiCell(0, 5.5, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidFormat,
			"Failed to generate the CV document", err)
	}
	return buf.Bytes(), nil
}
