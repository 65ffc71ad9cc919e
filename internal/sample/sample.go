package sample

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"cvlens/internal/encode"
	"cvlens/internal/errors"
	"cvlens/internal/types"
)

// SampleJobDescription is the built-in job description paired with the
// sample CV so a first-time user can run an analysis without supplying
// their own inputs.
const SampleJobDescription = `Senior Backend Engineer (Go)

We are looking for a Senior Backend Engineer to join our platform team. You will design and operate high-throughput services that power our customer-facing products.

Responsibilities:
- Design, build, and maintain Go services and internal APIs
- Own observability for your services: metrics, tracing, and structured logs
- Work with PostgreSQL and Redis at scale
- Deploy and operate workloads on Kubernetes
- Mentor mid-level engineers and lead design reviews

Requirements:
- 5+ years of backend development experience, 3+ in Go
- Strong grasp of concurrency, profiling, and performance tuning
- Production experience with PostgreSQL, Redis, and message queues
- Familiarity with Docker, Kubernetes, and CI/CD pipelines
- Clear written communication and a collaborative working style

Nice to have:
- Experience with gRPC and event-driven architectures
- Contributions to open-source Go projects`

var sampleCVLines = []string{
	"Alex Morgan",
	"alex.morgan@example.com | +1 555 0100 | Berlin, Germany",
	"",
	"SUMMARY",
	"Backend engineer with 6 years of experience building distributed systems in Go and Python.",
	"Focused on reliability, observability, and developer experience.",
	"",
	"SKILLS",
	"Go, Python, PostgreSQL, Redis, Docker, gRPC, REST APIs, Prometheus, Git",
	"",
	"EXPERIENCE",
	"Senior Software Engineer - Nimbus Systems (2021 - present)",
	"- Led migration of a monolithic billing service to Go microservices, cutting p99 latency by 40%",
	"- Introduced distributed tracing and SLO-based alerting across 12 services",
	"- Mentored three junior engineers through promotion to mid-level",
	"",
	"Software Engineer - DataForge (2018 - 2021)",
	"- Built ingestion pipelines processing 50M events per day in Go",
	"- Designed PostgreSQL schemas and query tuning for analytics workloads",
	"",
	"EDUCATION",
	"BSc Computer Science, University of Hamburg (2014 - 2018)",
	"",
	"CERTIFICATIONS",
	"CKA - Certified Kubernetes Administrator (2023)",
}

// CVPDF renders the built-in sample CV as a PDF document.
func CVPDF() ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Sample CV - Alex Morgan", false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 11)

	for _, line := range sampleCVLines {
		if line == "" {
			doc.Ln(4)
			continue
		}
		if line == strings.ToUpper(line) && len(line) < 20 {
			doc.SetFont("Helvetica", "B", 11)
			doc.MultiCell(0, 6, line, "", "L", false)
			doc.SetFont("Helvetica", "", 11)
			continue
		}
		doc.MultiCell(0, 6, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidFormat,
			"Failed to generate the sample CV document", err)
	}
	return buf.Bytes(), nil
}

// CV returns the sample CV already validated and encoded for analysis,
// exactly as an uploaded file would be.
func CV() (*types.EncodedFile, error) {
	data, err := CVPDF()
	if err != nil {
		return nil, err
	}
	return encode.EncodeUpload("sample-cv.pdf", encode.MIMEPDF, data, 0)
}
