package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cvlens/internal/sample"

	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [directory]",
	Short: "Write the built-in sample CV and job description to disk",
	Long: `Write the built-in sample inputs to a directory (default: current
directory): sample-cv.pdf and sample-job.txt. Useful for trying the analyze
command without your own documents:

  cvlens sample
  cvlens analyze sample-cv.pdf sample-job.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSample,
}

func runSample(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	pdfBytes, err := sample.CVPDF()
	if err != nil {
		return fmt.Errorf("failed to build sample CV: %w", err)
	}

	cvPath := filepath.Join(dir, "sample-cv.pdf")
	if err := os.WriteFile(cvPath, pdfBytes, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", cvPath, err)
	}

	jobPath := filepath.Join(dir, "sample-job.txt")
	if err := os.WriteFile(jobPath, []byte(sample.SampleJobDescription), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", jobPath, err)
	}

	logger.Info("Sample inputs written", "cv", cvPath, "job", jobPath)
	fmt.Printf("Wrote %s and %s\n", cvPath, jobPath)
	return nil
}
