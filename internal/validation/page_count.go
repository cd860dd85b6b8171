// Package validation checks finished reports: block placements against the page
// geometry and the page count of the serialized PDF.
package validation

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// pageObject matches a page dictionary but not the /Pages tree node.
var pageObject = regexp.MustCompile(`/Type\s*/Page\b`)

// CountPDFPages counts the number of pages in a PDF file.
// It tries pdfinfo first, then ghostscript, then scans the file itself.
func CountPDFPages(pdfPath string) (int, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return 0, &FileReadError{Message: "cannot read PDF " + pdfPath, Cause: err}
	}

	if count, err := countPagesWithPdfinfo(pdfPath); err == nil {
		return count, nil
	}
	if count, err := countPagesWithGhostscript(pdfPath); err == nil {
		return count, nil
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return 0, &FileReadError{Message: "cannot read PDF " + pdfPath, Cause: err}
	}
	return CountPDFPagesBytes(data)
}

// CountPDFPagesBytes counts page objects in an uncompressed-xref PDF such as
// the ones this module writes. It does not need external tools.
func CountPDFPagesBytes(data []byte) (int, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, &Error{Message: "not a PDF document"}
	}
	count := len(pageObject.FindAll(data, -1))
	if count == 0 {
		return 0, &Error{Message: "no page objects found"}
	}
	return count, nil
}

// countPagesWithPdfinfo uses pdfinfo to count PDF pages
func countPagesWithPdfinfo(pdfPath string) (int, error) {
	cmd := exec.Command("pdfinfo", pdfPath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo command failed: %w", err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			if count, err := strconv.Atoi(parts[1]); err == nil {
				return count, nil
			}
		}
	}
	return 0, fmt.Errorf("could not parse page count from pdfinfo output")
}

// countPagesWithGhostscript uses ghostscript to count PDF pages
func countPagesWithGhostscript(pdfPath string) (int, error) {
	script := fmt.Sprintf("(%s) (r) file runpdfbegin pdfpagecount = quit", pdfPath)
	cmd := exec.Command("gs", "-q", "-dNODISPLAY", "-dNOSAFER", "-c", script)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ghostscript command failed: %w", err)
	}

	outputStr := strings.TrimSpace(string(output))
	count, err := strconv.Atoi(outputStr)
	if err != nil {
		return 0, fmt.Errorf("could not parse page count from ghostscript output: %s", outputStr)
	}
	return count, nil
}
