// File path: internal/upload/pdf.go
package upload

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/advisor_portal/internal/portal"
)

// SamplePDF renders a minimal one-page PDF describing a project document.
// Cross-reference offsets are computed from the rendered objects.
func SamplePDF(ref portal.FileRef, project portal.Project, generated string) []byte {
	title := strings.TrimSuffix(ref.Name, ".pdf")
	stream := strings.Join([]string{
		"BT",
		"/F1 14 Tf",
		"50 750 Td",
		fmt.Sprintf("(%s) Tj", pdfEscape(title)),
		"0 -30 Td",
		fmt.Sprintf("(%s) Tj", pdfEscape(ref.Summary)),
		"0 -30 Td",
		fmt.Sprintf("(Project: %s) Tj", pdfEscape(project.Name)),
		"0 -20 Td",
		fmt.Sprintf("(Generated on: %s) Tj", pdfEscape(generated)),
		"0 -20 Td",
		fmt.Sprintf("(Status: %s) Tj", pdfEscape(string(project.Status))),
		"ET",
	}, "\n")

	objects := []string{
		"<<\n/Type /Catalog\n/Pages 2 0 R\n>>",
		"<<\n/Type /Pages\n/Kids [3 0 R]\n/Count 1\n>>",
		"<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n/Contents 4 0 R\n/Resources << /Font << /F1 5 0 R >> >>\n>>",
		fmt.Sprintf("<<\n/Length %d\n>>\nstream\n%s\nendstream", len(stream), stream),
		"<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>",
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<<\n/Size %d\n/Root 1 0 R\n>>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xref)
	return []byte(b.String())
}

func pdfEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
