package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/sandeepkv93/tasks/internal/model"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatPDF      Format = "pdf"
)

// FormatForPath picks a format from an explicit name, falling back to the
// file extension and then to Markdown.
func FormatForPath(path, explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "json":
		return FormatJSON
	case "csv":
		return FormatCSV
	case "pdf":
		return FormatPDF
	default:
		return FormatMarkdown
	}
}

func Export(state model.TaskState, filter model.Filter, format Format) ([]byte, error) {
	todos := model.Visible(state, filter)
	switch format {
	case FormatJSON:
		return json.MarshalIndent(todos, "", "  ")
	case FormatCSV:
		var b bytes.Buffer
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "text", "completed"})
		for _, todo := range todos {
			_ = w.Write([]string{strconv.FormatInt(todo.ID, 10), todo.Text, strconv.FormatBool(todo.Completed)})
		}
		w.Flush()
		return b.Bytes(), w.Error()
	case FormatMarkdown:
		return []byte(Markdown(state, filter)), nil
	case FormatPDF:
		var buf bytes.Buffer
		if err := WritePDF(&buf, state, filter); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

// Markdown renders the filtered list as a GitHub task list.
func Markdown(state model.TaskState, filter model.Filter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tasks (%s)\n\n", filter)
	fmt.Fprintf(&b, "%s\n\n", Summary(state))
	todos := model.Visible(state, filter)
	if len(todos) == 0 {
		b.WriteString("_nothing here_\n")
		return b.String()
	}
	for _, todo := range todos {
		mark := " "
		if todo.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, todo.Text)
	}
	return b.String()
}

func Summary(state model.TaskState) string {
	return fmt.Sprintf("total %d · completed %d · pending %d", state.Length, state.Completed, state.Pending)
}

// WritePDF writes a one-page report of the filtered list: title, counters,
// then one row per todo with a check column.
func WritePDF(w io.Writer, state model.TaskState, filter model.Filter) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, tr(fmt.Sprintf("Tasks (%s)", filter)))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 8, fmt.Sprintf("total %d / completed %d / pending %d", state.Length, state.Completed, state.Pending))
	pdf.Ln(10)
	for _, todo := range model.Visible(state, filter) {
		mark := "[ ]"
		if todo.Completed {
			mark = "[x]"
		}
		pdf.CellFormat(12, 6, mark, "0", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, tr(todo.Text), "0", "L", false)
	}
	return pdf.Output(w)
}
