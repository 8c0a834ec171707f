package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Output управляет форматированием вывода CLI.
//
// Данные идут в w (stdout), сообщения в errW (stderr).
// Цвета включаются, только если w — терминал.
type Output struct {
	jsonMode bool
	w        io.Writer
	errW     io.Writer
	styles   statusStyles
}

// statusStyles — цвета статусов.
type statusStyles struct {
	ok   lipgloss.Style
	fail lipgloss.Style
	skip lipgloss.Style
	dim  lipgloss.Style
}

// NewOutput создаёт Output. Если jsonMode=true, данные выводятся в JSON.
func NewOutput(w, errW io.Writer, jsonMode bool) *Output {
	r := lipgloss.NewRenderer(w)
	return &Output{
		jsonMode: jsonMode,
		w:        w,
		errW:     errW,
		styles: statusStyles{
			ok:   r.NewStyle().Foreground(lipgloss.Color("#3FB950")).Bold(true),
			fail: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
			skip: r.NewStyle().Foreground(lipgloss.Color("#D29922")),
			dim:  r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		},
	}
}

// Print выводит данные: таблицу или JSON в зависимости от режима.
func (o *Output) Print(headers []string, rows [][]string, jsonData any) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	o.Table(headers, rows)
}

// Table выводит данные в виде таблицы через tabwriter.
func (o *Output) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	tw.Flush()
}

// JSON выводит данные в формате JSON с отступами.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// Status раскрашивает статус job или run.
func (o *Output) Status(status string) string {
	switch status {
	case "SUCCESS", "SUCCEEDED":
		return o.styles.ok.Render(status)
	case "FAILED":
		return o.styles.fail.Render(status)
	case "SKIPPED":
		return o.styles.skip.Render(status)
	default:
		return o.styles.dim.Render(status)
	}
}

// Success выводит сообщение об успехе в stderr.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// Warn выводит предупреждение в stderr.
func (o *Output) Warn(msg string) {
	fmt.Fprintln(o.errW, "Warning: "+msg)
}

// Error выводит сообщение об ошибке в stderr.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errW, "Error: "+msg)
}

// formatDuration округляет длительность для таблиц.
func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return d.String()
	}
	return d.Round(100 * time.Millisecond).String()
}
