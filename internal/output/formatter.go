package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/termenv"
)

// Formatter is the interface for output formatting
type Formatter interface {
	Print(data any) error
	PrintList(items any, columns []Column) error
	PrintError(err error)
	PrintHint(msg string)
}

// Column defines a column for table/list output
type Column struct {
	Name  string // Display name
	Key   string // Struct field name or map key
	Width int    // Width for rich mode (0 = auto)
}

// Modes lists the accepted output modes
func Modes() []string {
	return []string{"json", "plain", "rich"}
}

// New creates a formatter for the specified mode writing to stdout/stderr
func New(mode string) Formatter {
	return NewWithWriters(mode, os.Stdout, os.Stderr)
}

// NewWithWriters creates a formatter writing data to out and diagnostics to errOut
func NewWithWriters(mode string, out, errOut io.Writer) Formatter {
	switch mode {
	case "json":
		return &jsonFormatter{out: out, errOut: errOut}
	case "rich":
		return &richFormatter{out: out, errOut: errOut, profile: termenv.ColorProfile()}
	default:
		return &plainFormatter{out: out, errOut: errOut}
	}
}

// jsonFormatter outputs JSON
type jsonFormatter struct {
	out    io.Writer
	errOut io.Writer
}

func (f *jsonFormatter) Print(data any) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintList emits an array of objects keyed by column key
func (f *jsonFormatter) PrintList(items any, columns []Column) error {
	v := indirect(reflect.ValueOf(items))
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("PrintList requires a slice")
	}

	rows := make([]map[string]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		rows[i] = rowValues(v.Index(i), columns)
	}
	return f.Print(rows)
}

func (f *jsonFormatter) PrintError(err error) {
	enc := json.NewEncoder(f.errOut)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]string{"error": err.Error()})
}

func (f *jsonFormatter) PrintHint(msg string) {
	// Hints are for humans; JSON consumers only get the error object
}

// plainFormatter outputs tab-separated values
type plainFormatter struct {
	out    io.Writer
	errOut io.Writer
}

func (f *plainFormatter) Print(data any) error {
	v := indirect(reflect.ValueOf(data))

	if v.Kind() == reflect.Struct {
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			fmt.Fprintf(f.out, "%s\t%v\n", t.Field(i).Name, v.Field(i).Interface())
		}
		return nil
	}

	fmt.Fprintf(f.out, "%v\n", data)
	return nil
}

func (f *plainFormatter) PrintList(items any, columns []Column) error {
	v := indirect(reflect.ValueOf(items))
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("PrintList requires a slice")
	}

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
	}
	fmt.Fprintf(f.out, "%s\n", strings.Join(headers, "\t"))

	for i := 0; i < v.Len(); i++ {
		row := rowValues(v.Index(i), columns)
		values := make([]string, len(columns))
		for j, col := range columns {
			values[j] = row[col.Key]
		}
		fmt.Fprintf(f.out, "%s\n", strings.Join(values, "\t"))
	}

	return nil
}

func (f *plainFormatter) PrintError(err error) {
	fmt.Fprintf(f.errOut, "error: %v\n", err)
}

func (f *plainFormatter) PrintHint(msg string) {
	fmt.Fprintf(f.errOut, "hint: %v\n", msg)
}

// richFormatter outputs styled content for terminal
type richFormatter struct {
	out     io.Writer
	errOut  io.Writer
	profile termenv.Profile
}

func (f *richFormatter) Print(data any) error {
	v := indirect(reflect.ValueOf(data))

	if v.Kind() == reflect.Struct {
		t := v.Type()
		width := 0
		for i := 0; i < t.NumField(); i++ {
			width = max(width, len(t.Field(i).Name))
		}

		keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
		valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
		for i := 0; i < v.NumField(); i++ {
			fmt.Fprintf(f.out, "%s  %s\n",
				f.render(keyStyle, PadString(t.Field(i).Name, width)),
				f.render(valueStyle, fmt.Sprintf("%v", v.Field(i).Interface())),
			)
		}
		return nil
	}

	fmt.Fprintf(f.out, "%v\n", data)
	return nil
}

func (f *richFormatter) PrintList(items any, columns []Column) error {
	v := indirect(reflect.ValueOf(items))
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("PrintList requires a slice")
	}

	rows := make([]map[string]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		rows[i] = rowValues(v.Index(i), columns)
	}

	RenderTable(f.out, columns, rows)
	return nil
}

func (f *richFormatter) PrintError(err error) {
	errorStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9"))

	fmt.Fprintf(f.errOut, "%s\n", f.render(errorStyle, "error: "+err.Error()))
}

func (f *richFormatter) PrintHint(msg string) {
	hintStyle := lipgloss.NewStyle().
		Faint(true).
		Foreground(lipgloss.Color("8"))

	fmt.Fprintf(f.errOut, "%s\n", f.render(hintStyle, "hint: "+msg))
}

// render skips styling on terminals without color support
func (f *richFormatter) render(style lipgloss.Style, s string) string {
	if f.profile == termenv.Ascii {
		return s
	}
	return style.Render(s)
}

func indirect(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Ptr {
		return v.Elem()
	}
	return v
}

// rowValues extracts column values from a struct or map item
func rowValues(item reflect.Value, columns []Column) map[string]string {
	item = indirect(item)
	row := make(map[string]string, len(columns))
	for _, col := range columns {
		var field reflect.Value
		switch item.Kind() {
		case reflect.Map:
			field = item.MapIndex(reflect.ValueOf(col.Key))
		case reflect.Struct:
			field = item.FieldByName(col.Key)
		}
		if field.IsValid() {
			row[col.Key] = fmt.Sprintf("%v", field.Interface())
		}
	}
	return row
}
