package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format selects the output representation of a [Program].
type Format int

// Supported program output formats.
const (
	FormatText Format = iota // text
	FormatJSON               // json
	FormatYAML               // yaml
	FormatTree               // tree
)

var formatName = map[Format]string{
	FormatText: "text",
	FormatJSON: "json",
	FormatYAML: "yaml",
	FormatTree: "tree",
}

// String returns the name of the format.
func (f Format) String() string {
	if s, ok := formatName[f]; ok {
		return s
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Formats returns an iterator over all format names in order.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for f := FormatText; f <= FormatTree; f++ {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat returns the [Format] with the given case-insensitive name.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatName {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}

	return 0, ErrInvalidFormat.With(slog.String("format", s))
}

// ToList converts the program to a list of generic maps for serialization.
func (p *Program) ToList() []map[string]any {
	list := make([]map[string]any, 0, p.Len())

	for in := range p.All() {
		list = append(list, map[string]any{
			"op":   in.Op.String(),
			"line": in.Line,
			"text": in.Text,
		})
	}

	return list
}

// MarshalJSON implements json.Marshaler.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToList())
}

// Format writes the program to w in the given format.
// Indent is the number of spaces per nesting level. Zero selects the
// compact form where one exists.
func (p *Program) Format(
	ctx context.Context,
	w io.Writer,
	format Format,
	indent int,
) error {
	switch format {
	case FormatText:
		_, err := p.WriteTo(w)

		return err

	case FormatJSON:
		return p.FormatJSON(ctx, w, indent)

	case FormatYAML:
		return p.FormatYAML(ctx, w, indent)

	case FormatTree:
		return p.Print(ctx, w, indent)

	default:
		return ErrInvalidFormat.With(slog.String("format", format.String()))
	}
}

// FormatJSON writes the program as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToList(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}

// Print writes a human-readable outline of the program, one instruction per
// line.
func (p *Program) Print(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	pad := strings.Repeat(" ", indent)

	if _, err := fmt.Fprintf(w, "Program (%d)\n", p.Len()); err != nil {
		return err
	}

	for i, in := range p.Instructions {
		_, err := fmt.Fprintf(w, "%s[%d] %s @%d: %s\n",
			pad, i, in.Op, in.Line, strconv.Quote(in.Text))
		if err != nil {
			return err
		}
	}

	return nil
}
