// Package render prints command results for the admin CLI.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type Printer struct {
	out    io.Writer
	format string
}

func NewPrinter(out io.Writer, format string) (*Printer, error) {
	switch format {
	case FormatYAML, FormatJSON:
	default:
		return nil, apperr.InvalidErr("output", fmt.Sprintf("unsupported output format %q", format))
	}
	return &Printer{out: out, format: format}, nil
}

func (p *Printer) Print(v any) error {
	if p.format == FormatJSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	// go through JSON so the yaml keys follow the json tags of the models
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	plain(&node)

	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func plain(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plain(c)
	}
}

// Message prints a single line for the operator.
func (p *Printer) Message(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Error prints the operator-facing part of err. Auth failures get a hint
// to log in again.
func Error(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", apperr.PublicMessage(err))
	if apperr.IsAuth(err) {
		fmt.Fprintln(w, "Run `admin login` with an admin account.")
	}
}

// ForCommand builds a printer for cmd's output, honouring an inherited
// --output flag when there is one.
func ForCommand(cmd *cobra.Command) (*Printer, error) {
	format := FormatYAML
	if f := cmd.Flag("output"); f != nil && f.Value.String() != "" {
		format = f.Value.String()
	}
	return NewPrinter(cmd.OutOrStdout(), format)
}
