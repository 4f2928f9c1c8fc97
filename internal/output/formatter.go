package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rgehrsitz/sgprop/internal/domain"
)

// Formatter renders a portfolio summary into bytes
type Formatter interface {
	Name() string
	Format(summary *domain.PortfolioSummary) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(summary *domain.PortfolioSummary) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(summary *domain.PortfolioSummary) ([]byte, error) {
	return f.F(summary)
}

var formatterAliases = map[string]string{
	"console": "table",
	"text":    "table",
	"":        "table",
}

var formatters = map[string]func() Formatter{
	"table":        func() Formatter { return &TableFormatter{} },
	"json":         func() Formatter { return &JSONFormatter{Pretty: true} },
	"json-compact": func() Formatter { return &JSONFormatter{} },
	"csv":          func() Formatter { return &CSVFormatter{} },
}

// GetFormatterByName resolves a (case-insensitive) format name or alias
func GetFormatterByName(name string) (Formatter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := formatterAliases[key]; ok {
		key = alias
	}
	build, ok := formatters[key]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (available: %s)", name,
			strings.Join(AvailableFormatterNames(), ", "))
	}
	return build(), nil
}

// AvailableFormatterNames lists the canonical format names
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted formats the summary and writes it to w
func WriteFormatted(w io.Writer, f Formatter, summary *domain.PortfolioSummary) error {
	if summary == nil {
		return fmt.Errorf("nil summary")
	}
	data, err := f.Format(summary)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s output: %w", f.Name(), err)
	}
	return nil
}
