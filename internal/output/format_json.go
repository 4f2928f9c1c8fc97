package output

import (
	"encoding/json"

	"github.com/rgehrsitz/sgprop/internal/domain"
)

// JSONFormatter formats summaries as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (jf *JSONFormatter) Name() string { return "json" }

// Format generates JSON output for a portfolio summary
func (jf *JSONFormatter) Format(summary *domain.PortfolioSummary) ([]byte, error) {
	return jf.Marshal(summary)
}

// Marshal encodes any result value with the formatter's indentation setting
func (jf *JSONFormatter) Marshal(v any) ([]byte, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
