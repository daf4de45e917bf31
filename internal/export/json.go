package export

import (
	"encoding/json"
	"fmt"
	"os"
)

// ExportJSON writes v (typically a calcapi.CalculationResponse) to path as
// indented JSON, the text-based counterpart to ExportPDF/ExportLabels.
func ExportJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write export JSON: %w", err)
	}
	return nil
}
