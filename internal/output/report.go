// Package output renders engine results for the CLI in table, CSV, JSON or
// YAML form.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/tcogo/internal/breakeven"
	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"gopkg.in/yaml.v3"
)

// Supported format names
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatTable, FormatCSV, FormatJSON, FormatYAML}
}

// Render writes v to w in the named format. v is one of *compare.Report,
// domain.CostBreakdown, domain.ROIResult, []domain.RiskComplianceScore,
// *domain.SensitivityResult, *domain.TornadoResult, *domain.ScenarioSet or
// []breakeven.Result.
func Render(w io.Writer, v any, format string) error {
	text, err := Format(v, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// Format renders v to a string in the named format.
func Format(v any, format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		jf := &compare.JSONFormatter{Pretty: true}
		s, err := jf.Format(v)
		if err != nil {
			return "", fmt.Errorf("encode JSON: %w", err)
		}
		return s + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode YAML: %w", err)
		}
		return string(data), nil
	case FormatCSV:
		return formatCSV(v)
	case FormatTable, "", "console":
		return formatTable(v)
	default:
		return "", fmt.Errorf("unsupported format: %s (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

func formatTable(v any) (string, error) {
	tf := &compare.TableFormatter{}
	switch r := v.(type) {
	case *compare.Report:
		return tf.Format(r), nil
	case domain.CostBreakdown:
		return tf.FormatBreakdown(r), nil
	case domain.ROIResult:
		return FormatROI(r), nil
	case []domain.RiskComplianceScore:
		return FormatRisk(r), nil
	case *domain.SensitivityResult:
		return SensitivityConsoleFormatter{}.FormatSensitivity(r), nil
	case *domain.TornadoResult:
		return SensitivityConsoleFormatter{}.FormatTornado(r), nil
	case *domain.ScenarioSet:
		return FormatScenarios(r), nil
	case []breakeven.Result:
		return breakeven.Format(r), nil
	default:
		return "", fmt.Errorf("unsupported result type: %T", v)
	}
}

func formatCSV(v any) (string, error) {
	switch r := v.(type) {
	case *compare.Report:
		cf := &compare.CSVFormatter{}
		return cf.Format(r)
	case *domain.SensitivityResult:
		return SensitivityCSV(r)
	case *domain.ScenarioSet:
		return ScenariosCSV(r)
	case []domain.RiskComplianceScore:
		return RiskCSV(r)
	default:
		return "", fmt.Errorf("CSV is not supported for %T", v)
	}
}
