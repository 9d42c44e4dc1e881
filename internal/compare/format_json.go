package compare

import (
	"encoding/json"
)

// JSONFormatter formats any engine result as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format marshals v, typically a *Report, *domain.SensitivityResult or *domain.ScenarioSet
func (jf *JSONFormatter) Format(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
