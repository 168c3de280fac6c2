package loader

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// versionScalar decodes a YAML "version:" scalar that may be written as
// a quoted string ("0.1") or a bare number (0.1, 2), matching the
// Python dataclass's `isinstance(self.version, (int, float))` coercion
// in original_source/secretscanning/patterns.py.
type versionScalar string

func (v *versionScalar) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		*v = versionScalar(s)
		return nil
	}

	var f float64
	if err := value.Decode(&f); err == nil {
		*v = versionScalar(formatNumber(f))
		return nil
	}

	var i int
	if err := value.Decode(&i); err == nil {
		*v = versionScalar(strconv.Itoa(i))
		return nil
	}

	return fmt.Errorf("version must be a string or number")
}

// formatNumber renders a float the way YAML's number scalar was
// written, trimming a trailing ".0" only when the value is integral and
// keeping decimal precision otherwise (e.g. 0.1 stays "0.1").
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
