package loader

// yamlPatternsFile is the intermediate struct for decoding a
// patterns.yml document (spec.md §6).
type yamlPatternsFile struct {
	Name     string        `yaml:"name"`
	Display  *bool         `yaml:"display"`
	Patterns []yamlPattern `yaml:"patterns"`
}

type yamlPattern struct {
	Name         string         `yaml:"name"`
	Type         string         `yaml:"type"`
	Description  string         `yaml:"description"`
	Experimental bool           `yaml:"experimental"`
	Regex        yamlRegex      `yaml:"regex"`
	Expected     []yamlExpected `yaml:"expected"`
	Comments     []string       `yaml:"comments"`
}

type yamlRegex struct {
	// Version is decoded through versionScalar so it accepts either a
	// string or a number scalar ("0.1" or 0.1), matching the Python dataclass's
	// isinstance(self.version, (int, float)) coercion.
	Version            versionScalar `yaml:"version"`
	Pattern            string        `yaml:"pattern"`
	Start              string        `yaml:"start"`
	End                string        `yaml:"end"`
	AdditionalMatch    []string      `yaml:"additional_match"`
	AdditionalNotMatch []string      `yaml:"additional_not_match"`
}

type yamlExpected struct {
	Name        string `yaml:"name"`
	StartOffset int    `yaml:"start_offset"`
	EndOffset   int    `yaml:"end_offset"`
}
