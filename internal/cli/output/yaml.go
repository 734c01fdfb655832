package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter renders data as YAML.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(data)
}
