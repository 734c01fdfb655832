package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"unicode"
)

// TableFormatter renders data as aligned text columns. Structs and maps
// render as KEY/VALUE pairs, slices of structs as one row per element.
type TableFormatter struct{}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return formatSlice(tw, v)
	case reflect.Map:
		return formatMap(tw, v)
	case reflect.Struct:
		return formatStruct(tw, v)
	default:
		_, err := fmt.Fprintln(tw, formatValue(v))
		return err
	}
}

// formatSlice renders a slice of structs with a shared header row.
// Slices of anything else render one value per line.
func formatSlice(w io.Writer, v reflect.Value) error {
	if v.Len() == 0 {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}

	first := reflect.Indirect(v.Index(0))
	if first.Kind() != reflect.Struct {
		for i := 0; i < v.Len(); i++ {
			if _, err := fmt.Fprintln(w, formatValue(v.Index(i))); err != nil {
				return err
			}
		}
		return nil
	}

	names := fieldNames(first.Type())
	if _, err := fmt.Fprintln(w, strings.Join(names, "\t")); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		row := reflect.Indirect(v.Index(i))
		cells := make([]string, 0, row.NumField())
		for j := 0; j < row.NumField(); j++ {
			if row.Type().Field(j).IsExported() {
				cells = append(cells, formatValue(row.Field(j)))
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func formatMap(w io.Writer, v reflect.Value) error {
	keys := make([]string, 0, v.Len())
	byKey := make(map[string]reflect.Value, v.Len())
	for _, k := range v.MapKeys() {
		key := formatValue(k)
		keys = append(keys, key)
		byKey[key] = v.MapIndex(k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(key), formatValue(byKey[key])); err != nil {
			return err
		}
	}
	return nil
}

func formatStruct(w io.Writer, v reflect.Value) error {
	names := fieldNames(v.Type())
	idx := 0
	for i := 0; i < v.NumField(); i++ {
		if !v.Type().Field(i).IsExported() {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", names[idx], formatValue(v.Field(i))); err != nil {
			return err
		}
		idx++
	}
	return nil
}

// fieldNames returns the exported field names in SNAKE_CASE.
func fieldNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() {
			names = append(names, toHeaderCase(f.Name))
		}
	}
	return names
}

func toHeaderCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(name[i-1])
			if !unicode.IsUpper(prev) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func formatValue(v reflect.Value) string {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool())
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
