package table

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// FieldValue looks key up on record: a map key, a struct field whose json
// tag or name matches key (case-insensitively), or "" when nothing matches.
func FieldValue(record any, key string) string {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return ""
		}
		item := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !item.IsValid() {
			return ""
		}
		return formatValue(item)
	case reflect.Struct:
		field, ok := structField(v, key)
		if !ok {
			return ""
		}
		return formatValue(field)
	default:
		return ""
	}
}

func structField(v reflect.Value, key string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := strings.Split(sf.Tag.Get("json"), ",")[0]
		if name == key || strings.EqualFold(sf.Name, key) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func formatValue(v reflect.Value) string {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	if !v.CanInterface() {
		return ""
	}

	switch value := v.Interface().(type) {
	case time.Time:
		if value.IsZero() {
			return ""
		}
		return value.Format("2006-01-02")
	case fmt.Stringer:
		return value.String()
	case string:
		return value
	case bool:
		if value {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprint(value)
	}
}

func sortHidden(fields []HiddenField) {
	sort.Slice(fields, func(i int, j int) bool {
		return fields[i].Name < fields[j].Name
	})
}
