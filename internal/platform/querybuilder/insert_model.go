package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT for every exported field of model that carries
// a db tag, in struct declaration order. The suffix is appended verbatim,
// which is how callers attach ON CONFLICT clauses.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	fields := reflect.VisibleFields(value.Type())
	cols := make([]string, 0, len(fields))
	vals := make([]any, 0, len(fields))
	for _, field := range fields {
		if field.PkgPath != "" || field.Anonymous {
			continue
		}
		col := dbColumn(field)
		if col == "" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.FieldByIndex(field.Index).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}

func dbColumn(field reflect.StructField) string {
	tag := strings.TrimSpace(field.Tag.Get("db"))
	if tag == "" || tag == "-" {
		return ""
	}
	col := strings.TrimSpace(strings.Split(tag, ",")[0])
	if col == "-" {
		return ""
	}
	return col
}
