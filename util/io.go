package util

import (
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
)

//*******************************************
// json and gob files
//*******************************************

func WriteJSONToFile[T any](value T, file string) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}

func ReadJSONFromFile[T any](file string) (T, error) {
	var value T
	data, err := os.ReadFile(file)
	if err != nil {
		return value, err
	}
	err = json.Unmarshal(data, &value)
	return value, err
}

func WriteGobToFile[T any](value T, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(value); err != nil {
		return fmt.Errorf("failed to encode %s: %w", file, err)
	}
	return nil
}

func ReadGobFromFile[T any](file string) (T, error) {
	var value T
	f, err := os.Open(file)
	if err != nil {
		return value, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&value); err != nil {
		return value, fmt.Errorf("failed to decode %s: %w", file, err)
	}
	return value, nil
}

func IsDirectoryEmpty(path string) bool {
	files, err := os.ReadDir(path)
	if err != nil {
		return errors.Is(err, os.ErrNotExist)
	}
	return len(files) == 0
}

//*******************************************
// csv files
//*******************************************

var ErrCSVFile = errors.New("failed to read csv file")

// Reads rows of a delimited file into structs using their `csv` field tags.
//
// Columns are matched by header name, missing columns and empty values leave the field at its zero value.
// Rows that cannot be parsed or converted are yielded together with an error, reading continues afterwards.
// Integers out of range of the field type count as conversion errors. Any other read error is yielded as
// ErrCSVFile and ends the iteration.
func ReadCSVFromFile[T any](filename string, delimiter rune) func(yield func(T, error) bool) {
	return func(yield func(T, error) bool) {
		file, err := os.Open(filename)
		if err != nil {
			var t T
			yield(t, fmt.Errorf("%w: %w", ErrCSVFile, err))
			return
		}
		defer file.Close()
		for row, err := range ReadCSV[T](file, delimiter) {
			if !yield(row, err) {
				return
			}
		}
	}
}

func ReadCSV[T any](r io.Reader, delimiter rune) func(yield func(T, error) bool) {
	return func(yield func(T, error) bool) {
		var zero T
		reader := csv.NewReader(r)
		reader.Comma = delimiter
		reader.FieldsPerRecord = -1
		header, err := reader.Read()
		if err != nil {
			yield(zero, fmt.Errorf("%w: header: %w", ErrCSVFile, err))
			return
		}
		name_row_mapping := NewDict[string, int](10)
		for i, name := range header {
			name_row_mapping[name] = i
		}

		typ := reflect.TypeOf(zero)
		num_field := typ.NumField()
		fields := NewList[Triple[int, int, reflect.Kind]](num_field)
		for i := 0; i < num_field; i++ {
			field := typ.Field(i)
			tag := field.Tag.Get("csv")
			if tag == "" {
				continue
			}
			if !name_row_mapping.ContainsKey(tag) {
				continue
			}
			row := name_row_mapping[tag]
			switch field.Type.Kind() {
			case reflect.Bool:
				fields.Add(MakeTriple(i, row, reflect.Bool))
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				fields.Add(MakeTriple(i, row, reflect.Int))
			case reflect.Float32, reflect.Float64:
				fields.Add(MakeTriple(i, row, reflect.Float64))
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				fields.Add(MakeTriple(i, row, reflect.Uint))
			case reflect.String:
				fields.Add(MakeTriple(i, row, reflect.String))
			}
		}
		line := 1
		for {
			record, err := reader.Read()
			line += 1
			if err == io.EOF {
				return
			}
			if err != nil {
				var parse_err *csv.ParseError
				if !errors.As(err, &parse_err) {
					yield(zero, fmt.Errorf("%w: line %v: %w", ErrCSVFile, line, err))
					return
				}
				if !yield(zero, err) {
					return
				}
				continue
			}
			if len(record) != len(header) {
				if !yield(zero, fmt.Errorf("line %v: %w", line, csv.ErrFieldCount)) {
					return
				}
				continue
			}
			t := reflect.New(typ).Elem()
			var conv_err error
			for _, field := range fields {
				index := field.A
				row := field.B
				typ := field.C
				value := record[row]
				if value == "" {
					continue
				}
				f := t.Field(index)
				switch typ {
				case reflect.Bool:
					num, err := strconv.ParseBool(value)
					conv_err = errors.Join(conv_err, err)
					f.SetBool(num)
				case reflect.Int:
					num, err := strconv.ParseInt(value, 10, f.Type().Bits())
					conv_err = errors.Join(conv_err, err)
					f.SetInt(num)
				case reflect.Uint:
					num, err := strconv.ParseUint(value, 10, f.Type().Bits())
					conv_err = errors.Join(conv_err, err)
					f.SetUint(num)
				case reflect.Float64:
					num, err := strconv.ParseFloat(value, f.Type().Bits())
					conv_err = errors.Join(conv_err, err)
					f.SetFloat(num)
				case reflect.String:
					f.SetString(value)
				}
			}
			if conv_err != nil {
				if !yield(zero, fmt.Errorf("line %v: %w", line, conv_err)) {
					return
				}
				continue
			}
			if !yield(t.Interface().(T), nil) {
				return
			}
		}
	}
}
