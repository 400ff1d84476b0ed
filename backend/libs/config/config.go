package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPathEnv = "CONFIG_FILE"

var durationType = reflect.TypeOf(time.Duration(0))

// LoadConfig hydrates the provided struct pointer from an optional YAML file (path taken from
// CONFIG_FILE) and then overrides fields from environment variables. Keys are derived as
// PARENT_CHILD unless a field carries an explicit `env:"KEY"` tag. Blank variables are ignored.
// Slices of strings are read from comma separated values and durations use time.ParseDuration
// syntax.
func LoadConfig(target interface{}) error {
	return LoadConfigFrom(os.Getenv(defaultConfigPathEnv), target)
}

// LoadConfigFrom behaves like LoadConfig but reads YAML from the given path (empty skips the file).
// Every malformed variable is reported, not just the first.
func LoadConfigFrom(path string, target interface{}) error {
	if target == nil {
		return errors.New("config: target is nil")
	}
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return errors.New("config: target must be pointer to struct")
	}

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("config: decode yaml %s: %w", path, err)
		}
	}

	var errs []error
	walkEnv(val.Elem(), "", &errs)
	return errors.Join(errs...)
}

func walkEnv(v reflect.Value, prefix string, errs *[]error) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field, meta := v.Field(i), t.Field(i)
		if !field.CanSet() {
			continue
		}
		if meta.Anonymous {
			walkEnv(field, prefix, errs)
			continue
		}

		tag := meta.Tag.Get("env")
		if tag == "-" {
			continue
		}
		key := envKey(prefix, meta.Name)
		if tag != "" {
			key = envKey("", tag)
		}

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			walkEnv(field, key, errs)
			continue
		}

		raw, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if err := assign(field, strings.TrimSpace(raw)); err != nil {
			*errs = append(*errs, fmt.Errorf("config: parse %s: %w", key, err))
		}
	}
}

func envKey(prefix, name string) string {
	name = strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

var kindParsers = map[reflect.Kind]func(field reflect.Value, value string) error{
	reflect.String: func(field reflect.Value, value string) error {
		field.SetString(value)
		return nil
	},
	reflect.Bool: func(field reflect.Value, value string) error {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
		return nil
	},
	reflect.Int:     parseInt,
	reflect.Int8:    parseInt,
	reflect.Int16:   parseInt,
	reflect.Int32:   parseInt,
	reflect.Int64:   parseInt,
	reflect.Uint:    parseUint,
	reflect.Uint8:   parseUint,
	reflect.Uint16:  parseUint,
	reflect.Uint32:  parseUint,
	reflect.Uint64:  parseUint,
	reflect.Float32: parseFloat,
	reflect.Float64: parseFloat,
	reflect.Slice: func(field reflect.Value, value string) error {
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		items := make([]string, 0)
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		field.Set(reflect.ValueOf(items).Convert(field.Type()))
		return nil
	},
}

func assign(field reflect.Value, value string) error {
	if field.Type() == durationType {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(parsed))
		return nil
	}
	parse, ok := kindParsers[field.Kind()]
	if !ok {
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return parse(field, value)
}

func parseInt(field reflect.Value, value string) error {
	parsed, err := strconv.ParseInt(value, 10, field.Type().Bits())
	if err != nil {
		return err
	}
	field.SetInt(parsed)
	return nil
}

func parseUint(field reflect.Value, value string) error {
	parsed, err := strconv.ParseUint(value, 10, field.Type().Bits())
	if err != nil {
		return err
	}
	field.SetUint(parsed)
	return nil
}

func parseFloat(field reflect.Value, value string) error {
	parsed, err := strconv.ParseFloat(value, field.Type().Bits())
	if err != nil {
		return err
	}
	field.SetFloat(parsed)
	return nil
}
