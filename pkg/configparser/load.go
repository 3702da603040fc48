package configparser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadAndParseYaml loads the yaml file (if it exists) into the environment and then
// fills cfg from environment variables using `env` and `default` struct tags.
// A missing file is not an error: environment variables alone are enough.
func LoadAndParseYaml(filepath string, cfg any) error {
	if err := LoadYamlFile(filepath); err != nil && !errors.Is(err, os.ErrNotExist) && !errors.Is(err, ErrNoFilePath) {
		return err
	}

	return ParseEnv(cfg)
}

// LoadYamlFile reads a YAML file and loads variables into the environment.
// Nested keys are joined with '_' and upper-cased: `auth: {jwt_secret: x}` becomes AUTH_JWT_SECRET.
// Variables that are already set are never overridden.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}

	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}

	vars := make(map[string]string)
	flatten("", root, vars)

	for key, value := range vars {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, expand(value)); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}

	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}

		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case []any:
			items := make([]string, 0, len(val))
			for _, item := range val {
				items = append(items, fmt.Sprint(item))
			}
			out[key] = strings.Join(items, ",")
		case nil:
			// empty values don't represent environment variables
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// expand handles the ${VAR:-default} substitution syntax
func expand(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	inner := value[2 : len(value)-1]
	name, def, found := strings.Cut(inner, ":-")
	if !found {
		return os.Getenv(strings.TrimSpace(inner))
	}

	if envValue := os.Getenv(strings.TrimSpace(name)); envValue != "" {
		return envValue
	}
	return strings.TrimSpace(def)
}
