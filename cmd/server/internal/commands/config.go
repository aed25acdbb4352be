package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAMLConfig loads flag values from a YAML document. Keys are flag names, either
// hyphenated ("root-domain") or with underscores ("root_domain"). Lists are joined with
// commas so they parse like repeated CLI values. Flags given on the command line take
// precedence over file values.
func YAMLConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return kong.ResolverFunc(func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		value, ok := values[flag.Name]
		if !ok {
			value, ok = values[strings.ReplaceAll(flag.Name, "-", "_")]
		}
		if !ok || value == nil {
			return nil, nil
		}

		if list, isList := value.([]any); isList {
			items := make([]string, 0, len(list))
			for _, item := range list {
				items = append(items, fmt.Sprint(item))
			}
			return strings.Join(items, ","), nil
		}

		return fmt.Sprint(value), nil
	}), nil
}
