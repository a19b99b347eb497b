package cli

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/lom/log"
)

// resolve returns a [kong.ConfigurationLoader] reading the mapping named
// name from a YAML document:
//
//	config:
//	  log-level: debug
//	  log_pretty: false
//	  path: [/usr/share/lom]
//
// Keys may spell hyphens in flag names as underscores. A document that
// cannot be decoded, or has no such mapping, configures nothing.
func resolve(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn("ignoring configuration",
					slog.Any("error", ErrConfig.Wrap(err)))
			}

			return config{}, nil
		}

		sub, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		c := make(config, len(sub))
		for k, v := range sub {
			c[k] = flagValue(v)
		}

		return c, nil
	}
}

// config implements [kong.Resolver] over a decoded configuration mapping.
type config map[string]any

func (config) Validate(*kong.Application) error { return nil }

func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	if v, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil //nolint:nilnil
}

// flagValue converts decoded YAML numbers to the strings kong's mappers
// parse. Lists are converted element-wise.
func flagValue(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	default:
		return v
	}
}
