package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/guillefix/avro/projection"
	"github.com/guillefix/avro/schema"
)

// parseConfig maps the bound configuration onto a schema.ParseConfig.
func (o *rootOpts) parseConfig() (schema.ParseConfig, error) {
	cfg := schema.DefaultParseConfig()
	cfg.ImplicitNullable = o.v.GetBool(keyImplicitNullable)
	cfg.ImplicitNullDefault = o.v.GetBool(keyImplicitNullDefault)
	cfg.Logger = o.log

	transform, err := segmentTransform(o.v.GetString(keySegmentTransform))
	if err != nil {
		return cfg, err
	}

	switch s := o.v.GetString(keyPathStrategy); s {
	case "", "nested":
		cfg.PathStrategy = projection.Nested{}
	case "namespaced":
		cfg.PathStrategy = projection.Namespaced{
			StripSuffixes: o.v.GetStringSlice(keyStripSuffixes),
			Transform:     transform,
		}
	default:
		return cfg, fmt.Errorf("unknown %s %q", keyPathStrategy, s)
	}

	return cfg, nil
}

func segmentTransform(name string) (projection.Transform, error) {
	switch name {
	case "", "identity":
		return projection.Identity, nil
	case "lower":
		return projection.Lower, nil
	case "normalize":
		return projection.Normalize, nil
	default:
		return nil, fmt.Errorf("unknown %s %q", keySegmentTransform, name)
	}
}

// readSchema parses the schema in path, or standard input for "-".
func (o *rootOpts) readSchema(path string, in io.Reader, cfg schema.ParseConfig) (schema.Schema, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	s, err := schema.ParseWithConfig(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	o.log.WithField("file", path).Debugf("parsed %s schema", s.Kind())

	return s, nil
}

// loadSchema parses path with the configured options.
func (o *rootOpts) loadSchema(path string, in io.Reader) (schema.Schema, error) {
	cfg, err := o.parseConfig()
	if err != nil {
		return nil, err
	}

	return o.readSchema(path, in, cfg)
}
