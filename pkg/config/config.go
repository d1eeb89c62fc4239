// Package config loads argseal settings from CUE, YAML or JSON files and
// validates them against the embedded #Config schema, which also supplies
// defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource string

// Config is the decoded configuration.
type Config struct {
	Password   string `json:"password,omitempty"`
	Listen     string `json:"listen"`
	Param      string `json:"param"`
	URLEncode  bool   `json:"url_encode"`
	Iterations int    `json:"iterations"`
	Template   string `json:"template,omitempty"`
	Insecure   bool   `json:"insecure"`
	CACert     string `json:"ca_cert,omitempty"`
	TLSCert    string `json:"tls_cert,omitempty"`
	TLSKey     string `json:"tls_key,omitempty"`
}

func schema(ctx *cue.Context) (cue.Value, error) {
	v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to compile schema: %w", err)
	}
	return v.LookupPath(cue.ParsePath("#Config")), nil
}

// Default returns the schema defaults.
func Default() (*Config, error) {
	ctx := cuecontext.New()
	def, err := schema(ctx)
	if err != nil {
		return nil, err
	}
	return decode(def)
}

// Load reads path, validates it against #Config and fills defaults.
// An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}

	ctx := cuecontext.New()
	def, err := schema(ctx)
	if err != nil {
		return nil, err
	}

	val, err := LoadValue(ctx, path)
	if err != nil {
		return nil, err
	}

	return decode(def.Unify(val))
}

// Parse validates YAML or JSON bytes against #Config.
func Parse(data []byte) (*Config, error) {
	ctx := cuecontext.New()
	def, err := schema(ctx)
	if err != nil {
		return nil, err
	}

	file, err := yaml.Extract("config.yaml", data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	val := ctx.BuildFile(file)
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("failed to build CUE value: %w", err)
	}

	return decode(def.Unify(val))
}

func decode(v cue.Value) (*Config, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// LoadValue loads a file into a CUE value built in ctx.
//
// For .cue files: Uses CUE's load.Instances so packages and imports work.
// For .yaml/.yml/.json files: Uses direct parsing.
func LoadValue(ctx *cue.Context, path string) (cue.Value, error) {
	if _, err := os.Stat(path); err != nil {
		return cue.Value{}, fmt.Errorf("failed to stat path: %w", err)
	}

	var val cue.Value

	if strings.HasSuffix(strings.ToLower(path), ".cue") {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("failed to resolve path: %w", err)
		}

		instances := load.Instances([]string{absPath}, &load.Config{
			Dir:       filepath.Dir(absPath),
			DataFiles: true,
		})
		if len(instances) == 0 {
			return cue.Value{}, fmt.Errorf("no instances loaded from %s", path)
		}

		inst := instances[0]
		if inst.Err != nil {
			return cue.Value{}, fmt.Errorf("failed to load config: %w", inst.Err)
		}

		val = ctx.BuildInstance(inst)
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("failed to read file: %w", err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			// JSON can be compiled directly
			val = ctx.CompileBytes(data, cue.Filename(path))
		default:
			// YAML is a superset of JSON, so it is the fallback
			file, err := yaml.Extract(path, data)
			if err != nil {
				return cue.Value{}, fmt.Errorf("failed to parse YAML: %w", err)
			}
			val = ctx.BuildFile(file)
		}
	}

	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to build CUE value: %w", err)
	}
	return val, nil
}
