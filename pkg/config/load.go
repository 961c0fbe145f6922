// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/bloom/pkg/failure"
	"gitlab.com/tozd/go/errors"
)

// DefaultFile is the config file looked up when none is given
const DefaultFile = ".bloom.yaml"

// 🎯 Load loads the configuration from a file on disk
func Load(ctx context.Context, path string) (*Config, error) {
	return LoadFs(ctx, afero.NewOsFs(), path)
}

// 🎯 LoadFs loads, parses and validates the configuration at path.
// Files without a known extension are tried as YAML, then as HCL.
func LoadFs(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, failure.New(failure.Configuration, "resolving config path", path, err)
	}
	logger.Debug().Str("path", abs).Msg("loading configuration")

	data, err := afero.ReadFile(fs, abs)
	if err != nil {
		return nil, failure.New(failure.IO, "reading config file", abs, err)
	}

	cfg, err := parse(ctx, abs, data)
	if err != nil {
		return nil, failure.New(failure.Configuration, "parsing config", abs, err)
	}
	cfg.location = abs

	if err := cfg.Validate(ctx); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	if p := GetParser(filename); p != nil {
		return p.Parse(ctx, filename, data)
	}

	// no extension we know: try YAML first, then HCL
	cfg, yamlErr := (&YAMLParser{}).Parse(ctx, filename, data)
	if yamlErr == nil {
		return cfg, nil
	}
	cfg, hclErr := (&HCLParser{}).Parse(ctx, filename, data)
	if hclErr == nil {
		return cfg, nil
	}
	return nil, errors.Errorf("failed to parse %s as YAML (%v) or HCL: %w", filepath.Base(filename), yamlErr, hclErr)
}
