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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
//
// Expressions can read environment variables as env.NAME, and everything
// outside the project block can read project.name and project.version:
//
//	project {
//	  name    = "bloom"
//	  version = env.VERSION
//	}
//
//	replacements {
//	  rule {
//	    token = "@VERSION@"
//	    value = project.version
//	  }
//	}
//
//	source_set "main" {
//	  language "java" {
//	    dirs = ["src/main/java"]
//	  }
//	}
type HCLParser struct {
	// Env replaces the process environment when set
	Env map[string]string
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

type hclHead struct {
	Project *hclProject `hcl:"project,block"`
	Remain  hcl.Body    `hcl:",remain"`
}

type hclProject struct {
	Name    string `hcl:"name,optional"`
	Version string `hcl:"version,optional"`
}

type hclBody struct {
	BuildDir     string           `hcl:"build_dir,optional"`
	Replacements *hclReplacements `hcl:"replacements,block"`
	SourceSets   []hclSourceSet   `hcl:"source_set,block"`
}

type hclReplacements struct {
	DisableGlobal bool      `hcl:"disable_global,optional"`
	DisabledFiles []string  `hcl:"disabled_files,optional"`
	AllowedFiles  []string  `hcl:"allowed_files,optional"`
	Rules         []hclRule `hcl:"rule,block"`
}

type hclRule struct {
	Token string    `hcl:"token"`
	Value cty.Value `hcl:"value"`
	File  string    `hcl:"file,optional"`
}

type hclSourceSet struct {
	Name         string           `hcl:"name,label"`
	Inherit      bool             `hcl:"inherit,optional"`
	Languages    []hclLanguage    `hcl:"language,block"`
	Replacements *hclReplacements `hcl:"replacements,block"`
}

type hclLanguage struct {
	Name     string   `hcl:"name,label"`
	Dirs     []string `hcl:"dirs,optional"`
	Includes []string `hcl:"includes,optional"`
	Excludes []string `hcl:"excludes,optional"`
}

// 📝 Parse parses the config from HCL in two passes: the project block
// first, then the rest of the body with project values in scope
func (p *HCLParser) Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	env := p.envValue()
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}

	var head hclHead
	if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &head); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL project: %s", diags.Error())
	}

	cfg := &Config{}
	if head.Project != nil {
		cfg.Project = Project{Name: head.Project.Name, Version: head.Project.Version}
	}

	evalCtx = &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": env,
			"project": cty.ObjectVal(map[string]cty.Value{
				"name":    cty.StringVal(cfg.Project.Name),
				"version": cty.StringVal(cfg.Project.Version),
			}),
		},
	}

	var body hclBody
	if diags := gohcl.DecodeBody(head.Remain, evalCtx, &body); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg.BuildDir = body.BuildDir

	var err error
	if cfg.Replacements, err = body.Replacements.toConfig(); err != nil {
		return nil, err
	}
	for _, s := range body.SourceSets {
		set := SourceSet{Name: s.Name, Inherit: s.Inherit}
		for _, l := range s.Languages {
			set.Languages = append(set.Languages, Language{
				Name:     l.Name,
				Dirs:     l.Dirs,
				Includes: l.Includes,
				Excludes: l.Excludes,
			})
		}
		if set.Replacements, err = s.Replacements.toConfig(); err != nil {
			return nil, errors.Errorf("source set %s: %w", s.Name, err)
		}
		cfg.SourceSets = append(cfg.SourceSets, set)
	}

	return cfg, nil
}

func (p *HCLParser) envValue() cty.Value {
	env := p.Env
	if env == nil {
		env = make(map[string]string)
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}
	}

	vals := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vals[k] = cty.StringVal(v)
	}
	if len(vals) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vals)
}

func (r *hclReplacements) toConfig() (*Replacements, error) {
	if r == nil {
		return nil, nil
	}
	out := &Replacements{
		DisableGlobal: r.DisableGlobal,
		DisabledFiles: r.DisabledFiles,
		AllowedFiles:  r.AllowedFiles,
	}
	for _, rule := range r.Rules {
		value, err := stringValue(rule.Value)
		if err != nil {
			return nil, errors.Errorf("rule %s: %w", rule.Token, err)
		}
		out.Rules = append(out.Rules, Rule{Token: rule.Token, Value: value, File: rule.File})
	}
	return out, nil
}

// stringValue converts any primitive cty value to its string form
func stringValue(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsWhollyKnown() {
		return "", errors.New("value is not known")
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", errors.Errorf("converting value to string: %w", err)
	}
	return s.AsString(), nil
}
