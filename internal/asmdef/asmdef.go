package asmdef

import (
	"encoding/json"
	"fmt"
)

// Extension of assembly definition files
const Extension = ".asmdef"

// DefaultIncludePlatforms are the platforms a new assembly builds for
var DefaultIncludePlatforms = []string{"Editor", "WindowsStandalone64"}

// Definition mirrors the engine's assembly definition JSON document
type Definition struct {
	Name                  string          `json:"name"`
	RootNamespace         string          `json:"rootNamespace"`
	References            []string        `json:"references"`
	IncludePlatforms      []string        `json:"includePlatforms"`
	ExcludePlatforms      []string        `json:"excludePlatforms"`
	AllowUnsafeCode       bool            `json:"allowUnsafeCode"`
	AutoReferenced        bool            `json:"autoReferenced"`
	OverrideReferences    bool            `json:"overrideReferences"`
	PrecompiledReferences []string        `json:"precompiledReferences"`
	DefineConstraints     []string        `json:"defineConstraints"`
	VersionDefines        []VersionDefine `json:"versionDefines"`
	NoEngineReferences    bool            `json:"noEngineReferences"`
}

// VersionDefine sets a define symbol when a package version matches an expression
type VersionDefine struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Define     string `json:"define"`
}

// New builds a definition with the defaults used for new mod assemblies
func New(assemblyName, rootNamespace string, references, precompiled, constraints []string) *Definition {
	return &Definition{
		Name:                  assemblyName,
		RootNamespace:         rootNamespace,
		References:            orEmpty(references),
		IncludePlatforms:      append([]string(nil), DefaultIncludePlatforms...),
		ExcludePlatforms:      []string{},
		AllowUnsafeCode:       false,
		AutoReferenced:        true,
		OverrideReferences:    true,
		PrecompiledReferences: orEmpty(precompiled),
		DefineConstraints:     orEmpty(constraints),
		VersionDefines:        []VersionDefine{},
		NoEngineReferences:    false,
	}
}

// FileName returns the file name the definition is saved under
func (d *Definition) FileName() string {
	return d.Name + Extension
}

// Marshal renders the definition as indented JSON; nil lists are written as []
func (d *Definition) Marshal() ([]byte, error) {
	out := *d
	out.References = orEmpty(out.References)
	out.IncludePlatforms = orEmpty(out.IncludePlatforms)
	out.ExcludePlatforms = orEmpty(out.ExcludePlatforms)
	out.PrecompiledReferences = orEmpty(out.PrecompiledReferences)
	out.DefineConstraints = orEmpty(out.DefineConstraints)
	if out.VersionDefines == nil {
		out.VersionDefines = []VersionDefine{}
	}

	data, err := json.MarshalIndent(&out, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assembly definition: %w", err)
	}
	return data, nil
}

// Unmarshal parses an assembly definition document
func Unmarshal(data []byte) (*Definition, error) {
	var d Definition
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse assembly definition: %w", err)
	}
	return &d, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
