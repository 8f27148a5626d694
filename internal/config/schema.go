package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ConfigFieldInfo contains metadata about a configuration field
type ConfigFieldInfo struct {
	Type        reflect.Type
	Description string
	Default     interface{}
	Validation  func(interface{}) error
}

// ConfigSchema holds the registry of valid configuration paths and aliases
type ConfigSchema struct {
	ValidPaths map[string]ConfigFieldInfo
	Aliases    map[string]string
}

// validateNotBlank rejects empty or whitespace-only strings
func validateNotBlank() func(interface{}) error {
	return func(value interface{}) error {
		if v, ok := value.(string); ok {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("value must not be empty")
			}
			return nil
		}
		return fmt.Errorf("expected string, got %T", value)
	}
}

// validateRelativeFolder accepts a single folder name below Assets
func validateRelativeFolder() func(interface{}) error {
	return func(value interface{}) error {
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("folder must not be empty")
		}
		if strings.ContainsAny(v, `/\`) || v == "." || v == ".." {
			return fmt.Errorf("folder must be a single name inside Assets, got %q", v)
		}
		return nil
	}
}

// DefaultConfigSchema returns the default configuration schema
func DefaultConfigSchema() *ConfigSchema {
	stringSlice := reflect.TypeOf([]string{})

	return &ConfigSchema{
		ValidPaths: map[string]ConfigFieldInfo{
			// player settings
			"player.company_name": {
				Type:        reflect.TypeOf(""),
				Description: "Company written as the About.xml author",
				Default:     "Default Company",
				Validation:  validateNotBlank(),
			},
			"player.product_version": {
				Type:        reflect.TypeOf(""),
				Description: "Version written to About.xml and the starter script",
				Default:     "1.0.0",
				Validation:  validateNotBlank(),
			},

			// about folder
			"about.folder": {
				Type:        reflect.TypeOf(""),
				Description: "Folder under Assets holding About.xml and its images",
				Default:     "About",
				Validation:  validateRelativeFolder(),
			},
			"about.preview": {
				Type:        reflect.TypeOf(""),
				Description: "Image copied to Preview.png (placeholder when empty)",
				Default:     "",
			},
			"about.thumb": {
				Type:        reflect.TypeOf(""),
				Description: "Image copied to Thumb.png (placeholder when empty)",
				Default:     "",
			},

			// starter script
			"script.folder": {
				Type:        reflect.TypeOf(""),
				Description: "Folder under Assets holding the starter script",
				Default:     "Scripts",
				Validation:  validateRelativeFolder(),
			},

			// assembly definition
			"assembly.references": {
				Type:        stringSlice,
				Description: "Assembly references of the generated .asmdef",
				Default:     []string{"Unity.TextMeshPro"},
			},
			"assembly.precompiled_references": {
				Type:        stringSlice,
				Description: "Precompiled DLL references of the generated .asmdef",
				Default:     []string{"Assembly-CSharp.dll", "Assembly-CSharp-firstpass.dll", "BepInEx.dll", "0Harmony.dll", "RW.RocketNet.dll", "LaunchPadBooster.dll"},
			},
			"assembly.define_constraints": {
				Type:        stringSlice,
				Description: "Define constraints of the generated .asmdef",
				Default:     []string{},
			},

			// compilation
			"compile.command": {
				Type:        reflect.TypeOf(""),
				Description: "Command started when a recompile is requested (empty to skip)",
				Default:     "",
			},
		},

		Aliases: map[string]string{
			"company":      "player.company_name",
			"company-name": "player.company_name",
			"version":      "player.product_version",
			"about-folder": "about.folder",
			"preview":      "about.preview",
			"thumb":        "about.thumb",
			"scripts":      "script.folder",
			"references":   "assembly.references",
			"precompiled":  "assembly.precompiled_references",
			"constraints":  "assembly.define_constraints",
			"compile":      "compile.command",
		},
	}
}

// ResolveKey resolves an alias to its canonical path or returns the path if already canonical
func (s *ConfigSchema) ResolveKey(key string) (string, error) {
	if canonicalPath, exists := s.Aliases[key]; exists {
		return canonicalPath, nil
	}

	if _, exists := s.ValidPaths[key]; exists {
		return key, nil
	}

	suggestions := s.FindSimilarKeys(key)
	if len(suggestions) > 0 {
		return "", fmt.Errorf("invalid config key %q. Did you mean one of: %s", key, strings.Join(suggestions, ", "))
	}

	return "", fmt.Errorf("invalid config key %q. Use 'modsetup config keys' to see valid keys", key)
}

// ValidateValue validates a value against the field's type and validation rules
func (s *ConfigSchema) ValidateValue(path string, value interface{}) error {
	fieldInfo, exists := s.ValidPaths[path]
	if !exists {
		return fmt.Errorf("unknown config path: %s", path)
	}

	valueType := reflect.TypeOf(value)
	if valueType != fieldInfo.Type {
		return fmt.Errorf("expected %s, got %v", fieldInfo.Type.String(), valueType)
	}

	if fieldInfo.Validation != nil {
		return fieldInfo.Validation(value)
	}

	return nil
}

// GetFieldInfo returns information about a configuration field
func (s *ConfigSchema) GetFieldInfo(path string) (ConfigFieldInfo, error) {
	fieldInfo, exists := s.ValidPaths[path]
	if !exists {
		return ConfigFieldInfo{}, fmt.Errorf("unknown config path: %s", path)
	}
	return fieldInfo, nil
}

// ListCanonicalKeys returns only the canonical configuration paths
func (s *ConfigSchema) ListCanonicalKeys() []string {
	var keys []string
	for path := range s.ValidPaths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	return keys
}

// ListAliases returns only the alias keys
func (s *ConfigSchema) ListAliases() []string {
	var aliases []string
	for alias := range s.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// FindSimilarKeys finds keys similar to the input using simple string matching
func (s *ConfigSchema) FindSimilarKeys(key string) []string {
	var suggestions []string
	lowerKey := strings.ToLower(key)
	if lowerKey == "" {
		return nil
	}

	for _, path := range s.ListCanonicalKeys() {
		parts := strings.Split(path, ".")
		leaf := strings.ToLower(parts[len(parts)-1])
		if strings.Contains(strings.ToLower(path), lowerKey) || strings.Contains(lowerKey, leaf) {
			suggestions = append(suggestions, path)
		}
	}

	for _, alias := range s.ListAliases() {
		if strings.Contains(alias, lowerKey) || strings.Contains(lowerKey, alias) {
			suggestions = append(suggestions, alias)
		}
	}

	// limit suggestions to avoid overwhelming output
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}

	return suggestions
}
