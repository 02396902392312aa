// Package settings provides the shared read-modify-write mechanics that
// provider implementations use to provision OTLP export configuration into
// a CLI's own JSON settings file.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"dario.cat/mergo"
)

// EnsureJSON makes sure the JSON document at path contains requiredKeys,
// creating the file from buildDefault if absent, and removing any
// legacyTopLevelKeys left over from an older version of the CLI's own
// config format. It reports whether it wrote anything to disk.
//
// Unrelated keys already present in the file are preserved: requiredKeys is
// layered on top of the existing document with mergo.WithOverride rather
// than replacing the document outright.
func EnsureJSON(path string, buildDefault func() map[string]any, requiredKeys map[string]any, legacyTopLevelKeys []string) (bool, error) {
	existing, err := readJSONObject(path)
	if os.IsNotExist(err) {
		doc := buildDefault()
		if err := writeJSONObject(path, doc); err != nil {
			return false, fmt.Errorf("writing %s: %w", path, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	changed := false
	for _, key := range legacyTopLevelKeys {
		if _, ok := existing[key]; ok {
			delete(existing, key)
			changed = true
		}
	}

	merged := cloneMap(existing)
	if err := mergo.Merge(&merged, requiredKeys, mergo.WithOverride); err != nil {
		return false, fmt.Errorf("merging required settings: %w", err)
	}
	if !reflect.DeepEqual(merged, existing) {
		changed = true
	}

	if !changed {
		return false, nil
	}

	if err := backupFile(path); err != nil {
		return false, fmt.Errorf("backing up %s: %w", path, err)
	}
	if err := writeJSONObject(path, merged); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

func readJSONObject(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s as JSON: %w", path, err)
	}
	return doc, nil
}

func writeJSONObject(path string, doc map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// backupFile copies path to path+".bak", overwriting any previous backup.
// A missing source file is not an error: there is nothing to back up.
func backupFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path+".bak", data, 0o644)
}

// cloneMap copies m, recursing into nested objects: mergo merges nested maps
// in place, so a shallow copy would let the merge alter existing as well.
func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = cloneMap(nested)
		}
		out[k] = v
	}
	return out
}
