package terminology

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofhir/fhir/r4"
)

//go:embed seed/*.json
var seedFS embed.FS

// Source supplies terminology resources for the registry.
type Source interface {
	Load() ([]*r4.CodeSystem, []*r4.ValueSet, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]*r4.CodeSystem, []*r4.ValueSet, error)

// Load implements Source.
func (f SourceFunc) Load() ([]*r4.CodeSystem, []*r4.ValueSet, error) { return f() }

// EmbeddedSource returns the seed terminology compiled into the package:
// the FHIR R4 code systems used by the resource bindings, a v3 ActCode
// subset, and a LOINC subset for PHQ-9 and GAD-7.
func EmbeddedSource() Source {
	return SourceFunc(func() ([]*r4.CodeSystem, []*r4.ValueSet, error) {
		entries, err := seedFS.ReadDir("seed")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read embedded terminology: %w", err)
		}
		var (
			css []*r4.CodeSystem
			vss []*r4.ValueSet
		)
		for _, entry := range entries {
			data, err := seedFS.ReadFile("seed/" + entry.Name())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
			}
			cs, vs, err := decodeResources(data)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", entry.Name(), err)
			}
			css = append(css, cs...)
			vss = append(vss, vs...)
		}
		return css, vss, nil
	})
}

// JSONSource reads a CodeSystem, a ValueSet, or a Bundle of them.
func JSONSource(data []byte) Source {
	return SourceFunc(func() ([]*r4.CodeSystem, []*r4.ValueSet, error) {
		return decodeResources(data)
	})
}

// DirSource reads every *.json file in dir. Package metadata files are
// skipped.
func DirSource(dir string) Source {
	return SourceFunc(func() ([]*r4.CodeSystem, []*r4.ValueSet, error) {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to access directory: %w", err)
		}
		if !info.IsDir() {
			return nil, nil, fmt.Errorf("not a directory: %s", dir)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read directory: %w", err)
		}

		var names []string
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".json") {
				continue
			}
			if name == "package.json" || name == ".index.json" {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)

		var (
			css []*r4.CodeSystem
			vss []*r4.ValueSet
		)
		for _, name := range names {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return nil, nil, err
			}
			cs, vs, err := decodeResources(data)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", name, err)
			}
			css = append(css, cs...)
			vss = append(vss, vs...)
		}
		return css, vss, nil
	})
}

var errUnsupported = errors.New("unsupported resourceType")

// bundle represents a minimal FHIR Bundle structure.
type bundle struct {
	ResourceType string `json:"resourceType"`
	Entry        []struct {
		Resource json.RawMessage `json:"resource"`
	} `json:"entry"`
}

// decodeResources auto-detects Bundle vs single resource format. Resources
// other than CodeSystem and ValueSet inside a Bundle are ignored.
func decodeResources(data []byte) ([]*r4.CodeSystem, []*r4.ValueSet, error) {
	var head struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	switch head.ResourceType {
	case "Bundle":
		var b bundle
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, nil, fmt.Errorf("failed to parse Bundle: %w", err)
		}
		var (
			css []*r4.CodeSystem
			vss []*r4.ValueSet
		)
		for i, entry := range b.Entry {
			if len(entry.Resource) == 0 {
				continue
			}
			cs, vs, err := decodeResources(entry.Resource)
			if err != nil {
				if errors.Is(err, errUnsupported) {
					continue
				}
				return nil, nil, fmt.Errorf("entry[%d]: %w", i, err)
			}
			css = append(css, cs...)
			vss = append(vss, vs...)
		}
		return css, vss, nil

	case "CodeSystem":
		var cs r4.CodeSystem
		if err := json.Unmarshal(data, &cs); err != nil {
			return nil, nil, fmt.Errorf("failed to parse CodeSystem: %w", err)
		}
		return []*r4.CodeSystem{&cs}, nil, nil

	case "ValueSet":
		var vs r4.ValueSet
		if err := json.Unmarshal(data, &vs); err != nil {
			return nil, nil, fmt.Errorf("failed to parse ValueSet: %w", err)
		}
		return nil, []*r4.ValueSet{&vs}, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", errUnsupported, head.ResourceType)
	}
}
