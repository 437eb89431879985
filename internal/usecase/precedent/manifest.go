package precedent

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestEntry maps one precedent file to the contract type it serves.
type ManifestEntry struct {
	File           string `yaml:"file"`
	ContractTypeID string `yaml:"contract_type_id,omitempty"`
	ContractType   string `yaml:"contract_type,omitempty"`
	Slug           string `yaml:"slug,omitempty"`
	Category       string `yaml:"category,omitempty"`
	Jurisdiction   string `yaml:"jurisdiction,omitempty"`

	// Path is File resolved against the manifest directory.
	Path string `yaml:"-"`
}

// Manifest lists the precedent files of a deployment.
//
//	dir: ./precedents
//	precedents:
//	  - file: employment-agreement.docx
//	    contract_type: Employment Agreement
//	    category: employment
//	    jurisdiction: AU
type Manifest struct {
	Dir        string          `yaml:"dir,omitempty"`
	Precedents []ManifestEntry `yaml:"precedents"`
}

// LoadManifest reads a YAML manifest. Relative file paths resolve against Dir,
// which itself resolves against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	if m.Dir != "" {
		if filepath.IsAbs(m.Dir) {
			base = m.Dir
		} else {
			base = filepath.Join(base, m.Dir)
		}
	}

	for i := range m.Precedents {
		entry := &m.Precedents[i]
		if strings.TrimSpace(entry.File) == "" {
			return nil, fmt.Errorf("manifest entry %d has no file", i+1)
		}
		entry.Path = entry.File
		if !filepath.IsAbs(entry.File) {
			entry.Path = filepath.Join(base, entry.File)
		}
	}
	return &m, nil
}

// ManifestFromDir lists every .docx file in dir as an entry without a contract type.
func ManifestFromDir(dir string) (*Manifest, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read precedent dir: %w", err)
	}

	m := &Manifest{Dir: dir}
	for _, item := range items {
		if item.IsDir() || !strings.EqualFold(filepath.Ext(item.Name()), ".docx") {
			continue
		}
		m.Precedents = append(m.Precedents, ManifestEntry{
			File: item.Name(),
			Path: filepath.Join(dir, item.Name()),
		})
	}
	sort.Slice(m.Precedents, func(i, j int) bool {
		return m.Precedents[i].File < m.Precedents[j].File
	})
	return m, nil
}

// Find returns the entry for a contract type: by id, then by name or slug,
// then by token overlap with the entry's contract type and file name.
func (m *Manifest) Find(contractTypeID, contractTypeName string) (ManifestEntry, bool) {
	id := strings.TrimSpace(contractTypeID)
	name := strings.TrimSpace(contractTypeName)

	if id != "" {
		for _, entry := range m.Precedents {
			if entry.ContractTypeID == id {
				return entry, true
			}
		}
	}
	if name == "" {
		return ManifestEntry{}, false
	}

	for _, entry := range m.Precedents {
		if strings.EqualFold(entry.ContractType, name) || strings.EqualFold(entry.Slug, name) {
			return entry, true
		}
	}

	idx := bestMatch(len(m.Precedents), func(i int) map[string]struct{} {
		entry := m.Precedents[i]
		return TokenSet(entry.ContractType, entry.Slug, strings.TrimSuffix(entry.File, filepath.Ext(entry.File)))
	}, TokenSet(name))
	if idx < 0 {
		return ManifestEntry{}, false
	}
	return m.Precedents[idx], true
}
