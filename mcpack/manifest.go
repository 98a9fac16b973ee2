// Package mcpack builds Bedrock add-on packs: the manifest, an in-memory
// directory tree and the .mcpack archive.
package mcpack

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/google/uuid"
)

// PackType is the module type declared in the manifest.
type PackType uint8

const (
	// Data is a behaviour pack (functions, structures).
	Data PackType = iota
	Resources
)

func (t PackType) String() string {
	if t == Resources {
		return "resources"
	}
	return "data"
}

// ParsePackType maps "data" or "resources" to a PackType; empty selects Data.
func ParsePackType(s string) (PackType, error) {
	switch s {
	case "", "data":
		return Data, nil
	case "resources":
		return Resources, nil
	}
	return 0, fmt.Errorf("unknown pack type %q", s)
}

// DefaultMinEngine is the oldest engine able to run the generated commands.
var DefaultMinEngine = semver.Version{Major: 1, Minor: 19, Patch: 70}

// Manifest describes a pack. Prefix namespaces every function, structure
// and scoreboard the pack creates and defaults to Name as an identifier.
type Manifest struct {
	Name          string
	Description   string
	Prefix        string
	Version       semver.Version
	MinEngine     semver.Version
	Type          PackType
	FormatVersion int

	// HeaderUUID and ModuleUUID are generated on first marshal when empty.
	HeaderUUID string
	ModuleUUID string
}

// NewManifest returns a manifest with the usual defaults.
func NewManifest(name, description string) *Manifest {
	return &Manifest{
		Name:          name,
		Description:   description,
		Prefix:        SanitizePrefix(name),
		Version:       semver.Version{Major: 1},
		MinEngine:     DefaultMinEngine,
		Type:          Data,
		FormatVersion: 2,
	}
}

// PackPrefix is Prefix, or the sanitized Name when Prefix is empty.
func (m *Manifest) PackPrefix() string {
	if m.Prefix == "" {
		return SanitizePrefix(m.Name)
	}
	return m.Prefix
}

// SanitizePrefix lowercases name and replaces everything outside [a-z0-9_]
// with '_', leaving a string usable in scoreboard, entity and structure names.
func SanitizePrefix(name string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return '_'
	}, strings.ToLower(name))
}

func triple(v semver.Version) [3]uint64 {
	return [3]uint64{v.Major, v.Minor, v.Patch}
}

type manifestHeader struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	UUID             string    `json:"uuid"`
	Version          [3]uint64 `json:"version"`
	MinEngineVersion [3]uint64 `json:"min_engine_version"`
}

type manifestModule struct {
	Description string    `json:"description"`
	Type        string    `json:"type"`
	UUID        string    `json:"uuid"`
	Version     [3]uint64 `json:"version"`
}

type manifestDoc struct {
	FormatVersion int              `json:"format_version"`
	Header        manifestHeader   `json:"header"`
	Modules       []manifestModule `json:"modules"`
}

// JSON renders manifest.json.
func (m *Manifest) JSON() ([]byte, error) {
	if m.Name == "" {
		return nil, fmt.Errorf("pack name is required")
	}
	if m.HeaderUUID == "" {
		m.HeaderUUID = uuid.NewString()
	}
	if m.ModuleUUID == "" {
		m.ModuleUUID = uuid.NewString()
	}
	format := m.FormatVersion
	if format == 0 {
		format = 2
	}
	doc := manifestDoc{
		FormatVersion: format,
		Header: manifestHeader{
			Name:             m.Name,
			Description:      m.Description,
			UUID:             m.HeaderUUID,
			Version:          triple(m.Version),
			MinEngineVersion: triple(m.MinEngine),
		},
		Modules: []manifestModule{{
			Description: m.Description,
			Type:        m.Type.String(),
			UUID:        m.ModuleUUID,
			Version:     triple(m.Version),
		}},
	}
	return json.MarshalIndent(doc, "", "    ")
}
