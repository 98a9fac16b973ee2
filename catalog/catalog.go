// Package catalog loads the block catalog and narrows it to a palette for a
// given plane, game version and attribute allowance.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/blang/semver"

	"github.com/voxelsplace/blockpack/blocks"
)

// ErrMalformed is returned for catalogs that fail to parse or validate.
var ErrMalformed = fmt.Errorf("%w: malformed block catalog", blocks.ErrPrecondition)

// Face is a bit set of block faces.
type Face int

const (
	Front  Face = 0x01
	Back   Face = 0x02
	Right  Face = 0x04
	Left   Face = 0x08
	Top    Face = 0x10
	Bottom Face = 0x20
	Side   Face = 0x1F
)

var faceNames = map[string]Face{
	"front": Front, "back": Back, "right": Right, "left": Left,
	"top": Top, "bottom": Bottom, "side": Side,
}

// ParseFace maps a catalog key to a face. Unknown keys count as Side.
func ParseFace(s string) Face {
	if f, ok := faceNames[s]; ok {
		return f
	}
	return Side
}

// Alignment is the set of orientations a block may be placed in.
type Alignment int

const (
	Horizontal Alignment = 0x01
	Vertical   Alignment = 0x02
)

// Attribute flags describe behaviours that may make a block unsuitable.
type Attribute int

const (
	IsLighting Attribute = 1 << iota
	IsTimeVarying
	Burnable
	EndermanPickable
	HasGravity
	HasEnergy
	IsTransparency
	IsCommandFormatID

	AllAttributes Attribute = 0xFF
)

var attributeNames = map[string]Attribute{
	"lighting":     IsLighting,
	"time_varying": IsTimeVarying,
	"burnable":     Burnable,
	"pickable":     EndermanPickable,
	"gravity":      HasGravity,
	"energy":       HasEnergy,
	"transparency": IsTransparency,
	"command_id":   IsCommandFormatID,
}

// ParseAttributes ORs together the named attributes.
func ParseAttributes(names []string) (Attribute, error) {
	var a Attribute
	for _, n := range names {
		f, ok := attributeNames[n]
		if !ok {
			return 0, fmt.Errorf("unknown block attribute %q", n)
		}
		a |= f
	}
	return a, nil
}

// VersionedID is a block id valid from Version on.
type VersionedID struct {
	ID      string `json:"id"`
	Version []int  `json:"version"`
}

// Block is one catalog record.
type Block struct {
	IDs          []VersionedID      `json:"ids"`
	Texture      map[string]*string `json:"texture"`
	RGBColor     map[string]*string `json:"rgbColor"`
	DebutVersion []int              `json:"debutVersion"`
	Direction    []string           `json:"direction"`

	IsLighting        bool `json:"isLighting,omitempty"`
	IsTimeVarying     bool `json:"isTimeVarying,omitempty"`
	Burnable          bool `json:"burnable,omitempty"`
	EndermanPickable  bool `json:"endermanPickable,omitempty"`
	HasGravity        bool `json:"hasGravity,omitempty"`
	HasEnergy         bool `json:"hasEnergy,omitempty"`
	IsTransparency    bool `json:"isTransparency,omitempty"`
	IsCommandFormatID bool `json:"isCommandFormatId,omitempty"`
}

// Catalog is the document root.
type Catalog struct {
	Blocks []Block `json:"blocks"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the catalog schema and decodes it.
func Parse(data []byte) (*Catalog, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &c, nil
}

// Save writes the catalog back as indented JSON.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func toVersion(v []int) semver.Version {
	var out semver.Version
	if len(v) > 0 {
		out.Major = uint64(v[0])
	}
	if len(v) > 1 {
		out.Minor = uint64(v[1])
	}
	if len(v) > 2 {
		out.Patch = uint64(v[2])
	}
	return out
}

// Debut is the game version the block first appeared in.
func (b *Block) Debut() semver.Version { return toVersion(b.DebutVersion) }

// Alignment decodes the direction list.
func (b *Block) Alignment() Alignment {
	var a Alignment
	for _, d := range b.Direction {
		switch d {
		case "x":
			a |= Horizontal
		case "y":
			a |= Vertical
		}
	}
	return a
}

// Attributes collects the behaviour flags.
func (b *Block) Attributes() Attribute {
	var a Attribute
	for _, f := range []struct {
		set  bool
		flag Attribute
	}{
		{b.IsLighting, IsLighting},
		{b.IsTimeVarying, IsTimeVarying},
		{b.Burnable, Burnable},
		{b.EndermanPickable, EndermanPickable},
		{b.HasGravity, HasGravity},
		{b.HasEnergy, HasEnergy},
		{b.IsTransparency, IsTransparency},
		{b.IsCommandFormatID, IsCommandFormatID},
	} {
		if f.set {
			a |= f.flag
		}
	}
	return a
}

// faceMap decodes a face keyed object, dropping null values.
func faceMap(m map[string]*string) map[Face]string {
	out := make(map[Face]string, len(m))
	for k, v := range m {
		if v != nil {
			out[ParseFace(k)] = *v
		}
	}
	return out
}

// IDFor returns the id with the lowest version not older than min.
func (b *Block) IDFor(min semver.Version) (string, bool) {
	ids := make([]VersionedID, len(b.IDs))
	copy(ids, b.IDs)
	sort.SliceStable(ids, func(i, j int) bool {
		return toVersion(ids[i].Version).LT(toVersion(ids[j].Version))
	})
	for _, id := range ids {
		if toVersion(id.Version).GTE(min) {
			return id.ID, true
		}
	}
	return "", false
}
