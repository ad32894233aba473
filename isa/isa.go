// Package isa holds the 8086 opcode and group tables that drive the decoder.
package isa

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// NumGroups is the number of group tables reachable from ShapeSpecial opcodes.
const NumGroups = 7

// NoGroup is the group index of templates that are not group-indirected.
const NoGroup = -1

//go:embed opcodes.yaml
var defaultDefinition []byte

// Template describes one opcode (or one group entry). Templates are values and
// are never mutated after the table is built.
type Template struct {
	Mnemonic string
	Shape    Shape
	Group    int
}

// Unknown is returned for every byte the table does not map.
var Unknown = Template{Shape: ShapeUnknown, Group: NoGroup}

// HasGroup reports whether the template refers to a group table.
func (t Template) HasGroup() bool {
	return t.Group != NoGroup
}

func (t Template) String() string {
	if t.HasGroup() {
		return fmt.Sprintf("%s(group %d)", t.Shape, t.Group)
	}

	return fmt.Sprintf("%s %s", t.Mnemonic, t.Shape)
}

// Table is the immutable primary and group opcode table.
type Table struct {
	name    string
	primary [256]Template
	groups  [NumGroups][8]Template
}

type definition struct {
	Name         string          `yaml:"name"`
	Instructions []registration  `yaml:"instructions"`
	Groups       [][]groupMember `yaml:"groups"`
}

type registration struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Shape   string `yaml:"shape"`
	Group   *int   `yaml:"group"`
	Skip    []int  `yaml:"skip"`
}

type groupMember struct {
	Name  string `yaml:"name"`
	Shape string `yaml:"shape"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table built from the embedded opcode definition. The
// table is built on first use and shared afterwards.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := NewTable(defaultDefinition)
		if err != nil {
			panic(fmt.Sprintf("embedded opcode table is invalid: %v", err))
		}

		defaultTable = t
	})

	return defaultTable
}

// DefaultDefinition returns a copy of the embedded YAML definition.
func DefaultDefinition() []byte {
	return append([]byte(nil), defaultDefinition...)
}

// NewTable builds an independent table from a YAML definition.
func NewTable(doc []byte) (*Table, error) {
	var def definition
	if err := yaml.Unmarshal(doc, &def); err != nil {
		return nil, fmt.Errorf("parse opcode definition: %w", err)
	}

	t := &Table{name: def.Name}
	for i := range t.primary {
		t.primary[i] = Unknown
	}
	for g := range t.groups {
		for s := range t.groups[g] {
			t.groups[g][s] = Unknown
		}
	}

	for _, r := range def.Instructions {
		if err := t.register(r); err != nil {
			return nil, fmt.Errorf("register %q %s: %w", r.Name, r.Pattern, err)
		}
	}

	if len(def.Groups) > NumGroups {
		return nil, fmt.Errorf("%d groups defined, at most %d allowed", len(def.Groups), NumGroups)
	}

	for g, members := range def.Groups {
		if len(members) != 8 {
			return nil, fmt.Errorf("group %d has %d entries, expected 8", g, len(members))
		}

		for sel, m := range members {
			if m.Name == "" {
				continue
			}

			shape, err := ParseShape(m.Shape)
			if err != nil {
				return nil, fmt.Errorf("group %d entry %d: %w", g, sel, err)
			}

			if !shape.IsGroup() {
				return nil, fmt.Errorf("group %d entry %d: shape %s is not a group shape", g, sel, shape)
			}

			t.groups[g][sel] = Template{Mnemonic: m.Name, Shape: shape, Group: NoGroup}
		}
	}

	return t, nil
}

// register fills every byte whose high bits match the registration pattern.
// A pattern of n bits leaves 8-n trailing bits free; '-' marks a free bit
// inside the pattern.
func (t *Table) register(r registration) error {
	shape, err := ParseShape(r.Shape)
	if err != nil {
		return err
	}

	if shape.IsGroup() {
		return fmt.Errorf("shape %s only belongs in a group table", shape)
	}

	tmpl := Template{Mnemonic: r.Name, Shape: shape, Group: NoGroup}
	if shape == ShapeSpecial {
		if r.Group == nil || *r.Group < 0 || *r.Group >= NumGroups {
			return fmt.Errorf("special opcode needs a group index in [0, %d)", NumGroups)
		}

		tmpl.Group = *r.Group
	}

	values, err := expandPattern(r.Pattern)
	if err != nil {
		return err
	}

	skip := make(map[int]bool, len(r.Skip))
	for _, s := range r.Skip {
		skip[s] = true
	}

	for _, v := range values {
		if skip[v] {
			continue
		}

		t.primary[v] = tmpl
	}

	return nil
}

func expandPattern(pattern string) ([]int, error) {
	if len(pattern) == 0 || len(pattern) > 8 {
		return nil, fmt.Errorf("pattern must have 1 to 8 bits")
	}

	padded := pattern + strings.Repeat("-", 8-len(pattern))
	values := []int{0}

	for _, c := range padded {
		next := make([]int, 0, len(values)*2)

		switch c {
		case '0', '1':
			bit, _ := strconv.Atoi(string(c))
			for _, v := range values {
				next = append(next, v<<1|bit)
			}
		case '-':
			for _, v := range values {
				next = append(next, v<<1, v<<1|1)
			}
		default:
			return nil, fmt.Errorf("invalid pattern character %q", c)
		}

		values = next
	}

	return values, nil
}

// Name returns the name given in the definition.
func (t *Table) Name() string {
	return t.name
}

// Lookup returns the template of an opcode byte.
func (t *Table) Lookup(b byte) Template {
	return t.primary[b]
}

// LookupGroup returns the template selected by the reg field of the byte
// that follows a ShapeSpecial opcode.
func (t *Table) LookupGroup(group int, sel byte) Template {
	if group < 0 || group >= NumGroups || sel > 7 {
		return Unknown
	}

	return t.groups[group][sel]
}
