package main

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/beamer-audio/beamer-go/pkg/framework/param"
)

// Manifest is the YAML description of a plugin's parameter set. Keys are
// stable identifiers: they feed the FNV-1a runtime ids and the
// serialization paths, so renaming a key orphans saved state.
type Manifest struct {
	Package string          `yaml:"package"`
	Type    string          `yaml:"type"`
	Groups  []GroupManifest `yaml:"groups"`
	Params  []ParamManifest `yaml:"params"`
}

type GroupManifest struct {
	Key    string          `yaml:"key"`
	Name   string          `yaml:"name"`
	Groups []GroupManifest `yaml:"groups"`
}

type ParamManifest struct {
	Key     string  `yaml:"key"`
	Name    string  `yaml:"name"`
	Short   string  `yaml:"short"`
	Unit    string  `yaml:"unit"`
	Type    string  `yaml:"type"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Default float64 `yaml:"default"`
	Scale   string  `yaml:"scale"`
	Exp     float64 `yaml:"exponent"`

	Smooth   string  `yaml:"smooth"`
	SmoothMs float64 `yaml:"smooth_ms"`

	Group  string   `yaml:"group"`
	Values []string `yaml:"values"`
	Bypass bool     `yaml:"bypass"`
	Hidden bool     `yaml:"hidden"`
}

// group is a resolved group with its generated id.
type group struct {
	key      string
	name     string
	id       int32
	parentID int32
}

// model is the validated, id-assigned form the emitter works from.
type model struct {
	pkg      string
	typeName string
	groups   []group
	params   []ParamManifest
	groupIDs map[string]int32
}

// Load parses and validates a manifest.
func Load(data []byte) (*model, error) {
	var m Manifest
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return resolve(&m)
}

func resolve(m *Manifest) (*model, error) {
	out := &model{
		pkg:      m.Package,
		typeName: m.Type,
		params:   m.Params,
		groupIDs: map[string]int32{},
	}
	if out.pkg == "" {
		return nil, fmt.Errorf("manifest: package is required")
	}
	if out.typeName == "" {
		out.typeName = "Params"
	}

	// Group ids are assigned at generation time: flat groups first in
	// declaration order, then nested groups level by level. A group key
	// appearing under two parents would give the same state path two
	// meanings, so it is rejected.
	next := int32(1)
	type pending struct {
		g      GroupManifest
		parent int32
	}
	queue := make([]pending, 0, len(m.Groups))
	for _, g := range m.Groups {
		queue = append(queue, pending{g: g, parent: param.RootGroupID})
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p.g.Key == "" {
			return nil, fmt.Errorf("group %q: key is required", p.g.Name)
		}
		if _, dup := out.groupIDs[p.g.Key]; dup {
			return nil, fmt.Errorf("group %q appears under two parents; shared group blocks are not supported", p.g.Key)
		}
		id := next
		next++
		out.groupIDs[p.g.Key] = id
		name := p.g.Name
		if name == "" {
			name = p.g.Key
		}
		out.groups = append(out.groups, group{key: p.g.Key, name: name, id: id, parentID: p.parent})
		for _, child := range p.g.Groups {
			queue = append(queue, pending{g: child, parent: id})
		}
	}

	if err := out.validateParams(); err != nil {
		return nil, err
	}
	return out, nil
}

// fullKey is the parameter's serialization path: group keys from the
// root down, then the parameter key.
func (m *model) fullKey(p *ParamManifest) string {
	if p.Group == "" {
		return p.Key
	}
	var segs []string
	id := m.groupIDs[p.Group]
	for id != param.RootGroupID {
		for _, g := range m.groups {
			if g.id == id {
				segs = append([]string{g.key}, segs...)
				id = g.parentID
				break
			}
		}
	}
	return strings.Join(append(segs, p.Key), "/")
}

func (m *model) validateParams() error {
	if len(m.params) == 0 {
		return fmt.Errorf("manifest: at least one parameter is required")
	}
	byID := map[uint32]string{}
	seen := map[string]bool{}
	for i := range m.params {
		p := &m.params[i]
		if p.Key == "" {
			return fmt.Errorf("param %d: key is required", i)
		}
		if p.Group != "" {
			if _, ok := m.groupIDs[p.Group]; !ok {
				return fmt.Errorf("param %q: unknown group %q", p.Key, p.Group)
			}
		}
		switch p.Type {
		case "", "float", "int", "bool", "enum":
		default:
			return fmt.Errorf("param %q: unknown type %q", p.Key, p.Type)
		}
		switch p.Scale {
		case "", "linear", "log", "logoffset", "pow":
		default:
			return fmt.Errorf("param %q: unknown scale %q", p.Key, p.Scale)
		}
		if p.Type == "enum" && len(p.Values) < 2 {
			return fmt.Errorf("param %q: enum needs at least two values", p.Key)
		}

		key := m.fullKey(p)
		if seen[key] {
			return fmt.Errorf("duplicate parameter key %q", key)
		}
		seen[key] = true
		id := param.HashID(key)
		if other, clash := byID[id]; clash {
			return fmt.Errorf("hash collision: %q and %q both map to id 0x%08X; rename one", other, key, id)
		}
		byID[id] = key
	}
	return nil
}

// Generate emits the parameter collection source file.
func (m *model) Generate() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by paramgen. DO NOT EDIT.\n\npackage %s\n\n", m.pkg)
	b.WriteString("import (\n\t\"github.com/beamer-audio/beamer-go/pkg/framework/param\"\n)\n\n")

	fmt.Fprintf(&b, "// %s holds the plugin's parameters with typed access.\n", m.typeName)
	fmt.Fprintf(&b, "type %s struct {\n", m.typeName)
	for i := range m.params {
		p := &m.params[i]
		fmt.Fprintf(&b, "\t%s %s\n", fieldName(p.Key), goType(p))
	}
	b.WriteString("}\n\n")

	// Group id constants keep author code readable.
	if len(m.groups) > 0 {
		b.WriteString("const (\n")
		for _, g := range m.groups {
			fmt.Fprintf(&b, "\tGroup%s int32 = %d\n", fieldName(g.key), g.id)
		}
		b.WriteString(")\n\n")
	}

	fmt.Fprintf(&b, "// New%s builds the parameters with their generated ids and groups.\n", m.typeName)
	fmt.Fprintf(&b, "func New%s() *%s {\n", m.typeName, m.typeName)
	fmt.Fprintf(&b, "\treturn &%s{\n", m.typeName)
	for i := range m.params {
		p := &m.params[i]
		fmt.Fprintf(&b, "\t\t%s: %s,\n", fieldName(p.Key), m.builderExpr(p))
	}
	b.WriteString("\t}\n}\n\n")

	fmt.Fprintf(&b, "// Declare registers every parameter and the group forest.\n")
	fmt.Fprintf(&b, "func (p *%s) Declare(reg *param.Registry) error {\n", m.typeName)
	if len(m.groups) > 0 {
		b.WriteString("\treg.SetGroups(param.NewGroupTable(\n")
		for _, g := range m.groups {
			fmt.Fprintf(&b, "\t\tparam.Group{ID: %d, Name: %q, ParentID: %d},\n", g.id, g.name, g.parentID)
		}
		b.WriteString("\t))\n")
	}
	b.WriteString("\treturn reg.Add(\n")
	for i := range m.params {
		fmt.Fprintf(&b, "\t\tp.%s,\n", fieldName(m.params[i].Key))
	}
	b.WriteString("\t)\n}\n")
	return b.Bytes()
}

func goType(p *ParamManifest) string {
	switch p.Type {
	case "int":
		return "*param.Int"
	case "bool":
		return "*param.Bool"
	case "enum":
		return "*param.Enum"
	default:
		return "*param.Float"
	}
}

func (m *model) builderExpr(p *ParamManifest) string {
	key := m.fullKey(p)
	name := p.Name
	if name == "" {
		name = p.Key
	}
	groupID := int32(param.RootGroupID)
	if p.Group != "" {
		groupID = m.groupIDs[p.Group]
	}
	switch p.Type {
	case "int":
		expr := fmt.Sprintf("param.NewInt(%q, %q, %d, %d, %d)", key, name, int64(p.Min), int64(p.Max), int64(p.Default))
		if groupID != param.RootGroupID {
			expr += fmt.Sprintf(".SetGroup(%d)", groupID)
		}
		return expr
	case "bool":
		expr := fmt.Sprintf("param.NewBool(%q, %q, %v)", key, name, p.Default != 0)
		if p.Bypass {
			expr += ".Bypass()"
		}
		if groupID != param.RootGroupID {
			expr += fmt.Sprintf(".SetGroup(%d)", groupID)
		}
		return expr
	case "enum":
		var vals []string
		for _, v := range p.Values {
			vals = append(vals, fmt.Sprintf("%q", v))
		}
		expr := fmt.Sprintf("param.NewEnum(%q, %q, %d, %s)", key, name, int(p.Default), strings.Join(vals, ", "))
		if groupID != param.RootGroupID {
			expr += fmt.Sprintf(".SetGroup(%d)", groupID)
		}
		return expr
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "param.NewFloat(%q, %q)", key, name)
		switch p.Scale {
		case "log":
			fmt.Fprintf(&b, ".LogRange(%v, %v)", p.Min, p.Max)
		case "logoffset":
			fmt.Fprintf(&b, ".LogOffsetRange(%v, %v)", p.Min, p.Max)
		case "pow":
			fmt.Fprintf(&b, ".PowRange(%v, %v, %v)", p.Min, p.Max, p.Exp)
		default:
			fmt.Fprintf(&b, ".Range(%v, %v)", p.Min, p.Max)
		}
		fmt.Fprintf(&b, ".Default(%v)", p.Default)
		if p.Short != "" {
			fmt.Fprintf(&b, ".ShortName(%q)", p.Short)
		}
		if p.Unit != "" {
			fmt.Fprintf(&b, ".Unit(%q)", p.Unit)
		}
		switch p.Smooth {
		case "linear":
			fmt.Fprintf(&b, ".Smooth(param.SmoothLinear, %v)", p.SmoothMs)
		case "exp":
			fmt.Fprintf(&b, ".Smooth(param.SmoothExponential, %v)", p.SmoothMs)
		}
		if p.Hidden {
			b.WriteString(".Hidden()")
		}
		if groupID != param.RootGroupID {
			fmt.Fprintf(&b, ".Group(%d)", groupID)
		}
		b.WriteString(".MustBuild()")
		return b.String()
	}
}

// fieldName turns a key like "filter_cutoff" or "filter-cutoff" into an
// exported Go identifier.
func fieldName(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '/' || r == '.'
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
