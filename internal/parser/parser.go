// Package parser lowers one raw schema document into the canonical IR.
//
// Documents are decoded into yaml nodes rather than maps so that property and
// definition order survives parsing; JSON documents take the same path since
// JSON is a YAML subset. References are kept as reference nodes instead of
// being inlined, which is what lets recursive definition graphs terminate
// structurally.
package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/mkarlsen/quarry/internal/model"
)

const refPrefix = "#/definitions/"

// Result carries the IR for one successfully parsed document plus any
// warnings recorded for ignored, unsupported keywords.
type Result struct {
	IR       *model.SchemaIR
	Warnings []string
}

type refSite struct {
	ref string
	loc string
}

type parser struct {
	doc      string
	warnings []string
	refs     []refSite
}

// Parse lowers a schema document into IR. Parsing is all-or-nothing: a
// malformed resource or a dangling reference fails the whole document and no
// partial IR is returned.
func Parse(path string, data []byte) (*Result, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &model.ParseError{Doc: path, Reason: "malformed document", Err: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &model.ParseError{Doc: path, Reason: "empty document"}
	}

	p := &parser{doc: path}
	ir, err := p.parseDocument(root.Content[0])
	if err != nil {
		return nil, err
	}
	ir.Metadata.SourcePath = path

	for _, site := range p.refs {
		if _, ok := ir.Definitions[site.ref]; !ok {
			return nil, &model.ParseError{
				Doc:    path,
				Loc:    site.loc,
				Reason: fmt.Sprintf("dangling reference %q", refPrefix+site.ref),
				Err:    &model.DanglingReferenceError{Ref: site.ref, Loc: site.loc},
			}
		}
	}

	return &Result{IR: ir, Warnings: p.warnings}, nil
}

func (p *parser) parseDocument(root *yaml.Node) (*model.SchemaIR, error) {
	if root.Kind != yaml.MappingNode {
		return nil, p.errorf("", "document root must be an object")
	}

	ir := &model.SchemaIR{Definitions: map[string]*model.TypeDefinition{}}

	for key, value := range mappingPairs(root) {
		switch key {
		case "provider":
			ir.Provider = value.Value
		case "apiVersion":
			ir.APIVersion = value.Value
		case "title":
			ir.Metadata.Title = value.Value
		case "description":
			ir.Metadata.Description = value.Value
		case "resources":
			if value.Kind != yaml.SequenceNode {
				return nil, p.errorf("/resources", "resources must be a list")
			}
			for i, item := range value.Content {
				loc := "/resources/" + strconv.Itoa(i)
				res, err := p.parseResource(item, loc)
				if err != nil {
					return nil, err
				}
				ir.Resources = append(ir.Resources, *res)
			}
		case "definitions":
			if value.Kind != yaml.MappingNode {
				return nil, p.errorf("/definitions", "definitions must be an object")
			}
			for name, defNode := range mappingPairs(value) {
				loc := "/definitions/" + name
				if _, dup := ir.Definitions[name]; dup {
					return nil, p.errorf(loc, "duplicate definition key %q", name)
				}
				def, err := p.parseType(defNode, loc)
				if err != nil {
					return nil, err
				}
				ir.Definitions[name] = def
				ir.DefinitionOrder = append(ir.DefinitionOrder, name)
			}
		default:
			p.warnf("", "ignoring unsupported document keyword %q", key)
		}
	}

	if ir.Provider == "" {
		return nil, p.errorf("", "missing required field \"provider\"")
	}
	if ir.APIVersion == "" {
		return nil, p.errorf("", "missing required field \"apiVersion\"")
	}

	return ir, nil
}

func (p *parser) parseResource(node *yaml.Node, loc string) (*model.ResourceDefinition, error) {
	if node.Kind != yaml.MappingNode {
		return nil, p.errorf(loc, "resource must be an object")
	}

	res := &model.ResourceDefinition{}

	for key, value := range mappingPairs(node) {
		switch key {
		case "type":
			res.ResourceType = value.Value
		case "description":
			res.Description = value.Value
		case "properties":
			props, err := p.parseProperties(value, loc+"/properties")
			if err != nil {
				return nil, err
			}
			res.Properties = props
		case "required":
			req, err := p.parseRequired(value, loc+"/required")
			if err != nil {
				return nil, err
			}
			res.Required = req
		default:
			p.warnf(loc, "ignoring unsupported resource keyword %q", key)
		}
	}

	if res.ResourceType == "" {
		return nil, p.errorf(loc, "resource missing required field \"type\"")
	}
	if err := checkRequired(res.Properties, res.Required); err != nil {
		return nil, p.errorf(loc, "%s", err.Error())
	}

	return res, nil
}

func (p *parser) parseProperties(node *yaml.Node, loc string) ([]model.Property, error) {
	if node.Kind != yaml.MappingNode {
		return nil, p.errorf(loc, "properties must be an object")
	}

	var props []model.Property
	seen := map[string]bool{}
	for name, propNode := range mappingPairs(node) {
		propLoc := loc + "/" + name
		if seen[name] {
			return nil, p.errorf(propLoc, "duplicate property %q", name)
		}
		seen[name] = true

		prop, err := p.parseProperty(name, propNode, propLoc)
		if err != nil {
			return nil, err
		}
		props = append(props, *prop)
	}
	return props, nil
}

func (p *parser) parseProperty(name string, node *yaml.Node, loc string) (*model.Property, error) {
	t, err := p.parseType(node, loc)
	if err != nil {
		return nil, err
	}
	prop := &model.Property{
		Name:        name,
		Type:        t,
		Description: t.Description,
		Deprecated:  t.Deprecated,
	}
	if node.Kind == yaml.MappingNode {
		for key, value := range mappingPairs(node) {
			if key == "readOnly" {
				if prop.ReadOnly, err = p.boolValue(value, loc+"/readOnly"); err != nil {
					return nil, err
				}
			}
		}
	}
	return prop, nil
}

func (p *parser) parseRequired(node *yaml.Node, loc string) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, p.errorf(loc, "required must be a list of property names")
	}
	var names []string
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, p.errorf(loc, "required entries must be strings")
		}
		names = append(names, item.Value)
	}
	return names, nil
}

// typeKeywords is the closed set of keywords the parser understands inside a
// type mapping. Anything else is recorded as a warning and ignored.
var typeKeywords = map[string]bool{
	"type": true, "$ref": true, "oneOf": true, "enum": true,
	"properties": true, "required": true, "additionalProperties": true,
	"items": true, "description": true, "deprecated": true, "readOnly": true,
	"pattern": true, "minLength": true, "maxLength": true,
	"minimum": true, "maximum": true, "minItems": true, "maxItems": true,
}

func (p *parser) parseType(node *yaml.Node, loc string) (*model.TypeDefinition, error) {
	if node.Kind != yaml.MappingNode {
		return nil, p.errorf(loc, "type must be an object")
	}

	fields := map[string]*yaml.Node{}
	for key, value := range mappingPairs(node) {
		if !typeKeywords[key] {
			p.warnf(loc, "ignoring unsupported keyword %q", key)
			continue
		}
		fields[key] = value
	}

	t := &model.TypeDefinition{}
	if d, ok := fields["description"]; ok {
		t.Description = d.Value
	}
	if d, ok := fields["deprecated"]; ok {
		var err error
		if t.Deprecated, err = p.boolValue(d, loc+"/deprecated"); err != nil {
			return nil, err
		}
	}

	switch {
	case fields["$ref"] != nil:
		ref := fields["$ref"].Value
		if len(ref) <= len(refPrefix) || ref[:len(refPrefix)] != refPrefix {
			return nil, p.errorf(loc, "unsupported reference target %q, only %s<key> is supported", ref, refPrefix)
		}
		t.Kind = model.KindReference
		t.Ref = ref[len(refPrefix):]
		p.refs = append(p.refs, refSite{ref: t.Ref, loc: loc})
		return t, nil

	case fields["oneOf"] != nil:
		return p.parseUnion(t, fields["oneOf"], loc)

	case fields["enum"] != nil:
		return p.parseEnum(t, fields["enum"], loc)
	}

	typeName := ""
	if tn, ok := fields["type"]; ok {
		typeName = tn.Value
	} else if fields["properties"] != nil {
		typeName = "object"
	}

	switch typeName {
	case "string", "number", "integer", "boolean", "null":
		t.Kind = model.KindPrimitive
		t.Primitive = model.PrimitiveType(typeName)
		return t, p.parseConstraints(t, fields, loc)
	case "object":
		return p.parseObject(t, fields, loc)
	case "array":
		return p.parseArray(t, fields, loc)
	case "":
		return nil, p.errorf(loc, "type mapping carries none of type, $ref, oneOf or enum")
	default:
		return nil, p.errorf(loc, "unsupported type %q", typeName)
	}
}

func (p *parser) parseObject(t *model.TypeDefinition, fields map[string]*yaml.Node, loc string) (*model.TypeDefinition, error) {
	t.Kind = model.KindObject
	if props, ok := fields["properties"]; ok {
		parsed, err := p.parseProperties(props, loc+"/properties")
		if err != nil {
			return nil, err
		}
		t.Properties = parsed
	}
	if req, ok := fields["required"]; ok {
		parsed, err := p.parseRequired(req, loc+"/required")
		if err != nil {
			return nil, err
		}
		t.Required = parsed
	}
	if add, ok := fields["additionalProperties"]; ok {
		parsed, err := p.parseType(add, loc+"/additionalProperties")
		if err != nil {
			return nil, err
		}
		t.Additional = parsed
	}
	if err := checkRequired(t.Properties, t.Required); err != nil {
		return nil, p.errorf(loc, "%s", err.Error())
	}
	return t, nil
}

func (p *parser) parseArray(t *model.TypeDefinition, fields map[string]*yaml.Node, loc string) (*model.TypeDefinition, error) {
	t.Kind = model.KindArray
	items, ok := fields["items"]
	if !ok {
		return nil, p.errorf(loc, "array type requires items")
	}
	parsed, err := p.parseType(items, loc+"/items")
	if err != nil {
		return nil, err
	}
	t.Items = parsed
	return t, p.parseConstraints(t, fields, loc)
}

func (p *parser) parseUnion(t *model.TypeDefinition, node *yaml.Node, loc string) (*model.TypeDefinition, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, p.errorf(loc+"/oneOf", "oneOf must be a list")
	}

	var members []*model.TypeDefinition
	seen := map[string]bool{}
	for i, item := range node.Content {
		member, err := p.parseType(item, loc+"/oneOf/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		// de-duplicate structurally identical branches
		fp := member.Fingerprint()
		if seen[fp] {
			continue
		}
		seen[fp] = true
		members = append(members, member)
	}

	switch len(members) {
	case 0:
		return nil, p.errorf(loc+"/oneOf", "oneOf must contain at least one member")
	case 1:
		// a single effective branch is not a union; collapse to the member
		member := members[0]
		if t.Description != "" && member.Description == "" {
			member.Description = t.Description
		}
		member.Deprecated = member.Deprecated || t.Deprecated
		return member, nil
	default:
		t.Kind = model.KindUnion
		t.Members = members
		return t, nil
	}
}

func (p *parser) parseEnum(t *model.TypeDefinition, node *yaml.Node, loc string) (*model.TypeDefinition, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, p.errorf(loc+"/enum", "enum must be a list of literals")
	}

	t.Kind = model.KindEnum
	seen := map[string]bool{}
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, p.errorf(loc+"/enum", "enum values must be scalar literals")
		}
		var v any
		if err := item.Decode(&v); err != nil {
			return nil, p.errorf(loc+"/enum", "decoding enum literal: %s", err.Error())
		}
		// de-duplicate by first occurrence, preserving declaration order
		key := fmt.Sprintf("%T:%v", v, v)
		if seen[key] {
			continue
		}
		seen[key] = true
		t.Enum = append(t.Enum, v)
	}

	if len(t.Enum) == 0 {
		return nil, p.errorf(loc+"/enum", "enum must contain at least one value")
	}
	return t, nil
}

func (p *parser) parseConstraints(t *model.TypeDefinition, fields map[string]*yaml.Node, loc string) error {
	c := &t.Constraints
	if n, ok := fields["pattern"]; ok {
		if _, err := regexp.Compile(n.Value); err != nil {
			return p.errorf(loc+"/pattern", "invalid pattern: %s", err.Error())
		}
		c.Pattern = n.Value
	}
	var err error
	if c.MinLength, err = p.intField(fields, "minLength", loc); err != nil {
		return err
	}
	if c.MaxLength, err = p.intField(fields, "maxLength", loc); err != nil {
		return err
	}
	if c.MinItems, err = p.intField(fields, "minItems", loc); err != nil {
		return err
	}
	if c.MaxItems, err = p.intField(fields, "maxItems", loc); err != nil {
		return err
	}
	if c.Minimum, err = p.floatField(fields, "minimum", loc); err != nil {
		return err
	}
	if c.Maximum, err = p.floatField(fields, "maximum", loc); err != nil {
		return err
	}
	return nil
}

// boolValue decodes a scalar through the yaml codec so every boolean spelling
// the document format allows is honored, not just the JSON one.
func (p *parser) boolValue(n *yaml.Node, loc string) (bool, error) {
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, p.errorf(loc, "expected a boolean")
	}
	return b, nil
}

func (p *parser) intField(fields map[string]*yaml.Node, name, loc string) (*int64, error) {
	n, ok := fields[name]
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return nil, p.errorf(loc+"/"+name, "%s must be an integer", name)
	}
	return &v, nil
}

func (p *parser) floatField(fields map[string]*yaml.Node, name, loc string) (*float64, error) {
	n, ok := fields[name]
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return nil, p.errorf(loc+"/"+name, "%s must be a number", name)
	}
	return &v, nil
}

func checkRequired(props []model.Property, required []string) error {
	for _, name := range required {
		found := false
		for i := range props {
			if props[i].Name == name {
				found = true
				break
			}
		}
		if !found {
			return &model.RequiredPropertyError{Name: name}
		}
	}
	return nil
}

func (p *parser) errorf(loc, format string, args ...any) error {
	return &model.ParseError{Doc: p.doc, Loc: loc, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) warnf(loc, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if loc != "" {
		msg += " at " + loc
	}
	p.warnings = append(p.warnings, msg)
}

// mappingPairs iterates a mapping node's key/value pairs in document order.
func mappingPairs(n *yaml.Node) func(yield func(string, *yaml.Node) bool) {
	return func(yield func(string, *yaml.Node) bool) {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if !yield(n.Content[i].Value, n.Content[i+1]) {
				return
			}
		}
	}
}
