// Package schema infers TypeScript interfaces from a JSON document without
// calling out to a model.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/rebelice/jsonstudio/internal/jsontree"
)

// DefaultRootName names the interface of the document root
const DefaultRootName = "Root"

var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Field is one property of an inferred interface
type Field struct {
	Name     string
	Type     string
	Optional bool
}

// Interface is an inferred object shape
type Interface struct {
	Name   string
	Fields []Field
}

// Schema is the result of inference. RootType is the type of the document
// root; it names an interface when the root is an object.
type Schema struct {
	RootName   string
	RootType   string
	Interfaces []Interface
}

type inferrer struct {
	names      map[string]int
	interfaces []*Interface
}

// Infer walks v and returns the interfaces describing it. Arrays of objects
// are merged into one interface; fields missing from some elements become
// optional, and fields whose types differ become unions.
func Infer(v jsontree.Value, rootName string) *Schema {
	if rootName == "" {
		rootName = DefaultRootName
	}

	inf := &inferrer{names: make(map[string]int)}
	rootType := inf.typeOf([]jsontree.Value{v}, rootName)

	s := &Schema{RootName: rootName, RootType: rootType}
	for _, i := range inf.interfaces {
		s.Interfaces = append(s.Interfaces, *i)
	}
	return s
}

// TypeScript renders the schema as TypeScript declarations
func (s *Schema) TypeScript() string {
	var b strings.Builder

	if len(s.Interfaces) == 0 || s.Interfaces[0].Name != s.RootType {
		fmt.Fprintf(&b, "export type %s = %s;\n", s.RootName, s.RootType)
		if len(s.Interfaces) > 0 {
			b.WriteString("\n")
		}
	}

	for i, iface := range s.Interfaces {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "export interface %s {\n", iface.Name)
		for _, f := range iface.Fields {
			name := f.Name
			if !identifierRegex.MatchString(name) {
				name = fmt.Sprintf("%q", name)
			}
			if f.Optional {
				name += "?"
			}
			fmt.Fprintf(&b, "  %s: %s;\n", name, f.Type)
		}
		b.WriteString("}\n")
	}

	return b.String()
}

// typeOf returns the union of the types of values, all of which sit at the
// same position in the document
func (inf *inferrer) typeOf(values []jsontree.Value, suggested string) string {
	var (
		objects []jsontree.Value
		items   []jsontree.Value
		arrays  int
		kinds   []string
	)

	for _, v := range values {
		switch v.Kind() {
		case jsontree.KindObject:
			objects = append(objects, v)
		case jsontree.KindArray:
			arrays++
			items = append(items, v.Items()...)
		case jsontree.KindString:
			kinds = appendUnique(kinds, "string")
		case jsontree.KindNumber:
			kinds = appendUnique(kinds, "number")
		case jsontree.KindBool:
			kinds = appendUnique(kinds, "boolean")
		default:
			kinds = appendUnique(kinds, "null")
		}
	}

	var union []string
	if len(objects) > 0 {
		union = append(union, inf.objectType(objects, suggested))
	}
	if arrays > 0 {
		union = append(union, inf.arrayType(items, suggested))
	}
	union = append(union, kinds...)

	if len(union) == 0 {
		return "unknown"
	}
	return strings.Join(union, " | ")
}

func (inf *inferrer) arrayType(items []jsontree.Value, suggested string) string {
	if len(items) == 0 {
		return "unknown[]"
	}
	elem := inf.typeOf(items, singularize(typeName(suggested)))
	if strings.Contains(elem, " | ") {
		return "(" + elem + ")[]"
	}
	return elem + "[]"
}

func (inf *inferrer) objectType(objects []jsontree.Value, suggested string) string {
	iface := &Interface{Name: inf.uniqueName(typeName(suggested))}
	// Reserve the slot so parents are listed before their children
	inf.interfaces = append(inf.interfaces, iface)

	var order []string
	seen := make(map[string][]jsontree.Value)
	present := make(map[string]int)

	for _, obj := range objects {
		counted := make(map[string]bool)
		for _, m := range obj.Members() {
			if _, ok := seen[m.Key]; !ok {
				order = append(order, m.Key)
			}
			seen[m.Key] = append(seen[m.Key], m.Value)
			if !counted[m.Key] {
				counted[m.Key] = true
				present[m.Key]++
			}
		}
	}

	for _, key := range order {
		iface.Fields = append(iface.Fields, Field{
			Name:     key,
			Type:     inf.typeOf(seen[key], key),
			Optional: present[key] < len(objects),
		})
	}

	return iface.Name
}

func (inf *inferrer) uniqueName(base string) string {
	count := inf.names[base]
	inf.names[base] = count + 1
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s%d", base, count+1)
}

// typeName converts a JSON key to a PascalCase type name
func typeName(key string) string {
	name := strcase.ToCamel(key)
	if name == "" || !identifierRegex.MatchString(name) {
		return "Type" + strings.TrimLeft(name, "0123456789")
	}
	return name
}

func singularize(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(lower, "sses"), strings.HasSuffix(lower, "shes"), strings.HasSuffix(lower, "ches"):
		return name[:len(name)-2]
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && !strings.HasSuffix(lower, "us") && len(name) > 1:
		return name[:len(name)-1]
	}
	return name + "Item"
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
