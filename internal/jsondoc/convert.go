package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hjson/hjson-go"
	"gopkg.in/yaml.v3"

	"github.com/rebelice/jsonstudio/internal/jsontree"
)

// Target is an output format for Convert
type Target string

const (
	TargetJSON  Target = "json"
	TargetYAML  Target = "yaml"
	TargetTOML  Target = "toml"
	TargetHJSON Target = "hjson"
)

// Targets lists the supported conversion targets
var Targets = []Target{TargetJSON, TargetYAML, TargetTOML, TargetHJSON}

// ParseTarget resolves a user supplied format name
func ParseTarget(name string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return TargetJSON, nil
	case "yaml", "yml":
		return TargetYAML, nil
	case "toml":
		return TargetTOML, nil
	case "hjson":
		return TargetHJSON, nil
	}
	return "", fmt.Errorf("unsupported format %q", name)
}

// Convert renders v in the target format
func Convert(v jsontree.Value, target Target) (string, error) {
	switch target {
	case TargetJSON:
		var buf bytes.Buffer
		writeJSON(&buf, v, 0)
		return buf.String(), nil
	case TargetYAML:
		return toYAML(v)
	case TargetTOML:
		return toTOML(v)
	case TargetHJSON:
		out, err := hjson.Marshal(v.Interface())
		if err != nil {
			return "", fmt.Errorf("failed to encode HJSON: %w", err)
		}
		return string(out), nil
	}
	return "", fmt.Errorf("unsupported format %q", target)
}

// toYAML builds a yaml.Node tree so member order survives the conversion
func toYAML(v jsontree.Value) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(v)); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.String(), nil
}

func yamlNode(v jsontree.Value) *yaml.Node {
	switch v.Kind() {
	case jsontree.KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.Members() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				yamlNode(m.Value),
			)
		}
		return n
	case jsontree.KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			n.Content = append(n.Content, yamlNode(item))
		}
		return n
	case jsontree.KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Text()}
	case jsontree.KindNumber:
		tag := "!!int"
		if strings.ContainsAny(v.Text(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.Text()}
	case jsontree.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(v.BoolValue())}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// toTOML encodes an object root. TOML has no null, so null members are
// dropped by the encoder and null array elements are an error.
func toTOML(v jsontree.Value) (string, error) {
	if v.Kind() != jsontree.KindObject {
		return "", fmt.Errorf("TOML requires an object at the root, got %s", v.Kind())
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v.Interface()); err != nil {
		return "", fmt.Errorf("failed to encode TOML: %w", err)
	}
	return buf.String(), nil
}

// FromHJSON reads relaxed JSON (comments, unquoted keys and strings,
// trailing commas) and returns strict, indented JSON. Used as an offline
// repair before falling back to the AI fixer.
func FromHJSON(text string) (string, error) {
	var parsed interface{}
	if err := hjson.Unmarshal([]byte(text), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse HJSON: %w", err)
	}
	return marshalIndent(parsed)
}

// FromYAML converts a YAML document to indented JSON
func FromYAML(text string) (string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(text), &node); err != nil {
		return "", fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return "null", nil
	}

	var buf bytes.Buffer
	if err := writeYAMLAsJSON(&buf, node.Content[0], 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FromTOML converts a TOML document to indented JSON. Keys come out sorted.
func FromTOML(text string) (string, error) {
	var parsed map[string]interface{}
	if _, err := toml.Decode(text, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse TOML: %w", err)
	}
	return marshalIndent(parsed)
}

// Import returns the JSON text for a file's contents. YAML, TOML and HJSON
// files are converted by extension; anything else is returned as is.
func Import(name string, data []byte) (string, error) {
	text := string(data)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FromYAML(text)
	case ".toml":
		return FromTOML(text)
	case ".hjson":
		return FromHJSON(text)
	default:
		return text, nil
	}
}

func marshalIndent(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// writeJSON serializes v keeping member order, duplicates and number text
func writeJSON(buf *bytes.Buffer, v jsontree.Value, depth int) {
	indent := strings.Repeat("  ", depth+1)
	closing := strings.Repeat("  ", depth)

	switch v.Kind() {
	case jsontree.KindObject:
		if v.Len() == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{\n")
		for i, m := range v.Members() {
			buf.WriteString(indent)
			writeString(buf, m.Key)
			buf.WriteString(": ")
			writeJSON(buf, m.Value, depth+1)
			if i < v.Len()-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(closing + "}")
	case jsontree.KindArray:
		if v.Len() == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[\n")
		for i, item := range v.Items() {
			buf.WriteString(indent)
			writeJSON(buf, item, depth+1)
			if i < v.Len()-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(closing + "]")
	case jsontree.KindString:
		writeString(buf, v.Text())
	case jsontree.KindNumber:
		buf.WriteString(v.Text())
	case jsontree.KindBool:
		fmt.Fprint(buf, v.BoolValue())
	default:
		buf.WriteString("null")
	}
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode appends a newline
	buf.Truncate(buf.Len() - 1)
}

func writeYAMLAsJSON(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	indent := strings.Repeat("  ", depth+1)
	closing := strings.Repeat("  ", depth)

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeYAMLAsJSON(buf, n.Content[0], depth)
	case yaml.AliasNode:
		return writeYAMLAsJSON(buf, n.Alias, depth)
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(n.Content); i += 2 {
			buf.WriteString(indent)
			writeString(buf, n.Content[i].Value)
			buf.WriteString(": ")
			if err := writeYAMLAsJSON(buf, n.Content[i+1], depth+1); err != nil {
				return err
			}
			if i+2 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(closing + "}")
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range n.Content {
			buf.WriteString(indent)
			if err := writeYAMLAsJSON(buf, item, depth+1); err != nil {
				return err
			}
			if i < len(n.Content)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(closing + "]")
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			buf.WriteString("null")
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return fmt.Errorf("line %d: %w", n.Line, err)
			}
			fmt.Fprint(buf, b)
		case "!!int", "!!float":
			var f interface{}
			if err := n.Decode(&f); err != nil {
				return fmt.Errorf("line %d: %w", n.Line, err)
			}
			out, err := json.Marshal(f)
			if err != nil {
				return fmt.Errorf("line %d: %w", n.Line, err)
			}
			buf.Write(out)
		default:
			writeString(buf, n.Value)
		}
	default:
		return fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
	return nil
}
