// Package astdump serializes a *ast.Program (or any single node) to
// JSON, backing the `parse --json` debug command, and builds a compact
// one-line summary of a single node.
package astdump

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/tinycplus/tcppc/internal/ast"
)

// Dump renders n and its full subtree as indented JSON.
func Dump(n ast.Node) (string, error) {
	v := toValue(n)
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("astdump: marshal: %w", err)
	}
	return string(pretty.Pretty(raw)), nil
}

// Query extracts the sub-value at path (gjson syntax, e.g.
// "body.0.name") out of a JSON document produced by Dump, for the
// `parse --json --path` debug flag.
func Query(jsonText, path string) (string, error) {
	res := gjson.Get(jsonText, path)
	if !res.Exists() {
		return "", fmt.Errorf("astdump: no value at path %q", path)
	}
	return res.Raw, nil
}

// Summary builds a compact one-line JSON blob describing n's kind,
// source position and, once analyzed, its resolved type. The CLI does
// not call it.
func Summary(n ast.Node) (string, error) {
	doc := "{}"
	var err error
	doc, err = sjson.Set(doc, "kind", kindName(n))
	if err != nil {
		return "", err
	}
	pos := n.Pos()
	doc, err = sjson.Set(doc, "pos.file", pos.File)
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "pos.line", pos.Line)
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "pos.column", pos.Column)
	if err != nil {
		return "", err
	}
	if t := n.Type(); t != nil {
		doc, err = sjson.Set(doc, "type", t.String())
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}
