// Package decode reads surface modules written as YAML documents.
//
// Every term is either a plain scalar or a mapping with a single key naming
// the form:
//
//	items:
//	  - declare: id
//	    type: {Fun: {params: [{a: Type}], body: {arrow: [a, a]}}}
//	  - define: id
//	    params: [a, x]
//	    body: x
//	term: {app: [id, String, {string: hello}]}
//
// Plain scalars are names, optionally lifted as in `id^1`, numbers or the
// hole `_`.
package decode

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/cottand/fern/frontend/diag"
	"github.com/cottand/fern/frontend/surface"
	"github.com/cottand/fern/internal/log"
	"gopkg.in/yaml.v3"
)

var logger = log.DefaultLogger.With("section", "decode")

type decoder struct {
	file *token.File
	errs *diag.Errors
}

func newDecoder(fSet *token.FileSet, filename string, src []byte) *decoder {
	file := fSet.AddFile(filename, -1, len(src))
	file.SetLinesForContent(src)
	return &decoder{file: file}
}

// Module decodes a module document with `items` and an optional `term`
func Module(fSet *token.FileSet, filename string, src []byte) (*surface.Module, *diag.Errors) {
	d := newDecoder(fSet, filename, src)
	root, ok := d.document(src)
	if !ok {
		return &surface.Module{}, d.errs
	}
	module := &surface.Module{}
	fields := d.fields(root, "items", "term")
	if items := fields["items"]; items != nil {
		for _, item := range d.sequence(items) {
			if decoded := d.item(item); decoded != nil {
				module.Items = append(module.Items, decoded)
			}
		}
	}
	if term := fields["term"]; term != nil {
		module.Term = d.term(term)
	}
	logger.Debug("decoded module", "file", filename, "items", len(module.Items))
	return module, d.errs
}

// Term decodes a document holding a single term
func Term(fSet *token.FileSet, filename string, src []byte) (surface.Term, *diag.Errors) {
	d := newDecoder(fSet, filename, src)
	root, ok := d.document(src)
	if !ok {
		return &surface.Error{}, d.errs
	}
	return d.term(root), d.errs
}

func (d *decoder) document(src []byte) (*yaml.Node, bool) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		d.errorf(surface.Range{PosStart: d.file.Pos(0), PosEnd: d.file.Pos(0)}, "%v", err)
		return nil, false
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		d.errorf(surface.Range{PosStart: d.file.Pos(0), PosEnd: d.file.Pos(0)}, "empty document")
		return nil, false
	}
	return doc.Content[0], true
}

func (d *decoder) errorf(rng surface.Range, format string, args ...any) {
	d.errs = d.errs.With(diag.New(diag.InvalidSyntax{Range: rng, Message: fmt.Sprintf(format, args...)}))
}

func (d *decoder) pos(line, column int) token.Pos {
	if line < 1 || line > d.file.LineCount() {
		return d.file.Pos(d.file.Size())
	}
	offset := d.file.Offset(d.file.LineStart(line)) + column - 1
	return d.file.Pos(min(max(offset, 0), d.file.Size()))
}

// rangeOf approximates the source range of node: scalars span their value,
// collections end where their last child ends.
func (d *decoder) rangeOf(node *yaml.Node) surface.Range {
	start := d.pos(node.Line, node.Column)
	switch {
	case node.Kind == yaml.ScalarNode:
		end := int(start) - d.file.Base() + len(node.Value)
		return surface.Range{PosStart: start, PosEnd: d.file.Pos(min(end, d.file.Size()))}
	case len(node.Content) > 0:
		return surface.Range{PosStart: start, PosEnd: d.rangeOf(node.Content[len(node.Content)-1]).PosEnd}
	}
	return surface.Range{PosStart: start, PosEnd: start}
}

func (d *decoder) sequence(node *yaml.Node) []*yaml.Node {
	if node.Kind != yaml.SequenceNode {
		d.errorf(d.rangeOf(node), "expected a list")
		return nil
	}
	return node.Content
}

// fields returns the values of a mapping by key, reporting keys not in
// allowed
func (d *decoder) fields(node *yaml.Node, allowed ...string) map[string]*yaml.Node {
	ret := make(map[string]*yaml.Node, len(allowed))
	if node.Kind != yaml.MappingNode {
		d.errorf(d.rangeOf(node), "expected a mapping with keys %s", strings.Join(allowed, ", "))
		return ret
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		known := false
		for _, name := range allowed {
			known = known || key.Value == name
		}
		if !known {
			d.errorf(d.rangeOf(key), "unexpected key `%s`", key.Value)
			continue
		}
		ret[key.Value] = value
	}
	return ret
}

func (d *decoder) required(node *yaml.Node, fields map[string]*yaml.Node, key string) (*yaml.Node, bool) {
	value, ok := fields[key]
	if !ok {
		d.errorf(d.rangeOf(node), "missing key `%s`", key)
	}
	return value, ok
}

// tuple checks that node is a list of at least n entries
func (d *decoder) tuple(node *yaml.Node, form string, n int, exact bool) ([]*yaml.Node, bool) {
	entries := d.sequence(node)
	if entries == nil && node.Kind != yaml.SequenceNode {
		return nil, false
	}
	if len(entries) < n || exact && len(entries) != n {
		d.errorf(d.rangeOf(node), "`%s` expects %d entries, found %d", form, n, len(entries))
		return nil, false
	}
	return entries, true
}

func (d *decoder) ident(node *yaml.Node) (surface.Ident, bool) {
	if node.Kind != yaml.ScalarNode || node.Value == "" {
		d.errorf(d.rangeOf(node), "expected a name")
		return surface.Ident{}, false
	}
	return surface.Ident{Range: d.rangeOf(node), Name: node.Value}, true
}

func (d *decoder) term(node *yaml.Node) surface.Term {
	rng := d.rangeOf(node)
	switch node.Kind {
	case yaml.ScalarNode:
		return d.scalar(node, rng)
	case yaml.SequenceNode:
		return d.sequenceLiteral(node, rng)
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			d.errorf(rng, "expected a mapping with a single key naming the form of the term")
			return &surface.Error{Range: rng}
		}
		return d.form(node.Content[0].Value, node.Content[1], rng)
	case yaml.AliasNode:
		// aliases would let a small document expand into an exponentially
		// large term
		d.errorf(rng, "YAML aliases are not supported, repeat the term instead")
		return &surface.Error{Range: rng}
	}
	d.errorf(rng, "expected a term")
	return &surface.Error{Range: rng}
}

func (d *decoder) scalar(node *yaml.Node, rng surface.Range) surface.Term {
	switch node.Tag {
	case "!!int", "!!float":
		return &surface.NumberLiteral{Range: rng, Text: node.Value}
	case "!!null":
		d.errorf(rng, "expected a term, found null")
		return &surface.Error{Range: rng}
	}
	if node.Value == "_" {
		return &surface.Hole{Range: rng}
	}
	name, offset, isLift := strings.Cut(node.Value, "^")
	if !isLift {
		return &surface.Name{Range: rng, Name: node.Value}
	}
	n, err := strconv.ParseUint(offset, 10, 32)
	if err != nil || name == "" {
		d.errorf(rng, "invalid lift `%s`", node.Value)
		return &surface.Error{Range: rng}
	}
	nameRange := surface.Range{PosStart: rng.PosStart, PosEnd: rng.PosStart + token.Pos(len(name))}
	return &surface.Lift{Range: rng, Term: &surface.Name{Range: nameRange, Name: name}, Offset: uint32(n)}
}

func (d *decoder) sequenceLiteral(node *yaml.Node, rng surface.Range) surface.Term {
	entries := make([]surface.Term, len(node.Content))
	for i, entry := range node.Content {
		entries[i] = d.term(entry)
	}
	return &surface.Sequence{Range: rng, Entries: entries}
}

func (d *decoder) terms(nodes []*yaml.Node) []surface.Term {
	terms := make([]surface.Term, len(nodes))
	for i, node := range nodes {
		terms[i] = d.term(node)
	}
	return terms
}

func (d *decoder) form(form string, node *yaml.Node, rng surface.Range) surface.Term {
	errorTerm := &surface.Error{Range: rng}
	switch form {
	case "ann":
		entries, ok := d.tuple(node, form, 2, true)
		if !ok {
			return errorTerm
		}
		return &surface.Ann{Range: rng, Term: d.term(entries[0]), Type: d.term(entries[1])}

	case "app":
		entries, ok := d.tuple(node, form, 2, false)
		if !ok {
			return errorTerm
		}
		return &surface.FunctionElim{Range: rng, Head: d.term(entries[0]), Args: d.terms(entries[1:])}

	case "fun":
		fields := d.fields(node, "params", "body")
		params, paramsOk := d.required(node, fields, "params")
		body, bodyOk := d.required(node, fields, "body")
		if !paramsOk || !bodyOk {
			return errorTerm
		}
		return &surface.FunctionTerm{Range: rng, Params: d.params(params), Body: d.term(body)}

	case "Fun":
		fields := d.fields(node, "params", "body")
		params, paramsOk := d.required(node, fields, "params")
		body, bodyOk := d.required(node, fields, "body")
		if !paramsOk || !bodyOk {
			return errorTerm
		}
		return &surface.FunctionType{Range: rng, Params: d.paramGroups(params), Body: d.term(body)}

	case "arrow":
		entries, ok := d.tuple(node, form, 2, false)
		if !ok {
			return errorTerm
		}
		terms := d.terms(entries)
		ret := terms[len(terms)-1]
		for i := len(terms) - 2; i >= 0; i-- {
			ret = &surface.Arrow{Range: surface.RangeBetween(terms[i], ret), Param: terms[i], Body: ret}
		}
		return ret

	case "Record":
		var entries []surface.TypeEntry
		for _, entry := range d.sequence(node) {
			label, binder, value, ok := d.labelled(entry)
			if !ok {
				continue
			}
			if value == nil {
				d.errorf(d.rangeOf(entry), "record type entries need a type")
				continue
			}
			entries = append(entries, surface.TypeEntry{Label: label, Binder: binder, Type: d.term(value)})
		}
		return &surface.RecordType{Range: rng, Entries: entries}

	case "record":
		var entries []surface.TermEntry
		for _, entry := range d.sequence(node) {
			label, binder, value, ok := d.labelled(entry)
			if !ok {
				continue
			}
			if binder != nil {
				d.errorf(binder.Range, "record terms cannot rename labels")
			}
			termEntry := surface.TermEntry{Label: label}
			if value != nil {
				termEntry.Term = d.term(value)
			}
			entries = append(entries, termEntry)
		}
		return &surface.RecordTerm{Range: rng, Entries: entries}

	case "proj":
		entries, ok := d.tuple(node, form, 2, true)
		if !ok {
			return errorTerm
		}
		label, ok := d.ident(entries[1])
		if !ok {
			return errorTerm
		}
		return &surface.RecordElim{Range: rng, Head: d.term(entries[0]), Label: label}

	case "seq":
		if node.Kind != yaml.SequenceNode {
			d.errorf(d.rangeOf(node), "expected a list")
			return errorTerm
		}
		return d.sequenceLiteral(node, rng)

	case "lift":
		entries, ok := d.tuple(node, form, 2, true)
		if !ok {
			return errorTerm
		}
		offset, err := strconv.ParseUint(entries[1].Value, 10, 32)
		if err != nil {
			d.errorf(d.rangeOf(entries[1]), "invalid lift offset `%s`", entries[1].Value)
			return errorTerm
		}
		return &surface.Lift{Range: rng, Term: d.term(entries[0]), Offset: uint32(offset)}

	case "if":
		entries, ok := d.tuple(node, form, 3, true)
		if !ok {
			return errorTerm
		}
		return &surface.If{Range: rng, Cond: d.term(entries[0]), Then: d.term(entries[1]), Else: d.term(entries[2])}

	case "case":
		fields := d.fields(node, "head", "clauses")
		head, ok := d.required(node, fields, "head")
		if !ok {
			return errorTerm
		}
		term := &surface.Case{Range: rng, Head: d.term(head)}
		if clauses := fields["clauses"]; clauses != nil {
			for _, clause := range d.sequence(clauses) {
				entries, ok := d.tuple(clause, "clause", 2, true)
				if !ok {
					continue
				}
				term.Clauses = append(term.Clauses, surface.Clause{Pattern: d.pattern(entries[0]), Body: d.term(entries[1])})
			}
		}
		return term

	case "let":
		fields := d.fields(node, "items", "body")
		items, itemsOk := d.required(node, fields, "items")
		body, bodyOk := d.required(node, fields, "body")
		if !itemsOk || !bodyOk {
			return errorTerm
		}
		term := &surface.Let{Range: rng, Body: d.term(body)}
		for _, item := range d.sequence(items) {
			if decoded := d.item(item); decoded != nil {
				term.Items = append(term.Items, decoded)
			}
		}
		return term

	case "char":
		if node.Kind != yaml.ScalarNode {
			d.errorf(d.rangeOf(node), "expected a character")
			return errorTerm
		}
		return &surface.CharLiteral{Range: rng, Value: node.Value}

	case "string":
		if node.Kind != yaml.ScalarNode {
			d.errorf(d.rangeOf(node), "expected a string")
			return errorTerm
		}
		return &surface.StringLiteral{Range: rng, Value: node.Value}
	}
	d.errorf(rng, "unknown form `%s`", form)
	return errorTerm
}

// labelled decodes a record entry: either `label` on its own, or a single
// key mapping `label: value`, where the key may be `label as binder`.
func (d *decoder) labelled(node *yaml.Node) (label surface.Ident, binder *surface.Ident, value *yaml.Node, ok bool) {
	if node.Kind == yaml.ScalarNode {
		label, ok = d.ident(node)
		return label, nil, nil, ok
	}
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		d.errorf(d.rangeOf(node), "expected `label` or `label: value`")
		return label, nil, nil, false
	}
	key := node.Content[0]
	label, ok = d.ident(key)
	if !ok {
		return label, nil, nil, false
	}
	if name, as, found := strings.Cut(key.Value, " as "); found {
		label.Name = strings.TrimSpace(name)
		binder = &surface.Ident{Range: label.Range, Name: strings.TrimSpace(as)}
	}
	return label, binder, node.Content[1], true
}

// params decodes function term parameters: `x` or `{x: Type}`
func (d *decoder) params(node *yaml.Node) []surface.Param {
	var params []surface.Param
	for _, entry := range d.sequence(node) {
		name, _, typ, ok := d.labelled(entry)
		if !ok {
			continue
		}
		param := surface.Param{Name: name}
		if typ != nil {
			param.Type = d.term(typ)
		}
		params = append(params, param)
	}
	return params
}

// paramGroups decodes function type parameters: `{a b: Type}`
func (d *decoder) paramGroups(node *yaml.Node) []surface.ParamGroup {
	var groups []surface.ParamGroup
	for _, entry := range d.sequence(node) {
		if entry.Kind != yaml.MappingNode || len(entry.Content) != 2 {
			d.errorf(d.rangeOf(entry), "expected `{name: Type}`")
			continue
		}
		key := entry.Content[0]
		keyRange := d.rangeOf(key)
		var names []surface.Ident
		for _, name := range strings.Fields(key.Value) {
			names = append(names, surface.Ident{Range: keyRange, Name: name})
		}
		if len(names) == 0 {
			d.errorf(keyRange, "expected a name")
			continue
		}
		groups = append(groups, surface.ParamGroup{Names: names, Type: d.term(entry.Content[1])})
	}
	return groups
}

func (d *decoder) pattern(node *yaml.Node) surface.Pattern {
	switch term := d.term(node).(type) {
	case *surface.Name:
		return &surface.NamePattern{Ident: surface.Ident{Range: term.Range, Name: term.Name}}
	case *surface.NumberLiteral, *surface.CharLiteral, *surface.StringLiteral:
		return &surface.LiteralPattern{Literal: term}
	case *surface.Error:
		return &surface.LiteralPattern{Literal: term}
	default:
		d.errorf(surface.RangeOf(term), "expected a pattern: a name or a literal")
		return &surface.LiteralPattern{Literal: &surface.Error{Range: surface.RangeOf(term)}}
	}
}

func (d *decoder) item(node *yaml.Node) surface.Item {
	rng := d.rangeOf(node)
	if node.Kind != yaml.MappingNode {
		d.errorf(rng, "expected a `declare` or `define` item")
		return nil
	}
	fields := d.fields(node, "declare", "define", "params", "type", "body")
	if declared := fields["declare"]; declared != nil {
		name, ok := d.ident(declared)
		typ, typeOk := d.required(node, fields, "type")
		if !ok || !typeOk {
			return nil
		}
		return &surface.Declaration{Range: rng, Name: name, Type: d.term(typ)}
	}
	defined, ok := d.required(node, fields, "define")
	if !ok {
		return nil
	}
	name, ok := d.ident(defined)
	body, bodyOk := d.required(node, fields, "body")
	if !ok || !bodyOk {
		return nil
	}
	definition := &surface.Definition{Range: rng, Name: name, Body: d.term(body)}
	if params := fields["params"]; params != nil {
		definition.Params = d.params(params)
	}
	if typ := fields["type"]; typ != nil {
		definition.Type = d.term(typ)
	}
	return definition
}
