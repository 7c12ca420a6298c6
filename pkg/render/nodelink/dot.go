package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kinetree/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds joint kinds to edge labels and part labels to node
	// labels. When false, only names are shown.
	Detailed bool

	// Root is outlined in bold. Empty marks no root.
	Root string

	// Loops are drawn dashed.
	Loops []graph.Triple
}

// ToDOT converts a connectivity graph to Graphviz DOT. Nodes and edges keep
// the graph's insertion order, so the output is stable for a given
// assembly.
func ToDOT(g *graph.Graph, opts Options) string {
	loops := make(map[string]bool, len(opts.Loops))
	for _, t := range opts.Loops {
		loops[t.Edge.Key()] = true
	}

	kind, sep := "graph", "--"
	if g.Directed() {
		kind, sep = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed))}
		if n.Key == opts.Root {
			attrs = append(attrs, "style=\"rounded,filled,bold\"", "penwidth=3")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, t := range g.Edges() {
		attrs := []string{fmt.Sprintf("label=%q", edgeLabel(t.Edge, opts.Detailed))}
		if loops[t.Edge.Key()] {
			attrs = append(attrs, "style=dashed", "color=grey40", "fontcolor=grey40")
		}
		fmt.Fprintf(&buf, "  %q %s %q [%s];\n", t.U.Key, sep, t.V.Key, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *graph.Node, detailed bool) string {
	if !detailed || n.Part.Label == "" || n.Part.Label == n.Key {
		return n.Key
	}
	return n.Key + "\n" + n.Part.Label
}

func edgeLabel(e *graph.Edge, detailed bool) string {
	label := e.Joint.DisplayLabel()
	if detailed {
		label += "\n(" + string(e.Kind) + ")"
	}
	return label
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
