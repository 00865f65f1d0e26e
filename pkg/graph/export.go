package graph

import (
	"fmt"
	"io"
)

const gexfHeader = `<?xml version="1.0" encoding="UTF-8"?>
<gexf xmlns="http://www.gexf.net/1.2draft" version="1.2">
`

// WriteGEXF writes g as a GEXF 1.2 document to w. label renders a node's
// value as a human-readable string; it may be nil, in which case the node
// id is used as the label. Export is write-only: this package never reads
// GEXF back in, matching the Non-goal that persistence beyond GEXF export
// is out of scope.
func WriteGEXF[T any](w io.Writer, g *Graph[T], label func(T) string) error {
	if _, err := io.WriteString(w, gexfHeader); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "  <graph mode=\"static\" defaultedgetype=\"directed\">\n    <nodes>\n"); err != nil {
		return err
	}

	for _, n := range g.Nodes() {
		text := string(n.ID)
		if label != nil {
			text = label(n.Value)
		}
		if _, err := fmt.Fprintf(w, "      <node id=%q label=%q/>\n", n.ID, escapeXML(text)); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "    </nodes>\n    <edges>\n"); err != nil {
		return err
	}

	edgeID := 0
	for _, n := range g.Nodes() {
		nl, ok := g.Neighbors(n.ID)
		if !ok {
			continue
		}
		for _, nb := range nl.ToSlice() {
			if _, err := fmt.Fprintf(w, "      <edge id=%q source=%q target=%q weight=\"%f\"/>\n",
				fmt.Sprintf("%d", edgeID), n.ID, nb.Node.ID, nb.Similarity); err != nil {
				return err
			}
			edgeID++
		}
	}

	_, err := io.WriteString(w, "    </edges>\n  </graph>\n</gexf>\n")
	return err
}

func escapeXML(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		case '"':
			out = append(out, "&quot;"...)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
