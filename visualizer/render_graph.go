package visualizer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/instmix/instmix/ir"
	"github.com/instmix/instmix/profile/instmix"
)

// preGraphHtml is the preamble for an HTML page rending a dot graph.
const preGraphHtml = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>TITLE</title>

    <script>
        const dot = ` + "`"

// postGraphHtml is the postamble for an HTML page rending a dot graph.
const postGraphHtml = "`" + `;
    </script>
</head>

<body>
    <h1>TITLE</h1>
    <p><a href="/">back</a></p>
    <div id="graph"></div>
    <script type="module">
        import { Graphviz } from "https://cdn.jsdelivr.net/npm/@hpcc-js/wasm/dist/index.js";
        if (Graphviz) {
            const graphviz = await Graphviz.load();
            const svg = graphviz.layout(dot, "svg", "dot");
            document.getElementById("graph").innerHTML = svg;
        }
    </script>
</body>
</html>
`

// templateEscaper escapes text embedded in a JavaScript template literal
// inside a script element.
var templateEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`", "${", `\${`, "</", `<\/`)

// RenderGraph writes the control-flow graph of fn annotated with the block
// frequencies and instruction counts of profile. Edges are labelled with
// their probability. Supported formats are dot, svg and png.
func RenderGraph(fn *ir.Function, profile *ir.StaticProfile, format string, w io.Writer) error {
	var f graphviz.Format
	switch format {
	case "dot":
		f = graphviz.XDOT
	case "svg":
		f = graphviz.SVG
	case "png":
		f = graphviz.PNG
	default:
		return fmt.Errorf("unsupported graph format %q", format)
	}

	g := graphviz.New()
	graph, err := g.Graph()
	if err != nil {
		g.Close()
		return err
	}
	defer func() {
		graph.Close()
		g.Close()
	}()

	if err := buildGraph(graph, fn, profile); err != nil {
		return err
	}
	if err := g.Render(graph, f, w); err != nil {
		return fmt.Errorf("cannot render graph of %v; %w", fn.Name, err)
	}
	return nil
}

// renderDotGraph renders the control-flow graph of fn as a HTML document.
func renderDotGraph(title string, fn *ir.Function, profile *ir.StaticProfile) (string, error) {
	var buf bytes.Buffer
	if err := RenderGraph(fn, profile, "dot", &buf); err != nil {
		return "", err
	}
	preamble := strings.Replace(preGraphHtml, "TITLE", title, -1)
	postamble := strings.Replace(postGraphHtml, "TITLE", title, -1)
	return preamble + templateEscaper.Replace(buf.String()) + postamble, nil
}

// buildGraph adds a node per block and an edge per distinct successor.
func buildGraph(graph *cgraph.Graph, fn *ir.Function, profile *ir.StaticProfile) error {
	// blocks without successors are drawn as biased
	profiler := instmix.NewProfiler(instmix.WithEmptyBranchPolicy(instmix.BiasedOnEmptyBranch))
	reports, err := profiler.Inspect(fn, profile, profile)
	if err != nil {
		return fmt.Errorf("cannot inspect function %v; %w", fn.Name, err)
	}

	nodes := make(map[*ir.BasicBlock]*cgraph.Node, len(fn.Blocks))
	for i := range reports {
		report := &reports[i]
		node, err := graph.CreateNode(fmt.Sprintf("b%d", i))
		if err != nil {
			return err
		}
		node.SetShape(cgraph.BoxShape)
		node.SetLabel(blockLabel(report))
		if report.Counts.Counts[instmix.UnbiasedBranch] > 0 {
			node.SetColor("indianred")
		}
		nodes[report.Block] = node
	}

	for _, block := range fn.Blocks {
		seen := make(map[*ir.BasicBlock]bool, len(block.Successors))
		for _, succ := range block.Successors {
			if seen[succ] {
				continue
			}
			seen[succ] = true
			to, found := nodes[succ]
			if !found {
				return fmt.Errorf("successor %v of block %v is not part of function %v", succ.Label, block.Label, fn.Name)
			}
			p := profile.EdgeProbability(block, succ).Float64()
			e, err := graph.CreateEdge("", nodes[block], to)
			if err != nil {
				return err
			}
			e.SetLabel(fmt.Sprintf("%.2f", p))
			e.SetColor(edgeColor(p))
		}
	}
	return nil
}

// blockLabel summarizes a block report in a node label.
func blockLabel(report *instmix.BlockReport) string {
	var sb strings.Builder
	sb.WriteString(report.Block.Label)
	if report.KnownFrequency {
		fmt.Fprintf(&sb, "\\nfreq: %d", report.Frequency)
	} else {
		sb.WriteString("\\nfreq: unknown")
	}
	fmt.Fprintf(&sb, "\\nops: %d", report.Counts.DynOps)
	for _, c := range instmix.Categories {
		if n := report.Counts.Counts[c]; n > 0 {
			fmt.Fprintf(&sb, "\\n%v: %d", c, n)
		}
	}
	return sb.String()
}

// edgeColor maps a probability to one of five color classes.
func edgeColor(p float64) string {
	switch int(4 * p) {
	case 0:
		return "gray"
	case 1:
		return "green"
	case 2:
		return "black"
	case 3:
		return "indianred"
	default:
		return "red"
	}
}
