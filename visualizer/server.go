// Package visualizer serves the instruction mix of a set of modules as web
// charts and renders annotated control-flow graphs.
package visualizer

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	lru "github.com/hashicorp/golang-lru"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
)

const mixRef = "mix"
const dynOpsRef = "dynops"
const cfgRef = "cfg"

// mainHtmlHead is the head of the index page.
const mainHtmlHead = `
<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Instruction Mix</title>
  </head>
  <body>
    <h1>Instruction Mix</h1>
    <ul>
    <li> <h3> <a href="/` + mixRef + `"> Instruction Mix per Function </a> </h3> </li>
    <li> <h3> <a href="/` + dynOpsRef + `"> Dynamic Operations per Function </a> </h3> </li>
    </ul>
    <h2>Control-Flow Graphs</h2>
    <ul>
`

// mainHtmlTail closes the index page.
const mainHtmlTail = `
    </ul>
</body>
</html>
`

// Server renders the charts of a mix model. Rendered control-flow graphs
// are kept in an LRU cache.
type Server struct {
	model  *MixModel
	graphs *lru.Cache
	log    logger.Logger
}

// NewServer creates a server for the model keeping up to cacheSize rendered
// graphs. Failures are logged at the given log level.
func NewServer(model *MixModel, cacheSize int, logLevel string) (*Server, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("cannot create graph cache; %w", err)
	}
	return &Server{
		model:  model,
		graphs: cache,
		log:    logger.NewLogger(logLevel, "Visualizer"),
	}, nil
}

// Handler returns the routes of the visualizer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.renderMain)
	mux.HandleFunc("/"+mixRef, s.renderMix)
	mux.HandleFunc("/"+dynOpsRef, s.renderDynOps)
	mux.HandleFunc("/"+cfgRef+"/", s.renderGraph)
	return mux
}

// FireUpWeb fires up a new web-server for the visualisation of the model.
func FireUpWeb(model *MixModel, port string, cacheSize int, logLevel string) error {
	s, err := NewServer(model, cacheSize, logLevel)
	if err != nil {
		return err
	}
	s.log.Noticef("Serving instruction mix of %d functions on port %v", len(model.Functions), port)
	return http.ListenAndServe(":"+port, s.Handler())
}

// renderMain renders the main menu with a link to the graph of every function.
func (s *Server) renderMain(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	var sb strings.Builder
	sb.WriteString(mainHtmlHead)
	for i := range s.model.Functions {
		view := &s.model.Functions[i]
		link := "/" + cfgRef + "/" + url.PathEscape(view.Function.Name) + "?module=" + url.QueryEscape(view.Module)
		status := ""
		if view.Err != nil {
			status = " (" + html.EscapeString(view.Err.Error()) + ")"
		}
		fmt.Fprintf(&sb, "    <li> <a href=\"%s\">%s</a>%s </li>\n", link, html.EscapeString(view.Key()), status)
	}
	sb.WriteString(mainHtmlTail)
	fmt.Fprint(w, sb.String())
}

// newBarChart creates a bar chart with the common options of all pages.
func newBarChart(title string, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithInitializationOpts(opts.Initialization{
		Theme:     types.ThemeChalk,
		PageTitle: title,
		Height:    "1300px",
	}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}))
	return bar
}

// renderMix renders the six category ratios of every function as stacked bars.
func (s *Server) renderMix(w http.ResponseWriter, r *http.Request) {
	views := s.model.Profiled()
	labels := make([]string, 0, len(views))
	for _, view := range views {
		labels = append(labels, view.Key())
	}
	bar := newBarChart("Instruction Mix", "share of weighted instructions per category")
	bar.SetXAxis(labels)
	for _, c := range instmix.Categories {
		items := make([]opts.BarData, 0, len(views))
		for _, view := range views {
			items = append(items, opts.BarData{Value: view.Record.Ratio(c)})
		}
		bar.AddSeries(c.String(), items, charts.WithBarChartOpts(opts.BarChart{Stack: "mix"}))
	}
	bar.XYReversal()
	if err := bar.Render(w); err != nil {
		s.log.Errorf("cannot render instruction mix; %v", err)
	}
}

// renderDynOps renders the weighted dynamic instruction count of every function.
func (s *Server) renderDynOps(w http.ResponseWriter, r *http.Request) {
	views := s.model.ByDynOps()
	labels := make([]string, 0, len(views))
	items := make([]opts.BarData, 0, len(views))
	for _, view := range views {
		labels = append(labels, view.Key())
		items = append(items, opts.BarData{Value: view.Record.DynOps})
	}
	bar := newBarChart("Dynamic Operations", "weighted number of executed instructions")
	bar.SetXAxis(labels).AddSeries("DynOps", items)
	bar.XYReversal()
	if err := bar.Render(w); err != nil {
		s.log.Errorf("cannot render dynamic operations; %v", err)
	}
}

// renderGraph renders the control-flow graph of /cfg/<function>?module=<module>.
func (s *Server) renderGraph(w http.ResponseWriter, r *http.Request) {
	function := strings.TrimPrefix(r.URL.Path, "/"+cfgRef+"/")
	module := r.URL.Query().Get("module")
	view, found := s.model.Lookup(module, function)
	if !found {
		http.NotFound(w, r)
		return
	}
	key := view.Key()
	if page, found := s.graphs.Get(key); found {
		fmt.Fprint(w, page.(string))
		return
	}
	page, err := renderDotGraph("Control-Flow Graph of "+html.EscapeString(key), view.Function, view.Profile)
	if err != nil {
		s.log.Errorf("cannot render graph of %v; %v", key, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.graphs.Add(key, page)
	fmt.Fprint(w, page)
}
