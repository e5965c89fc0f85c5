// Package pkg provides the libraries behind the mcptools server.
//
// # Overview
//
// mcptools exposes MCP tools over HTTP and stdio. The pkg directory holds the
// parts that do not depend on the MCP transport:
//
//  1. [hierarchy] - ownership graphs: decoding, levels, connectors
//  2. [render] - org chart and node-link output (SVG, PNG, PDF, JSON, DOT)
//  3. [pipeline] - orchestration (parse → layout → render) with caching
//  4. [integrations] - upstream HTTP clients (NocoDB)
//  5. [cache] - memory, file, Redis and MongoDB caches
//
// # Architecture
//
// The drawings data flow:
//
//	companies JSON
//	      ↓
//	 [hierarchy] (decode, assign levels, build connections)
//	      ↓
//	 [render/orgchart] (tiered scene + theme)
//	      ↓
//	 [render/orgchart/sink] / [render/nodelink]
//	      ↓
//	SVG/PNG/PDF/JSON/DOT output
//
// The NocoDB tools go through [integrations/nocodb], which resolves table
// titles to ids (cached per instance host) and maps upstream failures onto
// [errors] codes.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{Preset: "vibrant"})
//	svg := result.Artifacts["svg"]
//
// # Supporting Packages
//
// [errors] - coded errors and input validation shared by every tool.
//
// [observability] - hooks for HTTP, cache and tool events; the metrics
// package installs Prometheus collectors behind them.
//
// [httputil] - retry with backoff for upstream requests.
//
// [buildinfo] - version information injected at link time.
//
// # Testing
//
//	go test ./...                        # unit tests
//	go test -tags integration ./pkg/...  # Redis and MongoDB backends
//
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/hierarchy
// [render]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/render
// [render/orgchart]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/render/orgchart
// [render/orgchart/sink]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/render/orgchart/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/pipeline
// [integrations]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/integrations
// [integrations/nocodb]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/integrations/nocodb
// [cache]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mcptools/pkg/buildinfo
package pkg
