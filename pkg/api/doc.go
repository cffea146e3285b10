// Package api serves railmap rendering over HTTP.
//
// # Endpoints
//
//	GET  /health       liveness, build info and counters
//	POST /api/render   render a topology; ?format=svg|json|png|pdf
//	POST /api/lines    main and pass path strings plus placements
//
// Both POST endpoints accept either a JSON envelope
//
//	{"topology": {...}, "params": {"current": 3, "direction": "l"}}
//
// or, with Content-Type application/toml, a topology file as written for
// the CLI. Its [render] table supplies the parameters.
//
// Rendering goes through a [pipeline.Runner], so artifacts are cached in
// whichever backend the runner was built with. Errors are returned as
//
//	{"error": "INVALID_TOPOLOGY", "message": "..."}
//
// with status 400 for bad input, 422 when the topology is well formed
// but its branches cannot be drawn, and 500 otherwise.
package api
