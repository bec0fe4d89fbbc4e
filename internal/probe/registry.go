package probe

import "log/slog"

// Registry owns the mapping between adapter-assigned breakpoint ids and
// caller-declared specs, and the evolving Report per id. Parallel ordinary
// maps, keyed by integer id; no back-pointers, no cycles (§9).
type Registry struct {
	client Client
	log    *slog.Logger

	specs   map[int]*BreakpointSpec
	reports map[int]*Report
	order   []int
}

// NewRegistry builds an empty Registry bound to client for set/remove calls.
func NewRegistry(client Client, log *slog.Logger) *Registry {
	return &Registry{
		client:  client,
		log:     log,
		specs:   make(map[int]*BreakpointSpec),
		reports: make(map[int]*Report),
	}
}

// Register resolves spec.File/spec.Line into an adapter breakpoint and, on
// success, records it. On failure it logs a warning and returns ok=false; no
// Report is created for that spec (§3 invariant: "specs the adapter rejected
// are absent").
func (r *Registry) Register(spec *BreakpointSpec) (id int, ok bool) {
	id, ok, err := r.client.SetBreakpoint(spec.File, spec.Line)
	if err != nil {
		r.log.Warn("breakpoint registration failed", "location", spec.Location, "file", spec.File, "line", spec.Line, "error", err)
		return 0, false
	}
	if !ok {
		r.log.Warn("adapter rejected breakpoint", "location", spec.Location, "file", spec.File, "line", spec.Line)
		return 0, false
	}
	r.specs[id] = spec
	r.reports[id] = &Report{
		ID:           id,
		FilePath:     spec.File,
		Line:         spec.Line,
		FunctionName: "",
		spec:         spec,
	}
	r.order = append(r.order, id)
	return id, true
}

// SpecFor looks up the spec registered under id.
func (r *Registry) SpecFor(id int) (*BreakpointSpec, bool) {
	spec, ok := r.specs[id]
	return spec, ok
}

// ReportFor looks up the report accumulated under id.
func (r *Registry) ReportFor(id int) (*Report, bool) {
	rep, ok := r.reports[id]
	return rep, ok
}

// OnHit records one hit of the breakpoint registered under id: increments
// HitTimes, refreshes FilePath/Line/FunctionName from the stopped thread's
// top frame (§4.6 frame-source precedence — this happens on every hit,
// including the first), and appends hit. Returns true once HitTimes reaches
// the spec's HitLimit, signalling the caller should remove the breakpoint.
func (r *Registry) OnHit(id int, frames []Frame, hit HitInfo) (limitReached bool) {
	rep, ok := r.reports[id]
	if !ok {
		r.log.Warn("hit recorded for unknown breakpoint id", "id", id)
		return false
	}
	if len(frames) > 0 {
		top := frames[0]
		rep.FilePath = top.File
		rep.Line = top.Line
		rep.FunctionName = top.Name
	}
	rep.HitTimes++
	rep.HitsInfo = append(rep.HitsInfo, hit)
	return rep.HitTimes >= rep.spec.HitLimit
}

// Remove asks the adapter to stop breaking at id's location; failure is
// logged and otherwise non-fatal (§4.4: "non-fatal if removal fails").
func (r *Registry) Remove(id int) {
	spec, ok := r.specs[id]
	if !ok {
		return
	}
	if err := r.client.RemoveBreakpoint(spec.File, spec.Line); err != nil {
		r.log.Warn("breakpoint removal failed", "id", id, "file", spec.File, "line", spec.Line, "error", err)
	}
}

// ReportsInOrder returns the registered reports in registration order
// (§4.7: "emit reports in registration order, not adapter-id order").
func (r *Registry) ReportsInOrder() (order []int, reports map[int]*Report) {
	return r.order, r.reports
}
