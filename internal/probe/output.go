package probe

import "strings"

// RunReport is the public schema of §6's run operation response.
type RunReport struct {
	Stderr      string             `json:"stderr"`
	ExitCode    *int               `json:"exit_code"`
	Signal      *string            `json:"signal"`
	HasTimeout  bool               `json:"has_timeout"`
	Breakpoints []BreakpointReport `json:"breakpoints"`
}

// BreakpointReport is one spec's projected report.
type BreakpointReport struct {
	ID           int             `json:"id"`
	FilePath     string          `json:"file_path"`
	Line         int             `json:"line"`
	FunctionName string          `json:"function_name"`
	HitTimes     int             `json:"hit_times"`
	HitsInfo     []HitInfoReport `json:"hits_info"`
}

// HitInfoReport is one hit's projected form.
type HitInfoReport struct {
	Callstack  string              `json:"callstack"`
	InlineExpr []NamedValueReport `json:"inline_expr"`
}

// NamedValueReport is one (name, value) pair's projected form.
type NamedValueReport struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// BuildOutput projects a RunResult into the caller-visible schema (§4.7):
// decodes stderr with replacement for invalid UTF-8 sequences, and emits
// reports in registration order rather than adapter-id order.
func BuildOutput(result *RunResult) *RunReport {
	report := &RunReport{
		Stderr:      strings.ToValidUTF8(string(result.Stderr), "�"),
		ExitCode:    result.ExitCode,
		Signal:      result.Signal,
		HasTimeout:  result.Timeout,
		Breakpoints: make([]BreakpointReport, 0, len(result.Order)),
	}
	for _, id := range result.Order {
		rep, ok := result.Reports[id]
		if !ok {
			continue
		}
		report.Breakpoints = append(report.Breakpoints, projectReport(rep))
	}
	return report
}

func projectReport(rep *Report) BreakpointReport {
	hits := make([]HitInfoReport, 0, len(rep.HitsInfo))
	for _, h := range rep.HitsInfo {
		values := make([]NamedValueReport, 0, len(h.InlineExpr))
		for _, v := range h.InlineExpr {
			values = append(values, NamedValueReport{Name: v.Name, Value: v.Value})
		}
		hits = append(hits, HitInfoReport{Callstack: h.Callstack, InlineExpr: values})
	}
	return BreakpointReport{
		ID:           rep.ID,
		FilePath:     rep.FilePath,
		Line:         rep.Line,
		FunctionName: rep.FunctionName,
		HitTimes:     rep.HitTimes,
		HitsInfo:     hits,
	}
}
