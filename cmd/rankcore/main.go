package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/smilemakc/rankcore/internal/assemble"
	"github.com/smilemakc/rankcore/internal/config"
	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/operator/builtin"
	"github.com/smilemakc/rankcore/internal/operator/builtin/testendpoint"
	"github.com/smilemakc/rankcore/internal/plan"
	"github.com/smilemakc/rankcore/internal/registry"
	"github.com/smilemakc/rankcore/internal/registry/seed"
	"github.com/smilemakc/rankcore/internal/scheduler"
	"github.com/smilemakc/rankcore/internal/telemetry"
)

// request is the engine's stdin protocol object.
type request struct {
	RequestID string         `json:"request_id,omitempty"`
	Plan      string         `json:"plan,omitempty"`
	Overrides map[string]any `json:"overrides,omitempty"`
}

// response is the engine's stdout protocol object. Field order here is the
// stable wire order: request_id, engine_request_id, candidates.
type response struct {
	RequestID       string               `json:"request_id,omitempty"`
	EngineRequestID string               `json:"engine_request_id"`
	Candidates      []assemble.Candidate `json:"candidates"`
}

type parseFailure struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func main() {
	var (
		planPath = flag.String("plan", "", "Plan JSON to execute (omitted: emit a synthetic response)")
		printReg = flag.Bool("print-registry", false, "Print registry digests and counts as JSON, then exit")
	)
	flag.Parse()

	cfg := config.Load()
	telemetry.Setup(cfg.LogLevel)

	reg := seed.New()

	if *printReg {
		printRegistry(reg)
		return
	}

	ops := operator.NewRegistry()
	builtin.RegisterAll(ops)

	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		emitParseFailure(err)
		os.Exit(1)
	}

	chosenPlanPath := req.Plan
	if chosenPlanPath == "" {
		chosenPlanPath = *planPath
	}

	if chosenPlanPath == "" {
		writeResponse(response{
			RequestID:       req.RequestID,
			EngineRequestID: uuid.New().String(),
			Candidates:      syntheticCandidates(),
		})
		return
	}

	f, err := os.Open(chosenPlanPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rankcore: opening plan:", err)
		os.Exit(1)
	}
	defer f.Close()

	loadedPlan, err := plan.Load(f, reg, ops)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rankcore: loading plan:", err)
		os.Exit(1)
	}

	params, err := loadedPlan.ResolveParams(req.Overrides)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rankcore: resolving overrides:", err)
		os.Exit(1)
	}

	sched := scheduler.New(loadedPlan, testendpoint.Static{}, cfg.Workers)

	ctx := context.Background()
	sink, err := sched.Run(ctx, nil, params)
	if err != nil {
		log.Error().Err(err).Msg("plan execution failed")
		fmt.Fprintln(os.Stderr, "rankcore: executing plan:", err)
		os.Exit(1)
	}

	candidates, err := assemble.Assemble(sink, loadedPlan.OutputFields, reg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rankcore: assembling results:", err)
		os.Exit(1)
	}

	writeResponse(response{
		RequestID:       req.RequestID,
		EngineRequestID: uuid.New().String(),
		Candidates:      candidates,
	})
}

func syntheticCandidates() []assemble.Candidate {
	out := make([]assemble.Candidate, 5)
	for i := range out {
		out[i] = assemble.Candidate{ID: int64(i + 1)}
	}
	return out
}

func writeResponse(resp response) {
	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(resp); err != nil {
		fmt.Fprintln(os.Stderr, "rankcore: encoding response:", err)
		os.Exit(1)
	}
}

func emitParseFailure(cause error) {
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(parseFailure{
		Error:  string(engineerr.KindPlanParse),
		Detail: cause.Error(),
	})
}

func printRegistry(reg *registry.Registry) {
	digests := reg.Digest()
	out := struct {
		Digests      registry.Digests `json:"digests"`
		KeyCount     int              `json:"key_count"`
		ParamCount   int              `json:"param_count"`
		FeatureCount int              `json:"feature_count"`
	}{
		Digests:      digests,
		KeyCount:     len(reg.Keys),
		ParamCount:   len(reg.Params),
		FeatureCount: len(reg.Features),
	}
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(out)
}
