package plan

import (
	"encoding/json"
	"io"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/expreval"
	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/predeval"
	"github.com/smilemakc/rankcore/internal/registry"
	"github.com/smilemakc/rankcore/internal/registry/seed"
)

// Load parses, validates, and topologically orders a plan artifact read
// from r, per the five steps of the plan loader/validator design:
// digest check, graph well-formedness, per-node param/operator resolution,
// deterministic topological order, and static read-effect propagation.
func Load(r io.Reader, reg *registry.Registry, ops *operator.Registry) (*Plan, error) {
	var art Artifact
	dec := json.NewDecoder(r)
	if err := dec.Decode(&art); err != nil {
		return nil, engineerr.Wrap(engineerr.KindPlanParse, err, "decoding plan artifact")
	}

	// Step 1: digests must match the live registries exactly.
	live := reg.Digest()
	if art.Digests.Keys != live.Keys || art.Digests.Params != live.Params || art.Digests.Features != live.Features {
		return nil, engineerr.New(engineerr.KindPlanParse, "plan digests do not match the current registry")
	}

	// Step 2: node table well-formedness.
	if len(art.Nodes) == 0 {
		return nil, engineerr.New(engineerr.KindPlanValidation, "plan has no nodes")
	}
	declOrder := make([]string, 0, len(art.Nodes))
	rawByID := make(map[string]NodeJSON, len(art.Nodes))
	inputsOf := make(map[string][]string, len(art.Nodes))
	for _, n := range art.Nodes {
		if n.NodeID == "" {
			return nil, engineerr.New(engineerr.KindPlanValidation, "node with empty node_id")
		}
		if _, dup := rawByID[n.NodeID]; dup {
			return nil, engineerr.Newf(engineerr.KindPlanValidation, "duplicate node id %q", n.NodeID)
		}
		rawByID[n.NodeID] = n
		declOrder = append(declOrder, n.NodeID)
		inputsOf[n.NodeID] = n.Inputs
	}
	for _, n := range art.Nodes {
		for _, in := range n.Inputs {
			if _, ok := rawByID[in]; !ok {
				return nil, engineerr.Newf(engineerr.KindPlanValidation, "node %q references unresolved input %q", n.NodeID, in)
			}
		}
	}
	if _, ok := rawByID[art.SinkNodeID]; !ok {
		return nil, engineerr.Newf(engineerr.KindPlanValidation, "sink_node_id %q does not resolve to a node", art.SinkNodeID)
	}

	// Step 3: per-node operator resolution, param validation, and
	// expr_id/pred_id collapse into plan-local tables.
	p := &Plan{
		Name:          art.PlanName,
		NodeByID:      make(map[string]*Node, len(art.Nodes)),
		SinkNodeID:    art.SinkNodeID,
		ExprTable:     make(map[string]expreval.Expr),
		PredTable:     make(map[string]predeval.Pred),
		Regexes:       predeval.NewRegexCache(),
		ParamDefaults: make(map[uint32]any, len(reg.Params)),
		paramIDByName: make(map[string]uint32, len(reg.Params)),
		OutputFields:  nil,
	}
	for id, pe := range reg.Params {
		p.ParamDefaults[id] = pe.Default
		p.paramIDByName[pe.Name] = id
	}

	for _, nodeID := range declOrder {
		raw := rawByID[nodeID]
		spec, err := ops.MustGet(raw.Op)
		if err != nil {
			return nil, err
		}
		validated, err := operator.Validate(spec.ParamsSchema, raw.Params)
		if err != nil {
			return nil, engineerr.WrapForNode(engineerr.KindPlanValidation, nodeID, err, "validating params")
		}
		if err := resolveDynamicParams(nodeID, spec, validated, raw.Params, &art, reg, p); err != nil {
			return nil, err
		}

		budget := spec.DefaultBudget.TimeoutMS
		if raw.Budget != nil {
			budget = raw.Budget.TimeoutMS
		}

		p.NodeByID[nodeID] = &Node{
			ID:       nodeID,
			Op:       raw.Op,
			Spec:     spec,
			Params:   validated,
			Inputs:   raw.Inputs,
			BudgetMS: budget,
		}
	}

	// Step 4: deterministic topological order.
	ordered, err := topoSort(declOrder, inputsOf)
	if err != nil {
		return nil, err
	}
	p.Nodes = make([]*Node, 0, len(ordered))
	for _, id := range ordered {
		p.Nodes = append(p.Nodes, p.NodeByID[id])
	}

	// Step 5: static read-effect propagation.
	if err := validateEffects(p, reg); err != nil {
		return nil, err
	}

	if len(art.OutputFields) > 0 {
		for _, name := range art.OutputFields {
			k, ok := reg.FindKeyByName(name)
			if !ok {
				return nil, engineerr.Newf(engineerr.KindRegistry, "output_fields: unknown key %q", name)
			}
			p.OutputFields = append(p.OutputFields, k.ID)
		}
	}

	return p, nil
}

func validateEffects(p *Plan, reg *registry.Registry) error {
	avail := make(map[string]map[uint32]bool, len(p.Nodes))
	for _, node := range p.Nodes {
		set := make(map[uint32]bool)
		if len(node.Inputs) == 0 {
			set[seed.KeyID] = true
		}
		for _, parentID := range node.Inputs {
			for k := range avail[parentID] {
				set[k] = true
			}
		}

		for _, keyID := range nodeReads(node) {
			if !set[keyID] {
				return engineerr.ForNode(engineerr.KindRegistry, node.ID, "reads a key not yet provided by any ancestor")
			}
			entry, ok := reg.FindKeyByID(keyID)
			if !ok || !entry.AllowRead || entry.Status == registry.KeyStatusBlocked {
				return engineerr.ForNode(engineerr.KindRegistry, node.ID, "reads a non-readable or blocked key")
			}
		}
		if node.Op == "sort" {
			by := node.Params.KeyID("by")
			if entry, ok := reg.FindKeyByID(by); ok && by != seed.KeyID && entry.Type != registry.KeyTypeFloat {
				return engineerr.ForNode(engineerr.KindPlanValidation, node.ID, "sort key must be the id column or a float key")
			}
		}
		for _, keyID := range nodeWrites(node) {
			entry, ok := reg.FindKeyByID(keyID)
			if !ok || !entry.AllowWrite || entry.Status == registry.KeyStatusBlocked {
				return engineerr.ForNode(engineerr.KindRegistry, node.ID, "writes a non-writable or blocked key")
			}
			set[keyID] = true
		}
		avail[node.ID] = set
	}
	return nil
}
