package plan_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/smilemakc/rankcore/internal/operator"
	"github.com/smilemakc/rankcore/internal/operator/builtin"
	"github.com/smilemakc/rankcore/internal/plan"
	"github.com/smilemakc/rankcore/internal/registry/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOperators() *operator.Registry {
	reg := operator.NewRegistry()
	builtin.RegisterAll(reg)
	return reg
}

func reelsAPlanJSON(t *testing.T, digests string) string {
	t.Helper()
	doc := `{
		"plan_name": "reels_a",
		"sink_node_id": "take1",
		"digests": ` + digests + `,
		"built_by": {"backend": "test", "tool": "test", "tool_version": "0"},
		"exprs": {
			"e1": {"type":"binop","op":"*","lhs":{"type":"key_ref","key":"id"},
				"rhs":{"type":"coalesce","expr":{"type":"param_ref","param":"media_age_penalty_weight"},"default":0.2}}
		},
		"preds": {
			"p1": {"type":"cmp","op":">=","lhs":{"type":"key_ref","key":"final_score"},"rhs":{"type":"const","value":0.6}}
		},
		"nodes": [
			{"node_id":"src","op":"source.follow","params":{"fanout":10}},
			{"node_id":"vm1","op":"vm","inputs":["src"],"params":{"expr":"e1","out_key":"final_score"}},
			{"node_id":"filter1","op":"filter","inputs":["vm1"],"params":{"pred":"p1"}},
			{"node_id":"take1","op":"take","inputs":["filter1"],"params":{"count":5}}
		]
	}`
	return doc
}

func digestsJSON(t *testing.T) string {
	t.Helper()
	d := seed.New().Digest()
	b, err := json.Marshal(d)
	require.NoError(t, err)
	return string(b)
}

func TestLoadValidPlan(t *testing.T) {
	reg := seed.New()
	ops := testOperators()
	doc := reelsAPlanJSON(t, digestsJSON(t))

	p, err := plan.Load(strings.NewReader(doc), reg, ops)
	require.NoError(t, err)
	assert.Equal(t, "reels_a", p.Name)
	assert.Equal(t, "take1", p.SinkNodeID)
	assert.Equal(t, []string{"src", "vm1", "filter1", "take1"}, nodeIDs(p))
}

func nodeIDs(p *plan.Plan) []string {
	ids := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func TestLoadRejectsDigestMismatch(t *testing.T) {
	reg := seed.New()
	ops := testOperators()
	doc := reelsAPlanJSON(t, `{"keys":"bad","params":"bad","features":"bad"}`)

	_, err := plan.Load(strings.NewReader(doc), reg, ops)
	require.Error(t, err)
}

func TestLoadRejectsCycle(t *testing.T) {
	reg := seed.New()
	ops := testOperators()
	doc := `{
		"plan_name": "cyclic",
		"sink_node_id": "a",
		"digests": ` + digestsJSON(t) + `,
		"built_by": {"backend":"t","tool":"t","tool_version":"0"},
		"nodes": [
			{"node_id":"a","op":"take","inputs":["b"],"params":{"count":1}},
			{"node_id":"b","op":"take","inputs":["a"],"params":{"count":1}}
		]
	}`
	_, err := plan.Load(strings.NewReader(doc), reg, ops)
	require.Error(t, err)
}

func TestLoadRejectsUnresolvedInput(t *testing.T) {
	reg := seed.New()
	ops := testOperators()
	doc := `{
		"plan_name": "dangling",
		"sink_node_id": "a",
		"digests": ` + digestsJSON(t) + `,
		"built_by": {"backend":"t","tool":"t","tool_version":"0"},
		"nodes": [
			{"node_id":"a","op":"take","inputs":["missing"],"params":{"count":1}}
		]
	}`
	_, err := plan.Load(strings.NewReader(doc), reg, ops)
	require.Error(t, err)
}

func TestLoadRejectsReadBeforeWrite(t *testing.T) {
	reg := seed.New()
	ops := testOperators()
	doc := `{
		"plan_name": "bad_reads",
		"sink_node_id": "filter1",
		"digests": ` + digestsJSON(t) + `,
		"built_by": {"backend":"t","tool":"t","tool_version":"0"},
		"preds": {"p1": {"type":"cmp","op":">=","lhs":{"type":"key_ref","key":"final_score"},"rhs":{"type":"const","value":0.6}}},
		"nodes": [
			{"node_id":"src","op":"source.follow","params":{"fanout":10}},
			{"node_id":"filter1","op":"filter","inputs":["src"],"params":{"pred":"p1"}}
		]
	}`
	_, err := plan.Load(strings.NewReader(doc), reg, ops)
	require.Error(t, err, "final_score is never written upstream of filter1")
}

func TestResolveParamsAppliesOverrides(t *testing.T) {
	reg := seed.New()
	ops := testOperators()
	p, err := plan.Load(strings.NewReader(reelsAPlanJSON(t, digestsJSON(t))), reg, ops)
	require.NoError(t, err)

	params, err := p.ResolveParams(map[string]any{"media_age_penalty_weight": 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0.5, params[seed.ParamMediaAgePenaltyWeight])

	_, err = p.ResolveParams(map[string]any{"no_such_param": 1})
	require.Error(t, err)
}
