package plan

import "github.com/smilemakc/rankcore/internal/engineerr"

// topoSort computes a topological order of nodeIDs given their declared
// inputs, breaking ties among simultaneously-ready nodes by declared
// order (their index in order) for deterministic output (Kahn's algorithm).
func topoSort(order []string, inputsOf map[string][]string) ([]string, error) {
	declaredIndex := make(map[string]int, len(order))
	for i, id := range order {
		declaredIndex[id] = i
	}

	inDegree := make(map[string]int, len(order))
	dependents := make(map[string][]string, len(order))
	for _, id := range order {
		inDegree[id] = len(inputsOf[id])
		for _, dep := range inputsOf[id] {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	ready := make([]string, 0, len(order))
	for _, id := range order {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	var result []string
	for len(ready) > 0 {
		// pick the lowest-declared-order-index ready node for determinism
		bestPos := 0
		for i := 1; i < len(ready); i++ {
			if declaredIndex[ready[i]] < declaredIndex[ready[bestPos]] {
				bestPos = i
			}
		}
		next := ready[bestPos]
		ready = append(ready[:bestPos], ready[bestPos+1:]...)
		result = append(result, next)

		for _, dependent := range dependents[next] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(result) != len(order) {
		return nil, engineerr.New(engineerr.KindPlanValidation, "plan graph contains a cycle")
	}
	return result, nil
}
