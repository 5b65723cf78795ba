package plan

import "github.com/smilemakc/rankcore/internal/engineerr"

func newUnknownParamError(name string) error {
	return engineerr.Newf(engineerr.KindPlanValidation, "override references unknown parameter %q", name)
}
