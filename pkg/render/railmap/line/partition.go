package line

import (
	"slices"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
)

// Runs is a branch split into the stations drawn on each layer.
type Runs struct {
	Main []string `json:"main"`
	Pass []string `json:"pass"`
}

// Partition splits branch into its main and pass runs.
//
// Stations at or after the current station go to the main run, stations at
// or before it to the pass run, both in branch order. Two tie-breaks then
// keep the layers joined:
//
//   - A main run of exactly one station draws nothing useful, so the whole
//     branch becomes the pass run and the main run is cleared.
//   - When the two runs share no station, the pass run is stitched to the
//     main run at the joint. See [stitch].
//
// Partition returns a MISSING_STATE error when a station of branch has no
// entry in states, and an INCONSISTENT_RUN error when disjoint runs match
// no stitching case or more than one.
func Partition(branch []string, states map[string]layout.State) (Runs, error) {
	var r Runs
	for _, id := range branch {
		s, ok := states[id]
		if !ok {
			return Runs{}, rmerrors.New(rmerrors.ErrCodeMissingState, "station %q has no traversal state", id)
		}
		if s.OnMain() {
			r.Main = append(r.Main, id)
		}
		if s.OnPass() {
			r.Pass = append(r.Pass, id)
		}
	}

	if len(r.Main) == 1 {
		return Runs{Pass: slices.Clone(branch)}, nil
	}
	if len(r.Main) == 0 || len(r.Pass) == 0 || overlaps(r.Main, r.Pass) {
		return r, nil
	}
	return stitch(branch, r)
}

// stitch joins disjoint runs. Exactly one of three cases must hold:
//
//   - leading: the pass run starts the branch, so the first main station is
//     appended to it.
//   - spanning: the main run starts and ends the branch with the pass run
//     inside it, so the whole branch is drawn as passed.
//   - trailing: the pass run ends the branch, so the last main station is
//     prepended to it.
func stitch(branch []string, r Runs) (Runs, error) {
	first, last := branch[0], branch[len(branch)-1]
	leading := r.Pass[0] == first
	spanning := r.Main[0] == first && r.Main[len(r.Main)-1] == last
	trailing := r.Pass[len(r.Pass)-1] == last

	fired := 0
	for _, c := range []bool{leading, spanning, trailing} {
		if c {
			fired++
		}
	}
	if fired != 1 {
		return Runs{}, rmerrors.New(rmerrors.ErrCodeInconsistentRun,
			"cannot join main %v and pass %v of branch %v (%d stitching cases match)", r.Main, r.Pass, branch, fired)
	}

	switch {
	case leading:
		r.Pass = append(r.Pass, r.Main[0])
	case spanning:
		r.Pass = slices.Clone(branch)
		r.Main = nil
	default:
		r.Pass = append([]string{r.Main[len(r.Main)-1]}, r.Pass...)
	}
	return r, nil
}

func overlaps(a, b []string) bool {
	for _, id := range a {
		if slices.Contains(b, id) {
			return true
		}
	}
	return false
}
