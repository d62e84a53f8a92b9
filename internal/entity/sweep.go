package entity

// SweepOutcome is the result of one dependent-kind cleanup attempt during a
// listing delete.
type SweepOutcome struct {
	Kind    string `json:"kind"`
	Deleted int64  `json:"deleted"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SweepReport is diagnostic only: the listing delete succeeds or fails on its
// own, regardless of what is in here.
type SweepReport struct {
	Outcomes []SweepOutcome `json:"outcomes"`
}

func (r SweepReport) Failed() []SweepOutcome {
	var failed []SweepOutcome
	for _, o := range r.Outcomes {
		if o.Error != "" {
			failed = append(failed, o)
		}
	}
	return failed
}

func (r SweepReport) AllClean() bool {
	return len(r.Failed()) == 0
}
