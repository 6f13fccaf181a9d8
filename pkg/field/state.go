package field

// Phase is the coarse busy indicator of a field.
type Phase string

const (
	PhaseReady   Phase = "ready"
	PhaseLoading Phase = "loading"
)

// Loading tracks in-flight asynchronous work per category.
type Loading struct {
	Validate bool `json:"validate"`
	Props    bool `json:"props"`
}

// Any reports whether either category is in flight.
func (l Loading) Any() bool {
	return l.Validate || l.Props
}

// Props carries component/display configuration for a field.
type Props map[string]any

// State is a copy of a field's observable state.
type State[T any] struct {
	Phase         Phase   `json:"phase"`
	Value         T       `json:"value"`
	Touched       bool    `json:"touched"`
	Changed       bool    `json:"changed"`
	Valid         bool    `json:"valid"`
	Errors        error   `json:"-"`
	LastValidated T       `json:"lastValidated"`
	HasValidated  bool    `json:"hasValidated"`
	Loading       Loading `json:"loading"`
}

func phaseOf(l Loading) Phase {
	if l.Any() {
		return PhaseLoading
	}
	return PhaseReady
}
