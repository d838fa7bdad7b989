package directions

// Response mirrors the parts of a directions API document the extractor reads.
// Absent arrays decode as nil and are treated as "no route".
type Response struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Routes       []Route `json:"routes"`
}

type Route struct {
	Summary string `json:"summary"`
	Legs    []Leg  `json:"legs"`
}

type Leg struct {
	Steps []Step `json:"steps"`
}

type Step struct {
	Polyline *Polyline `json:"polyline"`
}

type Polyline struct {
	Points string `json:"points"`
}

// firstSteps returns routes[0].legs[0].steps, or nil when any level is absent or empty.
func (r *Response) firstSteps() []Step {
	if len(r.Routes) == 0 {
		return nil
	}
	legs := r.Routes[0].Legs
	if len(legs) == 0 {
		return nil
	}
	return legs[0].Steps
}
