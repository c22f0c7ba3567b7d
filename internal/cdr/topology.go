package cdr

import (
	"fmt"

	"call-data-gen/internal/validate"
)

// Status selects the call outcome every synthesized record models.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
)

// Endpoint is one side of the modeled topology: an ip group with the phone
// number range its parties are drawn from.
type Endpoint struct {
	IPGroup         string `json:"ipGroup"`
	NumberRangeFrom int    `json:"numberRangeFrom"`
	NumberRangeTo   int    `json:"numberRangeTo"`
}

// TopologyDescriptor describes the customer topology to synthesize calls
// for: one PSTN endpoint, one or more service endpoints and the SBC names
// the calls are attributed to.
type TopologyDescriptor struct {
	NoCallsPerInterval int        `json:"noCallsPerInterval"`
	Status             Status     `json:"status"`
	SBCNames           []string   `json:"sbcNames"`
	Services           []Endpoint `json:"services"`
	PSTN               Endpoint   `json:"pstn"`
}

// ValidateTopology checks the descriptor and returns a *validate.Error
// carrying every field-level problem found, before any interval processing.
func ValidateTopology(topology TopologyDescriptor) error {
	verr := &validate.Error{}
	if topology.NoCallsPerInterval < 1 {
		verr.Addf("noCallsPerInterval must be at least 1, got %d", topology.NoCallsPerInterval)
	}
	switch topology.Status {
	case StatusSuccess, StatusFail:
	case "":
		verr.Addf("status is required")
	default:
		verr.Addf("status must be success or fail, got %q", topology.Status)
	}
	if len(topology.SBCNames) == 0 {
		verr.Addf("sbcNames must contain at least 1 entry")
	}
	for i, name := range topology.SBCNames {
		if name == "" {
			verr.Addf("sbcNames[%d] must not be empty", i)
		}
	}
	if len(topology.Services) == 0 {
		verr.Addf("services must contain at least 1 entry")
	}
	for i, service := range topology.Services {
		validateEndpoint(verr, "services", i, service)
	}
	validateEndpoint(verr, "pstn", -1, topology.PSTN)
	return verr.OrNil()
}

func validateEndpoint(verr *validate.Error, field string, index int, endpoint Endpoint) {
	prefix := field
	if index >= 0 {
		prefix = fmt.Sprintf("%s[%d]", field, index)
	}
	if endpoint.IPGroup == "" {
		verr.Addf("%s.ipGroup is required", prefix)
	}
	if endpoint.NumberRangeFrom <= 0 {
		verr.Addf("%s.numberRangeFrom must be a positive number", prefix)
	}
	if endpoint.NumberRangeTo < endpoint.NumberRangeFrom {
		verr.Addf("%s.numberRangeTo must not be below numberRangeFrom", prefix)
	}
}
