package network

// Status is a snapshot of the network classification.
type Status struct {
	Connected     bool   `json:"connected"`
	SSID          string `json:"ssid,omitempty"`
	IsHomeNetwork bool   `json:"isHomeNetwork"`
}

// Label returns "home" or "away".
func (s Status) Label() string {
	if s.IsHomeNetwork {
		return "home"
	}
	return "away"
}

// InitialStatus is the status before any change is observed.
func InitialStatus() Status {
	return Status{Connected: true, SSID: "Home Network", IsHomeNetwork: true}
}

// CannedNetworks lists the networks RandomDetector picks from.
func CannedNetworks() []Status {
	return []Status{
		{Connected: true, SSID: "Home Network", IsHomeNetwork: true},
		{Connected: true, SSID: "Coffee Shop", IsHomeNetwork: false},
		{Connected: true, SSID: "Office Network", IsHomeNetwork: false},
	}
}
