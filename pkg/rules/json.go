package rules

import "encoding/json"

// JSON encodings carry a "kind" discriminant so consumers can tell union
// members apart without guessing from field names.

func (r *ServiceRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Action  string `json:"action"`
		Service string `json:"service"`
	}{"service", r.Action.String(), r.Service})
}

func (r *AddressRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string   `json:"kind"`
		Action    string   `json:"action"`
		Direction string   `json:"direction,omitempty"`
		Interface string   `json:"interface,omitempty"`
		Clauses   []Clause `json:"clauses"`
	}{"address", r.Action.String(), r.Direction.String(), r.Interface, r.Clauses})
}

func (c FromClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Addr Addr   `json:"addr"`
	}{"from", c.Addr})
}

func (c ToClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Addr Addr   `json:"addr"`
	}{"to", c.Addr})
}

func (c PortClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Port uint16 `json:"port"`
	}{"port", c.Port})
}

func (c ProtoClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Proto string `json:"proto"`
	}{"proto", c.Proto.String()})
}

func (AnyAddr) MarshalJSON() ([]byte, error) {
	return []byte(`{"kind":"any"}`), nil
}

func (InternalAddr) MarshalJSON() ([]byte, error) {
	return []byte(`{"kind":"internal"}`), nil
}

func (ExternalAddr) MarshalJSON() ([]byte, error) {
	return []byte(`{"kind":"external"}`), nil
}

func (a IPAddr) MarshalJSON() ([]byte, error) {
	var prefix *int
	if a.PrefixLen >= 0 {
		prefix = &a.PrefixLen
	}
	return json.Marshal(struct {
		Kind   string `json:"kind"`
		Addr   string `json:"addr"`
		Prefix *int   `json:"prefix,omitempty"`
	}{"ip", a.Addr.String(), prefix})
}
