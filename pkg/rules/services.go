package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type serviceEntry struct {
	Port  int    `yaml:"port"`
	Proto string `yaml:"proto"`
}

// LoadServicesFile reads a user service catalog from a YAML file mapping
// service names to their port and protocol:
//
//	webapp:
//	  port: 8443
//	  proto: tcp
//
// Names must be identifiers, ports must fit in [0, 65535], and proto must
// be tcp, udp, or any. A missing proto means any.
func LoadServicesFile(path string) (map[string]*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: services: %w", err)
	}
	var entries map[string]serviceEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("rules: services: parsing %s: %w", path, err)
	}
	catalog := make(map[string]*Service, len(entries))
	for name, e := range entries {
		if !isIdent(name) {
			return nil, fmt.Errorf("rules: services: invalid service name %q", name)
		}
		if e.Port < 0 || e.Port > 65535 {
			return nil, fmt.Errorf("rules: services: service %q: port %d out of range", name, e.Port)
		}
		proto := ProtoAny
		switch e.Proto {
		case "", "any":
		case "tcp":
			proto = ProtoTCP
		case "udp":
			proto = ProtoUDP
		default:
			return nil, fmt.Errorf("rules: services: service %q: unknown protocol %q", name, e.Proto)
		}
		catalog[name] = &Service{Name: name, Port: uint16(e.Port), Proto: proto}
	}
	return catalog, nil
}
