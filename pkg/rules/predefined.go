package rules

// Service describes what a service name used by a ServiceRule stands
// for: a destination port and the protocol it runs over.
type Service struct {
	Name  string
	Port  uint16
	Proto Protocol
}

// WellKnownServices are the service names rules may use without a user
// catalog. Ports follow the IANA assignments.
var WellKnownServices = map[string]*Service{
	"ssh":        {Name: "ssh", Port: 22, Proto: ProtoTCP},
	"telnet":     {Name: "telnet", Port: 23, Proto: ProtoTCP},
	"smtp":       {Name: "smtp", Port: 25, Proto: ProtoTCP},
	"dns":        {Name: "dns", Port: 53, Proto: ProtoAny},
	"dhcp":       {Name: "dhcp", Port: 67, Proto: ProtoUDP},
	"tftp":       {Name: "tftp", Port: 69, Proto: ProtoUDP},
	"http":       {Name: "http", Port: 80, Proto: ProtoTCP},
	"pop3":       {Name: "pop3", Port: 110, Proto: ProtoTCP},
	"ntp":        {Name: "ntp", Port: 123, Proto: ProtoUDP},
	"imap":       {Name: "imap", Port: 143, Proto: ProtoTCP},
	"snmp":       {Name: "snmp", Port: 161, Proto: ProtoUDP},
	"ldap":       {Name: "ldap", Port: 389, Proto: ProtoTCP},
	"https":      {Name: "https", Port: 443, Proto: ProtoTCP},
	"smtps":      {Name: "smtps", Port: 465, Proto: ProtoTCP},
	"syslog":     {Name: "syslog", Port: 514, Proto: ProtoUDP},
	"submission": {Name: "submission", Port: 587, Proto: ProtoTCP},
	"ldaps":      {Name: "ldaps", Port: 636, Proto: ProtoTCP},
	"rsync":      {Name: "rsync", Port: 873, Proto: ProtoTCP},
	"imaps":      {Name: "imaps", Port: 993, Proto: ProtoTCP},
	"pop3s":      {Name: "pop3s", Port: 995, Proto: ProtoTCP},
	"openvpn":    {Name: "openvpn", Port: 1194, Proto: ProtoUDP},
	"mssql":      {Name: "mssql", Port: 1433, Proto: ProtoTCP},
	"mysql":      {Name: "mysql", Port: 3306, Proto: ProtoTCP},
	"rdp":        {Name: "rdp", Port: 3389, Proto: ProtoTCP},
	"sip":        {Name: "sip", Port: 5060, Proto: ProtoAny},
	"postgres":   {Name: "postgres", Port: 5432, Proto: ProtoTCP},
	"vnc":        {Name: "vnc", Port: 5900, Proto: ProtoTCP},
	"redis":      {Name: "redis", Port: 6379, Proto: ProtoTCP},
	"http-alt":   {Name: "http-alt", Port: 8080, Proto: ProtoTCP},
	"wireguard":  {Name: "wireguard", Port: 51820, Proto: ProtoUDP},
}

// ResolveService looks a service name up, preferring the user catalog
// over the built-in one so deployments can override well-known entries.
// It returns nil when neither catalog defines the name.
func ResolveService(name string, user map[string]*Service) *Service {
	if user != nil {
		if s, ok := user[name]; ok {
			return s
		}
	}
	return WellKnownServices[name]
}
