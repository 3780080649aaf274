package dbusx

// Name grammars. The message broker rejects, and libdbus aborts on,
// malformed bus names, object paths, interface names and member names,
// so locally authored names are checked before they reach the wire.

// maxNameLen is the maximum length of any DBus name.
const maxNameLen = 255

func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

// ValidBusName reports whether name is a well-formed bus name. A bus
// name is dot-separated components of letters, digits, '_' and '-',
// with at least two components, where no component starts with a
// digit. Unique names start with ':' and may contain digit-led
// components, e.g. ":1.42".
func ValidBusName(name string) bool {
	if name == "" || name[0] == '.' {
		return false
	}
	ndots := 0
	for i := 0; i < len(name); i++ {
		switch c := name[i]; {
		case isAlpha(c) || c == '_' || c == '-':
		case c == '.' && i > 0 && name[i-1] != '.' && name[i-1] != ':':
			ndots++
		case c == ':' && i == 0:
		case isDigit(c) && i > 0 && (name[i-1] != '.' || name[0] == ':'):
		default:
			return false
		}
	}
	if name[len(name)-1] == '.' || ndots == 0 || len(name) > maxNameLen {
		return false
	}
	return true
}

// ValidObjectPath reports whether path is a well-formed object path:
// '/'-separated components of letters, digits and '_', with no empty
// component. The root path "/" is valid.
func ValidObjectPath(path string) bool {
	if path == "" || path[0] != '/' {
		return false
	}
	for i := 1; i < len(path); i++ {
		switch c := path[i]; {
		case isAlnum(c) || c == '_':
		case c == '/' && path[i-1] != '/':
		default:
			return false
		}
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		return false
	}
	return true
}

// ValidInterfaceName reports whether name is a well-formed interface
// name: dot-separated components of letters, digits and '_', with at
// least two components, where no component starts with a digit.
func ValidInterfaceName(name string) bool {
	if name == "" || !(isAlpha(name[0]) || name[0] == '_') {
		return false
	}
	ndots := 0
	for i := 1; i < len(name); i++ {
		switch c := name[i]; {
		case isAlpha(c) || c == '_':
		case c == '.' && name[i-1] != '.':
			ndots++
		case isDigit(c) && name[i-1] != '.':
		default:
			return false
		}
	}
	if name[len(name)-1] == '.' || ndots == 0 || len(name) > maxNameLen {
		return false
	}
	return true
}

// ValidMemberName reports whether name is a well-formed method or
// signal name: letters, digits and '_', not starting with a digit.
func ValidMemberName(name string) bool {
	if name == "" || !(isAlpha(name[0]) || name[0] == '_') {
		return false
	}
	for i := 1; i < len(name); i++ {
		if c := name[i]; !(isAlnum(c) || c == '_') {
			return false
		}
	}
	return len(name) <= maxNameLen
}

// ValidErrorName reports whether name is a well-formed error name.
// Error names share the interface name grammar.
func ValidErrorName(name string) bool { return ValidInterfaceName(name) }
