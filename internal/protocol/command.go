// Package protocol decodes request lines into typed commands and
// dispatches them against the auth and bookmark services.
package protocol

// Kind tags a parsed command. Dispatch switches on the tag; there is no
// per-command type hierarchy.
type Kind int

const (
	KindUnknown Kind = iota
	KindHelp
	KindRegister
	KindLogin
	KindLogout
	KindNewGroup
	KindAddTo
	KindRemoveFrom
	KindList
	KindSearch
	KindCleanup
	KindImportChrome
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindHelp:         "help",
	KindRegister:     "register",
	KindLogin:        "login",
	KindLogout:       "logout",
	KindNewGroup:     "new-group",
	KindAddTo:        "add-to",
	KindRemoveFrom:   "remove-from",
	KindList:         "list",
	KindSearch:       "search",
	KindCleanup:      "cleanup",
	KindImportChrome: "import-from-chrome",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is one parsed request line. Args holds the raw tokens
// including the command name, so token positions match the wire syntax.
type Command struct {
	Kind Kind
	Args []string

	// Shorten is set for "add-to ... --shorten".
	Shorten bool

	// GroupFilter is set for "list --group-name <name>".
	GroupFilter bool

	// ByTitle / ByTags distinguish the two search shapes. Exactly one
	// is set for a valid search; any other flag shape parses as
	// Unknown.
	ByTitle bool
	ByTags  bool
}
