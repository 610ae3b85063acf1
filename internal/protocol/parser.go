package protocol

import "strings"

// commandNames maps the lowercased first token to its kind. Matching is
// case-insensitive for the command name only; arguments and flags stay
// case-sensitive.
var commandNames = map[string]Kind{
	"help":               KindHelp,
	"register":           KindRegister,
	"login":              KindLogin,
	"logout":             KindLogout,
	"new-group":          KindNewGroup,
	"add-to":             KindAddTo,
	"remove-from":        KindRemoveFrom,
	"list":               KindList,
	"search":             KindSearch,
	"cleanup":            KindCleanup,
	"import-from-chrome": KindImportChrome,
}

// Parse decodes one request line into a command. The line is split on
// runs of whitespace; every command has an exact expected token count
// (plus a flag token at a fixed position for list/search/add-to), and
// anything that does not match resolves to Unknown - never a partial
// match.
func Parse(line string) Command {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return unknown()
	}

	kind, ok := commandNames[strings.ToLower(tokens[0])]
	if !ok {
		return unknown()
	}

	switch kind {
	case KindHelp, KindLogout, KindCleanup, KindImportChrome:
		return parseBare(kind, tokens)
	case KindRegister, KindLogin:
		return parseCredentials(kind, tokens)
	case KindNewGroup:
		return parseNewGroup(tokens)
	case KindAddTo:
		return parseAddTo(tokens)
	case KindRemoveFrom:
		return parseRemoveFrom(tokens)
	case KindList:
		return parseList(tokens)
	case KindSearch:
		return parseSearch(tokens)
	default:
		return unknown()
	}
}

// parseBare handles the single-token commands.
func parseBare(kind Kind, tokens []string) Command {
	if len(tokens) != 1 {
		return unknown()
	}
	return Command{Kind: kind, Args: tokens}
}

// parseCredentials handles "register <user> <pass>" and
// "login <user> <pass>".
func parseCredentials(kind Kind, tokens []string) Command {
	if len(tokens) != 3 {
		return unknown()
	}
	return Command{Kind: kind, Args: tokens}
}

func parseNewGroup(tokens []string) Command {
	if len(tokens) != 2 {
		return unknown()
	}
	return Command{Kind: KindNewGroup, Args: tokens}
}

func parseAddTo(tokens []string) Command {
	if len(tokens) == 3 && tokens[2] != "--shorten" {
		return Command{Kind: KindAddTo, Args: tokens}
	}
	if len(tokens) == 4 && tokens[3] == "--shorten" {
		return Command{Kind: KindAddTo, Args: tokens, Shorten: true}
	}
	return unknown()
}

func parseRemoveFrom(tokens []string) Command {
	if len(tokens) != 3 {
		return unknown()
	}
	return Command{Kind: KindRemoveFrom, Args: tokens}
}

func parseList(tokens []string) Command {
	if len(tokens) == 1 {
		return Command{Kind: KindList, Args: tokens}
	}
	if len(tokens) == 3 && tokens[1] == "--group-name" {
		return Command{Kind: KindList, Args: tokens, GroupFilter: true}
	}
	return unknown()
}

func parseSearch(tokens []string) Command {
	if len(tokens) == 3 && tokens[1] == "--title" {
		return Command{Kind: KindSearch, Args: tokens, ByTitle: true}
	}
	// --tags takes one or more tag tokens.
	if len(tokens) >= 3 && tokens[1] == "--tags" {
		return Command{Kind: KindSearch, Args: tokens, ByTags: true}
	}
	return unknown()
}

func unknown() Command {
	return Command{Kind: KindUnknown}
}
