package protocol

import (
	"context"

	"github.com/MrSnakeDoc/stash/internal/auth"
	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/service"
)

// MsgUnknown is the fixed reply for any malformed or unrecognized line.
const MsgUnknown = "Unknown command. Type help to check the commands usage."

// helpText lists the command syntax, one command per line.
// toggle-prompt is handled client-side but advertised here so remote
// users discover it.
const helpText = "register <username> <password> \n" +
	"login <username> <password> \n" +
	"logout \n" +
	"new-group <group-name> \n" +
	"add-to <group-name> <bookmark> {--shorten} \n" +
	"remove-from <group-name> <bookmark> \n" +
	"list \n" +
	"list --group-name <group-name>\n" +
	"search --tags <tag> [<tag> ...] \n" +
	"search --title <title> \n" +
	"cleanup \n" +
	"import-from-chrome \n" +
	"toggle-prompt"

// Executor resolves parsed commands against the authenticator and the
// bookmark service and produces the textual wire response. Help,
// register and unknown run without a session; every other command is
// gated on Authenticate first.
type Executor struct {
	auth  *auth.Authenticator
	books *service.Bookmarks
}

// NewExecutor wires the executor.
func NewExecutor(authenticator *auth.Authenticator, books *service.Bookmarks) *Executor {
	return &Executor{
		auth:  authenticator,
		books: books,
	}
}

// Execute runs one command for the given connection and returns the
// response payload.
func (e *Executor) Execute(ctx context.Context, connID string, cmd Command) string {
	switch cmd.Kind {
	case KindHelp:
		return helpText
	case KindRegister:
		return e.auth.Register(cmd.Args[1], cmd.Args[2]).Message
	case KindLogin:
		return e.auth.Login(connID, cmd.Args[1], cmd.Args[2]).Message
	case KindLogout:
		return e.auth.Logout(connID).Message
	case KindNewGroup:
		return e.authorized(connID, func(caller string) domain.Response {
			return e.books.CreateGroup(cmd.Args[1], caller)
		})
	case KindAddTo:
		return e.authorized(connID, func(caller string) domain.Response {
			return e.books.AddTo(ctx, cmd.Args[1], cmd.Args[2], caller, cmd.Shorten)
		})
	case KindRemoveFrom:
		return e.authorized(connID, func(caller string) domain.Response {
			return e.books.RemoveFrom(cmd.Args[1], cmd.Args[2], caller)
		})
	case KindList:
		return e.authorized(connID, func(caller string) domain.Response {
			if cmd.GroupFilter {
				return e.books.ListGroup(cmd.Args[2], caller)
			}
			return e.books.List(caller)
		})
	case KindSearch:
		return e.authorized(connID, func(caller string) domain.Response {
			if cmd.ByTitle {
				return e.books.SearchByTitle(cmd.Args[2], caller)
			}
			return e.books.SearchByTags(cmd.Args[2:], caller)
		})
	case KindCleanup:
		return e.authorized(connID, func(caller string) domain.Response {
			return e.books.Cleanup(ctx, caller)
		})
	case KindImportChrome:
		return e.authorized(connID, func(caller string) domain.Response {
			return e.books.ImportFromChrome(ctx, caller)
		})
	default:
		return MsgUnknown
	}
}

// authorized gates an operation on a live session and hands it the
// caller's username.
func (e *Executor) authorized(connID string, op func(caller string) domain.Response) string {
	authResp := e.auth.Authenticate(connID)
	if authResp.IsError() {
		return authResp.Message
	}

	return op(authResp.Message).Message
}
