package server

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/stash/internal/auth"
	"github.com/MrSnakeDoc/stash/internal/bookmarks"
	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/external"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/protocol"
	"github.com/MrSnakeDoc/stash/internal/service"
	"github.com/MrSnakeDoc/stash/internal/users"
)

type staticFetcher struct{}

func (staticFetcher) Fetch(_ context.Context, rawURL string) (*domain.Bookmark, error) {
	return domain.NewBookmark("Title of "+rawURL, rawURL, []string{"test"}), nil
}

type panicFetcher struct{}

func (panicFetcher) Fetch(_ context.Context, _ string) (*domain.Bookmark, error) {
	panic("fetcher blew up")
}

// startTestServer boots a full command pipeline on a loopback port and
// returns the bound address.
func startTestServer(t *testing.T) string {
	return startTestServerWith(t, staticFetcher{})
}

func startTestServerWith(t *testing.T, fetcher external.PageFetcher) string {
	t.Helper()

	authenticator := auth.NewAuthenticator(users.NewDirectory(), logger.Nop())
	books := service.NewBookmarks(service.Options{
		Storage: bookmarks.NewStorage(),
		Fetcher: fetcher,
		Logger:  logger.Nop(),
	})
	exec := protocol.NewExecutor(authenticator, books)

	srv := New(Config{Addr: "127.0.0.1:0"}, exec, authenticator, logger.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve() returned %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	})

	select {
	case <-srv.WaitReady():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}

	return srv.Addr()
}

// send writes one command and reads one response.
func send(t *testing.T, conn net.Conn, line string) string {
	t.Helper()

	if _, err := conn.Write([]byte(line)); err != nil {
		t.Fatalf("writing %q: %v", line, err)
	}

	buf := make([]byte, DefaultBufferSize)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("reading response to %q: %v", line, err)
	}
	return string(buf[:n])
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dialing %s: %v", addr, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServerSession(t *testing.T) {
	addr := startTestServer(t)
	conn := dial(t, addr)

	if got, want := send(t, conn, "register alice Str0ng?pass"), "User alice successfully registered."; got != want {
		t.Fatalf("register reply = %q, want %q", got, want)
	}
	if got, want := send(t, conn, "login alice Str0ng?pass"), "User alice logged in."; got != want {
		t.Fatalf("login reply = %q, want %q", got, want)
	}
	if got, want := send(t, conn, "new-group dev"), "Group with name dev is created."; got != want {
		t.Fatalf("new-group reply = %q, want %q", got, want)
	}
	if got, want := send(t, conn, "add-to dev https://go.dev"), "https://go.dev added to dev."; got != want {
		t.Fatalf("add-to reply = %q, want %q", got, want)
	}

	listed := send(t, conn, "list")
	if !strings.Contains(listed, "LINK: https://go.dev") {
		t.Errorf("list output missing the bookmark:\n%s", listed)
	}
}

func TestServerDeniesWithoutLogin(t *testing.T) {
	addr := startTestServer(t)
	conn := dial(t, addr)

	got := send(t, conn, "list")
	if got != auth.MsgLoginRequired {
		t.Errorf("list without login reply = %q, want the login-required message", got)
	}
}

func TestServerUnknownCommand(t *testing.T) {
	addr := startTestServer(t)
	conn := dial(t, addr)

	if got := send(t, conn, "definitely not a command"); got != protocol.MsgUnknown {
		t.Errorf("unknown command reply = %q, want %q", got, protocol.MsgUnknown)
	}
}

// A dropped connection ends its session: a new connection to the same
// server starts logged out.
func TestServerDisconnectEndsSession(t *testing.T) {
	addr := startTestServer(t)

	first := dial(t, addr)
	send(t, first, "register alice Str0ng?pass")
	send(t, first, "login alice Str0ng?pass")
	first.Close()

	second := dial(t, addr)
	if got := send(t, second, "list"); got != auth.MsgLoginRequired {
		t.Errorf("fresh connection reply = %q, want the login-required message", got)
	}
}

// Sessions are per connection: two clients hold independent logins.
func TestServerConcurrentClients(t *testing.T) {
	addr := startTestServer(t)

	alice := dial(t, addr)
	bob := dial(t, addr)

	send(t, alice, "register alice Str0ng?pass")
	send(t, bob, "register bob 0ther?Pass")
	send(t, alice, "login alice Str0ng?pass")
	send(t, bob, "login bob 0ther?Pass")

	send(t, alice, "new-group dev")
	send(t, alice, "add-to dev https://go.dev")

	if got := send(t, bob, "list"); strings.Contains(got, "go.dev") {
		t.Errorf("bob sees alice's bookmarks:\n%s", got)
	}
	if got, want := send(t, bob, "logout"), "User bob logged out."; got != want {
		t.Errorf("bob logout reply = %q, want %q", got, want)
	}
	if got := send(t, alice, "list"); !strings.Contains(got, "go.dev") {
		t.Errorf("alice lost her session:\n%s", got)
	}
}

// A panicking collaborator answers the internal error and leaves the
// executor loop, and every other connection, alive.
func TestServerSurvivesCommandPanic(t *testing.T) {
	addr := startTestServerWith(t, panicFetcher{})

	conn := dial(t, addr)
	send(t, conn, "register alice Str0ng?pass")
	send(t, conn, "login alice Str0ng?pass")
	send(t, conn, "new-group dev")

	if got := send(t, conn, "add-to dev https://go.dev"); got != auth.MsgInternalError {
		t.Errorf("panicking command reply = %q, want %q", got, auth.MsgInternalError)
	}
	if got, want := send(t, conn, "logout"), "User alice logged out."; got != want {
		t.Errorf("follow-up command reply = %q, want %q", got, want)
	}

	other := dial(t, addr)
	if got := send(t, other, "list"); got != auth.MsgLoginRequired {
		t.Errorf("second connection reply = %q, want the login-required message", got)
	}
}
