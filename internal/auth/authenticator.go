// Package auth implements password credentials and the per-connection
// session state machine.
package auth

import (
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

// Wire messages owned by the authenticator. They are part of the wire
// contract; change them only together with the protocol tests.
const (
	MsgInvalidCredentials = "Invalid username or password."
	MsgInternalError      = "An internal problem occurred. " +
		"Please try again or contact an administrator"
	MsgAlreadyLoggedIn = "You are already logged in."
	MsgNotLoggedIn     = "You are not logged in."
	MsgLoginRequired   = "Please login to use this feature.\n" +
		"If you don't have account use the register command"
	MsgWeakPassword = "The password must contain at least one lowercase character, " +
		"one uppercase character, one digit, one special character, " +
		"and a length between 8 to 20."
	MsgPasswordEqualsUsername = "Your password should not match the username. " +
		"Please, choose a different one."
)

// UserDirectory is the user lookup/insert surface the authenticator
// needs. internal/users provides the real implementation.
type UserDirectory interface {
	Get(username string) (*domain.User, bool)
	Add(user *domain.User) bool
	Contains(username string) bool
}

// Authenticator owns the connection -> user session table and the
// register/login/logout state machine on top of a user directory.
//
// Sessions are keyed by connection ID and live only while the
// connection is open and logged in; they are never persisted.
type Authenticator struct {
	mu     sync.RWMutex
	users  UserDirectory
	logged map[string]*domain.User
	log    logger.Logger
}

// NewAuthenticator creates an authenticator over the given directory.
func NewAuthenticator(users UserDirectory, log logger.Logger) *Authenticator {
	return &Authenticator{
		users:  users,
		logged: make(map[string]*domain.User),
		log:    log,
	}
}

// Register creates a new account. Validation order: absent credentials,
// weak password, password equal to username, username taken.
func (a *Authenticator) Register(username, password string) domain.Response {
	if username == "" || password == "" {
		return domain.Err(MsgInvalidCredentials)
	}

	if !ValidatePassword(password) {
		return domain.Err(MsgWeakPassword)
	}

	if username == password {
		return domain.Err(MsgPasswordEqualsUsername)
	}

	if a.users.Contains(username) {
		return domain.Err(fmt.Sprintf("User %s already exists.", username))
	}

	pwHash, err := HashPassword(password)
	if err != nil {
		a.log.Error("hashing password failed", logger.Error(err))
		return domain.Err(MsgInternalError)
	}

	if !a.users.Add(domain.NewUser(username, pwHash)) {
		// Lost a race with a concurrent register for the same name.
		return domain.Err(fmt.Sprintf("User %s already exists.", username))
	}

	return domain.OK(fmt.Sprintf("User %s successfully registered.", username))
}

// Login binds the connection to the user when the credentials verify.
func (a *Authenticator) Login(connID, username, password string) domain.Response {
	if connID == "" || username == "" || password == "" {
		a.log.Error("login called with absent arguments",
			logger.String("conn_id", connID))
		return domain.Err(MsgInternalError)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.logged[connID]; ok {
		return domain.Err(MsgAlreadyLoggedIn)
	}

	target, ok := a.users.Get(username)
	if !ok {
		return domain.Err(MsgInvalidCredentials)
	}

	saltHex, hashHex, err := SplitHash(target.PasswordHash)
	if err != nil {
		a.log.Error("stored credential is malformed",
			logger.String("username", username),
			logger.Error(err))
		return domain.Err(MsgInternalError)
	}

	verified, err := VerifyPassword(hashHex, saltHex, password)
	if err != nil {
		a.log.Error("password verification failed",
			logger.String("username", username),
			logger.Error(err))
		return domain.Err(MsgInternalError)
	}
	if !verified {
		return domain.Err(MsgInvalidCredentials)
	}

	a.logged[connID] = target

	return domain.OK(fmt.Sprintf("User %s logged in.", username))
}

// Authenticate resolves the connection to its logged-in username. It is
// the gate every authorization-requiring command calls first; the
// message on failure is the fixed denial string.
func (a *Authenticator) Authenticate(connID string) domain.Response {
	if connID == "" {
		a.log.Error("authenticate called with empty connection id")
		return domain.Err(MsgInternalError)
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	user, ok := a.logged[connID]
	if !ok {
		return domain.Err(MsgLoginRequired)
	}

	return domain.OK(user.Username)
}

// Logout drops the connection's session.
func (a *Authenticator) Logout(connID string) domain.Response {
	if connID == "" {
		a.log.Error("logout called with empty connection id")
		return domain.Err(MsgInternalError)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	user, ok := a.logged[connID]
	if !ok {
		return domain.Err(MsgNotLoggedIn)
	}

	delete(a.logged, connID)

	return domain.OK(fmt.Sprintf("User %s logged out.", user.Username))
}

// Disconnect drops any session bound to the connection. Called by the
// server when a client goes away so a reused connection ID can never
// inherit a stale login.
func (a *Authenticator) Disconnect(connID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.logged, connID)
}

// SessionCount returns the number of live sessions.
func (a *Authenticator) SessionCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.logged)
}
