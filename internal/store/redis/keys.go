package redis

const (
	// KeyUsers is the hash holding every user record, keyed by username.
	KeyUsers = "stash:users"
	// KeyBookmarks is the hash holding one collection per username.
	KeyBookmarks = "stash:bookmarks"
)
