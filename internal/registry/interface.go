package registry

// Registry maps registered user keys to the connection currently addressable
// under them. Independent of party membership.
type Registry interface {
	// Register binds userKey to clientID, overwriting any prior binding for
	// the key (last registration wins).
	Register(userKey, clientID string)
	// Lookup returns the connection bound to userKey, if any.
	Lookup(userKey string) (string, bool)
	// Unregister removes the binding only while it still points at clientID,
	// so a stale disconnect cannot evict a newer registration.
	Unregister(userKey, clientID string)
}
