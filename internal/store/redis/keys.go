package redis

// Key layout. Everything is namespaced under "bk:" so the instance can be
// shared with other services.
const (
	keyPrefixUser  = "bk:user:"
	keyPrefixUsage = "bk:usage:"

	// KeyAIConfig holds the admin-set provider configuration.
	KeyAIConfig = "bk:system:ai_config"
	// KeyAISecret holds provider credentials, stored apart from the
	// public configuration.
	KeyAISecret = "bk:system:ai_secret"
)

// IndexKey returns the key of a user's bookmark index document.
func IndexKey(userID string) string {
	return keyPrefixUser + userID + ":index"
}

// TagDefsKey returns the key of a user's tag registry.
func TagDefsKey(userID string) string {
	return keyPrefixUser + userID + ":tags"
}

// AILogKey returns the key of a user's classification audit log.
func AILogKey(userID string) string {
	return keyPrefixUser + userID + ":ailog"
}

// LinkStatusKey returns the key of a user's link liveness map.
func LinkStatusKey(userID string) string {
	return keyPrefixUser + userID + ":status"
}

// GlobalUsageKey returns the global daily classification counter key for a
// UTC date in YYYY-MM-DD form.
func GlobalUsageKey(date string) string {
	return keyPrefixUsage + "global:" + date
}

// UserUsageKey returns the per-user daily classification counter key.
func UserUsageKey(userID, date string) string {
	return keyPrefixUsage + "user:" + userID + ":" + date
}
