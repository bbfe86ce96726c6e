package model

// GenerateProfileKey generates a database key for a profile.
func GenerateProfileKey(id string) string {
	return PrefixProfile + ":" + id
}

// GenerateSessionKey generates a database key for a session.
func GenerateSessionKey(id string) string {
	return PrefixSession + ":" + id
}

// GenerateCachedProfileKey generates a database key for a cached profile,
// keyed on the user id so each user holds exactly one record.
func GenerateCachedProfileKey(userID string) string {
	return PrefixCachedProfile + ":" + userID
}
