package storage

import (
	"regexp"
	"strings"
)

// Key is a fully-resolved storage key. All persisted blobs live in a single
// flat namespace; session-scoped keys carry a normalized user suffix.
type Key string

// Global keys shared across users.
const (
	KeyCurrentUser Key = "currentUser"
	KeyFaqs        Key = "campus_suite_faqs"
	KeyCategories  Key = "campus_suite_categories"
)

// Base names for per-user keys.
const (
	BaseChatHistories      = "chatHistories"
	BaseActiveChatID       = "activeChatId"
	BaseTranslationHistory = "translationHistory"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeUserName lowercases a display name and collapses whitespace runs
// into underscores. Two distinct display names can normalize to the same
// identifier; the explicit key builder keeps that collision visible.
func NormalizeUserName(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(name, "_"))
}

// UserKey builds the storage key for a session-scoped blob owned by userName.
// Returns "" when userName is empty, which no storage backend accepts.
func UserKey(base, userName string) Key {
	if userName == "" {
		return ""
	}
	return Key(base + "_" + NormalizeUserName(userName))
}
