package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUserName(t *testing.T) {
	assert.Equal(t, "google_user", NormalizeUserName("Google User"))
	assert.Equal(t, "a_b_c", NormalizeUserName("A  B\tC"))
	assert.Equal(t, "user", NormalizeUserName("USER"))
}

func TestUserKey(t *testing.T) {
	assert.Equal(t, Key("chatHistories_google_user"), UserKey(BaseChatHistories, "Google User"))
	assert.Equal(t, Key("activeChatId_jane_doe"), UserKey(BaseActiveChatID, "Jane Doe"))
	assert.Equal(t, Key("translationHistory_jane_doe"), UserKey(BaseTranslationHistory, "Jane Doe"))
}

func TestUserKeyEmptyUser(t *testing.T) {
	assert.Equal(t, Key(""), UserKey(BaseChatHistories, ""))
}

func TestUserKeyCollision(t *testing.T) {
	// Distinct display names can normalize to the same key. The builder
	// makes the collision observable rather than hiding it.
	a := UserKey(BaseChatHistories, "Jane Doe")
	b := UserKey(BaseChatHistories, "jane  doe")
	assert.Equal(t, a, b)
}
