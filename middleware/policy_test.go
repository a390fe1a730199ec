package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	anon := Actor{}
	user := Actor{UserID: "u1", Role: "user"}
	other := Actor{UserID: "u2", Role: "user"}
	admin := Actor{UserID: "a1", Role: "admin"}

	assert.True(t, Allow(anon, "", Public))

	assert.False(t, Allow(anon, "", Authenticated))
	assert.True(t, Allow(user, "", Authenticated))

	assert.True(t, Allow(user, "u1", Owner))
	assert.False(t, Allow(other, "u1", Owner))
	assert.True(t, Allow(admin, "u1", Owner))
	assert.False(t, Allow(anon, "", Owner))

	assert.False(t, Allow(user, "u1", Admin))
	assert.True(t, Allow(admin, "", Admin))
}
