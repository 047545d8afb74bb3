package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	p := Principal{subjectID: "alice"}

	assert.True(t, Authorize(p, "alice"))
	assert.False(t, Authorize(p, "bob"))
	assert.False(t, Authorize(p, ""))
	assert.False(t, Authorize(Principal{}, ""))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	_, ok = FromContext(WithPrincipal(context.Background(), Principal{}))
	assert.False(t, ok, "zero principal must not count as authenticated")

	ctx := WithPrincipal(context.Background(), Principal{subjectID: "alice"})
	p, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice", p.SubjectID())
}
