package zkerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	assert.Equal(t, Message(ErrOk), "")
	assert.Equal(t, Message(ErrAPIError), "api error")
	assert.Equal(t, Message(ErrNoNode), "node does not exist")
	assert.Equal(t, Message(9999), "unknown error")
}
