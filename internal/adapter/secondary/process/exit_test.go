package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOSTerminator_Exit(t *testing.T) {
	code := -1
	term := &OSTerminator{exit: func(c int) { code = c }}
	term.Exit()
	assert.Equal(t, 0, code)
}
