package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	Code string
	Val  int
}

func TestIndexFirstWins(t *testing.T) {
	rows := []row{{"A", 1}, {"B", 2}, {"A", 3}}
	idx := Index(rows, func(r row) string { return r.Code })

	assert.Len(t, idx, 2)
	assert.Equal(t, 1, idx["A"].Val)
}

func TestMissingKeepsOrder(t *testing.T) {
	before := []row{{"A", 1}}
	after := []row{{"C", 3}, {"A", 1}, {"B", 2}}

	idx := Index(before, func(r row) string { return r.Code })
	nuevos := Missing(after, idx, func(r row) string { return r.Code })

	assert.Equal(t, []row{{"C", 3}, {"B", 2}}, nuevos)
}
