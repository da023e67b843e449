package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderings(t *testing.T) {
	ords := []DBOrdering{{Field: "name", Ascending: true}, {Field: "password"}, {Field: "code"}}

	allowed := FilterOrderings(ords, "name", "code")
	assert.Equal(t, []DBOrdering{{Field: "name", Ascending: true}, {Field: "code"}}, allowed)

	assert.Equal(t, " ORDER BY name ASC, code DESC", OrderByClause(allowed, "id ASC"))
	assert.Equal(t, " ORDER BY id ASC", OrderByClause(nil, "id ASC"))
}
