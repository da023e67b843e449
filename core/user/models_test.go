package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserHelpers(t *testing.T) {
	usr := User{FirstName: "Jane", LastName: "Doe", Role: RoleStudent}
	assert.Equal(t, "Jane Doe", usr.FullName())
	usr.MiddleName = "Q"
	assert.Equal(t, "Jane Q Doe", usr.FullName())

	assert.True(t, usr.IsStudent())
	assert.False(t, usr.IsStaff())
	assert.True(t, User{Role: RoleAdmin}.IsStaff())
	assert.True(t, User{Role: RoleTeacher}.IsStaff())

	assert.Error(t, usr.CheckPassword("anything"), "no usable password")
	assert.NoError(t, usr.SetPassword("s3cret-pass"))
	assert.NoError(t, usr.CheckPassword("s3cret-pass"))
	assert.Error(t, usr.CheckPassword("nope"))
}

func TestQueryFilterMatches(t *testing.T) {
	one, two := 1, 2
	usr := User{FirstName: "Jane", MiddleName: "Quinn", LastName: "Doe", Email: "jd@test.test", StudentID: "S-42", Role: RoleStudent, ProgramID: &one}

	tests := []struct {
		name   string
		filter QueryFilter
		want   bool
	}{
		{name: "empty", filter: QueryFilter{}, want: true},
		{name: "full name", filter: QueryFilter{Search: "quinn doe"}, want: true},
		{name: "email", filter: QueryFilter{Search: "JD@"}, want: true},
		{name: "student id", filter: QueryFilter{Search: "s-4"}, want: true},
		{name: "no match", filter: QueryFilter{Search: "smith"}, want: false},
		{name: "role", filter: QueryFilter{Roles: []string{RoleTeacher}}, want: false},
		{name: "program", filter: QueryFilter{ProgramID: &one}, want: true},
		{name: "other program", filter: QueryFilter{ProgramID: &two}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(usr))
		})
	}
}
