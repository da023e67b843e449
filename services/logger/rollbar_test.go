package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/user"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "TEST : ", 0), core.NewTestConfig())

	usr := user.User{ID: 7, Username: "jdoe", Email: "jdoe@test.test", Role: user.RoleStudent, StudentID: "S-007", PasswordHash: []byte("secret-hash")}
	logger.Error("saving profile", errors.New("boom"), usr)

	out := buf.String()
	assert.Contains(t, out, "TEST : [ERROR] saving profile : boom")
	assert.Contains(t, out, "user: 7 (jdoe)")
	assert.Contains(t, out, "role=student")
	assert.Contains(t, out, "student_id=S-007")
	assert.NotContains(t, out, "secret-hash")
}

func Test_newEntry(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	teacher := user.User{ID: 3, Username: "prof", Role: user.RoleTeacher}

	tests := []struct {
		name      string
		args      []interface{}
		wantItems []interface{}
		wantUser  bool
	}{
		{
			name:      "message only",
			wantItems: []interface{}{"msg"},
		},
		{
			name:      "first error wins",
			args:      []interface{}{errA, errB},
			wantItems: []interface{}{"msg", errA, errB},
		},
		{
			name: "extras merged",
			args: []interface{}{map[string]interface{}{"path": "/api"}, map[string]interface{}{"method": "GET"}},
			wantItems: []interface{}{"msg", map[string]interface{}{"path": "/api", "method": "GET"}},
		},
		{
			name:      "user becomes role extra",
			args:      []interface{}{teacher, "extra"},
			wantItems: []interface{}{"msg", map[string]interface{}{"role": "teacher"}, "extra"},
			wantUser:  true,
		},
		{
			name:      "anonymous user ignored",
			args:      []interface{}{user.User{}},
			wantItems: []interface{}{"msg"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEntry("msg", tt.args)
			assert.Equal(t, tt.wantItems, e.items())
			assert.Equal(t, tt.wantUser, e.usr != nil)
		})
	}
}
