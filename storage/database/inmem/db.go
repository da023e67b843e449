package inmemdb

import (
	"sync"

	"github.com/scsit/ges/core/program"
	"github.com/scsit/ges/core/user"
)

// DB is an in-memory store used by tests and the API in TEST mode.
// Each table is guarded by its own lock; cross-table cascades lock parent before child.
type DB struct {
	user     *userTable
	program  *programTable
	subject  *subjectTable
	schedule *scheduleTable
}

type (
	userTable struct {
		table   map[int]*user.User
		pkCount int
		mutex   sync.RWMutex
	}
	programTable struct {
		table   map[int]*program.Program
		pkCount int
		mutex   sync.RWMutex
	}
	subjectTable struct {
		table   map[int]*program.Subject
		pkCount int
		mutex   sync.RWMutex
	}
	scheduleTable struct {
		table   map[int]*program.Schedule
		pkCount int
		mutex   sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user:     &userTable{table: make(map[int]*user.User)},
		program:  &programTable{table: make(map[int]*program.Program)},
		subject:  &subjectTable{table: make(map[int]*program.Subject)},
		schedule: &scheduleTable{table: make(map[int]*program.Schedule)},
	}
}
