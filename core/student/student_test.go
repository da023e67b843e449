package student_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/program"
	"github.com/scsit/ges/core/student"
	"github.com/scsit/ges/core/user"
	inmemdb "github.com/scsit/ges/storage/database/inmem"
)

type fixture struct {
	svc      student.ServiceInterface
	users    user.Repository
	programs program.Repository
	validate *validator.Validate
	cs, it   program.Program
}

func setup(t *testing.T) fixture {
	t.Helper()
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	db := inmemdb.Open()
	f := fixture{
		users:    inmemdb.NewUserRepository(db),
		programs: inmemdb.NewProgramRepository(db),
		validate: validate,
	}
	f.svc = student.NewService(f.users, f.programs)

	ctx := context.Background()
	var err error
	f.cs, err = f.programs.CreateProgram(ctx, program.Program{Code: "CS", Name: "Computer Science"})
	require.NoError(t, err)
	f.it, err = f.programs.CreateProgram(ctx, program.Program{Code: "IT", Name: "Information Technology"})
	require.NoError(t, err)
	return f
}

func intPtr(i int) *int { return &i }

func input(first, last, studentID string, programID int) student.Input {
	return student.Input{
		FirstName: first,
		LastName:  last,
		Email:     studentID + "@school.test",
		StudentID: studentID,
		Program:   intPtr(programID),
	}
}

func (f fixture) create(t *testing.T, in student.Input) user.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, in.Validate(ctx, f.validate, f.svc, nil))
	usr, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	return usr
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var names []string
	switch e := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		for _, fe := range e {
			names = append(names, fe.Field())
		}
	case *core.ValidationError:
		for _, fe := range e.Fields {
			names = append(names, fe.Field)
		}
	default:
		t.Fatalf("not a validation error: %v", err)
	}
	return names
}

func TestCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	usr := f.create(t, input(" Ada ", "Lovelace", "S-001", f.cs.ID))
	assert.Equal(t, "Ada", usr.FirstName)
	assert.Equal(t, user.RoleStudent, usr.Role)
	assert.Equal(t, "S-001", usr.Username, "username defaults to the student ID")
	require.NotNil(t, usr.ProgramID)
	assert.Equal(t, f.cs.ID, *usr.ProgramID)
	assert.Error(t, usr.CheckPassword(""), "roster students have no usable password")

	tests := []struct {
		name  string
		in    student.Input
		field string
	}{
		{"duplicate student id", student.Input{FirstName: "Bob", LastName: "B", Email: "bob@b.test", Username: "bob", StudentID: "S-001", Program: intPtr(f.cs.ID)}, "student_id"},
		{"unknown program", input("Bob", "B", "S-002", 999), "program"},
		{"missing program", student.Input{FirstName: "Bob", LastName: "B", Email: "b@b.test", StudentID: "S-003"}, "program"},
		{"bad email", student.Input{FirstName: "Bob", LastName: "B", Email: "nope", StudentID: "S-004", Program: intPtr(f.cs.ID)}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate(ctx, f.validate, f.svc, nil)
			require.Error(t, err)
			assert.Contains(t, fieldNames(t, err), tt.field)
		})
	}
}

func TestListByProgram(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.create(t, input("Grace", "Hopper", "S-010", f.cs.ID))
	f.create(t, input("Alan", "Turing", "S-011", f.cs.ID))
	f.create(t, input("Linus", "Torvalds", "S-012", f.it.ID))

	_, err := f.users.CreateUser(ctx, user.User{Username: "prof", Email: "prof@school.test", Role: user.RoleTeacher, ProgramID: intPtr(f.cs.ID)})
	require.NoError(t, err)

	students, err := f.svc.ListByProgram(ctx, f.cs.ID, "")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Hopper", students[0].LastName)
	assert.Equal(t, "Turing", students[1].LastName)

	students, err = f.svc.ListByProgram(ctx, f.cs.ID, "tur")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "S-011", students[0].StudentID)

	_, err = f.svc.ListByProgram(ctx, 999, "")
	assert.Equal(t, student.ErrProgramNotFound, err)
}

func TestUpdateAndDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	usr := f.create(t, input("Grace", "Hopper", "S-020", f.cs.ID))
	other := f.create(t, input("Alan", "Turing", "S-021", f.cs.ID))

	t.Run("move to another program", func(t *testing.T) {
		in := input("Grace", "Hopper", "S-020", f.it.ID)
		require.NoError(t, in.Validate(ctx, f.validate, f.svc, &usr))
		updated, err := f.svc.Update(ctx, usr.ID, in)
		require.NoError(t, err)
		assert.Equal(t, f.it.ID, *updated.ProgramID)
		assert.Equal(t, usr.Username, updated.Username)
	})

	t.Run("student id taken by another student", func(t *testing.T) {
		in := input("Grace", "Hopper", "S-021", f.cs.ID)
		in.Email = "grace@school.test"
		err := in.Validate(ctx, f.validate, f.svc, &usr)
		require.Error(t, err)
		assert.Contains(t, fieldNames(t, err), "student_id")
	})

	t.Run("non students are not found", func(t *testing.T) {
		staff, err := f.users.CreateUser(ctx, user.User{Username: "admin", Email: "admin@school.test", Role: user.RoleAdmin})
		require.NoError(t, err)
		_, err = f.svc.Get(ctx, staff.ID)
		assert.Equal(t, student.ErrNotFound, err)
		assert.Equal(t, student.ErrNotFound, f.svc.Delete(ctx, staff.ID))
	})

	require.NoError(t, f.svc.Delete(ctx, other.ID))
	_, err := f.svc.Get(ctx, other.ID)
	assert.Equal(t, student.ErrNotFound, err)
}
