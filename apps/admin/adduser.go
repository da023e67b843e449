package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/scsit/ges/core/user"
)

var errStudentRole = errors.New("students sign up through the portal; use -role teacher or -role admin")

// addUser creates a staff account.
func (cli *commandLine) addUser(nu user.NewUser) error {
	ctx := context.Background()
	if err := nu.Validate(ctx, cli.validate, cli.usrSvc); err != nil {
		return err
	}
	if nu.Role == user.RoleStudent {
		return errStudentRole
	}

	usr, err := cli.usrSvc.Create(ctx, nu)
	if err != nil {
		return err
	}
	fmt.Printf("created %s %q (id %d)\n", usr.Role, usr.Username, usr.ID)
	return nil
}
