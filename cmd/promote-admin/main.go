// Command promote-admin grants the admin role to a registered account.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/jobs"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/platform"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("promote-admin", flag.ExitOnError)
	email := fs.String("email", "", "Email of the account to promote")

	tool, err := platform.NewTool("promote-admin", fs, os.Args[1:])
	if err != nil {
		return err
	}
	defer tool.Close()

	if *email == "" {
		return errors.New("-email is required")
	}

	user, err := jobs.PromoteAdmin(context.Background(), repository.NewPostgresUserRepository(tool.DB), *email, tool.Logger)
	if err != nil {
		return err
	}

	fmt.Printf("%s (id %d) is an admin\n", user.Email, user.ID)

	return nil
}
