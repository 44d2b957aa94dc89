package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

var (
	addUserName     string
	addUserEmail    string
	addUserPassword string
)

var addUserCmd = &cobra.Command{
	Use:   "adduser",
	Short: "Create a user account directly in the database",
	RunE:  runAddUser,
}

func init() {
	addUserCmd.Flags().StringVar(&addUserName, "user", "", "Username (required)")
	addUserCmd.Flags().StringVar(&addUserEmail, "email", "", "Email address (required)")
	addUserCmd.Flags().StringVar(&addUserPassword, "password", "", "Password (prompted if omitted)")
	_ = addUserCmd.MarkFlagRequired("user")
	_ = addUserCmd.MarkFlagRequired("email")
}

func runAddUser(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	password := addUserPassword
	if password == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		var err error
		password, err = readPassword(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	existing, err := repo.FindUsersByUsernameOrEmail(ctx, addUserName, addUserEmail)
	if err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("username or email already taken")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     addUserName,
		Email:        addUserEmail,
		PasswordHash: hash,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "User %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
