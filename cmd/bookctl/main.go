// bookctl is the operator CLI: bootstrap an admin account or import a
// catalog without going through the HTTP API.
package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bookhub/internal/user"
	"bookhub/pkg/database"
	"bookhub/pkg/models"
)

var dbPath string

func main() {
	root := &cobra.Command{
		Use:   "bookctl",
		Short: "bookhub operations CLI",
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "./data/bookhub.db", "path to the sqlite database")

	root.AddCommand(createAdminCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func createAdminCmd() *cobra.Command {
	var email, username string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a user with the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if username == "" {
				username = email
			}

			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
			confirm, err := readPassword("Confirm password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			db, err := database.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db); err != nil {
				return err
			}
			if err := database.SeedDefaults(db); err != nil {
				return err
			}

			u, err := user.Create(db, models.User{
				Email: email, Username: username,
				Status: models.UserActive, EmailVerified: true,
			}, password)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			if err := user.ReplaceRoles(db, u.ID, []string{"role-admin"}); err != nil {
				return fmt.Errorf("assign admin role: %w", err)
			}

			fmt.Printf("admin %s created (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&username, "username", "", "username (defaults to email)")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <catalog.json>",
		Short: "Import a catalog JSON file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db); err != nil {
				return err
			}
			if err := database.SeedDefaults(db); err != nil {
				return err
			}

			books, err := database.LoadBooksFromJSON(args[0])
			if err != nil {
				return err
			}
			n, err := database.SeedBooks(db, books)
			if err != nil {
				return err
			}
			fmt.Printf("seeded %d of %d books\n", n, len(books))
			return nil
		},
	}
}
