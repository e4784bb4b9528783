package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

var (
	createAdminUsername string
	createAdminEmail    string
	createAdminName     string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long: `Create an admin account directly in the store. The password is
read from stdin so it never appears in shell history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if createAdminUsername == "" || createAdminEmail == "" {
			return fmt.Errorf("--username and --email are required")
		}

		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")
		if len(password) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		ctx := context.Background()
		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		now := time.Now().UTC()
		user := &domain.User{
			ID:           domain.NewUserID(),
			Username:     createAdminUsername,
			Email:        createAdminEmail,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
			Status:       domain.StatusActive,
			FirstName:    createAdminName,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := store.Users().Create(ctx, user); err != nil {
			if err == storage.ErrAlreadyExists {
				return fmt.Errorf("username or email is already taken")
			}
			return fmt.Errorf("failed to create admin: %w", err)
		}

		fmt.Printf("Admin account created: %s (%s)\n", user.Username, user.ID)
		return nil
	},
}

var listUsersRole string

var listUsersCmd = &cobra.Command{
	Use:   "list-users",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		q := storage.ListQuery{Limit: 500}
		if listUsersRole != "" {
			q = q.WithFilter("role", listUsersRole)
		}
		q.Normalize()

		users, total, err := store.Users().List(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		if output == "json" {
			data, err := json.MarshalIndent(users, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(users) == 0 {
			fmt.Println("No users found.")
			return nil
		}

		headers := []string{"ID", "USERNAME", "EMAIL", "ROLE", "STATUS"}
		rows := make([][]string, len(users))
		for i, u := range users {
			rows[i] = []string{u.ID, u.Username, u.Email, string(u.Role), string(u.Status)}
		}
		printTable(headers, rows)
		fmt.Printf("\n%d of %d users shown\n", len(users), total)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&createAdminUsername, "username", "", "Username for the admin account")
	createAdminCmd.Flags().StringVar(&createAdminEmail, "email", "", "Email for the admin account")
	createAdminCmd.Flags().StringVar(&createAdminName, "name", "", "Display name")
	rootCmd.AddCommand(createAdminCmd)

	listUsersCmd.Flags().StringVar(&listUsersRole, "role", "", "Filter by role: Admin, Teacher or Student")
	rootCmd.AddCommand(listUsersCmd)
}
