package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/service"

	"github.com/spf13/cobra"
)

// passwordEnv 未传 --password 时读取的环境变量
const passwordEnv = "NEWSCTL_PASSWORD"

func newUsersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUsersCreateCommand(opts))
	cmd.AddCommand(newUsersLoginsCommand(opts))
	return cmd
}

func newUsersLoginsCommand(opts *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "logins <user-id>",
		Short: "Show recent login attempts for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || userID == 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			return withRuntime(opts, func(rt *Runtime) error {
				logs, err := rt.Container.AuthService.RecentLogins(uint(userID), limit)
				if err != nil {
					return err
				}
				return newFormatter(opts, cmd).Success(logs, func(w io.Writer) {
					for _, l := range logs {
						printf(w, "%s\t%s\t%s\t%s\n", l.CreatedAt.Format("2006-01-02 15:04:05"), l.Status, l.FailReason, l.ClientIP)
					}
				})
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max entries (1-100)")
	return cmd
}

func newUsersCreateCommand(opts *RootOptions) *cobra.Command {
	var email, username, password, displayName, role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user with any role",
		Long: `Create a user account. The operator acts as an admin, so the admin role
may be assigned directly. The password falls back to $` + passwordEnv + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if strings.TrimSpace(password) == "" {
				return errors.New("password is required (--password or $" + passwordEnv + ")")
			}
			return withRuntime(opts, func(rt *Runtime) error {
				user, err := rt.Container.AuthService.Register(service.RegisterInput{
					Email:       email,
					Password:    password,
					Username:    username,
					DisplayName: displayName,
					Role:        role,
					Requester:   &service.Session{Role: constants.RoleAdmin},
				})
				if err != nil {
					return fmt.Errorf("create user: %w", err)
				}
				return newFormatter(opts, cmd).Success(user, func(w io.Writer) {
					printf(w, "id\t%d\nemail\t%s\nusername\t%s\nrole\t%s\n", user.ID, user.Email, user.Username, user.Role)
				})
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&username, "username", "", "unique username")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&displayName, "display-name", "", "display name (defaults to username)")
	cmd.Flags().StringVar(&role, "role", constants.RoleEditor, "admin|editor|viewer")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
