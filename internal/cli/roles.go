package cli

import (
	"io"
	"os"
	"strings"

	"github.com/newsroom-next/internal/authz"
	"github.com/newsroom-next/internal/constants"
	"github.com/newsroom-next/internal/logger"
	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/repository"

	"github.com/spf13/cobra"
)

func newRolesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Inspect and edit role policies",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				roles, err := rt.Container.AuthzService.ListRoles()
				if err != nil {
					return err
				}
				return newFormatter(opts, cmd).Success(roles, func(w io.Writer) {
					for _, role := range roles {
						printf(w, "%s\n", role)
					}
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <role>",
		Short: "Show policies held directly by a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				policies, err := rt.Container.AuthzService.GetRolePolicies(args[0])
				if err != nil {
					return err
				}
				return printPolicies(newFormatter(opts, cmd), policies)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "grant <role> <object> <action>",
		Short: "Grant a route policy to a role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				svc := rt.Container.AuthzService
				if err := svc.GrantRolePolicy(args[0], args[1], args[2]); err != nil {
					return err
				}
				recordAudit(rt, constants.AuthzAuditActionGrant, args)
				policies, err := svc.GetRolePolicies(args[0])
				if err != nil {
					return err
				}
				return printPolicies(newFormatter(opts, cmd), policies)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke <role> <object> <action>",
		Short: "Revoke a route policy from a role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				svc := rt.Container.AuthzService
				if err := svc.RevokeRolePolicy(args[0], args[1], args[2]); err != nil {
					return err
				}
				recordAudit(rt, constants.AuthzAuditActionRevoke, args)
				policies, err := svc.GetRolePolicies(args[0])
				if err != nil {
					return err
				}
				return printPolicies(newFormatter(opts, cmd), policies)
			})
		},
	})

	var auditRole string
	var auditLimit int
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent role policy changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				filter := repository.AuthzAuditLogFilter{Limit: auditLimit}
				if strings.TrimSpace(auditRole) != "" {
					role, err := authz.NormalizeRole(auditRole)
					if err != nil {
						return err
					}
					filter.Role = role
				}
				logs, err := rt.Container.AuditLogRepo.List(filter)
				if err != nil {
					return err
				}
				return newFormatter(opts, cmd).Success(logs, func(w io.Writer) {
					for _, l := range logs {
						printf(w, "%s\t%s\t%s\t%s %s\t%s\n", l.CreatedAt.Format("2006-01-02 15:04:05"), l.Operator, l.Action, l.Method, l.Object, l.Role)
					}
				})
			})
		},
	}
	auditCmd.Flags().StringVar(&auditRole, "role", "", "only changes to this role")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "max entries")
	cmd.AddCommand(auditCmd)

	return cmd
}

// recordAudit 记录策略变更，写入失败只告警
func recordAudit(rt *Runtime, action string, args []string) {
	role, err := authz.NormalizeRole(args[0])
	if err != nil {
		return
	}
	entry := &models.AuthzAuditLog{
		Operator: operatorName(),
		Action:   action,
		Role:     role,
		Object:   authz.NormalizeObject(args[1]),
		Method:   authz.NormalizeAction(args[2]),
	}
	if err := rt.Container.AuditLogRepo.Create(entry); err != nil {
		logger.Warnw("authz_audit_write_failed", "role", role, "error", err)
	}
}

func operatorName() string {
	if name := strings.TrimSpace(os.Getenv("USER")); name != "" {
		return name
	}
	return "newsctl"
}

func printPolicies(f *Formatter, policies []authz.Policy) error {
	return f.Success(policies, func(w io.Writer) {
		for _, p := range policies {
			printf(w, "%s\t%s\t%s\n", p.Subject, p.Action, p.Object)
		}
	})
}
