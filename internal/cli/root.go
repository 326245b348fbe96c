// Package cli 运维命令行 newsctl
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidFormats 支持的输出格式
var ValidFormats = []string{"text", "json"}

// RootOptions 全局参数
type RootOptions struct {
	Format  string
	EnvFile string
	open    Opener
}

// NewRootCommand 创建 newsctl 根命令，open 为空时按配置文件打开数据库
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}
	if opts.open == nil {
		opts.open = func() (*Runtime, error) { return OpenRuntime(opts.EnvFile) }
	}

	cmd := &cobra.Command{
		Use:           "newsctl",
		Short:         "newsroom-next operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before config.yml")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newBatchCommand(opts))
	cmd.AddCommand(newAutoPublishCommand(opts))
	cmd.AddCommand(newTrendingCommand(opts))
	cmd.AddCommand(newPublishScheduledCommand(opts))
	cmd.AddCommand(newRecoverImportsCommand(opts))
	cmd.AddCommand(newUsersCommand(opts))
	cmd.AddCommand(newRolesCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withRuntime 打开运行时并在命令结束后释放
func withRuntime(opts *RootOptions, fn func(rt *Runtime) error) error {
	rt, err := opts.open()
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}
