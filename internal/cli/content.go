package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/newsroom-next/internal/models"
	"github.com/newsroom-next/internal/service"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				if err := models.AutoMigrate(rt.Container.DB); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				return newFormatter(opts, cmd).Success(map[string]bool{"migrated": true}, func(w io.Writer) {
					printf(w, "migrated\n")
				})
			})
		},
	}
}

func newImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Stage posts from a CSV or JSON file",
		Long: `Stage posts for import. Files ending in .json hold either an array of posts
or an object with a "posts" array; anything else is parsed as CSV with a header row.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withRuntime(opts, func(rt *Runtime) error {
				importer := rt.Container.ImportService
				var batch *service.ImportBatch
				if strings.EqualFold(filepath.Ext(args[0]), ".json") {
					inputs, err := decodeImportJSON(raw)
					if err != nil {
						return err
					}
					batch, err = importer.Stage(cmd.Context(), inputs)
					if err != nil {
						return err
					}
				} else {
					batch, err = importer.StageCSV(cmd.Context(), string(raw))
					if err != nil {
						return err
					}
				}
				status, err := importer.BatchStatus(batch.BatchID)
				if err != nil {
					return err
				}
				return printBatch(newFormatter(opts, cmd), status)
			})
		},
	}
}

func decodeImportJSON(raw []byte) ([]service.ImportPostInput, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var inputs []service.ImportPostInput
		if err := json.Unmarshal(raw, &inputs); err != nil {
			return nil, fmt.Errorf("decode posts: %w", err)
		}
		return inputs, nil
	}
	var payload struct {
		Posts []service.ImportPostInput `json:"posts"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return payload.Posts, nil
}

func newBatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <batch-id>",
		Short: "Show import batch progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				status, err := rt.Container.ImportService.BatchStatus(args[0])
				if errors.Is(err, service.ErrNotFound) {
					return fmt.Errorf("import batch %s not found", args[0])
				}
				if err != nil {
					return err
				}
				return printBatch(newFormatter(opts, cmd), status)
			})
		},
	}
}

func printBatch(f *Formatter, status *service.ImportBatchStatus) error {
	return f.Success(status, func(w io.Writer) {
		s := status.Summary
		printf(w, "batch\t%s\n", status.BatchID)
		printf(w, "pending\t%d\nprocessing\t%d\ncompleted\t%d\nfailed\t%d\n", s.Pending, s.Processing, s.Completed, s.Failed)
		for _, item := range status.Items {
			line := fmt.Sprintf("#%d\t%s\t%s", item.ID, item.Status, item.Title)
			if item.ErrorMessage != nil {
				line += "\t" + *item.ErrorMessage
			}
			printf(w, "%s\n", line)
		}
	})
}

func newAutoPublishCommand(opts *RootOptions) *cobra.Command {
	var authorID uint
	cmd := &cobra.Command{
		Use:   "auto-publish",
		Short: "Publish posts for unpublished trending topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				author := authorID
				if author == 0 {
					admin, err := rt.Container.UserRepo.FirstAdmin()
					if err != nil {
						return err
					}
					if admin == nil {
						return errors.New("no admin user; pass --author")
					}
					author = admin.ID
				}
				result, err := rt.Container.AutoPublishService.Run(cmd.Context(), author)
				if err != nil {
					return err
				}
				return newFormatter(opts, cmd).Success(result, func(w io.Writer) {
					if result.Topics == 0 {
						printf(w, "No unpublished topics found\n")
						return
					}
					printf(w, "Successfully published %d posts\n", result.Published)
					for _, post := range result.Posts {
						printf(w, "#%d\t%s\t%s\n", post.ID, post.Slug, post.Title)
					}
				})
			})
		},
	}
	cmd.Flags().UintVar(&authorID, "author", 0, "author user id (defaults to the first admin)")
	return cmd
}

func newTrendingCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Manage trending topics",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "fetch",
		Short: "Pick topics from the source and store them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				topics, err := rt.Container.TrendingService.Fetch(cmd.Context())
				if err != nil {
					return err
				}
				return printTopics(newFormatter(opts, cmd), topics)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the latest stored topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				topics, err := rt.Container.TrendingService.Latest()
				if err != nil {
					return err
				}
				return printTopics(newFormatter(opts, cmd), topics)
			})
		},
	})
	return cmd
}

func printTopics(f *Formatter, topics []models.TrendingTopic) error {
	return f.Success(topics, func(w io.Writer) {
		for _, topic := range topics {
			state := "pending"
			if topic.IsPublished {
				state = "published"
			}
			printf(w, "#%d\t%s\t%s\n", topic.ID, state, topic.Topic)
		}
	})
}

func newPublishScheduledCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "publish-scheduled",
		Short: "Publish scheduled posts and pages that are due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				result, err := rt.Container.SchedulerService.PublishDueScheduled(cmd.Context())
				if err != nil {
					return err
				}
				return newFormatter(opts, cmd).Success(result, func(w io.Writer) {
					printf(w, "posts\t%d\npages\t%d\n", result.Posts, result.Pages)
				})
			})
		},
	}
}

func newRecoverImportsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recover-imports",
		Short: "Re-dispatch import items stuck in pending or processing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *Runtime) error {
				count, err := rt.Container.ImportService.RecoverStale(cmd.Context())
				if err != nil {
					return err
				}
				return newFormatter(opts, cmd).Success(map[string]int{"recovered": count}, func(w io.Writer) {
					printf(w, "recovered\t%d\n", count)
				})
			})
		},
	}
}
