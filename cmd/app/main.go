// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/docgate/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Document gateway: capability grants and mobile file ingestion",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-grant",
				Usage: "Issue a new capability grant and print the one-time bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "subject",
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "Subject user ID (UUID)",
					},
					&cli.StringFlag{
						Name:    "kind",
						Aliases: []string{"k"},
						Value:   "document_upload",
						Usage:   "Grant kind (document_upload, folder_access or workflow_action)",
					},
					&cli.StringFlag{
						Name:    "permissions",
						Aliases: []string{"p"},
						Value:   "document.create",
						Usage:   "Comma-separated capability strings",
					},
					&cli.StringFlag{
						Name:  "document-id",
						Usage: "Target document ID (UUID, document_upload kind only)",
					},
					&cli.StringFlag{
						Name:  "folder-id",
						Usage: "Target folder ID (UUID, folder_access kind only)",
					},
					&cli.StringFlag{
						Name:  "workflow-id",
						Usage: "Target workflow ID (UUID, workflow_action kind only)",
					},
					&cli.DurationFlag{
						Name:    "expires-in",
						Aliases: []string{"e"},
						Usage:   "Grant lifetime (e.g., 24h); defaults to the configured expiration",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateGrant(ctx, commands.CreateGrantParams{
						SubjectUserID: cmd.String("subject"),
						Kind:          cmd.String("kind"),
						Permissions:   cmd.String("permissions"),
						DocumentID:    cmd.String("document-id"),
						FolderID:      cmd.String("folder-id"),
						WorkflowID:    cmd.String("workflow-id"),
						ExpiresIn:     cmd.Duration("expires-in"),
						Format:        cmd.String("format"),
					})
				},
			},
			{
				Name:  "clean-expired-grants",
				Usage: "Delete grants that expired more than the specified days ago",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete grants that expired more than this many days ago",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "Show how many grants would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCleanExpiredGrants(
						ctx,
						cmd.Int("days"),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
