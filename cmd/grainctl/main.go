package main

import (
	"context"
	"fmt"
	"github.com/johnewart/go-orleans-docstore/docdb"
	"github.com/johnewart/go-orleans-docstore/grains"
	"github.com/johnewart/go-orleans-docstore/silo/state/store"
	"github.com/spf13/cobra"
	"io"
	"os"
	"zombiezen.com/go/log"
)

func main() {
	ctx := context.Background()
	if err := newRootCommand(ctx).Execute(); err != nil {
		log.Errorf(ctx, "grainctl: %v", err)
		os.Exit(1)
	}
}

func newRootCommand(ctx context.Context) *cobra.Command {
	var envFile string
	var databasePath string

	root := &cobra.Command{
		Use:           "grainctl",
		Short:         "Inspect and edit the documents behind persisted grain state",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&databasePath, "db", "", "database file (overrides "+envDatabasePath+")")

	open := func(readOnly bool) (*docdb.Database, error) {
		config, err := LoadConfig(envFile)
		if err != nil {
			return nil, err
		}
		if databasePath != "" {
			config.DatabasePath = databasePath
		}

		opts := []docdb.Option{docdb.WithTimeout(config.OpenTimeout)}
		if readOnly {
			opts = append(opts, docdb.WithReadOnly())
		}
		log.Debugf(ctx, "Opening %s (read only: %v)", config.DatabasePath, readOnly)
		return docdb.Open(config.DatabasePath, opts...)
	}

	root.AddCommand(
		newCollectionsCommand(open),
		newGetCommand(open),
		newPutCommand(open),
		newDeleteCommand(open),
	)
	return root
}

type openFunc func(readOnly bool) (*docdb.Database, error)

func documentIdFromArgs(kind, key string) (docdb.DocumentID, error) {
	keyKind, err := grains.ParseKeyKind(kind)
	if err != nil {
		return docdb.DocumentID{}, err
	}
	grainId, err := grains.ParseGrainId(keyKind, key)
	if err != nil {
		return docdb.DocumentID{}, err
	}
	return store.DocumentID(grainId), nil
}

func newCollectionsCommand(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List collections and their document counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(true)
			if err != nil {
				return err
			}
			defer db.Close()
			return listCollections(cmd.OutOrStdout(), db)
		},
	}
}

func listCollections(out io.Writer, db *docdb.Database) error {
	names, err := db.CollectionNames()
	if err != nil {
		return fmt.Errorf("unable to list collections: %v", err)
	}
	for _, name := range names {
		if count, err := db.GetCollection(name).Count(); err != nil {
			return fmt.Errorf("unable to count %s: %v", name, err)
		} else {
			fmt.Fprintf(out, "%s\t%d\n", name, count)
		}
	}
	return nil
}

func newGetCommand(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <long|guid|string> <key>",
		Short: "Print the document stored for a grain",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := documentIdFromArgs(args[1], args[2])
			if err != nil {
				return err
			}
			db, err := open(true)
			if err != nil {
				return err
			}
			defer db.Close()

			if doc, found, err := db.GetCollection(args[0]).FindByID(id); err != nil {
				return fmt.Errorf("unable to read %v from %s: %v", id, args[0], err)
			} else if !found {
				return fmt.Errorf("no document %v in %s", id, args[0])
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), doc.String())
				return nil
			}
		},
	}
}

func newPutCommand(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "put <collection> <long|guid|string> <key> <json>",
		Short: "Insert or replace the document stored for a grain",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := documentIdFromArgs(args[1], args[2])
			if err != nil {
				return err
			}
			db, err := open(false)
			if err != nil {
				return err
			}
			defer db.Close()

			if inserted, err := db.GetCollection(args[0]).Upsert(id, docdb.Document(args[3])); err != nil {
				return fmt.Errorf("unable to write %v to %s: %v", id, args[0], err)
			} else if inserted {
				fmt.Fprintf(cmd.OutOrStdout(), "inserted %v\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "replaced %v\n", id)
			}
			return nil
		},
	}
}

func newDeleteCommand(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <long|guid|string> <key>",
		Short: "Delete the document stored for a grain",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := documentIdFromArgs(args[1], args[2])
			if err != nil {
				return err
			}
			db, err := open(false)
			if err != nil {
				return err
			}
			defer db.Close()

			if deleted, err := db.GetCollection(args[0]).Delete(id); err != nil {
				return fmt.Errorf("unable to delete %v from %s: %v", id, args[0], err)
			} else if deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %v\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "no document %v\n", id)
			}
			return nil
		},
	}
}
