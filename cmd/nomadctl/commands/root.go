// Package commands implements the nomadctl operator CLI.
package commands

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"nomadpal/internal/mongodb"
	"nomadpal/internal/seed"
)

var (
	mongoURI string
	dbName   string

	client *mongo.Client
	store  *seed.MongoStore
)

func Execute() error {
	root := &cobra.Command{
		Use:          "nomadctl",
		Short:        "Operator tooling for the NomadPal database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var cfg mongodb.Config
			if err := env.Parse(&cfg); err != nil {
				return fmt.Errorf("parse config: %w", err)
			}
			if mongoURI != "" {
				cfg.URI = mongoURI
			}
			if dbName != "" {
				cfg.DBName = dbName
			}

			c, err := mongodb.NewMongoDBConnection(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			client = c
			store = seed.NewMongoStore(client.Database(cfg.DBName))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if client == nil {
				return nil
			}
			return client.Disconnect(context.Background())
		},
	}

	root.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI (default from MONGO_* env)")
	root.PersistentFlags().StringVar(&dbName, "db", "", "database name (default MONGO_DBNAME)")

	root.AddCommand(seedCmd(), resetCmd(), usersCmd())
	return root.ExecuteContext(context.Background())
}
