package pipeline

import (
	"context"
	"errors"
	"strings"

	"pipeline/internal/stages"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg stages.Config
var logger *logrus.Logger
var ctx = context.Background()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "pipeline",
	Short:         "Test, build and deploy the Lambdas in this repository",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Fatal("pipeline failed")
	}
}

func init() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	flags := rootCmd.PersistentFlags()
	flags.Uint("account-number", 0, "Account number of AWS deployment target")
	flags.String("region", "us-east-1", "The target AWS region for the deployment")
	flags.String("app-name", "", "Microservices cluster application name (e.g. example-service, hello-world)")
	flags.String("environment", "", "Target environment = prod, nonprod, preprod, staging, dev, test, etc")
	flags.String("lambda", "all", "Which Lambda functions to test and/or build: <name-of-lambda> or all")
	flags.String("lambdas-dir", "lambdas", "Build all Lambdas in the specified directory")
	flags.Bool("confirm", false, "For destructive operations this should be set to true rather than false")
	flags.String("terraform-dir", "terraform", "Directory holding the Terraform configuration")
	flags.String("terraform-version", "1.6", "Terraform version to install")

	if err := viper.BindPFlags(flags); err != nil {
		logger.WithError(err).Fatal("failed to bind flags")
	}
}

func loadConfig() error {
	viper.SetEnvPrefix("pipeline")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.AddConfigPath(".")
	viper.SetConfigName(".pipeline")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return viper.Unmarshal(&cfg)
}

func newPipeline() *stages.Pipeline {
	entry := logger.WithField("run_id", uuid.NewString())
	return stages.New(cfg, entry)
}
