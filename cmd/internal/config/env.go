package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	defaultRegion    = "us-east-2"
	defaultSSMPrefix = "/consultacnpj/prod/"
)

// LoadEnv exports environment variables depending on GO_ENV: parameters from
// AWS SSM Parameter Store in production, the .env file otherwise.
func LoadEnv(ctx context.Context, files ...string) error {
	if os.Getenv("GO_ENV") == EnvProduction {
		return loadProdEnv(ctx)
	}

	err := godotenv.Load(files...)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("no .env file found, using the process environment")
		return nil
	}
	return err
}

func loadProdEnv(ctx context.Context) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(getenv("AWS_REGION", defaultRegion)))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	prefix := getenv("SSM_PREFIX", defaultSSMPrefix)
	n, err := LoadSSMParameters(ctx, ssm.NewFromConfig(cfg), prefix)
	if err != nil {
		return err
	}
	log.Debugf("loaded %d prod environment variables", n)
	return nil
}

// LoadSSMParameters exports every parameter under prefix as an environment
// variable named after the rest of its path, following every result page.
func LoadSSMParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return loaded, fmt.Errorf("unable to load prod environment: %w", err)
		}

		for _, param := range page.Parameters {
			key := strings.TrimPrefix(aws.ToString(param.Name), prefix)
			if key == "" {
				continue
			}
			if err = os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return loaded, fmt.Errorf("unable to set environment variable %s: %w", key, err)
			}
			loaded++
		}
	}
	return loaded, nil
}
