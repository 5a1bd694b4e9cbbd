package content

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lexihq/lexikb/internal/domain"
)

// S3SourceConfig holds configuration for an S3-compatible article bucket.
type S3SourceConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	UsePathStyle    bool
}

// S3Source loads articles from an S3-compatible bucket prefix.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Source creates a new S3Source with the given configuration
func NewS3Source(ctx context.Context, cfg S3SourceConfig) (*S3Source, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Source{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// LoadArticles lists the prefix and fetches every article object in key
// order. A malformed object is logged and skipped, matching the filesystem
// source's failure isolation.
func (s *S3Source) LoadArticles(ctx context.Context) ([]domain.Article, error) {
	var articles []domain.Article

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list articles: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !isArticleFile(key) {
				continue
			}

			data, err := s.fetch(ctx, key)
			if err != nil {
				log.Printf("content: skipping s3://%s/%s: %v", s.bucket, key, err)
				continue
			}

			article, err := parseArticle(path.Base(key), data)
			if err != nil {
				log.Printf("content: skipping %v", err)
				continue
			}

			articles = append(articles, article)
		}
	}

	return articles, nil
}

func (s *S3Source) fetch(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}
