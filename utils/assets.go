// utils/assets.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"
)

var assetClient *s3.Client
var assetBucket string
var cdnBaseURL string

// InitAssets configures the R2/S3 client for card artwork. The asset store is
// optional: with no R2 env set, initialization is skipped and artwork URLs
// stay empty.
func InitAssets() error {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	assetBucket = os.Getenv("R2_BUCKET_NAME")
	if accountID == "" || accessKeyID == "" {
		return nil
	}

	cdnBaseURL = os.Getenv("CDN_BASE_URL")
	if cdnBaseURL == "" {
		cdnBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load R2 config: %w", err)
	}

	assetClient = s3.NewFromConfig(cfg)
	return nil
}

// CardArtworkKey derives the stable object key for a stock's card artwork
// from its (Chinese) name, e.g. "cards/gui-zhou-mao-tai.png".
func CardArtworkKey(stockName string) string {
	return "cards/" + slug.Make(stockName) + ".png"
}

// CardArtworkURL returns the public CDN URL for a card's artwork, or "" when
// the asset store is not configured.
func CardArtworkURL(stockName string) string {
	if cdnBaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", cdnBaseURL, CardArtworkKey(stockName))
}

// UploadArtwork pushes a card artwork image to the asset bucket and returns
// its public URL. Used by seeding/admin tooling, not the request path.
func UploadArtwork(ctx context.Context, stockName string, data []byte, contentType string) (string, error) {
	if assetClient == nil {
		return "", fmt.Errorf("asset store not configured")
	}
	key := CardArtworkKey(stockName)
	_, err := assetClient.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(assetBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload artwork: %w", err)
	}
	return fmt.Sprintf("%s/%s", cdnBaseURL, key), nil
}
