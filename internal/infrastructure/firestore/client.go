package firestore

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient はルートキャッシュ用のFirestoreクライアントを作成する
func NewFirestoreClient(ctx context.Context, projectID string) (*FirestoreClient, error) {
	var opts []option.ClientOption

	// Cloud Run環境ではデフォルト認証、ローカルでは認証ファイルがあれば使用
	isCloudRun := os.Getenv("K_SERVICE") != ""
	if !isCloudRun {
		if credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credentialsFile != "" {
			if _, err := os.Stat(credentialsFile); err == nil {
				log.Printf("📄 Using credentials file: %s", credentialsFile)
				opts = append(opts, option.WithCredentialsFile(credentialsFile))
			} else {
				log.Printf("⚠️ Credentials file not found: %s, trying with default authentication", credentialsFile)
			}
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	log.Printf("✅ Firestore client initialized for project: %s", projectID)

	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
