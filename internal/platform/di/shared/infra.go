// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"voltmart/internal/adapters/out/cache"
	appcfg "voltmart/internal/infra/config"
	"voltmart/internal/infra/database"
	"voltmart/internal/infra/secrets"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Postgres/Firestore/FirebaseAuth/SecretManager/Redis)
// - owns env/config-resolved runtime settings
//
// Postgres is strict (the store cannot run without it). Firestore,
// Firebase Auth, Secret Manager and Redis are best-effort: a failed init
// logs a warning and the dependent feature degrades (settings fall back to
// defaults, bearer auth is rejected, catalog caching is skipped).
type Infra struct {
	Config    *appcfg.Config
	ProjectID string

	DB            *database.DB
	Firestore     *firestore.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	Secrets       *secrets.Provider
	Redis         *redis.Client

	SendGridAPIKey string
	MailFrom       string
}

func NewInfra(ctx context.Context) (*Infra, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: resolveProjectID(cfg),
		MailFrom:  cfg.MailFrom,
	}

	credFile := strings.TrimSpace(cfg.GCPCreds)
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[shared.infra] Using credentials file for GCP clients")
	} else {
		log.Printf("[shared.infra] Using Application Default Credentials (no credentials file configured)")
	}

	// 1) Optional: Secret Manager (DB password / SendGrid key indirection)
	if inf.ProjectID != "" {
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[shared.infra] WARN: secretmanager.NewClient failed: %v (falling back to plain env secrets)", err)
		} else {
			inf.SecretManager = sm
			inf.Secrets = secrets.NewProvider(sm, inf.ProjectID)
		}
	}

	dbPassword := inf.Secrets.ResolveOrFallback(ctx, cfg.DBPasswordSecret, cfg.DBPassword)
	inf.SendGridAPIKey = inf.Secrets.ResolveOrFallback(ctx, cfg.SendGridKeySecret, cfg.SendGridAPIKey)

	// 2) Postgres (strict) + migrations
	db, err := database.NewConnection(cfg.DBHost, cfg.DBPort, cfg.DBUser, dbPassword, cfg.DBName)
	if err != nil {
		_ = inf.Close()
		return nil, fmt.Errorf("shared.infra: postgres connect failed: %w", err)
	}
	inf.DB = db
	log.Printf("[shared.infra] Postgres connected host=%s db=%s", cfg.DBHost, cfg.DBName)

	if dir := strings.TrimSpace(cfg.MigrationsDir); dir != "" {
		if err := database.RunMigrations(db.Client, dir); err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: migrations failed: %w", err)
		}
	}

	// 3) Optional: Firestore (business settings document)
	if inf.ProjectID != "" {
		fsClient, err := firestore.NewClient(ctx, inf.ProjectID, clientOpts...)
		if err != nil {
			log.Printf("[shared.infra] WARN: firestore.NewClient failed: %v (settings will serve defaults)", err)
		} else {
			inf.Firestore = fsClient
			log.Printf("[shared.infra] Firestore connected project=%s", inf.ProjectID)
		}
	} else {
		log.Printf("[shared.infra] WARN: no GCP project configured (settings will serve defaults)")
	}

	// 4) Optional: Firebase Auth (bearer-token identity)
	if cfg.HasFirebase() {
		fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProject}, clientOpts...)
		if err != nil {
			log.Printf("[shared.infra] WARN: firebase app init failed: %v", err)
		} else {
			inf.FirebaseApp = fbApp
			authClient, err := fbApp.Auth(ctx)
			if err != nil {
				log.Printf("[shared.infra] WARN: firebase auth init failed: %v", err)
			} else {
				inf.FirebaseAuth = authClient
				log.Printf("[shared.infra] Firebase Auth initialized")
			}
		}
	}

	// 5) Optional: Redis (catalog page cache)
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		rdb, err := cache.NewRedisClient(addr, cfg.RedisPassword, 0)
		if err != nil {
			log.Printf("[shared.infra] WARN: redis connect failed: %v (catalog caching disabled)", err)
		} else {
			inf.Redis = rdb
			log.Printf("[shared.infra] Redis connected addr=%s", addr)
		}
	}

	return inf, nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	return nil
}

func resolveProjectID(cfg *appcfg.Config) string {
	if cfg != nil {
		if v := strings.TrimSpace(cfg.GCPProjectID); v != "" {
			return v
		}
	}
	for _, k := range []string{
		"GCP_PROJECT_ID",
		"GOOGLE_CLOUD_PROJECT",
		"FIREBASE_PROJECT_ID",
	} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
